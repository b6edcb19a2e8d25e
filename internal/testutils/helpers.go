package testutils

import (
	"fmt"
	"testing"

	"github.com/aretw0/interviewer/pkg/adapters/memory"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/prompts"
)

// VerdictJSON renders a classifier response with the given intent and quality.
func VerdictJSON(intent domain.Intent, quality domain.Quality) string {
	return fmt.Sprintf(`{"intent":%q,"hallucination":false,"answer_quality":%q,"reasoning":"scripted","correct_fact":null}`, intent, quality)
}

// Answer is shorthand for a technical_answer verdict of the given quality.
func Answer(quality domain.Quality) memory.Response {
	return memory.Reply(VerdictJSON(domain.IntentTechnicalAnswer, quality))
}

// ScriptedBackend returns a generator answering the classifier with verdicts,
// the interviewer with numbered questions and the feedback call with feedback.
func ScriptedBackend(t *testing.T, feedback string, verdicts ...memory.Response) *memory.Generator {
	t.Helper()

	questions := make([]memory.Response, 0, 16)
	for i := 1; i <= 16; i++ {
		questions = append(questions, memory.Reply(fmt.Sprintf("Вопрос %d", i)))
	}
	if len(verdicts) == 0 {
		verdicts = []memory.Response{Answer(domain.QualityOK)}
	}

	return memory.NewGenerator().
		On(memory.ForPrompt(prompts.ClassifierSystemPrompt), verdicts...).
		On(memory.ForPrompt(prompts.InterviewerSystemPrompt), questions...).
		On(memory.ForPrompt(prompts.FeedbackSystemPrompt), memory.Reply(feedback))
}

// ClassifierCalls counts classifier requests seen by gen.
func ClassifierCalls(gen *memory.Generator) int {
	return gen.CallsMatching(memory.ForPrompt(prompts.ClassifierSystemPrompt))
}

// InterviewerCalls counts dialogue generator requests seen by gen.
func InterviewerCalls(gen *memory.Generator) int {
	return gen.CallsMatching(memory.ForPrompt(prompts.InterviewerSystemPrompt))
}

// FeedbackCalls counts feedback synthesizer requests seen by gen.
func FeedbackCalls(gen *memory.Generator) int {
	return gen.CallsMatching(memory.ForPrompt(prompts.FeedbackSystemPrompt))
}
