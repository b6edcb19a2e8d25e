package runtime_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/interviewer/internal/runtime"
	"github.com/aretw0/interviewer/internal/testutils"
	"github.com/aretw0/interviewer/pkg/adapters/memory"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSink struct{ err error }

func (f failingSink) Persist(context.Context, *domain.LogDocument) (string, error) {
	return "", f.err
}

type brokenInput struct{ err error }

func (b brokenInput) Next(context.Context, string) (string, error) { return "", b.err }

func answers(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Ответ номер %d про SQL", i+1)
	}
	return out
}

func newEngine(t *testing.T, gen ports.Generator, input ports.InputSource, sink ports.LogSink, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	eng, err := runtime.NewEngine(domain.NewSession("Data Analyst", "Junior", "SQL, pandas"), gen, input, sink, opts...)
	require.NoError(t, err)
	return eng
}

func TestEngine_DataAnalystScenario(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "### Вердикт\nJunior+",
		testutils.Answer(domain.QualityStrong),
		testutils.Answer(domain.QualityStrong),
		testutils.Answer(domain.QualityStrong),
		testutils.Answer(domain.QualityWeak),
		testutils.Answer(domain.QualityOK),
	)
	input := memory.NewInput(answers(10)...)
	sink := memory.NewStore()
	eng := newEngine(t, gen, input, sink, runtime.WithParticipant("Jane"))
	ctx := context.Background()

	difficulty := []int{eng.Session().Difficulty}
	for !eng.Done() {
		node := eng.Current()
		require.NoError(t, eng.Advance(ctx))
		if node == domain.NodeGenerating {
			difficulty = append(difficulty, eng.Session().Difficulty)
		}
		if eng.Current() == domain.NodeFeedback {
			assert.Equal(t, 8, eng.Session().TurnCount, "feedback is reached exactly at the cap")
		}
	}

	assert.Equal(t, []int{1, 2, 3, 3, 2, 2, 2, 2, 2}, difficulty)

	s := eng.Session()
	assert.Equal(t, 8, s.TurnCount)
	assert.True(t, s.Stopped)
	assert.Equal(t, 1, testutils.FeedbackCalls(gen))
	assert.Equal(t, 8, testutils.ClassifierCalls(gen))
	assert.Equal(t, 8, testutils.InterviewerCalls(gen))

	turns := eng.Turns()
	require.Len(t, turns, 8)
	for i, turn := range turns {
		assert.Equal(t, i+1, turn.TurnID)
	}

	prompts := input.Prompts()
	require.Len(t, prompts, 8)
	assert.Equal(t, "Привет! Ты претендуешь на позицию Junior Data Analyst. Расскажи про себя и про свой опыт.", prompts[0])
	assert.Equal(t, "Вопрос 1", prompts[1], "the continue edge carries the reply forward as the next prompt")
	assert.Equal(t, turns[1].InterviewerMessage, prompts[1])

	require.NotEmpty(t, eng.LogID())
	doc, err := sink.Load(ctx, eng.LogID())
	require.NoError(t, err)
	assert.Equal(t, "Jane", doc.ParticipantName)
	assert.Equal(t, "### Вердикт\nJunior+", doc.FinalFeedback)
	assert.Len(t, doc.Turns, s.TurnCount)
	require.NoError(t, doc.Validate())
}

func TestEngine_ExitNow(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "feedback", testutils.Answer(domain.QualityOK))
	input := memory.NewInput("exit now", "never read")
	sink := memory.NewStore()
	eng := newEngine(t, gen, input, sink)
	ctx := context.Background()

	require.NoError(t, eng.Advance(ctx)) // greeting
	require.NoError(t, eng.Advance(ctx)) // awaiting_candidate
	assert.True(t, eng.Session().Stopped, "stop is set before the classifier runs")
	assert.Zero(t, testutils.ClassifierCalls(gen))

	require.NoError(t, eng.Run(ctx))

	turns := eng.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, 1, turns[0].TurnID)
	assert.Equal(t, "стоп", turns[0].CandidateMessage)
	assert.Equal(t, 1, eng.Session().Difficulty)
	assert.Zero(t, testutils.InterviewerCalls(gen), "no reply is generated for a stopped session")
	assert.Equal(t, 1, testutils.FeedbackCalls(gen))
	assert.Len(t, input.Prompts(), 1)
	assert.Equal(t, 1, sink.Len())
}

func TestEngine_StopKeywordShortCircuit(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "feedback", testutils.Answer(domain.QualityStrong))
	input := memory.NewInput("Первый ответ", "Второй ответ", "стоп", "unused")
	eng := newEngine(t, gen, input, memory.NewStore())

	require.NoError(t, eng.Run(context.Background()))

	s := eng.Session()
	assert.Equal(t, 3, s.TurnCount)
	assert.True(t, s.Stopped)
	assert.Equal(t, 3, s.Difficulty, "difficulty only moved for the two answered turns")
	assert.Equal(t, 2, testutils.InterviewerCalls(gen))
}

func TestEngine_IntentStop(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "feedback",
		testutils.Answer(domain.QualityOK),
		memory.Reply(testutils.VerdictJSON(domain.IntentStop, domain.QualityOK)),
	)
	eng := newEngine(t, gen, memory.NewInput("ответ", "думаю, на сегодня достаточно"), memory.NewStore())

	require.NoError(t, eng.Run(context.Background()))

	assert.Equal(t, 2, eng.Session().TurnCount)
	assert.True(t, eng.Done())
	assert.True(t, eng.Session().Stopped)
}

func TestEngine_InputClosedStops(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "feedback")
	eng := newEngine(t, gen, memory.NewInput("один", "два"), memory.NewStore())

	require.NoError(t, eng.Run(context.Background()))

	turns := eng.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "стоп", turns[2].CandidateMessage)
}

func TestEngine_BlankMessagesAreIgnored(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "feedback")
	input := memory.NewInput("   ", "", "настоящий ответ", "стоп")
	eng := newEngine(t, gen, input, memory.NewStore())

	require.NoError(t, eng.Run(context.Background()))

	turns := eng.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, "настоящий ответ", turns[0].CandidateMessage)
}

func TestEngine_InputErrorIsFatal(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "feedback")
	input := ports.InputFunc(func(context.Context, string) (string, error) {
		return "", errors.New("tty gone")
	})
	eng := newEngine(t, gen, input, memory.NewStore())

	err := eng.Run(context.Background())
	var inputErr *domain.InputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestEngine_TurnCapRespectsConfig(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "feedback")
	policy := runtime.DefaultPolicy()
	policy.MaxTurns = 3
	eng := newEngine(t, gen, memory.NewInput(answers(5)...), memory.NewStore(), runtime.WithPolicy(policy))

	require.NoError(t, eng.Run(context.Background()))
	assert.Equal(t, 3, eng.Session().TurnCount)
}

func TestEngine_StopMonotonicityAfterDone(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "feedback", testutils.Answer(domain.QualityStrong))
	eng := newEngine(t, gen, memory.NewInput("ответ", "стоп"), memory.NewStore())
	ctx := context.Background()

	require.NoError(t, eng.Run(ctx))
	require.True(t, eng.Done())

	session := eng.Session()
	turns := eng.Turns()
	calls := len(gen.Calls())

	for i := 0; i < 3; i++ {
		require.NoError(t, eng.Advance(ctx))
	}

	assert.Equal(t, session, eng.Session())
	assert.Equal(t, turns, eng.Turns())
	assert.Len(t, gen.Calls(), calls)
}

func TestEngine_GenerationErrorIsLatched(t *testing.T) {
	boom := errors.New("quota exceeded")
	gen := memory.NewGenerator().
		On(memory.UserContains(`"difficulty"`), memory.Fail(boom)).
		On(func([]domain.Message) bool { return true }, testutils.Answer(domain.QualityStrong))
	sink := memory.NewStore()
	eng := newEngine(t, gen, memory.NewInput(answers(3)...), sink)
	ctx := context.Background()

	err := eng.Run(ctx)
	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, domain.NodeGenerating, genErr.Node)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, domain.NodeGenerating, eng.Current())
	assert.Equal(t, 1, eng.Session().TurnCount)
	assert.Equal(t, 1, eng.Session().Difficulty)

	again := eng.Advance(ctx)
	assert.Same(t, err, again)
	assert.Equal(t, 1, eng.Session().TurnCount)
	assert.Zero(t, sink.Len())
}

func TestEngine_FeedbackFailurePersistsNothing(t *testing.T) {
	gen := memory.NewGenerator().
		On(memory.UserContains(`"participant_name"`), memory.Fail(errors.New("503"))).
		On(func([]domain.Message) bool { return true }, testutils.Answer(domain.QualityOK))
	sink := memory.NewStore()
	eng := newEngine(t, gen, memory.NewInput("стоп"), sink)

	err := eng.Run(context.Background())
	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, domain.NodeFeedback, genErr.Node)
	assert.Zero(t, sink.Len())
	assert.Nil(t, eng.Document())
}

func TestEngine_PersistenceErrorCarriesFeedback(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "### Вердикт\nHire")
	diskFull := errors.New("disk full")
	eng := newEngine(t, gen, memory.NewInput("ответ", "стоп"), failingSink{err: diskFull})

	err := eng.Run(context.Background())
	var persistErr *domain.PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.ErrorIs(t, err, diskFull)
	assert.Equal(t, "### Вердикт\nHire", persistErr.Feedback)
	require.NotNil(t, persistErr.Document)
	assert.Len(t, persistErr.Document.Turns, 2)
	assert.True(t, eng.Session().Stopped)
	assert.False(t, eng.Done())
}

func TestEngine_AdvanceUntilWaitingForCandidate(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "feedback")
	eng := newEngine(t, gen, memory.NewInput("ответ"), memory.NewStore())

	waiting := func(e *runtime.Engine) bool { return e.Current() == domain.NodeAwaitingCandidate }
	require.NoError(t, eng.AdvanceUntil(context.Background(), waiting))
	assert.Equal(t, domain.NodeAwaitingCandidate, eng.Current())
	assert.Contains(t, eng.Prompt(), "Junior Data Analyst")
	assert.Zero(t, eng.Session().TurnCount)
}

func TestEngine_CancelledContext(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "feedback")
	eng := newEngine(t, gen, memory.NewInput("ответ"), memory.NewStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, eng.Run(ctx), context.Canceled)
	assert.NoError(t, eng.Err(), "cancellation between steps is not latched")
}

func TestEngine_InterruptedNodeRunsAgain(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "feedback")
	eng := newEngine(t, gen, memory.NewInput("ответ про JOIN"), memory.NewStore())
	bg := context.Background()

	waiting := func(e *runtime.Engine) bool { return e.Current() == domain.NodeAwaitingCandidate }
	require.NoError(t, eng.AdvanceUntil(bg, waiting))

	cancelled, cancel := context.WithCancel(bg)
	cancel()

	err := eng.Advance(cancelled)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, eng.Err())
	assert.Equal(t, domain.NodeAwaitingCandidate, eng.Current())

	require.NoError(t, eng.Advance(bg))
	assert.Equal(t, domain.NodeClassifying, eng.Current())

	// classifying falls back on failure, so interrupt the generating node instead
	require.NoError(t, eng.Advance(bg))
	require.NoError(t, eng.Advance(bg))
	require.Equal(t, domain.NodeGenerating, eng.Current())
	before := eng.Session().Difficulty

	require.ErrorIs(t, eng.Advance(cancelled), context.Canceled)
	assert.NoError(t, eng.Err())
	assert.Equal(t, domain.NodeGenerating, eng.Current())
	assert.Equal(t, before, eng.Session().Difficulty)

	require.NoError(t, eng.Advance(bg))
	assert.Equal(t, domain.NodeDeciding, eng.Current())
	assert.Equal(t, 1, testutils.InterviewerCalls(gen))
}

func TestEngine_InputFailureIsLatched(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "feedback")
	broken := errors.New("tty gone")
	eng := newEngine(t, gen, brokenInput{err: broken}, memory.NewStore())
	bg := context.Background()

	require.NoError(t, eng.Advance(bg))
	err := eng.Advance(bg)
	var inputErr *domain.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.ErrorIs(t, eng.Err(), broken)
	assert.ErrorIs(t, eng.Advance(bg), broken)
}

func TestNewEngine_Validation(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "feedback")
	s := domain.NewSession("a", "b", "c")

	_, err := runtime.NewEngine(nil, gen, memory.NewInput(), memory.NewStore())
	assert.Error(t, err)

	_, err = runtime.NewEngine(s, gen, memory.NewInput(), memory.NewStore(), runtime.WithPolicy(runtime.Policy{}))
	assert.ErrorContains(t, err, "invalid policy")

	_, err = runtime.NewEngine(s, gen, memory.NewInput(), memory.NewStore(), runtime.WithGreetingTemplate("{{.Missing}}"))
	assert.ErrorContains(t, err, "greeting")
}
