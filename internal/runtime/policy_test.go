package runtime_test

import (
	"testing"

	"github.com/aretw0/interviewer/internal/runtime"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestPolicy_IsStopRequest(t *testing.T) {
	p := runtime.DefaultPolicy()

	assert.True(t, p.IsStopRequest("стоп"))
	assert.True(t, p.IsStopRequest("СТОП, хватит"))
	assert.True(t, p.IsStopRequest("Exit now"))
	// Substring match: a legitimate answer can trip it.
	assert.True(t, p.IsStopRequest("the loop exits when i == n"))
	assert.False(t, p.IsStopRequest("LEFT JOIN keeps all rows from the left table"))
	assert.Equal(t, "стоп", p.StopMessage())
}

func TestDecide(t *testing.T) {
	p := runtime.DefaultPolicy()
	stop := domain.Verdict{Intent: domain.IntentStop, Quality: domain.QualityOK, Reasoning: "bye"}
	ok := domain.Verdict{Intent: domain.IntentTechnicalAnswer, Quality: domain.QualityOK, Reasoning: "fine"}

	tests := []struct {
		name      string
		turnCount int
		message   string
		verdict   *domain.Verdict
		want      domain.Branch
	}{
		{"Continue", 1, "GROUP BY aggregates rows", &ok, domain.BranchContinue},
		{"Intent Stop", 1, "I think we are done", &stop, domain.BranchTerminate},
		{"Keyword", 2, "стоп", &ok, domain.BranchTerminate},
		{"Turn Cap", 8, "answer", &ok, domain.BranchTerminate},
		{"Below Cap", 7, "answer", &ok, domain.BranchContinue},
		{"No Verdict", 3, "answer", nil, domain.BranchContinue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.NewSession("Data Analyst", "Junior", "")
			s.TurnCount = tt.turnCount
			ec := &domain.ExecutionContext{CandidateMessage: tt.message, Verdict: tt.verdict}

			assert.Equal(t, tt.want, runtime.Decide(p, s, ec))
			assert.False(t, s.Stopped, "Decide must not mutate the session")
		})
	}
}

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, runtime.DefaultPolicy().Validate())
	assert.Error(t, runtime.Policy{MaxTurns: 0, StopKeywords: []string{"x"}}.Validate())
	assert.Error(t, runtime.Policy{MaxTurns: 3}.Validate())
	assert.Error(t, runtime.Policy{MaxTurns: 3, StopKeywords: []string{" "}}.Validate())
}
