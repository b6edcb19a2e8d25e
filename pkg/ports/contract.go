package ports

import (
	"context"
	"testing"

	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLogStoreContract runs a suite of tests to verify that a LogStore implementation
// adheres to the defined interface contract.
func RunLogStoreContract(t *testing.T, store LogStore) {
	ctx := context.Background()

	doc := &domain.LogDocument{
		ParticipantName: "contract",
		Turns: []domain.TurnRecord{
			domain.NewTurnRecord(domain.Turn{
				TurnID:             1,
				InterviewerMessage: "Привет! Расскажи про себя.",
				CandidateMessage:   "Я аналитик, пишу SQL.",
				Verdict:            domain.Verdict{Intent: domain.IntentTechnicalAnswer, Quality: domain.QualityOK, Reasoning: "fine"},
			}),
			domain.NewTurnRecord(domain.Turn{
				TurnID:             2,
				InterviewerMessage: "Что такое LEFT JOIN?",
				CandidateMessage:   "стоп",
				Verdict:            domain.FallbackVerdict(""),
			}),
		},
		FinalFeedback: "# Verdict\nNo hire.",
	}

	t.Run("Persist and Load", func(t *testing.T) {
		id, err := store.Persist(ctx, doc)
		require.NoError(t, err, "Persist should not return error")
		require.NotEmpty(t, id)

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, doc, loaded)
		assert.NoError(t, loaded.Validate())
	})

	t.Run("Distinct Ids", func(t *testing.T) {
		id1, err := store.Persist(ctx, doc)
		require.NoError(t, err)
		id2, err := store.Persist(ctx, doc)
		require.NoError(t, err)
		assert.NotEqual(t, id1, id2)

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, domain.LogPrefix+"missing")
		assert.ErrorIs(t, err, domain.ErrLogNotFound)
	})

	t.Run("Empty Turns", func(t *testing.T) {
		empty := &domain.LogDocument{ParticipantName: "nobody", Turns: []domain.TurnRecord{}, FinalFeedback: "n/a"}
		id, err := store.Persist(ctx, empty)
		require.NoError(t, err)

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, loaded.Turns)
		assert.Equal(t, "n/a", loaded.FinalFeedback)
	})
}
