package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/interviewer/pkg/adapters/memory"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunLogStoreContract(t, store)
}

func TestMemoryStore_RejectsBrokenLedger(t *testing.T) {
	store := memory.NewStore()
	_, err := store.Persist(context.Background(), &domain.LogDocument{
		Turns: []domain.TurnRecord{{TurnID: 2}},
	})
	assert.ErrorIs(t, err, domain.ErrLedgerOutOfOrder)
	assert.Zero(t, store.Len())
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	doc := &domain.LogDocument{ParticipantName: "a", Turns: []domain.TurnRecord{{TurnID: 1, UserMessage: "hi"}}}

	id, err := store.Persist(context.Background(), doc)
	require.NoError(t, err)
	doc.Turns[0].UserMessage = "changed"

	loaded, err := store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "hi", loaded.Turns[0].UserMessage)
}
