package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/interviewer/pkg/domain"
)

// Store implements ports.LogStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.LogDocument
	mu   sync.RWMutex
	now  func() time.Time
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.LogDocument),
		now:  time.Now,
	}
}

// Persist stores a copy of doc under a fresh log id.
func (s *Store) Persist(ctx context.Context, doc *domain.LogDocument) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := domain.NewLogID(s.now())
	if _, exists := s.data[id]; exists {
		return "", domain.ErrLogExists
	}
	s.data[id] = cloneDocument(doc)
	return id, nil
}

// Load retrieves a copy of the document so callers can't mutate the store.
func (s *Store) Load(ctx context.Context, id string) (*domain.LogDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[id]
	if !ok {
		return nil, domain.ErrLogNotFound
	}
	return cloneDocument(doc), nil
}

// List returns the stored ids in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func cloneDocument(doc *domain.LogDocument) *domain.LogDocument {
	cp := *doc
	cp.Turns = make([]domain.TurnRecord, len(doc.Turns))
	copy(cp.Turns, doc.Turns)
	return &cp
}
