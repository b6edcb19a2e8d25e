package ports

import (
	"context"

	"github.com/aretw0/interviewer/pkg/domain"
)

// LogSink persists a finished interview log.
// Persist is called at most once per session and must be all-or-nothing:
// either the complete document is stored under the returned id or nothing is.
type LogSink interface {
	Persist(ctx context.Context, doc *domain.LogDocument) (id string, err error)
}

// LogReader reads previously persisted logs.
type LogReader interface {
	// Load returns domain.ErrLogNotFound if id does not exist.
	Load(ctx context.Context, id string) (*domain.LogDocument, error)

	// List returns the stored ids in ascending (chronological) order.
	List(ctx context.Context) ([]string, error)
}

// LogStore is a sink that can also be read back.
type LogStore interface {
	LogSink
	LogReader
}
