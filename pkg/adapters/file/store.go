package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/interviewer/pkg/domain"
)

// DefaultDir is where logs go when no directory is configured.
const DefaultDir = "logs"

// Store implements ports.LogStore using the local filesystem.
// Each interview log is a JSON file named after its id.
type Store struct {
	BasePath string
	now      func() time.Time
}

// New creates a Store rooted at basePath, creating the directory if needed.
// If basePath is empty, it defaults to "logs".
func New(basePath string) (*Store, error) {
	if basePath == "" {
		basePath = DefaultDir
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to ensure log directory: %w", err)
	}
	return &Store{BasePath: basePath, now: time.Now}, nil
}

// Persist writes doc to a new file atomically.
// It writes to a temporary file first, syncs via fsync, and then links it to
// the destination, which fails instead of overwriting an existing log.
func (s *Store) Persist(ctx context.Context, doc *domain.LogDocument) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal log: %w", err)
	}

	id := domain.NewLogID(s.now())
	destPath := s.path(id)

	// Same directory keeps the temp file on the destination filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+id+"-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return "", fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return "", fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Link(tmpPath, destPath); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrLogExists, id)
		}
		return "", fmt.Errorf("failed to publish log file: %w", err)
	}
	return id, nil
}

// Load reads a log by id.
func (s *Store) Load(ctx context.Context, id string) (*domain.LogDocument, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("invalid log id %q", id)
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrLogNotFound
		}
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	var doc domain.LogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal log: %w", err)
	}
	return &doc, nil
}

// List returns all log ids in chronological order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || !strings.HasPrefix(name, domain.LogPrefix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.BasePath, id+".json")
}
