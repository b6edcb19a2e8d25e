package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// farFuture is the index score of logs that never expire (2100-01-01).
const farFuture = 4102444800

// Store implements ports.LogStore using Redis.
// Documents are JSON strings; a sorted set indexes ids by expiry.
type Store struct {
	client  backend.UniversalClient
	prefix  string
	ttl     time.Duration
	locker  ports.DistributedLocker
	lockTTL time.Duration
	now     func() time.Time
}

type Option func(*Store)

// WithTTL sets the expiration for logs. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for logs.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithLocker replaces the default Redis locker guarding writes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *Store) {
		s.locker = locker
	}
}

// WithClock overrides the time source used for ids and expiry scores.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client backend.UniversalClient, opts ...Option) *Store {
	store := &Store{
		client:  client,
		prefix:  "interviewer:log:",
		lockTTL: 10 * time.Second,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(store)
	}
	if store.locker == nil {
		store.locker = NewLocker(client, store.prefix)
	}

	return store
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Persist stores doc under a new id. The write holds a distributed lock on
// the id and commits the document and its index entry in one MULTI block.
func (s *Store) Persist(ctx context.Context, doc *domain.LogDocument) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal log: %w", err)
	}

	now := s.now()
	id := domain.NewLogID(now)

	unlock, err := s.locker.Lock(ctx, id, s.lockTTL)
	if err != nil {
		return "", fmt.Errorf("failed to lock log %s: %w", id, err)
	}
	defer func() { _ = unlock(context.WithoutCancel(ctx)) }()

	exists, err := s.client.Exists(ctx, s.key(id)).Result()
	if err != nil {
		return "", fmt.Errorf("failed to check log: %w", err)
	}
	if exists > 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrLogExists, id)
	}

	score := float64(farFuture)
	if s.ttl > 0 {
		score = float64(now.Add(s.ttl).Unix())
	}

	_, err = s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Set(ctx, s.key(id), data, s.ttl)
		pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: id})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to save to redis: %w", err)
	}
	return id, nil
}

// Load retrieves a log from Redis.
func (s *Store) Load(ctx context.Context, id string) (*domain.LogDocument, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrLogNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var doc domain.LogDocument
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal log: %w", err)
	}
	return &doc, nil
}

// List returns live log ids, pruning expired index entries first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(s.now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("(%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired logs: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	return ids, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Locker returns a distributed locker sharing the store's connection.
func (s *Store) Locker(prefix string) *Locker {
	return NewLocker(s.client, prefix)
}
