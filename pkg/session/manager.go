package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/interviewer"
	"github.com/aretw0/interviewer/internal/logging"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/ports"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds how many finished interviews stay readable.
const DefaultCacheSize = 256

// DefaultLockTTL is the distributed lock lease per operation.
const DefaultLockTTL = 30 * time.Second

// ErrEmptyMessage is returned by Send for blank candidate messages.
var ErrEmptyMessage = errors.New("candidate message is empty")

// Factory builds an engine for profile reading candidate messages from input.
type Factory func(profile interviewer.Profile, input ports.InputSource) (*interviewer.Engine, error)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

type live struct {
	engine *interviewer.Engine
	inbox  *inbox
}

// Manager hosts interviews by id.
type Manager struct {
	factory Factory

	mu       sync.Mutex
	locks    map[string]*lockEntry
	active   map[string]*live
	finished *lru.Cache[string, interviewer.Status]

	cacheSize int
	lockTTL   time.Duration
	locker    ports.DistributedLocker
	logger    *slog.Logger
	newID     func() string
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock lease.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithCacheSize bounds the finished-interview cache.
func WithCacheSize(n int) Option {
	return func(m *Manager) {
		m.cacheSize = n
	}
}

// WithIDGenerator overrides interview id generation (uuid by default).
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager creates a Manager that builds engines with factory.
func NewManager(factory Factory, opts ...Option) (*Manager, error) {
	if factory == nil {
		return nil, errors.New("session: factory is required")
	}
	m := &Manager{
		factory:   factory,
		locks:     make(map[string]*lockEntry),
		active:    make(map[string]*live),
		cacheSize: DefaultCacheSize,
		lockTTL:   DefaultLockTTL,
		logger:    logging.NewNop(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	cache, err := lru.New[string, interviewer.Status](m.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	m.finished = cache
	return m, nil
}

// Start creates an interview and runs it up to the first candidate turn.
func (m *Manager) Start(ctx context.Context, profile interviewer.Profile) (string, interviewer.Status, error) {
	in := &inbox{}
	engine, err := m.factory(profile, in)
	if err != nil {
		return "", interviewer.Status{}, err
	}

	id := m.newID()
	var st interviewer.Status
	err = m.WithLock(ctx, id, func(ctx context.Context) error {
		m.mu.Lock()
		m.active[id] = &live{engine: engine, inbox: in}
		m.mu.Unlock()
		st, err = m.settle(ctx, id, engine)
		return err
	})
	m.logger.Info("interview started", "interview_id", id, "position", profile.Position, "grade", profile.TargetGrade)
	return id, st, err
}

// Send delivers one candidate message and advances until the next question or the end.
func (m *Manager) Send(ctx context.Context, id, message string) (interviewer.Status, error) {
	if strings.TrimSpace(message) == "" {
		return interviewer.Status{}, ErrEmptyMessage
	}
	return m.step(ctx, id, func(lv *live) { lv.inbox.push(message) })
}

// Finish asks the interview to stop; feedback is generated and the log persisted.
func (m *Manager) Finish(ctx context.Context, id string) (interviewer.Status, error) {
	return m.step(ctx, id, func(lv *live) { lv.inbox.close() })
}

func (m *Manager) step(ctx context.Context, id string, feed func(*live)) (interviewer.Status, error) {
	var st interviewer.Status
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		lv, err := m.lookup(id)
		if err != nil {
			return err
		}
		st = lv.engine.Status()
		if st.Err != nil {
			return st.Err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		// Once the message is queued the turn runs to completion even if the
		// caller goes away; generation calls carry their own timeout.
		run := context.WithoutCancel(ctx)
		// A cancelled Start can leave the engine short of the awaiting node.
		if !st.Waiting() {
			if st, err = m.settle(run, id, lv.engine); err != nil {
				return err
			}
			if st.Done {
				return domain.ErrEngineFinished
			}
		}
		feed(lv)
		if err := lv.engine.Advance(run); err != nil {
			st = lv.engine.Status()
			return err
		}
		st, err = m.settle(run, id, lv.engine)
		return err
	})
	return st, err
}

// settle advances engine until it waits for input or finishes.
func (m *Manager) settle(ctx context.Context, id string, engine *interviewer.Engine) (interviewer.Status, error) {
	err := engine.AdvanceUntil(ctx, interviewer.Status.Waiting)
	st := engine.Status()
	if err != nil {
		m.logger.Warn("interview stalled", "interview_id", id, "node", st.Node, "err", err)
		return st, err
	}
	if st.Done {
		m.mu.Lock()
		delete(m.active, id)
		m.mu.Unlock()
		m.finished.Add(id, st)
		m.logger.Info("interview finished", "interview_id", id, "log_id", st.LogID, "turns", len(st.Turns))
	}
	return st, nil
}

// Get returns the current status of an active or recently finished interview.
func (m *Manager) Get(_ context.Context, id string) (interviewer.Status, error) {
	m.mu.Lock()
	lv, ok := m.active[id]
	m.mu.Unlock()
	if ok {
		entry := m.acquire(id)
		entry.mu.Lock()
		st := lv.engine.Status()
		entry.mu.Unlock()
		m.release(id)
		return st, nil
	}
	if st, ok := m.finished.Get(id); ok {
		return st, nil
	}
	return interviewer.Status{}, domain.ErrInterviewNotFound
}

// Active lists the ids of interviews still in progress.
func (m *Manager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.active))
	for id := range m.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Manager) lookup(id string) (*live, error) {
	m.mu.Lock()
	lv, ok := m.active[id]
	m.mu.Unlock()
	if ok {
		return lv, nil
	}
	if m.finished.Contains(id) {
		return nil, domain.ErrEngineFinished
	}
	return nil, domain.ErrInterviewNotFound
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// WithLock executes fn while holding the lock for the interview.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()
	ctx = withInterviewID(ctx, id)

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"interview_id", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
