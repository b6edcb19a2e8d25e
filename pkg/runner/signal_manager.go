package runner

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Interrupter exposes a context cancelled on user interrupt.
type Interrupter interface {
	Context() context.Context
	// Reset re-arms the listener after an interrupt was handled.
	Reset()
}

var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// SignalManager turns Ctrl+C and SIGTERM into context cancellation. Each
// Reset opens a fresh window so one interview can survive several interrupts.
type SignalManager struct {
	mu   sync.Mutex
	ctx  context.Context
	stop context.CancelFunc
}

// NewSignalManager returns a manager that is already listening.
func NewSignalManager() *SignalManager {
	m := new(SignalManager)
	m.Reset()
	return m
}

func (m *SignalManager) Context() context.Context {
	m.mu.Lock()
	ctx := m.ctx
	m.mu.Unlock()
	return ctx
}

func (m *SignalManager) Reset() {
	ctx, stop := signal.NotifyContext(context.Background(), interruptSignals...)
	m.mu.Lock()
	prev := m.stop
	m.ctx, m.stop = ctx, stop
	m.mu.Unlock()
	if prev != nil {
		prev()
	}
}

// Stop detaches from the OS signals for good.
func (m *SignalManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stop != nil {
		m.stop()
	}
}
