package task

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"snipx-service/pkg/logger"
)

// BackgroundTask represents a long-running background process (consumer, sweeper, cron).
type BackgroundTask interface {
	Name() string
	Start(ctx context.Context) error
	Stop() error
}

// Manager starts and stops a set of background tasks together.
type Manager struct {
	mu      sync.Mutex
	tasks   []BackgroundTask
	started []BackgroundTask
	cancel  context.CancelFunc
}

var defaultManager = &Manager{}

// Register adds a task to the default manager; call before StartAll.
func Register(t BackgroundTask) { defaultManager.Register(t) }

// StartAll starts every task registered on the default manager.
func StartAll(ctx context.Context) error { return defaultManager.StartAll(ctx) }

// StopAll stops the default manager's tasks.
func StopAll() error { return defaultManager.StopAll() }

func (m *Manager) Register(t BackgroundTask) {
	if t == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, t)
}

// StartAll starts tasks in registration order. On failure the tasks already started are
// stopped again and the error is returned. Calling it twice is a no-op.
func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	for _, t := range m.tasks {
		if err := t.Start(runCtx); err != nil {
			m.stopLocked()
			return fmt.Errorf("start task %s: %w", t.Name(), err)
		}
		m.started = append(m.started, t)
		logger.Infof("Background task started name=%s", t.Name())
	}
	return nil
}

func (m *Manager) StopAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked()
}

func (m *Manager) stopLocked() error {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	var errs []error
	for i := len(m.started) - 1; i >= 0; i-- {
		t := m.started[i]
		if err := t.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop task %s: %w", t.Name(), err))
		}
	}
	m.started = nil
	return errors.Join(errs...)
}
