package ocr

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

var ErrClosed = errors.New("ocr manager closed")

// Manager owns at most one live engine, keyed by language. Acquiring a
// different language waits for outstanding leases, then shuts the current
// engine down and starts a new one. While such a switch is queued, new
// leases in the current language wait too.
type Manager struct {
	factory Factory

	mu     sync.Mutex
	cond   *sync.Cond
	lang   Language
	engine Engine
	users  int
	queued map[Language]int
	closed bool
}

func NewManager(factory Factory) *Manager {
	m := &Manager{factory: factory, queued: map[Language]int{}}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Lease is a scoped hold on the manager's engine.
type Lease struct {
	Engine
	m    *Manager
	once sync.Once
}

// Release returns the lease. It is safe to call more than once.
func (l *Lease) Release() {
	l.once.Do(func() {
		l.m.mu.Lock()
		l.m.users--
		l.m.cond.Broadcast()
		l.m.mu.Unlock()
	})
}

// Close on a lease releases it; the engine itself stays with the manager.
func (l *Lease) Close() error {
	l.Release()
	return nil
}

// Acquire leases the engine for lang. The caller must Release the lease.
// A caller waiting for a language switch gives up when ctx is done.
func (m *Manager) Acquire(ctx context.Context, lang Language) (*Lease, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() {
		m.mu.Lock()
		m.cond.Broadcast()
		m.mu.Unlock()
	})
	defer stop()

	m.mu.Lock()
	defer m.mu.Unlock()
	queued := false
	defer func() {
		if queued {
			m.queued[lang]--
			m.cond.Broadcast()
		}
	}()
	for !m.readyLocked(lang) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if m.lang != lang && !queued {
			queued = true
			m.queued[lang]++
		}
		m.cond.Wait()
	}
	if m.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.engine != nil && m.lang != lang {
		log.Printf("ocr: switching engine %s -> %s", m.lang, lang)
		if err := m.shutdownLocked(); err != nil {
			log.Printf("ocr: closing %s engine: %v", m.lang, err)
		}
	}
	if m.engine == nil {
		e, err := m.factory(lang)
		if err != nil {
			return nil, fmt.Errorf("starting %s engine: %w", lang, err)
		}
		m.engine, m.lang = e, lang
	}
	m.users++
	return &Lease{Engine: m.engine, m: m}, nil
}

// readyLocked reports whether a lease for lang can be granted now.
func (m *Manager) readyLocked(lang Language) bool {
	switch {
	case m.closed, m.engine == nil:
		return true
	case m.lang != lang:
		return m.users == 0
	}
	for l, n := range m.queued {
		if l != m.lang && n > 0 {
			return false
		}
	}
	return true
}

func (m *Manager) shutdownLocked() error {
	if m.engine == nil {
		return nil
	}
	err := m.engine.Close()
	m.engine, m.lang = nil, ""
	return err
}

// Language reports the language of the live engine, if any.
func (m *Manager) Language() (Language, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lang, m.engine != nil
}

// Close waits for outstanding leases, shuts the engine down, and refuses
// further acquisitions.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.cond.Broadcast()
	for m.users > 0 {
		m.cond.Wait()
	}
	return m.shutdownLocked()
}
