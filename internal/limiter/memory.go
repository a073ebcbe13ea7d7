package limiter

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	fails        int
	windowStart  time.Time
	blockedUntil time.Time
}

// Memory is an in-process fixed-window limiter. The server holds no
// persistent state, so lockouts reset with the process.
type Memory struct {
	mu       sync.Mutex
	window   time.Duration
	maxFails int
	blockFor time.Duration
	entries  map[string]*entry

	now func() time.Time // overridable in tests
}

// NewMemory constructs an in-memory limiter.
func NewMemory(window time.Duration, maxFails int, blockFor time.Duration) *Memory {
	return &Memory{
		window:   window,
		maxFails: maxFails,
		blockFor: blockFor,
		entries:  map[string]*entry{},
		now:      time.Now,
	}
}

var _ Limiter = (*Memory)(nil)

// Allow reports whether login is currently allowed for the given address hash.
func (m *Memory) Allow(_ context.Context, ipHash []byte) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[string(ipHash)]
	if !ok {
		return true, 0, nil
	}
	if now := m.now(); e.blockedUntil.After(now) {
		return false, e.blockedUntil.Sub(now), nil
	}
	return true, 0, nil
}

// Success resets counters for the given address hash.
func (m *Memory) Success(_ context.Context, ipHash []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, string(ipHash))
	return nil
}

// Failure records a failed attempt; reaching the threshold within the
// window places a temporary block.
func (m *Memory) Failure(_ context.Context, ipHash []byte) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.entries[string(ipHash)]
	if !ok || now.Sub(e.windowStart) > m.window {
		e = &entry{windowStart: now}
		m.entries[string(ipHash)] = e
	}
	e.fails++
	if e.fails >= m.maxFails {
		e.blockedUntil = now.Add(m.blockFor)
		return true, m.blockFor, nil
	}
	return false, 0, nil
}
