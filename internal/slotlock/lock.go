// Package slotlock provides per-slot mutual exclusion with a bounded wait.
package slotlock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtgrid/internal/models"
)

// ErrBusy is returned when a slot lock cannot be acquired within MaxWait.
var ErrBusy = errors.New("slot lock busy")

// Config holds lock configuration.
type Config struct {
	MaxWait time.Duration // Longest time Acquire waits for all keys (default: 2s)
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxWait: 2 * time.Second,
	}
}

// entry is the lock for one slot. sem has capacity one; refs counts holders
// and waiters so idle entries can be dropped from the map.
type entry struct {
	sem  chan struct{}
	refs int
}

// Manager hands out locks keyed by (resource, date, hour). Keys never share a
// lock, so work on different slots proceeds in parallel.
type Manager struct {
	config *Config
	mu     sync.Mutex
	locks  map[models.SlotKey]*entry
}

// New creates a lock manager with the given config.
func New(cfg *Config) *Manager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = DefaultConfig().MaxWait
	}
	return &Manager{
		config: cfg,
		locks:  make(map[models.SlotKey]*entry),
	}
}

// Acquire locks every key, in sorted order, waiting at most MaxWait in total.
// On success the returned release func unlocks all of them; it is safe to call
// more than once. On timeout nothing stays locked and ErrBusy is returned.
func (m *Manager) Acquire(ctx context.Context, keys ...models.SlotKey) (func(), error) {
	keys = models.SortKeys(keys)
	if len(keys) == 0 {
		return func() {}, nil
	}

	timer := time.NewTimer(m.config.MaxWait)
	defer timer.Stop()

	held := make([]models.SlotKey, 0, len(keys))
	for _, key := range keys {
		e := m.ref(key)
		select {
		case e.sem <- struct{}{}:
			held = append(held, key)
		case <-timer.C:
			m.unref(key)
			m.unlock(held)
			log.Ctx(ctx).Debug().
				Str("slot", key.String()).
				Dur("max_wait", m.config.MaxWait).
				Msg("Slot lock wait exceeded")
			return nil, ErrBusy
		case <-ctx.Done():
			m.unref(key)
			m.unlock(held)
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() { m.unlock(held) })
	}, nil
}

// Len reports how many slots currently have holders or waiters.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

func (m *Manager) ref(key models.SlotKey) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		m.locks[key] = e
	}
	e.refs++
	return e
}

func (m *Manager) unref(key models.SlotKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.locks[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(m.locks, key)
	}
}

// unlock releases keys in reverse acquisition order.
func (m *Manager) unlock(keys []models.SlotKey) {
	for i := len(keys) - 1; i >= 0; i-- {
		m.mu.Lock()
		e := m.locks[keys[i]]
		m.mu.Unlock()
		if e != nil {
			<-e.sem
		}
		m.unref(keys[i])
	}
}
