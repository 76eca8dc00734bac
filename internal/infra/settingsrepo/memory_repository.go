package settingsrepo

import (
	"context"
	"sync"

	"github.com/masjidclock/masjid-display/internal/domain/settings"
)

// MemoryStore holds the current selection in process memory, seeded from
// config at startup. Listeners fire after every successful update.
type MemoryStore struct {
	mu        sync.RWMutex
	current   settings.Selection
	listeners []func()
}

// NewMemoryStore builds a store with the given initial selection.
func NewMemoryStore(initial settings.Selection) *MemoryStore {
	return &MemoryStore{current: clone(initial)}
}

// Current implements settings.Store.
func (s *MemoryStore) Current(_ context.Context) (settings.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.current), nil
}

// Update validates and swaps the selection, then notifies listeners.
func (s *MemoryStore) Update(_ context.Context, sel settings.Selection) (settings.Selection, error) {
	if err := settings.Validate(sel); err != nil {
		return settings.Selection{}, err
	}
	s.mu.Lock()
	s.current = clone(sel)
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return clone(sel), nil
}

// Subscribe registers a change listener.
func (s *MemoryStore) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func clone(sel settings.Selection) settings.Selection {
	out := sel
	if sel.ManualAzanTimes != nil {
		out.ManualAzanTimes = make(map[string]string, len(sel.ManualAzanTimes))
		for k, v := range sel.ManualAzanTimes {
			out.ManualAzanTimes[k] = v
		}
	}
	if sel.IqamahGaps != nil {
		out.IqamahGaps = make(map[string]int, len(sel.IqamahGaps))
		for k, v := range sel.IqamahGaps {
			out.IqamahGaps[k] = v
		}
	}
	return out
}

var _ settings.Store = (*MemoryStore)(nil)
