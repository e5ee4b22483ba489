package usecase

import (
	"sync"

	"SignalDesk/internal/domain/models"
)

// SignalStore is a newest-first, size-bounded list of signals.
//
// Order is by arrival, not by timestamp value: a pushed signal goes first even
// when its timestamp is older than entries already held.
type SignalStore struct {
	mu       sync.RWMutex
	items    []models.Signal
	capacity int
	dedup    bool
}

// StoreOption configures SignalStore.
type StoreOption func(*SignalStore)

// WithDedup toggles removal of entries sharing the same (asset, timeframe, timestamp).
// Signals with a defaulted timestamp are never deduplicated.
func WithDedup(enabled bool) StoreOption {
	return func(s *SignalStore) { s.dedup = enabled }
}

// NewSignalStore creates an empty store holding at most capacity signals.
func NewSignalStore(capacity int, opts ...StoreOption) *SignalStore {
	if capacity <= 0 {
		capacity = 20
	}
	s := &SignalStore{capacity: capacity, dedup: true}
	for _, opt := range opts {
		opt(s)
	}
	s.items = make([]models.Signal, 0, capacity)
	return s
}

// Capacity returns C_list.
func (s *SignalStore) Capacity() int { return s.capacity }

// ReplaceAll replaces the contents with the first Capacity() signals of a
// newest-first snapshot.
func (s *SignalStore) ReplaceAll(signals []models.Signal) {
	next := make([]models.Signal, 0, s.capacity)
	var seen map[models.SignalKey]struct{}
	if s.dedup {
		seen = make(map[models.SignalKey]struct{}, len(signals))
	}
	for _, sig := range signals {
		if len(next) == s.capacity {
			break
		}
		if seen != nil && sig.Keyed() {
			k := sig.Key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
		}
		next = append(next, sig)
	}

	s.mu.Lock()
	s.items = next
	s.mu.Unlock()
}

// Prepend inserts sig as the newest entry and evicts the oldest on overflow.
// It returns the evicted signal, if any.
func (s *SignalStore) Prepend(sig models.Signal) (evicted *models.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dedup && sig.Keyed() {
		k := sig.Key()
		for i := range s.items {
			if s.items[i].Keyed() && s.items[i].Key() == k {
				s.items = append(s.items[:i], s.items[i+1:]...)
				break
			}
		}
	}

	s.items = append(s.items, models.Signal{})
	copy(s.items[1:], s.items)
	s.items[0] = sig

	if len(s.items) > s.capacity {
		last := s.items[len(s.items)-1]
		evicted = &last
		s.items = s.items[:s.capacity]
	}
	return evicted
}

// All returns a copy of the contents, newest-first.
func (s *SignalStore) All() []models.Signal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Signal, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of held signals.
func (s *SignalStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
