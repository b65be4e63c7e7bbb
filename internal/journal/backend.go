package journal

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ErrUnknownMatch is returned for a match ID the backend never issued.
var ErrUnknownMatch = errors.New("unknown match")

// Backend stores matches and their events.
type Backend interface {
	Init() error
	Close() error

	// StartMatch assigns m.ID.
	StartMatch(m *Match) error
	RecordEvents(matchID uint, recs []EventRecord) error
	EndMatch(m *Match) error

	Matches() ([]Match, error)
	Events(matchID uint) ([]EventRecord, error)
}

// MemoryBackend keeps everything in process. It is the default when no
// database is configured.
type MemoryBackend struct {
	mu      sync.RWMutex
	matches []Match
	events  map[uint][]EventRecord
	nextID  uint
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{events: map[uint][]EventRecord{}}
}

func (b *MemoryBackend) Init() error  { return nil }
func (b *MemoryBackend) Close() error { return nil }

func (b *MemoryBackend) StartMatch(m *Match) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	m.ID = uint(len(b.matches) + 1)
	m.CreatedAt, m.UpdatedAt = now, now
	b.matches = append(b.matches, *m)
	return nil
}

func (b *MemoryBackend) RecordEvents(matchID uint, recs []EventRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if matchID == 0 || int(matchID) > len(b.matches) {
		return fmt.Errorf("%w: %d", ErrUnknownMatch, matchID)
	}
	now := time.Now()
	for _, r := range recs {
		b.nextID++
		r.ID, r.MatchID, r.CreatedAt = b.nextID, matchID, now
		b.events[matchID] = append(b.events[matchID], r)
	}
	return nil
}

func (b *MemoryBackend) EndMatch(m *Match) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m.ID == 0 || int(m.ID) > len(b.matches) {
		return fmt.Errorf("%w: %d", ErrUnknownMatch, m.ID)
	}
	m.UpdatedAt = time.Now()
	b.matches[m.ID-1] = *m
	return nil
}

func (b *MemoryBackend) Matches() ([]Match, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.matches), nil
}

func (b *MemoryBackend) Events(matchID uint) ([]EventRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.events[matchID]), nil
}
