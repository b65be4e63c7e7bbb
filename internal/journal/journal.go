// Package journal persists the events of a match through a pluggable
// backend. Events are queued on a buffered channel and written in batches by
// a single goroutine so the beat loop never waits on the database.
package journal

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/events"
	"github.com/Garsondee/hex-cadence/internal/game"
)

const (
	defaultBuffer = 256
	batchSize     = 64
)

// Journal records one match.
type Journal struct {
	backend Backend
	log     zerolog.Logger

	match   *Match
	queue   chan EventRecord
	done    chan struct{}
	started bool
	closed  bool

	written atomic.Int64
	failed  atomic.Int64
}

// New creates a journal writing to b. buffer <= 0 selects the default queue
// length.
func New(b Backend, log zerolog.Logger, buffer int) *Journal {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Journal{
		backend: b,
		log:     log.With().Str("component", "journal").Logger(),
		queue:   make(chan EventRecord, buffer),
		done:    make(chan struct{}),
	}
}

// Start registers the match and launches the writer. It must run before
// the first Record.
func (j *Journal) Start(m *Match) error {
	if j.started {
		return fmt.Errorf("journal already started for match %d", j.match.ID)
	}
	if err := j.backend.StartMatch(m); err != nil {
		return fmt.Errorf("starting match: %w", err)
	}
	j.match = m
	j.started = true
	go j.run()
	j.log.Info().Uint("match", m.ID).Str("scenario", m.Scenario).Int64("seed", m.Seed).Msg("Journal started")
	return nil
}

// Match returns the match being recorded, or nil before Start.
func (j *Journal) Match() *Match { return j.match }

func (j *Journal) run() {
	defer close(j.done)
	batch := make([]EventRecord, 0, batchSize)
	for rec := range j.queue {
		batch = append(batch, rec)
		if len(batch) >= batchSize || len(j.queue) == 0 {
			j.flush(batch)
			batch = batch[:0]
		}
	}
	j.flush(batch)
}

func (j *Journal) flush(batch []EventRecord) {
	if len(batch) == 0 {
		return
	}
	if err := j.backend.RecordEvents(j.match.ID, batch); err != nil {
		j.failed.Add(int64(len(batch)))
		j.log.Error().Err(err).Int("events", len(batch)).Msg("Failed to write events")
		return
	}
	j.written.Add(int64(len(batch)))
}

// Record queues one event. It blocks only when the queue is full. Records
// before Start or after Finish are dropped.
func (j *Journal) Record(rec EventRecord) {
	if !j.started || j.closed {
		return
	}
	j.queue <- rec
}

// Attach records every event published on the simulation's bus.
func (j *Journal) Attach(s *game.Sim) {
	s.Bus.SubscribeAll(arena.Nil, func(e events.Event) {
		j.Record(Describe(s, e))
	})
}

// Finish drains the queue, stops the writer and stores the result. summary
// is stored as JSON when not nil.
func (j *Journal) Finish(finalBeat int64, outcome string, summary any) error {
	if !j.started || j.closed {
		return nil
	}
	j.closed = true
	close(j.queue)
	<-j.done

	now := time.Now()
	j.match.EndedAt = &now
	j.match.FinalBeat = finalBeat
	j.match.Outcome = outcome
	j.match.Events = j.written.Load()
	if summary != nil {
		raw, err := json.Marshal(summary)
		if err != nil {
			return fmt.Errorf("encoding match summary: %w", err)
		}
		j.match.Summary = datatypes.JSON(raw)
	}
	if err := j.backend.EndMatch(j.match); err != nil {
		return err
	}
	j.log.Info().Uint("match", j.match.ID).Int64("events", j.match.Events).Int64("failed", j.failed.Load()).
		Str("outcome", outcome).Msg("Journal finished")
	return nil
}

// Written is the number of events stored so far.
func (j *Journal) Written() int64 { return j.written.Load() }

// Failed is the number of events the backend rejected.
func (j *Journal) Failed() int64 { return j.failed.Load() }

// eventPayload is the type-specific part of a record.
type eventPayload struct {
	Target   string `json:"target,omitempty"`
	Building string `json:"building,omitempty"`
	Damage   int    `json:"damage,omitempty"`
	OldTeam  string `json:"oldTeam,omitempty"`
	Col      int    `json:"col"`
	Row      int    `json:"row"`
}

// Describe converts a bus event to a record, resolving handles to labels
// and building names while they still resolve.
func Describe(s *game.Sim, e events.Event) EventRecord {
	rec := EventRecord{
		Beat:  e.Beat,
		Type:  string(e.Type),
		Actor: "--",
		Team:  e.Team.String(),
	}
	if a, ok := s.Actor(e.Actor); ok {
		rec.Actor = a.Label
	}

	p := eventPayload{Damage: e.Damage, Col: e.Tile.Col, Row: e.Tile.Row}
	if !e.Target.IsNil() {
		if v, ok := s.Actor(e.Target); ok {
			p.Target = v.Label
		} else if e.Label != "" {
			p.Target = e.Label
		} else {
			p.Target = fmt.Sprintf("unit@%s", e.Tile)
		}
	}
	if b, ok := s.Buildings.Get(e.Building); ok {
		p.Building = b.Name
	} else if !e.Building.IsNil() {
		p.Building = fmt.Sprintf("building@%s", e.Tile)
	}
	if e.Type == events.TeamChanged {
		p.OldTeam = e.OldTeam.String()
	}
	raw, err := json.Marshal(p)
	if err != nil {
		raw = []byte("{}")
	}
	rec.Payload = datatypes.JSON(raw)
	return rec
}
