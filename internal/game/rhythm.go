package game

import (
	"math"
	"time"

	"github.com/Garsondee/hex-cadence/internal/arena"
)

// DefaultBPM is the tempo used when none is configured.
const DefaultBPM = 120

// RhythmClock turns elapsed wall time into beats. Time is kept in whole
// nanoseconds so a beat that is exactly due always fires.
type RhythmClock struct {
	BPM     float64
	elapsed time.Duration // time into the current beat
	beats   int64
}

// NewRhythmClock creates a clock at bpm. Non-positive values select
// DefaultBPM.
func NewRhythmClock(bpm float64) *RhythmClock {
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	return &RhythmClock{BPM: bpm}
}

// Interval is the length of one beat in seconds.
func (c *RhythmClock) Interval() float64 {
	return 60 / c.BPM
}

func (c *RhythmClock) interval() time.Duration {
	return max(time.Duration(math.Round(60/c.BPM*float64(time.Second))), 1)
}

// Advance adds dt seconds and returns how many beats fell due.
func (c *RhythmClock) Advance(dt float64) int {
	if dt <= 0 {
		return 0
	}
	c.elapsed += time.Duration(math.Round(dt * float64(time.Second)))
	iv := c.interval()
	n := int(c.elapsed / iv)
	c.elapsed %= iv
	c.beats += int64(n)
	return n
}

// Phase is the position inside the current beat in [0,1).
func (c *RhythmClock) Phase() float64 {
	return float64(c.elapsed) / float64(c.interval())
}

// Beats returns the number of beats emitted so far.
func (c *RhythmClock) Beats() int64 { return c.beats }

// BeatHandler runs once per beat.
type BeatHandler func(beatDuration float64)

type beatEntry struct {
	owner   arena.Handle
	fn      BeatHandler
	removed bool
}

// BeatDispatcher calls registered handlers in registration order. Handlers
// pruned during a dispatch are skipped for the rest of it.
type BeatDispatcher struct {
	entries []*beatEntry
}

// Register adds a handler owned by owner. owner may be arena.Nil.
func (d *BeatDispatcher) Register(owner arena.Handle, fn BeatHandler) {
	d.entries = append(d.entries, &beatEntry{owner: owner, fn: fn})
}

// Prune removes every handler owned by owner.
func (d *BeatDispatcher) Prune(owner arena.Handle) int {
	if owner.IsNil() {
		return 0
	}
	kept := make([]*beatEntry, 0, len(d.entries))
	n := 0
	for _, e := range d.entries {
		if e.owner == owner {
			e.removed = true
			n++
			continue
		}
		kept = append(kept, e)
	}
	d.entries = kept
	return n
}

// Len returns the number of registered handlers.
func (d *BeatDispatcher) Len() int { return len(d.entries) }

// Dispatch runs one beat.
func (d *BeatDispatcher) Dispatch(beatDuration float64) {
	snapshot := d.entries
	for _, e := range snapshot {
		if e.removed {
			continue
		}
		e.fn(beatDuration)
	}
}
