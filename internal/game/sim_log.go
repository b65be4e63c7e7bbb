package game

import (
	"fmt"
	"strings"

	"github.com/Garsondee/hex-cadence/internal/faction"
)

// SimLogEntry is one recorded event of a simulation run.
type SimLogEntry struct {
	Beat     int64
	Actor    string  // label e.g. "A1", "E3", or "--" for global events
	Team     string  // "player", "enemy", or "--"
	Category string  // state, move, combat, capture, spawn, buff, boss, life, event
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[B=042] A1   move      step             (2,3) → (3,3)
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[B=%03d] %-4s %-9s %-16s %s",
		e.Beat, e.Actor, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during a simulation run. Unlike
// EventLog (UI ring-buffer), SimLog is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-beat position and
// counter entries are also recorded (useful for detailed debugging).
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(beat int64, actor, team, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Beat:     beat,
		Actor:    actor,
		Team:     team,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(beat int64, actor, team, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(beat, actor, team, category, key, value, numVal)
}

// Trace records actor narrative emitted by the simulation.
func (sl *SimLog) Trace(beat int64, a *Actor, category, key, value string, num float64) {
	label, team := "--", "--"
	if a != nil {
		label, team = a.Label, a.Team.String()
	}
	sl.Add(beat, label, team, category, key, value, num)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterActor returns entries for a specific actor label.
func (sl *SimLog) FilterActor(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Actor == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterBeatRange returns entries within [from, to] inclusive.
func (sl *SimLog) FilterBeatRange(from, to int64) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Beat >= from && e.Beat <= to {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a beat range.
func (sl *SimLog) FormatRange(from, to int64) string {
	var sb strings.Builder
	for _, e := range sl.FilterBeatRange(from, to) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the simulation state.
func (sl *SimLog) Summary(s *Sim) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at B=%03d ---\n", s.CurrentBeat())

	states := map[faction.Team]map[ActorState]int{}
	for _, a := range s.Actors() {
		side := a.Team.Side()
		if states[side] == nil {
			states[side] = map[ActorState]int{}
		}
		states[side][a.State]++
	}
	for _, side := range []faction.Team{faction.Player, faction.Enemy} {
		counts, ok := states[side]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%s states: ", side)
		for _, st := range []ActorState{StateIdle, StateMoving, StateAttacking, StateCapturing} {
			if n := counts[st]; n > 0 {
				fmt.Fprintf(&sb, "%s=%d  ", st, n)
			}
		}
		sb.WriteByte('\n')
	}

	fmt.Fprintf(&sb, "Alive: player=%d  enemy=%d\n", s.CountAlive(faction.Player), s.CountAlive(faction.Enemy))

	captures := 0
	for _, b := range s.Buildings.All() {
		if sess := b.Session(); sess != nil {
			fmt.Fprintf(&sb, "Capture: %s by %s %d/%d (%d units)\n",
				b.Name, sess.Team, sess.Progress, b.BeatsToCapture, len(sess.Contributors))
			captures++
		}
	}
	if captures == 0 {
		sb.WriteString("Capture: none\n")
	}
	fmt.Fprintf(&sb, "Reservations: %d\n", s.Res.Len())
	return sb.String()
}
