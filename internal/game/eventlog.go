package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/events"
	"github.com/Garsondee/hex-cadence/internal/faction"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 11
)

// EventEntry is a single line in the event log.
type EventEntry struct {
	Beat    int64
	Label   string // actor that caused the event, "--" when none
	Team    faction.Team
	Message string
}

// EventLog is a ring buffer of gameplay events rendered on-screen.
type EventLog struct {
	entries []EventEntry
	head    int
	count   int
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{
		entries: make([]EventEntry, logMaxEntries),
	}
}

// Attach feeds every event published by s into the log.
func (el *EventLog) Attach(s *Sim) {
	s.Bus.SubscribeAll(arena.Nil, func(e events.Event) {
		label, team := "--", e.Team
		if a, ok := s.Actor(e.Actor); ok {
			label, team = a.Label, a.Team
		}
		el.Add(e.Beat, label, team, describeEvent(s, e))
	})
}

// describeEvent renders an event for the panel. Actors already gone by the
// time the event is published are shown by the label the event carries, or
// by tile.
func describeEvent(s *Sim, e events.Event) string {
	name := func(h arena.Handle) string {
		if a, ok := s.Actor(h); ok {
			return a.Label
		}
		if e.Label != "" {
			return e.Label
		}
		return "unit@" + e.Tile.String()
	}
	building := func() string {
		if b, ok := s.Buildings.Get(e.Building); ok {
			return b.Name
		}
		return "building@" + e.Tile.String()
	}
	switch e.Type {
	case events.UnitKilled:
		return "killed " + name(e.Target)
	case events.UnitAttacked:
		return fmt.Sprintf("hit %s for %d", name(e.Target), e.Damage)
	case events.BuildingAttacked:
		return fmt.Sprintf("hit %s for %d", building(), e.Damage)
	case events.BuildingDestroyed:
		return building() + " destroyed"
	case events.ObjectiveCompleted:
		return "captured " + building()
	case events.TeamChanged:
		return fmt.Sprintf("%s %s -> %s", building(), e.OldTeam, e.Team)
	case events.UnitSpawned:
		return "spawned at " + e.Tile.String()
	case events.CaptureStarted:
		return "capturing " + building()
	case events.UnitStunned:
		return "stunned"
	default:
		return string(e.Type)
	}
}

// Add appends an entry to the log.
func (el *EventLog) Add(beat int64, label string, team faction.Team, msg string) {
	el.entries[el.head] = EventEntry{
		Beat:    beat,
		Label:   label,
		Team:    team,
		Message: msg,
	}
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (el *EventLog) Recent() []EventEntry {
	result := make([]EventEntry, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + logMaxEntries) % logMaxEntries
		result[i] = el.entries[idx]
	}
	return result
}

// Draw renders the event log panel on the right side of the screen.
func (el *EventLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	// Title bar.
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENT LOG", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 50, G: 80, B: 50, A: 200}, false)

	entries := el.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 24) / logLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}
	visible := entries[startIdx:]
	recent := 3 // how many latest entries to highlight

	y := 20
	for i, e := range visible {
		if i >= len(visible)-recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, teamColor(e.Team), false)

		line := fmt.Sprintf("%4d [%s] %s", e.Beat, e.Label, e.Message)
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += logLineHeight
	}
}
