package game

import (
	"fmt"
	"strings"

	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/events"
	"github.com/Garsondee/hex-cadence/internal/faction"
)

// reportWindowBeats is the default sliding window for recent-behaviour reports (~30s at 120 BPM).
const reportWindowBeats = 60

// --- Snapshot types ---

// SideReport captures one side's state at one beat.
type SideReport struct {
	Alive     int
	Injured   int // health < max but > 0
	Spawning  int
	Disabled  int
	States    map[ActorState]int
	Buildings int // capturable buildings owned
	Capturing int // actors contributing to a capture
}

// SimReport is a full snapshot of the simulation at one beat.
type SimReport struct {
	Beat int64

	Player SideReport
	Enemy  SideReport

	Reservations   int
	ActiveCaptures int
	BossHealth     int // -1 when no boss is alive
	BossStunned    bool
}

// --- Reporter ---

// SimReporter collects periodic reports from the simulation and keeps match
// totals from the event bus. It can produce summaries over sliding windows.
type SimReporter struct {
	history     []SimReport
	windowBeats int64

	spawned  map[faction.Team]int
	killed   map[faction.Team]int
	damage   map[faction.Team]int
	captured map[faction.Team]int
	razed    int
	bossSeen bool
}

// NewSimReporter creates a reporter with the given window size in beats.
func NewSimReporter(windowBeats int64) *SimReporter {
	if windowBeats <= 0 {
		windowBeats = reportWindowBeats
	}
	return &SimReporter{
		windowBeats: windowBeats,
		spawned:     map[faction.Team]int{},
		killed:      map[faction.Team]int{},
		damage:      map[faction.Team]int{},
		captured:    map[faction.Team]int{},
	}
}

// Attach subscribes the reporter to a simulation's events. Call it before
// the first spawn so every actor is counted.
func (r *SimReporter) Attach(s *Sim) {
	s.Bus.SubscribeAll(arena.Nil, func(e events.Event) {
		switch e.Type {
		case events.UnitSpawned:
			r.spawned[e.Team.Side()]++
			if a, ok := s.Actor(e.Actor); ok && a.IsBoss() {
				r.bossSeen = true
			}
		case events.UnitKilled:
			r.killed[e.Team.Side()]++
		case events.UnitAttacked:
			if a, ok := s.Actor(e.Actor); ok {
				r.damage[a.Team.Side()] += e.Damage
			}
		case events.TeamChanged:
			r.captured[e.Team.Side()]++
		case events.BuildingDestroyed:
			r.razed++
		}
	})
}

// Collect gathers a snapshot from the current simulation state.
func (r *SimReporter) Collect(s *Sim) {
	report := SimReport{
		Beat:       s.CurrentBeat(),
		Player:     SideReport{States: map[ActorState]int{}},
		Enemy:      SideReport{States: map[ActorState]int{}},
		BossHealth: -1,
	}
	for _, a := range s.Actors() {
		side := report.side(a.Team)
		if side == nil {
			continue
		}
		side.Alive++
		side.States[a.State]++
		if a.Health < a.Stats.MaxHealth {
			side.Injured++
		}
		if a.spawning {
			side.Spawning++
		}
		if a.disabled {
			side.Disabled++
		}
		if a.State == StateCapturing {
			side.Capturing++
		}
		if a.IsBoss() {
			report.BossHealth = a.Health
			report.BossStunned = a.Stunned()
		}
	}
	for _, b := range s.Buildings.All() {
		if b.IsBeingCaptured() {
			report.ActiveCaptures++
		}
		if side := report.side(b.Team); side != nil && b.Capturable {
			side.Buildings++
		}
	}
	report.Reservations = s.Res.Len()
	r.history = append(r.history, report)
}

func (rpt *SimReport) side(t faction.Team) *SideReport {
	switch t.Side() {
	case faction.Player:
		return &rpt.Player
	case faction.Enemy:
		return &rpt.Enemy
	default:
		return nil
	}
}

// Latest returns the most recent report, or nil.
func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all collected reports.
func (r *SimReporter) History() []SimReport {
	return r.history
}

// Spawned returns how many actors of a side entered the battlefield.
func (r *SimReporter) Spawned(side faction.Team) int { return r.spawned[side.Side()] }

// Killed returns how many actors of a side died.
func (r *SimReporter) Killed(side faction.Team) int { return r.killed[side.Side()] }

// DamageDealt returns the unit damage a side dealt.
func (r *SimReporter) DamageDealt(side faction.Team) int { return r.damage[side.Side()] }

// Captures returns how many buildings a side took.
func (r *SimReporter) Captures(side faction.Team) int { return r.captured[side.Side()] }

// Razed returns the number of buildings destroyed.
func (r *SimReporter) Razed() int { return r.razed }

// WindowReport is an aggregated summary over a beat window.
type WindowReport struct {
	FromBeat, ToBeat int64
	SampleCount      int

	// State distribution as percentages (0-100) of live actors.
	PlayerStatePct map[ActorState]float64
	EnemyStatePct  map[ActorState]float64

	AvgPlayerAlive, AvgEnemyAlive     float64
	AvgPlayerInjured, AvgEnemyInjured float64
	AvgReservations                   float64
	AvgActiveCaptures                 float64
	StunnedSamples                    int
}

// WindowSummary aggregates the reports inside the recent window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}
	cutoff := r.history[len(r.history)-1].Beat - r.windowBeats
	var window []SimReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Beat < cutoff {
			break
		}
		window = append(window, r.history[i])
	}

	n := float64(len(window))
	wr := &WindowReport{
		FromBeat:       window[len(window)-1].Beat,
		ToBeat:         window[0].Beat,
		SampleCount:    len(window),
		PlayerStatePct: map[ActorState]float64{},
		EnemyStatePct:  map[ActorState]float64{},
	}
	var playerTotal, enemyTotal float64
	for _, rpt := range window {
		for st, c := range rpt.Player.States {
			wr.PlayerStatePct[st] += float64(c)
			playerTotal += float64(c)
		}
		for st, c := range rpt.Enemy.States {
			wr.EnemyStatePct[st] += float64(c)
			enemyTotal += float64(c)
		}
		wr.AvgPlayerAlive += float64(rpt.Player.Alive)
		wr.AvgEnemyAlive += float64(rpt.Enemy.Alive)
		wr.AvgPlayerInjured += float64(rpt.Player.Injured)
		wr.AvgEnemyInjured += float64(rpt.Enemy.Injured)
		wr.AvgReservations += float64(rpt.Reservations)
		wr.AvgActiveCaptures += float64(rpt.ActiveCaptures)
		if rpt.BossStunned {
			wr.StunnedSamples++
		}
	}
	for st := range wr.PlayerStatePct {
		wr.PlayerStatePct[st] = wr.PlayerStatePct[st] / playerTotal * 100
	}
	for st := range wr.EnemyStatePct {
		wr.EnemyStatePct[st] = wr.EnemyStatePct[st] / enemyTotal * 100
	}
	wr.AvgPlayerAlive /= n
	wr.AvgEnemyAlive /= n
	wr.AvgPlayerInjured /= n
	wr.AvgEnemyInjured /= n
	wr.AvgReservations /= n
	wr.AvgActiveCaptures /= n
	return wr
}

var reportStates = []ActorState{StateIdle, StateMoving, StateAttacking, StateCapturing}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Behaviour Report (B=%d..%d, %d samples) ===\n",
		wr.FromBeat, wr.ToBeat, wr.SampleCount)

	sb.WriteString("\n--- PLAYER State Distribution ---\n")
	for _, st := range reportStates {
		if pct := wr.PlayerStatePct[st]; pct > 0.5 {
			fmt.Fprintf(&sb, "  %-10s %5.1f%%\n", st, pct)
		}
	}
	sb.WriteString("\n--- ENEMY State Distribution ---\n")
	for _, st := range reportStates {
		if pct := wr.EnemyStatePct[st]; pct > 0.5 {
			fmt.Fprintf(&sb, "  %-10s %5.1f%%\n", st, pct)
		}
	}

	sb.WriteString("\n--- Forces ---\n")
	fmt.Fprintf(&sb, "  Player: alive=%.1f  injured=%.1f\n", wr.AvgPlayerAlive, wr.AvgPlayerInjured)
	fmt.Fprintf(&sb, "  Enemy:  alive=%.1f  injured=%.1f\n", wr.AvgEnemyAlive, wr.AvgEnemyInjured)

	sb.WriteString("\n--- Grid ---\n")
	fmt.Fprintf(&sb, "  reservations=%.1f  active_captures=%.2f  boss_stunned=%d/%d\n",
		wr.AvgReservations, wr.AvgActiveCaptures, wr.StunnedSamples, wr.SampleCount)
	return sb.String()
}

// FormatLatest returns a concise snapshot of the most recent collected report.
func (r *SimReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot B=%d ---\n", rpt.Beat)
	for _, row := range []struct {
		name string
		side SideReport
		team faction.Team
	}{{"Player", rpt.Player, faction.Player}, {"Enemy ", rpt.Enemy, faction.Enemy}} {
		fmt.Fprintf(&sb, "%s: alive=%d dead=%d injured=%d buildings=%d capturing=%d",
			row.name, row.side.Alive, r.Killed(row.team), row.side.Injured, row.side.Buildings, row.side.Capturing)
		for _, st := range reportStates {
			fmt.Fprintf(&sb, " %s=%d", st, row.side.States[st])
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "Reservations=%d  captures_in_progress=%d", rpt.Reservations, rpt.ActiveCaptures)
	if rpt.BossHealth >= 0 {
		fmt.Fprintf(&sb, "  boss_hp=%d stunned=%v", rpt.BossHealth, rpt.BossStunned)
	}
	sb.WriteByte('\n')
	return sb.String()
}
