package game

import (
	"fmt"
	"strings"

	"github.com/Garsondee/hex-cadence/internal/faction"
)

// defaultReportBeats is how far back an actor report looks by default.
const defaultReportBeats = 120

// actorLogSummary counts what an actor did inside a beat window.
type actorLogSummary struct {
	steps        int
	stuckBeats   int
	maxStuckRun  int
	forced       int
	attacks      int
	hitsTaken    int
	damageTaken  int
	captureBeats int
	stateChanges int
	staleTargets int
}

func summarizeActorLog(entries []SimLogEntry) actorLogSummary {
	var res actorLogSummary
	stuckRun := 0
	for _, e := range entries {
		switch e.Category + "/" + e.Key {
		case "move/step":
			res.steps++
			stuckRun = 0
		case "move/stuck":
			res.stuckBeats++
			stuckRun++
			res.maxStuckRun = max(res.maxStuckRun, stuckRun)
		case "move/forced":
			res.forced++
			stuckRun = 0
		case "combat/attack", "combat/attack_building":
			res.attacks++
		case "combat/hit":
			res.hitsTaken++
			res.damageTaken += int(e.NumVal)
		case "capture/beat":
			res.captureBeats++
		case "state/change":
			res.stateChanges++
		case "combat/stale_target":
			res.staleTargets++
		}
	}
	return res
}

// reportStage is a run of consecutive beats spent in one state.
type reportStage struct {
	state     string
	startBeat int64
	endBeat   int64
}

// buildStages splits an actor's state changes into stages ending at to.
func buildStages(entries []SimLogEntry, from, to int64, current ActorState) []reportStage {
	var stages []reportStage
	start := from
	for _, e := range entries {
		if e.Category != "state" || e.Key != "change" {
			continue
		}
		prev, _, ok := strings.Cut(e.Value, " → ")
		if !ok {
			continue
		}
		stages = append(stages, reportStage{state: prev, startBeat: start, endBeat: e.Beat})
		start = e.Beat
	}
	return append(stages, reportStage{state: current.String(), startBeat: start, endBeat: to})
}

// storyEvents picks the entries worth reading in order.
func storyEvents(entries []SimLogEntry) []string {
	var out []string
	for _, e := range entries {
		switch e.Category {
		case "spawn", "capture", "boss", "life", "buff":
		case "move":
			if e.Key == "step" || e.Key == "stuck" {
				continue
			}
		case "combat":
			if e.Key == "attack" {
				continue
			}
		default:
			continue
		}
		out = append(out, fmt.Sprintf("B=%d %s/%s %s", e.Beat, e.Category, e.Key, e.Value))
	}
	return out
}

// ActorDebugReport summarises the last lastBeats beats of one actor from the
// simulation log. lastBeats <= 0 selects defaultReportBeats.
func ActorDebugReport(s *Sim, log *SimLog, a *Actor, lastBeats int64) string {
	if a == nil {
		return ""
	}
	if lastBeats <= 0 {
		lastBeats = defaultReportBeats
	}
	to := s.CurrentBeat()
	from := max(0, to-lastBeats+1)

	var entries []SimLogEntry
	for _, e := range log.FilterBeatRange(from, to) {
		if e.Actor == a.Label {
			entries = append(entries, e)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- HexCadence actor report ---\n")
	fmt.Fprintf(&b, "seed=%d beat_range=[%d..%d] beats=%d\n", s.Config().Seed, from, to, to-from+1)
	fmt.Fprintf(&b, "actor=%s team=%s level=%d state=%s tile=%s hp=%d/%d\n",
		a.Label, a.Team, a.Level, a.State, a.Tile(), a.Health, a.Stats.MaxHealth)
	if dest, ok := a.Destination(); ok {
		fmt.Fprintf(&b, "destination=%s route_len=%d\n", dest, len(s.Grid.FindPath(a.Tile(), dest)))
	}
	b.WriteByte('\n')

	if len(entries) == 0 {
		b.WriteString("(no log entries in range)\n")
		return b.String()
	}

	sum := summarizeActorLog(entries)
	fmt.Fprintf(&b,
		"summary: steps=%d stuck=%d maxStuckRun=%d forced=%d attacks=%d hitsTaken=%d damageTaken=%d captureBeats=%d stale=%d changes=%d\n",
		sum.steps, sum.stuckBeats, sum.maxStuckRun, sum.forced, sum.attacks,
		sum.hitsTaken, sum.damageTaken, sum.captureBeats, sum.staleTargets, sum.stateChanges)

	b.WriteString("stages:\n")
	for _, st := range buildStages(entries, from, to, a.State) {
		fmt.Fprintf(&b, "  B=%d..%d %s\n", st.startBeat, st.endBeat, st.state)
	}

	if events := storyEvents(entries); len(events) > 0 {
		b.WriteString("events:\n")
		for _, e := range events {
			b.WriteString("  - ")
			b.WriteString(e)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// MatchReport is the text copied by the viewer: outcome, latest snapshot
// and the per-actor records.
func MatchReport(s *Sim, r *SimReporter, title string) string {
	var b strings.Builder
	if title == "" {
		title = "match"
	}
	fmt.Fprintf(&b, "=== HexCadence %s: beat %d seed %d ===\n", title, s.CurrentBeat(), s.Config().Seed)

	out := DetermineMatchOutcome(s, r)
	fmt.Fprintf(&b, "outcome: %s (%s)\n", out.Outcome, out.Description)
	fmt.Fprintf(&b, "survivors: player %d/%d enemy %d/%d  buildings: player %d enemy %d razed %d\n",
		out.PlayerSurvivors, out.PlayerTotal, out.EnemySurvivors, out.EnemyTotal,
		out.PlayerBuildings, out.EnemyBuildings, out.BuildingsRazed)
	if out.BossFought {
		fmt.Fprintf(&b, "boss alive: %v\n", out.BossAlive)
	}
	b.WriteByte('\n')
	b.WriteString(r.FormatLatest())

	records := Records(s)
	if len(records) > 0 {
		b.WriteString("\nunit       side    lvl   hp kills dealt taken caps\n")
		for _, rec := range records {
			fmt.Fprintf(&b, "%-10s %-7s %3d %4d %5d %5d %5d %4d\n",
				rec.Label, rec.Team.Side(), rec.Level, rec.Health, rec.Kills, rec.DamageDealt, rec.DamageTaken, rec.Captures)
		}
		totals := Totals(records)
		for _, side := range []faction.Team{faction.Player, faction.Enemy} {
			t := totals[side]
			fmt.Fprintf(&b, "total %-7s units=%d kills=%d dealt=%d taken=%d caps=%d\n",
				side, t.Actors, t.Kills, t.DamageDealt, t.DamageTaken, t.Captures)
		}
	}
	return b.String()
}
