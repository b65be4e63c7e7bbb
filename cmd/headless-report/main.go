package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Garsondee/hex-cadence/internal/config"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/game"
	"github.com/Garsondee/hex-cadence/internal/journal"
	"github.com/Garsondee/hex-cadence/internal/logging"
	"github.com/Garsondee/hex-cadence/internal/telemetry"
)

type runStats struct {
	runIndex  int
	seed      int64
	finalBeat int64

	firstAttackBeat  int64
	firstKillBeat    int64
	firstCaptureBeat int64
	firstStunBeat    int64

	steps          int
	stuck          int
	forced         int
	commitFailed   int
	captureRejects int
	buffs          int
	stateChanges   int

	killers map[string]int
	totals  telemetry.Totals
	outcome game.MatchOutcomeReason

	windowSummary *game.WindowReport
	errors        int
	violations    []game.Violation
}

type options struct {
	runs      int
	beats     int
	seedBase  int64
	seedStep  int64
	scenario  string
	configDir string
	journal   string
	logLevel  string
}

func main() {
	var o options
	flag.IntVar(&o.runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&o.beats, "beats", 600, "maximum beats per run")
	flag.Int64Var(&o.seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&o.seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&o.scenario, "scenario", "", "built-in scenario name or YAML path (overrides config)")
	flag.StringVar(&o.configDir, "config", "", "directory holding "+config.FileName)
	flag.StringVar(&o.journal, "journal", "", "journal backend for every run: memory, sqlite or postgres (empty disables)")
	flag.StringVar(&o.logLevel, "log-level", "error", "core log level written to stderr")
	flag.Parse()

	if o.runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if o.beats <= 0 {
		fmt.Println("error: -beats must be > 0")
		return
	}
	if err := config.Load(o.configDir); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if o.scenario == "" {
		o.scenario = config.GetString("scenario")
	}
	sc, err := config.LoadScenario(o.scenario)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	archetypes, err := config.LoadArchetypes(config.GetString("archetypesFile"))
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	zl := logging.NewZerolog(os.Stderr, o.logLevel)
	var backend journal.Backend
	if o.journal != "" {
		jc := config.GetJournalConfig()
		jc.Type = o.journal
		if backend, err = journal.NewBackend(jc, zl); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		defer backend.Close()
	}

	fmt.Printf("=== Headless Battle Report ===\n")
	fmt.Printf("scenario=%s runs=%d beats=%d seed_base=%d seed_step=%d journal=%s\n\n",
		sc.Name, o.runs, o.beats, o.seedBase, o.seedStep, orNone(o.journal))

	all := make([]runStats, 0, o.runs)
	for i := 0; i < o.runs; i++ {
		seed := o.seedBase + int64(i)*o.seedStep
		stats, err := runScenario(i+1, seed, o.beats, sc, archetypes, backend, zl)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

func runScenario(runIndex int, seed int64, beats int, sc *config.Scenario, as config.Archetypes,
	backend journal.Backend, zl zerolog.Logger) (runStats, error) {
	cfg := config.SimConfig()
	cfg.Seed = seed

	rec, err := telemetry.NewRecorder(telemetry.Meter(telemetry.Config{}))
	if err != nil {
		return runStats{}, err
	}
	opts, err := sc.Options(cfg, as)
	if err != nil {
		return runStats{}, err
	}
	opts = append(opts,
		game.WithSeed(seed),
		game.WithReporter(),
		game.WithSimMetrics(rec),
		game.WithSimLogger(logging.NewCoreLogger(zl.With().Int("run", runIndex).Logger())),
	)
	ts := game.NewTestSim(opts...)

	var j *journal.Journal
	if backend != nil {
		j = journal.New(backend, zl, 0)
		m := &journal.Match{
			Title:    fmt.Sprintf("run-%d", runIndex),
			Scenario: sc.Name,
			Seed:     seed,
			Cols:     sc.Cols,
			Rows:     sc.Rows,
		}
		if err := j.Start(m); err != nil {
			return runStats{}, err
		}
		j.Attach(ts.Sim)
	}

	ts.RunUntil(func(ts *game.TestSim) bool {
		return ts.Sim.CountAlive(faction.Player) == 0 || ts.Sim.CountAlive(faction.Enemy) == 0
	}, beats)

	out := game.DetermineMatchOutcome(ts.Sim, ts.Reporter)
	if j != nil {
		if err := j.Finish(ts.CurrentBeat(), out.Outcome.String(), out); err != nil {
			return runStats{}, err
		}
	}

	entries := ts.SimLog.Entries()
	killers := map[string]int{}
	for _, e := range entries {
		if e.Category == "event" && e.Key == "unit_killed" {
			killers[e.Actor]++
		}
	}

	return runStats{
		runIndex:         runIndex,
		seed:             seed,
		finalBeat:        ts.CurrentBeat(),
		firstAttackBeat:  firstBeat(entries, "combat", "attack", ""),
		firstKillBeat:    firstBeat(entries, "life", "killed", ""),
		firstCaptureBeat: firstBeat(entries, "capture", "complete", ""),
		firstStunBeat:    firstBeat(entries, "boss", "stunned", ""),
		steps:            ts.SimLog.CountCategory("move", "step"),
		stuck:            ts.SimLog.CountCategory("move", "stuck"),
		forced:           ts.SimLog.CountCategory("move", "forced"),
		commitFailed:     ts.SimLog.CountCategory("move", "commit_failed"),
		captureRejects:   ts.SimLog.CountCategory("capture", "rejected"),
		buffs:            ts.SimLog.CountCategory("buff", "applied"),
		stateChanges:     ts.SimLog.CountCategory("state", "change"),
		killers:          killers,
		totals:           rec.Totals(),
		outcome:          out,
		windowSummary:    ts.Reporter.WindowSummary(),
		errors:           len(ts.Errors),
		violations:       ts.Sim.CheckInvariants(),
	}, nil
}

func firstBeat(entries []game.SimLogEntry, category, key, contains string) int64 {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Beat
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome=%s reason=%s final_beat=%d\n", rs.outcome.Outcome, rs.outcome.Description, rs.finalBeat)
	fmt.Printf("forces: player=%d/%d enemy=%d/%d buildings player=%d enemy=%d razed=%d boss_fought=%t boss_alive=%t\n",
		rs.outcome.PlayerSurvivors, rs.outcome.PlayerTotal, rs.outcome.EnemySurvivors, rs.outcome.EnemyTotal,
		rs.outcome.PlayerBuildings, rs.outcome.EnemyBuildings, rs.outcome.BuildingsRazed,
		rs.outcome.BossFought, rs.outcome.BossAlive)
	fmt.Printf("phase_markers: first_attack=%d first_kill=%d first_capture=%d first_stun=%d\n",
		rs.firstAttackBeat, rs.firstKillBeat, rs.firstCaptureBeat, rs.firstStunBeat)
	fmt.Printf("movement: steps=%d stuck=%d forced=%d commit_failed=%d state_change=%d\n",
		rs.steps, rs.stuck, rs.forced, rs.commitFailed, rs.stateChanges)
	fmt.Printf("objectives: capture_rejected=%d buffs=%d\n", rs.captureRejects, rs.buffs)
	fmt.Printf("telemetry: %s\n", rs.totals)
	fmt.Printf("top_killer: %s\n", orNone(topLabel(rs.killers)))
	if rs.errors > 0 || len(rs.violations) > 0 {
		fmt.Printf("problems: errors=%d violations=%d\n", rs.errors, len(rs.violations))
		for _, v := range rs.violations {
			fmt.Printf("  ! %s\n", v)
		}
	}
	if rs.windowSummary != nil {
		fmt.Print(rs.windowSummary.Format())
	}
	fmt.Println()
}

// tallyOutcomes counts runs per outcome name.
func tallyOutcomes(all []runStats) map[string]int {
	out := map[string]int{}
	for _, rs := range all {
		out[rs.outcome.Outcome.String()]++
	}
	return out
}

func printAggregate(all []runStats) {
	totalBeats := 0
	totalSteps := 0
	totalStuck := 0
	totalForced := 0
	totalCaptures := 0
	totalKills := 0
	totalViolations := 0
	var granted, conflicts int64

	attackBeats := make([]int64, 0, len(all))
	killBeats := make([]int64, 0, len(all))
	captureBeats := make([]int64, 0, len(all))
	stunBeats := make([]int64, 0, len(all))
	killers := map[string]int{}
	reasons := map[string]struct{}{}

	for _, rs := range all {
		totalBeats += int(rs.finalBeat)
		totalSteps += rs.steps
		totalStuck += rs.stuck
		totalForced += rs.forced
		totalCaptures += int(rs.totals.Captures)
		totalKills += int(rs.totals.Kills)
		totalViolations += len(rs.violations)
		granted += rs.totals.ReservationsGranted
		conflicts += rs.totals.ReservationConflicts
		attackBeats = appendMarker(attackBeats, rs.firstAttackBeat)
		killBeats = appendMarker(killBeats, rs.firstKillBeat)
		captureBeats = appendMarker(captureBeats, rs.firstCaptureBeat)
		stunBeats = appendMarker(stunBeats, rs.firstStunBeat)
		for label, n := range rs.killers {
			killers[label] += n
		}
		reasons[rs.outcome.Description] = struct{}{}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	outcomes := tallyOutcomes(all)
	fmt.Printf("outcomes: player_victory=%d enemy_victory=%d draw=%d inconclusive=%d\n",
		outcomes["player_victory"], outcomes["enemy_victory"], outcomes["draw"], outcomes["inconclusive"])
	fmt.Printf("reasons=[%s]\n", joinSet(reasons))
	fmt.Printf("avg_per_run: beats=%.1f steps=%.1f stuck=%.1f forced=%.1f kills=%.1f captures=%.1f\n",
		avg(totalBeats, len(all)), avg(totalSteps, len(all)), avg(totalStuck, len(all)),
		avg(totalForced, len(all)), avg(totalKills, len(all)), avg(totalCaptures, len(all)))
	rate := telemetry.Totals{ReservationsGranted: granted, ReservationConflicts: conflicts}.ConflictRate()
	fmt.Printf("reservations: granted=%d conflicts=%d conflict_rate=%.1f%%\n", granted, conflicts, rate*100)
	fmt.Printf("phase_marker_avg_beats: first_attack=%s first_kill=%s first_capture=%s first_stun=%s\n",
		avgBeatString(attackBeats), avgBeatString(killBeats), avgBeatString(captureBeats), avgBeatString(stunBeats))
	fmt.Printf("top_killer=%s invariant_violations=%d\n", orNone(topLabel(killers)), totalViolations)
}

func appendMarker(vals []int64, beat int64) []int64 {
	if beat < 0 {
		return vals
	}
	return append(vals, beat)
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgBeatString(vals []int64) string {
	if len(vals) == 0 {
		return "n/a"
	}
	var sum int64
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

// topLabel returns the label with the highest count, ties going to the
// lexically smaller label.
func topLabel(counts map[string]int) string {
	best := ""
	bestN := 0
	for k, v := range counts {
		if v > bestN || (v == bestN && v > 0 && k < best) {
			best = k
			bestN = v
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("%s(%d)", best, bestN)
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
