package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/hex-cadence/internal/config"
	"github.com/Garsondee/hex-cadence/internal/game"
	"github.com/Garsondee/hex-cadence/internal/journal"
	"github.com/Garsondee/hex-cadence/internal/logging"
	"github.com/Garsondee/hex-cadence/internal/telemetry"
)

func main() {
	var configDir string
	var scenario string
	flag.StringVar(&configDir, "config", "", "directory holding "+config.FileName)
	flag.StringVar(&scenario, "scenario", "", "built-in scenario name or YAML path (overrides config)")
	flag.Parse()

	if err := run(configDir, scenario); err != nil {
		log.Fatal(err)
	}
}

func run(configDir, scenarioRef string) error {
	start := time.Now()
	if err := config.Load(configDir); err != nil {
		return err
	}
	if scenarioRef == "" {
		scenarioRef = config.GetString("scenario")
	}

	var sim *game.Sim
	var logFile io.Writer
	if config.GetBool("logToFile") {
		path := logging.LogFilePath(config.GetString("logsDir"), "hexcadence", start)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating logs dir: %w", err)
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating log file: %w", err)
		}
		defer f.Close()
		logFile = f
	}
	slogs := logging.NewSlogManager()
	slogs.Setup(os.Stderr, logFile, config.GetString("logLevel"), logging.BeatProvider(func() int64 {
		if sim == nil {
			return 0
		}
		return sim.CurrentBeat()
	}))
	logger := slogs.Logger()

	zl := logging.NewZerolog(io.MultiWriter(nonNil(os.Stderr, logFile)...), config.GetString("logLevel"))

	tc := config.GetTelemetryConfig()
	rec, err := telemetry.NewRecorder(telemetry.Meter(telemetry.Config{Enabled: tc.Enabled, ServiceName: tc.ServiceName}))
	if err != nil {
		return fmt.Errorf("creating telemetry recorder: %w", err)
	}

	archetypes, err := config.LoadArchetypes(config.GetString("archetypesFile"))
	if err != nil {
		return err
	}
	sc, err := config.LoadScenario(scenarioRef)
	if err != nil {
		return err
	}

	backend, err := journal.NewBackend(config.GetJournalConfig(), zl)
	if err != nil {
		return err
	}
	defer backend.Close()

	cfg := config.SimConfig()
	g := game.New()
	g.Title = sc.Name
	opts := append(g.SimOptions(), game.WithLogger(logging.NewCoreLogger(zl)), game.WithMetrics(rec))
	sim = game.NewSim(sc.Cols, sc.Rows, cfg, opts...)
	if err := sc.Terrain(sim); err != nil {
		return err
	}
	g.Attach(sim)

	j := journal.New(backend, zl, 0)
	if err := j.Start(&journal.Match{Title: "viewer", Scenario: sc.Name, Seed: cfg.Seed, Cols: sc.Cols, Rows: sc.Rows}); err != nil {
		return err
	}
	j.Attach(sim)

	if err := sc.Populate(sim, archetypes); err != nil {
		return err
	}
	logger.Info("match started", "scenario", sc.Name, "cols", sc.Cols, "rows", sc.Rows,
		"units", len(sc.Units), "bpm", cfg.BPM, "journal", config.GetJournalConfig().Type)

	ebiten.SetWindowTitle("Hex Cadence")
	ebiten.SetWindowSize(1904, 912)
	runErr := ebiten.RunGame(g)

	out := game.DetermineMatchOutcome(sim, g.Reporter())
	if err := j.Finish(sim.CurrentBeat(), out.Outcome.String(), out); err != nil {
		logger.Error("journal finish failed", "err", err)
	}
	logger.Info("match ended", "outcome", out.Outcome.String(), "reason", out.Description,
		"events", j.Written(), "dropped", j.Failed(), "totals", rec.Totals().String())
	return runErr
}

func nonNil(ws ...io.Writer) []io.Writer {
	out := ws[:0]
	for _, w := range ws {
		if w != nil {
			out = append(out, w)
		}
	}
	return out
}
