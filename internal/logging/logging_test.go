package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/hex-cadence/internal/game"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

var _ game.Logger = (*CoreLogger)(nil)

func TestSetup_ConsoleAndFile(t *testing.T) {
	var console, file bytes.Buffer
	m := NewSlogManager()
	m.Setup(&console, &file, "info", nil)
	m.Logger().Info("hello both")

	assert.Contains(t, console.String(), "hello both")
	assert.Contains(t, file.String(), "hello both")
}

func TestSetup_InfoLevel_FiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(nil, &buf, "info", nil)

	m.Logger().Debug("should be filtered")
	m.Logger().Info("should appear")

	assert.NotContains(t, buf.String(), "should be filtered")
	assert.Contains(t, buf.String(), "should appear")
	assert.Equal(t, slog.LevelInfo, m.Level())
}

func TestSetup_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(nil, &buf, "debug", nil)
	m.Logger().Debug("debug msg")
	assert.Contains(t, buf.String(), "debug msg")
}

func TestSetup_TimeIsRFC3339UTC(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(nil, &buf, "info", nil)
	m.Logger().Info("stamp")
	assert.Regexp(t, `time=\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z`, buf.String())
}

func TestSetup_BeatProviderTagsRecords(t *testing.T) {
	var buf bytes.Buffer
	beat := int64(0)
	m := NewSlogManager()
	m.Setup(nil, &buf, "info", BeatProvider(func() int64 { return beat }))

	beat = 17
	m.Logger().Info("tick")
	assert.Contains(t, buf.String(), "beat=17")
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	assert.Equal(t, slog.Default(), NewSlogManager().Logger())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestMultiHandler_ContinuesPastFailure(t *testing.T) {
	var buf bytes.Buffer
	good := slog.NewTextHandler(&buf, nil)
	bad := failingHandler{slog.NewTextHandler(&bytes.Buffer{}, nil)}
	mh := NewMultiHandler(bad, nil, good)

	err := mh.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "fan out", 0))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "fan out")
}

func TestMultiHandler_WithAttrsReachesAll(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(NewMultiHandler(slog.NewTextHandler(&a, nil), slog.NewTextHandler(&b, nil)))
	logger.With("scenario", "siege").WithGroup("sim").Info("go", "beat", 3)

	for _, out := range []string{a.String(), b.String()} {
		assert.Contains(t, out, "scenario=siege")
		assert.Contains(t, out, "sim.beat=3")
	}
}

func TestLogFilePath(t *testing.T) {
	start := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Contains(t, LogFilePath("logs", "hexcadence", start), "hexcadence.20260304_050607.log")
}

// --- zerolog adapter ---

func TestCoreLogger_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	core := NewCoreLogger(NewZerolog(&buf, "debug"))
	core.Info("reservation conflict", "beat", 12, "unit", "A1")

	out := buf.String()
	assert.Contains(t, out, `"message":"reservation conflict"`)
	assert.Contains(t, out, `"beat":12`)
	assert.Contains(t, out, `"unit":"A1"`)
	assert.Contains(t, out, `"component":"sim"`)
}

func TestCoreLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	core := NewCoreLogger(NewZerolog(&buf, "info"))
	core.Debug("hidden")
	assert.Empty(t, buf.String())
	core.Error("actor disabled", "err", errors.New("no executor"))
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "no executor")
}

func TestCoreLogger_OddPairs(t *testing.T) {
	var buf bytes.Buffer
	NewCoreLogger(NewZerolog(&buf, "info")).Info("odd", "beat", 1, "dangling")
	assert.Contains(t, buf.String(), `"!BADKEY":"dangling"`)
}

func TestCoreLogger_DrivesSim(t *testing.T) {
	var buf bytes.Buffer
	core := NewCoreLogger(NewZerolog(&buf, "debug"))
	ts := game.NewTestSim(
		game.WithSimLogger(core),
		game.WithoutExecutors(),
		game.WithAlly("A1", 2, 2, hexgrid.TilePos{Col: 2, Row: 6}),
	)
	ts.RunBeats(2)
	assert.Contains(t, buf.String(), "actor disabled")
}
