package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/Garsondee/hex-cadence/internal/combat"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/game"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

var _ game.Metrics = (*Recorder)(nil)

func TestMeter_DisabledIsNoop(t *testing.T) {
	_, ok := Meter(Config{}).(noop.Meter)
	assert.True(t, ok)
}

func TestRecorder_CountsDirectCalls(t *testing.T) {
	r, err := NewRecorder(noop.Meter{})
	require.NoError(t, err)

	r.ReservationGranted()
	r.ReservationGranted()
	r.ReservationGranted()
	r.ReservationConflict()
	r.ReservationReleased()
	r.AttackResolved(7)
	r.AttackResolved(3)

	tot := r.Totals()
	assert.Equal(t, int64(3), tot.ReservationsGranted)
	assert.Equal(t, int64(1), tot.ReservationConflicts)
	assert.Equal(t, int64(2), tot.Attacks)
	assert.Equal(t, int64(10), tot.Damage)
	assert.InDelta(t, 0.25, tot.ConflictRate(), 1e-9)
	assert.Contains(t, tot.String(), "conflicts=1 (25.0%)")
}

func TestTotals_ConflictRateWithoutAttempts(t *testing.T) {
	assert.Equal(t, 0.0, Totals{}.ConflictRate())
}

func TestRecorder_CountsDuel(t *testing.T) {
	r, err := NewRecorder(Meter(Config{Enabled: true}))
	require.NoError(t, err)

	ts := game.NewTestSim(
		game.WithSimMetrics(r),
		game.WithActor(game.SpawnSpec{Label: "A1", Team: faction.Player, Level: 1, Stats: combat.DefaultStats(), Tile: hexgrid.TilePos{Col: 2, Row: 2}}),
		game.WithEnemy("E1", 2, 3),
	)
	beat := ts.RunUntil(func(ts *game.TestSim) bool {
		_, alive := ts.Actor("E1")
		return !alive
	}, 40)
	require.Positive(t, beat, "the duel should end")

	tot := r.Totals()
	assert.Equal(t, beat, tot.Beats)
	assert.Equal(t, int64(1), tot.Kills)
	assert.GreaterOrEqual(t, tot.Attacks, int64(20))
	assert.Equal(t, 5*tot.Attacks, tot.Damage)
	assert.GreaterOrEqual(t, tot.ReservationsGranted, int64(2), "both spawns reserve a tile")
	assert.GreaterOrEqual(t, tot.ReservationsReleased, int64(1), "the dead unit frees its tile")
	assert.Zero(t, tot.Violations)
}

func TestRecorder_CountsCapture(t *testing.T) {
	r, err := NewRecorder(noop.Meter{})
	require.NoError(t, err)

	ts := game.NewTestSim(
		game.WithSimMetrics(r),
		game.WithCapturable("Mill", 4, 4),
		game.WithAlly("A1", 4, 3, hexgrid.TilePos{Col: 4, Row: 3}),
	)
	ts.RunBeats(20)
	assert.Equal(t, int64(1), r.Totals().Captures)
}
