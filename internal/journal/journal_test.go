package journal

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/hex-cadence/internal/config"
	"github.com/Garsondee/hex-cadence/internal/events"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/game"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// duel runs an idle player unit against an adjacent enemy until the enemy
// falls, journaling every event.
func duel(t *testing.T, j *Journal) *game.TestSim {
	t.Helper()
	ts := game.NewTestSim(
		game.WithReporter(),
		game.WithActor(game.SpawnSpec{Label: "A1", Team: faction.Player, Level: 1, Tile: hexgrid.TilePos{Col: 2, Row: 2}}),
		game.WithEnemy("E1", 2, 3),
	)
	require.NoError(t, j.Start(&Match{Title: "duel", Scenario: "test", Seed: ts.Config.Seed, Cols: ts.Cols, Rows: ts.Rows}))
	j.Attach(ts.Sim)
	beat := ts.RunUntil(func(ts *game.TestSim) bool {
		_, alive := ts.Actor("E1")
		return !alive
	}, 40)
	require.Positive(t, beat)
	return ts
}

func finish(t *testing.T, j *Journal, ts *game.TestSim) {
	t.Helper()
	out := game.DetermineMatchOutcome(ts.Sim, ts.Reporter)
	require.NoError(t, j.Finish(ts.CurrentBeat(), out.Outcome.String(), out))
}

func assertDuelRecorded(t *testing.T, b Backend, j *Journal) {
	t.Helper()
	matches, err := b.Matches()
	require.NoError(t, err)
	require.Len(t, matches, 1)
	m := matches[0]
	assert.Equal(t, "duel", m.Title)
	assert.NotNil(t, m.EndedAt)
	assert.Equal(t, "player_victory", m.Outcome)
	var summary game.MatchOutcomeReason
	require.NoError(t, json.Unmarshal(m.Summary, &summary))
	assert.Equal(t, game.OutcomePlayerVictory, summary.Outcome)
	assert.Equal(t, 1, summary.PlayerSurvivors)
	assert.Equal(t, j.Written(), m.Events)

	recs, err := b.Events(m.ID)
	require.NoError(t, err)
	require.Len(t, recs, int(j.Written()))

	attacked := 0
	for _, r := range recs {
		if r.Type == string(events.UnitAttacked) {
			attacked++
		}
	}
	assert.GreaterOrEqual(t, attacked, 20)

	last := recs[len(recs)-1]
	assert.Equal(t, string(events.UnitKilled), last.Type)
	assert.Equal(t, "A1", last.Actor)
	assert.Equal(t, "enemy", last.Team)

	var p eventPayload
	require.NoError(t, json.Unmarshal(last.Payload, &p))
	assert.Equal(t, "E1", p.Target)
	assert.Equal(t, 2, p.Col)
	assert.Equal(t, 3, p.Row)
}

func TestJournal_MemoryBackend(t *testing.T) {
	b := NewMemoryBackend()
	j := New(b, zerolog.Nop(), 4)
	ts := duel(t, j)
	finish(t, j, ts)

	assert.Zero(t, j.Failed())
	assertDuelRecorded(t, b, j)
}

func TestJournal_SQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	b, err := NewBackend(config.JournalConfig{Type: "sqlite", SQLitePath: path}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	j := New(b, zerolog.Nop(), 0)
	ts := duel(t, j)
	finish(t, j, ts)

	assert.Zero(t, j.Failed())
	assertDuelRecorded(t, b, j)
}

func TestJournal_SQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	b, err := NewBackend(config.JournalConfig{Type: "sqlite", SQLitePath: path}, zerolog.Nop())
	require.NoError(t, err)
	j := New(b, zerolog.Nop(), 0)
	finish(t, j, duel(t, j))
	require.NoError(t, b.Close())

	reopened, err := NewBackend(config.JournalConfig{Type: "sqlite", SQLitePath: path}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	matches, err := reopened.Matches()
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, j.Written(), matches[0].Events)
}

func TestJournal_RecordOutsideMatchIsDropped(t *testing.T) {
	b := NewMemoryBackend()
	j := New(b, zerolog.Nop(), 1)
	j.Record(EventRecord{Type: "early"})

	require.NoError(t, j.Start(&Match{Title: "empty"}))
	require.Error(t, j.Start(&Match{Title: "again"}))
	require.NoError(t, j.Finish(0, "inconclusive", nil))
	require.NoError(t, j.Finish(0, "inconclusive", nil), "finishing twice is harmless")
	j.Record(EventRecord{Type: "late"})

	recs, err := b.Events(j.Match().ID)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestNewBackend_Types(t *testing.T) {
	b, err := NewBackend(config.JournalConfig{Type: "memory"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)

	_, err = NewBackend(config.JournalConfig{Type: "cassette"}, zerolog.Nop())
	assert.ErrorContains(t, err, "unknown journal type")
}

func TestMemoryBackend_RejectsUnknownMatch(t *testing.T) {
	b := NewMemoryBackend()
	assert.ErrorIs(t, b.RecordEvents(3, []EventRecord{{Type: "x"}}), ErrUnknownMatch)
	assert.ErrorIs(t, b.EndMatch(&Match{ID: 9}), ErrUnknownMatch)
}
