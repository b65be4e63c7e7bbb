package main

import (
	"testing"

	"github.com/Garsondee/hex-cadence/internal/game"
)

func TestFirstBeat(t *testing.T) {
	entries := []game.SimLogEntry{
		{Beat: 2, Category: "move", Key: "step", Value: "(1,1) → (1,2)"},
		{Beat: 5, Category: "combat", Key: "attack", Value: "E1 for 5"},
		{Beat: 7, Category: "combat", Key: "attack", Value: "E2 for 5"},
	}

	if got := firstBeat(entries, "combat", "attack", ""); got != 5 {
		t.Fatalf("expected first attack at beat 5, got %d", got)
	}
	if got := firstBeat(entries, "combat", "attack", "E2"); got != 7 {
		t.Fatalf("expected first attack on E2 at beat 7, got %d", got)
	}
	if got := firstBeat(entries, "boss", "stunned", ""); got != -1 {
		t.Fatalf("expected -1 for a marker that never fired, got %d", got)
	}
}

func TestTallyOutcomes(t *testing.T) {
	all := []runStats{
		{outcome: game.MatchOutcomeReason{Outcome: game.OutcomePlayerVictory}},
		{outcome: game.MatchOutcomeReason{Outcome: game.OutcomePlayerVictory}},
		{outcome: game.MatchOutcomeReason{Outcome: game.OutcomeDraw}},
		{},
	}

	got := tallyOutcomes(all)
	if got["player_victory"] != 2 || got["draw"] != 1 || got["inconclusive"] != 1 {
		t.Fatalf("unexpected tally: %v", got)
	}
	if got["enemy_victory"] != 0 {
		t.Fatalf("expected no enemy victories, got %d", got["enemy_victory"])
	}
}

func TestAvgBeatString_SkipsMissingMarkers(t *testing.T) {
	vals := appendMarker(nil, -1)
	if got := avgBeatString(vals); got != "n/a" {
		t.Fatalf("expected n/a with no markers, got %s", got)
	}
	vals = appendMarker(vals, 10)
	vals = appendMarker(vals, -1)
	vals = appendMarker(vals, 15)
	if got := avgBeatString(vals); got != "12.5" {
		t.Fatalf("expected 12.5, got %s", got)
	}
}

func TestTopLabel_PrefersCountThenLabel(t *testing.T) {
	if got := topLabel(nil); got != "" {
		t.Fatalf("expected empty label for no kills, got %q", got)
	}
	if got := topLabel(map[string]int{"E1": 1, "A2": 3, "A1": 3}); got != "A1(3)" {
		t.Fatalf("expected A1(3), got %s", got)
	}
}

func TestJoinSet(t *testing.T) {
	if got := joinSet(nil); got != "none" {
		t.Fatalf("expected none, got %s", got)
	}
	s := map[string]struct{}{"mutual_annihilation": {}, "draw_similar_casualties": {}}
	if got := joinSet(s); got != "draw_similar_casualties,mutual_annihilation" {
		t.Fatalf("expected sorted labels, got %s", got)
	}
}
