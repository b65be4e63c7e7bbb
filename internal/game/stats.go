package game

import (
	"cmp"
	"slices"

	"github.com/Garsondee/hex-cadence/internal/combat"
	"github.com/Garsondee/hex-cadence/internal/faction"
)

// --- Effective stat sheet ---

// StatLine is an actor's stat block after buffs, as shown by the inspector.
type StatLine struct {
	MaxHealth      int
	Attack         int
	Defense        int
	AttackRange    int
	AttackDelay    int
	MovementDelay  int
	DetectionRange int
	AttackMul      float64
	DefenseMul     float64
	SpeedMul       float64
}

// EffectiveStats returns a's stats with active buffs applied.
func EffectiveStats(a *Actor) StatLine {
	return StatLine{
		MaxHealth:      a.Stats.MaxHealth,
		Attack:         a.Effective(combat.StatAttack),
		Defense:        a.Effective(combat.StatDefense),
		AttackRange:    a.Stats.AttackRange,
		AttackDelay:    a.Stats.AttackDelay,
		MovementDelay:  a.MovementDelay(),
		DetectionRange: a.Stats.DetectionRange,
		AttackMul:      a.Buffs.Multiplier(combat.StatAttack),
		DefenseMul:     a.Buffs.Multiplier(combat.StatDefense),
		SpeedMul:       a.Buffs.Multiplier(combat.StatSpeed),
	}
}

// HealthFraction is current health over maximum in [0,1].
func HealthFraction(a *Actor) float64 {
	if a.Stats.MaxHealth <= 0 {
		return 0
	}
	return clamp01(float64(a.Health) / float64(a.Stats.MaxHealth))
}

// --- Combat record ---

// ActorRecord is one live actor's match record.
type ActorRecord struct {
	Label       string
	Team        faction.Team
	Level       int
	Health      int
	Kills       int
	DamageDealt int
	DamageTaken int
	Captures    int
}

// Records returns the record of every live actor, most kills first, then by
// damage dealt, then label.
func Records(s *Sim) []ActorRecord {
	actors := s.Actors()
	out := make([]ActorRecord, 0, len(actors))
	for _, a := range actors {
		out = append(out, ActorRecord{
			Label:       a.Label,
			Team:        a.Team,
			Level:       a.Level,
			Health:      a.Health,
			Kills:       a.Kills,
			DamageDealt: a.DamageDealt,
			DamageTaken: a.DamageTaken,
			Captures:    a.Captures,
		})
	}
	slices.SortFunc(out, func(x, y ActorRecord) int {
		if c := cmp.Compare(y.Kills, x.Kills); c != 0 {
			return c
		}
		if c := cmp.Compare(y.DamageDealt, x.DamageDealt); c != 0 {
			return c
		}
		return cmp.Compare(x.Label, y.Label)
	})
	return out
}

// SideTotals sums records per side.
type SideTotals struct {
	Actors      int
	Kills       int
	DamageDealt int
	DamageTaken int
	Captures    int
}

// Totals groups records by side.
func Totals(records []ActorRecord) map[faction.Team]SideTotals {
	out := map[faction.Team]SideTotals{}
	for _, r := range records {
		side := r.Team.Side()
		t := out[side]
		t.Actors++
		t.Kills += r.Kills
		t.DamageDealt += r.DamageDealt
		t.DamageTaken += r.DamageTaken
		t.Captures += r.Captures
		out[side] = t
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
