// Package combat holds the pure combat rules: damage resolution, timed stat
// buffs and level-scaled stat sheets.
package combat

import "math"

const (
	levelStep     = 0.1 // damage multiplier change per level of difference
	minLevelMul   = 0.1
	minimumDamage = 1
)

// LevelMultiplier scales damage by the attacker/defender level gap, floored
// at 0.1.
func LevelMultiplier(attackerLevel, defenderLevel int) float64 {
	return math.Max(minLevelMul, 1.0+levelStep*float64(attackerLevel-defenderLevel))
}

// roundInt rounds half to even, matching the game's integer rounding.
func roundInt(v float64) int {
	return int(math.RoundToEven(v))
}

// ResolveDamage returns the damage an attack deals after level scaling and
// defence. Never below 1.
func ResolveDamage(attackerLevel, defenderLevel, rawAttack, defense int) int {
	modified := roundInt(float64(rawAttack) * LevelMultiplier(attackerLevel, defenderLevel))
	return max(minimumDamage, modified-defense)
}

// EnvironmentalDamage is damage with no attacker: defence applies, no level
// scaling. Never below 1.
func EnvironmentalDamage(raw, defense int) int {
	return max(minimumDamage, raw-defense)
}

// BuildingDamage is what a building takes from a hit of raw strength.
func BuildingDamage(raw, defense int) int {
	return max(minimumDamage, raw-defense)
}
