package combat

import "math"

// Stat is a buffable stat.
type Stat int

const (
	StatAttack Stat = iota
	StatDefense
	StatSpeed
)

func (s Stat) String() string {
	switch s {
	case StatAttack:
		return "attack"
	case StatDefense:
		return "defense"
	case StatSpeed:
		return "speed"
	default:
		return "unknown"
	}
}

// ParseStat maps a config name to a Stat.
func ParseStat(s string) (Stat, bool) {
	switch s {
	case "attack":
		return StatAttack, true
	case "defense":
		return StatDefense, true
	case "speed":
		return StatSpeed, true
	}
	return 0, false
}

// Buff is a timed multiplicative modifier. Remaining is in seconds.
type Buff struct {
	Stat       Stat
	Multiplier float64
	Remaining  float64
}

// Default global buff parameters.
const (
	DefaultBuffMultiplier = 1.2
	DefaultBuffDuration   = 10.0
)

// BuffSet is the list of buffs active on one actor. Buffs stack
// multiplicatively.
type BuffSet struct {
	active []Buff
}

// Apply adds a buff. Non-positive durations are ignored.
func (b *BuffSet) Apply(stat Stat, multiplier, duration float64) bool {
	if duration <= 0 {
		return false
	}
	b.active = append(b.active, Buff{Stat: stat, Multiplier: multiplier, Remaining: duration})
	return true
}

// Tick advances time by dt seconds and drops expired buffs. Returns how many
// expired.
func (b *BuffSet) Tick(dt float64) int {
	kept := b.active[:0]
	expired := 0
	for _, buff := range b.active {
		buff.Remaining -= dt
		if buff.Remaining <= 0 {
			expired++
			continue
		}
		kept = append(kept, buff)
	}
	b.active = kept
	return expired
}

// Multiplier is the product of every active multiplier on stat.
func (b *BuffSet) Multiplier(stat Stat) float64 {
	m := 1.0
	for _, buff := range b.active {
		if buff.Stat == stat {
			m *= buff.Multiplier
		}
	}
	return m
}

// Effective returns base scaled by the active buffs on stat, rounded, never
// negative.
func (b *BuffSet) Effective(stat Stat, base int) int {
	return max(0, roundInt(float64(base)*b.Multiplier(stat)))
}

// MovementDelay shortens a beat delay by the speed multiplier. Never below 1.
func (b *BuffSet) MovementDelay(base int) int {
	m := b.Multiplier(StatSpeed)
	if m <= 0 {
		return base
	}
	return max(1, int(math.RoundToEven(float64(base)/m)))
}

// Active returns a copy of the active buffs.
func (b *BuffSet) Active() []Buff {
	out := make([]Buff, len(b.active))
	copy(out, b.active)
	return out
}

// Len returns the number of active buffs.
func (b *BuffSet) Len() int {
	return len(b.active)
}

// Clear drops every buff.
func (b *BuffSet) Clear() {
	b.active = nil
}
