package combat

import "sort"

// UnitType classifies an actor archetype.
type UnitType int

const (
	UnitRegular UnitType = iota
	UnitElite
	UnitBoss
)

func (u UnitType) String() string {
	switch u {
	case UnitRegular:
		return "regular"
	case UnitElite:
		return "elite"
	case UnitBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// ParseUnitType maps a config name to a UnitType. Unknown names are regular.
func ParseUnitType(s string) UnitType {
	switch s {
	case "elite":
		return UnitElite
	case "boss":
		return UnitBoss
	default:
		return UnitRegular
	}
}

// Stats is the resolved stat block of an actor. Delays and ranges are in
// beats and tiles.
type Stats struct {
	MaxHealth      int
	Attack         int
	Defense        int
	AttackRange    int
	AttackDelay    int
	MovementDelay  int
	DetectionRange int
	Type           UnitType
}

// DefaultStats is the stat block used when no archetype is supplied.
func DefaultStats() Stats {
	return Stats{
		MaxHealth:      100,
		Attack:         15,
		Defense:        10,
		AttackRange:    1,
		AttackDelay:    1,
		MovementDelay:  1,
		DetectionRange: 3,
		Type:           UnitRegular,
	}
}

// Normalize clamps a stat block to the minimums the scheduler relies on.
func (s Stats) Normalize() Stats {
	s.MaxHealth = max(1, s.MaxHealth)
	s.Attack = max(0, s.Attack)
	s.Defense = max(0, s.Defense)
	s.AttackRange = max(1, s.AttackRange)
	s.AttackDelay = max(1, s.AttackDelay)
	s.MovementDelay = max(1, s.MovementDelay)
	s.DetectionRange = max(0, s.DetectionRange)
	return s
}

// --- Level curves ---

// CurveKey is one keyframe of a level curve.
type CurveKey struct {
	Level float64 `yaml:"level"`
	Value float64 `yaml:"value"`
}

// Curve is a piecewise-linear function of level, clamped at both ends.
type Curve []CurveKey

// Evaluate returns the curve value at level. An empty curve is zero.
func (c Curve) Evaluate(level float64) float64 {
	if len(c) == 0 {
		return 0
	}
	keys := make([]CurveKey, len(c))
	copy(keys, c)
	sort.Slice(keys, func(i, j int) bool { return keys[i].Level < keys[j].Level })

	if level <= keys[0].Level {
		return keys[0].Value
	}
	last := keys[len(keys)-1]
	if level >= last.Level {
		return last.Value
	}
	for i := 1; i < len(keys); i++ {
		lo, hi := keys[i-1], keys[i]
		if level <= hi.Level {
			span := hi.Level - lo.Level
			if span == 0 {
				return hi.Value
			}
			t := (level - lo.Level) / span
			return lo.Value + t*(hi.Value-lo.Value)
		}
	}
	return last.Value
}

// --- Stat sheets ---

// StatSheet is a character's base stats and level growth.
type StatSheet struct {
	BaseHealth     int      `yaml:"baseHealth"`
	BaseAttack     int      `yaml:"baseAttack"`
	BaseDefense    int      `yaml:"baseDefense"`
	HealthCurve    Curve    `yaml:"healthCurve"`
	AttackCurve    Curve    `yaml:"attackCurve"`
	DefenseCurve   Curve    `yaml:"defenseCurve"`
	AttackRange    int      `yaml:"attackRange"`
	AttackDelay    int      `yaml:"attackDelay"`
	MovementDelay  int      `yaml:"movementDelay"`
	DetectionRange int      `yaml:"detectionRange"`
	Type           UnitType `yaml:"-"`
}

// Modifier is a flat equipment bonus. Stat is one of health, attack, defense.
type Modifier struct {
	Stat  string `yaml:"stat"`
	Value int    `yaml:"value"`
}

// Equipment is a named bundle of modifiers.
type Equipment struct {
	Name      string     `yaml:"name"`
	Modifiers []Modifier `yaml:"modifiers"`
}

// FinalStats resolves a sheet at a level with equipment applied: base plus
// the rounded curve value, then flat modifiers.
func FinalStats(sheet StatSheet, level int, equipment []Equipment) Stats {
	lv := float64(level)
	s := Stats{
		MaxHealth:      sheet.BaseHealth + roundInt(sheet.HealthCurve.Evaluate(lv)),
		Attack:         sheet.BaseAttack + roundInt(sheet.AttackCurve.Evaluate(lv)),
		Defense:        sheet.BaseDefense + roundInt(sheet.DefenseCurve.Evaluate(lv)),
		AttackRange:    sheet.AttackRange,
		AttackDelay:    sheet.AttackDelay,
		MovementDelay:  sheet.MovementDelay,
		DetectionRange: sheet.DetectionRange,
		Type:           sheet.Type,
	}
	for _, item := range equipment {
		for _, m := range item.Modifiers {
			switch m.Stat {
			case "health":
				s.MaxHealth += m.Value
			case "attack":
				s.Attack += m.Value
			case "defense":
				s.Defense += m.Value
			}
		}
	}
	return s.Normalize()
}
