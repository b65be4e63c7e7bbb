// Package faction defines teams and who may attack or capture what.
package faction

// Team is the owning side of a unit or building.
type Team int

const (
	Neutral Team = iota
	NeutralPlayer
	NeutralEnemy
	Player
	Enemy
)

func (t Team) String() string {
	switch t {
	case Neutral:
		return "neutral"
	case NeutralPlayer:
		return "neutral_player"
	case NeutralEnemy:
		return "neutral_enemy"
	case Player:
		return "player"
	case Enemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Parse maps a config string to a Team. Unknown names map to Neutral.
func Parse(s string) Team {
	switch s {
	case "player", "ally":
		return Player
	case "enemy":
		return Enemy
	case "neutral_player":
		return NeutralPlayer
	case "neutral_enemy":
		return NeutralEnemy
	default:
		return Neutral
	}
}

// Side collapses a team to the combat side it fights for.
func (t Team) Side() Team {
	switch t {
	case Player, NeutralPlayer:
		return Player
	case Enemy, NeutralEnemy:
		return Enemy
	default:
		return Neutral
	}
}

// Hostile reports whether a and b fight each other.
func Hostile(a, b Team) bool {
	sa, sb := a.Side(), b.Side()
	return sa != Neutral && sb != Neutral && sa != sb
}

// CanAttackUnit reports whether an actor of team attacker may target a unit
// of team victim. Player units hit enemy units and vice versa.
func CanAttackUnit(attacker, victim Team) bool {
	return attacker.Side() != Neutral && Hostile(attacker, victim)
}

// CanAttackBuilding reports whether an actor may attack a building.
// Capturable buildings are capture-only and never attack targets.
func CanAttackBuilding(attacker, building Team, targetable, capturable bool) bool {
	if !targetable || capturable {
		return false
	}
	return Hostile(attacker, building)
}

// CanCapture reports whether an actor may start capturing a capturable
// building currently owned by owner.
func CanCapture(actor, owner Team) bool {
	side := actor.Side()
	if side == Neutral || owner == side {
		return false
	}
	return owner == Neutral || Hostile(side, owner)
}
