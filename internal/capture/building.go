// Package capture owns buildings and the contested capture protocol run
// against them.
package capture

import (
	"errors"

	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/combat"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// DefaultBeatsToCapture is the capture effort a building needs when none is
// configured.
const DefaultBeatsToCapture = 12

// captureRange is how far, in tiles, a unit may stand from a building it
// captures.
const captureRange = 1

var (
	ErrNotCapturable = errors.New("building cannot be captured")
	ErrNeutralTeam   = errors.New("neutral team cannot capture")
	ErrAlreadyOwned  = errors.New("building already owned by team")
	ErrOutOfRange    = errors.New("unit out of capture range")
	ErrContested     = errors.New("building is being captured by another team")
)

// Session is an in-progress capture by one team. Its team never changes.
type Session struct {
	Team         faction.Team
	Progress     int
	Contributors []arena.Handle // in join order
}

func (s *Session) contains(unit arena.Handle) bool {
	for _, c := range s.Contributors {
		if c == unit {
			return true
		}
	}
	return false
}

func (s *Session) remove(unit arena.Handle) bool {
	for i, c := range s.Contributors {
		if c == unit {
			s.Contributors = append(s.Contributors[:i], s.Contributors[i+1:]...)
			return true
		}
	}
	return false
}

// Notifier receives per-unit capture callbacks.
type Notifier interface {
	OnCaptureBeat(unit arena.Handle)
	OnCaptureComplete(unit arena.Handle)
}

// Building is a structure on one tile. Capturable buildings change hands
// through capture sessions; the rest can only be attacked.
type Building struct {
	ID             arena.Handle
	Name           string
	Team           faction.Team
	Tile           hexgrid.TilePos
	MaxHealth      int
	Health         int
	Defense        int
	Targetable     bool
	Capturable     bool
	BeatsToCapture int
	// BossDamagePercent is the share of every boss's maximum health dealt
	// when the player captures this building.
	BossDamagePercent float64

	session *Session
}

// Session returns the active capture session, or nil.
func (b *Building) Session() *Session {
	return b.session
}

// ProgressNormalized is capture progress in [0,1].
func (b *Building) ProgressNormalized() float64 {
	if b.session == nil || b.BeatsToCapture <= 0 {
		return 0
	}
	return min(1, float64(b.session.Progress)/float64(b.BeatsToCapture))
}

// IsBeingCaptured reports whether a session with contributors is active.
func (b *Building) IsBeingCaptured() bool {
	return b.session != nil && len(b.session.Contributors) > 0
}

// StartCapture adds unit to the building's capture session for team, opening
// one if needed. A session of another team with contributors blocks the
// request.
func (b *Building) StartCapture(team faction.Team, unit arena.Handle, unitTile hexgrid.TilePos) error {
	if !b.Capturable {
		return ErrNotCapturable
	}
	if team == faction.Neutral {
		return ErrNeutralTeam
	}
	if b.Team == team {
		return ErrAlreadyOwned
	}
	if hexgrid.Distance(unitTile, b.Tile) > captureRange {
		return ErrOutOfRange
	}
	if b.session != nil && b.session.Team != team && len(b.session.Contributors) > 0 {
		return ErrContested
	}
	if b.session == nil || b.session.Team != team {
		b.session = &Session{Team: team}
	}
	if !b.session.contains(unit) {
		b.session.Contributors = append(b.session.Contributors, unit)
	}
	return nil
}

// StopCapturing withdraws unit. The session is cancelled when its last
// contributor leaves.
func (b *Building) StopCapturing(unit arena.Handle) {
	if b.session == nil {
		return
	}
	if b.session.remove(unit) && len(b.session.Contributors) == 0 {
		b.session = nil
	}
}

// Result reports what one capture beat did.
type Result struct {
	Progressed bool
	Completed  bool
	OldTeam    faction.Team
	NewTeam    faction.Team
	Captor     arena.Handle // first contributor at completion
}

// OnBeat advances the session by one point per contributor and completes the
// capture once enough effort has accumulated.
func (b *Building) OnBeat(n Notifier) Result {
	s := b.session
	if s == nil || len(s.Contributors) == 0 || s.Team == b.Team || s.Team == faction.Neutral {
		return Result{}
	}
	s.Progress += len(s.Contributors)
	units := append([]arena.Handle(nil), s.Contributors...)
	if n != nil {
		for _, u := range units {
			n.OnCaptureBeat(u)
		}
	}
	// a callback may have withdrawn contributors or cancelled the session
	if b.session != s {
		return Result{Progressed: true}
	}
	if s.Progress < b.BeatsToCapture {
		return Result{Progressed: true}
	}

	res := Result{Progressed: true, Completed: true, OldTeam: b.Team, NewTeam: s.Team}
	if len(s.Contributors) > 0 {
		res.Captor = s.Contributors[0]
	}
	b.Team = s.Team
	finished := append([]arena.Handle(nil), s.Contributors...)
	b.session = nil
	if n != nil {
		for _, u := range finished {
			n.OnCaptureComplete(u)
		}
	}
	return res
}

// Cancel drops the session and tells every contributor it ended.
func (b *Building) Cancel(n Notifier) {
	s := b.session
	if s == nil {
		return
	}
	b.session = nil
	if n == nil {
		return
	}
	for _, u := range s.Contributors {
		n.OnCaptureComplete(u)
	}
}

// TakeDamage applies a hit of raw strength through defence. Returns the damage
// dealt and whether the building was destroyed by it.
func (b *Building) TakeDamage(raw int) (int, bool) {
	if raw <= 0 || b.Health <= 0 {
		return 0, false
	}
	dmg := combat.BuildingDamage(raw, b.Defense)
	b.Health -= dmg
	return dmg, b.Health <= 0
}

// Heal restores health up to the maximum.
func (b *Building) Heal(amount int) {
	if amount <= 0 || b.Health <= 0 {
		return
	}
	b.Health = min(b.MaxHealth, b.Health+amount)
}

// SetTargetable toggles whether units may attack the building.
func (b *Building) SetTargetable(v bool) {
	b.Targetable = v
}
