package game

import (
	"fmt"
	"math"

	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/capture"
	"github.com/Garsondee/hex-cadence/internal/events"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// AddBuilding places a building on the battlefield.
func (s *Sim) AddBuilding(spec capture.Spec) (*capture.Building, error) {
	b, err := s.Buildings.Add(spec)
	if err != nil {
		return nil, fmt.Errorf("adding building: %w", err)
	}
	return b, nil
}

// PerformCapture makes an actor join the capture of a building it stands
// next to.
func (s *Sim) PerformCapture(unit, building arena.Handle) error {
	a, ok := s.actors.Get(unit)
	if !ok {
		return fmt.Errorf("capture by dead unit: %w", ErrStaleTarget)
	}
	b, ok := s.Buildings.Get(building)
	if !ok {
		return fmt.Errorf("capture of missing building: %w", ErrStaleTarget)
	}
	if !b.Capturable {
		return capture.ErrNotCapturable
	}
	if !faction.CanCapture(a.Team, b.Team) {
		return capture.ErrAlreadyOwned
	}
	if !a.attached || hexgrid.Distance(a.tile, b.Tile) > 1 {
		return capture.ErrOutOfRange
	}
	if err := b.StartCapture(a.Team, a.ID, a.tile); err != nil {
		return err
	}
	a.captureTarget = b.ID
	s.setState(a, StateCapturing)
	s.trace(a, "capture", "started", b.Name, 0)
	s.Bus.Publish(events.Event{Type: events.CaptureStarted, Beat: s.beat, Actor: a.ID, Building: b.ID, Team: a.Team, Tile: b.Tile})
	return nil
}

// stopCapture withdraws a from the session it contributes to.
func (s *Sim) stopCapture(a *Actor) {
	if a.captureTarget.IsNil() {
		return
	}
	if b, ok := s.Buildings.Get(a.captureTarget); ok {
		b.StopCapturing(a.ID)
	}
	a.captureTarget = arena.Nil
	if a.Pending.Kind == PendingCaptureTick {
		a.Pending = PendingAction{}
	}
}

// OnCaptureBeat is called for every contributor each beat its session
// progresses.
func (s *Sim) OnCaptureBeat(unit arena.Handle) {
	if a, ok := s.actors.Get(unit); ok {
		s.trace(a, "capture", "beat", "", 0)
	}
}

// OnCaptureComplete ends a contributor's part in a session that finished or
// was cancelled.
func (s *Sim) OnCaptureComplete(unit arena.Handle) {
	a, ok := s.actors.Get(unit)
	if !ok {
		return
	}
	a.captureTarget = arena.Nil
	if a.Pending.Kind == PendingCaptureTick {
		a.Pending = PendingAction{}
	}
	s.setState(a, StateIdle)
}

// captureBeat ticks every capture session and publishes the outcome of
// completed ones.
func (s *Sim) captureBeat() {
	for _, done := range s.Buildings.OnBeat(s) {
		b, r := done.Building, done.Result
		s.metrics.CaptureCompleted()
		s.log.Info("building captured", "beat", s.beat, "building", b.Name, "from", r.OldTeam.String(), "to", r.NewTeam.String())
		if captor, ok := s.actors.Get(r.Captor); ok {
			captor.Captures++
			s.trace(captor, "capture", "complete", b.Name, 0)
		}
		s.Bus.Publish(events.Event{Type: events.TeamChanged, Beat: s.beat, Actor: r.Captor, Building: b.ID, Team: r.NewTeam, OldTeam: r.OldTeam, Tile: b.Tile})
		s.Bus.Publish(events.Event{Type: events.ObjectiveCompleted, Beat: s.beat, Actor: r.Captor, Building: b.ID, Team: r.NewTeam, Tile: b.Tile})
		if r.NewTeam == faction.Player && b.BossDamagePercent > 0 {
			for _, a := range s.Actors() {
				if a.IsBoss() {
					s.TakePercentageDamage(a.ID, b.BossDamagePercent)
				}
			}
		}
	}
}

// TakePercentageDamage removes a share of an actor's maximum health. This is
// the only way to wound the boss.
func (s *Sim) TakePercentageDamage(h arena.Handle, percent float64) int {
	a, ok := s.actors.Get(h)
	if !ok || percent <= 0 {
		return 0
	}
	dmg := int(math.RoundToEven(float64(a.Stats.MaxHealth) * percent / 100))
	a.Health -= dmg
	a.DamageTaken += dmg
	s.trace(a, "combat", "percentage_damage", fmt.Sprintf("%.0f%% = %d", percent, dmg), float64(dmg))
	if a.Health <= 0 {
		a.Health = 0
		s.Kill(a.ID, arena.Nil)
	}
	return dmg
}
