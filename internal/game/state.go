package game

import (
	"fmt"

	"github.com/Garsondee/hex-cadence/internal/arena"
)

// setState switches an actor's state and applies the transition side
// effects.
func (s *Sim) setState(a *Actor, next ActorState) {
	switch next {
	case StateIdle:
		a.interacting = false
		s.stopCapture(a)
		a.targetUnit = arena.Nil
		a.targetBuilding = arena.Nil
	case StateAttacking:
		s.stopCapture(a)
	case StateCapturing:
		a.targetUnit = arena.Nil
		a.interacting = true
	case StateMoving:
		s.stopCapture(a)
		a.interacting = false
	}
	if a.State != next {
		s.trace(a, "state", "change", fmt.Sprintf("%s → %s", a.State, next), 0)
		a.State = next
	}
}

// actorBeat is the per-beat handler of one actor.
func (s *Sim) actorBeat(a *Actor, beatDuration float64) {
	if a.disabled {
		return
	}
	if n := a.Buffs.Tick(beatDuration); n > 0 {
		s.trace(a, "buff", "expired", fmt.Sprintf("%d expired", n), float64(n))
	}
	if a.stun > 0 {
		a.stun--
		if a.stun == 0 {
			s.trace(a, "boss", "stun_over", "", 0)
		}
		return
	}
	if a.spawning {
		s.trySpawnAttach(a)
		return
	}
	if a.Pending.Kind == PendingStepCommit || a.Pending.Kind == PendingAttackAnimation {
		return
	}
	if a.behavior.Boss != nil {
		s.bossBeat(a, a.behavior.Boss)
		return
	}

	moved := false
	if a.State != StateCapturing {
		moved = s.movementBeat(a)
	}

	if moved {
		a.AttackBeatCounter = 0
	} else if a.State != StateCapturing {
		a.AttackBeatCounter++
		if a.AttackBeatCounter >= a.Stats.AttackDelay {
			a.AttackBeatCounter = 0
			s.attackBeat(a)
		}
	}

	if a.State == StateIdle && a.Pending.Kind == PendingNone {
		if b, ok := a.behavior.Capture.Choose(s, a); ok {
			if err := s.PerformCapture(a.ID, b.ID); err != nil {
				s.trace(a, "capture", "rejected", fmt.Sprintf("%s: %v", b.Name, err), 0)
			}
		}
	}

	if a.State == StateCapturing {
		a.Pending = PendingAction{Kind: PendingCaptureTick, Building: a.captureTarget}
	}
}

// movementBeat runs the movement part of a beat. Returns true when a step
// started.
func (s *Sim) movementBeat(a *Actor) bool {
	dest, ok := a.behavior.Targeting.Destination(s, a)
	a.dest, a.hasDest = dest, ok
	if !ok || a.behavior.Movement.Arrived(a.tile, dest) {
		if a.State != StateIdle && a.Pending.Kind == PendingNone {
			s.setState(a, StateIdle)
		}
		return false
	}
	a.BeatCounter++
	if a.BeatCounter < a.MovementDelay() {
		return false
	}
	a.BeatCounter = 0
	return s.advanceOneStep(a, dest)
}
