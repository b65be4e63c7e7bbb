package game

import "errors"

// Per-actor failures. None of them stop the simulation.
var (
	// ErrReservationConflict means another actor holds a tile the actor tried
	// to claim. Retried through the stuck counter.
	ErrReservationConflict = errors.New("reservation conflict")
	// ErrPathfindingFailure means no neighbour leads toward the destination.
	ErrPathfindingFailure = errors.New("no step toward destination")
	// ErrStaleTarget means the target of an in-flight action no longer
	// resolves. The action is aborted.
	ErrStaleTarget = errors.New("stale target")
	// ErrInvariantViolation is returned by Beat in strict mode when the
	// reservation map and actor positions disagree.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrMissingCollaborator means an executor was never wired. The actor
	// disables itself.
	ErrMissingCollaborator = errors.New("missing collaborator")
)

// Logger is the operational logger the simulation writes to.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Metrics receives simulation counters. telemetry.Recorder implements it.
type Metrics interface {
	ReservationGranted()
	ReservationConflict()
	ReservationReleased()
	BeatProcessed()
	StuckFallback()
	AttackResolved(damage int)
	UnitKilled()
	CaptureCompleted()
	InvariantViolation()
}

type nopMetrics struct{}

func (nopMetrics) ReservationGranted()  {}
func (nopMetrics) ReservationConflict() {}
func (nopMetrics) ReservationReleased() {}
func (nopMetrics) BeatProcessed()       {}
func (nopMetrics) StuckFallback()       {}
func (nopMetrics) AttackResolved(int)   {}
func (nopMetrics) UnitKilled()          {}
func (nopMetrics) CaptureCompleted()    {}
func (nopMetrics) InvariantViolation()  {}
