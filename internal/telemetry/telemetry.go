// Package telemetry counts simulation activity on OpenTelemetry instruments
// and keeps running totals for reports.
package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Config controls where instruments are created.
type Config struct {
	Enabled     bool
	ServiceName string
}

// Meter returns the global meter for the service when enabled, or a no-op
// meter.
func Meter(cfg Config) metric.Meter {
	if !cfg.Enabled {
		return noop.Meter{}
	}
	name := cfg.ServiceName
	if name == "" {
		name = "hex-cadence"
	}
	return otel.Meter(name)
}

// Totals is a snapshot of everything a Recorder has counted.
type Totals struct {
	ReservationsGranted  int64
	ReservationConflicts int64
	ReservationsReleased int64
	Beats                int64
	StuckFallbacks       int64
	Attacks              int64
	Damage               int64
	Kills                int64
	Captures             int64
	Violations           int64
}

// ConflictRate is the share of reservation attempts that were refused.
func (t Totals) ConflictRate() float64 {
	attempts := t.ReservationsGranted + t.ReservationConflicts
	if attempts == 0 {
		return 0
	}
	return float64(t.ReservationConflicts) / float64(attempts)
}

func (t Totals) String() string {
	return fmt.Sprintf("beats=%d granted=%d conflicts=%d (%.1f%%) released=%d stuck=%d attacks=%d damage=%d kills=%d captures=%d violations=%d",
		t.Beats, t.ReservationsGranted, t.ReservationConflicts, t.ConflictRate()*100, t.ReservationsReleased,
		t.StuckFallbacks, t.Attacks, t.Damage, t.Kills, t.Captures, t.Violations)
}

// Recorder implements the simulation's Metrics sink.
type Recorder struct {
	ctx context.Context

	granted    metric.Int64Counter
	conflicts  metric.Int64Counter
	released   metric.Int64Counter
	beats      metric.Int64Counter
	stuck      metric.Int64Counter
	attacks    metric.Int64Counter
	damage     metric.Int64Histogram
	kills      metric.Int64Counter
	captures   metric.Int64Counter
	violations metric.Int64Counter

	nGranted, nConflicts, nReleased, nBeats, nStuck  atomic.Int64
	nAttacks, nDamage, nKills, nCaptures, nViolation atomic.Int64
}

// NewRecorder creates the instruments on meter.
func NewRecorder(meter metric.Meter) (*Recorder, error) {
	r := &Recorder{ctx: context.Background()}
	var err error
	counter := func(name, desc string) metric.Int64Counter {
		if err != nil {
			return nil
		}
		var c metric.Int64Counter
		c, err = meter.Int64Counter(name, metric.WithDescription(desc))
		return c
	}
	r.granted = counter("hexcadence.reservation.granted", "Tile reservations granted")
	r.conflicts = counter("hexcadence.reservation.conflicts", "Tile reservations refused because another actor holds the tile")
	r.released = counter("hexcadence.reservation.released", "Tile reservations released")
	r.beats = counter("hexcadence.beats", "Beats processed")
	r.stuck = counter("hexcadence.movement.stuck_fallbacks", "Forced detours taken by stuck actors")
	r.attacks = counter("hexcadence.combat.attacks", "Attacks resolved")
	r.kills = counter("hexcadence.combat.kills", "Units killed")
	r.captures = counter("hexcadence.capture.completed", "Buildings captured")
	r.violations = counter("hexcadence.invariant.violations", "Invariant violations detected")
	if err != nil {
		return nil, fmt.Errorf("creating counters: %w", err)
	}
	r.damage, err = meter.Int64Histogram("hexcadence.combat.damage",
		metric.WithDescription("Damage per resolved attack"), metric.WithUnit("{hp}"))
	if err != nil {
		return nil, fmt.Errorf("creating damage histogram: %w", err)
	}
	return r, nil
}

func (r *Recorder) ReservationGranted() {
	r.nGranted.Add(1)
	r.granted.Add(r.ctx, 1)
}

func (r *Recorder) ReservationConflict() {
	r.nConflicts.Add(1)
	r.conflicts.Add(r.ctx, 1)
}

func (r *Recorder) ReservationReleased() {
	r.nReleased.Add(1)
	r.released.Add(r.ctx, 1)
}

func (r *Recorder) BeatProcessed() {
	r.nBeats.Add(1)
	r.beats.Add(r.ctx, 1)
}

func (r *Recorder) StuckFallback() {
	r.nStuck.Add(1)
	r.stuck.Add(r.ctx, 1)
}

func (r *Recorder) AttackResolved(damage int) {
	r.nAttacks.Add(1)
	r.nDamage.Add(int64(damage))
	r.attacks.Add(r.ctx, 1)
	r.damage.Record(r.ctx, int64(damage))
}

func (r *Recorder) UnitKilled() {
	r.nKills.Add(1)
	r.kills.Add(r.ctx, 1)
}

func (r *Recorder) CaptureCompleted() {
	r.nCaptures.Add(1)
	r.captures.Add(r.ctx, 1)
}

func (r *Recorder) InvariantViolation() {
	r.nViolation.Add(1)
	r.violations.Add(r.ctx, 1)
}

// Totals returns the counts so far.
func (r *Recorder) Totals() Totals {
	return Totals{
		ReservationsGranted:  r.nGranted.Load(),
		ReservationConflicts: r.nConflicts.Load(),
		ReservationsReleased: r.nReleased.Load(),
		Beats:                r.nBeats.Load(),
		StuckFallbacks:       r.nStuck.Load(),
		Attacks:              r.nAttacks.Load(),
		Damage:               r.nDamage.Load(),
		Kills:                r.nKills.Load(),
		Captures:             r.nCaptures.Load(),
		Violations:           r.nViolation.Load(),
	}
}
