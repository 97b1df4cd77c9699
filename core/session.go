package core

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/gonum/stat"

	"github.com/signalsfoundry/groundstation-emulator/internal/eventlog"
	"github.com/signalsfoundry/groundstation-emulator/internal/logging"
	"github.com/signalsfoundry/groundstation-emulator/internal/observability"
	"github.com/signalsfoundry/groundstation-emulator/model"
)

// TickInput pairs one propagator record with the signal sample aligned to
// it. In batch mode the pairing is by index; the streaming receiver aligns
// by timestamp instead.
type TickInput struct {
	Target model.EphemerisPoint
	Signal model.SignalSample
}

// Summary is the session result exposed at the end of a run. Error figures
// cover only ticks where the target was above the horizon.
type Summary struct {
	TotalTicks     int
	LockedTicks    int
	LockPercentage float64
	MeanErrorDeg   float64
	MaxErrorDeg    float64
}

// TrackingSession drives one antenna controller and one lock state machine
// across a target time-series, accumulating statistics and history. The
// session object is owned by whoever starts it; there is no process-wide
// instance. Both the batch driver (Run) and the streaming receiver tick the
// same session, so the rate-limit and lock logic exist in exactly one place.
type TrackingSession struct {
	antenna   *AntennaController
	lock      *LockStateMachine
	dtSeconds float64

	mu      sync.Mutex
	stats   model.TrackingStats
	history []model.LockStatus
	errors  []float64

	log     logging.Logger
	events  *eventlog.Writer
	metrics *observability.StationCollector
}

// NewTrackingSession wires a session. dtSeconds is the discrete tick length
// used for slew-rate limiting and must be positive.
func NewTrackingSession(antenna *AntennaController, lock *LockStateMachine, dtSeconds float64, log logging.Logger, events *eventlog.Writer) (*TrackingSession, error) {
	if antenna == nil || lock == nil {
		return nil, fmt.Errorf("%w: session requires an antenna controller and a lock state machine", ErrConfig)
	}
	if dtSeconds <= 0 {
		return nil, fmt.Errorf("%w: tick length must be positive, got %v", ErrConfig, dtSeconds)
	}
	if log == nil {
		log = logging.Noop()
	}
	return &TrackingSession{
		antenna:   antenna,
		lock:      lock,
		dtSeconds: dtSeconds,
		log:       log,
		events:    events,
	}, nil
}

// SetMetrics attaches an optional Prometheus collector; every tick then
// also updates the station gauges and counters.
func (s *TrackingSession) SetMetrics(m *observability.StationCollector) {
	s.metrics = m
}

// Run executes the synchronous batch mode: deterministic, single-threaded
// iteration over a precomputed sequence. The context is checked between
// ticks only, so cancellation never leaves partial tick state behind.
func (s *TrackingSession) Run(ctx context.Context, inputs []TickInput) (Summary, error) {
	ctx, span := otel.Tracer("core").Start(ctx, "tracking.run")
	defer span.End()

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			s.log.Info(ctx, "session cancelled between ticks",
				logging.Int("completed_ticks", s.Stats().TotalTicks))
			return s.Summary(), err
		}

		if in.Target.BelowHorizon || in.Target.ElevationDeg < 0 {
			s.TickBelowHorizon(in.Target)
			continue
		}
		s.TickTracked(model.TargetCommand{
			AzimuthDeg:   in.Target.AzimuthDeg,
			ElevationDeg: in.Target.ElevationDeg,
			Time:         in.Target.Time,
		}, in.Signal, true)
	}

	summary := s.Summary()
	span.SetAttributes(
		attribute.Int("ticks", summary.TotalTicks),
		attribute.Int("locked_ticks", summary.LockedTicks),
		attribute.Float64("lock_pct", summary.LockPercentage),
	)
	s.events.Appendf(eventlog.KindSessionSummary,
		"ticks=%d locked=%d lock_pct=%.1f mean_err=%.2f max_err=%.2f",
		summary.TotalTicks, summary.LockedTicks, summary.LockPercentage,
		summary.MeanErrorDeg, summary.MaxErrorDeg)
	return summary, nil
}

// TickBelowHorizon records the defined terminal state for an unreachable
// target: Unlocked, sentinel error, antenna pose untouched.
func (s *TrackingSession) TickBelowHorizon(target model.EphemerisPoint) model.LockStatus {
	status := s.lock.ForceUnlocked(target.Time)

	s.mu.Lock()
	s.stats.TotalTicks++
	s.history = append(s.history, status)
	s.mu.Unlock()
	s.metrics.RecordTick(status, s.antenna.Pose())
	return status
}

// TickTracked advances the antenna toward target, measures the resulting
// pointing error, and feeds both into the lock decision. snrValid=false
// degrades the decision to pointing-only ("SNR unknown").
func (s *TrackingSession) TickTracked(target model.TargetCommand, sample model.SignalSample, snrValid bool) model.LockStatus {
	pose := s.antenna.Move(target, s.dtSeconds)
	errDeg := PointingError(pose, target)

	var status model.LockStatus
	if snrValid {
		status = s.lock.Evaluate(sample, errDeg)
	} else {
		status = s.lock.EvaluateDegraded(errDeg, target.Time)
	}

	s.mu.Lock()
	s.stats.TotalTicks++
	s.stats.TrackedTicks++
	s.stats.ErrorSumDeg += errDeg
	if errDeg > s.stats.ErrorMaxDeg {
		s.stats.ErrorMaxDeg = errDeg
	}
	if status.State == model.Locked {
		s.stats.LockedTicks++
	}
	s.history = append(s.history, status)
	s.errors = append(s.errors, errDeg)
	s.mu.Unlock()
	s.metrics.RecordTick(status, pose)
	return status
}

// Stats returns a copy of the accumulated counters.
func (s *TrackingSession) Stats() model.TrackingStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// History returns a copy of the per-tick lock decisions.
func (s *TrackingSession) History() []model.LockStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.LockStatus, len(s.history))
	copy(out, s.history)
	return out
}

// Summary computes the end-of-session figures. Mean and max pointing error
// cover above-horizon ticks only.
func (s *TrackingSession) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{
		TotalTicks:     s.stats.TotalTicks,
		LockedTicks:    s.stats.LockedTicks,
		LockPercentage: s.stats.LockPercentage(),
		MaxErrorDeg:    s.stats.ErrorMaxDeg,
	}
	if len(s.errors) > 0 {
		sum.MeanErrorDeg = stat.Mean(s.errors, nil)
	}
	return sum
}
