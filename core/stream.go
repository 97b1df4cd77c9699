package core

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/signalsfoundry/groundstation-emulator/internal/eventlog"
	"github.com/signalsfoundry/groundstation-emulator/internal/logging"
	"github.com/signalsfoundry/groundstation-emulator/internal/observability"
	"github.com/signalsfoundry/groundstation-emulator/model"
	"github.com/signalsfoundry/groundstation-emulator/xlapi"
)

// StreamConfig tunes the channel-fed driver.
type StreamConfig struct {
	// ReadTimeout bounds each blocking read on the target channel.
	ReadTimeout time.Duration
	// AlignTolerance is how far a signal sample's timestamp may sit from
	// the target's before the sample is considered stale and the lock
	// decision degrades to pointing-only. Defaults to one tick interval.
	AlignTolerance time.Duration
}

// DefaultReadTimeout is the per-read bound in streaming mode.
const DefaultReadTimeout = time.Second

// StreamReceiver is the streaming realization of the tracking loop: a
// producer pushes TargetCommand/SignalSample messages into the two xlapi
// channels while the receiver pulls them here. The blocking read on the
// target channel is the loop's only suspension point; signal samples are
// drained without blocking and paired to the current target by nearest
// timestamp.
type StreamReceiver struct {
	api     *xlapi.API
	session *TrackingSession
	cfg     StreamConfig

	lastSample model.SignalSample
	haveSample bool

	log     logging.Logger
	events  *eventlog.Writer
	metrics *observability.StationCollector
}

// NewStreamReceiver wires a receiver to the API channels and a session.
// Zero config fields get defaults (1 s read timeout, tolerance = one tick).
func NewStreamReceiver(api *xlapi.API, session *TrackingSession, cfg StreamConfig, log logging.Logger, events *eventlog.Writer) *StreamReceiver {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.AlignTolerance <= 0 {
		cfg.AlignTolerance = time.Duration(session.dtSeconds * float64(time.Second))
	}
	if log == nil {
		log = logging.Noop()
	}
	r := &StreamReceiver{
		api:     api,
		session: session,
		cfg:     cfg,
		log:     log,
		events:  events,
	}
	api.SetStatusSource(session.lock)
	return r
}

// SetMetrics attaches an optional Prometheus collector for read timeouts.
func (r *StreamReceiver) SetMetrics(m *observability.StationCollector) {
	r.metrics = m
}

// Run consumes until the context is cancelled. A read timeout is not an
// error condition for session continuity: the tick is skipped, the pose
// stays where it is, and no counter advances. Failures inside a tick never
// propagate out of the loop.
func (r *StreamReceiver) Run(ctx context.Context) error {
	ctx, span := otel.Tracer("core").Start(ctx, "stream.run")
	defer span.End()

	for {
		select {
		case <-ctx.Done():
			r.log.Info(ctx, "stream receiver stopped",
				logging.Int("ticks", r.session.Stats().TotalTicks))
			return nil
		default:
		}

		target, err := r.api.Targets.Receive(r.cfg.ReadTimeout)
		if err != nil {
			if errors.Is(err, xlapi.ErrTimeout) {
				r.log.Debug(ctx, "no antenna target within timeout; tick skipped")
				r.events.Append(eventlog.KindReceiveTimeout, "channel=target")
				r.metrics.RecordTimeout("target")
				continue
			}
			return err
		}
		r.events.Appendf(eventlog.KindReceive, "channel=target az=%.2f el=%.2f",
			target.AzimuthDeg, target.ElevationDeg)

		sample, ok := r.pairSignal(target.Time)
		if !ok {
			r.log.Debug(ctx, "no aligned signal sample; lock degraded to pointing-only")
		}
		r.session.TickTracked(target, sample, ok)
	}
}

// pairSignal drains the signal channel without blocking and returns the
// held sample when its timestamp sits within the alignment tolerance of
// the target's. Each stream carries monotonically increasing timestamps,
// so the newest drained sample is also the nearest to the current target;
// an older sample outside the tolerance means "SNR unknown" for this tick.
func (r *StreamReceiver) pairSignal(targetTime time.Time) (model.SignalSample, bool) {
	for {
		s, err := r.api.Signals.Receive(0)
		if err != nil {
			break
		}
		r.lastSample = s
		r.haveSample = true
	}
	if !r.haveSample {
		return model.SignalSample{}, false
	}
	if absDuration(r.lastSample.Time.Sub(targetTime)) > r.cfg.AlignTolerance {
		return model.SignalSample{}, false
	}
	return r.lastSample, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
