// Package xlapi emulates the control interface of the receiver hardware:
// two independent command channels (signal samples and antenna targets),
// boundary validation of submitted commands, and the status query surface
// used by dashboards.
package xlapi

import (
	"context"
	"sync"
	"time"

	"github.com/signalsfoundry/groundstation-emulator/internal/eventlog"
	"github.com/signalsfoundry/groundstation-emulator/internal/logging"
	"github.com/signalsfoundry/groundstation-emulator/internal/observability"
	"github.com/signalsfoundry/groundstation-emulator/model"
)

// StatusSource supplies the last lock decision on demand. The tracking
// receiver owns the lock state; the API only relays it.
type StatusSource interface {
	StatusDetail() model.LockStatus
}

// API is the mock hardware boundary. Invalid commands are rejected here
// and never enter a channel.
type API struct {
	Targets *Channel[model.TargetCommand]
	Signals *Channel[model.SignalSample]

	log     logging.Logger
	events  *eventlog.Writer
	metrics *observability.StationCollector

	mu     sync.RWMutex
	status StatusSource
}

// New constructs an API with bounded channels of the given capacity
// (DefaultCapacity when cap < 1). Both log and events may be nil.
func New(capacity int, log logging.Logger, events *eventlog.Writer) *API {
	if log == nil {
		log = logging.Noop()
	}
	return &API{
		Targets: NewChannel[model.TargetCommand](capacity),
		Signals: NewChannel[model.SignalSample](capacity),
		log:     log,
		events:  events,
	}
}

// SetMetrics attaches an optional Prometheus collector for rejections.
func (a *API) SetMetrics(m *observability.StationCollector) {
	a.metrics = m
}

// SetStatusSource wires the receiver that owns the lock state machine.
func (a *API) SetStatusSource(src StatusSource) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = src
}

// SubmitAntennaTarget commands the antenna toward a new target, stamped
// with the current wall clock. See SubmitAntennaTargetAt.
func (a *API) SubmitAntennaTarget(azDeg, elDeg float64) bool {
	return a.SubmitAntennaTargetAt(time.Now().UTC(), azDeg, elDeg)
}

// SubmitAntennaTargetAt commands the antenna toward a new target observed
// at time t. Azimuth outside [0,360] or elevation outside [0,90] is
// rejected: the command is dropped, the reason logged, and false returned.
func (a *API) SubmitAntennaTargetAt(t time.Time, azDeg, elDeg float64) bool {
	ctx := context.Background()
	if azDeg < 0 || azDeg > 360 {
		a.log.Warn(ctx, "antenna target rejected: azimuth out of range",
			logging.Float("azimuth_deg", azDeg))
		a.events.Appendf(eventlog.KindCommandRejected, "azimuth out of range: az=%.2f el=%.2f", azDeg, elDeg)
		a.metrics.RecordRejection("azimuth_range")
		return false
	}
	if elDeg < 0 || elDeg > 90 {
		a.log.Warn(ctx, "antenna target rejected: elevation out of range",
			logging.Float("elevation_deg", elDeg))
		a.events.Appendf(eventlog.KindCommandRejected, "elevation out of range: az=%.2f el=%.2f", azDeg, elDeg)
		a.metrics.RecordRejection("elevation_range")
		return false
	}

	cmd := model.TargetCommand{AzimuthDeg: azDeg, ElevationDeg: elDeg, Time: t}
	if err := a.Targets.Send(cmd); err != nil {
		a.log.Warn(ctx, "antenna target dropped: channel full",
			logging.Float("azimuth_deg", azDeg),
			logging.Float("elevation_deg", elDeg))
		a.events.Appendf(eventlog.KindCommandRejected, "channel full: az=%.2f el=%.2f", azDeg, elDeg)
		a.metrics.RecordRejection("target_channel_full")
		return false
	}
	a.events.Appendf(eventlog.KindCommandAccepted, "az=%.2f el=%.2f", azDeg, elDeg)
	return true
}

// SubmitSignalSample feeds one signal-quality measurement to the receiver.
// Negative SNR is rejected.
func (a *API) SubmitSignalSample(t time.Time, dopplerHz, snrDB float64) bool {
	ctx := context.Background()
	if snrDB < 0 {
		a.log.Warn(ctx, "signal sample rejected: negative SNR",
			logging.Float("snr_db", snrDB))
		a.events.Appendf(eventlog.KindSignalRejected, "negative SNR: snr=%.2f doppler=%.1f", snrDB, dopplerHz)
		a.metrics.RecordRejection("negative_snr")
		return false
	}

	sample := model.SignalSample{SNRdB: snrDB, DopplerHz: dopplerHz, Time: t}
	if err := a.Signals.Send(sample); err != nil {
		a.log.Warn(ctx, "signal sample dropped: channel full",
			logging.Float("snr_db", snrDB))
		a.events.Appendf(eventlog.KindSignalRejected, "channel full: snr=%.2f", snrDB)
		a.metrics.RecordRejection("signal_channel_full")
		return false
	}
	a.events.Appendf(eventlog.KindSignalAccepted, "snr=%.2f doppler=%.1f", snrDB, dopplerHz)
	return true
}

// Status returns the dashboard-compatible "Locked"/"Unlocked" string.
func (a *API) Status() string {
	return a.StatusDetail().State.String()
}

// StatusDetail returns the full last lock decision. Before a receiver is
// wired in, the status is Unlocked with the sentinel pointing error.
func (a *API) StatusDetail() model.LockStatus {
	a.mu.RLock()
	src := a.status
	a.mu.RUnlock()
	if src == nil {
		return model.LockStatus{State: model.Unlocked, PointingErrDeg: model.SentinelErrorDeg}
	}
	return src.StatusDetail()
}
