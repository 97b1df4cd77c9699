// Package observability bundles Prometheus metrics and OpenTelemetry
// tracing for the ground-station emulator.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalsfoundry/groundstation-emulator/model"
)

// StationCollector bundles the tracking metrics exposed on /metrics.
type StationCollector struct {
	gatherer prometheus.Gatherer

	TicksTotal       prometheus.Counter
	LockedTicksTotal prometheus.Counter
	CommandsRejected *prometheus.CounterVec
	ChannelTimeouts  *prometheus.CounterVec

	LockState        prometheus.Gauge
	PointingErrDeg   prometheus.Gauge
	SNRdB            prometheus.Gauge
	AntennaAzimuth   prometheus.Gauge
	AntennaElevation prometheus.Gauge
}

// NewStationCollector registers the station metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewStationCollector(reg prometheus.Registerer) (*StationCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_ticks_total",
		Help: "Total tracking ticks processed by the receiver.",
	}), "tracking_ticks_total")
	if err != nil {
		return nil, err
	}
	locked, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_locked_ticks_total",
		Help: "Tracking ticks that ended in the Locked state.",
	}), "tracking_locked_ticks_total")
	if err != nil {
		return nil, err
	}
	rejected, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commands_rejected_total",
		Help: "Commands rejected at the mock hardware boundary, labeled by kind.",
	}, []string{"kind"}), "commands_rejected_total")
	if err != nil {
		return nil, err
	}
	timeouts, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "channel_receive_timeouts_total",
		Help: "Channel reads that timed out, labeled by channel.",
	}, []string{"channel"}), "channel_receive_timeouts_total")
	if err != nil {
		return nil, err
	}

	lockState, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lock_state",
		Help: "Current radio-lock state: 1 locked, 0 unlocked.",
	}), "lock_state")
	if err != nil {
		return nil, err
	}
	pointingErr, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pointing_error_deg",
		Help: "Pointing error of the last tick, degrees (999 below horizon).",
	}), "pointing_error_deg")
	if err != nil {
		return nil, err
	}
	snr, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "signal_snr_db",
		Help: "SNR of the last consumed signal sample, dB.",
	}), "signal_snr_db")
	if err != nil {
		return nil, err
	}
	azimuth, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "antenna_azimuth_deg",
		Help: "Current antenna azimuth, degrees.",
	}), "antenna_azimuth_deg")
	if err != nil {
		return nil, err
	}
	elevation, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "antenna_elevation_deg",
		Help: "Current antenna elevation, degrees.",
	}), "antenna_elevation_deg")
	if err != nil {
		return nil, err
	}

	return &StationCollector{
		gatherer:         gatherer,
		TicksTotal:       ticks,
		LockedTicksTotal: locked,
		CommandsRejected: rejected,
		ChannelTimeouts:  timeouts,
		LockState:        lockState,
		PointingErrDeg:   pointingErr,
		SNRdB:            snr,
		AntennaAzimuth:   azimuth,
		AntennaElevation: elevation,
	}, nil
}

// RecordTick drives the per-tick metrics from one lock decision and the
// resulting pose. Nil-safe so components can run without a collector.
func (c *StationCollector) RecordTick(status model.LockStatus, pose model.AntennaPose) {
	if c == nil {
		return
	}
	c.TicksTotal.Inc()
	if status.State == model.Locked {
		c.LockedTicksTotal.Inc()
		c.LockState.Set(1)
	} else {
		c.LockState.Set(0)
	}
	c.PointingErrDeg.Set(status.PointingErrDeg)
	if status.SNRValid {
		c.SNRdB.Set(status.SNRdB)
	}
	c.AntennaAzimuth.Set(pose.AzimuthDeg)
	c.AntennaElevation.Set(pose.ElevationDeg)
}

// RecordRejection counts one boundary rejection of the given command kind.
func (c *StationCollector) RecordRejection(kind string) {
	if c == nil {
		return
	}
	c.CommandsRejected.WithLabelValues(kind).Inc()
}

// RecordTimeout counts one read timeout on the named channel.
func (c *StationCollector) RecordTimeout(channel string) {
	if c == nil {
		return
	}
	c.ChannelTimeouts.WithLabelValues(channel).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *StationCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
