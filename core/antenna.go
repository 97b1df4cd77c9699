package core

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/signalsfoundry/groundstation-emulator/internal/eventlog"
	"github.com/signalsfoundry/groundstation-emulator/internal/logging"
	"github.com/signalsfoundry/groundstation-emulator/model"
)

// AntennaController owns the physical antenna pose and advances it one
// discrete step per tick toward a commanded target, under the maximum slew
// rate and the azimuth/elevation range constraints.
type AntennaController struct {
	params model.AntennaParams

	// mu guards pose: Move runs on the receiver goroutine while Pose is
	// queried from HTTP handler goroutines.
	mu   sync.RWMutex
	pose model.AntennaPose

	// noise is non-nil only when PointingNoiseDeg > 0.
	noise *distuv.Normal

	log    logging.Logger
	events *eventlog.Writer
}

// NewAntennaController validates the antenna parameters and returns a
// controller parked at azimuth 0, elevation 0. seed makes the pointing
// noise reproducible; it is ignored when noise is disabled.
func NewAntennaController(params model.AntennaParams, seed uint64, log logging.Logger, events *eventlog.Writer) (*AntennaController, error) {
	if params.SlewRateDegS <= 0 {
		return nil, fmt.Errorf("%w: slew rate must be positive, got %v", ErrConfig, params.SlewRateDegS)
	}
	if params.BeamwidthDeg <= 0 {
		return nil, fmt.Errorf("%w: beamwidth must be positive, got %v", ErrConfig, params.BeamwidthDeg)
	}
	if params.PointingNoiseDeg < 0 {
		return nil, fmt.Errorf("%w: pointing noise must be non-negative, got %v", ErrConfig, params.PointingNoiseDeg)
	}
	if log == nil {
		log = logging.Noop()
	}

	c := &AntennaController{
		params: params,
		log:    log,
		events: events,
	}
	if params.PointingNoiseDeg > 0 {
		c.noise = &distuv.Normal{
			Mu:    0,
			Sigma: params.PointingNoiseDeg,
			Src:   rand.NewPCG(seed, seed),
		}
	}
	return c, nil
}

// Pose returns the current antenna pointing.
func (c *AntennaController) Pose() model.AntennaPose {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pose
}

// Params returns the immutable antenna parameters.
func (c *AntennaController) Params() model.AntennaParams {
	return c.params
}

// Move advances the antenna one step of dtSeconds toward target and returns
// the resulting pose. The azimuth delta takes the shortest path around the
// 0°/360° boundary, and the per-axis change from the commanded step never
// exceeds SlewRateDegS*dtSeconds no matter how far away the target is.
func (c *AntennaController) Move(target model.TargetCommand, dtSeconds float64) model.AntennaPose {
	maxStep := c.params.SlewRateDegS * dtSeconds

	c.mu.Lock()
	azDelta := wrapDeltaDeg(c.pose.AzimuthDeg, target.AzimuthDeg)
	elDelta := target.ElevationDeg - c.pose.ElevationDeg

	azStep := clamp(azDelta, -maxStep, maxStep)
	elStep := clamp(elDelta, -maxStep, maxStep)

	az := normalizeAzimuth(c.pose.AzimuthDeg + azStep)
	el := clampElevation(c.pose.ElevationDeg + elStep)

	if c.noise != nil {
		az = normalizeAzimuth(az + c.noise.Rand())
		el = clampElevation(el + c.noise.Rand())
	}

	pose := model.AntennaPose{AzimuthDeg: az, ElevationDeg: el}
	c.pose = pose
	c.mu.Unlock()

	c.log.Debug(context.Background(), "moved antenna",
		logging.Float("azimuth_deg", az),
		logging.Float("elevation_deg", el))
	c.events.Appendf(eventlog.KindAntennaMove, "az=%.2f el=%.2f", az, el)
	return pose
}
