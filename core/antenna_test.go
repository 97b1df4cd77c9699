package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/groundstation-emulator/model"
)

func newTestController(t *testing.T, params model.AntennaParams) *AntennaController {
	t.Helper()
	c, err := NewAntennaController(params, 1, nil, nil)
	if err != nil {
		t.Fatalf("NewAntennaController: %v", err)
	}
	return c
}

func defaultParams() model.AntennaParams {
	return model.AntennaParams{SlewRateDegS: 5, BeamwidthDeg: 10}
}

func TestNewAntennaController_RejectsBadParams(t *testing.T) {
	cases := []struct {
		name   string
		params model.AntennaParams
	}{
		{"zero slew rate", model.AntennaParams{SlewRateDegS: 0, BeamwidthDeg: 10}},
		{"negative slew rate", model.AntennaParams{SlewRateDegS: -5, BeamwidthDeg: 10}},
		{"zero beamwidth", model.AntennaParams{SlewRateDegS: 5, BeamwidthDeg: 0}},
		{"negative noise", model.AntennaParams{SlewRateDegS: 5, BeamwidthDeg: 10, PointingNoiseDeg: -0.5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewAntennaController(tc.params, 1, nil, nil); err == nil {
				t.Errorf("expected construction failure for %+v", tc.params)
			}
		})
	}
}

// Wraparound: at 1° commanded to 359°, the correct delta is -2°, not +358°.
func TestMove_ShortestPathWraparound(t *testing.T) {
	c := newTestController(t, defaultParams())
	c.pose = model.AntennaPose{AzimuthDeg: 1}

	pose := c.Move(model.TargetCommand{AzimuthDeg: 359}, 1.0)
	if math.Abs(pose.AzimuthDeg-359) > 1e-9 {
		t.Errorf("azimuth = %v, want 359 (shortest path through 0°)", pose.AzimuthDeg)
	}
}

// Slew clamp: at 0° commanded to 350°, the wrapped delta -10° clamps to -5°.
func TestMove_SlewRateClamp(t *testing.T) {
	c := newTestController(t, defaultParams())

	pose := c.Move(model.TargetCommand{AzimuthDeg: 350}, 1.0)
	if math.Abs(pose.AzimuthDeg-355) > 1e-9 {
		t.Errorf("azimuth = %v, want 355 (delta clamped to -5°)", pose.AzimuthDeg)
	}
}

func TestMove_RateLimitInvariant(t *testing.T) {
	c := newTestController(t, defaultParams())
	const dt = 1.0
	maxStep := c.Params().SlewRateDegS * dt

	targets := []model.TargetCommand{
		{AzimuthDeg: 350, ElevationDeg: 80},
		{AzimuthDeg: 10, ElevationDeg: 5},
		{AzimuthDeg: 180, ElevationDeg: 45},
		{AzimuthDeg: 0.5, ElevationDeg: 0},
		{AzimuthDeg: 359.5, ElevationDeg: 90},
	}
	for i, target := range targets {
		before := c.Pose()
		after := c.Move(target, dt)

		azChange := azimuthSeparation(before.AzimuthDeg, after.AzimuthDeg)
		if azChange > maxStep+1e-9 {
			t.Errorf("tick %d: azimuth moved %v°, exceeds slew limit %v°", i, azChange, maxStep)
		}
		elChange := math.Abs(after.ElevationDeg - before.ElevationDeg)
		if elChange > maxStep+1e-9 {
			t.Errorf("tick %d: elevation moved %v°, exceeds slew limit %v°", i, elChange, maxStep)
		}
	}
}

func TestMove_RangeInvariants(t *testing.T) {
	c := newTestController(t, model.AntennaParams{SlewRateDegS: 200, BeamwidthDeg: 10})

	targets := []model.TargetCommand{
		{AzimuthDeg: 359.9, ElevationDeg: 90},
		{AzimuthDeg: 0, ElevationDeg: 0},
		{AzimuthDeg: 180, ElevationDeg: 89.9},
		{AzimuthDeg: 0.1, ElevationDeg: 45},
	}
	for i, target := range targets {
		pose := c.Move(target, 1.0)
		if pose.AzimuthDeg < 0 || pose.AzimuthDeg >= 360 {
			t.Errorf("tick %d: azimuth %v outside [0,360)", i, pose.AzimuthDeg)
		}
		if pose.ElevationDeg < 0 || pose.ElevationDeg > 90 {
			t.Errorf("tick %d: elevation %v outside [0,90]", i, pose.ElevationDeg)
		}
	}
}

// Once the pose matches the target exactly, repeated ticks must not move it.
func TestMove_IdempotentAtTarget(t *testing.T) {
	c := newTestController(t, defaultParams())
	target := model.TargetCommand{AzimuthDeg: 3, ElevationDeg: 4}

	// Reach the target, then hold.
	for i := 0; i < 5; i++ {
		c.Move(target, 1.0)
	}
	settled := c.Pose()
	if math.Abs(settled.AzimuthDeg-3) > 1e-9 || math.Abs(settled.ElevationDeg-4) > 1e-9 {
		t.Fatalf("antenna did not settle on target, pose = %+v", settled)
	}
	for i := 0; i < 3; i++ {
		pose := c.Move(target, 1.0)
		if pose != settled {
			t.Errorf("tick %d after settling moved pose: %+v", i, pose)
		}
	}
}

func TestMove_PointingNoisePerturbsPose(t *testing.T) {
	params := defaultParams()
	params.PointingNoiseDeg = 0.5
	c := newTestController(t, params)
	target := model.TargetCommand{AzimuthDeg: 10, ElevationDeg: 10}

	// Drive long enough to settle, then check that noise keeps the pose
	// wiggling around the target instead of pinning it exactly.
	exact := 0
	for i := 0; i < 50; i++ {
		pose := c.Move(target, 1.0)
		if pose.AzimuthDeg == 10 && pose.ElevationDeg == 10 {
			exact++
		}
		if pose.ElevationDeg < 0 || pose.ElevationDeg > 90 {
			t.Fatalf("noise pushed elevation out of range: %v", pose.ElevationDeg)
		}
	}
	if exact == 50 {
		t.Error("pointing noise enabled but pose always landed exactly on target")
	}
}

// Pose is queried from HTTP handler goroutines while Move runs on the
// receiver goroutine; both must be safe under the race detector.
func TestMove_ConcurrentPoseReads(t *testing.T) {
	c := newTestController(t, defaultParams())
	target := model.TargetCommand{AzimuthDeg: 180, ElevationDeg: 45}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			c.Move(target, 0.01)
		}
	}()

	for i := 0; i < 1000; i++ {
		pose := c.Pose()
		if pose.AzimuthDeg < 0 || pose.AzimuthDeg >= 360 {
			t.Errorf("observed azimuth %v outside [0,360)", pose.AzimuthDeg)
			break
		}
		if pose.ElevationDeg < 0 || pose.ElevationDeg > 90 {
			t.Errorf("observed elevation %v outside [0,90]", pose.ElevationDeg)
			break
		}
	}
	<-done
}
