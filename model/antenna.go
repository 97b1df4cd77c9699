package model

import "time"

// AntennaPose is the physical pointing of the ground-station antenna.
// Azimuth is always normalized into [0,360) and elevation clamped into
// [0,90]; only the antenna controller mutates a pose.
type AntennaPose struct {
	AzimuthDeg   float64
	ElevationDeg float64
}

// AntennaParams are the mechanical and RF characteristics of the antenna.
// They are immutable for the lifetime of a tracking session.
type AntennaParams struct {
	// SlewRateDegS is the maximum angular speed per axis, degrees/second.
	SlewRateDegS float64
	// BeamwidthDeg is the width of the main lobe; half of it is the
	// pointing-error threshold for lock.
	BeamwidthDeg float64
	// PointingNoiseDeg is the standard deviation of the zero-mean Gaussian
	// perturbation applied to each axis after a move. 0 disables noise.
	PointingNoiseDeg float64
}

// TargetCommand tells the antenna where the target currently is.
// Produced by the propagator, consumed once by the controller.
type TargetCommand struct {
	AzimuthDeg   float64
	ElevationDeg float64
	Time         time.Time
}
