package model

import "time"

// GroundStation is the observer location for look-angle computation.
type GroundStation struct {
	LatitudeDeg  float64
	LongitudeDeg float64
	ElevationM   float64
}

// EphemerisPoint is one propagator output record: where the target is,
// as seen from the ground station, at a given instant. BelowHorizon is
// authoritative downstream; consumers do not recompute it.
type EphemerisPoint struct {
	Time         time.Time
	AzimuthDeg   float64
	ElevationDeg float64
	RangeKm      float64
	RangeRateKmS float64
	BelowHorizon bool
}
