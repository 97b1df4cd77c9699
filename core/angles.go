package core

import "math"

// normalizeAzimuth wraps an angle into [0,360).
func normalizeAzimuth(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// clampElevation restricts an elevation angle to the antenna's mechanical
// range [0,90].
func clampElevation(deg float64) float64 {
	if deg < 0 {
		return 0
	}
	if deg > 90 {
		return 90
	}
	return deg
}

// wrapDeltaDeg returns the shortest-path signed azimuth delta from 'from'
// to 'to', in (-180,180]. Near the 0°/360° boundary a naive subtraction
// would send the antenna the long way around.
func wrapDeltaDeg(from, to float64) float64 {
	raw := to - from
	if raw > 180 {
		raw -= 360
	} else if raw < -180 {
		raw += 360
	}
	return raw
}

// azimuthSeparation returns the unsigned shortest angular distance between
// two azimuths, in [0,180].
func azimuthSeparation(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 360-d)
}

// clamp restricts v to [lo,hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
