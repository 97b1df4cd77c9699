package model

// TrackingStats are the counters a tracking session accumulates. They grow
// monotonically during a session and are reset only at session start.
// Error statistics cover only ticks where the target was above the horizon.
type TrackingStats struct {
	TotalTicks  int
	LockedTicks int

	// TrackedTicks counts ticks with the target above the horizon; the
	// error sum and max accumulate over those ticks only.
	TrackedTicks int
	ErrorSumDeg  float64
	ErrorMaxDeg  float64
}

// LockPercentage returns the share of ticks spent locked, 0–100.
func (s TrackingStats) LockPercentage() float64 {
	if s.TotalTicks == 0 {
		return 0
	}
	return float64(s.LockedTicks) / float64(s.TotalTicks) * 100
}
