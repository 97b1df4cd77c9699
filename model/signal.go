package model

import "time"

// SignalSample is one received-signal measurement from the signal model.
type SignalSample struct {
	SNRdB     float64
	DopplerHz float64
	Time      time.Time
}

// LockState is the binary radio-lock state of the receiver.
type LockState int

const (
	Unlocked LockState = iota
	Locked
)

// String returns the dashboard-compatible form of the state.
func (s LockState) String() string {
	if s == Locked {
		return "Locked"
	}
	return "Unlocked"
}

// SentinelErrorDeg is the pointing error recorded when no error is defined,
// i.e. the target is below the horizon. A large plain float keeps the
// numeric type uniform instead of introducing a nullable field.
const SentinelErrorDeg = 999.0

// LockStatus is the per-tick lock decision together with the inputs that
// produced it. SNRValid is false when no usable signal sample was available
// for the tick and the decision degraded to pointing-only.
type LockStatus struct {
	State          LockState
	PointingErrDeg float64
	SNRdB          float64
	SNRValid       bool
	Time           time.Time
}
