package core

import (
	"context"
	"sync"
	"time"

	"github.com/signalsfoundry/groundstation-emulator/internal/eventlog"
	"github.com/signalsfoundry/groundstation-emulator/internal/logging"
	"github.com/signalsfoundry/groundstation-emulator/model"
)

// DefaultSNRThresholdDB is the signal-quality floor for lock.
const DefaultSNRThresholdDB = 10.0

// LockStateMachine derives the binary radio-lock state from signal quality
// and pointing accuracy. The transition rule is purely functional per tick;
// the machine only remembers the last decision so it can be queried on
// demand.
type LockStateMachine struct {
	snrThresholdDB float64
	halfBeamDeg    float64

	mu   sync.RWMutex
	last model.LockStatus

	log    logging.Logger
	events *eventlog.Writer
}

// NewLockStateMachine builds a machine from the antenna parameters, using
// half the beamwidth as the pointing-error threshold and the default SNR
// threshold. The initial state is Unlocked with the sentinel error.
func NewLockStateMachine(params model.AntennaParams, log logging.Logger, events *eventlog.Writer) *LockStateMachine {
	if log == nil {
		log = logging.Noop()
	}
	return &LockStateMachine{
		snrThresholdDB: DefaultSNRThresholdDB,
		halfBeamDeg:    params.BeamwidthDeg / 2,
		last: model.LockStatus{
			State:          model.Unlocked,
			PointingErrDeg: model.SentinelErrorDeg,
		},
		log:    log,
		events: events,
	}
}

// Evaluate combines one signal sample with the current pointing error:
// Locked iff SNR exceeds the threshold and the error is inside half the
// beamwidth.
func (m *LockStateMachine) Evaluate(sample model.SignalSample, pointingErrDeg float64) model.LockStatus {
	state := model.Unlocked
	if sample.SNRdB > m.snrThresholdDB && pointingErrDeg < m.halfBeamDeg {
		state = model.Locked
	}
	return m.record(model.LockStatus{
		State:          state,
		PointingErrDeg: pointingErrDeg,
		SNRdB:          sample.SNRdB,
		SNRValid:       true,
		Time:           sample.Time,
	})
}

// EvaluateDegraded decides lock from pointing error alone, for streaming
// ticks where no usable signal sample arrived ("SNR unknown").
func (m *LockStateMachine) EvaluateDegraded(pointingErrDeg float64, at time.Time) model.LockStatus {
	state := model.Unlocked
	if pointingErrDeg < m.halfBeamDeg {
		state = model.Locked
	}
	return m.record(model.LockStatus{
		State:          state,
		PointingErrDeg: pointingErrDeg,
		Time:           at,
	})
}

// ForceUnlocked records the terminal below-horizon state: Unlocked with the
// sentinel pointing error.
func (m *LockStateMachine) ForceUnlocked(at time.Time) model.LockStatus {
	return m.record(model.LockStatus{
		State:          model.Unlocked,
		PointingErrDeg: model.SentinelErrorDeg,
		Time:           at,
	})
}

// StatusDetail returns the last decision and logs the SNR and error that
// produced it. The side effect never influences the decision itself.
func (m *LockStateMachine) StatusDetail() model.LockStatus {
	m.mu.RLock()
	last := m.last
	m.mu.RUnlock()

	m.log.Info(context.Background(), "lock status queried",
		logging.String("state", last.State.String()),
		logging.Float("snr_db", last.SNRdB),
		logging.Float("pointing_error_deg", last.PointingErrDeg))
	m.events.Appendf(eventlog.KindLockDecision, "state=%s snr=%.2f error=%.2f",
		last.State, last.SNRdB, last.PointingErrDeg)
	return last
}

// Status returns the dashboard string form of the last decision.
func (m *LockStateMachine) Status() string {
	return m.StatusDetail().State.String()
}

func (m *LockStateMachine) record(status model.LockStatus) model.LockStatus {
	m.mu.Lock()
	m.last = status
	m.mu.Unlock()
	return status
}
