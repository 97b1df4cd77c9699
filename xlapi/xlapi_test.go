package xlapi

import (
	"testing"
	"time"

	"github.com/signalsfoundry/groundstation-emulator/model"
)

func TestSubmitAntennaTarget_BoundaryValidation(t *testing.T) {
	api := New(8, nil, nil)

	cases := []struct {
		name   string
		az, el float64
		want   bool
	}{
		{"valid mid-range", 180, 45, true},
		{"valid zenith", 0, 90, true},
		{"azimuth too large", 400, 45, false},
		{"azimuth negative", -1, 45, false},
		{"elevation negative", 180, -10, false},
		{"elevation too large", 180, 95, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := api.SubmitAntennaTarget(tc.az, tc.el); got != tc.want {
				t.Errorf("SubmitAntennaTarget(%v, %v) = %v, want %v", tc.az, tc.el, got, tc.want)
			}
		})
	}

	// Only the two valid commands may have entered the channel.
	if got := api.Targets.Len(); got != 2 {
		t.Errorf("target channel holds %d commands, want 2", got)
	}
}

func TestSubmitSignalSample_RejectsNegativeSNR(t *testing.T) {
	api := New(8, nil, nil)

	if !api.SubmitSignalSample(time.Now(), 1234.5, 20.1) {
		t.Error("valid signal sample was rejected")
	}
	if api.SubmitSignalSample(time.Now(), 1234.5, -0.1) {
		t.Error("negative SNR sample was accepted")
	}
	if got := api.Signals.Len(); got != 1 {
		t.Errorf("signal channel holds %d samples, want 1", got)
	}
}

type fixedStatus struct{ s model.LockStatus }

func (f fixedStatus) StatusDetail() model.LockStatus { return f.s }

func TestStatus_DelegatesToReceiver(t *testing.T) {
	api := New(8, nil, nil)

	// Before a receiver is wired, status defaults to Unlocked + sentinel.
	if got := api.Status(); got != "Unlocked" {
		t.Fatalf("default status = %q, want Unlocked", got)
	}
	if got := api.StatusDetail().PointingErrDeg; got != model.SentinelErrorDeg {
		t.Fatalf("default pointing error = %v, want sentinel %v", got, model.SentinelErrorDeg)
	}

	api.SetStatusSource(fixedStatus{model.LockStatus{
		State:          model.Locked,
		PointingErrDeg: 2.5,
		SNRdB:          14,
		SNRValid:       true,
	}})

	if got := api.Status(); got != "Locked" {
		t.Errorf("status = %q, want Locked", got)
	}
	detail := api.StatusDetail()
	if detail.SNRdB != 14 || detail.PointingErrDeg != 2.5 || !detail.SNRValid {
		t.Errorf("unexpected status detail: %+v", detail)
	}
}
