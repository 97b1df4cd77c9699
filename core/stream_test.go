package core

import (
	"context"
	"testing"
	"time"

	"github.com/signalsfoundry/groundstation-emulator/model"
	"github.com/signalsfoundry/groundstation-emulator/xlapi"
)

func newStreamFixture(t *testing.T) (*xlapi.API, *TrackingSession, *StreamReceiver) {
	t.Helper()
	params := model.AntennaParams{SlewRateDegS: 50, BeamwidthDeg: 10}
	session := newTestSession(t, params, 1)
	api := xlapi.New(16, nil, nil)
	recv := NewStreamReceiver(api, session, StreamConfig{
		ReadTimeout:    50 * time.Millisecond,
		AlignTolerance: time.Second,
	}, nil, nil)
	return api, session, recv
}

func runReceiver(t *testing.T, recv *StreamReceiver, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- recv.Run(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("receiver returned error: %v", err)
		}
	case <-time.After(d + 2*time.Second):
		t.Fatal("receiver did not stop after context cancellation")
	}
}

func TestStream_ConsumesAlignedPairs(t *testing.T) {
	api, session, recv := newStreamFixture(t)

	now := time.Now().UTC()
	if !api.SubmitSignalSample(now, 1200, 15) {
		t.Fatal("signal sample rejected")
	}
	if !api.SubmitAntennaTarget(10, 20) {
		t.Fatal("antenna target rejected")
	}

	runReceiver(t, recv, 300*time.Millisecond)

	stats := session.Stats()
	if stats.TotalTicks != 1 {
		t.Fatalf("TotalTicks = %d, want 1", stats.TotalTicks)
	}
	if stats.LockedTicks != 1 {
		t.Errorf("LockedTicks = %d, want 1 (strong SNR, fast antenna)", stats.LockedTicks)
	}
	if got := api.Status(); got != "Locked" {
		t.Errorf("API status = %q, want Locked", got)
	}
}

// A timeout with no target is not an error: the tick is skipped and no
// counter advances.
func TestStream_TimeoutSkipsTick(t *testing.T) {
	_, session, recv := newStreamFixture(t)

	runReceiver(t, recv, 200*time.Millisecond)

	if got := session.Stats().TotalTicks; got != 0 {
		t.Errorf("TotalTicks advanced to %d on timeouts, want 0", got)
	}
}

// A target with no usable signal sample degrades the decision to
// pointing-only rather than treating SNR as zero.
func TestStream_MissingSignalDegradesToPointingOnly(t *testing.T) {
	api, session, recv := newStreamFixture(t)

	if !api.SubmitAntennaTarget(5, 10) {
		t.Fatal("antenna target rejected")
	}

	runReceiver(t, recv, 300*time.Millisecond)

	history := session.History()
	if len(history) != 1 {
		t.Fatalf("history has %d entries, want 1", len(history))
	}
	status := history[0]
	if status.SNRValid {
		t.Error("SNRValid = true, want false with no sample available")
	}
	// Fast antenna reaches (5,10) within the tick, so pointing-only lock.
	if status.State != model.Locked {
		t.Errorf("degraded tick state = %v, want Locked on pointing alone", status.State)
	}
}

func TestStream_StaleSignalOutsideTolerance(t *testing.T) {
	api, session, recv := newStreamFixture(t)

	// Sample far older than the alignment tolerance.
	stale := time.Now().UTC().Add(-time.Minute)
	if !api.SubmitSignalSample(stale, 900, 15) {
		t.Fatal("signal sample rejected")
	}
	if !api.SubmitAntennaTarget(5, 10) {
		t.Fatal("antenna target rejected")
	}

	runReceiver(t, recv, 300*time.Millisecond)

	history := session.History()
	if len(history) != 1 {
		t.Fatalf("history has %d entries, want 1", len(history))
	}
	if history[0].SNRValid {
		t.Error("stale sample was treated as aligned")
	}
}

// Waiting on the channel length, as the station does before shutdown,
// must hand every queued target to the receiver before cancellation.
func TestStream_DrainsQueuedTargetsBeforeStop(t *testing.T) {
	api, session, recv := newStreamFixture(t)

	const queued = 5
	for i := 0; i < queued; i++ {
		if !api.SubmitAntennaTarget(float64(10+i), 20) {
			t.Fatalf("antenna target %d rejected", i)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- recv.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for api.Targets.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := api.Targets.Len(); got != 0 {
		t.Fatalf("target channel still holds %d entries after drain wait", got)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("receiver returned error: %v", err)
	}

	if got := session.Stats().TotalTicks; got != queued {
		t.Errorf("TotalTicks = %d, want %d after draining the queue", got, queued)
	}
}
