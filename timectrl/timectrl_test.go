package timectrl

import (
	"context"
	"testing"
	"time"
)

func TestSetTimeRepositionsClock(t *testing.T) {
	start := time.Date(2025, time.July, 12, 22, 0, 0, 0, time.UTC)
	tc := NewTimeController(start, time.Second, RealTime)

	newNow := start.Add(42 * time.Second)
	tc.SetTime(newNow)

	if got := tc.Now(); !got.Equal(newNow) {
		t.Fatalf("Now() = %v, want %v", got, newNow)
	}
}

func TestAcceleratedRunAdvancesSimTime(t *testing.T) {
	start := time.Date(2025, time.July, 12, 22, 0, 0, 0, time.UTC)
	tc := NewTimeController(start, time.Second, Accelerated)

	var ticks int
	tc.AddListener(func(time.Time) { ticks++ })

	<-tc.Start(context.Background(), 10*time.Second)

	if got := tc.Now(); !got.Equal(start.Add(10 * time.Second)) {
		t.Fatalf("Now() = %v, want %v", got, start.Add(10*time.Second))
	}
	if ticks != 10 {
		t.Fatalf("listener saw %d ticks, want 10", ticks)
	}
}

func TestCancelStopsBetweenTicks(t *testing.T) {
	start := time.Date(2025, time.July, 12, 22, 0, 0, 0, time.UTC)
	tc := NewTimeController(start, 5*time.Millisecond, RealTime)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	select {
	case <-tc.Start(ctx, 0):
	case <-time.After(time.Second):
		t.Fatal("controller did not stop after cancellation")
	}
}
