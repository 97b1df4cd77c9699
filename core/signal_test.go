package core

import (
	"math"
	"testing"
	"time"

	"github.com/signalsfoundry/groundstation-emulator/model"
)

func testSignalParams() SignalParams {
	return SignalParams{
		FrequencyHz: 437e6,
		TxPowerDBm:  30,
		TxGainDB:    5,
		RxGainDB:    20,
		BandwidthHz: 25e3,
	}
}

func TestDopplerShiftHz(t *testing.T) {
	// 7 km/s at 437 MHz: (7000 / c) * f ≈ 10.2 kHz.
	got := DopplerShiftHz(7, 437e6)
	want := 7000.0 / 299792458.0 * 437e6
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("DopplerShiftHz = %v, want %v", got, want)
	}

	// Receding target flips the sign.
	if got := DopplerShiftHz(-7, 437e6); got >= 0 {
		t.Errorf("DopplerShiftHz for receding target = %v, want negative", got)
	}
}

func TestFreeSpacePathLoss_GrowsWithRangeAndFrequency(t *testing.T) {
	near := FreeSpacePathLossDB(500, 437e6)
	far := FreeSpacePathLossDB(2000, 437e6)
	if far <= near {
		t.Errorf("FSPL at 2000 km (%v) should exceed FSPL at 500 km (%v)", far, near)
	}

	// Doubling the distance adds 20*log10(2) ≈ 6.02 dB.
	diff := FreeSpacePathLossDB(1000, 437e6) - FreeSpacePathLossDB(500, 437e6)
	if math.Abs(diff-20*math.Log10(2)) > 1e-9 {
		t.Errorf("doubling distance added %v dB, want %v", diff, 20*math.Log10(2))
	}

	uhf := FreeSpacePathLossDB(1000, 437e6)
	sband := FreeSpacePathLossDB(1000, 2.2e9)
	if sband <= uhf {
		t.Errorf("FSPL at 2.2 GHz (%v) should exceed FSPL at 437 MHz (%v)", sband, uhf)
	}
}

func TestAtmosphericAttenuation_OnlyBelowTenDegrees(t *testing.T) {
	if got := AtmosphericAttenuationDB(45, 800); got != 0 {
		t.Errorf("attenuation at 45° = %v, want 0", got)
	}
	if got := AtmosphericAttenuationDB(5, 800); math.Abs(got-80) > 1e-9 {
		t.Errorf("attenuation at 5° over 800 km = %v, want 80 (0.1 dB/km)", got)
	}
}

func TestEstimateSNR_FallsWithRange(t *testing.T) {
	p := testSignalParams()
	near := EstimateSNRdB(p, model.EphemerisPoint{RangeKm: 500, ElevationDeg: 45})
	far := EstimateSNRdB(p, model.EphemerisPoint{RangeKm: 2000, ElevationDeg: 45})
	if near <= far {
		t.Errorf("SNR at 500 km (%v) should exceed SNR at 2000 km (%v)", near, far)
	}
}

func TestSignalSeries_AlignedToEphemeris(t *testing.T) {
	p := testSignalParams()
	start := time.Date(2025, 7, 12, 22, 0, 0, 0, time.UTC)
	points := []model.EphemerisPoint{
		{Time: start, RangeKm: 800, RangeRateKmS: -3, ElevationDeg: 30},
		{Time: start.Add(time.Second), RangeKm: 797, RangeRateKmS: -3, ElevationDeg: 31},
	}

	samples := SignalSeries(p, points)
	if len(samples) != len(points) {
		t.Fatalf("got %d samples for %d points", len(samples), len(points))
	}
	for i, s := range samples {
		if !s.Time.Equal(points[i].Time) {
			t.Errorf("sample %d timestamp %v does not match point %v", i, s.Time, points[i].Time)
		}
	}
	// Approaching satellite: negative range rate, negative Doppler here
	// (shift convention follows the radial velocity sign).
	if samples[0].DopplerHz >= 0 {
		t.Errorf("DopplerHz = %v for approaching target, want negative", samples[0].DopplerHz)
	}
}

func TestPairSeries_TruncatesToShorter(t *testing.T) {
	points := make([]model.EphemerisPoint, 3)
	samples := make([]model.SignalSample, 2)
	if got := len(PairSeries(points, samples)); got != 2 {
		t.Errorf("PairSeries length = %d, want 2", got)
	}
}
