package core

import (
	"math"

	"github.com/signalsfoundry/groundstation-emulator/model"
)

// Physical constants for the link budget.
const (
	speedOfLightMS = 299792458.0
	boltzmannJK    = 1.380649e-23
	systemNoiseK   = 290.0
)

// SignalParams configure the stateless link-budget model that produces the
// SNR samples consumed by the lock state machine. The tracking core never
// validates this math; it only consumes the resulting samples.
type SignalParams struct {
	FrequencyHz float64
	TxPowerDBm  float64
	TxGainDB    float64
	RxGainDB    float64
	BandwidthHz float64
}

// DopplerShiftHz converts a radial velocity into a carrier frequency shift.
func DopplerShiftHz(radialVelocityKmS, frequencyHz float64) float64 {
	return radialVelocityKmS * 1000 / speedOfLightMS * frequencyHz
}

// FreeSpacePathLossDB is the standard FSPL for a slant range in km.
func FreeSpacePathLossDB(rangeKm, frequencyHz float64) float64 {
	rangeM := rangeKm * 1000
	return 20*math.Log10(rangeM) + 20*math.Log10(frequencyHz) + 20*math.Log10(4*math.Pi/speedOfLightMS)
}

// ThermalNoiseDBm is kTB at a 290 K system temperature, in dBm.
func ThermalNoiseDBm(bandwidthHz float64) float64 {
	return 10 * math.Log10(boltzmannJK*systemNoiseK*bandwidthHz*1000)
}

// AtmosphericAttenuationDB applies a flat 0.1 dB/km penalty below 10°
// elevation, where the slant path spends most of its length in the lower
// atmosphere, and nothing above.
func AtmosphericAttenuationDB(elevationDeg, rangeKm float64) float64 {
	if elevationDeg < 10 {
		return 0.1 * rangeKm
	}
	return 0
}

// EstimateSNRdB assembles the link budget for one ephemeris point.
func EstimateSNRdB(p SignalParams, point model.EphemerisPoint) float64 {
	fspl := FreeSpacePathLossDB(point.RangeKm, p.FrequencyHz)
	noise := ThermalNoiseDBm(p.BandwidthHz)
	atm := AtmosphericAttenuationDB(point.ElevationDeg, point.RangeKm)
	return p.TxPowerDBm + p.TxGainDB + p.RxGainDB - fspl - noise - atm
}

// SignalSeries produces one SignalSample per ephemeris point, aligned by
// index and timestamp. Below-horizon points still get a sample (with
// whatever SNR the geometry gives); the tracking layer ignores them.
func SignalSeries(p SignalParams, points []model.EphemerisPoint) []model.SignalSample {
	samples := make([]model.SignalSample, 0, len(points))
	for _, pt := range points {
		samples = append(samples, model.SignalSample{
			SNRdB:     EstimateSNRdB(p, pt),
			DopplerHz: DopplerShiftHz(pt.RangeRateKmS, p.FrequencyHz),
			Time:      pt.Time,
		})
	}
	return samples
}

// PairSeries zips an ephemeris series with its signal series into session
// inputs. Length mismatches truncate to the shorter series.
func PairSeries(points []model.EphemerisPoint, samples []model.SignalSample) []TickInput {
	n := len(points)
	if len(samples) < n {
		n = len(samples)
	}
	inputs := make([]TickInput, 0, n)
	for i := 0; i < n; i++ {
		inputs = append(inputs, TickInput{Target: points[i], Signal: samples[i]})
	}
	return inputs
}
