package core

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/groundstation-emulator/model"
)

// SimConfig mirrors sim_config.yaml: ground station location, simulation
// pacing, antenna mechanics, and the signal-model parameters. Loaded once
// at session start; malformed values are fatal construction errors.
type SimConfig struct {
	GroundStation GroundStationConfig `yaml:"ground_station"`
	Simulation    SimulationConfig    `yaml:"simulation"`
	Antenna       AntennaConfig       `yaml:"antenna"`
	Signal        SignalConfig        `yaml:"signal"`
}

type GroundStationConfig struct {
	LatitudeDeg  float64 `yaml:"latitude_deg"`
	LongitudeDeg float64 `yaml:"longitude_deg"`
	ElevationM   float64 `yaml:"elevation_m"`
}

type SimulationConfig struct {
	DurationSec int `yaml:"duration_sec"`
	TimeStepSec int `yaml:"time_step_sec"`
}

type AntennaConfig struct {
	SlewRateDegS     float64 `yaml:"slew_rate_deg_s"`
	BeamwidthDeg     float64 `yaml:"beamwidth_deg"`
	PointingNoiseDeg float64 `yaml:"pointing_noise_deg"`
}

type SignalConfig struct {
	FrequencyHz float64 `yaml:"frequency_hz"`
	TxPowerDBm  float64 `yaml:"tx_power_dbm"`
	TxGainDB    float64 `yaml:"tx_gain_db"`
	RxGainDB    float64 `yaml:"rx_gain_db"`
	BandwidthHz float64 `yaml:"bandwidth_hz"`
}

// DefaultSimConfig matches the shipped sim_config.yaml: a 10-minute pass at
// one-second ticks with a 5°/s, 10°-beamwidth antenna and a UHF-class link.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Simulation: SimulationConfig{DurationSec: 600, TimeStepSec: 1},
		Antenna: AntennaConfig{
			SlewRateDegS: 5.0,
			BeamwidthDeg: 10.0,
		},
		Signal: SignalConfig{
			FrequencyHz: 437e6,
			TxPowerDBm:  30,
			TxGainDB:    5,
			RxGainDB:    20,
			BandwidthHz: 25e3,
		},
	}
}

// LoadSimConfig decodes YAML over the defaults and validates the result.
func LoadSimConfig(r io.Reader) (SimConfig, error) {
	cfg := DefaultSimConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return SimConfig{}, fmt.Errorf("%w: decode sim config: %v", ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return SimConfig{}, err
	}
	return cfg, nil
}

// LoadSimConfigFile is LoadSimConfig over a file path.
func LoadSimConfigFile(path string) (SimConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return SimConfig{}, fmt.Errorf("%w: open sim config: %v", ErrConfig, err)
	}
	defer f.Close()
	return LoadSimConfig(f)
}

// Validate enforces the parameter invariants the tracking core relies on.
func (c SimConfig) Validate() error {
	if c.Antenna.SlewRateDegS <= 0 {
		return fmt.Errorf("%w: antenna.slew_rate_deg_s must be positive, got %v", ErrConfig, c.Antenna.SlewRateDegS)
	}
	if c.Antenna.BeamwidthDeg <= 0 {
		return fmt.Errorf("%w: antenna.beamwidth_deg must be positive, got %v", ErrConfig, c.Antenna.BeamwidthDeg)
	}
	if c.Antenna.PointingNoiseDeg < 0 {
		return fmt.Errorf("%w: antenna.pointing_noise_deg must be non-negative, got %v", ErrConfig, c.Antenna.PointingNoiseDeg)
	}
	if c.Simulation.DurationSec <= 0 {
		return fmt.Errorf("%w: simulation.duration_sec must be positive, got %v", ErrConfig, c.Simulation.DurationSec)
	}
	if c.Simulation.TimeStepSec <= 0 {
		return fmt.Errorf("%w: simulation.time_step_sec must be positive, got %v", ErrConfig, c.Simulation.TimeStepSec)
	}
	if c.GroundStation.LatitudeDeg < -90 || c.GroundStation.LatitudeDeg > 90 {
		return fmt.Errorf("%w: ground_station.latitude_deg out of range: %v", ErrConfig, c.GroundStation.LatitudeDeg)
	}
	if c.GroundStation.LongitudeDeg < -180 || c.GroundStation.LongitudeDeg > 180 {
		return fmt.Errorf("%w: ground_station.longitude_deg out of range: %v", ErrConfig, c.GroundStation.LongitudeDeg)
	}
	if c.Signal.FrequencyHz <= 0 {
		return fmt.Errorf("%w: signal.frequency_hz must be positive, got %v", ErrConfig, c.Signal.FrequencyHz)
	}
	if c.Signal.BandwidthHz <= 0 {
		return fmt.Errorf("%w: signal.bandwidth_hz must be positive, got %v", ErrConfig, c.Signal.BandwidthHz)
	}
	return nil
}

// AntennaParams converts the config section into the immutable session
// parameters.
func (c SimConfig) AntennaParams() model.AntennaParams {
	return model.AntennaParams{
		SlewRateDegS:     c.Antenna.SlewRateDegS,
		BeamwidthDeg:     c.Antenna.BeamwidthDeg,
		PointingNoiseDeg: c.Antenna.PointingNoiseDeg,
	}
}

// SignalParams converts the config section into the link-budget inputs.
func (c SimConfig) SignalParams() SignalParams {
	return SignalParams{
		FrequencyHz: c.Signal.FrequencyHz,
		TxPowerDBm:  c.Signal.TxPowerDBm,
		TxGainDB:    c.Signal.TxGainDB,
		RxGainDB:    c.Signal.RxGainDB,
		BandwidthHz: c.Signal.BandwidthHz,
	}
}

// GroundStationModel converts the config section into the model observer.
func (c SimConfig) GroundStationModel() model.GroundStation {
	return model.GroundStation{
		LatitudeDeg:  c.GroundStation.LatitudeDeg,
		LongitudeDeg: c.GroundStation.LongitudeDeg,
		ElevationM:   c.GroundStation.ElevationM,
	}
}
