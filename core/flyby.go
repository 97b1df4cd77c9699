package core

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/groundstation-emulator/model"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// FlybyModel propagates a satellite from a TLE with SGP4 and produces the
// topocentric look-angle series (azimuth, elevation, range) a tracking
// session consumes. The BelowHorizon flag it emits is authoritative for
// everything downstream.
type FlybyModel struct {
	sat satellite.Satellite
	gs  model.GroundStation
}

// NewFlybyModel constructs a flyby model from TLE lines and an observer.
func NewFlybyModel(line1, line2 string, gs model.GroundStation) *FlybyModel {
	return &FlybyModel{
		sat: satellite.TLEToSat(line1, line2, satellite.GravityWGS72),
		gs:  gs,
	}
}

// At returns the look angles for a single instant. RangeRateKmS is left
// zero; Series fills it by finite difference between consecutive points.
func (f *FlybyModel) At(t time.Time) model.EphemerisPoint {
	t = t.UTC()
	year, month, day := t.Date()
	hour, minute, second := t.Clock()

	posECI, _ := satellite.Propagate(f.sat, year, int(month), day, hour, minute, second)
	jd := satellite.JDay(year, int(month), day, hour, minute, second)

	obs := satellite.LatLong{
		Latitude:  f.gs.LatitudeDeg * deg2rad,
		Longitude: f.gs.LongitudeDeg * deg2rad,
	}
	angles := satellite.ECIToLookAngles(posECI, obs, f.gs.ElevationM/1000.0, jd)

	el := angles.El * rad2deg
	return model.EphemerisPoint{
		Time:         t,
		AzimuthDeg:   normalizeAzimuth(angles.Az * rad2deg),
		ElevationDeg: el,
		RangeKm:      angles.Rg,
		BelowHorizon: el < 0,
	}
}

// Series samples the flyby from start for the given duration at the given
// step, inclusive of both endpoints like the original pass logs. Range
// rate comes from a finite difference of consecutive ranges, which is
// accurate enough at one-second steps for Doppler estimation.
func (f *FlybyModel) Series(start time.Time, duration, step time.Duration) []model.EphemerisPoint {
	if step <= 0 {
		step = time.Second
	}
	n := int(duration/step) + 1
	points := make([]model.EphemerisPoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, f.At(start.Add(time.Duration(i)*step)))
	}

	dt := step.Seconds()
	for i := 1; i < len(points); i++ {
		points[i].RangeRateKmS = (points[i].RangeKm - points[i-1].RangeKm) / dt
	}
	if len(points) > 1 {
		points[0].RangeRateKmS = points[1].RangeRateKmS
	}
	return points
}

// LoadTLE reads a 3-line element file (name, line 1, line 2), skipping
// blank lines.
func LoadTLE(path string) (name, line1, line2 string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", "", fmt.Errorf("read TLE file: %w", err)
	}
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 3 {
		return "", "", "", fmt.Errorf("%w: TLE file needs name plus two element lines, got %d lines", ErrConfig, len(lines))
	}
	return lines[0], lines[1], lines[2], nil
}
