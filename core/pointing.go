package core

import (
	"math"

	"github.com/signalsfoundry/groundstation-emulator/model"
)

// PointingError returns the angular separation in degrees between where the
// antenna points and where the target actually is. Azimuth separation uses
// the shortest path around the 0°/360° boundary; elevation is a plain
// difference. The total is the Euclidean norm of the two, a flat 2-D
// approximation that holds for beamwidths well below 90°.
//
// The estimator is undefined below the horizon; callers represent that
// terminal state with model.SentinelErrorDeg instead of invoking it.
func PointingError(pose model.AntennaPose, target model.TargetCommand) float64 {
	azSep := azimuthSeparation(pose.AzimuthDeg, target.AzimuthDeg)
	elSep := math.Abs(pose.ElevationDeg - target.ElevationDeg)
	return math.Hypot(azSep, elSep)
}
