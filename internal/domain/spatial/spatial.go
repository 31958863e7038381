// Package spatial computes the dispersion of a point set around its mean.
package spatial

import (
	"math"

	"github.com/okian/rowscore/internal/domain/model"
)

// EarthRadiusM is the mean Earth radius used by Haversine.
const EarthRadiusM = 6371000.0

const degToRad = math.Pi / 180.0

// Haversine returns the great-circle distance in meters between two points
// given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad
	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	a := sinLat*sinLat + sinLon*sinLon*math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)
	// rounding can push a past 1 for near-antipodal points
	a = math.Min(1, a)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusM * c
}

// Dispersion returns the arithmetic mean of the coordinates and the RMS
// haversine distance of every point from that mean. The mean is planar, so
// the statistic is only meaningful for clustered points; it does not handle
// the antimeridian.
//
// Empty input or sequences of different length yield the zero result.
func Dispersion(in model.SpatialInput) model.SpatialResult {
	n := in.Len()
	if n == 0 {
		return model.SpatialResult{}
	}

	var sumLat, sumLon float64
	for i := 0; i < n; i++ {
		sumLat += in.Lats[i]
		sumLon += in.Lons[i]
	}
	meanLat := sumLat / float64(n)
	meanLon := sumLon / float64(n)

	var m2 float64
	for i := 0; i < n; i++ {
		d := Haversine(meanLat, meanLon, in.Lats[i], in.Lons[i])
		m2 += d * d
	}

	return model.SpatialResult{
		MeanLat:     meanLat,
		MeanLon:     meanLon,
		DispersionM: math.Sqrt(m2 / float64(n)),
	}
}
