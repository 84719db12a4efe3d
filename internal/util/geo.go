package util

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const earthRadiusMeters = 6371000.0

// HaversineDistance returns the great-circle distance in meters between two
// coordinates given in degrees.
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	point1 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat1, lng1))
	point2 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat2, lng2))

	// Angle between the points, then arc length on the Earth's surface
	angle := s1.Angle(s2.ChordAngleBetweenPoints(point1, point2).Angle())

	return angle.Radians() * earthRadiusMeters
}

// MetersToDegrees converts a distance in meters to longitude degrees at the
// given latitude.
func MetersToDegrees(meters float64, latitude float64) float64 {
	latRad := latitude * math.Pi / 180.0

	// Longitude degrees shrink with the cosine of the latitude
	metersPerDegree := earthRadiusMeters * math.Pi / 180.0 * math.Cos(latRad)

	return meters / metersPerDegree
}
