// Package geodesy converts between angular separations on the sphere and
// distances in kilometers at a given shell radius.
package geodesy

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadius is the reference Earth radius in km.
const EarthRadius = 6370.0

// Rad converts degrees to radians.
func Rad(deg float64) float64 {
	return deg / 180.0 * math.Pi
}

// LocationsToDegrees returns the great-circle separation in degrees between
// two latitude/longitude pairs.
func LocationsToDegrees(lat1, lon1, lat2, lon2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lon1)
	b := s2.LatLngFromDegrees(lat2, lon2)
	return a.Distance(b).Degrees()
}

// DegreesToKilometers converts an angular separation to an arc length on a
// sphere of the given radius in km.
func DegreesToKilometers(deg, radius float64) float64 {
	return Rad(deg) * radius
}

// Distance returns the great-circle distance in km between two locations on
// a sphere of the given radius.
func Distance(lat1, lon1, lat2, lon2, radius float64) float64 {
	return DegreesToKilometers(LocationsToDegrees(lat1, lon1, lat2, lon2), radius)
}

// WrapLongitude maps lon into [-180, 180).
func WrapLongitude(lon float64) float64 {
	l := math.Mod(lon+180, 360)
	if l < 0 {
		l += 360
	}
	return l - 180
}

// ShellRadius returns the radius of the sphere at depth km below the surface.
func ShellRadius(depth float64) float64 {
	return EarthRadius - depth
}

// Cartesian returns the position of lat/lon on a sphere of the given radius
// as an x, y, z triple in km.
func Cartesian(lat, lon, radius float64) [3]float64 {
	p := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon))
	return [3]float64{p.X * radius, p.Y * radius, p.Z * radius}
}

// ChordForArc returns the straight-line chord subtending an arc of arcKm on a
// sphere of the given radius.
func ChordForArc(arcKm, radius float64) float64 {
	if arcKm >= math.Pi*radius {
		return 2 * radius
	}
	return 2 * radius * math.Sin(arcKm/(2*radius))
}
