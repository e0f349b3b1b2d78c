package utils

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// ValidateCoordinate validates a single lat/lng pair
func ValidateCoordinate(lat, lng float64) error {
	// Latitude must be between -90 and 90
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %.6f is out of valid range [-90, 90]", lat)
	}

	// Longitude must be between -180 and 180
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %.6f is out of valid range [-180, 180]", lng)
	}

	return nil
}

// DistanceMeters returns the great-circle distance between two lat/lng pairs.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	return geo.Distance(orb.Point{lng1, lat1}, orb.Point{lng2, lat2})
}

// WithinRadius reports whether (lat, lng) lies within radiusM metres of the
// centre point.
func WithinRadius(centerLat, centerLng, lat, lng, radiusM float64) bool {
	return DistanceMeters(centerLat, centerLng, lat, lng) <= radiusM
}
