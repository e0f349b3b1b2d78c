package utils

import (
	"math"
	"testing"
)

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		wantErr  bool
	}{
		{"valid city point", 17.3850, 78.4867, false},
		{"equator prime meridian", 0, 0, false},
		{"poles", 90, 180, false},
		{"negative bounds", -90, -180, false},
		{"latitude too high", 90.001, 0, true},
		{"latitude too low", -90.001, 0, true},
		{"longitude too high", 0, 180.001, true},
		{"longitude too low", 0, -180.001, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate(tt.lat, tt.lng)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinate(%v, %v) = %v, wantErr %v", tt.lat, tt.lng, err, tt.wantErr)
			}
		})
	}
}

func TestDistanceMeters(t *testing.T) {
	// Charminar to Golconda Fort is a little under 8 km.
	d := DistanceMeters(17.3616, 78.4747, 17.3833, 78.4011)
	if d < 7000 || d > 9000 {
		t.Errorf("distance = %.0f m, want roughly 8 km", d)
	}

	if d := DistanceMeters(17.3616, 78.4747, 17.3616, 78.4747); math.Abs(d) > 0.001 {
		t.Errorf("distance to self = %v, want 0", d)
	}
}

func TestWithinRadius(t *testing.T) {
	centerLat, centerLng := 17.3616, 78.4747

	tests := []struct {
		name     string
		lat, lng float64
		radiusM  float64
		want     bool
	}{
		{"same point", 17.3616, 78.4747, 10, true},
		{"few hundred metres in", 17.3650, 78.4767, 1000, true},
		{"same point tiny radius", 17.3650, 78.4767, 50, false},
		{"another city", 12.9716, 77.5946, 10000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinRadius(centerLat, centerLng, tt.lat, tt.lng, tt.radiusM); got != tt.want {
				t.Errorf("WithinRadius = %v, want %v", got, tt.want)
			}
		})
	}
}
