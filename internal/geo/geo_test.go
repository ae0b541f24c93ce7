package geo

import (
	"math"
	"testing"
)

func TestDistanceKmZero(t *testing.T) {
	p := Coordinate{Latitude: 39.9042, Longitude: 116.4074}
	if d := DistanceKm(p, p); d != 0 {
		t.Errorf("distance to self should be 0, got %f", d)
	}
}

func TestDistanceKmOneDegreeAtEquator(t *testing.T) {
	a := Coordinate{Latitude: 0, Longitude: 0}
	b := Coordinate{Latitude: 0, Longitude: 1}

	// One degree of longitude at the equator is about 111.19 km.
	d := DistanceKm(a, b)
	if math.Abs(d-111.19) > 0.1 {
		t.Errorf("unexpected distance: got %f want ~111.19", d)
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	a := Coordinate{Latitude: 39.9042, Longitude: 116.4074}
	b := Coordinate{Latitude: 40.0799, Longitude: 116.6031}

	d1 := DistanceKm(a, b)
	d2 := DistanceKm(b, a)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", d1, d2)
	}
	if d1 <= 0 || d1 > 50 {
		t.Errorf("implausible distance within the city: %f", d1)
	}
}

func TestDistanceKmNaNPropagates(t *testing.T) {
	a := Coordinate{Latitude: math.NaN(), Longitude: 0}
	b := Coordinate{Latitude: 0, Longitude: 0}
	if d := DistanceKm(a, b); !math.IsNaN(d) {
		t.Errorf("expected NaN, got %f", d)
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     bool
	}{
		{39.9, 116.4, true},
		{90, 180, true},
		{-90, -180, true},
		{91, 0, false},
		{0, 181, false},
		{-90.1, 0, false},
	}

	for _, tt := range tests {
		if got := Valid(tt.lat, tt.lon); got != tt.want {
			t.Errorf("Valid(%f, %f) = %v, want %v", tt.lat, tt.lon, got, tt.want)
		}
	}
}
