package domain

import (
	"math"
	"testing"
)

func TestCoordinateValid(t *testing.T) {
	cases := []struct {
		name string
		c    Coordinate
		want bool
	}{
		{"nagpur", Coordinate{Lat: 20.0, Lon: 78.0}, true},
		{"north pole", Coordinate{Lat: 90, Lon: 0}, true},
		{"antimeridian", Coordinate{Lat: 0, Lon: -180}, true},
		{"lat too high", Coordinate{Lat: 90.5, Lon: 0}, false},
		{"lon too low", Coordinate{Lat: 0, Lon: -181}, false},
		{"nan", Coordinate{Lat: math.NaN(), Lon: 0}, false},
		{"inf", Coordinate{Lat: 0, Lon: math.Inf(1)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.Valid(); got != tc.want {
				t.Fatalf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewCoordinateRejectsOutOfRange(t *testing.T) {
	if _, err := NewCoordinate(100, 0); err == nil {
		t.Fatal("expected error for lat=100")
	}

	c, err := NewCoordinate(20.5937, 78.9629)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Lat != 20.5937 || c.Lon != 78.9629 {
		t.Fatalf("coordinate = %+v", c)
	}
}
