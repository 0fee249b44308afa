package domain

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// Immutable geographic coordinate (latitude, longitude) in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) (Coordinate, error) {
	c := Coordinate{Lat: lat, Lon: lon}
	if !c.Valid() {
		return Coordinate{}, fmt.Errorf("invalid coordinate lat=%v lon=%v", lat, lon)
	}
	return c, nil
}

// Valid reports whether the coordinate is finite and within WGS 84 bounds.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return s2.LatLngFromDegrees(c.Lat, c.Lon).IsValid()
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", c.Lat, c.Lon)
}
