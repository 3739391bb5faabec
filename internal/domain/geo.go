package domain

import (
	"fmt"
	"math"
)

// Coordinates is a WGS84 point
type Coordinates struct {
	Lat float64
	Lng float64
}

// String formats the point as raw coordinates, used when no address is available
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lng)
}

// Valid reports whether the point lies within WGS84 bounds
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// DistanceKm returns the great-circle distance to other in kilometres
func (c Coordinates) DistanceKm(other Coordinates) float64 {
	const earthRadiusKm = 6371.0
	toRad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := toRad(other.Lat - c.Lat)
	dLng := toRad(other.Lng - c.Lng)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(c.Lat))*math.Cos(toRad(other.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Place is a geocoding result
type Place struct {
	DisplayName string
	Coordinates Coordinates
	Province    string
	District    string
	Ward        string
	Road        string
}

// Region is an administrative unit (province, district or ward)
type Region struct {
	Code     int
	Name     string
	Division string // "tỉnh", "thành phố trung ương", "quận", "huyện", "phường", "xã", ...
	Parent   int    // Parent region code (0 for provinces)
}
