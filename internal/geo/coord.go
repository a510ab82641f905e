// Package geo holds the coordinate math behind the project map: axis
// conventions, bounding boxes, Web Mercator projection, and a headless map
// engine that tracks a camera the way a tile renderer would.
package geo

import (
	"fmt"
	"math"
)

// Coord is a (longitude, latitude) pair in degrees. Stored geometry uses this
// order.
type Coord struct {
	Lon float64 `json:"lon" yaml:"lon"`
	Lat float64 `json:"lat" yaml:"lat"`
}

// LatLng is a (latitude, longitude) pair in degrees. Rendering calls use this
// order.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LatLng swaps the coordinate into rendering order.
func (c Coord) LatLng() LatLng {
	return LatLng{Lat: c.Lat, Lng: c.Lon}
}

// Validate reports whether the coordinate is finite and inside the WGS84 range.
func (c Coord) Validate() error {
	if math.IsNaN(c.Lon) || math.IsNaN(c.Lat) || math.IsInf(c.Lon, 0) || math.IsInf(c.Lat, 0) {
		return fmt.Errorf("coordinate (%v, %v) is not finite", c.Lon, c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", c.Lon)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", c.Lat)
	}
	return nil
}

// Padding is a pixel margin kept clear on each side of a fitted bounding box.
type Padding struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UniformPadding returns the same margin on both axes.
func UniformPadding(px float64) Padding {
	return Padding{X: px, Y: px}
}

// Size is a map surface size in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Camera is the map's current center and zoom level.
type Camera struct {
	Center LatLng  `json:"center"`
	Zoom   float64 `json:"zoom"`
}
