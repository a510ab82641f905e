package geo

import "math"

// Bounds is an axis-aligned latitude/longitude box.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// BoundsOf returns the bounding box of the coordinates. It reports false when
// coords is empty.
func BoundsOf(coords []Coord) (Bounds, bool) {
	if len(coords) == 0 {
		return Bounds{}, false
	}
	b := Bounds{
		South: math.Inf(1),
		West:  math.Inf(1),
		North: math.Inf(-1),
		East:  math.Inf(-1),
	}
	for _, c := range coords {
		b.South = math.Min(b.South, c.Lat)
		b.North = math.Max(b.North, c.Lat)
		b.West = math.Min(b.West, c.Lon)
		b.East = math.Max(b.East, c.Lon)
	}
	return b, true
}

// SouthWest returns the lower-left corner.
func (b Bounds) SouthWest() LatLng {
	return LatLng{Lat: b.South, Lng: b.West}
}

// NorthEast returns the upper-right corner.
func (b Bounds) NorthEast() LatLng {
	return LatLng{Lat: b.North, Lng: b.East}
}

// Center returns the geographic midpoint of the box.
func (b Bounds) Center() LatLng {
	return LatLng{Lat: (b.South + b.North) / 2, Lng: (b.West + b.East) / 2}
}

// IsPoint reports whether the box has collapsed to a single coordinate.
func (b Bounds) IsPoint() bool {
	return b.South == b.North && b.West == b.East
}

// Contains reports whether ll lies inside the box, edges included.
func (b Bounds) Contains(ll LatLng) bool {
	return ll.Lat >= b.South && ll.Lat <= b.North && ll.Lng >= b.West && ll.Lng <= b.East
}
