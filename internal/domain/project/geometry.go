package project

import (
	"encoding/json"
	"fmt"

	"github.com/rpggio/hrl-explorer/internal/geo"
)

// GeometryKind names a Geometry variant.
type GeometryKind string

const (
	KindPoint   GeometryKind = "Point"
	KindPolygon GeometryKind = "Polygon"
)

// Geometry is the spatial footprint of a project: a Point or a Polygon.
// A nil Geometry means the source shape was missing or unreadable.
type Geometry interface {
	Kind() GeometryKind
	Validate() error
	isGeometry()
}

// Point is a single (longitude, latitude) location.
type Point struct {
	Lon float64
	Lat float64
}

func (Point) Kind() GeometryKind { return KindPoint }
func (Point) isGeometry()        {}

// Coord returns the point as a geo coordinate.
func (p Point) Coord() geo.Coord {
	return geo.Coord{Lon: p.Lon, Lat: p.Lat}
}

// Validate checks the coordinate range.
func (p Point) Validate() error {
	if err := p.Coord().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	return nil
}

// Polygon is an area boundary. Rings[0] is the outer ring.
type Polygon struct {
	Rings [][]geo.Coord
}

func (Polygon) Kind() GeometryKind { return KindPolygon }
func (Polygon) isGeometry()        {}

// Outer returns the outer ring, or nil when there are no rings.
func (p Polygon) Outer() []geo.Coord {
	if len(p.Rings) == 0 {
		return nil
	}
	return p.Rings[0]
}

// Validate requires in-range coordinates in every ring and an outer ring of
// at least three distinct positions. A ring collapsed to one position is
// accepted and fits like a point.
func (p Polygon) Validate() error {
	if len(p.Outer()) == 0 {
		return fmt.Errorf("%w: polygon has no outer ring coordinates", ErrInvalidGeometry)
	}
	distinct := make(map[geo.Coord]struct{}, len(p.Outer()))
	for _, c := range p.Outer() {
		distinct[c] = struct{}{}
	}
	if n := len(distinct); n == 2 {
		return fmt.Errorf("%w: outer ring has only %d distinct positions", ErrInvalidGeometry, n)
	}
	for i, ring := range p.Rings {
		for _, c := range ring {
			if err := c.Validate(); err != nil {
				return fmt.Errorf("%w: ring %d: %v", ErrInvalidGeometry, i, err)
			}
		}
	}
	return nil
}

// ValidateGeometry validates g, treating nil as invalid.
func ValidateGeometry(g Geometry) error {
	if g == nil {
		return fmt.Errorf("%w: missing geometry", ErrInvalidGeometry)
	}
	return g.Validate()
}

// wireGeometry is the GeoJSON-style encoding of a Geometry.
type wireGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// MarshalGeometry encodes g as {"type": ..., "coordinates": ...}. A nil
// geometry encodes as JSON null.
func MarshalGeometry(g Geometry) ([]byte, error) {
	var coords any
	switch v := g.(type) {
	case nil:
		return []byte("null"), nil
	case Point:
		coords = []float64{v.Lon, v.Lat}
	case Polygon:
		rings := make([][][]float64, 0, len(v.Rings))
		for _, ring := range v.Rings {
			pairs := make([][]float64, 0, len(ring))
			for _, c := range ring {
				pairs = append(pairs, []float64{c.Lon, c.Lat})
			}
			rings = append(rings, pairs)
		}
		coords = rings
	default:
		return nil, fmt.Errorf("unsupported geometry %T", g)
	}
	raw, err := json.Marshal(coords)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireGeometry{Type: string(g.Kind()), Coordinates: raw})
}

// UnmarshalGeometry decodes the GeoJSON-style encoding. JSON null decodes to
// a nil geometry without error.
func UnmarshalGeometry(data []byte) (Geometry, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var wire wireGeometry
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	return DecodeGeometry(wire.Type, func(out any) error {
		return json.Unmarshal(wire.Coordinates, out)
	})
}

// DecodeGeometry builds a Geometry from a type tag and a decoder for the
// coordinates payload, so JSON and YAML sources share one code path.
func DecodeGeometry(kind string, decode func(out any) error) (Geometry, error) {
	switch GeometryKind(kind) {
	case KindPoint:
		var pair []float64
		if err := decode(&pair); err != nil {
			return nil, fmt.Errorf("%w: point coordinates: %v", ErrInvalidGeometry, err)
		}
		if len(pair) < 2 {
			return nil, fmt.Errorf("%w: point needs [lon, lat], got %d values", ErrInvalidGeometry, len(pair))
		}
		return Point{Lon: pair[0], Lat: pair[1]}, nil
	case KindPolygon:
		var rings [][][]float64
		if err := decode(&rings); err != nil {
			return nil, fmt.Errorf("%w: polygon coordinates: %v", ErrInvalidGeometry, err)
		}
		poly := Polygon{Rings: make([][]geo.Coord, 0, len(rings))}
		for i, ring := range rings {
			coords := make([]geo.Coord, 0, len(ring))
			for _, pair := range ring {
				if len(pair) < 2 {
					return nil, fmt.Errorf("%w: ring %d has a position with %d values", ErrInvalidGeometry, i, len(pair))
				}
				coords = append(coords, geo.Coord{Lon: pair[0], Lat: pair[1]})
			}
			poly.Rings = append(poly.Rings, coords)
		}
		return poly, nil
	default:
		return nil, fmt.Errorf("%w: unknown geometry type %q", ErrInvalidGeometry, kind)
	}
}
