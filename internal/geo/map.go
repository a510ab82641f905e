package geo

import "math"

// ShapeKind distinguishes overlay geometry on the map surface.
type ShapeKind string

const (
	ShapeMarker  ShapeKind = "marker"
	ShapePolygon ShapeKind = "polygon"
)

// PathStyle describes how an overlay is stroked and filled.
type PathStyle struct {
	Color       string  `json:"color"`
	FillColor   string  `json:"fill_color"`
	FillOpacity float64 `json:"fill_opacity"`
	Weight      float64 `json:"weight"`
}

// Shape is one clickable overlay on the map. Points are in rendering order
// (lat, lng); markers use the first point.
type Shape struct {
	ID     string    `json:"id"`
	Kind   ShapeKind `json:"kind"`
	Points []LatLng  `json:"points"`
	Style  PathStyle `json:"style"`
}

// MapOptions configures a headless map.
type MapOptions struct {
	Size    Size
	Center  LatLng
	Zoom    float64
	MinZoom float64
	MaxZoom float64
}

// DefaultMapOptions centers on the Sacramento Valley.
func DefaultMapOptions() MapOptions {
	return MapOptions{
		Size:    Size{Width: 800, Height: 600},
		Center:  LatLng{Lat: 38.5, Lng: -121.5},
		Zoom:    8,
		MinZoom: 0,
		MaxZoom: 18,
	}
}

// Map is a headless map engine. It keeps the camera a tile renderer would
// show and dispatches overlay clicks. It is not safe for concurrent use.
type Map struct {
	size    Size
	minZoom float64
	maxZoom float64
	camera  Camera

	shapes  []Shape
	index   map[string]int
	onClick func(id string)
}

// NewMap creates a map with the camera at the configured default view.
func NewMap(opts MapOptions) *Map {
	if opts.MaxZoom <= 0 {
		opts.MaxZoom = 18
	}
	m := &Map{
		size:    opts.Size,
		minZoom: opts.MinZoom,
		maxZoom: opts.MaxZoom,
		index:   map[string]int{},
	}
	m.camera = Camera{Center: opts.Center, Zoom: m.clampZoom(opts.Zoom)}
	return m
}

// Camera returns the current view.
func (m *Map) Camera() Camera {
	return m.camera
}

// Size returns the map surface size.
func (m *Map) Size() Size {
	return m.size
}

// SetView centers the camera at zoom, clamped to the zoom range.
func (m *Map) SetView(center LatLng, zoom float64) {
	m.camera = Camera{Center: center, Zoom: m.clampZoom(zoom)}
}

// FitBounds moves the camera to the highest whole zoom level that shows b
// with padding pixels kept clear on every side.
func (m *Map) FitBounds(b Bounds, padding Padding) {
	zoom := m.BoundsZoom(b, padding)
	sw := Project(b.SouthWest(), zoom)
	ne := Project(b.NorthEast(), zoom)
	center := Unproject(Pixel{X: (sw.X + ne.X) / 2, Y: (sw.Y + ne.Y) / 2}, zoom)
	m.SetView(center, zoom)
}

// BoundsZoom returns the zoom FitBounds would choose for b.
func (m *Map) BoundsZoom(b Bounds, padding Padding) float64 {
	availW := m.size.Width - 2*padding.X
	availH := m.size.Height - 2*padding.Y
	if availW <= 0 || availH <= 0 {
		return m.minZoom
	}

	nw := Project(LatLng{Lat: b.North, Lng: b.West}, 0)
	se := Project(LatLng{Lat: b.South, Lng: b.East}, 0)
	boxW := se.X - nw.X
	boxH := se.Y - nw.Y

	scale := math.Inf(1)
	if boxW > 0 {
		scale = math.Min(scale, availW/boxW)
	}
	if boxH > 0 {
		scale = math.Min(scale, availH/boxH)
	}
	if math.IsInf(scale, 1) {
		return m.maxZoom
	}
	return m.clampZoom(math.Floor(math.Log2(scale)))
}

// Contains reports whether b is fully visible in the current view with
// padding pixels clear on every side.
func (m *Map) Contains(b Bounds, padding Padding) bool {
	const epsilon = 1e-6
	zoom := m.camera.Zoom
	center := Project(m.camera.Center, zoom)
	halfW := m.size.Width/2 - padding.X
	halfH := m.size.Height/2 - padding.Y

	nw := Project(LatLng{Lat: b.North, Lng: b.West}, zoom)
	se := Project(LatLng{Lat: b.South, Lng: b.East}, zoom)
	return nw.X >= center.X-halfW-epsilon &&
		se.X <= center.X+halfW+epsilon &&
		nw.Y >= center.Y-halfH-epsilon &&
		se.Y <= center.Y+halfH+epsilon
}

// SetOverlays replaces every overlay on the map and registers the click
// handler shared by all of them.
func (m *Map) SetOverlays(shapes []Shape, onClick func(id string)) {
	m.shapes = append(m.shapes[:0:0], shapes...)
	m.index = make(map[string]int, len(shapes))
	for i, s := range m.shapes {
		m.index[s.ID] = i
	}
	m.onClick = onClick
}

// Shapes returns the overlays currently on the map.
func (m *Map) Shapes() []Shape {
	return append([]Shape(nil), m.shapes...)
}

// Click simulates a click on the overlay with the given id. It reports false
// when no such overlay is on the map.
func (m *Map) Click(id string) bool {
	if _, ok := m.index[id]; !ok {
		return false
	}
	if m.onClick != nil {
		m.onClick(id)
	}
	return true
}

func (m *Map) clampZoom(zoom float64) float64 {
	return math.Max(m.minZoom, math.Min(m.maxZoom, zoom))
}
