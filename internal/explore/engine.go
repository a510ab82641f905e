package explore

import "github.com/rpggio/hrl-explorer/internal/geo"

// Engine is the map rendering capability the Viewport drives. Rendering calls
// take (lat, lng) positions. *geo.Map implements it.
type Engine interface {
	SetView(center geo.LatLng, zoom float64)
	FitBounds(bounds geo.Bounds, padding geo.Padding)
	SetOverlays(shapes []geo.Shape, onClick func(id string))
	Camera() geo.Camera
}

var _ Engine = (*geo.Map)(nil)
