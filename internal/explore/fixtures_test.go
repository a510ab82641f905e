package explore

import (
	"testing"

	"github.com/rpggio/hrl-explorer/internal/domain/project"
	"github.com/rpggio/hrl-explorer/internal/geo"
	"github.com/stretchr/testify/require"
)

var sampleRing = []geo.Coord{
	{Lon: -122, Lat: 38},
	{Lon: -121, Lat: 38},
	{Lon: -121, Lat: 39},
	{Lon: -122, Lat: 39},
}

// scenarioProjects is the three-project catalog used across the view tests:
// A is a completed point, B a planned polygon, C an in-progress point.
func scenarioProjects() []project.Project {
	return []project.Project{
		{
			ID:              "A",
			Name:            "Butte Creek Floodplain",
			TributarySystem: "Butte Creek",
			HabitatType:     "Floodplain",
			Status:          project.StatusCompleted,
			Year:            2019,
			AreaAcres:       1250,
			Geometry:        project.Point{Lon: -121.5, Lat: 38.5},
		},
		{
			ID:              "B",
			Name:            "Yolo Bypass Wetlands",
			TributarySystem: "Sacramento River",
			HabitatType:     "Tidal Wetland",
			Status:          project.StatusPlanned,
			Year:            2026,
			AreaAcres:       3400.5,
			Geometry:        project.Polygon{Rings: [][]geo.Coord{sampleRing}},
		},
		{
			ID:              "C",
			Name:            "Deer Creek Side Channel",
			TributarySystem: "Deer Creek",
			HabitatType:     "Side Channel",
			Status:          project.StatusInProgress,
			Year:            2024,
			AreaAcres:       42,
			Geometry:        project.Point{Lon: -121.9, Lat: 40.0},
		},
	}
}

func newScenarioStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(scenarioProjects())
	require.NoError(t, err)
	return store
}

type fitCall struct {
	bounds  geo.Bounds
	padding geo.Padding
}

// recordingEngine captures every call the viewport makes.
type recordingEngine struct {
	camera  geo.Camera
	views   []geo.Camera
	fits    []fitCall
	shapes  []geo.Shape
	onClick func(id string)
	pushes  int
}

func newRecordingEngine() *recordingEngine {
	return &recordingEngine{camera: geo.Camera{Center: geo.LatLng{Lat: 38.5, Lng: -121.5}, Zoom: 8}}
}

func (e *recordingEngine) SetView(center geo.LatLng, zoom float64) {
	e.camera = geo.Camera{Center: center, Zoom: zoom}
	e.views = append(e.views, e.camera)
}

func (e *recordingEngine) FitBounds(bounds geo.Bounds, padding geo.Padding) {
	e.fits = append(e.fits, fitCall{bounds: bounds, padding: padding})
	e.camera = geo.Camera{Center: bounds.Center(), Zoom: 9}
}

func (e *recordingEngine) SetOverlays(shapes []geo.Shape, onClick func(id string)) {
	e.shapes = append([]geo.Shape(nil), shapes...)
	e.onClick = onClick
	e.pushes++
}

func (e *recordingEngine) Camera() geo.Camera {
	return e.camera
}

func (e *recordingEngine) moves() int {
	return len(e.views) + len(e.fits)
}
