package explore

import (
	"log/slog"

	"github.com/rpggio/hrl-explorer/internal/domain/project"
	"github.com/rpggio/hrl-explorer/internal/geo"
)

const selectedStrokeColor = "#000"

// ViewportConfig holds the fixed camera-fitting constants.
type ViewportConfig struct {
	// FocusZoom is the zoom used for point projects, whatever the prior zoom.
	FocusZoom float64
	// Padding is kept clear around a fitted polygon, in pixels.
	Padding geo.Padding
}

// DefaultViewportConfig returns zoom 12 and 50 px padding.
func DefaultViewportConfig() ViewportConfig {
	return ViewportConfig{FocusZoom: 12, Padding: geo.UniformPadding(50)}
}

// CameraMode is the viewport camera's state.
type CameraMode string

const (
	CameraDefault CameraMode = "default"
	CameraFitted  CameraMode = "fitted"
)

// CameraState is Default or FittedToProject(ProjectID). Clearing the
// selection never changes it.
type CameraState struct {
	Mode      CameraMode `json:"mode"`
	ProjectID string     `json:"project_id,omitempty"`
}

// Popup is the overlay's click-through summary.
type Popup struct {
	Name            string `json:"name"`
	TributarySystem string `json:"tributary_system"`
	Status          string `json:"status"`
}

// Overlay is one rendered project on the map.
type Overlay struct {
	geo.Shape
	Status   StatusStyle `json:"status_style"`
	Selected bool        `json:"selected"`
	Popup    Popup       `json:"popup"`
}

// MapRender is the viewport's output for one render pass.
type MapRender struct {
	Camera      geo.Camera    `json:"camera"`
	CameraState CameraState   `json:"camera_state"`
	Overlays    []Overlay     `json:"overlays"`
	Omitted     []string      `json:"omitted,omitempty"`
	Legend      []LegendEntry `json:"legend"`
}

// Viewport renders project geometry on a map engine and moves the camera to
// each newly selected project.
type Viewport struct {
	ctrl   *Controller
	engine Engine
	cfg    ViewportConfig
	logger *slog.Logger

	selectedID  string
	state       CameraState
	unsubscribe func()
}

// NewViewport creates a viewport subscribed to ctrl and pushes the initial
// overlays to engine.
func NewViewport(ctrl *Controller, engine Engine, cfg ViewportConfig, logger *slog.Logger) *Viewport {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	v := &Viewport{
		ctrl:   ctrl,
		engine: engine,
		cfg:    cfg,
		logger: logger,
		state:  CameraState{Mode: CameraDefault},
	}
	v.selectedID = ctrl.Selection().ID()
	v.unsubscribe = ctrl.OnChange(v.onSelectionChange)
	v.Refresh()
	return v
}

// Close detaches the viewport from its controller.
func (v *Viewport) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}

// Click handles a click on the overlay for id.
func (v *Viewport) Click(id string) bool {
	return v.ctrl.Select(id)
}

// CameraState returns the camera state machine's current state.
func (v *Viewport) CameraState() CameraState {
	return v.state
}

// Camera returns the engine's current view.
func (v *Viewport) Camera() geo.Camera {
	return v.engine.Camera()
}

func (v *Viewport) onSelectionChange(sel Selection) {
	v.selectedID = sel.ID()
	if !sel.Empty() {
		v.fit(sel.Project)
	}
	v.Refresh()
}

// fit moves the camera to p. Malformed geometry leaves the camera alone.
func (v *Viewport) fit(p project.Project) {
	if err := project.ValidateGeometry(p.Geometry); err != nil {
		v.logger.Warn("skipping viewport fit", "project_id", p.ID, "error", err)
		return
	}

	switch g := p.Geometry.(type) {
	case project.Point:
		v.engine.SetView(g.Coord().LatLng(), v.cfg.FocusZoom)
	case project.Polygon:
		bounds, _ := geo.BoundsOf(g.Outer())
		if bounds.IsPoint() {
			v.engine.SetView(bounds.Center(), v.cfg.FocusZoom)
		} else {
			v.engine.FitBounds(bounds, v.cfg.Padding)
		}
	default:
		return
	}
	v.state = CameraState{Mode: CameraFitted, ProjectID: p.ID}
}

// Refresh pushes the current overlays and their click handler to the engine.
func (v *Viewport) Refresh() {
	overlays, _ := v.overlays()
	shapes := make([]geo.Shape, 0, len(overlays))
	for _, o := range overlays {
		shapes = append(shapes, o.Shape)
	}
	v.engine.SetOverlays(shapes, func(id string) { v.Click(id) })
}

// Render describes the map for one render pass.
func (v *Viewport) Render() MapRender {
	overlays, omitted := v.overlays()
	return MapRender{
		Camera:      v.engine.Camera(),
		CameraState: v.state,
		Overlays:    overlays,
		Omitted:     omitted,
		Legend:      Legend(),
	}
}

func (v *Viewport) overlays() ([]Overlay, []string) {
	projects := v.ctrl.Store().All()
	overlays := make([]Overlay, 0, len(projects))
	var omitted []string
	for _, p := range projects {
		o, ok := v.overlay(p)
		if !ok {
			omitted = append(omitted, p.ID)
			continue
		}
		overlays = append(overlays, o)
	}
	return overlays, omitted
}

func (v *Viewport) overlay(p project.Project) (Overlay, bool) {
	if err := project.ValidateGeometry(p.Geometry); err != nil {
		v.logger.Debug("omitting overlay", "project_id", p.ID, "error", err)
		return Overlay{}, false
	}

	style := ProjectStyle(p)
	selected := p.ID == v.selectedID
	shape := geo.Shape{ID: p.ID, Style: pathStyle(style, selected)}

	switch g := p.Geometry.(type) {
	case project.Point:
		shape.Kind = geo.ShapeMarker
		shape.Points = []geo.LatLng{g.Coord().LatLng()}
	case project.Polygon:
		shape.Kind = geo.ShapePolygon
		outer := g.Outer()
		shape.Points = make([]geo.LatLng, 0, len(outer))
		for _, c := range outer {
			shape.Points = append(shape.Points, c.LatLng())
		}
	default:
		return Overlay{}, false
	}

	return Overlay{
		Shape:    shape,
		Status:   style,
		Selected: selected,
		Popup: Popup{
			Name:            p.Name,
			TributarySystem: p.TributarySystem,
			Status:          style.Label,
		},
	}, true
}

func pathStyle(style StatusStyle, selected bool) geo.PathStyle {
	if selected {
		return geo.PathStyle{Color: selectedStrokeColor, FillColor: style.Color, FillOpacity: 0.6, Weight: 3}
	}
	return geo.PathStyle{Color: style.Color, FillColor: style.Color, FillOpacity: 0.4, Weight: 2}
}
