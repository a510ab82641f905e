// Package catalog reads project catalog files.
//
// A catalog is a YAML (or JSON, which YAML accepts) document with a top-level
// "projects" list. Geometry uses the GeoJSON shape: {type, coordinates} with
// (longitude, latitude) positions.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/rpggio/hrl-explorer/internal/domain/project"
	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog indicates a catalog document that cannot be decoded.
var ErrInvalidCatalog = errors.New("invalid catalog")

type document struct {
	Projects []record `yaml:"projects"`
}

type record struct {
	ID                 string    `yaml:"id"`
	Name               string    `yaml:"name"`
	TributarySystem    string    `yaml:"tributary_system"`
	HabitatType        string    `yaml:"habitat_type"`
	TargetSpecies      []string  `yaml:"target_species"`
	ImplementingEntity string    `yaml:"implementing_entity"`
	Status             string    `yaml:"status"`
	Year               int       `yaml:"year"`
	AreaAcres          float64   `yaml:"area_acres"`
	AssessmentType     string    `yaml:"assessment_type"`
	Description        string    `yaml:"description"`
	Geometry           yaml.Node `yaml:"geometry"`
}

type geometryNode struct {
	Type        string    `yaml:"type"`
	Coordinates yaml.Node `yaml:"coordinates"`
}

// Issue describes a record that loaded with unusable geometry.
type Issue struct {
	Index int
	ID    string
	Err   error
}

// Result is a decoded catalog.
type Result struct {
	Projects []project.Project
	Issues   []Issue
}

// LoadFile reads and parses the catalog at path.
func LoadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog document. Structural errors fail the whole
// document; a malformed geometry only leaves that project's Geometry nil and
// is reported as an Issue.
func Parse(data []byte) (*Result, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	result := &Result{Projects: make([]project.Project, 0, len(doc.Projects))}
	for i, rec := range doc.Projects {
		status, statusLabel := project.ParseStatusText(rec.Status)
		geom, err := decodeGeometry(&rec.Geometry)
		if err != nil {
			result.Issues = append(result.Issues, Issue{Index: i, ID: rec.ID, Err: err})
		}
		result.Projects = append(result.Projects, project.Project{
			ID:                 rec.ID,
			Name:               rec.Name,
			TributarySystem:    rec.TributarySystem,
			HabitatType:        rec.HabitatType,
			TargetSpecies:      rec.TargetSpecies,
			ImplementingEntity: rec.ImplementingEntity,
			Status:             status,
			StatusLabel:        statusLabel,
			Year:               rec.Year,
			AreaAcres:          rec.AreaAcres,
			AssessmentType:     rec.AssessmentType,
			Description:        rec.Description,
			Geometry:           geom,
		})
	}
	return result, nil
}

func decodeGeometry(node *yaml.Node) (project.Geometry, error) {
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null") {
		return nil, fmt.Errorf("%w: missing geometry", project.ErrInvalidGeometry)
	}
	var g geometryNode
	if err := node.Decode(&g); err != nil {
		return nil, fmt.Errorf("%w: %v", project.ErrInvalidGeometry, err)
	}
	if g.Coordinates.Kind == 0 {
		return nil, fmt.Errorf("%w: %s has no coordinates", project.ErrInvalidGeometry, g.Type)
	}
	return project.DecodeGeometry(g.Type, g.Coordinates.Decode)
}

// Encode writes projects back out as a catalog document.
func Encode(projects []project.Project) ([]byte, error) {
	type outRecord struct {
		ID                 string   `yaml:"id"`
		Name               string   `yaml:"name"`
		TributarySystem    string   `yaml:"tributary_system,omitempty"`
		HabitatType        string   `yaml:"habitat_type,omitempty"`
		TargetSpecies      []string `yaml:"target_species,omitempty"`
		ImplementingEntity string   `yaml:"implementing_entity,omitempty"`
		Status             string   `yaml:"status"`
		Year               int      `yaml:"year,omitempty"`
		AreaAcres          float64  `yaml:"area_acres,omitempty"`
		AssessmentType     string   `yaml:"assessment_type,omitempty"`
		Description        string   `yaml:"description,omitempty"`
		Geometry           any      `yaml:"geometry"`
	}

	out := struct {
		Projects []outRecord `yaml:"projects"`
	}{Projects: make([]outRecord, 0, len(projects))}

	for _, p := range projects {
		out.Projects = append(out.Projects, outRecord{
			ID:                 p.ID,
			Name:               p.Name,
			TributarySystem:    p.TributarySystem,
			HabitatType:        p.HabitatType,
			TargetSpecies:      p.TargetSpecies,
			ImplementingEntity: p.ImplementingEntity,
			Status:             p.StatusText(),
			Year:               p.Year,
			AreaAcres:          p.AreaAcres,
			AssessmentType:     p.AssessmentType,
			Description:        p.Description,
			Geometry:           geometryValue(p.Geometry),
		})
	}
	return yaml.Marshal(out)
}

func geometryValue(g project.Geometry) any {
	switch v := g.(type) {
	case project.Point:
		return map[string]any{"type": string(project.KindPoint), "coordinates": []float64{v.Lon, v.Lat}}
	case project.Polygon:
		rings := make([][][]float64, 0, len(v.Rings))
		for _, ring := range v.Rings {
			pairs := make([][]float64, 0, len(ring))
			for _, c := range ring {
				pairs = append(pairs, []float64{c.Lon, c.Lat})
			}
			rings = append(rings, pairs)
		}
		return map[string]any{"type": string(project.KindPolygon), "coordinates": rings}
	default:
		return nil
	}
}
