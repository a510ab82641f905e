package project

import "encoding/json"

// Project is a single restoration or flow-measure initiative.
type Project struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	TributarySystem    string   `json:"tributary_system"`
	HabitatType        string   `json:"habitat_type"`
	TargetSpecies      []string `json:"target_species"`
	ImplementingEntity string   `json:"implementing_entity"`
	Status             Status   `json:"-"`
	// StatusLabel is the source status text when it differs from
	// Status.Label(); empty otherwise.
	StatusLabel        string   `json:"-"`
	Year               int      `json:"year"`
	AreaAcres          float64  `json:"area_acres"`
	AssessmentType     string   `json:"assessment_type"`
	Description        string   `json:"description"`
	Geometry           Geometry `json:"-"`
}

type projectAlias Project

type projectJSON struct {
	projectAlias
	Status   string          `json:"status"`
	Geometry json.RawMessage `json:"geometry"`
}

// StatusText is the status as the catalog spelled it.
func (p Project) StatusText() string {
	if p.StatusLabel != "" {
		return p.StatusLabel
	}
	return p.Status.Label()
}

// MarshalJSON includes the geometry in its GeoJSON-style form.
func (p Project) MarshalJSON() ([]byte, error) {
	geom, err := MarshalGeometry(p.Geometry)
	if err != nil {
		return nil, err
	}
	return json.Marshal(projectJSON{projectAlias: projectAlias(p), Status: p.StatusText(), Geometry: geom})
}

// UnmarshalJSON decodes a project. An unreadable geometry leaves Geometry nil
// rather than failing the record.
func (p *Project) UnmarshalJSON(data []byte) error {
	var wire projectJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*p = Project(wire.projectAlias)
	p.Status, p.StatusLabel = ParseStatusText(wire.Status)
	p.Geometry, _ = UnmarshalGeometry(wire.Geometry)
	return nil
}
