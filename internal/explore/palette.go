package explore

import "github.com/rpggio/hrl-explorer/internal/domain/project"

// Tone is the visual category a status maps to.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneInfo    Tone = "info"
	ToneNeutral Tone = "neutral"
)

// StatusStyle is the shared look of a status in the list and on the map.
type StatusStyle struct {
	Status Status `json:"status"`
	Label  string `json:"label"`
	Tone   Tone   `json:"tone"`
	Color  string `json:"color"`
}

// Status is re-exported so view models stay self-describing.
type Status = project.Status

// StyleFor maps every status, recognized or not, to a defined style.
func StyleFor(s project.Status) StatusStyle {
	switch s {
	case project.StatusCompleted:
		return StatusStyle{Status: s, Label: s.Label(), Tone: ToneSuccess, Color: "#2e7d32"}
	case project.StatusInProgress:
		return StatusStyle{Status: s, Label: s.Label(), Tone: ToneWarning, Color: "#ed6c02"}
	case project.StatusPlanned:
		return StatusStyle{Status: s, Label: s.Label(), Tone: ToneInfo, Color: "#0288d1"}
	default:
		return StatusStyle{Status: project.StatusUnknown, Label: project.StatusUnknown.Label(), Tone: ToneNeutral, Color: "#757575"}
	}
}

// ProjectStyle is StyleFor(p.Status) labeled with the catalog's own status
// text.
func ProjectStyle(p project.Project) StatusStyle {
	style := StyleFor(p.Status)
	style.Label = p.StatusText()
	return style
}

// LegendEntry is one row of the map legend.
type LegendEntry struct {
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
	Color string `json:"color"`
}

// Legend returns the static status key shown beside the map.
func Legend() []LegendEntry {
	entries := make([]LegendEntry, 0, len(project.Statuses))
	for _, s := range project.Statuses {
		style := StyleFor(s)
		label := style.Label
		if s == project.StatusUnknown {
			label = "Other"
		}
		entries = append(entries, LegendEntry{Label: label, Tone: style.Tone, Color: style.Color})
	}
	return entries
}
