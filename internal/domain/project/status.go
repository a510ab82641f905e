package project

import (
	"strings"

	"golang.org/x/text/cases"
)

// Status is the implementation stage of a restoration project.
type Status int

const (
	StatusUnknown Status = iota
	StatusCompleted
	StatusInProgress
	StatusPlanned
)

// Statuses lists the recognized statuses in legend order.
var Statuses = []Status{StatusCompleted, StatusInProgress, StatusPlanned, StatusUnknown}

// ParseStatus maps a source label to a Status. Matching ignores case, spaces,
// hyphens and underscores; unrecognized labels are StatusUnknown.
func ParseStatus(label string) Status {
	key := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(cases.Fold().String(strings.TrimSpace(label)))
	switch key {
	case "completed", "complete":
		return StatusCompleted
	case "inprogress":
		return StatusInProgress
	case "planned":
		return StatusPlanned
	default:
		return StatusUnknown
	}
}

// ParseStatusText maps source text to a Status and keeps the text when it is
// not the canonical label, so "On Hold" survives as a label with an Unknown
// status.
func ParseStatusText(text string) (Status, string) {
	text = strings.TrimSpace(text)
	s := ParseStatus(text)
	if text == "" || text == s.Label() {
		return s, ""
	}
	return s, text
}

// Label returns the display label.
func (s Status) Label() string {
	switch s {
	case StatusCompleted:
		return "Completed"
	case StatusInProgress:
		return "In Progress"
	case StatusPlanned:
		return "Planned"
	default:
		return "Unknown"
	}
}

func (s Status) String() string {
	return s.Label()
}

// MarshalText encodes the status as its display label.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.Label()), nil
}

// UnmarshalText decodes any label; it never fails.
func (s *Status) UnmarshalText(text []byte) error {
	*s = ParseStatus(string(text))
	return nil
}
