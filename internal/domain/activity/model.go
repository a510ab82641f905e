package activity

import "time"

// Type identifies what happened.
type Type string

const (
	TypeCatalogImported  Type = "catalog_imported"
	TypeCatalogReloaded  Type = "catalog_reloaded"
	TypeSessionOpened    Type = "session_opened"
	TypeSessionClosed    Type = "session_closed"
	TypeProjectSelected  Type = "project_selected"
	TypeSelectionCleared Type = "selection_cleared"
)

// Entry is one event in the activity log.
type Entry struct {
	ID        int64     `json:"id"`
	Type      Type      `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
	ProjectID string    `json:"project_id,omitempty"`
	Summary   string    `json:"summary"`
	Details   string    `json:"details,omitempty"` // JSON string
	CreatedAt time.Time `json:"created_at"`
}
