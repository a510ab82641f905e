package mcp

import (
	"time"

	"github.com/rpggio/hrl-explorer/internal/domain/activity"
	"github.com/rpggio/hrl-explorer/internal/domain/project"
	"github.com/rpggio/hrl-explorer/internal/explore"
)

// Request parameter types.

type GetProjectParams struct {
	ID string `json:"id"`
}

// SessionParams names the explorer session. An empty id uses the caller's
// MCP session.
type SessionParams struct {
	SessionID string `json:"session_id,omitempty"`
}

type ProjectActionParams struct {
	SessionID string `json:"session_id,omitempty"`
	ID        string `json:"id"`
}

type ScrollListParams struct {
	SessionID string  `json:"session_id,omitempty"`
	ScrollTop float64 `json:"scroll_top"`
}

type GetRecentActivityParams struct {
	SessionID string `json:"session_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	Type      string `json:"type,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// Response types.

type ProjectSummaryResponse struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Status          explore.StatusStyle `json:"status"`
	Year            int                 `json:"year"`
	TributarySystem string              `json:"tributary_system"`
	HabitatType     string              `json:"habitat_type"`
	AreaAcres       float64             `json:"area_acres"`
	HasGeometry     bool                `json:"has_geometry"`
}

type ListProjectsResponse struct {
	Projects []ProjectSummaryResponse `json:"projects"`
	Count    int                      `json:"count"`
}

type ProjectDetailResponse struct {
	Project project.Project     `json:"project"`
	Status  explore.StatusStyle `json:"status_style"`
}

// ActionResponse reports whether an input changed the selection, followed by
// the resulting view state.
type ActionResponse struct {
	Changed bool          `json:"changed"`
	State   explore.State `json:"state"`
}

type CloseSessionResponse struct {
	SessionID string `json:"session_id"`
	Closed    bool   `json:"closed"`
}

type LegendResponse struct {
	Entries []explore.LegendEntry `json:"entries"`
}

type ReloadResponse struct {
	Projects int `json:"projects"`
	Sessions int `json:"sessions"`
}

type ActivityEntryResponse struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      activity.Type `json:"type"`
	SessionID string        `json:"session_id,omitempty"`
	ProjectID string        `json:"project_id,omitempty"`
	Summary   string        `json:"summary"`
	Details   string        `json:"details,omitempty"`
}

type GetRecentActivityResponse struct {
	Entries []ActivityEntryResponse `json:"entries"`
}

// ToolDefinition describes one MCP tool.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
	Admin       bool
}
