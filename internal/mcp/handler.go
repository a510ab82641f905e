package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rpggio/hrl-explorer/internal/domain/activity"
	"github.com/rpggio/hrl-explorer/internal/domain/project"
	"github.com/rpggio/hrl-explorer/internal/explore"
)

// DefaultSessionID is used when a caller has no session of its own, as with
// stdio clients.
const DefaultSessionID = "default"

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context) ([]project.Project, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
	Record(ctx context.Context, typ activity.Type, sessionID, projectID, summary string)
}

// Handler dispatches MCP commands.
type Handler struct {
	projects ProjectService
	explorer *explore.Manager
	activity ActivityService
	logger   *slog.Logger
}

// NewHandler creates a new MCP handler.
func NewHandler(projects ProjectService, explorer *explore.Manager, activitySvc ActivityService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		projects: projects,
		explorer: explorer,
		activity: activitySvc,
		logger:   logger,
	}
}

// Handle dispatches MCP requests to the explorer and domain services.
// sessionID is the caller's transport session; a session_id argument
// overrides it.
func (h *Handler) Handle(ctx context.Context, sessionID, method string, params json.RawMessage) (any, error) {
	if def, ok := toolByName(method); ok && def.Admin && !IsAdmin(ctx) {
		return nil, mapError(ErrUnauthorized)
	}

	switch method {
	case "list_projects":
		projects := h.explorer.Store().All()
		resp := ListProjectsResponse{Projects: make([]ProjectSummaryResponse, 0, len(projects)), Count: len(projects)}
		for _, p := range projects {
			resp.Projects = append(resp.Projects, ProjectSummaryResponse{
				ID:              p.ID,
				Name:            p.Name,
				Status:          explore.ProjectStyle(p),
				Year:            p.Year,
				TributarySystem: p.TributarySystem,
				HabitatType:     p.HabitatType,
				AreaAcres:       p.AreaAcres,
				HasGeometry:     project.ValidateGeometry(p.Geometry) == nil,
			})
		}
		return resp, nil
	case "get_project":
		var req GetProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		p, ok := h.explorer.Store().Get(req.ID)
		if !ok {
			return nil, mapError(fmt.Errorf("%w: %q", explore.ErrProjectNotFound, req.ID))
		}
		return ProjectDetailResponse{Project: p, Status: explore.ProjectStyle(p)}, nil
	case "get_explorer_state":
		var req SessionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sess := h.session(ctx, sessionID, req.SessionID)
		return sess.State(), nil
	case "click_card", "click_overlay", "select_project":
		var req ProjectActionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.ID == "" {
			return nil, mapError(fmt.Errorf("%w: id is required", ErrInvalidParams))
		}
		sess := h.session(ctx, sessionID, req.SessionID)
		changed, state := sess.Apply(func(in explore.Input) bool {
			switch method {
			case "click_card":
				return in.ClickCard(req.ID)
			case "click_overlay":
				return in.ClickOverlay(req.ID)
			default:
				return in.Select(req.ID)
			}
		})
		if changed {
			h.record(ctx, activity.TypeProjectSelected, sess.ID, req.ID, fmt.Sprintf("selected %s via %s", req.ID, method))
		}
		return ActionResponse{Changed: changed, State: state}, nil
	case "clear_selection":
		var req SessionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sess := h.session(ctx, sessionID, req.SessionID)
		_, state := sess.Apply(func(in explore.Input) bool {
			in.Clear()
			return true
		})
		h.record(ctx, activity.TypeSelectionCleared, sess.ID, "", "selection cleared")
		return ActionResponse{Changed: true, State: state}, nil
	case "scroll_list":
		var req ScrollListParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sess := h.session(ctx, sessionID, req.SessionID)
		_, state := sess.Apply(func(in explore.Input) bool {
			in.ScrollList(req.ScrollTop)
			return true
		})
		return state, nil
	case "close_session":
		var req SessionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		id := resolveSessionID(sessionID, req.SessionID)
		if err := h.explorer.Close(id); err != nil {
			return nil, mapError(err)
		}
		h.record(ctx, activity.TypeSessionClosed, id, "", "explorer session closed")
		return CloseSessionResponse{SessionID: id, Closed: true}, nil
	case "get_legend":
		return LegendResponse{Entries: explore.Legend()}, nil
	case "reload_projects":
		return h.Reload(ctx)
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := activity.ListOptions{
			SessionID: req.SessionID,
			ProjectID: req.ProjectID,
			Limit:     req.Limit,
		}
		if req.Type != "" {
			typ := activity.Type(req.Type)
			opts.Type = &typ
		}
		entries, err := h.activity.GetRecentActivity(ctx, opts)
		if err != nil {
			return nil, mapError(err)
		}
		resp := GetRecentActivityResponse{Entries: make([]ActivityEntryResponse, 0, len(entries))}
		for _, entry := range entries {
			resp.Entries = append(resp.Entries, ActivityEntryResponse{
				Timestamp: entry.CreatedAt,
				Type:      entry.Type,
				SessionID: entry.SessionID,
				ProjectID: entry.ProjectID,
				Summary:   entry.Summary,
				Details:   entry.Details,
			})
		}
		return resp, nil
	default:
		return nil, mapError(fmt.Errorf("%w: %s", ErrUnknownMethod, method))
	}
}

// Reload rebuilds the explorer snapshot from the project catalog.
func (h *Handler) Reload(ctx context.Context) (*ReloadResponse, error) {
	projects, err := h.projects.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	store, err := explore.NewStore(projects)
	if err != nil {
		return nil, mapError(err)
	}
	h.explorer.Reload(store)
	h.record(ctx, activity.TypeCatalogReloaded, "", "", fmt.Sprintf("reloaded %d projects", store.Len()))
	return &ReloadResponse{Projects: store.Len(), Sessions: len(h.explorer.IDs())}, nil
}

func (h *Handler) session(ctx context.Context, transportID, argID string) *explore.Session {
	sess, created := h.explorer.Open(resolveSessionID(transportID, argID))
	if created {
		h.record(ctx, activity.TypeSessionOpened, sess.ID, "", "explorer session opened")
	}
	return sess
}

func (h *Handler) record(ctx context.Context, typ activity.Type, sessionID, projectID, summary string) {
	if h.activity == nil {
		return
	}
	h.activity.Record(ctx, typ, sessionID, projectID, summary)
}

func resolveSessionID(transportID, argID string) string {
	switch {
	case argID != "":
		return argID
	case transportID != "":
		return transportID
	default:
		return DefaultSessionID
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return mapError(fmt.Errorf("%w: %v", ErrInvalidParams, err))
	}
	return nil
}
