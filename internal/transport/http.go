package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/hrl-explorer/internal/mcp"
)

// MCPHandler handles MCP method dispatch.
type MCPHandler interface {
	Handle(ctx context.Context, sessionID, method string, params json.RawMessage) (any, error)
}

// Options configures the HTTP surface.
type Options struct {
	// AdminToken guards /api/admin routes and admin JSON-RPC methods.
	AdminToken string
	// MCP, when set, is mounted at /mcp (streamable HTTP transport).
	MCP    http.Handler
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	handler MCPHandler
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(handler MCPHandler, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(AdminMiddleware(opts.AdminToken))
	r.Use(SessionMiddleware)

	srv := &Server{handler: handler, logger: logger}

	r.Get("/health", srv.handleHealth)
	r.Post("/rpc", srv.handleRPC)
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", srv.call("list_projects", noParams))
		r.Get("/projects/{id}", srv.call("get_project", func(r *http.Request) (any, error) {
			return mcp.GetProjectParams{ID: chi.URLParam(r, "id")}, nil
		}))
		r.Get("/legend", srv.call("get_legend", noParams))
		r.Get("/activity", srv.call("get_recent_activity", activityParams))

		r.Route("/explorer", func(r chi.Router) {
			r.Get("/", srv.call("get_explorer_state", noParams))
			r.Delete("/", srv.call("close_session", noParams))
			r.Post("/cards/{id}/click", srv.call("click_card", projectAction))
			r.Post("/overlays/{id}/click", srv.call("click_overlay", projectAction))
			r.Put("/selection/{id}", srv.call("select_project", projectAction))
			r.Delete("/selection", srv.call("clear_selection", noParams))
			r.Put("/scroll", srv.call("scroll_list", func(r *http.Request) (any, error) {
				var p mcp.ScrollListParams
				if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
					return nil, err
				}
				return p, nil
			}))
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Post("/admin/reload", srv.call("reload_projects", noParams))
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		WriteError(w, nil, ErrInvalidReq, "invalid request", nil)
		return
	}

	sessionID, _ := SessionIDFromContext(r.Context())

	result, err := s.handler.Handle(r.Context(), sessionID, req.Method, req.Params)
	if err != nil {
		if errors.Is(err, mcp.ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		WriteHandlerError(w, req.ID, err)
		return
	}

	WriteResult(w, req.ID, result)
}

// paramsFunc builds tool arguments from a REST request.
type paramsFunc func(r *http.Request) (any, error)

func noParams(*http.Request) (any, error) { return nil, nil }

func projectAction(r *http.Request) (any, error) {
	return mcp.ProjectActionParams{ID: chi.URLParam(r, "id")}, nil
}

func activityParams(r *http.Request) (any, error) {
	q := r.URL.Query()
	p := mcp.GetRecentActivityParams{
		SessionID: q.Get("session_id"),
		ProjectID: q.Get("project_id"),
		Type:      q.Get("type"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		p.Limit = limit
	}
	return p, nil
}

// call adapts one MCP method to a REST endpoint.
func (s *Server) call(method string, params paramsFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		args, err := params(r)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, &mcp.APIError{Code: "INVALID_PARAMS", Message: err.Error()})
			return
		}
		var raw json.RawMessage
		if args != nil {
			if raw, err = json.Marshal(args); err != nil {
				writeAPIError(w, http.StatusInternalServerError, &mcp.APIError{Code: "INTERNAL", Message: err.Error()})
				return
			}
		}

		sessionID, _ := SessionIDFromContext(r.Context())
		result, err := s.handler.Handle(r.Context(), sessionID, method, raw)
		if err != nil {
			var apiErr *mcp.APIError
			if !errors.As(err, &apiErr) {
				s.logger.Error("request failed", "method", method, "error", err)
				apiErr = &mcp.APIError{Code: "INTERNAL", Message: "internal error"}
			}
			writeAPIError(w, StatusFor(apiErr), apiErr)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

// StatusFor maps an MCP error code to an HTTP status.
func StatusFor(err *mcp.APIError) int {
	switch err.Code {
	case "PROJECT_NOT_FOUND", "SESSION_NOT_FOUND", "UNKNOWN_METHOD":
		return http.StatusNotFound
	case "INVALID_PARAMS", "INVALID_INPUT":
		return http.StatusBadRequest
	case "UNAUTHORIZED":
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeAPIError(w http.ResponseWriter, status int, err *mcp.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]*mcp.APIError{"error": err})
}
