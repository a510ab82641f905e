package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/hrl-explorer/internal/domain/activity"
	"github.com/rpggio/hrl-explorer/internal/domain/project"
	"github.com/rpggio/hrl-explorer/internal/explore"
	"github.com/rpggio/hrl-explorer/internal/geo"
	"github.com/stretchr/testify/require"
)

type projectStub struct {
	listFn func(context.Context) ([]project.Project, error)
}

func (p projectStub) List(ctx context.Context) ([]project.Project, error) {
	return p.listFn(ctx)
}

type recorded struct {
	Type      activity.Type
	SessionID string
	ProjectID string
}

type activityStub struct {
	mu      sync.Mutex
	entries []recorded
	listFn  func(context.Context, activity.ListOptions) ([]activity.Entry, error)
}

func (a *activityStub) GetRecentActivity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	return a.listFn(ctx, opts)
}

func (a *activityStub) Record(_ context.Context, typ activity.Type, sessionID, projectID, _ string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, recorded{Type: typ, SessionID: sessionID, ProjectID: projectID})
}

func (a *activityStub) types() []activity.Type {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]activity.Type, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Type)
	}
	return out
}

func testProjects() []project.Project {
	return []project.Project{
		{
			ID:        "A",
			Name:      "Point Project",
			Status:    project.StatusCompleted,
			AreaAcres: 1250,
			Geometry:  project.Point{Lon: -121.5, Lat: 38.5},
		},
		{
			ID:     "B",
			Name:   "Polygon Project",
			Status: project.StatusPlanned,
			Geometry: project.Polygon{Rings: [][]geo.Coord{{
				{Lon: -122, Lat: 38}, {Lon: -121, Lat: 38}, {Lon: -121, Lat: 39}, {Lon: -122, Lat: 39},
			}}},
		},
		{
			ID:     "N",
			Name:   "No Geometry",
			Status: project.Status(42),
		},
	}
}

func newTestHandler(t *testing.T) (*Handler, *activityStub) {
	t.Helper()
	store, err := explore.NewStore(testProjects())
	require.NoError(t, err)

	acts := &activityStub{listFn: func(context.Context, activity.ListOptions) ([]activity.Entry, error) {
		return []activity.Entry{}, nil
	}}
	projects := projectStub{listFn: func(context.Context) ([]project.Project, error) {
		return testProjects()[:2], nil
	}}
	return NewHandler(projects, explore.NewManager(store, explore.DefaultSessionOptions(), nil), acts, nil), acts
}

func TestHandler_CatalogCommands(t *testing.T) {
	ctx := context.Background()
	handler, _ := newTestHandler(t)

	result, err := handler.Handle(ctx, "", "list_projects", nil)
	require.NoError(t, err)
	list := result.(ListProjectsResponse)
	require.Equal(t, 3, list.Count)
	require.Equal(t, "A", list.Projects[0].ID)
	require.Equal(t, explore.ToneSuccess, list.Projects[0].Status.Tone)
	require.True(t, list.Projects[1].HasGeometry)
	require.False(t, list.Projects[2].HasGeometry)
	require.Equal(t, explore.ToneNeutral, list.Projects[2].Status.Tone)

	result, err = handler.Handle(ctx, "", "get_project", mustJSON(t, GetProjectParams{ID: "B"}))
	require.NoError(t, err)
	detail := result.(ProjectDetailResponse)
	require.Equal(t, "Polygon Project", detail.Project.Name)
	require.Equal(t, explore.ToneInfo, detail.Status.Tone)

	result, err = handler.Handle(ctx, "", "get_legend", nil)
	require.NoError(t, err)
	require.Len(t, result.(LegendResponse).Entries, 4)
}

func TestHandler_SelectionCommands(t *testing.T) {
	ctx := context.Background()
	handler, acts := newTestHandler(t)

	result, err := handler.Handle(ctx, "s1", "click_card", mustJSON(t, ProjectActionParams{ID: "A"}))
	require.NoError(t, err)
	resp := result.(ActionResponse)
	require.True(t, resp.Changed)
	require.Equal(t, "s1", resp.State.SessionID)
	require.Equal(t, "A", resp.State.Selection.ID)
	require.Equal(t, "A", resp.State.List.SelectedID)
	require.Equal(t, explore.CameraState{Mode: explore.CameraFitted, ProjectID: "A"}, resp.State.Map.CameraState)
	require.Equal(t, 12.0, resp.State.Map.Camera.Zoom)

	result, err = handler.Handle(ctx, "s1", "click_overlay", mustJSON(t, ProjectActionParams{ID: "B"}))
	require.NoError(t, err)
	resp = result.(ActionResponse)
	require.True(t, resp.Changed)
	require.Equal(t, "B", resp.State.Map.CameraState.ProjectID)
	camera := resp.State.Map.Camera

	// No overlay, no click.
	result, err = handler.Handle(ctx, "s1", "click_overlay", mustJSON(t, ProjectActionParams{ID: "N"}))
	require.NoError(t, err)
	require.False(t, result.(ActionResponse).Changed)

	result, err = handler.Handle(ctx, "s1", "select_project", mustJSON(t, ProjectActionParams{ID: "missing"}))
	require.NoError(t, err)
	resp = result.(ActionResponse)
	require.False(t, resp.Changed)
	require.Equal(t, "B", resp.State.Selection.ID)

	result, err = handler.Handle(ctx, "s1", "clear_selection", nil)
	require.NoError(t, err)
	resp = result.(ActionResponse)
	require.Nil(t, resp.State.Selection)
	require.Equal(t, camera, resp.State.Map.Camera)

	require.Equal(t, []activity.Type{
		activity.TypeSessionOpened,
		activity.TypeProjectSelected,
		activity.TypeProjectSelected,
		activity.TypeSelectionCleared,
	}, acts.types())
}

func TestHandler_SessionResolution(t *testing.T) {
	ctx := context.Background()
	handler, _ := newTestHandler(t)

	_, err := handler.Handle(ctx, "transport", "select_project", mustJSON(t, ProjectActionParams{ID: "A"}))
	require.NoError(t, err)
	_, err = handler.Handle(ctx, "transport", "select_project", mustJSON(t, ProjectActionParams{SessionID: "explicit", ID: "B"}))
	require.NoError(t, err)
	_, err = handler.Handle(ctx, "", "get_explorer_state", nil)
	require.NoError(t, err)

	require.Equal(t, []string{DefaultSessionID, "explicit", "transport"}, handler.explorer.IDs())

	result, err := handler.Handle(ctx, "transport", "get_explorer_state", nil)
	require.NoError(t, err)
	require.Equal(t, "A", result.(explore.State).Selection.ID)

	result, err = handler.Handle(ctx, "", "close_session", mustJSON(t, SessionParams{SessionID: "explicit"}))
	require.NoError(t, err)
	require.True(t, result.(CloseSessionResponse).Closed)

	_, err = handler.Handle(ctx, "", "close_session", mustJSON(t, SessionParams{SessionID: "explicit"}))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "SESSION_NOT_FOUND", apiErr.Code)
}

func TestHandler_ScrollList(t *testing.T) {
	ctx := context.Background()
	handler, _ := newTestHandler(t)

	result, err := handler.Handle(ctx, "s1", "scroll_list", mustJSON(t, ScrollListParams{ScrollTop: 40}))
	require.NoError(t, err)
	state := result.(explore.State)
	require.GreaterOrEqual(t, state.List.ScrollTop, 0.0)
	require.Nil(t, state.List.LastScroll)
}

func TestHandler_ActionStateBelongsToAction(t *testing.T) {
	ctx := context.Background()
	handler, _ := newTestHandler(t)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, id := range []string{"A", "B"} {
		wg.Add(1)
		params := mustJSON(t, ProjectActionParams{ID: id})
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				result, err := handler.Handle(ctx, "shared", "select_project", params)
				if err != nil {
					errs <- err
					return
				}
				resp := result.(ActionResponse)
				if resp.State.Selection == nil || resp.State.Selection.ID != id {
					errs <- errors.New("state does not reflect select " + id)
					return
				}
			}
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestHandler_ReloadRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	handler, acts := newTestHandler(t)

	_, err := handler.Handle(ctx, "s1", "select_project", mustJSON(t, ProjectActionParams{ID: "A"}))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, "s1", "reload_projects", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "UNAUTHORIZED", apiErr.Code)
	require.ErrorIs(t, err, ErrUnauthorized)

	result, err := handler.Handle(WithAdmin(ctx), "s1", "reload_projects", nil)
	require.NoError(t, err)
	require.Equal(t, &ReloadResponse{Projects: 2, Sessions: 1}, result)
	require.Equal(t, 2, handler.explorer.Store().Len())
	require.Contains(t, acts.types(), activity.TypeCatalogReloaded)
	require.NotContains(t, acts.types(), activity.TypeCatalogImported)

	// The surviving selection is kept.
	result, err = handler.Handle(ctx, "s1", "get_explorer_state", nil)
	require.NoError(t, err)
	require.Equal(t, "A", result.(explore.State).Selection.ID)
}

func TestHandler_ReloadRejectsDuplicates(t *testing.T) {
	store, err := explore.NewStore(testProjects())
	require.NoError(t, err)
	projects := projectStub{listFn: func(context.Context) ([]project.Project, error) {
		p := testProjects()
		return append(p, p[0]), nil
	}}
	handler := NewHandler(projects, explore.NewManager(store, explore.DefaultSessionOptions(), nil), nil, nil)

	_, err = handler.Handle(WithAdmin(context.Background()), "", "reload_projects", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "INVALID_INPUT", apiErr.Code)
	require.Equal(t, 3, handler.explorer.Store().Len())
}

func TestHandler_RecentActivity(t *testing.T) {
	ctx := context.Background()
	store, err := explore.NewStore(testProjects())
	require.NoError(t, err)

	var got activity.ListOptions
	acts := &activityStub{listFn: func(_ context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
		got = opts
		return []activity.Entry{{
			ID:        1,
			Type:      activity.TypeProjectSelected,
			SessionID: "s1",
			ProjectID: "A",
			Summary:   "selected A",
			CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}}, nil
	}}
	handler := NewHandler(nil, explore.NewManager(store, explore.DefaultSessionOptions(), nil), acts, nil)

	result, err := handler.Handle(ctx, "", "get_recent_activity", mustJSON(t, GetRecentActivityParams{
		ProjectID: "A",
		Type:      string(activity.TypeProjectSelected),
		Limit:     5,
	}))
	require.NoError(t, err)
	require.Equal(t, "A", got.ProjectID)
	require.Equal(t, 5, got.Limit)
	require.NotNil(t, got.Type)
	require.Equal(t, activity.TypeProjectSelected, *got.Type)

	entries := result.(GetRecentActivityResponse).Entries
	require.Len(t, entries, 1)
	require.Equal(t, "selected A", entries[0].Summary)
}

func TestHandler_ErrorMapping(t *testing.T) {
	ctx := context.Background()
	handler, _ := newTestHandler(t)

	cases := []struct {
		method string
		params json.RawMessage
		code   string
	}{
		{"get_project", mustJSON(t, GetProjectParams{ID: "missing"}), "PROJECT_NOT_FOUND"},
		{"click_card", mustJSON(t, ProjectActionParams{}), "INVALID_PARAMS"},
		{"scroll_list", json.RawMessage(`{"scroll_top": "far"}`), "INVALID_PARAMS"},
		{"create_record", nil, "UNKNOWN_METHOD"},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			_, err := handler.Handle(ctx, "", tc.method, tc.params)
			require.Error(t, err)
			apiErr, ok := err.(*APIError)
			require.True(t, ok)
			require.Equal(t, tc.code, apiErr.Code)
		})
	}

	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("boom")))
}

func TestToolCatalog(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range buildToolCatalog() {
		require.False(t, seen[def.Name], "duplicate tool %s", def.Name)
		seen[def.Name] = true
		require.Equal(t, "object", def.InputSchema["type"], def.Name)
		require.Equal(t, def.Name == "reload_projects", def.Admin, def.Name)
	}
	require.Len(t, seen, 12)

	_, ok := toolByName("click_card")
	require.True(t, ok)
	_, ok = toolByName("ping")
	require.False(t, ok)
}

func TestTokenMatches(t *testing.T) {
	require.True(t, TokenMatches("Bearer secret", "secret"))
	require.True(t, TokenMatches("secret", "secret"))
	require.False(t, TokenMatches("Bearer nope", "secret"))
	require.False(t, TokenMatches("", ""))
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
