// Package testserver runs the full HTTP stack against an in-memory database
// for functional tests.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/hrl-explorer/internal/domain/activity"
	"github.com/rpggio/hrl-explorer/internal/domain/project"
	"github.com/rpggio/hrl-explorer/internal/explore"
	"github.com/rpggio/hrl-explorer/internal/geo"
	"github.com/rpggio/hrl-explorer/internal/mcp"
	"github.com/rpggio/hrl-explorer/internal/sqlite"
	"github.com/rpggio/hrl-explorer/internal/transport"
	"github.com/stretchr/testify/require"
)

// AdminToken is the admin bearer token every test server accepts.
const AdminToken = "test-admin-token"

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Projects *project.Service
	Activity *activity.Service
	Explorer *explore.Manager
	Handler  *mcp.Handler
}

// New starts a server whose catalog holds projects. A nil slice loads
// SampleProjects.
func New(t *testing.T, projects []project.Project) *TestServer {
	t.Helper()
	if projects == nil {
		projects = SampleProjects()
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	projectSvc := project.NewService(sqlite.NewProjectRepository(db), nil)
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)

	ctx := context.Background()
	_, err = projectSvc.Import(ctx, projects)
	require.NoError(t, err)
	stored, err := projectSvc.List(ctx)
	require.NoError(t, err)
	store, err := explore.NewStore(stored)
	require.NoError(t, err)

	explorer := explore.NewManager(store, explore.DefaultSessionOptions(), nil)
	handler := mcp.NewHandler(projectSvc, explorer, activitySvc, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: projectSvc,
			Explorer: explorer,
			Activity: activitySvc,
		},
		AdminToken:    AdminToken,
		TransportMode: "http",
	})
	streamable := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return mcpServer
	}, nil)

	server := httptest.NewServer(transport.NewServer(handler, transport.Options{
		AdminToken: AdminToken,
		MCP:        streamable,
	}))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		Projects: projectSvc,
		Activity: activitySvc,
		Explorer: explorer,
		Handler:  handler,
	}
}

// SampleProjects is a small catalog: a completed point (A), a planned polygon
// (B), an in-progress point (C) and a project without geometry (D).
func SampleProjects() []project.Project {
	return []project.Project{
		{
			ID:              "A",
			Name:            "Butte Creek Floodplain",
			TributarySystem: "Butte Creek",
			HabitatType:     "Floodplain",
			Status:          project.StatusCompleted,
			Year:            2019,
			AreaAcres:       1250,
			Geometry:        project.Point{Lon: -121.5, Lat: 38.5},
		},
		{
			ID:              "B",
			Name:            "Yolo Bypass Wetlands",
			TributarySystem: "Sacramento River",
			HabitatType:     "Tidal Wetland",
			Status:          project.StatusPlanned,
			Year:            2026,
			AreaAcres:       3400.5,
			Geometry: project.Polygon{Rings: [][]geo.Coord{{
				{Lon: -122, Lat: 38}, {Lon: -121, Lat: 38}, {Lon: -121, Lat: 39}, {Lon: -122, Lat: 39},
			}}},
		},
		{
			ID:              "C",
			Name:            "Deer Creek Side Channel",
			TributarySystem: "Deer Creek",
			HabitatType:     "Side Channel",
			Status:          project.StatusInProgress,
			Year:            2024,
			AreaAcres:       42,
			Geometry:        project.Point{Lon: -121.9, Lat: 40.0},
		},
		{
			ID:              "D",
			Name:            "Clear Creek Gravel",
			TributarySystem: "Clear Creek",
			HabitatType:     "Spawning Gravel",
			Status:          project.StatusUnknown,
			Year:            2021,
			AreaAcres:       8,
		},
	}
}
