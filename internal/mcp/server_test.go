package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/hrl-explorer/internal/domain/project"
	"github.com/rpggio/hrl-explorer/internal/explore"
	"github.com/stretchr/testify/require"
)

func connectTestServer(t *testing.T, mode string) *sdkmcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	store, err := explore.NewStore(testProjects())
	require.NoError(t, err)
	server := NewServer(Config{
		Services: Services{
			Projects: projectStub{listFn: func(context.Context) ([]project.Project, error) { return testProjects(), nil }},
			Explorer: explore.NewManager(store, explore.DefaultSessionOptions(), nil),
		},
		TransportMode: mode,
	})

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func callText(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text, result.IsError
}

func TestServer_ToolsAndResources(t *testing.T) {
	session := connectTestServer(t, "stdio")
	ctx := context.Background()

	initResult := session.InitializeResult()
	require.NotNil(t, initResult)
	require.Equal(t, "hrl-explorer", initResult.ServerInfo.Name)

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, len(buildToolCatalog()))

	res, err := session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "hrl://docs/explore-page"})
	require.NoError(t, err)
	require.Contains(t, res.Contents[0].Text, "nearest edge")
}

func TestServer_CallTools(t *testing.T) {
	session := connectTestServer(t, "stdio")

	text, isErr := callText(t, session, "click_card", map[string]any{"id": "B"})
	require.False(t, isErr, text)
	var resp ActionResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	require.True(t, resp.Changed)
	require.Equal(t, "B", resp.State.List.SelectedID)
	require.Equal(t, explore.CameraFitted, resp.State.Map.CameraState.Mode)

	text, isErr = callText(t, session, "get_project", map[string]any{"id": "missing"})
	require.True(t, isErr)
	var apiErr APIError
	require.NoError(t, json.Unmarshal([]byte(text), &apiErr))
	require.Equal(t, "PROJECT_NOT_FOUND", apiErr.Code)

	// Stdio callers are trusted with admin tools.
	text, isErr = callText(t, session, "reload_projects", nil)
	require.False(t, isErr, text)
}

func TestServer_AdminToolsNeedTokenOverHTTP(t *testing.T) {
	session := connectTestServer(t, "http")

	text, isErr := callText(t, session, "reload_projects", nil)
	require.True(t, isErr)
	require.Contains(t, text, "UNAUTHORIZED")
}
