package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `hrl-explorer serves a catalog of habitat restoration projects through an
explore page: a project list beside a map.

Core concepts:
- Project: one restoration effort with a status (Completed, In Progress, Planned or other) and an optional Point or Polygon geometry.
- Explorer session: your explore page. It holds at most one selected project; the list and the map both follow it.
- Camera: selecting a project fits the map to it (fixed zoom for points, padded bounds for polygons). Clearing the selection leaves the camera where it is.

Workflow:
1) Orient: list_projects (or get_explorer_state to see both views).
2) Select: click_card, click_overlay or select_project. The response carries the new state.
3) Inspect: get_project for full details and geometry; get_legend for the color key.
4) Finish: clear_selection or close_session.

Projects with missing or malformed geometry are still listed but have no map overlay; their ids appear in map.omitted.

Transport notes:
- HTTP: the Mcp-Session-Id header identifies your explorer session.
- Stdio: pass _meta.session_id, or a session_id argument; otherwise the "default" session is used.

Docs:
- hrl://docs/index
- hrl://docs/explore-page
- hrl://docs/catalog-format
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "hrl://docs/index",
		Name:        "docs_index",
		Title:       "hrl-explorer docs index",
		Description: "Entry point for agent-facing docs.",
		Content: `# hrl-explorer docs

## Quick start

1. ` + "`get_explorer_state`" + ` renders the list and the map for your session.
2. ` + "`click_card`" + ` selects a project; the list scrolls it into view and the map fits it.
3. ` + "`get_project`" + ` returns the full record, including geometry.

## Docs

- ` + "`hrl://docs/explore-page`" + ` covers selection, scrolling and camera rules.
- ` + "`hrl://docs/catalog-format`" + ` covers the YAML catalog loaded at startup.

## Limitations

- There is no server-side search or filtering; the list always shows the whole catalog.
- Selections live in memory and end with the session.
`,
	},
	{
		URI:         "hrl://docs/explore-page",
		Name:        "explore_page",
		Title:       "Explore page behavior",
		Description: "Selection, list scrolling and camera rules.",
		Content: `# Explore page

## Selection

- At most one project is selected per session.
- Selecting an id not in the catalog does nothing.
- Clicking a card or an overlay selects that project, even when it is already selected.

## List

- Cards appear in catalog order with status tone, year, tributary system, habitat type, area and a description excerpt.
- The selected card is raised and outlined.
- On selection the list scrolls the card into view using the nearest edge; a fully visible card does not move the list.

## Map

- Every project with valid geometry is drawn: points as circle markers, polygons as filled shapes, colored by status.
- Selecting a point centers it at the focus zoom; selecting a polygon fits its bounds with padding.
- A polygon whose points all coincide is centered like a point.
- Clearing the selection keeps the current camera.
`,
	},
	{
		URI:         "hrl://docs/catalog-format",
		Name:        "catalog_format",
		Title:       "Catalog format",
		Description: "Shape of the YAML project catalog.",
		Content: `# Catalog format

` + "```yaml" + `
projects:
  - id: butte-creek-floodplain
    name: Butte Creek Floodplain Reconnection
    status: Completed
    year: 2019
    tributary_system: Butte Creek
    habitat_type: Floodplain
    area_acres: 1250
    geometry:
      type: Point
      coordinates: [-121.5, 38.5]   # [longitude, latitude]
` + "```" + `

- Polygon coordinates are a list of rings; only the first (outer) ring is drawn.
- Status labels are matched case-insensitively; anything else is shown as "Other".
- A project with bad geometry is kept but not drawn.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
