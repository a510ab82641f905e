package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/hrl-explorer/internal/domain/project"
	"github.com/rpggio/hrl-explorer/internal/geo"
	"github.com/rpggio/hrl-explorer/internal/repository"
	"github.com/stretchr/testify/require"
)

func sampleProjects() []project.Project {
	return []project.Project{
		{
			ID:                 "p1",
			Name:               "Butte Creek Floodplain",
			TributarySystem:    "Butte Creek",
			HabitatType:        "Floodplain",
			TargetSpecies:      []string{"Spring-run Chinook", "Steelhead"},
			ImplementingEntity: "Butte County RCD",
			Status:             project.StatusCompleted,
			Year:               2019,
			AreaAcres:          1250,
			AssessmentType:     "Habitat Restoration",
			Description:        "Levee setback",
			Geometry:           project.Point{Lon: -121.5, Lat: 38.5},
		},
		{
			ID:       "p2",
			Name:     "Yolo Bypass Wetlands",
			Status:   project.StatusInProgress,
			Geometry: project.Polygon{Rings: [][]geo.Coord{{{Lon: -122, Lat: 38}, {Lon: -121, Lat: 38}, {Lon: -121, Lat: 39}}}},
		},
		{
			ID:     "p3",
			Name:   "Unmapped",
			Status: project.StatusUnknown,
		},
	}
}

func TestProjectRepository_ReplaceAllAndList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	projects := sampleProjects()
	require.NoError(t, repo.ReplaceAll(ctx, projects))

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, projects, listed)
}

func TestProjectRepository_ReplaceAllReplaces(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, sampleProjects()))

	// Import again in a different order with one project removed
	next := []project.Project{sampleProjects()[2], sampleProjects()[0]}
	require.NoError(t, repo.ReplaceAll(ctx, next))

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "p3", listed[0].ID)
	require.Equal(t, "p1", listed[1].ID)

	_, err = repo.Get(ctx, "p2")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_ReplaceAllIsAtomic(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, sampleProjects()))

	dup := []project.Project{{ID: "x", Name: "X"}, {ID: "x", Name: "Y"}}
	err := repo.ReplaceAll(ctx, dup)
	require.ErrorIs(t, err, repository.ErrDuplicate)

	// The previous catalog is untouched
	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
}

func TestProjectRepository_Get(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, sampleProjects()))

	retrieved, err := repo.Get(ctx, "p2")
	require.NoError(t, err)
	require.Equal(t, "Yolo Bypass Wetlands", retrieved.Name)
	require.Equal(t, project.StatusInProgress, retrieved.Status)
	poly, ok := retrieved.Geometry.(project.Polygon)
	require.True(t, ok)
	require.Len(t, poly.Outer(), 3)

	retrieved, err = repo.Get(ctx, "p3")
	require.NoError(t, err)
	require.Nil(t, retrieved.Geometry)
	require.Nil(t, retrieved.TargetSpecies)

	_, err = repo.Get(ctx, "nonexistent")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_CorruptGeometryIsMissing(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO projects (id, name, geometry) VALUES (?, ?, ?)`,
		"bad", "Bad Geometry", `{"type":"Circle","coordinates":[0,0]}`)
	require.NoError(t, err)

	retrieved, err := repo.Get(ctx, "bad")
	require.NoError(t, err)
	require.Nil(t, retrieved.Geometry)
}

func TestProjectRepository_ListEmpty(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	listed, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestProjectRepository_KeepsStatusText(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	held := project.Project{ID: "held", Name: "Held", Status: project.StatusUnknown, StatusLabel: "On Hold"}
	require.NoError(t, repo.ReplaceAll(ctx, []project.Project{held}))

	var raw string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT status FROM projects WHERE id = ?`, "held").Scan(&raw))
	require.Equal(t, "On Hold", raw)

	retrieved, err := repo.Get(ctx, "held")
	require.NoError(t, err)
	require.Equal(t, project.StatusUnknown, retrieved.Status)
	require.Equal(t, "On Hold", retrieved.StatusLabel)
}
