package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rpggio/hrl-explorer/internal/domain/project"
	"github.com/rpggio/hrl-explorer/internal/repository"
)

const projectColumns = `
	id, name, tributary_system, habitat_type, target_species,
	implementing_entity, status, year, area_acres, assessment_type,
	description, geometry
`

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// ReplaceAll swaps the whole catalog in one transaction, preserving order.
func (r *ProjectRepository) ReplaceAll(ctx context.Context, projects []project.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range projects {
		proj := &projects[i]
		species, err := json.Marshal(nonNil(proj.TargetSpecies))
		if err != nil {
			return fmt.Errorf("failed to encode target species: %w", err)
		}
		geometry, err := encodeGeometry(proj.Geometry)
		if err != nil {
			return err
		}

		_, err = stmt.ExecContext(ctx,
			proj.ID,
			proj.Name,
			proj.TributarySystem,
			proj.HabitatType,
			string(species),
			proj.ImplementingEntity,
			proj.StatusText(),
			proj.Year,
			proj.AreaAcres,
			proj.AssessmentType,
			proj.Description,
			geometry,
		)
		if err != nil {
			return insertError(err, proj.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return proj, nil
}

// List returns every project in import order
func (r *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY seq ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var (
		proj     project.Project
		species  string
		status   string
		geometry sql.NullString
	)
	err := row.Scan(
		&proj.ID,
		&proj.Name,
		&proj.TributarySystem,
		&proj.HabitatType,
		&species,
		&proj.ImplementingEntity,
		&status,
		&proj.Year,
		&proj.AreaAcres,
		&proj.AssessmentType,
		&proj.Description,
		&geometry,
	)
	if err != nil {
		return nil, err
	}

	proj.Status, proj.StatusLabel = project.ParseStatusText(status)
	if species != "" {
		if err := json.Unmarshal([]byte(species), &proj.TargetSpecies); err != nil {
			return nil, fmt.Errorf("decoding target species for %q: %w", proj.ID, err)
		}
	}
	if len(proj.TargetSpecies) == 0 {
		proj.TargetSpecies = nil
	}
	if geometry.Valid {
		// Stored geometry that no longer decodes is treated as missing.
		proj.Geometry, _ = project.UnmarshalGeometry([]byte(geometry.String))
	}
	return &proj, nil
}

func encodeGeometry(g project.Geometry) (sql.NullString, error) {
	if g == nil {
		return sql.NullString{}, nil
	}
	data, err := project.MarshalGeometry(g)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode geometry: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
