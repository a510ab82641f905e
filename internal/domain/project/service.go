package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/rpggio/hrl-explorer/internal/repository"
)

// Service handles project catalog operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// ImportResult summarizes a catalog import.
type ImportResult struct {
	Imported         int      `json:"imported"`
	InvalidGeometry  []string `json:"invalid_geometry,omitempty"`
	GeneratedIDCount int      `json:"generated_ids,omitempty"`
}

// Import replaces the catalog with projects, keeping their order. Projects
// without an ID get a generated one. Blank names and duplicate IDs reject the
// whole import. Malformed geometry is reported but does not block it.
func (s *Service) Import(ctx context.Context, projects []Project) (*ImportResult, error) {
	result := &ImportResult{}
	seen := make(map[string]struct{}, len(projects))
	prepared := make([]Project, 0, len(projects))

	for i, proj := range projects {
		if strings.TrimSpace(proj.Name) == "" {
			return nil, fmt.Errorf("%w: project %d has no name", ErrInvalidInput, i)
		}
		if strings.TrimSpace(proj.ID) == "" {
			proj.ID = uuid.NewString()
			result.GeneratedIDCount++
		}
		if _, dup := seen[proj.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate project id %q", ErrInvalidInput, proj.ID)
		}
		seen[proj.ID] = struct{}{}
		if proj.AreaAcres < 0 {
			return nil, fmt.Errorf("%w: project %q has negative area", ErrInvalidInput, proj.ID)
		}

		if err := ValidateGeometry(proj.Geometry); err != nil {
			s.logger.Warn("project has invalid geometry", "project_id", proj.ID, "error", err)
			result.InvalidGeometry = append(result.InvalidGeometry, proj.ID)
		}
		prepared = append(prepared, proj)
	}

	if err := s.repo.ReplaceAll(ctx, prepared); err != nil {
		return nil, fmt.Errorf("replacing catalog: %w", err)
	}
	result.Imported = len(prepared)
	s.logger.Info("catalog imported", "projects", result.Imported, "invalid_geometry", len(result.InvalidGeometry))
	return result, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns every project in catalog order.
func (s *Service) List(ctx context.Context) ([]Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}
