package project

import "context"

// Repository provides persistence for the project catalog.
type Repository interface {
	ReplaceAll(ctx context.Context, projects []Project) error
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]Project, error)
}
