// Package explore implements the paired project list and map views and the
// single selection they share.
//
// A Controller owns the selected project id and notifies listeners
// synchronously. A ListView and a Viewport each subscribe to the controller
// and never reference each other. A Session bundles one of each and
// serializes input so both views finish reacting before the next event.
package explore

import (
	"fmt"

	"github.com/rpggio/hrl-explorer/internal/domain/project"
)

// Store is an immutable, ordered snapshot of the project catalog.
type Store struct {
	projects []project.Project
	index    map[string]int
}

// NewStore builds a snapshot. Project IDs must be unique.
func NewStore(projects []project.Project) (*Store, error) {
	s := &Store{
		projects: append([]project.Project(nil), projects...),
		index:    make(map[string]int, len(projects)),
	}
	for i, p := range s.projects {
		if _, dup := s.index[p.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProject, p.ID)
		}
		s.index[p.ID] = i
	}
	return s, nil
}

// EmptyStore returns a snapshot with no projects.
func EmptyStore() *Store {
	return &Store{index: map[string]int{}}
}

// Len returns the number of projects.
func (s *Store) Len() int {
	return len(s.projects)
}

// All returns the projects in insertion order. The slice is a copy.
func (s *Store) All() []project.Project {
	return append([]project.Project(nil), s.projects...)
}

// Get looks up a project by id.
func (s *Store) Get(id string) (project.Project, bool) {
	i, ok := s.index[id]
	if !ok {
		return project.Project{}, false
	}
	return s.projects[i], true
}

// Contains reports whether id is in the snapshot.
func (s *Store) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// IndexOf returns the position of id in iteration order, or -1.
func (s *Store) IndexOf(id string) int {
	i, ok := s.index[id]
	if !ok {
		return -1
	}
	return i
}
