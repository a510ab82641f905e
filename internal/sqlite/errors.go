package sqlite

import (
	"fmt"
	"strings"

	"github.com/rpggio/hrl-explorer/internal/repository"
)

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// insertError maps a failed project insert to a repository error.
func insertError(err error, id string) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: project %q", repository.ErrDuplicate, id)
	}
	return fmt.Errorf("failed to insert project %q: %w", id, err)
}
