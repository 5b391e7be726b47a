package sqlite

import (
	"database/sql"
	"errors"

	"github.com/rpggio/pyeditor/internal/repository"
)

// notFound maps a missing row to repository.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}
