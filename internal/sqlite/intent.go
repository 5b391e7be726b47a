package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rpggio/pyeditor/internal/domain/session"
	"github.com/rpggio/pyeditor/internal/domain/workspace"
	"github.com/rpggio/pyeditor/internal/repository"
)

// IntentRepository implements repository.IntentRepository for SQLite
type IntentRepository struct {
	db *DB
}

// NewIntentRepository creates a new IntentRepository
func NewIntentRepository(db *DB) *IntentRepository {
	return &IntentRepository{db: db}
}

// Push queues a navigation intent for the next view that mounts.
func (r *IntentRepository) Push(ctx context.Context, intent session.Intent) error {
	if intent.IsZero() {
		return fmt.Errorf("%w: empty intent", repository.ErrInvalidInput)
	}

	var example sql.NullString
	if intent.ExampleFile != nil {
		data, err := json.Marshal(intent.ExampleFile)
		if err != nil {
			return fmt.Errorf("failed to encode example file: %w", err)
		}
		example = sql.NullString{String: string(data), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO navigation_intents (open_project_id, open_file_id, example_file, new_project_created)
		VALUES (?, ?, ?, ?)
	`, nullString(intent.OpenProjectID), nullString(intent.OpenFileID), example, boolToInt(intent.NewProjectCreated))
	if err != nil {
		return fmt.Errorf("failed to push intent: %w", err)
	}
	return nil
}

// Consume returns the newest intent and deletes all queued intents.
// An empty queue yields the zero Intent.
func (r *IntentRepository) Consume(ctx context.Context) (session.Intent, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return session.Intent{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		intent         session.Intent
		projectID      sql.NullString
		fileID         sql.NullString
		example        sql.NullString
		projectCreated int
	)
	err = tx.QueryRowContext(ctx, `
		SELECT open_project_id, open_file_id, example_file, new_project_created
		FROM navigation_intents
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&projectID, &fileID, &example, &projectCreated)
	if err = notFound(err); err == repository.ErrNotFound {
		return session.Intent{}, nil
	}
	if err != nil {
		return session.Intent{}, fmt.Errorf("failed to read intent: %w", err)
	}

	intent.OpenProjectID = projectID.String
	intent.OpenFileID = fileID.String
	intent.NewProjectCreated = projectCreated == 1
	if example.Valid {
		var f workspace.FileRecord
		if err := json.Unmarshal([]byte(example.String), &f); err != nil {
			return session.Intent{}, fmt.Errorf("failed to decode example file: %w", err)
		}
		intent.ExampleFile = &f
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM navigation_intents`); err != nil {
		return session.Intent{}, fmt.Errorf("failed to clear intents: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return session.Intent{}, fmt.Errorf("failed to commit: %w", err)
	}
	return intent, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
