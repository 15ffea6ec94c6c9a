package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/blogem/object-log/models"
)

// LogActionRepository interface defines log action database operations
type LogActionRepository interface {
	GetByName(ctx context.Context, name string) (*models.LogAction, error)
	Upsert(ctx context.Context, action *models.LogAction) error
}

type logActionRepository struct {
	db *sql.DB
}

// NewLogActionRepository creates a new log action repository
func NewLogActionRepository(db *sql.DB) LogActionRepository {
	return &logActionRepository{db: db}
}

// GetByName retrieves an action by its unique name
func (r *logActionRepository) GetByName(ctx context.Context, name string) (*models.LogAction, error) {
	query, args, err := builder.Select("id", "name", "template").
		From("log_actions").
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build log action query: %w", err)
	}

	var action models.LogAction
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&action.ID, &action.Name, &action.Template)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("log action %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get log action: %w", err)
	}

	return &action, nil
}

// Upsert creates the action or replaces the template of an existing one
func (r *logActionRepository) Upsert(ctx context.Context, action *models.LogAction) error {
	query, args, err := builder.Insert("log_actions").
		Columns("name", "template").
		Values(action.Name, action.Template).
		Suffix("ON CONFLICT(name) DO UPDATE SET template = excluded.template RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build log action upsert: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&action.ID); err != nil {
		return fmt.Errorf("failed to upsert log action %q: %w", action.Name, err)
	}

	return nil
}
