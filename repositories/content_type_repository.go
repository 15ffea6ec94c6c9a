package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/blogem/object-log/models"
)

// ContentTypeRepository interface defines content type database operations
type ContentTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*models.ContentType, error)
	GetByNaturalKey(ctx context.Context, appLabel, model string) (*models.ContentType, error)
	Create(ctx context.Context, ct *models.ContentType) error
	List(ctx context.Context) ([]*models.ContentType, error)
}

type contentTypeRepository struct {
	db *sql.DB
}

// NewContentTypeRepository creates a new content type repository
func NewContentTypeRepository(db *sql.DB) ContentTypeRepository {
	return &contentTypeRepository{db: db}
}

func (r *contentTypeRepository) GetByID(ctx context.Context, id int64) (*models.ContentType, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *contentTypeRepository) GetByNaturalKey(ctx context.Context, appLabel, model string) (*models.ContentType, error) {
	return r.getOne(ctx, squirrel.Eq{"app_label": appLabel, "model": model})
}

func (r *contentTypeRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.ContentType, error) {
	query, args, err := builder.Select("id", "app_label", "model").From("content_types").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build content type query: %w", err)
	}

	var ct models.ContentType
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&ct.ID, &ct.AppLabel, &ct.Model)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content type %v: %w", where, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content type: %w", err)
	}

	return &ct, nil
}

// Create inserts a content type and sets its ID
func (r *contentTypeRepository) Create(ctx context.Context, ct *models.ContentType) error {
	query, args, err := builder.Insert("content_types").
		Columns("app_label", "model").
		Values(ct.AppLabel, ct.Model).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build content type insert: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&ct.ID); err != nil {
		return fmt.Errorf("failed to create content type %s: %w", ct, err)
	}

	return nil
}

func (r *contentTypeRepository) List(ctx context.Context) ([]*models.ContentType, error) {
	query, args, err := builder.Select("id", "app_label", "model").
		From("content_types").
		OrderBy("app_label ASC", "model ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build content type query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query content types: %w", err)
	}
	defer rows.Close()

	var cts []*models.ContentType
	for rows.Next() {
		var ct models.ContentType
		if err := rows.Scan(&ct.ID, &ct.AppLabel, &ct.Model); err != nil {
			return nil, fmt.Errorf("failed to scan content type: %w", err)
		}
		cts = append(cts, &ct)
	}

	return cts, rows.Err()
}
