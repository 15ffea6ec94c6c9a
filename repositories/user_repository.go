package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/blogem/object-log/models"
)

// UserRepository interface defines user database operations
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetBySubject(ctx context.Context, subject string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]*models.User, error)
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

var userColumns = []string{"id", "subject", "email", "name", "date_joined"}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetBySubject retrieves a user by the identity provider subject
func (r *userRepository) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"subject": subject})
}

func (r *userRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	query, args, err := builder.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	var user models.User
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Subject,
		&user.Email,
		&user.Name,
		&user.DateJoined,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %v: %w", where, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Upsert inserts the user or refreshes email and name of the existing row with the same subject
func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	query, args, err := builder.Insert("users").
		Columns("subject", "email", "name").
		Values(user.Subject, user.Email, user.Name).
		Suffix("ON CONFLICT(subject) DO UPDATE SET email = excluded.email, name = excluded.name").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	stored, err := r.GetBySubject(ctx, user.Subject)
	if err != nil {
		return err
	}
	*user = *stored

	return nil
}

// List retrieves all users ordered by name
func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	query, args, err := builder.Select(userColumns...).From("users").OrderBy("name ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Subject, &user.Email, &user.Name, &user.DateJoined); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
