package repositories

import (
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("record not found")

// Repositories struct holds all repository interfaces
type Repositories struct {
	Users        UserRepository
	ContentTypes ContentTypeRepository
	LogActions   LogActionRepository
	LogItems     LogItemRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(db),
		ContentTypes: NewContentTypeRepository(db),
		LogActions:   NewLogActionRepository(db),
		LogItems:     NewLogItemRepository(db),
	}
}

// builder is the statement builder shared by all sqlite repositories
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
