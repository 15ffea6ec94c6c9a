package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/blogem/object-log/contenttypes"
	"github.com/blogem/object-log/models"
	"github.com/blogem/object-log/repositories"
)

// Built-in log actions
const (
	ActionUserLoggedIn      = "user_logged_in"
	ActionUserLoggedOut     = "user_logged_out"
	ActionUserViewedActions = "user_viewed_actions"
)

// DefaultActions are registered at startup, keyed by name
var DefaultActions = map[string]string{
	ActionUserLoggedIn:      `{{permalink .log_item.User}} logged in`,
	ActionUserLoggedOut:     `{{permalink .log_item.User}} logged out`,
	ActionUserViewedActions: `{{permalink .log_item.User}} viewed the actions of {{with .log_item.Object1}}{{contenttypelink .ContentTypeID .ObjectID}}{{.Repr}}{{endcontenttypelink}}{{end}}`,
}

// Loggable is an object a log item can point at
type Loggable interface {
	ContentTypeKey() (appLabel, model string)
	LogPK() string
	String() string
}

// LogService interface defines audit log business logic
type LogService interface {
	RegisterAction(ctx context.Context, name, tmpl string) (*models.LogAction, error)
	RegisterDefaultActions(ctx context.Context) error
	Log(ctx context.Context, action string, user *models.User, objects []Loggable, data map[string]any) (*models.LogItem, error)
	ListForUser(ctx context.Context, userID int64, desc bool) ([]*models.LogItem, error)
	ListRecent(ctx context.Context, limit uint64) ([]*models.LogItem, error)
}

type logService struct {
	actionRepo repositories.LogActionRepository
	itemRepo   repositories.LogItemRepository
	types      *contenttypes.Registry
	log        *logrus.Logger
}

// NewLogService creates a new log service
func NewLogService(
	actionRepo repositories.LogActionRepository,
	itemRepo repositories.LogItemRepository,
	types *contenttypes.Registry,
	log *logrus.Logger,
) LogService {
	return &logService{
		actionRepo: actionRepo,
		itemRepo:   itemRepo,
		types:      types,
		log:        log,
	}
}

// RegisterAction creates the action or replaces its template
func (s *logService) RegisterAction(ctx context.Context, name, tmpl string) (*models.LogAction, error) {
	if name == "" {
		return nil, errors.New("action name is required")
	}
	action := &models.LogAction{Name: name, Template: tmpl}
	if err := s.actionRepo.Upsert(ctx, action); err != nil {
		return nil, err
	}
	return action, nil
}

// RegisterDefaultActions registers the built-in actions
func (s *logService) RegisterDefaultActions(ctx context.Context) error {
	for name, tmpl := range DefaultActions {
		if _, err := s.RegisterAction(ctx, name, tmpl); err != nil {
			return fmt.Errorf("failed to register action %s: %w", name, err)
		}
	}
	return nil
}

// Log records an action by user on up to three objects
func (s *logService) Log(ctx context.Context, action string, user *models.User, objects []Loggable, data map[string]any) (*models.LogItem, error) {
	if len(objects) > models.MaxObjectRefs {
		return nil, fmt.Errorf("a log item references at most %d objects, got %d", models.MaxObjectRefs, len(objects))
	}

	logAction, err := s.actionRepo.GetByName(ctx, action)
	if err != nil {
		return nil, fmt.Errorf("unknown log action %q: %w", action, err)
	}

	item := &models.LogItem{Action: logAction, User: user, Data: data}
	for i, obj := range objects {
		appLabel, model := obj.ContentTypeKey()
		ct, err := s.types.GetForModel(ctx, appLabel, model)
		if err != nil {
			return nil, err
		}
		item.Objects[i] = &models.ObjectRef{ContentTypeID: ct.ID, ObjectID: obj.LogPK(), Repr: obj.String()}
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"action":   action,
		"log_item": item.ID,
	}).Debug("log item recorded")

	return item, nil
}

// ListForUser retrieves a user's log items by timestamp
func (s *logService) ListForUser(ctx context.Context, userID int64, desc bool) ([]*models.LogItem, error) {
	return s.itemRepo.ListForUser(ctx, userID, desc)
}

// ListRecent retrieves the newest log items
func (s *logService) ListRecent(ctx context.Context, limit uint64) ([]*models.LogItem, error) {
	if limit == 0 {
		limit = 50
	}
	return s.itemRepo.ListRecent(ctx, limit)
}

// UserObject adapts a user to Loggable
type UserObject struct {
	*models.User
}

// ContentTypeKey returns the natural key of the user model
func (u UserObject) ContentTypeKey() (string, string) {
	return contenttypes.AppAuth, contenttypes.ModelUser
}

// LogPK returns the user's primary key
func (u UserObject) LogPK() string {
	return strconv.FormatInt(u.ID, 10)
}
