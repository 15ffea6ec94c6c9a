// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/blogem/object-log/models"
)

// MockUserRepository mocks repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	args := m.Called(ctx, subject)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*models.User)
	return users, args.Error(1)
}

// MockContentTypeRepository mocks repositories.ContentTypeRepository
type MockContentTypeRepository struct {
	mock.Mock
}

func (m *MockContentTypeRepository) GetByID(ctx context.Context, id int64) (*models.ContentType, error) {
	args := m.Called(ctx, id)
	ct, _ := args.Get(0).(*models.ContentType)
	return ct, args.Error(1)
}

func (m *MockContentTypeRepository) GetByNaturalKey(ctx context.Context, appLabel, model string) (*models.ContentType, error) {
	args := m.Called(ctx, appLabel, model)
	ct, _ := args.Get(0).(*models.ContentType)
	return ct, args.Error(1)
}

func (m *MockContentTypeRepository) Create(ctx context.Context, ct *models.ContentType) error {
	return m.Called(ctx, ct).Error(0)
}

func (m *MockContentTypeRepository) List(ctx context.Context) ([]*models.ContentType, error) {
	args := m.Called(ctx)
	cts, _ := args.Get(0).([]*models.ContentType)
	return cts, args.Error(1)
}

// MockLogActionRepository mocks repositories.LogActionRepository
type MockLogActionRepository struct {
	mock.Mock
}

func (m *MockLogActionRepository) GetByName(ctx context.Context, name string) (*models.LogAction, error) {
	args := m.Called(ctx, name)
	action, _ := args.Get(0).(*models.LogAction)
	return action, args.Error(1)
}

func (m *MockLogActionRepository) Upsert(ctx context.Context, action *models.LogAction) error {
	return m.Called(ctx, action).Error(0)
}

// MockLogItemRepository mocks repositories.LogItemRepository
type MockLogItemRepository struct {
	mock.Mock
}

func (m *MockLogItemRepository) Create(ctx context.Context, item *models.LogItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockLogItemRepository) ListForUser(ctx context.Context, userID int64, desc bool) ([]*models.LogItem, error) {
	args := m.Called(ctx, userID, desc)
	items, _ := args.Get(0).([]*models.LogItem)
	return items, args.Error(1)
}

func (m *MockLogItemRepository) ListRecent(ctx context.Context, limit uint64) ([]*models.LogItem, error) {
	args := m.Called(ctx, limit)
	items, _ := args.Get(0).([]*models.LogItem)
	return items, args.Error(1)
}
