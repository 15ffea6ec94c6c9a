package contenttypes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blogem/object-log/models"
	"github.com/blogem/object-log/repositories"
	"github.com/blogem/object-log/repositories/mocks"
)

func TestRegistry_GetForIDCachesLookups(t *testing.T) {
	repo := new(mocks.MockContentTypeRepository)
	ct := &models.ContentType{ID: 4, AppLabel: "auth", Model: "user"}
	repo.On("GetByID", mock.Anything, int64(4)).Return(ct, nil).Once()

	reg := NewRegistry(repo, time.Minute)
	ctx := context.Background()

	first, err := reg.GetForID(ctx, 4)
	require.NoError(t, err)
	second, err := reg.GetForID(ctx, 4)
	require.NoError(t, err)

	assert.Same(t, ct, first)
	assert.Same(t, ct, second)
	repo.AssertExpectations(t)

	// The natural key is cached by the same lookup
	byModel, err := reg.GetForModel(ctx, "auth", "user")
	require.NoError(t, err)
	assert.Same(t, ct, byModel)
}

func TestRegistry_GetForIDNotFound(t *testing.T) {
	repo := new(mocks.MockContentTypeRepository)
	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, repositories.ErrNotFound)

	_, err := NewRegistry(repo, time.Minute).GetForID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "id 99")
}

func TestRegistry_GetForIDPropagatesErrors(t *testing.T) {
	repo := new(mocks.MockContentTypeRepository)
	boom := errors.New("database is locked")
	repo.On("GetByID", mock.Anything, int64(1)).Return(nil, boom)

	_, err := NewRegistry(repo, time.Minute).GetForID(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRegistry_GetForModelCreatesMissing(t *testing.T) {
	repo := new(mocks.MockContentTypeRepository)
	repo.On("GetByNaturalKey", mock.Anything, "object_log", "logaction").Return(nil, repositories.ErrNotFound).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.ContentType")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.ContentType).ID = 12 }).
		Return(nil).Once()

	reg := NewRegistry(repo, time.Minute)
	ct, err := reg.GetForModel(context.Background(), "object_log", "logaction")
	require.NoError(t, err)
	assert.Equal(t, int64(12), ct.ID)

	// Served from cache by id afterwards
	byID, err := reg.GetForID(context.Background(), 12)
	require.NoError(t, err)
	assert.Same(t, ct, byID)
	repo.AssertExpectations(t)
}

func TestRegistry_ModelClass(t *testing.T) {
	reg := NewRegistry(new(mocks.MockContentTypeRepository), time.Minute)
	RegisterBuiltins(reg)

	user, ok := reg.ModelClass(&models.ContentType{AppLabel: AppAuth, Model: ModelUser})
	require.True(t, ok)
	assert.True(t, user.IsLinkable())
	url, ok := user.URL("7")
	assert.True(t, ok)
	assert.Equal(t, "/users/7", url)

	action, ok := reg.ModelClass(&models.ContentType{AppLabel: AppObjectLog, Model: ModelLogAction})
	require.True(t, ok)
	assert.False(t, action.IsLinkable())
	_, ok = action.URL("7")
	assert.False(t, ok)

	_, ok = reg.ModelClass(&models.ContentType{AppLabel: "gone", Model: "model"})
	assert.False(t, ok)

	// Registering without a display defaults to plain text
	reg.Register("blog", "post", nil)
	post, ok := reg.ModelClass(&models.ContentType{AppLabel: "blog", Model: "post"})
	require.True(t, ok)
	assert.Equal(t, PlainDisplay{}, post.Display)
}

func TestModelClass_LinkableWithoutURL(t *testing.T) {
	class := ModelClass{AppLabel: "shop", Model: "order", Display: Linkable{}}

	assert.False(t, class.IsLinkable())
	_, ok := class.URL("1")
	assert.False(t, ok)
}

func TestRegistry_Sync(t *testing.T) {
	repo := new(mocks.MockContentTypeRepository)
	reg := NewRegistry(repo, time.Minute)
	reg.Register("auth", "user", Linkable{URL: func(pk string) string { return "/u/" + pk }})
	reg.Register("object_log", "logaction", PlainDisplay{})

	repo.On("GetByNaturalKey", mock.Anything, "auth", "user").Return(&models.ContentType{ID: 1, AppLabel: "auth", Model: "user"}, nil)
	repo.On("GetByNaturalKey", mock.Anything, "object_log", "logaction").Return(nil, repositories.ErrNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.ContentType")).Return(nil)

	require.NoError(t, reg.Sync(context.Background()))
	repo.AssertExpectations(t)

	classes := reg.Classes()
	require.Len(t, classes, 2)
	assert.Equal(t, "auth", classes[0].AppLabel)
	assert.Equal(t, "object_log", classes[1].AppLabel)
}

func TestRegistry_ClearCache(t *testing.T) {
	repo := new(mocks.MockContentTypeRepository)
	ct := &models.ContentType{ID: 4, AppLabel: "auth", Model: "user"}
	repo.On("GetByID", mock.Anything, int64(4)).Return(ct, nil).Twice()

	reg := NewRegistry(repo, time.Minute)
	_, err := reg.GetForID(context.Background(), 4)
	require.NoError(t, err)
	reg.ClearCache()
	_, err = reg.GetForID(context.Background(), 4)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
