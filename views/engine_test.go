package views

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/object-log/contenttypes"
	"github.com/blogem/object-log/models"
	"github.com/blogem/object-log/templatetags"
)

type fakeTypes struct {
	userType *models.ContentType
}

func (f *fakeTypes) GetForID(ctx context.Context, id int64) (*models.ContentType, error) {
	if id != f.userType.ID {
		return nil, fmt.Errorf("%w: id %d", contenttypes.ErrNotFound, id)
	}
	return f.userType, nil
}

func (f *fakeTypes) ModelClass(ct *models.ContentType) (contenttypes.ModelClass, bool) {
	return contenttypes.ModelClass{
		AppLabel: ct.AppLabel,
		Model:    ct.Model,
		Display:  contenttypes.Linkable{URL: func(pk string) string { return "/users/" + pk }},
	}, true
}

type fakeLogs struct {
	items []*models.LogItem
}

func (f *fakeLogs) ListForUser(ctx context.Context, userID int64, desc bool) ([]*models.LogItem, error) {
	return f.items, nil
}

func newTestEngine(t *testing.T, items []*models.LogItem) *Engine {
	types := &fakeTypes{userType: &models.ContentType{ID: 7, AppLabel: "auth", Model: "user"}}
	lib := templatetags.NewLibrary(types, &fakeLogs{items: items}, templatetags.Options{UserLogsDesc: true})
	engine, err := NewEngine(lib)
	require.NoError(t, err)
	return engine
}

func testItem(user *models.User) *models.LogItem {
	return &models.LogItem{
		ID:        1,
		Action:    &models.LogAction{ID: 1, Name: "greeted", Template: `{{permalink .log_item.User}} said {{.log_item.Data.word}}`},
		Timestamp: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		User:      user,
		Data:      map[string]any{"word": "hello"},
	}
}

func TestRender_DashboardRecentItems(t *testing.T) {
	alice := &models.User{ID: 3, Name: "Alice"}
	recent := []*models.LogItem{testItem(alice)}
	engine := newTestEngine(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	engine.BindItems(r.Context(), recent)

	err := engine.Render(w, r, http.StatusOK, "dashboard.html", models.PageData{
		Title:       "Dashboard",
		CurrentPage: "dashboard",
		Data:        struct{ Recent []*models.LogItem }{Recent: recent},
	})
	require.NoError(t, err)

	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, `<a href="/users/3">Alice</a> said hello`)
	assert.Contains(t, body, "2024-03-01 09:30")
	assert.Contains(t, body, `href="/login"`)
}

func TestRender_DashboardOwnActions(t *testing.T) {
	alice := &models.User{ID: 3, Name: "Alice"}
	engine := newTestEngine(t, []*models.LogItem{testItem(alice)})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	err := engine.Render(w, r, http.StatusOK, "dashboard.html", models.PageData{
		Title:       "Dashboard",
		CurrentUser: alice,
		Data:        struct{ Recent []*models.LogItem }{},
	})
	require.NoError(t, err)

	body := w.Body.String()
	assert.Contains(t, body, "Your actions")
	assert.Contains(t, body, "said hello")
	assert.Contains(t, body, "No actions recorded.")
	assert.Contains(t, body, `href="/logout"`)
}

func TestRender_UsersPageLinksThroughContentType(t *testing.T) {
	engine := newTestEngine(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()

	err := engine.Render(w, r, http.StatusOK, "users.html", models.PageData{
		Title: "Users",
		Data: struct {
			Users      []*models.User
			UserTypeID int64
		}{
			Users:      []*models.User{{ID: 5, Email: "bob@example.com"}},
			UserTypeID: 7,
		},
	})
	require.NoError(t, err)
	assert.Contains(t, w.Body.String(), `<a href="/users/5">bob@example.com</a>`)
}

func TestRender_HelperErrorReturnsError(t *testing.T) {
	engine := newTestEngine(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()

	err := engine.Render(w, r, http.StatusOK, "users.html", models.PageData{
		Data: struct {
			Users      []*models.User
			UserTypeID int64
		}{
			Users:      []*models.User{{ID: 5}},
			UserTypeID: 99,
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, contenttypes.ErrNotFound))
	assert.Empty(t, w.Body.String())
}

func TestRender_UnboundItemFails(t *testing.T) {
	engine := newTestEngine(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	err := engine.Render(w, r, http.StatusOK, "dashboard.html", models.PageData{
		Data: struct{ Recent []*models.LogItem }{Recent: []*models.LogItem{testItem(nil)}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNoRenderer))
}

func TestRender_UnknownPage(t *testing.T) {
	engine := newTestEngine(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	err := engine.Render(httptest.NewRecorder(), r, http.StatusOK, "missing.html", models.PageData{})
	assert.Error(t, err)
}

func TestParse_PagesSeeHelpers(t *testing.T) {
	engine := newTestEngine(t, nil)
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	for _, page := range []string{"dashboard.html", "users.html", "user.html"} {
		tmpl, err := engine.parse(r.Context(), page)
		require.NoError(t, err, page)
		assert.NotNil(t, tmpl.Lookup(layoutTemplate), page)
		assert.NotNil(t, tmpl.Lookup(templatetags.UserActionsTemplate), page)
	}
}
