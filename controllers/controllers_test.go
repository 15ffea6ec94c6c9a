package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/object-log/authenticator"
	"github.com/blogem/object-log/contenttypes"
	"github.com/blogem/object-log/database"
	"github.com/blogem/object-log/models"
	"github.com/blogem/object-log/repositories"
	"github.com/blogem/object-log/services"
	"github.com/blogem/object-log/templatetags"
	"github.com/blogem/object-log/views"
)

// fakeProvider logs in whoever its claims describe
type fakeProvider struct {
	claims      authenticator.Claims
	exchangeErr error
}

func (p *fakeProvider) GetAuthURL(state string) string {
	return "https://idp.example.com/authorize?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) ExchangeCode(ctx context.Context, code string) (*authenticator.Token, error) {
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return &authenticator.Token{AccessToken: "access-" + code, IDToken: "id-" + code}, nil
}

func (p *fakeProvider) GetClaims(ctx context.Context, token *authenticator.Token) (authenticator.Claims, error) {
	return p.claims, nil
}

type testApp struct {
	server   *httptest.Server
	client   *http.Client
	repos    *repositories.Repositories
	services *services.Services
}

func setupTestApp(t *testing.T, provider *fakeProvider) *testApp {
	ctx := context.Background()
	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := database.InitializeDatabase(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos := repositories.NewRepositories(db)
	types := contenttypes.NewRegistry(repos.ContentTypes, time.Minute)
	contenttypes.RegisterBuiltins(types)
	require.NoError(t, types.Sync(ctx))

	srvs := services.NewServices(repos, types, log)
	require.NoError(t, srvs.Logs.RegisterDefaultActions(ctx))

	lib := templatetags.NewLibrary(types, srvs.Logs, templatetags.Options{UserLogsDesc: true})

	var auth authenticator.Provider
	if provider != nil {
		auth = provider
	}
	engine, err := views.NewEngine(lib)
	require.NoError(t, err)
	ctrl := NewControllers(srvs, types, engine, auth, log)

	router, err := NewRouter(ctrl, srvs.Users, RouterOptions{}, log)
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testApp{server: server, client: client, repos: repos, services: srvs}
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	resp, err := a.client.Get(a.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

// login runs the login flow against the fake provider
func (a *testApp) login(t *testing.T) {
	resp, _ := a.get(t, "/login")
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	resp, _ = a.get(t, "/callback?code=abc&state="+url.QueryEscape(state))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func aliceProvider() *fakeProvider {
	return &fakeProvider{claims: authenticator.Claims{
		"sub":   "oidc|alice",
		"email": "alice@example.com",
		"name":  "Alice",
	}}
}

func TestHealth(t *testing.T) {
	app := setupTestApp(t, nil)

	resp, body := app.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status": "healthy", "service": "object-log"}`, body)
}

func TestMetricsEndpoint(t *testing.T) {
	app := setupTestApp(t, nil)

	resp, _ := app.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDashboard_Anonymous(t *testing.T) {
	app := setupTestApp(t, nil)

	resp, body := app.get(t, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Recent activity")
	assert.Contains(t, body, "No actions recorded.")
	assert.Contains(t, body, `href="/login"`)
	assert.NotContains(t, body, "Your actions")
}

func TestLogin_NotConfigured(t *testing.T) {
	app := setupTestApp(t, nil)

	resp, _ := app.get(t, "/login")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, _ = app.get(t, "/callback?code=abc&state=x")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestCallback_RejectsUnknownState(t *testing.T) {
	app := setupTestApp(t, aliceProvider())

	resp, _ := app.get(t, "/callback?code=abc&state=x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = app.get(t, "/login")
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)

	resp, _ = app.get(t, "/callback?code=abc&state=forged")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCallback_ExchangeFailure(t *testing.T) {
	provider := aliceProvider()
	provider.exchangeErr = errors.New("bad code")
	app := setupTestApp(t, provider)

	resp, _ := app.get(t, "/login")
	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)

	resp, _ = app.get(t, "/callback?code=abc&state="+url.QueryEscape(location.Query().Get("state")))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMe_RequiresAuth(t *testing.T) {
	app := setupTestApp(t, aliceProvider())

	resp, _ := app.get(t, "/me")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLoginFlow_LogsActions(t *testing.T) {
	ctx := context.Background()
	app := setupTestApp(t, aliceProvider())

	app.login(t)

	alice, err := app.repos.Users.GetBySubject(ctx, "oidc|alice")
	require.NoError(t, err)
	aliceLink := fmt.Sprintf(`<a href="/users/%d">Alice</a>`, alice.ID)

	resp, body := app.get(t, "/me")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, aliceLink+" logged in")

	// Looking at someone else's actions is logged too
	bob := &models.User{Subject: "oidc|bob", Name: "Bob"}
	require.NoError(t, app.repos.Users.Upsert(ctx, bob))
	bobLink := fmt.Sprintf(`<a href="/users/%d">Bob</a>`, bob.ID)

	resp, body = app.get(t, fmt.Sprintf("/users/%d", bob.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Actions of "+bobLink)
	assert.Contains(t, body, "No actions recorded.")

	resp, body = app.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Your actions")
	assert.Contains(t, body, aliceLink+" viewed the actions of "+bobLink)

	resp, _ = app.get(t, "/logout")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	items, err := app.services.Logs.ListForUser(ctx, alice.ID, true)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, services.ActionUserLoggedOut, items[0].Action.Name)
	assert.Equal(t, services.ActionUserViewedActions, items[1].Action.Name)
	assert.Equal(t, services.ActionUserLoggedIn, items[2].Action.Name)

	resp, _ = app.get(t, "/me")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestLoginFlow_RedirectsToRequestedPage(t *testing.T) {
	app := setupTestApp(t, aliceProvider())

	resp, _ := app.get(t, "/me")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = app.get(t, "/login")
	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)

	resp, _ = app.get(t, "/callback?code=abc&state="+url.QueryEscape(location.Query().Get("state")))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/me", resp.Header.Get("Location"))
}

func TestUsers_Index(t *testing.T) {
	ctx := context.Background()
	app := setupTestApp(t, nil)

	carol := &models.User{Subject: "oidc|carol", Email: "carol@example.com"}
	require.NoError(t, app.repos.Users.Upsert(ctx, carol))

	resp, body := app.get(t, "/users")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, fmt.Sprintf(`<a href="/users/%d">carol@example.com</a>`, carol.ID))
}

func TestUsers_Show(t *testing.T) {
	app := setupTestApp(t, nil)

	resp, _ := app.get(t, "/users/999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = app.get(t, "/users/abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = app.get(t, "/users/0")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
