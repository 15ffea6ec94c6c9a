package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"gitea.com/go-chi/session"
	"github.com/sirupsen/logrus"

	"github.com/blogem/object-log/authenticator"
	"github.com/blogem/object-log/middleware"
	"github.com/blogem/object-log/services"
	"github.com/blogem/object-log/userctx"
)

// AuthController handles login and logout
type AuthController struct {
	auth     authenticator.Provider
	services *services.Services
	log      *logrus.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(auth authenticator.Provider, services *services.Services, log *logrus.Logger) *AuthController {
	return &AuthController{auth: auth, services: services, log: log}
}

// Login handles GET /login
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if ac.auth == nil {
		http.Error(w, "Login is not configured", http.StatusServiceUnavailable)
		return
	}

	// Generate random state
	state, err := generateRandomState()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Save the state in the session to validate in callback
	sess := session.GetSession(r)
	sess.Set("state", state)

	http.Redirect(w, r, ac.auth.GetAuthURL(state), http.StatusTemporaryRedirect)
}

// Callback handles GET /callback from the identity provider
func (ac *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	if ac.auth == nil {
		http.Error(w, "Login is not configured", http.StatusServiceUnavailable)
		return
	}

	sess := session.GetSession(r)

	// Verify state
	storedState, _ := sess.Get("state").(string)
	if storedState == "" {
		http.Error(w, "State not found in session", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != storedState {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	// Exchange the code for a token
	token, err := ac.auth.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		http.Error(w, "Failed to exchange authorization code for a token: "+err.Error(), http.StatusUnauthorized)
		return
	}

	claims, err := ac.auth.GetClaims(r.Context(), token)
	if err != nil {
		http.Error(w, "Failed to verify ID Token: "+err.Error(), http.StatusInternalServerError)
		return
	}

	user, err := ac.services.Users.FromClaims(r.Context(), services.Claims(claims))
	if err != nil {
		http.Error(w, "Failed to store user: "+err.Error(), http.StatusInternalServerError)
		return
	}

	sess.Set(middleware.SessionUserKey, user.ID)
	sess.Delete("state")

	if _, err := ac.services.Logs.Log(r.Context(), services.ActionUserLoggedIn, user, nil, nil); err != nil {
		ac.log.WithError(err).WithField("user", user.ID).Warn("failed to log login")
	}

	redirect := "/"
	if target, ok := sess.Get("redirect_after_login").(string); ok && target != "" {
		redirect = target
		sess.Delete("redirect_after_login")
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// Logout handles GET /logout
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if user := userctx.GetUser(r.Context()); user != nil {
		if _, err := ac.services.Logs.Log(r.Context(), services.ActionUserLoggedOut, user, nil, nil); err != nil {
			ac.log.WithError(err).WithField("user", userctx.GetUserEmail(r.Context())).Warn("failed to log logout")
		}
	}

	if sess := session.GetSession(r); sess != nil {
		sess.Delete(middleware.SessionUserKey)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
