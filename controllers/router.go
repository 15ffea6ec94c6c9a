package controllers

import (
	"fmt"
	"net/http"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/blogem/object-log/metrics"
	"github.com/blogem/object-log/middleware"
	"github.com/blogem/object-log/services"
)

// RouterOptions configures NewRouter
type RouterOptions struct {
	// UseHTTPS marks the session cookie secure
	UseHTTPS bool
}

// NewRouter configures all routes
func NewRouter(ctrl *Controllers, users services.UserService, opts RouterOptions, log *logrus.Logger) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second)) // 60 second timeout for OIDC callbacks
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.Metrics)

	// Session middleware
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "object_log_session",
		Secure:         opts.UseHTTPS,
		Gclifetime:     3600, // Session lifetime in seconds
		Maxlifetime:    3600,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)
	r.Use(middleware.LoadUser(users, log))

	// PUBLIC ROUTES (no authentication required)
	r.Get("/", ctrl.Dashboard.Index)
	r.Get("/users", ctrl.Users.Index)
	r.Get("/users/{id}", ctrl.Users.Show)
	r.Get("/login", ctrl.Auth.Login)
	r.Get("/callback", ctrl.Auth.Callback)
	r.Get("/logout", ctrl.Auth.Logout)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "object-log"}`)
	})
	r.Handle("/metrics", metrics.Handler())

	// PROTECTED ROUTES (authentication required)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", ctrl.Users.Me)
	})

	return r, nil
}
