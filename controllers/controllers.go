package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/blogem/object-log/authenticator"
	"github.com/blogem/object-log/contenttypes"
	"github.com/blogem/object-log/models"
	"github.com/blogem/object-log/services"
	"github.com/blogem/object-log/userctx"
	"github.com/blogem/object-log/views"
)

// renderTemplate renders a page with status OK
func renderTemplate(w http.ResponseWriter, r *http.Request, v *views.Engine, page string, data models.PageData) {
	renderTemplateWithStatus(w, r, v, http.StatusOK, page, data)
}

// renderTemplateWithStatus renders a page with the given status code.
// The logged-in user is filled in from the request context.
func renderTemplateWithStatus(w http.ResponseWriter, r *http.Request, v *views.Engine, statusCode int, page string, data models.PageData) {
	data.CurrentUser = userctx.GetUser(r.Context())
	if err := v.Render(w, r, statusCode, page, data); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
	}
}

// Controllers holds all controller instances
type Controllers struct {
	Auth      *AuthController
	Dashboard *DashboardController
	Users     *UsersController
}

// NewControllers creates and initializes all controller instances.
// auth may be nil when login is not configured.
func NewControllers(
	services *services.Services,
	types *contenttypes.Registry,
	views *views.Engine,
	auth authenticator.Provider,
	log *logrus.Logger,
) *Controllers {
	return &Controllers{
		Auth:      NewAuthController(auth, services, log),
		Dashboard: NewDashboardController(services, views),
		Users:     NewUsersController(services, types, views, log),
	}
}
