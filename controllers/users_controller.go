package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/blogem/object-log/contenttypes"
	"github.com/blogem/object-log/models"
	"github.com/blogem/object-log/repositories"
	"github.com/blogem/object-log/services"
	"github.com/blogem/object-log/userctx"
	"github.com/blogem/object-log/views"
)

// UsersController handles user listing and per-user action pages
type UsersController struct {
	services *services.Services
	types    *contenttypes.Registry
	views    *views.Engine
	log      *logrus.Logger
}

// NewUsersController creates a new users controller
func NewUsersController(services *services.Services, types *contenttypes.Registry, views *views.Engine, log *logrus.Logger) *UsersController {
	return &UsersController{
		services: services,
		types:    types,
		views:    views,
		log:      log,
	}
}

// UsersData is the page data of the user list
type UsersData struct {
	Users      []*models.User
	UserTypeID int64
}

// UserData is the page data of a single user's actions
type UserData struct {
	User *models.User
}

// Index handles GET /users
func (c *UsersController) Index(w http.ResponseWriter, r *http.Request) {
	users, err := c.services.Users.ListUsers(r.Context())
	if err != nil {
		http.Error(w, "Failed to load users: "+err.Error(), http.StatusInternalServerError)
		return
	}

	userType, err := c.types.GetForModel(r.Context(), contenttypes.AppAuth, contenttypes.ModelUser)
	if err != nil {
		http.Error(w, "Failed to load user content type: "+err.Error(), http.StatusInternalServerError)
		return
	}

	renderTemplate(w, r, c.views, "users.html", models.PageData{
		Title:       "Users",
		CurrentPage: "users",
		Data:        UsersData{Users: users, UserTypeID: userType.ID},
	})
}

// Show handles GET /users/{id}
func (c *UsersController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := c.services.Users.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load user: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if viewer := userctx.GetUser(r.Context()); viewer != nil && viewer.ID != user.ID {
		objects := []services.Loggable{services.UserObject{User: user}}
		if _, err := c.services.Logs.Log(r.Context(), services.ActionUserViewedActions, viewer, objects, nil); err != nil {
			c.log.WithError(err).WithField("user", userctx.GetUserEmail(r.Context())).Warn("failed to log view")
		}
	}

	renderTemplate(w, r, c.views, "user.html", models.PageData{
		Title:       user.String(),
		CurrentPage: "users",
		Data:        UserData{User: user},
	})
}

// Me handles GET /me
func (c *UsersController) Me(w http.ResponseWriter, r *http.Request) {
	user := userctx.GetUser(r.Context())

	renderTemplate(w, r, c.views, "user.html", models.PageData{
		Title:       "My actions",
		CurrentPage: "me",
		Data:        UserData{User: user},
	})
}
