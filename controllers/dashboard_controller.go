package controllers

import (
	"net/http"

	"github.com/blogem/object-log/models"
	"github.com/blogem/object-log/services"
	"github.com/blogem/object-log/views"
)

// recentLimit is the number of log items shown on the dashboard
const recentLimit = 20

// DashboardController handles dashboard-related requests
type DashboardController struct {
	services *services.Services
	views    *views.Engine
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(services *services.Services, views *views.Engine) *DashboardController {
	return &DashboardController{
		services: services,
		views:    views,
	}
}

// DashboardData is the page data of the dashboard
type DashboardData struct {
	Recent []*models.LogItem
}

// Index handles GET /
func (c *DashboardController) Index(w http.ResponseWriter, r *http.Request) {
	recent, err := c.services.Logs.ListRecent(r.Context(), recentLimit)
	if err != nil {
		http.Error(w, "Failed to load recent activity: "+err.Error(), http.StatusInternalServerError)
		return
	}
	c.views.BindItems(r.Context(), recent)

	renderTemplate(w, r, c.views, "dashboard.html", models.PageData{
		Title:       "Object Log",
		CurrentPage: "dashboard",
		Data:        DashboardData{Recent: recent},
	})
}
