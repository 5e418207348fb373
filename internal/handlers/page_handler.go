package handlers

import (
	"errors"
	"net/http"

	"member-portal/internal/middleware"
	"member-portal/internal/repository"
	"member-portal/internal/session"

	"github.com/gin-gonic/gin"
)

// FeedPath is where the dashboard's websocket feed is served
const FeedPath = "/dashboard/events"

// PageHandler serves the mostly static pages
type PageHandler struct {
	users repository.UserRepository
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(users repository.UserRepository) *PageHandler {
	return &PageHandler{users: users}
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login")
}

// Home handles GET /home
func (h *PageHandler) Home(c *gin.Context) {
	render(c, http.StatusOK, "home.html", "Home", nil)
}

// About handles GET /about
func (h *PageHandler) About(c *gin.Context) {
	render(c, http.StatusOK, "about.html", "About", nil)
}

// Dashboard handles GET /dashboard. RequireLogin runs first.
func (h *PageHandler) Dashboard(c *gin.Context) {
	s := middleware.GetSession(c)

	user, err := h.users.FindByID(c.Request.Context(), s.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// the session outlived its user row
			s.Logout()
			s.AddFlash(session.FlashWarning, "Please log in first")
			c.Redirect(http.StatusFound, "/login")
			return
		}
		renderError(c, err)
		return
	}

	render(c, http.StatusOK, "dashboard.html", "Dashboard", gin.H{
		"Username": user.Username,
		"FeedPath": FeedPath,
	})
}
