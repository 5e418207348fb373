package handlers

import (
	"net/http"

	"member-portal/internal/middleware"

	"github.com/gin-gonic/gin"
)

// render executes a page template with the layout data every page needs.
// Pending flashes are consumed here.
func render(c *gin.Context, status int, page, title string, data gin.H) {
	s := middleware.GetSession(c)
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Flashes"] = s.TakeFlashes()
	data["LoggedIn"] = s.IsAuthenticated()
	c.HTML(status, page, data)
}

// renderError records err for the request log and shows the generic error page
func renderError(c *gin.Context, err error) {
	_ = c.Error(err)
	render(c, http.StatusInternalServerError, "error.html", "Error", nil)
}

// redirectAfterPost answers a form submission with 303 See Other
func redirectAfterPost(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
