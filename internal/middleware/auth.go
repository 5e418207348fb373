package middleware

import (
	"net/http"

	"member-portal/internal/session"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the logged-in user's id
const UserIDKey = "user_id"

// RequireLogin sends anonymous visitors to the login page with a warning.
// Must run after Sessions.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := GetSession(c)
		if !s.IsAuthenticated() {
			s.AddFlash(session.FlashWarning, "Please log in first")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(UserIDKey, s.UserID)
		c.Next()
	}
}
