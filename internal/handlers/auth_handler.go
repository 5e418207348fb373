package handlers

import (
	"errors"
	"net/http"

	"member-portal/internal/middleware"
	"member-portal/internal/service"
	"member-portal/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// AuthHandler serves registration, login and logout
type AuthHandler struct {
	service  service.AuthService
	sessions *session.Manager
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, sessions *session.Manager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: s, sessions: sessions, logger: logger}
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login.html", "Log in", nil)
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	s := middleware.GetSession(c)

	var form LoginForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		s.AddFlash(session.FlashDanger, validationMessage(err))
		redirectAfterPost(c, "/login")
		return
	}

	user, err := h.service.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			s.AddFlash(session.FlashDanger, "Invalid username or password!")
			redirectAfterPost(c, "/login")
			return
		}
		h.logger.Error("login failed", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		renderError(c, err)
		return
	}

	if err := h.sessions.Renew(c.Request.Context(), s); err != nil {
		h.logger.Error("session renewal failed", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		renderError(c, err)
		return
	}
	s.Login(user.ID)
	redirectAfterPost(c, "/home")
}

// RegisterPage handles GET /register
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	render(c, http.StatusOK, "register.html", "Register", gin.H{"Username": ""})
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	s := middleware.GetSession(c)

	var form RegisterForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		s.AddFlash(session.FlashDanger, validationMessage(err))
		render(c, http.StatusBadRequest, "register.html", "Register", gin.H{"Username": form.Username})
		return
	}

	if _, err := h.service.Register(c.Request.Context(), form.Username, form.Password); err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			s.AddFlash(session.FlashDanger, "Username is already taken.")
			render(c, http.StatusConflict, "register.html", "Register", gin.H{"Username": form.Username})
			return
		}
		h.logger.Error("registration failed", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		renderError(c, err)
		return
	}

	s.AddFlash(session.FlashSuccess, "Registration successful! Please log in.")
	redirectAfterPost(c, "/login")
}

// Logout handles GET /logout. It is safe to call without a login.
func (h *AuthHandler) Logout(c *gin.Context) {
	s := middleware.GetSession(c)
	s.Logout()
	s.AddFlash(session.FlashInfo, "Logged out successfully!")
	c.Redirect(http.StatusFound, "/login")
}
