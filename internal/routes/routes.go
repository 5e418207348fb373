package routes

import (
	"context"
	"net/http"
	"time"

	"member-portal/internal/database"
	"member-portal/internal/handlers"
	"member-portal/internal/middleware"
	"member-portal/internal/realtime"
	"member-portal/internal/repository"
	"member-portal/internal/service"
	"member-portal/internal/session"
	"member-portal/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps carries everything the router wires into handlers
type Deps struct {
	DB       *gorm.DB
	Logger   *zap.Logger
	Sessions *session.Manager
	Notifier handlers.Enqueuer
	Hub      *realtime.Hub

	AdminEmail       string
	GuardPublicPages bool
	// LoginRateLimit is per client IP per minute; zero disables it
	LoginRateLimit int
}

// SetupRoutes builds the gin engine with every public and protected route
func SetupRoutes(d Deps) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	ginRouter := gin.New()
	ginRouter.SetHTMLTemplate(tmpl)
	ginRouter.Use(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.Recovery(d.Logger),
	)

	// Health check endpoint, no session needed
	ginRouter.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, d.DB); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	users := repository.NewUserRepository(d.DB)
	contacts := repository.NewContactRepository(d.DB)
	authService := service.NewAuthService(users)

	authHandler := handlers.NewAuthHandler(authService, d.Sessions, d.Logger)
	pageHandler := handlers.NewPageHandler(users)
	contactHandler := handlers.NewContactHandler(contacts, d.Notifier, d.Hub, d.AdminEmail, d.Logger)
	feedHandler := handlers.NewFeedHandler(d.Hub, d.Logger)

	site := ginRouter.Group("")
	site.Use(middleware.Sessions(d.Sessions, d.Logger))

	// Public routes
	credentialLimit := middleware.RateLimitByIP(d.LoginRateLimit, time.Minute)
	site.GET("/", pageHandler.Index)
	site.GET("/login", authHandler.LoginPage)
	site.POST("/login", credentialLimit, authHandler.Login)
	site.GET("/register", authHandler.RegisterPage)
	site.POST("/register", credentialLimit, authHandler.Register)
	site.GET("/logout", authHandler.Logout)
	site.GET("/contact", contactHandler.ContactPage)
	site.POST("/contact", contactHandler.Submit)

	// /home and /about are public unless configured otherwise
	pages := site.Group("")
	if d.GuardPublicPages {
		pages.Use(middleware.RequireLogin())
	}
	pages.GET("/home", pageHandler.Home)
	pages.GET("/about", pageHandler.About)

	// Protected routes (login required)
	protected := site.Group("")
	protected.Use(middleware.RequireLogin())
	{
		protected.GET("/dashboard", pageHandler.Dashboard)
		protected.GET(handlers.FeedPath, feedHandler.Events)
	}

	return ginRouter, nil
}
