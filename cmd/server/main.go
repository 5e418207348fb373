package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"member-portal/internal/auth"
	"member-portal/internal/config"
	"member-portal/internal/database"
	"member-portal/internal/logger"
	"member-portal/internal/notifier"
	"member-portal/internal/realtime"
	"member-portal/internal/routes"
	"member-portal/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	// Init database. The schema is managed by cmd/migrate.
	db, err := database.Open(cfg.Database.Path, gormlogger.Warn)
	if err != nil {
		zapLogger.Fatal("Failed to open database", zap.String("path", cfg.Database.Path), zap.Error(err))
	}
	if err := database.EnsureMigrated(context.Background(), db); err != nil {
		zapLogger.Fatal("Database is not ready", zap.Error(err))
	}

	store := session.NewMemoryStore(cfg.Session.TTL)
	store.StartJanitor(time.Minute)
	sessions := session.NewManager(store, auth.NewTokenSigner(cfg.Session.Secret), session.Options{
		TTL:    cfg.Session.TTL,
		Secure: cfg.Session.CookieSecure,
	})

	hub := realtime.NewHub()

	dispatcher := notifier.NewDispatcher(notifier.NewSender(cfg.SMTP, zapLogger), zapLogger, notifier.DispatcherOptions{
		QueueSize:   cfg.Notify.QueueSize,
		Workers:     cfg.Notify.Workers,
		SendTimeout: cfg.SMTP.Timeout,
		OnResult: func(msg notifier.Message, err error) {
			evt := realtime.Event{Type: realtime.EventNotificationSent, ContactID: msg.ContactID}
			if err != nil {
				evt.Type = realtime.EventNotificationFailed
			}
			hub.Publish(evt)
		},
	})
	dispatcher.Start()

	// Setup the routes (public and protected routes)
	ginRoutes, err := routes.SetupRoutes(routes.Deps{
		DB:               db,
		Logger:           zapLogger,
		Sessions:         sessions,
		Notifier:         dispatcher,
		Hub:              hub,
		AdminEmail:       cfg.AdminEmail,
		GuardPublicPages: cfg.GuardPublicPages,
		LoginRateLimit:   cfg.LoginRateLimit,
	})
	if err != nil {
		zapLogger.Fatal("Failed to set up routes", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           ginRoutes,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("addr", srv.Addr), zap.Bool("smtp", cfg.SMTP.Host != ""))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := dispatcher.Shutdown(ctx); err != nil {
		zapLogger.Warn("Pending notifications dropped", zap.Error(err))
	}
	store.Stop()
	if err := database.Close(db); err != nil {
		zapLogger.Error("Failed to close database", zap.Error(err))
	}
	zapLogger.Info("Server exited")
}
