package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminauth "github.com/gmtc-io/crm/internal/admin/auth"
	"github.com/gmtc-io/crm/internal/admin/pages"
	"github.com/gmtc-io/crm/internal/admin/session"
	"github.com/gmtc-io/crm/internal/admin/view"
	"github.com/gmtc-io/crm/internal/app"
	"github.com/gmtc-io/crm/internal/crm"
	"github.com/gmtc-io/crm/internal/observability"
	"github.com/gmtc-io/crm/internal/platform/cache"
	"github.com/gmtc-io/crm/internal/querycache"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer redisClient.Close()

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	sessions := session.NewManager(redisClient, "crm_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrf := session.NewCSRFManager(cfg.CSRFSecret)
	api := crm.New(cfg.APIBaseURL, cfg.APITimeout, session.TokenFromContext)
	listCache := querycache.New(cfg.ListCacheTTL)
	metrics := observability.NewMetrics()

	router := app.NewAdminRouter(app.AdminRouterParams{
		Middleware: app.AdminMiddlewareConfig{
			Logger:   logger,
			Config:   cfg,
			Sessions: sessions,
			CSRF:     csrf,
			Metrics:  metrics,
		},
		Auth:    adminauth.NewHandler(logger, api, sessions, csrf, templates),
		Pages:   pages.NewHandler(logger, api, listCache, sessions, csrf, templates),
		Metrics: metrics,
	})

	httpServer := &http.Server{
		Addr:         cfg.AdminAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting admin server", slog.String("addr", cfg.AdminAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
