package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gmtc-io/crm/internal/app"
	"github.com/gmtc-io/crm/internal/observability"
	"github.com/gmtc-io/crm/internal/platform/db"
	"github.com/gmtc-io/crm/internal/server"
	"github.com/gmtc-io/crm/internal/server/auth"
	"github.com/gmtc-io/crm/internal/server/customers"
	"github.com/gmtc-io/crm/internal/server/parts"
	"github.com/gmtc-io/crm/internal/server/suppliers"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	authHandler := auth.NewHandler(logger, auth.NewService(auth.NewRepository(pool), tokens))
	customersHandler := customers.NewHandler(logger, customers.NewService(customers.NewRepository(pool)))
	partsHandler := parts.NewHandler(logger, parts.NewService(parts.NewRepository(pool)))
	suppliersHandler := suppliers.NewHandler(logger, suppliers.NewService(suppliers.NewRepository(pool)))
	metrics := observability.NewMetrics()

	router := server.NewRouter(server.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Tokens:           tokens,
		AuthHandler:      authHandler,
		CustomersHandler: customersHandler,
		PartsHandler:     partsHandler,
		SuppliersHandler: suppliersHandler,
		Metrics:          metrics,
	})

	httpServer := &http.Server{
		Addr:         cfg.APIAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.APIAddr))
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
