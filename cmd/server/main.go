package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pv-bknd/internal/catalog"
	"pv-bknd/internal/climate"
	"pv-bknd/internal/config"
	"pv-bknd/internal/database"
	"pv-bknd/internal/logger"
	"pv-bknd/internal/permit"
	"pv-bknd/internal/routes"
	"pv-bknd/internal/services"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logr := logger.New(cfg)
	defer logr.Sync()

	table, err := climate.LoadTableFile(cfg.ClimateTablePath)
	if err != nil {
		logr.Fatal("failed to load climate table", zap.Error(err))
	}

	db, err := database.New(cfg.DatabaseURL, cfg)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.Migrate(ctx, db, cfg.DBSchema); err != nil {
		logr.Fatal("failed to migrate database", zap.Error(err))
	}

	catalogSvc := services.NewCatalogService(db, logr.Logger)
	if cfg.SeedCatalog {
		seed, err := catalog.LoadSeedFile(cfg.CatalogSeedPath)
		if err != nil {
			logr.Fatal("failed to load catalog seed", zap.Error(err))
		}
		if _, err := catalogSvc.Seed(ctx, seed); err != nil {
			logr.Fatal("failed to seed catalog", zap.Error(err))
		}
	}

	var permits *permit.Manager
	if cfg.PermitsEnabled() {
		permits, err = permit.NewManager(cfg.PermitPrivateKeyPath, cfg.PermitPublicKeyPath, cfg.PermitIssuer, cfg.PermitTTL)
		if err != nil {
			logr.Fatal("failed to load permit keys", zap.Error(err))
		}
		logr.Info("export permits enabled", zap.String("issuer", cfg.PermitIssuer), zap.Duration("ttl", cfg.PermitTTL))
	}

	r := routes.NewRouter(routes.Services{
		Catalog:  catalogSvc,
		Projects: services.NewProjectService(db),
		Sizing:   services.NewSizingService(catalogSvc, table, permits, logr.Logger),
	}, cfg, logr)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Info("server started", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Fatal("server forced to shutdown", zap.Error(err))
	}

	logr.Info("server exited gracefully")
}
