package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahmadqo/e-evkin/internal/config"
	"github.com/ahmadqo/e-evkin/internal/database"
	"github.com/ahmadqo/e-evkin/internal/handler"
	"github.com/ahmadqo/e-evkin/internal/logger"
	"github.com/ahmadqo/e-evkin/internal/repository"
	"github.com/ahmadqo/e-evkin/internal/service"
	"github.com/ahmadqo/e-evkin/internal/utils"
)

// @title           e-Evkin API
// @version         1.0
// @description     Backend laporan evaluasi kinerja puskesmas.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	log := logger.New(&cfg.Log)

	// ── Database ─────────────────────────────────────
	db, err := database.Connect(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()

	log.WithField("path", cfg.Database.MigrationsPath).Info("running migrations")
	if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsPath, log); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	// ── Repositories ─────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	referensiRepo := repository.NewReferensiRepository(db)
	laporanRepo := repository.NewLaporanRepository(db)

	seeder := database.NewSeeder(referensiRepo, userRepo, log)
	if _, err := seeder.SeedReferences(ctx); err != nil {
		log.WithError(err).Warn("reference seed failed")
	}
	if err := seeder.SeedAdminUser(ctx, cfg.Import.AdminPassword); err != nil {
		log.WithError(err).Warn("admin seed failed")
	}

	// ── Storage (MinIO) ──────────────────────────────
	storage, err := utils.NewLampiranStorage(&cfg.MinIO)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MinIO")
	}
	log.WithField("bucket", cfg.MinIO.Bucket).Info("MinIO connected")

	// ── Services ─────────────────────────────────────
	authService := service.NewAuthService(userRepo, &cfg.JWT)
	userService := service.NewUserService(userRepo)
	referensiService := service.NewReferensiService(referensiRepo)
	laporanService := service.NewLaporanService(laporanRepo, userRepo, storage, cfg.App.URL, log)

	// ── Router ───────────────────────────────────────
	router := handler.NewRouter(
		handler.NewAuthHandler(authService, log),
		handler.NewUserHandler(userService, log),
		handler.NewReferensiHandler(referensiService),
		handler.NewLaporanHandler(laporanService, log),
		cfg,
		log,
	)

	// ── HTTP Server ──────────────────────────────────
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.App.Port),
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.WithField("port", cfg.App.Port).WithField("env", cfg.App.Env).Info("server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-quit
	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}
	log.Info("server stopped gracefully")
}

