package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/growthboard/growthboard-go/internal/config"
	"github.com/growthboard/growthboard-go/internal/dataset"
	"github.com/growthboard/growthboard-go/internal/handler"
	"github.com/growthboard/growthboard-go/internal/metrics"
	"github.com/growthboard/growthboard-go/internal/middleware"
	"github.com/growthboard/growthboard-go/internal/repository"
	"github.com/growthboard/growthboard-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("opening database failed", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store, err := dataset.Load()
	if err != nil {
		slog.Error("loading country datasets failed", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry, collector)
	authHandler := handler.NewAuthHandler(authService, cfg.IsProduction())

	savedRepo := repository.NewSavedCountryRepository(db)
	savedService := service.NewSavedService(savedRepo, collector)
	savedHandler := handler.NewSavedHandler(savedService)

	datasetHandler := handler.NewDatasetHandler(store)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(metrics.Middleware(collector))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	r.Get("/countries", datasetHandler.HandleSummary)
	r.Get("/countries/{country}", datasetHandler.HandleCountry)
	r.Get("/compare", datasetHandler.HandleCompare)

	r.Post("/register", authHandler.HandleRegister)
	r.Post("/login", authHandler.HandleLogin)
	r.Get("/logout", authHandler.HandleLogout)
	r.Get("/api/session", authHandler.HandleSession)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))
		r.Get("/saved", savedHandler.HandleList)
		r.Post("/saved", savedHandler.HandleSaveUnsave)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
