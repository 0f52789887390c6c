package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"client_api_backend/internal/config"
	"client_api_backend/internal/database"
	"client_api_backend/internal/repositories"
	"client_api_backend/internal/router"
	"client_api_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize Logger
	utils.InitLogger(cfg.Log.Level, cfg.Log.Pretty)
	if envErr != nil {
		utils.LogDebug("No .env file loaded, using process environment", map[string]interface{}{"reason": envErr.Error()})
	}

	ctx := context.Background()

	// Initialize Database
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		utils.LogError(err, "Failed to initialize database", map[string]interface{}{"driver": cfg.Database.Driver})
		os.Exit(1)
	}
	defer db.Close()

	dialect, err := repositories.DialectFor(cfg.Database.Driver)
	if err != nil {
		utils.LogError(err, "Unsupported database driver")
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, cfg.Database.Driver),
	)

	gin.SetMode(gin.ReleaseMode)
	engine := router.New(router.Dependencies{
		DB:             db,
		Dialect:        dialect,
		Registry:       registry,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Server.Port, "driver": cfg.Database.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start server")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.LogInfo("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server forced to shutdown")
	}
	utils.LogInfo("Server exited")
}
