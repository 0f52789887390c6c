package router

import (
	"database/sql"

	"client_api_backend/internal/handlers"
	"client_api_backend/internal/middleware"
	"client_api_backend/internal/repositories"
	"client_api_backend/internal/services"
	"client_api_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	DB             *sql.DB
	Dialect        repositories.Dialect
	Registry       *prometheus.Registry
	AllowedOrigins []string
}

// New builds the gin engine with middleware and all application routes.
func New(deps Dependencies) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(utils.GinLogger())
	engine.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	engine.Use(middleware.NewMetrics(registry).Handler())
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	Setup(engine, deps.DB, deps.Dialect)
	return engine
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, dialect repositories.Dialect) {
	// Initialize Repositories
	clientRepo := repositories.NewClientRepository(db, dialect)

	// Initialize Services
	clientService := services.NewClientService(clientRepo)

	// Initialize Handlers
	clientHandler := handlers.NewClientHandler(clientService)
	systemHandler := handlers.NewSystemHandler(clientService)

	SetupSystemRoutes(engine, systemHandler)
	SetupClientRoutes(engine, clientHandler)
}

func corsConfig(allowedOrigins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowedOrigins
		config.AllowCredentials = true
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	config.ExposeHeaders = []string{middleware.RequestIDHeader}
	return config
}
