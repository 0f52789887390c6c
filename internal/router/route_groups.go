package router

import (
	"client_api_backend/internal/handlers"
	"github.com/gin-gonic/gin"
)

// SetupClientRoutes sets up the client routes. Collection routes answer with
// and without a trailing slash.
func SetupClientRoutes(engine *gin.Engine, clientHandler *handlers.ClientHandler) {
	clientRoutes := engine.Group("/clients")
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.POST("/", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/", clientHandler.GetClients)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
		clientRoutes.DELETE("/:id", clientHandler.DeleteClient)
	}
}

// SetupSystemRoutes sets up the welcome and health routes.
func SetupSystemRoutes(engine *gin.Engine, systemHandler *handlers.SystemHandler) {
	engine.GET("/", systemHandler.Root)
	engine.GET("/ping", systemHandler.Ping)
	engine.GET("/healthz", systemHandler.Health)
}
