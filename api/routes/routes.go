package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/slidecraft/deck-decomposer/api/handlers"
	"github.com/slidecraft/deck-decomposer/api/middleware"
)

// SetupRoutes wires all API routes.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")

	docs := v1.Group("/decompose")
	{
		docs.POST("", h.Decompose.Decompose)
		docs.POST("/stream", h.Decompose.DecomposeStream)
		docs.POST("/async", h.Decompose.DecomposeAsync)
		docs.GET("/status/:taskId", h.Decompose.GetStatus)
		docs.DELETE("/task/:taskId", h.Decompose.CancelTask)
	}
}
