package routes

import (
	"log"
	"os"

	"pharmhouse/internal/core/container"
	"pharmhouse/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	c.LotHandler.RegisterRoutes(router)
	c.DispatchHandler.RegisterRoutes(router)
	c.PurchaseHandler.RegisterRoutes(router)
	c.AlertHandler.RegisterRoutes(router)
	c.TraceHandler.RegisterRoutes(router)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckMiddleware())

	openapiFilePath := "./docs/index.html"
	if _, err := os.Stat(openapiFilePath); err == nil {
		router.GET("/openapi.html", func(c *gin.Context) {
			c.File(openapiFilePath)
		})
		log.Println("Route docs/index.html registered successfully.")
	} else {
		log.Printf("Warning: %s not found. Route /openapi.html will not be registered.\n", openapiFilePath)
	}
}
