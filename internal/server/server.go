package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leo-tosi/TDG/internal/handlers"
	"github.com/leo-tosi/TDG/internal/services"
)

// NewRouter wires the generation handlers. Generated files are served
// from publicDir under /public.
func NewRouter(service *services.DataGenerationService, publicDir string) *gin.Engine {
	handler := handlers.DSGenerationHandler(service)

	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Data generator is running!",
			"status":  "ok",
		})
	})

	router.GET("/get-templates", handler.GetTemplates)
	router.GET("/load-template", handler.LoadTemplate)
	router.POST("/generate", handler.Generate)
	router.GET("/download/:id", handler.DownloadFile)

	api := router.Group("/API")
	{
		api.GET("/templates", handler.GetTemplates)
		api.GET("/templates/load", handler.LoadTemplate)
		api.POST("/generate", handler.Generate)
		api.GET("/download/:id", handler.DownloadFile)
	}

	if publicDir != "" {
		router.Static("/public", publicDir)
	}
	return router
}
