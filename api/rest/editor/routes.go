package editor

import (
	"time"

	"codeberg.org/archviz/studio/internal/auth"
	"github.com/gin-gonic/gin"
)

// registers the editor routes; generateLimit may be nil
func RegisterRoutes(router *gin.RouterGroup, deps Deps, generateLimit gin.HandlerFunc) {
	if deps.GenerationTimeout <= 0 {
		deps.GenerationTimeout = defaultGenerationTimeout
	}

	if deps.Now == nil {
		deps.Now = time.Now
	}

	router.GET("/editor/catalog", GetCatalog())

	ed := router.Group("/editor")
	ed.Use(auth.AuthMiddleware(), RequireActiveAccount(deps))
	{
		ed.GET("/session", GetSession(deps))
		ed.GET("/images/:slot", GetImage(deps))
		ed.PUT("/images/:slot", UploadImage(deps))
		ed.DELETE("/images/:slot", RemoveImage(deps))
		ed.PUT("/selections", SetSelections(deps))
		ed.GET("/prompt", GetPrompt(deps))

		generate := []gin.HandlerFunc{Generate(deps)}
		if generateLimit != nil {
			generate = append([]gin.HandlerFunc{generateLimit}, generate...)
		}

		ed.POST("/generate", generate...)
		ed.POST("/undo", Undo(deps))
		ed.POST("/redo", Redo(deps))
		ed.POST("/transform", Transform(deps))
		ed.POST("/reset", Reset(deps))
		ed.POST("/use-as-input", UseAsInput(deps))
		ed.GET("/download", Download(deps))
		ed.PUT("/api-key", SaveAPIKey(deps))
		ed.DELETE("/api-key", ClearAPIKey(deps))
	}
}
