package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates route registration for the console API.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all routes under the /api prefix.
func (r *Routes) Register(router gin.IRouter) {
	api := router.Group("/api")

	projects := api.Group("/projects")
	projects.GET("", r.handlers.Project.List)
	projects.POST("", r.handlers.Project.Create)
	projects.GET("/:id", r.handlers.Project.Get)
	projects.PUT("/:id", r.handlers.Project.Update)
	projects.DELETE("/:id", r.handlers.Project.Delete)
	projects.POST("/:id/reindex", r.handlers.Project.Reindex)

	collections := api.Group("/collections")
	collections.GET("", r.handlers.Collection.List)
	collections.POST("", r.handlers.Collection.Create)
	collections.POST("/import-csv", r.handlers.Collection.ImportCSV)
	collections.GET("/:id", r.handlers.Collection.Get)
	collections.PUT("/:id", r.handlers.Collection.Update)
	collections.DELETE("/:id", r.handlers.Collection.Delete)

	api.POST("/generate-batch", r.handlers.Generation.GenerateBatch)
	api.POST("/scheduler_callback/:generation_id", r.handlers.Generation.SchedulerCallback)

	api.GET("/grid-data", r.handlers.Grid.GridData)
	api.GET("/selection-data", r.handlers.Grid.SelectionData)
	api.GET("/selection-shell", r.handlers.Grid.SelectionShell)
	api.GET("/selection-attempts", r.handlers.Grid.SelectionAttempts)

	api.POST("/select-cover", r.handlers.Selection.SelectCover)
	api.GET("/generated_files/:file_id", r.handlers.File.Serve)
	api.GET("/events", r.handlers.Events.Stream)
}
