package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/workbin-dev/workbin/internal/handlers"
	"github.com/workbin-dev/workbin/internal/middleware"
	"github.com/workbin-dev/workbin/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Uploads buffer in memory up to this threshold before spilling to
	// temporary files.
	r.MaxMultipartMemory = 20 << 30

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.POST("/token", handlers.Token)
	r.GET("/users/me", middleware.AuthMiddleware(), handlers.Me)
	r.GET("/users/me/preferences", middleware.AuthMiddleware(), handlers.GetPreferences)
	r.PUT("/users/me/preferences", middleware.AuthMiddleware(), handlers.UpdatePreferences)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:project_id", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
		}

		api.POST("/uploads", middleware.AuthMiddleware(), handlers.SharedUpload)

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("", handlers.CreateProject)
			projects.GET("", handlers.ListProjects)
			projects.PATCH("/:project_id", handlers.UpdateProject)
			projects.DELETE("/:project_id", handlers.DeleteProject)

			// File endpoints
			projects.POST("/:project_id/files", handlers.UploadFile)
			projects.GET("/:project_id/files", handlers.ListFiles)
			projects.GET("/:project_id/files/:name", handlers.DownloadFile)
			projects.DELETE("/:project_id/files/:name", handlers.DeleteFile)
		}
	}

	return r
}
