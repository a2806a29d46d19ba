package router

import (
	"github.com/aps4398/project-manager/internal/handler"
	"github.com/aps4398/project-manager/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Deps struct {
	DB               *gorm.DB
	JWTSecret        string
	AuthHandler      *handler.AuthHandler
	UserHandler      *handler.UserHandler
	ProjectHandler   *handler.ProjectHandler
	EpicHandler      *handler.EpicHandler
	SprintHandler    *handler.SprintHandler
	TaskHandler      *handler.TaskHandler
	CommentHandler   *handler.CommentHandler
	CatalogHandler   *handler.CatalogHandler
	DashboardHandler *handler.DashboardHandler
	EventHandler     *handler.EventHandler
}

func Setup(r *gin.Engine, deps Deps) {
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api/v1")

	// Public routes (no auth)
	auth := api.Group("/auth")
	{
		auth.POST("/register", deps.AuthHandler.Register)
		auth.POST("/login", deps.AuthHandler.Login)
	}

	// Authenticated routes
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(deps.JWTSecret, deps.DB))
	{
		// Auth
		authed.GET("/auth/me", deps.AuthHandler.GetMe)
		authed.PUT("/auth/me", deps.AuthHandler.UpdateMe)
		authed.POST("/auth/refresh", deps.AuthHandler.RefreshToken)

		// User search (all authenticated users)
		authed.GET("/users/search", deps.UserHandler.SearchUsers)

		// Admin routes
		admin := authed.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/users", deps.UserHandler.ListUsers)
			admin.DELETE("/labels/:id", deps.CatalogHandler.DeleteLabel)
		}

		// Projects
		projects := authed.Group("/projects")
		{
			projects.POST("", deps.ProjectHandler.Create)
			projects.GET("", deps.ProjectHandler.List)
			projects.GET("/:id", deps.ProjectHandler.GetDetail)
			projects.PUT("/:id", deps.ProjectHandler.Update)
			projects.DELETE("/:id", deps.ProjectHandler.Delete)
			projects.POST("/:id/members", deps.ProjectHandler.AddMembers)
			projects.DELETE("/:id/members/:user_id", deps.ProjectHandler.RemoveMember)

			// Epics under projects
			projects.POST("/:id/epics", deps.EpicHandler.Create)
			projects.GET("/:id/epics", deps.EpicHandler.List)
			projects.PUT("/:id/epics/:epic_id", deps.EpicHandler.Update)
			projects.DELETE("/:id/epics/:epic_id", deps.EpicHandler.Delete)

			// Sprints under projects
			projects.POST("/:id/sprints", deps.SprintHandler.Create)
			projects.GET("/:id/sprints", deps.SprintHandler.List)
			projects.PUT("/:id/sprints/:sprint_id", deps.SprintHandler.Update)
			projects.POST("/:id/sprints/:sprint_id/activate", deps.SprintHandler.Activate)
			projects.POST("/:id/sprints/:sprint_id/complete", deps.SprintHandler.Complete)
			projects.DELETE("/:id/sprints/:sprint_id", deps.SprintHandler.Delete)

			// Components and versions under projects
			projects.POST("/:id/components", deps.CatalogHandler.CreateComponent)
			projects.GET("/:id/components", deps.CatalogHandler.ListComponents)
			projects.DELETE("/:id/components/:component_id", deps.CatalogHandler.DeleteComponent)
			projects.POST("/:id/versions", deps.CatalogHandler.CreateVersion)
			projects.GET("/:id/versions", deps.CatalogHandler.ListVersions)
			projects.POST("/:id/versions/:version_id/release", deps.CatalogHandler.ReleaseVersion)
			projects.DELETE("/:id/versions/:version_id", deps.CatalogHandler.DeleteVersion)

			// Tasks under projects
			projects.POST("/:id/tasks", deps.TaskHandler.Create)
			projects.GET("/:id/board", deps.TaskHandler.Board)

			// Activity stream
			projects.GET("/:id/events", deps.EventHandler.Stream)
		}

		// Labels (global)
		labels := authed.Group("/labels")
		{
			labels.POST("", deps.CatalogHandler.CreateLabel)
			labels.GET("", deps.CatalogHandler.ListLabels)
		}

		// Tasks (standalone)
		tasks := authed.Group("/tasks")
		{
			tasks.GET("", deps.TaskHandler.List)
			tasks.GET("/counts", deps.TaskHandler.StatusCounts)
			tasks.GET("/key/:key", deps.TaskHandler.GetByKey)
			tasks.GET("/:id", deps.TaskHandler.GetDetail)
			tasks.PUT("/:id", deps.TaskHandler.Update)
			tasks.DELETE("/:id", deps.TaskHandler.Delete)
			tasks.PUT("/:id/status", deps.TaskHandler.UpdateStatus)
			tasks.POST("/:id/time", deps.TaskHandler.LogTime)

			// Comments and attachments
			tasks.POST("/:id/comments", deps.CommentHandler.Create)
			tasks.GET("/:id/comments", deps.CommentHandler.List)
			tasks.DELETE("/:id/comments/:comment_id", deps.CommentHandler.Delete)
			tasks.POST("/:id/attachments", deps.CommentHandler.AddAttachment)
			tasks.GET("/:id/attachments", deps.CommentHandler.ListAttachments)
			tasks.DELETE("/:id/attachments/:attachment_id", deps.CommentHandler.DeleteAttachment)
		}

		// Dashboard
		dashboard := authed.Group("/dashboard")
		{
			dashboard.GET("", deps.DashboardHandler.Overview)
			dashboard.GET("/my-tasks", deps.DashboardHandler.MyTasks)
			dashboard.GET("/recent", deps.DashboardHandler.RecentTasks)
		}
	}
}
