package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aps4398/project-manager/internal/config"
	"github.com/aps4398/project-manager/internal/handler"
	"github.com/aps4398/project-manager/internal/model"
	"github.com/aps4398/project-manager/internal/notify"
	"github.com/aps4398/project-manager/internal/router"
	"github.com/aps4398/project-manager/internal/service"
	"github.com/aps4398/project-manager/internal/sse"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	// Load config
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Database
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.Path)
	default:
		dialector = mysql.Open(cfg.Database.DSN())
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.ProjectMember{},
		&model.Epic{},
		&model.Sprint{},
		&model.Label{},
		&model.Component{},
		&model.Version{},
		&model.Task{},
		&model.Comment{},
		&model.Attachment{},
	); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Core components
	sseHub := sse.NewHub(rdb)
	streamTTL := time.Duration(cfg.Activity.RetentionHours) * time.Hour

	var notifier notify.Notifier = notify.LogNotifier{}

	// Services
	authService := service.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	projectService := service.NewProjectService(db)
	epicService := service.NewEpicService(db)
	sprintService := service.NewSprintService(db)
	taskService := service.NewTaskService(db)
	catalogService := service.NewCatalogService(db)
	commentService := service.NewCommentService(db)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService, notifier)
	epicHandler := handler.NewEpicHandler(epicService, projectService)
	sprintHandler := handler.NewSprintHandler(sprintService, projectService)
	taskHandler := handler.NewTaskHandler(taskService, projectService, sseHub, notifier)
	commentHandler := handler.NewCommentHandler(commentService, taskService, sseHub, notifier)
	catalogHandler := handler.NewCatalogHandler(catalogService, projectService)
	dashboardHandler := handler.NewDashboardHandler(db, taskService)
	eventHandler := handler.NewEventHandler(sseHub, projectService, streamTTL)

	// Gin engine
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Setup routes
	router.Setup(r, router.Deps{
		DB:               db,
		JWTSecret:        cfg.JWT.Secret,
		AuthHandler:      authHandler,
		UserHandler:      userHandler,
		ProjectHandler:   projectHandler,
		EpicHandler:      epicHandler,
		SprintHandler:    sprintHandler,
		TaskHandler:      taskHandler,
		CommentHandler:   commentHandler,
		CatalogHandler:   catalogHandler,
		DashboardHandler: dashboardHandler,
		EventHandler:     eventHandler,
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
