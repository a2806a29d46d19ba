package handler

import (
	"github.com/aps4398/project-manager/internal/middleware"
	"github.com/aps4398/project-manager/internal/model"
	"github.com/aps4398/project-manager/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db          *gorm.DB
	taskService *service.TaskService
}

func NewDashboardHandler(db *gorm.DB, taskService *service.TaskService) *DashboardHandler {
	return &DashboardHandler{db: db, taskService: taskService}
}

// GET /dashboard
func (h *DashboardHandler) Overview(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var projectCount int64
	h.db.Model(&model.Project{}).Scopes(service.ProjectsVisibleTo(userID)).Count(&projectCount)

	var ownedCount int64
	h.db.Model(&model.Project{}).Scopes(service.ProjectsOwnedBy(userID)).Count(&ownedCount)

	var assignedOpen int64
	h.db.Model(&model.Task{}).
		Where("assignee_id = ? AND status <> ?", userID, model.TaskStatusDone).
		Count(&assignedOpen)

	var reported int64
	h.db.Model(&model.Task{}).Where("reporter_id = ?", userID).Count(&reported)

	Success(c, gin.H{
		"project_count":       projectCount,
		"owned_project_count": ownedCount,
		"assigned_open_tasks": assignedOpen,
		"reported_tasks":      reported,
		"status_counts":       h.taskService.StatusCounts(userID, nil),
	})
}

// GET /dashboard/my-tasks
func (h *DashboardHandler) MyTasks(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	page, pageSize := parsePage(c)

	filter := service.TaskFilter{
		AssigneeID: &userID,
		Status:     c.Query("status"),
	}
	tasks, total, err := h.taskService.List(userID, filter, page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(tasks))
	for i := range tasks {
		list = append(list, taskListJSON(&tasks[i]))
	}
	SuccessPaged(c, list, total, page, pageSize)
}

// GET /dashboard/recent
func (h *DashboardHandler) RecentTasks(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var tasks []model.Task
	err := h.db.Scopes(service.TasksVisibleTo(userID)).
		Preload("Assignee").Preload("Project").
		Order("tasks.updated_at desc").Limit(10).Find(&tasks).Error
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(tasks))
	for i := range tasks {
		item := taskListJSON(&tasks[i])
		if tasks[i].Project != nil {
			item["project"] = gin.H{"id": tasks[i].Project.ID, "name": tasks[i].Project.Name, "key": tasks[i].Project.Key}
		}
		list = append(list, item)
	}
	Success(c, list)
}
