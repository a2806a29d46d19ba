package handler

import (
	"context"
	"time"

	"github.com/aps4398/project-manager/internal/middleware"
	"github.com/aps4398/project-manager/internal/model"
	"github.com/aps4398/project-manager/internal/notify"
	"github.com/aps4398/project-manager/internal/service"
	"github.com/aps4398/project-manager/internal/sse"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService    *service.TaskService
	projectService *service.ProjectService
	hub            *sse.Hub
	notifier       notify.Notifier
}

func NewTaskHandler(taskService *service.TaskService, projectService *service.ProjectService, hub *sse.Hub, notifier notify.Notifier) *TaskHandler {
	return &TaskHandler{taskService: taskService, projectService: projectService, hub: hub, notifier: notifier}
}

// POST /projects/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	project, err := h.projectService.GetVisible(projectID, userID)
	if err != nil {
		Fail(c, err)
		return
	}

	var req struct {
		Title             string     `json:"title" binding:"required,max=200"`
		Description       string     `json:"description"`
		AssigneeID        *uint      `json:"assignee_id"`
		EpicID            *uint      `json:"epic_id"`
		SprintID          *uint      `json:"sprint_id"`
		Status            string     `json:"status" binding:"omitempty,oneof=backlog todo in_progress in_review done"`
		Priority          string     `json:"priority" binding:"omitempty,oneof=lowest low medium high highest"`
		IssueType         string     `json:"issue_type" binding:"omitempty,oneof=story task bug epic subtask"`
		StoryPoints       *uint      `json:"story_points"`
		TimeEstimate      *int64     `json:"time_estimate_seconds" binding:"omitempty,min=0"`
		DueDate           *time.Time `json:"due_date"`
		LabelIDs          []uint     `json:"label_ids"`
		ComponentIDs      []uint     `json:"component_ids"`
		FixVersionIDs     []uint     `json:"fix_version_ids"`
		AffectsVersionIDs []uint     `json:"affects_version_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	if req.AssigneeID != nil && !h.projectService.CanAssign(project, *req.AssigneeID) {
		BadRequest(c, 40002, "assignee must be a project member")
		return
	}
	if req.EpicID != nil {
		if err := h.taskService.ValidateEpic(projectID, *req.EpicID); err != nil {
			Fail(c, err)
			return
		}
	}
	if req.SprintID != nil {
		if err := h.taskService.ValidateSprint(projectID, *req.SprintID); err != nil {
			Fail(c, err)
			return
		}
	}

	task, err := h.taskService.Create(project, userID, service.TaskInput{
		Title:             req.Title,
		Description:       req.Description,
		AssigneeID:        req.AssigneeID,
		EpicID:            req.EpicID,
		SprintID:          req.SprintID,
		Status:            model.TaskStatus(req.Status),
		Priority:          model.TaskPriority(req.Priority),
		Type:              model.IssueType(req.IssueType),
		StoryPoints:       req.StoryPoints,
		TimeEstimate:      req.TimeEstimate,
		DueDate:           req.DueDate,
		LabelIDs:          req.LabelIDs,
		ComponentIDs:      req.ComponentIDs,
		FixVersionIDs:     req.FixVersionIDs,
		AffectsVersionIDs: req.AffectsVersionIDs,
	})
	if err != nil {
		Fail(c, err)
		return
	}

	h.hub.Broadcast(projectID, sse.Event{
		Type: "task_created",
		Data: gin.H{"task_id": task.ID, "key": task.Key, "title": task.Title, "status": task.Status},
	})
	if h.notifier != nil && task.AssigneeID != nil {
		reporter := middleware.GetCurrentUser(c)
		go h.notifier.NotifyTaskAssigned(context.Background(), notify.TaskAssignedEvent{
			TaskID:       task.ID,
			TaskKey:      task.Key,
			Title:        task.Title,
			ProjectName:  project.Name,
			AssigneeID:   *task.AssigneeID,
			AssignerName: reporter.Username,
			Priority:     string(task.Priority),
		})
	}

	Success(c, taskDetailJSON(task))
}

// GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	page, pageSize := parsePage(c)
	userID := middleware.GetCurrentUserID(c)

	filter := service.TaskFilter{
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		IssueType: c.Query("issue_type"),
		Keyword:   c.Query("keyword"),
	}
	for param, target := range map[string]**uint{
		"project_id":  &filter.ProjectID,
		"assignee_id": &filter.AssigneeID,
		"epic_id":     &filter.EpicID,
		"sprint_id":   &filter.SprintID,
		"label_id":    &filter.LabelID,
	} {
		if s := c.Query(param); s != "" {
			v := parseID(s)
			*target = &v
		}
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

// GET /tasks/counts
func (h *TaskHandler) StatusCounts(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	var projectID *uint
	if s := c.Query("project_id"); s != "" {
		v := parseID(s)
		projectID = &v
	}
	Success(c, h.taskService.StatusCounts(userID, projectID))
}

// GET /projects/:id/board
func (h *TaskHandler) Board(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	if _, err := h.projectService.GetVisible(projectID, userID); err != nil {
		Fail(c, err)
		return
	}

	columns, err := h.taskService.Board(projectID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	board := make([]gin.H, 0, len(model.TaskStatuses))
	for _, st := range model.TaskStatuses {
		tasks := columns[st]
		list := make([]gin.H, 0, len(tasks))
		for i := range tasks {
			list = append(list, taskListJSON(&tasks[i]))
		}
		board = append(board, gin.H{"status": st, "tasks": list})
	}
	Success(c, board)
}

// GET /tasks/:id
func (h *TaskHandler) GetDetail(c *gin.Context) {
	id := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	task, err := h.taskService.GetVisible(id, userID)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, taskDetailJSON(task))
}

// GET /tasks/key/:key
func (h *TaskHandler) GetByKey(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	task, err := h.taskService.GetVisibleByKey(c.Param("key"), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, taskDetailJSON(task))
}

// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	task, err := h.taskService.GetVisible(id, userID)
	if err != nil {
		Fail(c, err)
		return
	}

	var req struct {
		Title             *string    `json:"title" binding:"omitempty,max=200"`
		Description       *string    `json:"description"`
		AssigneeID        *uint      `json:"assignee_id"`
		ClearAssignee     bool       `json:"clear_assignee"`
		EpicID            *uint      `json:"epic_id"`
		ClearEpic         bool       `json:"clear_epic"`
		SprintID          *uint      `json:"sprint_id"`
		ClearSprint       bool       `json:"clear_sprint"`
		Status            *string    `json:"status" binding:"omitempty,oneof=backlog todo in_progress in_review done"`
		Priority          *string    `json:"priority" binding:"omitempty,oneof=lowest low medium high highest"`
		IssueType         *string    `json:"issue_type" binding:"omitempty,oneof=story task bug epic subtask"`
		StoryPoints       *uint      `json:"story_points"`
		TimeEstimate      *int64     `json:"time_estimate_seconds" binding:"omitempty,min=0"`
		DueDate           *time.Time `json:"due_date"`
		LabelIDs          *[]uint    `json:"label_ids"`
		ComponentIDs      *[]uint    `json:"component_ids"`
		FixVersionIDs     *[]uint    `json:"fix_version_ids"`
		AffectsVersionIDs *[]uint    `json:"affects_version_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	if req.AssigneeID != nil {
		project, perr := h.projectService.GetVisible(task.ProjectID, userID)
		if perr != nil {
			Fail(c, perr)
			return
		}
		if !h.projectService.CanAssign(project, *req.AssigneeID) {
			BadRequest(c, 40002, "assignee must be a project member")
			return
		}
	}
	if req.EpicID != nil {
		if err := h.taskService.ValidateEpic(task.ProjectID, *req.EpicID); err != nil {
			Fail(c, err)
			return
		}
	}
	if req.SprintID != nil {
		if err := h.taskService.ValidateSprint(task.ProjectID, *req.SprintID); err != nil {
			Fail(c, err)
			return
		}
	}

	up := service.TaskUpdate{
		Title:             req.Title,
		Description:       req.Description,
		AssigneeID:        req.AssigneeID,
		ClearAssignee:     req.ClearAssignee,
		EpicID:            req.EpicID,
		ClearEpic:         req.ClearEpic,
		SprintID:          req.SprintID,
		ClearSprint:       req.ClearSprint,
		StoryPoints:       req.StoryPoints,
		TimeEstimate:      req.TimeEstimate,
		DueDate:           req.DueDate,
		LabelIDs:          req.LabelIDs,
		ComponentIDs:      req.ComponentIDs,
		FixVersionIDs:     req.FixVersionIDs,
		AffectsVersionIDs: req.AffectsVersionIDs,
	}
	if req.Status != nil {
		v := model.TaskStatus(*req.Status)
		up.Status = &v
	}
	if req.Priority != nil {
		v := model.TaskPriority(*req.Priority)
		up.Priority = &v
	}
	if req.IssueType != nil {
		v := model.IssueType(*req.IssueType)
		up.Type = &v
	}

	updated, err := h.taskService.Update(task, up)
	if err != nil {
		Fail(c, err)
		return
	}

	if req.Status != nil {
		h.hub.Broadcast(updated.ProjectID, sse.Event{
			Type: "task_status_changed",
			Data: gin.H{"task_id": updated.ID, "key": updated.Key, "status": updated.Status},
		})
	}

	Success(c, taskDetailJSON(updated))
}

// PUT /tasks/:id/status
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	id := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	task, err := h.taskService.GetVisible(id, userID)
	if err != nil {
		Fail(c, err)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	if err := h.taskService.UpdateStatus(task, model.TaskStatus(req.Status)); err != nil {
		Fail(c, err)
		return
	}

	h.hub.Broadcast(task.ProjectID, sse.Event{
		Type: "task_status_changed",
		Data: gin.H{"task_id": task.ID, "key": task.Key, "status": req.Status},
	})

	Success(c, gin.H{"id": task.ID, "key": task.Key, "status": req.Status})
}

// POST /tasks/:id/time
func (h *TaskHandler) LogTime(c *gin.Context) {
	id := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	task, err := h.taskService.GetVisible(id, userID)
	if err != nil {
		Fail(c, err)
		return
	}

	// Non-numeric hours fail binding here and never touch the task.
	var req struct {
		Hours float64 `json:"hours" binding:"required,min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid time format")
		return
	}

	if err := h.taskService.LogTime(task, req.Hours); err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{
		"id":                  task.ID,
		"key":                 task.Key,
		"time_logged_seconds": task.TimeLogged,
		"time_logged_hours":   task.TimeLoggedHours(),
	})
}

// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	task, err := h.taskService.GetVisible(id, userID)
	if err != nil {
		Fail(c, err)
		return
	}

	if err := h.taskService.Delete(task); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"id": id, "deleted": true})
}

func taskListJSON(t *model.Task) gin.H {
	item := gin.H{
		"id":         t.ID,
		"key":        t.Key,
		"title":      t.Title,
		"project_id": t.ProjectID,
		"status":     t.Status,
		"priority":   t.Priority,
		"issue_type": t.Type,
		"due_date":   t.DueDate,
		"created_at": t.CreatedAt,
		"updated_at": t.UpdatedAt,
	}
	if t.Assignee != nil {
		item["assignee"] = t.Assignee.Brief()
	}
	if t.Epic != nil {
		item["epic"] = gin.H{"id": t.Epic.ID, "name": t.Epic.Name}
	}
	if t.Sprint != nil {
		item["sprint"] = gin.H{"id": t.Sprint.ID, "name": t.Sprint.Name}
	}
	if len(t.Labels) > 0 {
		item["labels"] = t.Labels
	}
	return item
}

func taskDetailJSON(t *model.Task) gin.H {
	item := taskListJSON(t)
	item["description"] = t.Description
	item["story_points"] = t.StoryPoints
	item["time_estimate_seconds"] = t.TimeEstimate
	item["time_logged_seconds"] = t.TimeLogged
	item["components"] = t.Components
	item["fix_versions"] = t.FixVersions
	item["affects_versions"] = t.AffectsVersions
	if t.Project != nil {
		item["project"] = gin.H{"id": t.Project.ID, "name": t.Project.Name, "key": t.Project.Key}
	}
	if t.Reporter != nil {
		item["reporter"] = t.Reporter.Brief()
	}
	return item
}
