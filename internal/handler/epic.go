package handler

import (
	"github.com/aps4398/project-manager/internal/middleware"
	"github.com/aps4398/project-manager/internal/model"
	"github.com/aps4398/project-manager/internal/service"
	"github.com/gin-gonic/gin"
)

type EpicHandler struct {
	epicService    *service.EpicService
	projectService *service.ProjectService
}

func NewEpicHandler(epicService *service.EpicService, projectService *service.ProjectService) *EpicHandler {
	return &EpicHandler{epicService: epicService, projectService: projectService}
}

// POST /projects/:id/epics
func (h *EpicHandler) Create(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	if _, err := h.projectService.GetVisible(projectID, userID); err != nil {
		Fail(c, err)
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required,max=200"`
		Description string `json:"description" binding:"max=5000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	epic, err := h.epicService.Create(projectID, req.Name, req.Description)
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{
		"id":          epic.ID,
		"name":        epic.Name,
		"description": epic.Description,
		"status":      epic.Status,
		"project_id":  epic.ProjectID,
		"created_at":  epic.CreatedAt,
	})
}

// GET /projects/:id/epics
func (h *EpicHandler) List(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	if _, err := h.projectService.GetVisible(projectID, userID); err != nil {
		Fail(c, err)
		return
	}

	epics, err := h.epicService.ListByProject(projectID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(epics))
	for _, e := range epics {
		list = append(list, gin.H{
			"id":          e.ID,
			"name":        e.Name,
			"description": e.Description,
			"status":      e.Status,
			"task_count":  h.epicService.TaskCount(e.ID),
			"created_at":  e.CreatedAt,
			"updated_at":  e.UpdatedAt,
		})
	}
	Success(c, list)
}

// PUT /projects/:id/epics/:epic_id
func (h *EpicHandler) Update(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	epicID := parseID(c.Param("epic_id"))
	userID := middleware.GetCurrentUserID(c)

	if _, err := h.projectService.GetVisible(projectID, userID); err != nil {
		Fail(c, err)
		return
	}
	epic, err := h.epicService.GetInProject(epicID, projectID)
	if err != nil {
		Fail(c, err)
		return
	}

	var req struct {
		Name        *string `json:"name" binding:"omitempty,max=200"`
		Description *string `json:"description"`
		Status      *string `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	var status *model.EpicStatus
	if req.Status != nil {
		v := model.EpicStatus(*req.Status)
		status = &v
	}

	updated, err := h.epicService.Update(epic, req.Name, req.Description, status)
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{
		"id":          updated.ID,
		"name":        updated.Name,
		"description": updated.Description,
		"status":      updated.Status,
		"updated_at":  updated.UpdatedAt,
	})
}

// DELETE /projects/:id/epics/:epic_id
func (h *EpicHandler) Delete(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	epicID := parseID(c.Param("epic_id"))
	userID := middleware.GetCurrentUserID(c)

	if _, err := h.projectService.GetVisible(projectID, userID); err != nil {
		Fail(c, err)
		return
	}
	epic, err := h.epicService.GetInProject(epicID, projectID)
	if err != nil {
		Fail(c, err)
		return
	}

	if err := h.epicService.Delete(epic); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"id": epicID, "deleted": true})
}
