package handler

import (
	"context"

	"github.com/aps4398/project-manager/internal/middleware"
	"github.com/aps4398/project-manager/internal/notify"
	"github.com/aps4398/project-manager/internal/service"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	notifier       notify.Notifier
}

func NewProjectHandler(projectService *service.ProjectService, notifier notify.Notifier) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, notifier: notifier}
}

// POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required,max=200"`
		Description string `json:"description" binding:"max=5000"`
		MemberIDs   []uint `json:"member_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	userID := middleware.GetCurrentUserID(c)
	project, err := h.projectService.Create(req.Name, req.Description, userID, req.MemberIDs)
	if err != nil {
		Fail(c, err)
		return
	}

	data := gin.H{
		"id":          project.ID,
		"name":        project.Name,
		"key":         project.Key,
		"description": project.Description,
		"created_at":  project.CreatedAt,
	}
	if project.Owner != nil {
		data["owner"] = project.Owner.Brief()
	}
	Success(c, data)
}

// GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	page, pageSize := parsePage(c)
	userID := middleware.GetCurrentUserID(c)
	keyword := c.Query("keyword")
	sortBy := c.DefaultQuery("sort_by", "created_at")
	order := c.DefaultQuery("order", "desc")

	projects, total, err := h.projectService.List(userID, keyword, page, pageSize, sortBy, order)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(projects))
	for _, p := range projects {
		item := gin.H{
			"id":           p.ID,
			"name":         p.Name,
			"key":          p.Key,
			"description":  p.Description,
			"member_count": h.projectService.MemberCount(p.ID),
			"task_count":   h.projectService.TaskCount(p.ID),
			"created_at":   p.CreatedAt,
			"updated_at":   p.UpdatedAt,
		}
		if p.Owner != nil {
			item["owner"] = p.Owner.Brief()
		}
		list = append(list, item)
	}
	SuccessPaged(c, list, total, page, pageSize)
}

// GET /projects/:id
func (h *ProjectHandler) GetDetail(c *gin.Context) {
	id := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	project, err := h.projectService.GetVisible(id, userID)
	if err != nil {
		Fail(c, err)
		return
	}

	members := make([]gin.H, 0, len(project.Members))
	for _, m := range project.Members {
		item := gin.H{
			"id":        m.UserID,
			"joined_at": m.JoinedAt,
		}
		if m.User != nil {
			item["username"] = m.User.Username
			item["name"] = m.User.Name
			item["avatar"] = m.User.Avatar
		}
		members = append(members, item)
	}

	data := gin.H{
		"id":          project.ID,
		"name":        project.Name,
		"key":         project.Key,
		"description": project.Description,
		"members":     members,
		"stats":       h.projectService.Stats(id),
		"created_at":  project.CreatedAt,
		"updated_at":  project.UpdatedAt,
	}
	if project.Owner != nil {
		data["owner"] = project.Owner.Brief()
	}
	Success(c, data)
}

// PUT /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	if _, err := h.projectService.GetOwned(id, userID); err != nil {
		Fail(c, err)
		return
	}

	var req struct {
		Name        *string `json:"name" binding:"omitempty,max=200"`
		Description *string `json:"description" binding:"omitempty,max=5000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	updated, err := h.projectService.Update(id, updates)
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{
		"id":          updated.ID,
		"name":        updated.Name,
		"key":         updated.Key,
		"description": updated.Description,
		"updated_at":  updated.UpdatedAt,
	})
}

// DELETE /projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	if _, err := h.projectService.GetOwned(id, userID); err != nil {
		Fail(c, err)
		return
	}

	if err := h.projectService.Delete(id); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"id": id, "deleted": true})
}

// POST /projects/:id/members
func (h *ProjectHandler) AddMembers(c *gin.Context) {
	id := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	project, err := h.projectService.GetOwned(id, userID)
	if err != nil {
		Fail(c, err)
		return
	}

	var req struct {
		UserIDs []uint `json:"user_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	added, skipped, err := h.projectService.AddMembers(id, req.UserIDs)
	if err != nil {
		Fail(c, err)
		return
	}

	if h.notifier != nil {
		adder := middleware.GetCurrentUser(c)
		for _, m := range added {
			go h.notifier.NotifyMemberAdded(context.Background(), notify.MemberAddedEvent{
				ProjectID:   project.ID,
				ProjectName: project.Name,
				UserID:      m.ID,
				AddedByName: adder.Username,
			})
		}
	}

	Success(c, gin.H{"added": added, "skipped": skipped})
}

// DELETE /projects/:id/members/:user_id
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	memberUserID := parseID(c.Param("user_id"))
	userID := middleware.GetCurrentUserID(c)

	if _, err := h.projectService.GetOwned(projectID, userID); err != nil {
		Fail(c, err)
		return
	}

	if err := h.projectService.RemoveMember(projectID, memberUserID); err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"removed": memberUserID})
}
