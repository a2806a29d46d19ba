package handler

import (
	"time"

	"github.com/aps4398/project-manager/internal/middleware"
	"github.com/aps4398/project-manager/internal/model"
	"github.com/aps4398/project-manager/internal/service"
	"github.com/gin-gonic/gin"
)

type SprintHandler struct {
	sprintService  *service.SprintService
	projectService *service.ProjectService
}

func NewSprintHandler(sprintService *service.SprintService, projectService *service.ProjectService) *SprintHandler {
	return &SprintHandler{sprintService: sprintService, projectService: projectService}
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	return t, err == nil
}

// POST /projects/:id/sprints
func (h *SprintHandler) Create(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	if _, err := h.projectService.GetVisible(projectID, userID); err != nil {
		Fail(c, err)
		return
	}

	var req struct {
		Name      string `json:"name" binding:"required,max=200"`
		Goal      string `json:"goal"`
		StartDate string `json:"start_date" binding:"required"`
		EndDate   string `json:"end_date" binding:"required"`
		IsActive  bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	start, ok := parseDate(req.StartDate)
	if !ok {
		BadRequest(c, 40001, "start_date must be YYYY-MM-DD")
		return
	}
	end, ok := parseDate(req.EndDate)
	if !ok {
		BadRequest(c, 40001, "end_date must be YYYY-MM-DD")
		return
	}

	sprint, err := h.sprintService.Create(projectID, req.Name, req.Goal, start, end, req.IsActive)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, sprintJSON(sprint))
}

// GET /projects/:id/sprints
func (h *SprintHandler) List(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	if _, err := h.projectService.GetVisible(projectID, userID); err != nil {
		Fail(c, err)
		return
	}

	sprints, err := h.sprintService.ListByProject(projectID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(sprints))
	for i := range sprints {
		list = append(list, sprintJSON(&sprints[i]))
	}
	Success(c, list)
}

// PUT /projects/:id/sprints/:sprint_id
func (h *SprintHandler) Update(c *gin.Context) {
	sprint, ok := h.loadSprint(c)
	if !ok {
		return
	}

	var req struct {
		Name      *string `json:"name" binding:"omitempty,max=200"`
		Goal      *string `json:"goal"`
		StartDate *string `json:"start_date"`
		EndDate   *string `json:"end_date"`
		IsActive  *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	var start, end *time.Time
	if req.StartDate != nil {
		t, ok := parseDate(*req.StartDate)
		if !ok {
			BadRequest(c, 40001, "start_date must be YYYY-MM-DD")
			return
		}
		start = &t
	}
	if req.EndDate != nil {
		t, ok := parseDate(*req.EndDate)
		if !ok {
			BadRequest(c, 40001, "end_date must be YYYY-MM-DD")
			return
		}
		end = &t
	}

	updated, err := h.sprintService.Update(sprint, req.Name, req.Goal, start, end, req.IsActive)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, sprintJSON(updated))
}

// POST /projects/:id/sprints/:sprint_id/activate
func (h *SprintHandler) Activate(c *gin.Context) {
	sprint, ok := h.loadSprint(c)
	if !ok {
		return
	}
	if err := h.sprintService.Activate(sprint); err != nil {
		Fail(c, err)
		return
	}
	Success(c, sprintJSON(sprint))
}

// POST /projects/:id/sprints/:sprint_id/complete
func (h *SprintHandler) Complete(c *gin.Context) {
	sprint, ok := h.loadSprint(c)
	if !ok {
		return
	}
	if err := h.sprintService.Complete(sprint); err != nil {
		Fail(c, err)
		return
	}
	Success(c, sprintJSON(sprint))
}

// DELETE /projects/:id/sprints/:sprint_id
func (h *SprintHandler) Delete(c *gin.Context) {
	sprint, ok := h.loadSprint(c)
	if !ok {
		return
	}
	if err := h.sprintService.Delete(sprint); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"id": sprint.ID, "deleted": true})
}

func (h *SprintHandler) loadSprint(c *gin.Context) (*model.Sprint, bool) {
	projectID := parseID(c.Param("id"))
	sprintID := parseID(c.Param("sprint_id"))
	userID := middleware.GetCurrentUserID(c)

	if _, err := h.projectService.GetVisible(projectID, userID); err != nil {
		Fail(c, err)
		return nil, false
	}
	sprint, err := h.sprintService.GetInProject(sprintID, projectID)
	if err != nil {
		Fail(c, err)
		return nil, false
	}
	return sprint, true
}

func sprintJSON(s *model.Sprint) gin.H {
	return gin.H{
		"id":            s.ID,
		"name":          s.Name,
		"goal":          s.Goal,
		"project_id":    s.ProjectID,
		"start_date":    s.StartDate.Format(dateLayout),
		"end_date":      s.EndDate.Format(dateLayout),
		"is_active":     s.IsActive,
		"is_completed":  s.IsCompleted,
		"duration_days": s.DurationDays(),
		"created_at":    s.CreatedAt,
		"updated_at":    s.UpdatedAt,
	}
}
