package handler

import (
	"time"

	"github.com/aps4398/project-manager/internal/middleware"
	"github.com/aps4398/project-manager/internal/service"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
	projectService *service.ProjectService
}

func NewCatalogHandler(catalogService *service.CatalogService, projectService *service.ProjectService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, projectService: projectService}
}

// POST /labels
func (h *CatalogHandler) CreateLabel(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required,max=50"`
		Color string `json:"color" binding:"omitempty,hexcolor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	label, err := h.catalogService.CreateLabel(req.Name, req.Color)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, label)
}

// GET /labels
func (h *CatalogHandler) ListLabels(c *gin.Context) {
	labels, err := h.catalogService.ListLabels()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, labels)
}

// DELETE /labels/:id (admin)
func (h *CatalogHandler) DeleteLabel(c *gin.Context) {
	id := parseID(c.Param("id"))
	if err := h.catalogService.DeleteLabel(id); err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"id": id, "deleted": true})
}

// loadOwnedProject resolves the :id project and checks ownership; catalog
// mutations are owner-only while reads need membership.
func (h *CatalogHandler) loadOwnedProject(c *gin.Context) uint {
	projectID := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)
	if _, err := h.projectService.GetOwned(projectID, userID); err != nil {
		Fail(c, err)
		return 0
	}
	return projectID
}

func (h *CatalogHandler) loadVisibleProject(c *gin.Context) uint {
	projectID := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)
	if _, err := h.projectService.GetVisible(projectID, userID); err != nil {
		Fail(c, err)
		return 0
	}
	return projectID
}

// POST /projects/:id/components
func (h *CatalogHandler) CreateComponent(c *gin.Context) {
	projectID := h.loadOwnedProject(c)
	if projectID == 0 {
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required,max=100"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	component, err := h.catalogService.CreateComponent(projectID, req.Name, req.Description)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, component)
}

// GET /projects/:id/components
func (h *CatalogHandler) ListComponents(c *gin.Context) {
	projectID := h.loadVisibleProject(c)
	if projectID == 0 {
		return
	}

	components, err := h.catalogService.ListComponents(projectID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, components)
}

// DELETE /projects/:id/components/:component_id
func (h *CatalogHandler) DeleteComponent(c *gin.Context) {
	projectID := h.loadOwnedProject(c)
	if projectID == 0 {
		return
	}

	componentID := parseID(c.Param("component_id"))
	if err := h.catalogService.DeleteComponent(componentID, projectID); err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"id": componentID, "deleted": true})
}

// POST /projects/:id/versions
func (h *CatalogHandler) CreateVersion(c *gin.Context) {
	projectID := h.loadOwnedProject(c)
	if projectID == 0 {
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required,max=100"`
		Description string `json:"description"`
		ReleaseDate string `json:"release_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	var releaseDate *time.Time
	if req.ReleaseDate != "" {
		d, err := time.Parse(dateLayout, req.ReleaseDate)
		if err != nil {
			BadRequest(c, 40001, "release_date must be YYYY-MM-DD")
			return
		}
		releaseDate = &d
	}

	version, err := h.catalogService.CreateVersion(projectID, req.Name, req.Description, releaseDate)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, version)
}

// GET /projects/:id/versions
func (h *CatalogHandler) ListVersions(c *gin.Context) {
	projectID := h.loadVisibleProject(c)
	if projectID == 0 {
		return
	}

	versions, err := h.catalogService.ListVersions(projectID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, versions)
}

// POST /projects/:id/versions/:version_id/release
func (h *CatalogHandler) ReleaseVersion(c *gin.Context) {
	projectID := h.loadOwnedProject(c)
	if projectID == 0 {
		return
	}

	versionID := parseID(c.Param("version_id"))
	version, err := h.catalogService.ReleaseVersion(versionID, projectID)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, version)
}

// DELETE /projects/:id/versions/:version_id
func (h *CatalogHandler) DeleteVersion(c *gin.Context) {
	projectID := h.loadOwnedProject(c)
	if projectID == 0 {
		return
	}

	versionID := parseID(c.Param("version_id"))
	if err := h.catalogService.DeleteVersion(versionID, projectID); err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"id": versionID, "deleted": true})
}
