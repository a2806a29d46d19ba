package handler

import (
	"strconv"

	"github.com/aps4398/project-manager/internal/service"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	authService *service.AuthService
}

func NewUserHandler(authService *service.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// GET /users/search
func (h *UserHandler) SearchUsers(c *gin.Context) {
	keyword := c.Query("keyword")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 50 {
		limit = 20
	}

	var excludeProjectID *uint
	if s := c.Query("exclude_project_id"); s != "" {
		v := parseID(s)
		excludeProjectID = &v
	}

	users, err := h.authService.SearchUsers(keyword, excludeProjectID, limit)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(users))
	for _, u := range users {
		list = append(list, gin.H{
			"id":       u.ID,
			"username": u.Username,
			"name":     u.Name,
			"avatar":   u.Avatar,
		})
	}
	Success(c, list)
}

// GET /admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, pageSize := parsePage(c)
	keyword := c.Query("keyword")

	users, total, err := h.authService.ListUsers(keyword, page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(users))
	for _, u := range users {
		list = append(list, gin.H{
			"id":            u.ID,
			"username":      u.Username,
			"name":          u.Name,
			"email":         u.Email,
			"is_admin":      u.IsAdmin,
			"last_login_at": u.LastLoginAt,
			"created_at":    u.CreatedAt,
		})
	}
	SuccessPaged(c, list, total, page, pageSize)
}
