package handler

import (
	"github.com/aps4398/project-manager/internal/middleware"
	"github.com/aps4398/project-manager/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=64"`
		Password string `json:"password" binding:"required,min=8,max=128"`
		Email    string `json:"email" binding:"omitempty,email"`
		Name     string `json:"name" binding:"max=64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	user, err := h.authService.Register(req.Username, req.Password, req.Email, req.Name)
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"name":       user.Name,
		"created_at": user.CreatedAt,
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	user, token, expireAt, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{
		"token":     token,
		"expire_at": expireAt,
		"user":      user.Brief(),
	})
}

// GET /auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		Unauthorized(c, 40103, "not authenticated")
		return
	}
	Success(c, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"name":          user.Name,
		"email":         user.Email,
		"avatar":        user.Avatar,
		"is_admin":      user.IsAdmin,
		"last_login_at": user.LastLoginAt,
		"created_at":    user.CreatedAt,
	})
}

// PUT /auth/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req struct {
		Name   *string `json:"name"`
		Email  *string `json:"email" binding:"omitempty,email"`
		Avatar *string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}

	user, err := h.authService.UpdateProfile(userID, updates)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"name":       user.Name,
		"email":      user.Email,
		"avatar":     user.Avatar,
		"updated_at": user.UpdatedAt,
	})
}

// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	token, expireAt, err := h.authService.RefreshToken(userID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{
		"token":     token,
		"expire_at": expireAt,
	})
}
