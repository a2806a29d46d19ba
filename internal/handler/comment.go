package handler

import (
	"context"

	"github.com/aps4398/project-manager/internal/middleware"
	"github.com/aps4398/project-manager/internal/notify"
	"github.com/aps4398/project-manager/internal/service"
	"github.com/aps4398/project-manager/internal/sse"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService *service.CommentService
	taskService    *service.TaskService
	hub            *sse.Hub
	notifier       notify.Notifier
}

func NewCommentHandler(commentService *service.CommentService, taskService *service.TaskService, hub *sse.Hub, notifier notify.Notifier) *CommentHandler {
	return &CommentHandler{commentService: commentService, taskService: taskService, hub: hub, notifier: notifier}
}

// POST /tasks/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	taskID := parseID(c.Param("id"))
	user := middleware.GetCurrentUser(c)

	task, err := h.taskService.GetVisible(taskID, user.ID)
	if err != nil {
		Fail(c, err)
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "comment content is required")
		return
	}

	comment, err := h.commentService.Add(task.ID, user.ID, req.Content)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	h.hub.Broadcast(task.ProjectID, sse.Event{
		Type: "comment_added",
		Data: gin.H{"task_id": task.ID, "key": task.Key, "comment_id": comment.ID, "author": user.Username},
	})
	// Tell the assignee, unless they wrote the comment themselves.
	if h.notifier != nil && task.AssigneeID != nil && *task.AssigneeID != user.ID {
		go h.notifier.NotifyCommentAdded(context.Background(), notify.CommentAddedEvent{
			TaskID:      task.ID,
			TaskKey:     task.Key,
			CommentID:   comment.ID,
			AuthorName:  user.Username,
			RecipientID: *task.AssigneeID,
		})
	}

	Success(c, comment)
}

// GET /tasks/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	taskID := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	task, err := h.taskService.GetVisible(taskID, userID)
	if err != nil {
		Fail(c, err)
		return
	}

	comments, err := h.commentService.ListByTask(task.ID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, comments)
}

// DELETE /tasks/:id/comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	taskID := parseID(c.Param("id"))
	commentID := parseID(c.Param("comment_id"))
	userID := middleware.GetCurrentUserID(c)
	isAdmin := middleware.GetCurrentUserIsAdmin(c)

	task, err := h.taskService.GetVisible(taskID, userID)
	if err != nil {
		Fail(c, err)
		return
	}

	if err := h.commentService.Delete(commentID, task.ID, userID, isAdmin); err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"id": commentID, "deleted": true})
}

// POST /tasks/:id/attachments
func (h *CommentHandler) AddAttachment(c *gin.Context) {
	taskID := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	task, err := h.taskService.GetVisible(taskID, userID)
	if err != nil {
		Fail(c, err)
		return
	}

	var req struct {
		FileName    string `json:"file_name" binding:"required,max=255"`
		StoragePath string `json:"storage_path" binding:"required,max=512"`
		Size        int64  `json:"size" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request: "+err.Error())
		return
	}

	attachment, err := h.commentService.AddAttachment(task.ID, userID, req.FileName, req.StoragePath, req.Size)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, attachment)
}

// GET /tasks/:id/attachments
func (h *CommentHandler) ListAttachments(c *gin.Context) {
	taskID := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	task, err := h.taskService.GetVisible(taskID, userID)
	if err != nil {
		Fail(c, err)
		return
	}

	attachments, err := h.commentService.ListAttachments(task.ID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, attachments)
}

// DELETE /tasks/:id/attachments/:attachment_id
func (h *CommentHandler) DeleteAttachment(c *gin.Context) {
	taskID := parseID(c.Param("id"))
	attachmentID := parseID(c.Param("attachment_id"))
	userID := middleware.GetCurrentUserID(c)
	isAdmin := middleware.GetCurrentUserIsAdmin(c)

	task, err := h.taskService.GetVisible(taskID, userID)
	if err != nil {
		Fail(c, err)
		return
	}

	if err := h.commentService.DeleteAttachment(attachmentID, task.ID, userID, isAdmin); err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"id": attachmentID, "deleted": true})
}
