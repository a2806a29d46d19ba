package notify

import (
	"context"
	"log"
)

// Notifier is the delivery boundary for user-facing notifications. Actual
// delivery (mail, chat) lives outside this service; the core only emits
// events through this interface.
type Notifier interface {
	NotifyTaskAssigned(ctx context.Context, e TaskAssignedEvent) error
	NotifyCommentAdded(ctx context.Context, e CommentAddedEvent) error
	NotifyMemberAdded(ctx context.Context, e MemberAddedEvent) error
}

type TaskAssignedEvent struct {
	TaskID       uint
	TaskKey      string
	Title        string
	ProjectName  string
	AssigneeID   uint
	AssignerName string
	Priority     string
}

type CommentAddedEvent struct {
	TaskID      uint
	TaskKey     string
	CommentID   uint
	AuthorName  string
	RecipientID uint
}

type MemberAddedEvent struct {
	ProjectID   uint
	ProjectName string
	UserID      uint
	AddedByName string
}

// NoopNotifier is used when no delivery channel is configured.
type NoopNotifier struct{}

func (NoopNotifier) NotifyTaskAssigned(context.Context, TaskAssignedEvent) error { return nil }
func (NoopNotifier) NotifyCommentAdded(context.Context, CommentAddedEvent) error { return nil }
func (NoopNotifier) NotifyMemberAdded(context.Context, MemberAddedEvent) error   { return nil }

// LogNotifier writes events to the process log; useful in development and as
// a template for a real delivery integration.
type LogNotifier struct{}

func (LogNotifier) NotifyTaskAssigned(_ context.Context, e TaskAssignedEvent) error {
	log.Printf("[notify] task %s (%q) assigned to user %d", e.TaskKey, e.Title, e.AssigneeID)
	return nil
}

func (LogNotifier) NotifyCommentAdded(_ context.Context, e CommentAddedEvent) error {
	log.Printf("[notify] %s commented on task %s", e.AuthorName, e.TaskKey)
	return nil
}

func (LogNotifier) NotifyMemberAdded(_ context.Context, e MemberAddedEvent) error {
	log.Printf("[notify] user %d added to project %q by %s", e.UserID, e.ProjectName, e.AddedByName)
	return nil
}

var (
	_ Notifier = NoopNotifier{}
	_ Notifier = LogNotifier{}
)
