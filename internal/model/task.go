package model

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusBacklog    TaskStatus = "backlog"
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusInReview   TaskStatus = "in_review"
	TaskStatusDone       TaskStatus = "done"
)

// TaskStatuses lists every status in board-column order.
var TaskStatuses = []TaskStatus{
	TaskStatusBacklog,
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusInReview,
	TaskStatusDone,
}

func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLowest  TaskPriority = "lowest"
	TaskPriorityLow     TaskPriority = "low"
	TaskPriorityMedium  TaskPriority = "medium"
	TaskPriorityHigh    TaskPriority = "high"
	TaskPriorityHighest TaskPriority = "highest"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLowest, TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityHighest:
		return true
	}
	return false
}

type IssueType string

const (
	IssueTypeStory   IssueType = "story"
	IssueTypeTask    IssueType = "task"
	IssueTypeBug     IssueType = "bug"
	IssueTypeEpic    IssueType = "epic"
	IssueTypeSubtask IssueType = "subtask"
)

func (t IssueType) Valid() bool {
	switch t {
	case IssueTypeStory, IssueTypeTask, IssueTypeBug, IssueTypeEpic, IssueTypeSubtask:
		return true
	}
	return false
}

type Task struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"type:varchar(200);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	// Key is {project.key}-{n}, assigned once at creation, immutable afterwards.
	Key        string `gorm:"column:task_key;type:varchar(20);uniqueIndex:uk_task_key;not null" json:"key"`
	ProjectID  uint   `gorm:"not null;index:idx_task_project_id" json:"project_id"`
	AssigneeID *uint  `gorm:"index:idx_assignee_id" json:"assignee_id"`
	ReporterID uint   `gorm:"not null" json:"reporter_id"`
	EpicID     *uint  `gorm:"index:idx_epic_id" json:"epic_id"`
	SprintID   *uint  `gorm:"index:idx_sprint_id" json:"sprint_id"`

	Status   TaskStatus   `gorm:"type:varchar(20);default:backlog;index:idx_status" json:"status"`
	Priority TaskPriority `gorm:"type:varchar(10);default:medium" json:"priority"`
	Type     IssueType    `gorm:"column:issue_type;type:varchar(10);default:task" json:"issue_type"`

	StoryPoints *uint `json:"story_points"`
	// Durations are stored as whole seconds.
	TimeEstimate *int64     `gorm:"column:time_estimate_seconds" json:"time_estimate_seconds"`
	TimeLogged   int64      `gorm:"column:time_logged_seconds;not null;default:0" json:"time_logged_seconds"`
	DueDate      *time.Time `json:"due_date"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Project  *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignee *User     `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Reporter *User     `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	Epic     *Epic     `gorm:"foreignKey:EpicID" json:"epic,omitempty"`
	Sprint   *Sprint   `gorm:"foreignKey:SprintID" json:"sprint,omitempty"`
	Labels   []Label   `gorm:"many2many:task_labels" json:"labels,omitempty"`

	Components      []Component `gorm:"many2many:task_components" json:"components,omitempty"`
	FixVersions     []Version   `gorm:"many2many:task_fix_versions" json:"fix_versions,omitempty"`
	AffectsVersions []Version   `gorm:"many2many:task_affects_versions" json:"affects_versions,omitempty"`

	Comments    []Comment    `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

func (Task) TableName() string { return "tasks" }

// TimeLoggedHours reports accumulated time in hours for display.
func (t *Task) TimeLoggedHours() float64 {
	return time.Duration(t.TimeLogged * int64(time.Second)).Hours()
}
