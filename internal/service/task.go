package service

import (
	"fmt"
	"math"
	"time"

	"github.com/aps4398/project-manager/internal/model"
	"gorm.io/gorm"
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

// TaskInput carries the typed fields of a create request. Enum fields arrive
// already restricted at the handler boundary but are re-checked here so no
// other caller can slip an unknown value through.
type TaskInput struct {
	Title             string
	Description       string
	AssigneeID        *uint
	EpicID            *uint
	SprintID          *uint
	Status            model.TaskStatus
	Priority          model.TaskPriority
	Type              model.IssueType
	StoryPoints       *uint
	TimeEstimate      *int64
	DueDate           *time.Time
	LabelIDs          []uint
	ComponentIDs      []uint
	FixVersionIDs     []uint
	AffectsVersionIDs []uint
}

func (s *TaskService) Create(project *model.Project, reporterID uint, in TaskInput) (*model.Task, error) {
	if in.Status == "" {
		in.Status = model.TaskStatusBacklog
	}
	if in.Priority == "" {
		in.Priority = model.TaskPriorityMedium
	}
	if in.Type == "" {
		in.Type = model.IssueTypeTask
	}
	if err := validateTaskEnums(in.Status, in.Priority, in.Type); err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:        in.Title,
		Description:  in.Description,
		ProjectID:    project.ID,
		ReporterID:   reporterID,
		AssigneeID:   in.AssigneeID,
		EpicID:       in.EpicID,
		SprintID:     in.SprintID,
		Status:       in.Status,
		Priority:     in.Priority,
		Type:         in.Type,
		StoryPoints:  in.StoryPoints,
		TimeEstimate: in.TimeEstimate,
		DueDate:      in.DueDate,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		key, err := nextTaskKey(tx, project)
		if err != nil {
			return err
		}
		task.Key = key
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		return s.replaceAssociations(tx, task, in.LabelIDs, in.ComponentIDs, in.FixVersionIDs, in.AffectsVersionIDs)
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("40004:task key already taken, please retry")
		}
		return nil, err
	}

	return s.reload(task.ID)
}

// TaskFilter narrows List; zero values mean no filtering on that field.
type TaskFilter struct {
	ProjectID  *uint
	Status     string
	Priority   string
	IssueType  string
	AssigneeID *uint
	EpicID     *uint
	SprintID   *uint
	LabelID    *uint
	Keyword    string
}

// List returns tasks inside the user's visible set, newest first.
func (s *TaskService) List(userID uint, f TaskFilter, page, pageSize int) ([]model.Task, int64, error) {
	query := s.db.Model(&model.Task{}).Scopes(TasksVisibleTo(userID))

	if f.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *f.ProjectID)
	}
	if f.Status != "" {
		query = query.Where("tasks.status = ?", f.Status)
	}
	if f.Priority != "" {
		query = query.Where("tasks.priority = ?", f.Priority)
	}
	if f.IssueType != "" {
		query = query.Where("tasks.issue_type = ?", f.IssueType)
	}
	if f.AssigneeID != nil {
		query = query.Where("tasks.assignee_id = ?", *f.AssigneeID)
	}
	if f.EpicID != nil {
		query = query.Where("tasks.epic_id = ?", *f.EpicID)
	}
	if f.SprintID != nil {
		query = query.Where("tasks.sprint_id = ?", *f.SprintID)
	}
	if f.LabelID != nil {
		query = query.Where("tasks.id IN (SELECT task_id FROM task_labels WHERE label_id = ?)", *f.LabelID)
	}
	if f.Keyword != "" {
		query = query.Where("tasks.title LIKE ? OR tasks.task_key LIKE ?", "%"+f.Keyword+"%", "%"+f.Keyword+"%")
	}

	var total int64
	query.Count(&total)

	var tasks []model.Task
	if err := query.Preload("Assignee").Preload("Epic").Preload("Sprint").Preload("Labels").
		Order("tasks.created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// StatusCounts tallies the user's visible tasks per status, optionally within
// one project.
func (s *TaskService) StatusCounts(userID uint, projectID *uint) map[string]int64 {
	counts := make(map[string]int64)
	for _, st := range model.TaskStatuses {
		query := s.db.Model(&model.Task{}).Scopes(TasksVisibleTo(userID)).Where("tasks.status = ?", st)
		if projectID != nil {
			query = query.Where("tasks.project_id = ?", *projectID)
		}
		var count int64
		query.Count(&count)
		counts[string(st)] = count
	}
	return counts
}

// Board groups a project's tasks into status columns, in column order.
func (s *TaskService) Board(projectID uint) (map[model.TaskStatus][]model.Task, error) {
	columns := make(map[model.TaskStatus][]model.Task, len(model.TaskStatuses))
	for _, st := range model.TaskStatuses {
		var tasks []model.Task
		if err := s.db.Where("project_id = ? AND status = ?", projectID, st).
			Preload("Assignee").Preload("Epic").Preload("Sprint").
			Order("created_at desc").Find(&tasks).Error; err != nil {
			return nil, err
		}
		columns[st] = tasks
	}
	return columns, nil
}

// GetVisible loads a task the user can see, with detail relations.
func (s *TaskService) GetVisible(id, userID uint) (*model.Task, error) {
	var task model.Task
	err := s.db.Scopes(TasksVisibleTo(userID)).
		Preload("Project").Preload("Assignee").Preload("Reporter").
		Preload("Epic").Preload("Sprint").Preload("Labels").
		Preload("Components").Preload("FixVersions").Preload("AffectsVersions").
		First(&task, id).Error
	if err != nil {
		return nil, fmt.Errorf("40405:task not found")
	}
	return &task, nil
}

// GetVisibleByKey resolves a task by its human-readable key, e.g. ABC-12.
func (s *TaskService) GetVisibleByKey(key string, userID uint) (*model.Task, error) {
	var task model.Task
	err := s.db.Scopes(TasksVisibleTo(userID)).Where("task_key = ?", key).First(&task).Error
	if err != nil {
		return nil, fmt.Errorf("40405:task not found")
	}
	return s.GetVisible(task.ID, userID)
}

// TaskUpdate carries optional field changes; nil means leave unchanged. The
// key is immutable and deliberately absent.
type TaskUpdate struct {
	Title             *string
	Description       *string
	AssigneeID        *uint
	ClearAssignee     bool
	EpicID            *uint
	ClearEpic         bool
	SprintID          *uint
	ClearSprint       bool
	Status            *model.TaskStatus
	Priority          *model.TaskPriority
	Type              *model.IssueType
	StoryPoints       *uint
	TimeEstimate      *int64
	DueDate           *time.Time
	LabelIDs          *[]uint
	ComponentIDs      *[]uint
	FixVersionIDs     *[]uint
	AffectsVersionIDs *[]uint
}

func (s *TaskService) Update(task *model.Task, up TaskUpdate) (*model.Task, error) {
	updates := make(map[string]interface{})
	if up.Title != nil {
		updates["title"] = *up.Title
	}
	if up.Description != nil {
		updates["description"] = *up.Description
	}
	if up.ClearAssignee {
		updates["assignee_id"] = nil
	} else if up.AssigneeID != nil {
		updates["assignee_id"] = *up.AssigneeID
	}
	if up.ClearEpic {
		updates["epic_id"] = nil
	} else if up.EpicID != nil {
		updates["epic_id"] = *up.EpicID
	}
	if up.ClearSprint {
		updates["sprint_id"] = nil
	} else if up.SprintID != nil {
		updates["sprint_id"] = *up.SprintID
	}
	if up.Status != nil {
		if !up.Status.Valid() {
			return nil, fmt.Errorf("40002:invalid status")
		}
		updates["status"] = *up.Status
	}
	if up.Priority != nil {
		if !up.Priority.Valid() {
			return nil, fmt.Errorf("40002:invalid priority")
		}
		updates["priority"] = *up.Priority
	}
	if up.Type != nil {
		if !up.Type.Valid() {
			return nil, fmt.Errorf("40002:invalid issue type")
		}
		updates["issue_type"] = *up.Type
	}
	if up.StoryPoints != nil {
		updates["story_points"] = *up.StoryPoints
	}
	if up.TimeEstimate != nil {
		updates["time_estimate_seconds"] = *up.TimeEstimate
	}
	if up.DueDate != nil {
		updates["due_date"] = *up.DueDate
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(task).Updates(updates).Error; err != nil {
				return err
			}
		}
		var labels, components, fixVersions, affectsVersions []uint
		if up.LabelIDs == nil && up.ComponentIDs == nil && up.FixVersionIDs == nil && up.AffectsVersionIDs == nil {
			return nil
		}
		if up.LabelIDs != nil {
			labels = *up.LabelIDs
		} else {
			labels = collectIDs(task.Labels)
		}
		if up.ComponentIDs != nil {
			components = *up.ComponentIDs
		} else {
			components = collectComponentIDs(task.Components)
		}
		if up.FixVersionIDs != nil {
			fixVersions = *up.FixVersionIDs
		} else {
			fixVersions = collectVersionIDs(task.FixVersions)
		}
		if up.AffectsVersionIDs != nil {
			affectsVersions = *up.AffectsVersionIDs
		} else {
			affectsVersions = collectVersionIDs(task.AffectsVersions)
		}
		return s.replaceAssociations(tx, task, labels, components, fixVersions, affectsVersions)
	})
	if err != nil {
		return nil, err
	}
	return s.reload(task.ID)
}

// UpdateStatus is the single write path for the status workflow. Any status
// may move to any other; an unknown value is rejected with no partial write.
func (s *TaskService) UpdateStatus(task *model.Task, status model.TaskStatus) error {
	if !status.Valid() {
		return fmt.Errorf("40002:invalid status")
	}
	return s.db.Model(task).Update("status", status).Error
}

// LogTime adds hours to the task's accumulated time. Over-logging past the
// estimate is allowed; negative or non-finite values are rejected without
// touching state.
func (s *TaskService) LogTime(task *model.Task, hours float64) error {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return fmt.Errorf("40002:invalid time value")
	}
	seconds := int64(hours * 3600)
	if err := s.db.Model(task).
		Update("time_logged_seconds", gorm.Expr("time_logged_seconds + ?", seconds)).Error; err != nil {
		return err
	}
	task.TimeLogged += seconds
	return nil
}

func (s *TaskService) Delete(task *model.Task) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		for _, table := range []string{"task_labels", "task_components", "task_fix_versions", "task_affects_versions"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE task_id = ?", task.ID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(task).Error
	})
}

// ValidateEpic checks the epic belongs to the task's project.
func (s *TaskService) ValidateEpic(projectID, epicID uint) error {
	var count int64
	s.db.Model(&model.Epic{}).Where("project_id = ? AND id = ?", projectID, epicID).Count(&count)
	if count == 0 {
		return fmt.Errorf("40002:epic does not belong to the project")
	}
	return nil
}

// ValidateSprint checks the sprint belongs to the task's project.
func (s *TaskService) ValidateSprint(projectID, sprintID uint) error {
	var count int64
	s.db.Model(&model.Sprint{}).Where("project_id = ? AND id = ?", projectID, sprintID).Count(&count)
	if count == 0 {
		return fmt.Errorf("40002:sprint does not belong to the project")
	}
	return nil
}

func (s *TaskService) reload(id uint) (*model.Task, error) {
	var task model.Task
	err := s.db.Preload("Project").Preload("Assignee").Preload("Reporter").
		Preload("Epic").Preload("Sprint").Preload("Labels").
		Preload("Components").Preload("FixVersions").Preload("AffectsVersions").
		First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) replaceAssociations(tx *gorm.DB, task *model.Task, labelIDs, componentIDs, fixVersionIDs, affectsVersionIDs []uint) error {
	var labels []model.Label
	if len(labelIDs) > 0 {
		if err := tx.Find(&labels, labelIDs).Error; err != nil {
			return err
		}
	}
	if err := tx.Model(task).Association("Labels").Replace(labels); err != nil {
		return err
	}

	var components []model.Component
	if len(componentIDs) > 0 {
		if err := tx.Where("project_id = ?", task.ProjectID).Find(&components, componentIDs).Error; err != nil {
			return err
		}
		if len(components) != len(componentIDs) {
			return fmt.Errorf("40002:component does not belong to the project")
		}
	}
	if err := tx.Model(task).Association("Components").Replace(components); err != nil {
		return err
	}

	replaceVersions := func(assoc string, ids []uint) error {
		var versions []model.Version
		if len(ids) > 0 {
			if err := tx.Where("project_id = ?", task.ProjectID).Find(&versions, ids).Error; err != nil {
				return err
			}
			if len(versions) != len(ids) {
				return fmt.Errorf("40002:version does not belong to the project")
			}
		}
		return tx.Model(task).Association(assoc).Replace(versions)
	}
	if err := replaceVersions("FixVersions", fixVersionIDs); err != nil {
		return err
	}
	return replaceVersions("AffectsVersions", affectsVersionIDs)
}

func validateTaskEnums(status model.TaskStatus, priority model.TaskPriority, issueType model.IssueType) error {
	if !status.Valid() {
		return fmt.Errorf("40002:invalid status")
	}
	if !priority.Valid() {
		return fmt.Errorf("40002:invalid priority")
	}
	if !issueType.Valid() {
		return fmt.Errorf("40002:invalid issue type")
	}
	return nil
}

func collectIDs(labels []model.Label) []uint {
	ids := make([]uint, 0, len(labels))
	for _, l := range labels {
		ids = append(ids, l.ID)
	}
	return ids
}

func collectComponentIDs(components []model.Component) []uint {
	ids := make([]uint, 0, len(components))
	for _, c := range components {
		ids = append(ids, c.ID)
	}
	return ids
}

func collectVersionIDs(versions []model.Version) []uint {
	ids := make([]uint, 0, len(versions))
	for _, v := range versions {
		ids = append(ids, v.ID)
	}
	return ids
}
