package service

import (
	"fmt"
	"time"

	"github.com/aps4398/project-manager/internal/model"
	"gorm.io/gorm"
)

type SprintService struct {
	db *gorm.DB
}

func NewSprintService(db *gorm.DB) *SprintService {
	return &SprintService{db: db}
}

func (s *SprintService) Create(projectID uint, name, goal string, start, end time.Time, active bool) (*model.Sprint, error) {
	sprint := &model.Sprint{
		ProjectID: projectID,
		Name:      name,
		Goal:      goal,
		StartDate: start,
		EndDate:   end,
		IsActive:  active,
	}
	if err := s.save(sprint); err != nil {
		return nil, err
	}
	return sprint, nil
}

func (s *SprintService) ListByProject(projectID uint) ([]model.Sprint, error) {
	var sprints []model.Sprint
	if err := s.db.Where("project_id = ?", projectID).Order("start_date desc").Find(&sprints).Error; err != nil {
		return nil, err
	}
	return sprints, nil
}

func (s *SprintService) GetInProject(id, projectID uint) (*model.Sprint, error) {
	var sprint model.Sprint
	if err := s.db.Where("project_id = ?", projectID).First(&sprint, id).Error; err != nil {
		return nil, fmt.Errorf("40404:sprint not found")
	}
	return &sprint, nil
}

func (s *SprintService) Update(sprint *model.Sprint, name, goal *string, start, end *time.Time, active *bool) (*model.Sprint, error) {
	if name != nil {
		sprint.Name = *name
	}
	if goal != nil {
		sprint.Goal = *goal
	}
	if start != nil {
		sprint.StartDate = *start
	}
	if end != nil {
		sprint.EndDate = *end
	}
	if active != nil {
		sprint.IsActive = *active
	}
	if err := s.save(sprint); err != nil {
		return nil, err
	}
	return sprint, nil
}

// Activate makes the sprint the project's single active one. When its end
// date already lies in the past the completion rule wins and the sprint comes
// back inactive and completed.
func (s *SprintService) Activate(sprint *model.Sprint) error {
	sprint.IsActive = true
	return s.save(sprint)
}

func (s *SprintService) Complete(sprint *model.Sprint) error {
	sprint.IsActive = false
	sprint.IsCompleted = true
	return s.save(sprint)
}

func (s *SprintService) Delete(sprint *model.Sprint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Task{}).Where("sprint_id = ?", sprint.ID).Update("sprint_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(sprint).Error
	})
}

// ActiveSprint returns the project's active sprint, or nil when none is.
func (s *SprintService) ActiveSprint(projectID uint) (*model.Sprint, error) {
	var sprint model.Sprint
	err := s.db.Where("project_id = ? AND is_active = ?", projectID, true).First(&sprint).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sprint, nil
}

// save applies the sprint invariants and persists. Activation deactivates
// every other active sprint of the project in the same transaction, so at
// most one active sprint per project is ever visible after commit. The
// past-end-date rule runs after exclusivity and therefore always wins.
func (s *SprintService) save(sprint *model.Sprint) error {
	if sprint.StartDate.After(sprint.EndDate) {
		return fmt.Errorf("40002:end date cannot be before start date")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if sprint.IsActive {
			if err := tx.Model(&model.Sprint{}).
				Where("project_id = ? AND is_active = ? AND id <> ?", sprint.ProjectID, true, sprint.ID).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}

		if dateBefore(sprint.EndDate, time.Now()) {
			sprint.IsCompleted = true
			sprint.IsActive = false
		}

		return tx.Save(sprint).Error
	})
}

// dateBefore compares calendar dates, ignoring the time of day.
func dateBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
