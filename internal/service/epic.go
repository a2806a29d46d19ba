package service

import (
	"fmt"

	"github.com/aps4398/project-manager/internal/model"
	"gorm.io/gorm"
)

type EpicService struct {
	db *gorm.DB
}

func NewEpicService(db *gorm.DB) *EpicService {
	return &EpicService{db: db}
}

func (s *EpicService) Create(projectID uint, name, description string) (*model.Epic, error) {
	var count int64
	s.db.Model(&model.Epic{}).Where("project_id = ? AND name = ?", projectID, name).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("40004:an epic with this name already exists in the project")
	}

	epic := &model.Epic{
		ProjectID:   projectID,
		Name:        name,
		Description: description,
		Status:      model.EpicStatusTodo,
	}
	if err := s.db.Create(epic).Error; err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("40004:an epic with this name already exists in the project")
		}
		return nil, err
	}
	return epic, nil
}

func (s *EpicService) ListByProject(projectID uint) ([]model.Epic, error) {
	var epics []model.Epic
	if err := s.db.Where("project_id = ?", projectID).Order("created_at desc").Find(&epics).Error; err != nil {
		return nil, err
	}
	return epics, nil
}

func (s *EpicService) GetInProject(id, projectID uint) (*model.Epic, error) {
	var epic model.Epic
	if err := s.db.Where("project_id = ?", projectID).First(&epic, id).Error; err != nil {
		return nil, fmt.Errorf("40403:epic not found")
	}
	return &epic, nil
}

func (s *EpicService) Update(epic *model.Epic, name, description *string, status *model.EpicStatus) (*model.Epic, error) {
	updates := make(map[string]interface{})
	if name != nil && *name != epic.Name {
		var count int64
		s.db.Model(&model.Epic{}).Where("project_id = ? AND name = ? AND id <> ?", epic.ProjectID, *name, epic.ID).Count(&count)
		if count > 0 {
			return nil, fmt.Errorf("40004:an epic with this name already exists in the project")
		}
		updates["name"] = *name
	}
	if description != nil {
		updates["description"] = *description
	}
	if status != nil {
		if !status.Valid() {
			return nil, fmt.Errorf("40002:invalid epic status")
		}
		updates["status"] = *status
	}

	if err := s.db.Model(epic).Updates(updates).Error; err != nil {
		return nil, err
	}
	return epic, nil
}

// Delete detaches the epic from its tasks before removing it; the tasks stay.
func (s *EpicService) Delete(epic *model.Epic) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Task{}).Where("epic_id = ?", epic.ID).Update("epic_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(epic).Error
	})
}

func (s *EpicService) TaskCount(epicID uint) int64 {
	var count int64
	s.db.Model(&model.Task{}).Where("epic_id = ?", epicID).Count(&count)
	return count
}
