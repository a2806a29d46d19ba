package service

import (
	"fmt"
	"time"

	"github.com/aps4398/project-manager/internal/model"
	"gorm.io/gorm"
)

// CatalogService manages labels, components and versions. Labels are global;
// components and versions are scoped to a single project.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) CreateLabel(name, color string) (*model.Label, error) {
	if color == "" {
		color = "#6b7280"
	}
	label := &model.Label{Name: name, Color: color}
	if err := s.db.Create(label).Error; err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("40004:a label with this name already exists")
		}
		return nil, err
	}
	return label, nil
}

func (s *CatalogService) ListLabels() ([]model.Label, error) {
	var labels []model.Label
	if err := s.db.Order("name asc").Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

// DeleteLabel detaches the label from tasks and removes it; tasks survive.
func (s *CatalogService) DeleteLabel(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM task_labels WHERE label_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Label{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("40406:label not found")
		}
		return nil
	})
}

func (s *CatalogService) CreateComponent(projectID uint, name, description string) (*model.Component, error) {
	component := &model.Component{ProjectID: projectID, Name: name, Description: description}
	if err := s.db.Create(component).Error; err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("40004:a component with this name already exists in the project")
		}
		return nil, err
	}
	return component, nil
}

func (s *CatalogService) ListComponents(projectID uint) ([]model.Component, error) {
	var components []model.Component
	if err := s.db.Where("project_id = ?", projectID).Order("name asc").Find(&components).Error; err != nil {
		return nil, err
	}
	return components, nil
}

func (s *CatalogService) DeleteComponent(id, projectID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM task_components WHERE component_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Where("project_id = ?", projectID).Delete(&model.Component{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("40407:component not found")
		}
		return nil
	})
}

func (s *CatalogService) CreateVersion(projectID uint, name, description string, releaseDate *time.Time) (*model.Version, error) {
	version := &model.Version{
		ProjectID:   projectID,
		Name:        name,
		Description: description,
		ReleaseDate: releaseDate,
	}
	if err := s.db.Create(version).Error; err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("40004:a version with this name already exists in the project")
		}
		return nil, err
	}
	return version, nil
}

func (s *CatalogService) ListVersions(projectID uint) ([]model.Version, error) {
	var versions []model.Version
	if err := s.db.Where("project_id = ?", projectID).Order("name asc").Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

func (s *CatalogService) ReleaseVersion(id, projectID uint) (*model.Version, error) {
	var version model.Version
	if err := s.db.Where("project_id = ?", projectID).First(&version, id).Error; err != nil {
		return nil, fmt.Errorf("40408:version not found")
	}
	now := time.Now()
	updates := map[string]interface{}{"is_released": true}
	if version.ReleaseDate == nil {
		updates["release_date"] = &now
	}
	if err := s.db.Model(&version).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &version, nil
}

func (s *CatalogService) DeleteVersion(id, projectID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"task_fix_versions", "task_affects_versions"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE version_id = ?", id).Error; err != nil {
				return err
			}
		}
		result := tx.Where("project_id = ?", projectID).Delete(&model.Version{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("40408:version not found")
		}
		return nil
	})
}
