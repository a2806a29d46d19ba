package service

import (
	"fmt"

	"github.com/aps4398/project-manager/internal/model"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// Create assigns the project key and inserts the row in one transaction. A
// losing racer still fails on the unique index and gets a conflict back; the
// caller decides whether to retry.
func (s *ProjectService) Create(name, description string, ownerID uint, memberIDs []uint) (*model.Project, error) {
	project := &model.Project{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		key, err := generateProjectKey(tx, name)
		if err != nil {
			return err
		}
		project.Key = key
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		for _, uid := range memberIDs {
			if uid == ownerID {
				continue
			}
			member := &model.ProjectMember{ProjectID: project.ID, UserID: uid}
			if err := tx.Create(member).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("40004:project key already taken, please retry")
		}
		return nil, err
	}

	s.db.Preload("Owner").First(project, project.ID)
	return project, nil
}

func (s *ProjectService) List(userID uint, keyword string, page, pageSize int, sortBy, order string) ([]model.Project, int64, error) {
	query := s.db.Model(&model.Project{}).Scopes(ProjectsVisibleTo(userID))
	if keyword != "" {
		query = query.Where("name LIKE ?", "%"+keyword+"%")
	}

	var total int64
	query.Count(&total)

	if sortBy == "" {
		sortBy = "created_at"
	}
	if order == "" {
		order = "desc"
	}
	query = query.Order(sortBy + " " + order)

	var projects []model.Project
	if err := query.Preload("Owner").Offset((page - 1) * pageSize).Limit(pageSize).Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// GetVisible loads a project the user can see. Rows outside the visible set
// come back as the same not-found error as rows that do not exist.
func (s *ProjectService) GetVisible(id, userID uint) (*model.Project, error) {
	var project model.Project
	err := s.db.Scopes(ProjectsVisibleTo(userID)).
		Preload("Owner").Preload("Members.User").
		First(&project, id).Error
	if err != nil {
		return nil, fmt.Errorf("40402:project not found")
	}
	return &project, nil
}

// GetOwned loads a project only when the user owns it, for mutating calls.
func (s *ProjectService) GetOwned(id, userID uint) (*model.Project, error) {
	var project model.Project
	if err := s.db.Scopes(ProjectsOwnedBy(userID)).First(&project, id).Error; err != nil {
		return nil, fmt.Errorf("40402:project not found")
	}
	return &project, nil
}

// Update never touches the key; it is assigned once at creation.
func (s *ProjectService) Update(id uint, updates map[string]interface{}) (*model.Project, error) {
	delete(updates, "key")
	delete(updates, "project_key")
	if err := s.db.Model(&model.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	var project model.Project
	if err := s.db.Preload("Owner").First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes the project and everything it owns. Labels are independent
// and survive; only their task links go.
func (s *ProjectService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint
		if err := tx.Unscoped().Model(&model.Task{}).Where("project_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&model.Attachment{}).Error; err != nil {
				return err
			}
			for _, table := range []string{"task_labels", "task_components", "task_fix_versions", "task_affects_versions"} {
				if err := tx.Exec("DELETE FROM "+table+" WHERE task_id IN ?", taskIDs).Error; err != nil {
					return err
				}
			}
			if err := tx.Unscoped().Where("project_id = ?", id).Delete(&model.Task{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Epic{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Sprint{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Component{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Version{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Project{}, id).Error
	})
}

func (s *ProjectService) IsMember(projectID, userID uint) bool {
	var count int64
	s.db.Model(&model.ProjectMember{}).Where("project_id = ? AND user_id = ?", projectID, userID).Count(&count)
	return count > 0
}

// CanAssign reports whether a user may be the assignee of a task in the
// project: the owner or any member.
func (s *ProjectService) CanAssign(project *model.Project, userID uint) bool {
	return project.OwnerID == userID || s.IsMember(project.ID, userID)
}

func (s *ProjectService) AddMembers(projectID uint, userIDs []uint) ([]model.UserBrief, []uint, error) {
	var added []model.UserBrief
	var skipped []uint

	for _, uid := range userIDs {
		var user model.User
		if err := s.db.First(&user, uid).Error; err != nil {
			return nil, nil, fmt.Errorf("40401:user not found: id=%d", uid)
		}

		var count int64
		s.db.Model(&model.ProjectMember{}).Where("project_id = ? AND user_id = ?", projectID, uid).Count(&count)
		if count > 0 {
			skipped = append(skipped, uid)
			continue
		}

		member := &model.ProjectMember{ProjectID: projectID, UserID: uid}
		if err := s.db.Create(member).Error; err != nil {
			return nil, nil, err
		}
		added = append(added, user.Brief())
	}
	return added, skipped, nil
}

func (s *ProjectService) RemoveMember(projectID, userID uint) error {
	var project model.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return err
	}
	if project.OwnerID == userID {
		return fmt.Errorf("40003:cannot remove the project owner")
	}

	result := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&model.ProjectMember{})
	if result.RowsAffected == 0 {
		return fmt.Errorf("40401:user is not a project member")
	}
	return result.Error
}

// Stats counts the project's tasks per status.
func (s *ProjectService) Stats(projectID uint) map[string]int64 {
	stats := make(map[string]int64)
	var total int64
	for _, st := range model.TaskStatuses {
		var count int64
		s.db.Model(&model.Task{}).Where("project_id = ? AND status = ?", projectID, st).Count(&count)
		stats[string(st)] = count
		total += count
	}
	stats["total"] = total
	return stats
}

func (s *ProjectService) MemberCount(projectID uint) int64 {
	var count int64
	s.db.Model(&model.ProjectMember{}).Where("project_id = ?", projectID).Count(&count)
	return count
}

func (s *ProjectService) TaskCount(projectID uint) int64 {
	var count int64
	s.db.Model(&model.Task{}).Where("project_id = ?", projectID).Count(&count)
	return count
}
