package service

import "gorm.io/gorm"

// Visibility is decided in exactly one place. Every read and write path for
// projects and tasks goes through these scopes; a row outside the caller's
// visible set surfaces as record-not-found, indistinguishable from a row that
// does not exist.

// ProjectsVisibleTo restricts a project query to rows the user owns or is a
// member of.
func ProjectsVisibleTo(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"projects.owner_id = ? OR projects.id IN (SELECT project_id FROM project_members WHERE user_id = ?)",
			userID, userID,
		)
	}
}

// ProjectsOwnedBy restricts a project query to rows the user owns. Mutating
// operations on the project itself (update, delete, membership) require
// ownership, not mere membership.
func ProjectsOwnedBy(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("projects.owner_id = ?", userID)
	}
}

// TasksVisibleTo restricts a task query to tasks in a visible project or
// tasks assigned to the user directly.
func TasksVisibleTo(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"tasks.assignee_id = ? OR tasks.project_id IN ("+
				"SELECT id FROM projects WHERE deleted_at IS NULL AND (owner_id = ? OR id IN ("+
				"SELECT project_id FROM project_members WHERE user_id = ?)))",
			userID, userID, userID,
		)
	}
}
