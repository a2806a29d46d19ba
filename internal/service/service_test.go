package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/aps4398/project-manager/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.ProjectMember{},
		&model.Epic{},
		&model.Sprint{},
		&model.Label{},
		&model.Component{},
		&model.Version{},
		&model.Task{},
		&model.Comment{},
		&model.Attachment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %q: %v", username, err)
	}
	return user
}

func seedProject(t *testing.T, db *gorm.DB, name string, ownerID uint, memberIDs ...uint) *model.Project {
	t.Helper()
	project, err := NewProjectService(db).Create(name, "", ownerID, memberIDs)
	if err != nil {
		t.Fatalf("seed project %q: %v", name, err)
	}
	return project
}

func seedTask(t *testing.T, db *gorm.DB, project *model.Project, reporterID uint, title string) *model.Task {
	t.Helper()
	task, err := NewTaskService(db).Create(project, reporterID, TaskInput{Title: title})
	if err != nil {
		t.Fatalf("seed task %q: %v", title, err)
	}
	return task
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
