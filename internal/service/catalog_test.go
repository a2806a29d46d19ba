package service

import (
	"strings"
	"testing"

	"github.com/aps4398/project-manager/internal/model"
)

func TestLabelNameGloballyUnique(t *testing.T) {
	db := testDB(t)
	svc := NewCatalogService(db)

	label, err := svc.CreateLabel("urgent", "")
	if err != nil {
		t.Fatalf("create label: %v", err)
	}
	if label.Color != "#6b7280" {
		t.Errorf("default color = %q, want #6b7280", label.Color)
	}

	_, err = svc.CreateLabel("urgent", "#ff0000")
	if err == nil {
		t.Fatal("expected an error for a duplicate label name")
	}
	if !strings.HasPrefix(err.Error(), "40004:") {
		t.Errorf("got error %q, want a 40004 code", err)
	}

	var count int64
	db.Model(&model.Label{}).Count(&count)
	if count != 1 {
		t.Errorf("rejected label must not be persisted, found %d rows", count)
	}
}

func TestComponentNameUniquePerProject(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	alpha := seedProject(t, db, "Alpha", owner.ID)
	beta := seedProject(t, db, "Beta", owner.ID)
	svc := NewCatalogService(db)

	if _, err := svc.CreateComponent(alpha.ID, "backend", ""); err != nil {
		t.Fatalf("create component: %v", err)
	}
	if _, err := svc.CreateComponent(alpha.ID, "backend", ""); err == nil {
		t.Error("duplicate component in the same project must be rejected")
	}
	if _, err := svc.CreateComponent(beta.ID, "backend", ""); err != nil {
		t.Errorf("same component name in another project rejected: %v", err)
	}
}

func TestDeleteLabelDetachesTasks(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, "Alpha", owner.ID)
	svc := NewCatalogService(db)

	label, err := svc.CreateLabel("urgent", "")
	if err != nil {
		t.Fatalf("create label: %v", err)
	}
	task, err := NewTaskService(db).Create(project, owner.ID, TaskInput{Title: "tagged", LabelIDs: []uint{label.ID}})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := svc.DeleteLabel(label.ID); err != nil {
		t.Fatalf("delete label: %v", err)
	}

	var links int64
	db.Table("task_labels").Where("task_id = ?", task.ID).Count(&links)
	if links != 0 {
		t.Errorf("%d label links left behind", links)
	}
	var reloaded model.Task
	if err := db.First(&reloaded, task.ID).Error; err != nil {
		t.Errorf("task must survive label deletion: %v", err)
	}
}
