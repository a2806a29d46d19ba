package service

import (
	"strings"
	"testing"

	"github.com/aps4398/project-manager/internal/model"
)

func TestEpicNameUniquePerProject(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	alpha := seedProject(t, db, "Alpha", owner.ID)
	beta := seedProject(t, db, "Beta", owner.ID)
	svc := NewEpicService(db)

	if _, err := svc.Create(alpha.ID, "Payments", ""); err != nil {
		t.Fatalf("create epic: %v", err)
	}

	_, err := svc.Create(alpha.ID, "Payments", "again")
	if err == nil {
		t.Fatal("expected an error for a duplicate epic name in the same project")
	}
	if !strings.HasPrefix(err.Error(), "40004:") {
		t.Errorf("got error %q, want a 40004 code", err)
	}

	var count int64
	db.Model(&model.Epic{}).Where("project_id = ?", alpha.ID).Count(&count)
	if count != 1 {
		t.Errorf("rejected epic must not be persisted, found %d rows", count)
	}

	// The same name is free in another project.
	if _, err := svc.Create(beta.ID, "Payments", ""); err != nil {
		t.Errorf("same epic name in another project rejected: %v", err)
	}
}

func TestEpicRenameToExistingRejected(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, "Alpha", owner.ID)
	svc := NewEpicService(db)

	if _, err := svc.Create(project.ID, "Payments", ""); err != nil {
		t.Fatalf("create first epic: %v", err)
	}
	second, err := svc.Create(project.ID, "Billing", "")
	if err != nil {
		t.Fatalf("create second epic: %v", err)
	}

	taken := "Payments"
	_, err = svc.Update(second, &taken, nil, nil)
	if err == nil {
		t.Fatal("expected an error when renaming onto an existing epic")
	}
	if !strings.HasPrefix(err.Error(), "40004:") {
		t.Errorf("got error %q, want a 40004 code", err)
	}

	var reloaded model.Epic
	db.First(&reloaded, second.ID)
	if reloaded.Name != "Billing" {
		t.Errorf("name = %q, want Billing untouched", reloaded.Name)
	}
}

func TestEpicUniqueIndexBackstop(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, "Alpha", owner.ID)

	if _, err := NewEpicService(db).Create(project.ID, "Payments", ""); err != nil {
		t.Fatalf("create epic: %v", err)
	}

	// A writer that bypasses the service precheck still hits the
	// (name, project) unique index.
	err := db.Create(&model.Epic{ProjectID: project.ID, Name: "Payments", Status: model.EpicStatusTodo}).Error
	if err == nil {
		t.Fatal("raw duplicate insert should violate the unique index")
	}
	if !isDuplicate(err) {
		t.Errorf("error %q not recognized as a duplicate", err)
	}
}
