package service

import (
	"strings"
	"testing"
	"time"

	"github.com/aps4398/project-manager/internal/model"
)

func TestActivateDeactivatesOtherSprints(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, "Alpha", owner.ID)
	svc := NewSprintService(db)

	start := date(2030, time.January, 1)
	end := date(2030, time.January, 14)

	first, err := svc.Create(project.ID, "Sprint 1", "", start, end, true)
	if err != nil {
		t.Fatalf("create first sprint: %v", err)
	}
	if !first.IsActive {
		t.Fatal("first sprint should be active")
	}

	second, err := svc.Create(project.ID, "Sprint 2", "", start, end, true)
	if err != nil {
		t.Fatalf("create second sprint: %v", err)
	}
	if !second.IsActive {
		t.Fatal("second sprint should be active")
	}

	var reloaded model.Sprint
	if err := db.First(&reloaded, first.ID).Error; err != nil {
		t.Fatalf("reload first sprint: %v", err)
	}
	if reloaded.IsActive {
		t.Error("first sprint should have been deactivated by the second activation")
	}

	active, err := svc.ActiveSprint(project.ID)
	if err != nil {
		t.Fatalf("ActiveSprint: %v", err)
	}
	if active == nil || active.ID != second.ID {
		t.Errorf("active sprint = %+v, want sprint %d", active, second.ID)
	}
}

func TestExclusivityIsPerProject(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	alpha := seedProject(t, db, "Alpha", owner.ID)
	beta := seedProject(t, db, "Beta", owner.ID)
	svc := NewSprintService(db)

	start := date(2030, time.January, 1)
	end := date(2030, time.January, 14)

	a, err := svc.Create(alpha.ID, "Sprint A", "", start, end, true)
	if err != nil {
		t.Fatalf("create sprint A: %v", err)
	}
	if _, err := svc.Create(beta.ID, "Sprint B", "", start, end, true); err != nil {
		t.Fatalf("create sprint B: %v", err)
	}

	var reloaded model.Sprint
	db.First(&reloaded, a.ID)
	if !reloaded.IsActive {
		t.Error("activating a sprint in another project must not deactivate this one")
	}
}

func TestPastEndDateForcesCompletion(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, "Alpha", owner.ID)
	svc := NewSprintService(db)

	yesterday := time.Now().AddDate(0, 0, -1)
	lastWeek := time.Now().AddDate(0, 0, -7)

	sprint, err := svc.Create(project.ID, "Old Sprint", "", lastWeek, yesterday, true)
	if err != nil {
		t.Fatalf("create sprint: %v", err)
	}
	if sprint.IsActive {
		t.Error("a sprint whose end date has passed cannot stay active")
	}
	if !sprint.IsCompleted {
		t.Error("a sprint whose end date has passed must be completed")
	}
}

func TestActivatePastSprintStillDeactivatesOthers(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, "Alpha", owner.ID)
	svc := NewSprintService(db)

	current, err := svc.Create(project.ID, "Current", "",
		date(2030, time.January, 1), date(2030, time.January, 14), true)
	if err != nil {
		t.Fatalf("create current sprint: %v", err)
	}

	old, err := svc.Create(project.ID, "Old", "",
		time.Now().AddDate(0, 0, -14), time.Now().AddDate(0, 0, -7), false)
	if err != nil {
		t.Fatalf("create old sprint: %v", err)
	}

	// The completion rule wins over the requested activation, but the
	// deactivation of the others has already happened in the same
	// transaction.
	if err := svc.Activate(old); err != nil {
		t.Fatalf("activate old sprint: %v", err)
	}
	if old.IsActive || !old.IsCompleted {
		t.Errorf("old sprint: active=%v completed=%v, want inactive and completed", old.IsActive, old.IsCompleted)
	}

	var reloaded model.Sprint
	db.First(&reloaded, current.ID)
	if reloaded.IsActive {
		t.Error("current sprint should have been deactivated")
	}

	active, err := svc.ActiveSprint(project.ID)
	if err != nil {
		t.Fatalf("ActiveSprint: %v", err)
	}
	if active != nil {
		t.Errorf("no sprint should be active, got %d", active.ID)
	}
}

func TestSprintRejectsEndBeforeStart(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, "Alpha", owner.ID)
	svc := NewSprintService(db)

	_, err := svc.Create(project.ID, "Backwards", "",
		date(2030, time.January, 14), date(2030, time.January, 1), false)
	if err == nil {
		t.Fatal("expected an error for end before start")
	}
	if !strings.HasPrefix(err.Error(), "40002:") {
		t.Errorf("got error %q, want a 40002 code", err)
	}

	var count int64
	db.Model(&model.Sprint{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected sprint must not be persisted, found %d rows", count)
	}
}

func TestSprintDeleteDetachesTasks(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, "Alpha", owner.ID)
	svc := NewSprintService(db)

	sprint, err := svc.Create(project.ID, "Sprint 1", "",
		date(2030, time.January, 1), date(2030, time.January, 14), false)
	if err != nil {
		t.Fatalf("create sprint: %v", err)
	}

	task, err := NewTaskService(db).Create(project, owner.ID, TaskInput{Title: "in sprint", SprintID: &sprint.ID})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := svc.Delete(sprint); err != nil {
		t.Fatalf("delete sprint: %v", err)
	}

	var reloaded model.Task
	if err := db.First(&reloaded, task.ID).Error; err != nil {
		t.Fatalf("task must survive sprint deletion: %v", err)
	}
	if reloaded.SprintID != nil {
		t.Errorf("task sprint_id = %v, want nil", *reloaded.SprintID)
	}
}
