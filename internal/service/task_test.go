package service

import (
	"math"
	"strings"
	"testing"

	"github.com/aps4398/project-manager/internal/model"
)

func TestCreateTaskDefaults(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, "Alpha", owner.ID)

	task := seedTask(t, db, project, owner.ID, "first")
	if task.Status != model.TaskStatusBacklog {
		t.Errorf("status = %q, want backlog", task.Status)
	}
	if task.Priority != model.TaskPriorityMedium {
		t.Errorf("priority = %q, want medium", task.Priority)
	}
	if task.Type != model.IssueTypeTask {
		t.Errorf("issue type = %q, want task", task.Type)
	}
	if task.TimeLogged != 0 {
		t.Errorf("time logged = %d, want 0", task.TimeLogged)
	}
}

func TestCreateTaskRejectsUnknownStatus(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, "Alpha", owner.ID)

	_, err := NewTaskService(db).Create(project, owner.ID, TaskInput{Title: "bad", Status: "archived"})
	if err == nil {
		t.Fatal("expected an error for unknown status")
	}
	if !strings.HasPrefix(err.Error(), "40002:") {
		t.Errorf("got error %q, want a 40002 code", err)
	}

	var count int64
	db.Model(&model.Task{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected task must not be persisted, found %d rows", count)
	}
}

func TestUpdateStatusAnyToAny(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, "Alpha", owner.ID)
	svc := NewTaskService(db)

	task := seedTask(t, db, project, owner.ID, "hop")

	// There is no fixed path through the workflow; done back to backlog is
	// as legal as backlog to done.
	for _, status := range []model.TaskStatus{
		model.TaskStatusDone,
		model.TaskStatusBacklog,
		model.TaskStatusInReview,
	} {
		if err := svc.UpdateStatus(task, status); err != nil {
			t.Fatalf("move to %s: %v", status, err)
		}
		var reloaded model.Task
		db.First(&reloaded, task.ID)
		if reloaded.Status != status {
			t.Errorf("status = %q, want %q", reloaded.Status, status)
		}
	}
}

func TestUpdateStatusRejectsUnknownWithoutMutation(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, "Alpha", owner.ID)
	svc := NewTaskService(db)

	task := seedTask(t, db, project, owner.ID, "stays")
	if err := svc.UpdateStatus(task, model.TaskStatusInProgress); err != nil {
		t.Fatalf("move to in_progress: %v", err)
	}

	err := svc.UpdateStatus(task, "cancelled")
	if err == nil {
		t.Fatal("expected an error for unknown status")
	}
	if !strings.HasPrefix(err.Error(), "40002:") {
		t.Errorf("got error %q, want a 40002 code", err)
	}

	var reloaded model.Task
	db.First(&reloaded, task.ID)
	if reloaded.Status != model.TaskStatusInProgress {
		t.Errorf("status = %q, want in_progress untouched", reloaded.Status)
	}
}

func TestLogTimeAccumulates(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, "Alpha", owner.ID)
	svc := NewTaskService(db)

	task := seedTask(t, db, project, owner.ID, "timed")

	if err := svc.LogTime(task, 2.5); err != nil {
		t.Fatalf("log 2.5h: %v", err)
	}
	if err := svc.LogTime(task, 1.0); err != nil {
		t.Fatalf("log 1.0h: %v", err)
	}

	var reloaded model.Task
	db.First(&reloaded, task.ID)
	if reloaded.TimeLogged != 3*3600+1800 {
		t.Errorf("time logged = %d seconds, want 12600", reloaded.TimeLogged)
	}
	if got := reloaded.TimeLoggedHours(); got != 3.5 {
		t.Errorf("time logged hours = %v, want 3.5", got)
	}
}

func TestLogTimeOverEstimateAllowed(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, "Alpha", owner.ID)
	svc := NewTaskService(db)

	estimate := int64(3600)
	task, err := svc.Create(project, owner.ID, TaskInput{Title: "small", TimeEstimate: &estimate})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := svc.LogTime(task, 10); err != nil {
		t.Fatalf("logging past the estimate must succeed: %v", err)
	}
}

func TestLogTimeRejectsInvalidWithoutMutation(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, "Alpha", owner.ID)
	svc := NewTaskService(db)

	task := seedTask(t, db, project, owner.ID, "timed")
	if err := svc.LogTime(task, 2); err != nil {
		t.Fatalf("log 2h: %v", err)
	}

	for _, hours := range []float64{-1, math.NaN(), math.Inf(1)} {
		if err := svc.LogTime(task, hours); err == nil {
			t.Errorf("LogTime(%v) should fail", hours)
		}
	}

	var reloaded model.Task
	db.First(&reloaded, task.ID)
	if reloaded.TimeLogged != 7200 {
		t.Errorf("time logged = %d, want 7200 untouched", reloaded.TimeLogged)
	}
}

func TestTaskAssociationsStayInProject(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	alpha := seedProject(t, db, "Alpha", owner.ID)
	beta := seedProject(t, db, "Beta", owner.ID)
	svc := NewTaskService(db)

	foreign, err := NewCatalogService(db).CreateComponent(beta.ID, "backend", "")
	if err != nil {
		t.Fatalf("create component: %v", err)
	}

	_, err = svc.Create(alpha, owner.ID, TaskInput{Title: "x", ComponentIDs: []uint{foreign.ID}})
	if err == nil {
		t.Fatal("expected an error for a component of another project")
	}
	if !strings.HasPrefix(err.Error(), "40002:") {
		t.Errorf("got error %q, want a 40002 code", err)
	}
}

func TestValidateEpicAndSprintScope(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	alpha := seedProject(t, db, "Alpha", owner.ID)
	beta := seedProject(t, db, "Beta", owner.ID)

	epic, err := NewEpicService(db).Create(beta.ID, "Payments", "")
	if err != nil {
		t.Fatalf("create epic: %v", err)
	}

	svc := NewTaskService(db)
	if err := svc.ValidateEpic(alpha.ID, epic.ID); err == nil {
		t.Error("an epic of another project must be rejected")
	}
	if err := svc.ValidateEpic(beta.ID, epic.ID); err != nil {
		t.Errorf("epic in its own project rejected: %v", err)
	}
}
