package service

import (
	"testing"

	"github.com/aps4398/project-manager/internal/model"
)

func TestProjectVisibility(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner")
	member := seedUser(t, db, "member")
	stranger := seedUser(t, db, "stranger")
	svc := NewProjectService(db)

	project := seedProject(t, db, "Alpha", owner.ID, member.ID)

	for _, uid := range []uint{owner.ID, member.ID} {
		if _, err := svc.GetVisible(project.ID, uid); err != nil {
			t.Errorf("user %d should see the project: %v", uid, err)
		}
	}

	_, err := svc.GetVisible(project.ID, stranger.ID)
	if err == nil {
		t.Fatal("a stranger must not see the project")
	}

	// An invisible project and a missing one are indistinguishable.
	_, missingErr := svc.GetVisible(99999, stranger.ID)
	if missingErr == nil {
		t.Fatal("expected an error for a missing project")
	}
	if err.Error() != missingErr.Error() {
		t.Errorf("denied (%q) and missing (%q) must read the same", err, missingErr)
	}

	projects, total, err := svc.List(stranger.ID, "", 1, 20, "", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 0 || len(projects) != 0 {
		t.Errorf("stranger list = %d projects (total %d), want none", len(projects), total)
	}
}

func TestGetOwnedExcludesMembers(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner")
	member := seedUser(t, db, "member")
	svc := NewProjectService(db)

	project := seedProject(t, db, "Alpha", owner.ID, member.ID)

	if _, err := svc.GetOwned(project.ID, owner.ID); err != nil {
		t.Errorf("owner should pass the owned gate: %v", err)
	}
	if _, err := svc.GetOwned(project.ID, member.ID); err == nil {
		t.Error("a plain member must not pass the owned gate")
	}
}

func TestTaskVisibilityThroughAssignment(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner")
	outsider := seedUser(t, db, "outsider")
	project := seedProject(t, db, "Alpha", owner.ID)
	svc := NewTaskService(db)

	assigned, err := svc.Create(project, owner.ID, TaskInput{Title: "theirs", AssigneeID: &outsider.ID})
	if err != nil {
		t.Fatalf("create assigned task: %v", err)
	}
	other := seedTask(t, db, project, owner.ID, "not theirs")

	// Assignment grants visibility into that one task even without
	// project membership.
	if _, err := svc.GetVisible(assigned.ID, outsider.ID); err != nil {
		t.Errorf("assignee should see their task: %v", err)
	}
	if _, err := svc.GetVisible(other.ID, outsider.ID); err == nil {
		t.Error("assignment to one task must not expose the rest of the project")
	}

	tasks, total, err := svc.List(outsider.ID, TaskFilter{}, 1, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(tasks) != 1 || tasks[0].ID != assigned.ID {
		t.Errorf("outsider list = %d tasks (total %d), want exactly the assigned one", len(tasks), total)
	}
}

func TestTaskVisibilityThroughMembership(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner")
	member := seedUser(t, db, "member")
	project := seedProject(t, db, "Alpha", owner.ID, member.ID)
	svc := NewTaskService(db)

	seedTask(t, db, project, owner.ID, "one")
	seedTask(t, db, project, owner.ID, "two")

	_, total, err := svc.List(member.ID, TaskFilter{}, 1, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 {
		t.Errorf("member sees %d tasks, want 2", total)
	}
}

func TestGetVisibleByKey(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	project := seedProject(t, db, "Alpha", owner.ID)
	svc := NewTaskService(db)

	task := seedTask(t, db, project, owner.ID, "lookup")

	found, err := svc.GetVisibleByKey(task.Key, owner.ID)
	if err != nil {
		t.Fatalf("lookup by key: %v", err)
	}
	if found.ID != task.ID {
		t.Errorf("looked up task %d, want %d", found.ID, task.ID)
	}

	if _, err := svc.GetVisibleByKey(task.Key, stranger.ID); err == nil {
		t.Error("key lookup must honor visibility")
	}
}

func TestStatusCountsScopedToViewer(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	project := seedProject(t, db, "Alpha", owner.ID)
	svc := NewTaskService(db)

	task := seedTask(t, db, project, owner.ID, "one")
	if err := svc.UpdateStatus(task, model.TaskStatusDone); err != nil {
		t.Fatalf("move to done: %v", err)
	}
	seedTask(t, db, project, owner.ID, "two")

	counts := svc.StatusCounts(owner.ID, nil)
	if counts["done"] != 1 || counts["backlog"] != 1 {
		t.Errorf("owner counts = %v, want done:1 backlog:1", counts)
	}

	for _, n := range svc.StatusCounts(stranger.ID, nil) {
		if n != 0 {
			t.Errorf("stranger counts must all be zero, got %v", n)
		}
	}
}
