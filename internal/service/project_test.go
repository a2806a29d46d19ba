package service

import (
	"strings"
	"testing"

	"github.com/aps4398/project-manager/internal/model"
)

func TestCreateProjectSkipsOwnerAsMember(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner")
	member := seedUser(t, db, "member")
	svc := NewProjectService(db)

	project := seedProject(t, db, "Alpha", owner.ID, owner.ID, member.ID)

	if got := svc.MemberCount(project.ID); got != 1 {
		t.Errorf("member count = %d, want 1: the owner is not doubled as a member", got)
	}
	if !svc.CanAssign(project, owner.ID) {
		t.Error("the owner is always assignable")
	}
	if !svc.CanAssign(project, member.ID) {
		t.Error("a member is assignable")
	}
}

func TestAddMembersSkipsExisting(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner")
	member := seedUser(t, db, "member")
	fresh := seedUser(t, db, "fresh")
	svc := NewProjectService(db)

	project := seedProject(t, db, "Alpha", owner.ID, member.ID)

	added, skipped, err := svc.AddMembers(project.ID, []uint{member.ID, fresh.ID})
	if err != nil {
		t.Fatalf("add members: %v", err)
	}
	if len(added) != 1 || added[0].ID != fresh.ID {
		t.Errorf("added = %v, want just the fresh user", added)
	}
	if len(skipped) != 1 || skipped[0] != member.ID {
		t.Errorf("skipped = %v, want the existing member", skipped)
	}
}

func TestRemoveOwnerRejected(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner")
	svc := NewProjectService(db)

	project := seedProject(t, db, "Alpha", owner.ID)

	err := svc.RemoveMember(project.ID, owner.ID)
	if err == nil {
		t.Fatal("removing the owner must fail")
	}
	if !strings.HasPrefix(err.Error(), "40003:") {
		t.Errorf("got error %q, want a 40003 code", err)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner")
	projectSvc := NewProjectService(db)
	taskSvc := NewTaskService(db)
	catalogSvc := NewCatalogService(db)

	project := seedProject(t, db, "Alpha", owner.ID)
	survivor := seedProject(t, db, "Beta", owner.ID)

	label, err := catalogSvc.CreateLabel("urgent", "")
	if err != nil {
		t.Fatalf("create label: %v", err)
	}
	task, err := taskSvc.Create(project, owner.ID, TaskInput{Title: "doomed", LabelIDs: []uint{label.ID}})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := NewCommentService(db).Add(task.ID, owner.ID, "gone with it"); err != nil {
		t.Fatalf("add comment: %v", err)
	}
	keeper := seedTask(t, db, survivor, owner.ID, "kept")

	if err := projectSvc.Delete(project.ID); err != nil {
		t.Fatalf("delete project: %v", err)
	}

	var tasks, comments, links, labels int64
	db.Unscoped().Model(&model.Task{}).Where("project_id = ?", project.ID).Count(&tasks)
	db.Model(&model.Comment{}).Where("task_id = ?", task.ID).Count(&comments)
	db.Table("task_labels").Where("task_id = ?", task.ID).Count(&links)
	db.Model(&model.Label{}).Count(&labels)

	if tasks != 0 {
		t.Errorf("%d tasks left behind", tasks)
	}
	if comments != 0 {
		t.Errorf("%d comments left behind", comments)
	}
	if links != 0 {
		t.Errorf("%d label links left behind", links)
	}
	if labels != 1 {
		t.Errorf("labels are global and must survive, found %d", labels)
	}

	var kept model.Task
	if err := db.First(&kept, keeper.ID).Error; err != nil {
		t.Errorf("other project's task must survive: %v", err)
	}
}

func TestUpdateNeverTouchesKey(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner")
	svc := NewProjectService(db)

	project := seedProject(t, db, "Alpha", owner.ID)

	updated, err := svc.Update(project.ID, map[string]interface{}{
		"name":        "Renamed",
		"key":         "HAX",
		"project_key": "HAX",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("name = %q, want Renamed", updated.Name)
	}
	if updated.Key != "ALP" {
		t.Errorf("key = %q, want the original ALP", updated.Key)
	}
}
