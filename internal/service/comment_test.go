package service

import (
	"strings"
	"testing"
	"time"

	"github.com/aps4398/project-manager/internal/model"
)

func TestCommentsNewestFirst(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	project := seedProject(t, db, "Alpha", owner.ID)
	task := seedTask(t, db, project, owner.ID, "discussed")
	svc := NewCommentService(db)

	// Two older comments with fixed timestamps, one fresh via the service.
	for i, c := range []model.Comment{
		{TaskID: task.ID, AuthorID: owner.ID, Content: "oldest", CreatedAt: date(2020, time.January, 1)},
		{TaskID: task.ID, AuthorID: owner.ID, Content: "middle", CreatedAt: date(2020, time.January, 2)},
	} {
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("insert comment %d: %v", i, err)
		}
	}
	if _, err := svc.Add(task.ID, owner.ID, "newest"); err != nil {
		t.Fatalf("add comment: %v", err)
	}

	comments, err := svc.ListByTask(task.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("got %d comments, want 3", len(comments))
	}
	for i, want := range []string{"newest", "middle", "oldest"} {
		if comments[i].Content != want {
			t.Errorf("comments[%d] = %q, want %q", i, comments[i].Content, want)
		}
	}
}

func TestDeleteCommentAuthorOrAdminOnly(t *testing.T) {
	db := testDB(t)
	author := seedUser(t, db, "author")
	other := seedUser(t, db, "other")
	project := seedProject(t, db, "Alpha", author.ID, other.ID)
	task := seedTask(t, db, project, author.ID, "discussed")
	svc := NewCommentService(db)

	comment, err := svc.Add(task.ID, author.ID, "mine")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}

	err = svc.Delete(comment.ID, task.ID, other.ID, false)
	if err == nil {
		t.Fatal("a non-author must not delete the comment")
	}
	if !strings.HasPrefix(err.Error(), "40303:") {
		t.Errorf("got error %q, want a 40303 code", err)
	}

	// An admin may, even without authorship.
	if err := svc.Delete(comment.ID, task.ID, other.ID, true); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	var count int64
	db.Model(&model.Comment{}).Where("task_id = ?", task.ID).Count(&count)
	if count != 0 {
		t.Errorf("%d comments left after delete", count)
	}
}
