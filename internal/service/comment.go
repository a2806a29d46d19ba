package service

import (
	"fmt"

	"github.com/aps4398/project-manager/internal/model"
	"gorm.io/gorm"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

func (s *CommentService) Add(taskID, authorID uint, content string) (*model.Comment, error) {
	comment := &model.Comment{TaskID: taskID, AuthorID: authorID, Content: content}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, err
	}
	s.db.Preload("Author").First(comment, comment.ID)
	return comment, nil
}

// ListByTask returns comments newest first.
func (s *CommentService) ListByTask(taskID uint) ([]model.Comment, error) {
	var comments []model.Comment
	if err := s.db.Where("task_id = ?", taskID).Preload("Author").
		Order("created_at desc").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *CommentService) Delete(commentID, taskID, userID uint, isAdmin bool) error {
	var comment model.Comment
	if err := s.db.Where("task_id = ?", taskID).First(&comment, commentID).Error; err != nil {
		return fmt.Errorf("40409:comment not found")
	}
	if comment.AuthorID != userID && !isAdmin {
		return fmt.Errorf("40303:only the author can delete a comment")
	}
	return s.db.Delete(&comment).Error
}

// AddAttachment records a reference to an externally stored file.
func (s *CommentService) AddAttachment(taskID, uploaderID uint, fileName, storagePath string, size int64) (*model.Attachment, error) {
	attachment := &model.Attachment{
		TaskID:      taskID,
		UploaderID:  uploaderID,
		FileName:    fileName,
		StoragePath: storagePath,
		Size:        size,
	}
	if err := s.db.Create(attachment).Error; err != nil {
		return nil, err
	}
	s.db.Preload("Uploader").First(attachment, attachment.ID)
	return attachment, nil
}

func (s *CommentService) ListAttachments(taskID uint) ([]model.Attachment, error) {
	var attachments []model.Attachment
	if err := s.db.Where("task_id = ?", taskID).Preload("Uploader").
		Order("uploaded_at desc").Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

func (s *CommentService) DeleteAttachment(attachmentID, taskID, userID uint, isAdmin bool) error {
	var attachment model.Attachment
	if err := s.db.Where("task_id = ?", taskID).First(&attachment, attachmentID).Error; err != nil {
		return fmt.Errorf("40410:attachment not found")
	}
	if attachment.UploaderID != userID && !isAdmin {
		return fmt.Errorf("40303:only the uploader can delete an attachment")
	}
	return s.db.Delete(&attachment).Error
}
