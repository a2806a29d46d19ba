package model

import "time"

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"not null;index:idx_comment_task_id" json:"task_id"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_created_at" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Comment) TableName() string { return "comments" }

// Attachment tracks a reference only; the binary lives in external storage.
type Attachment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TaskID     uint      `gorm:"not null;index:idx_attachment_task_id" json:"task_id"`
	UploaderID uint      `gorm:"not null" json:"uploader_id"`
	FileName   string    `gorm:"type:varchar(255);not null" json:"file_name"`
	StoragePath string   `gorm:"type:varchar(512);not null" json:"storage_path"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`

	Uploader *User `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
}

func (Attachment) TableName() string { return "attachments" }
