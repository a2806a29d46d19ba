package model

import "time"

// Label is global: deleting one detaches it from tasks but never deletes them.
type Label struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"type:varchar(50);uniqueIndex:uk_label_name;not null" json:"name"`
	Color string `gorm:"type:varchar(7);default:#6b7280" json:"color"`
}

func (Label) TableName() string { return "labels" }

type Component struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex:uk_component_name_project" json:"name"`
	ProjectID   uint   `gorm:"not null;uniqueIndex:uk_component_name_project;index:idx_component_project_id" json:"project_id"`
	Description string `gorm:"type:text" json:"description"`
}

func (Component) TableName() string { return "components" }

type Version struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(100);not null;uniqueIndex:uk_version_name_project" json:"name"`
	ProjectID   uint       `gorm:"not null;uniqueIndex:uk_version_name_project;index:idx_version_project_id" json:"project_id"`
	Description string     `gorm:"type:text" json:"description"`
	ReleaseDate *time.Time `gorm:"type:date" json:"release_date"`
	IsReleased  bool       `gorm:"default:false" json:"is_released"`
}

func (Version) TableName() string { return "versions" }
