package model

import "time"

type EpicStatus string

const (
	EpicStatusTodo       EpicStatus = "todo"
	EpicStatusInProgress EpicStatus = "in_progress"
	EpicStatusDone       EpicStatus = "done"
)

func (s EpicStatus) Valid() bool {
	switch s {
	case EpicStatusTodo, EpicStatusInProgress, EpicStatusDone:
		return true
	}
	return false
}

type Epic struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(200);not null;uniqueIndex:uk_epic_name_project" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	ProjectID   uint       `gorm:"not null;uniqueIndex:uk_epic_name_project;index:idx_epic_project_id" json:"project_id"`
	Status      EpicStatus `gorm:"type:varchar(20);default:todo" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (Epic) TableName() string { return "epics" }
