package model

import "time"

type Sprint struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	ProjectID   uint      `gorm:"not null;index:idx_sprint_project_id" json:"project_id"`
	Goal        string    `gorm:"type:text" json:"goal"`
	StartDate   time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null" json:"end_date"`
	IsActive    bool      `gorm:"default:false;index:idx_active" json:"is_active"`
	IsCompleted bool      `gorm:"default:false" json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (Sprint) TableName() string { return "sprints" }

// DurationDays is inclusive of both endpoints.
func (s *Sprint) DurationDays() int {
	if s.EndDate.Before(s.StartDate) {
		return 0
	}
	return int(s.EndDate.Sub(s.StartDate).Hours()/24) + 1
}
