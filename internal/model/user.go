package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"type:varchar(64);uniqueIndex:uk_username;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(128);not null" json:"-"`
	Name         string         `gorm:"type:varchar(64)" json:"name"`
	Email        string         `gorm:"type:varchar(128)" json:"email"`
	Avatar       string         `gorm:"type:varchar(512)" json:"avatar"`
	IsAdmin      bool           `gorm:"default:false" json:"is_admin"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

type UserBrief struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Email    string `json:"email,omitempty"`
}

func (u *User) Brief() UserBrief {
	return UserBrief{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Avatar:   u.Avatar,
		Email:    u.Email,
	}
}
