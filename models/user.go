package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleMember UserRole = "member"
	RoleMentor UserRole = "mentor"
	RoleAdmin  UserRole = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	ID            string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email         string         `json:"email" gorm:"uniqueIndex;not null"`
	DisplayName   string         `json:"displayName" gorm:"not null"`
	DiscordHandle string         `json:"discordHandle"`
	Password      string         `json:"-" gorm:"not null"`
	Role          UserRole       `json:"role" gorm:"default:'member'"`
	Status        UserStatus     `json:"status" gorm:"default:'active'"`
	IsAdmin       bool           `json:"isAdmin" gorm:"not null;default:false"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// Actor is the authenticated caller of a request.
type Actor struct {
	UID         string
	DisplayName string
	Role        UserRole
	Status      UserStatus
	IsAdmin     bool
}

func (u *User) Actor() Actor {
	return Actor{
		UID:         u.ID,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Status:      u.Status,
		IsAdmin:     u.IsAdmin,
	}
}
