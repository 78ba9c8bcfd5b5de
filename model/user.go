package model

import "time"

// Role is the closed set of account roles.
type Role = string

const (
	RoleAdmin  Role = "admin"
	RoleDM     Role = "dm"
	RolePlayer Role = "player"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleDM || r == RolePlayer
}

// User represents a campaign participant account.
// DeletedAt supports out-of-band deactivation; every active-account query
// filters on it. The admin delete endpoint removes rows outright.
type User struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username      string     `gorm:"uniqueIndex;size:80;not null" json:"username"`
	Email         string     `gorm:"uniqueIndex;size:120;not null" json:"email"`
	PasswordHash  string     `gorm:"size:128;not null" json:"-"`
	Role          Role       `gorm:"size:20;not null;default:player" json:"role"`
	CharacterName string     `gorm:"size:100" json:"character_name"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt     *time.Time `json:"-"`
}
