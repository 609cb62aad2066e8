package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

func IsValidRole(r string) bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"column:password;not null" json:"-"`
	Role         string     `gorm:"size:20;not null;default:admin" json:"role"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
