// Package domain contains persistence models for the identity directory.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User is the login identity. Email is the login identifier. Subdomain is an
// optional personal namespace, independent of tenant subdomains.
type User struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Email      string       `gorm:"type:text;not null;uniqueIndex:ux_users_email" json:"email"`
	FirstName  string       `gorm:"type:text;not null" json:"first_name"`
	LastName   string       `gorm:"type:text;not null" json:"last_name"`
	IsVerified bool         `gorm:"not null;default:false" json:"is_verified"`
	Subdomain  *string      `gorm:"type:text;uniqueIndex:ux_users_subdomain" json:"subdomain,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// FullName joins the first and last name for display.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
