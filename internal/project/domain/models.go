// Package domain contains persistence models for projects.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// ValidProjectStatus reports whether s is a known status.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	default:
		return false
	}
}

// Priority levels run 1 (low) to 4 (urgent).
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
	PriorityUrgent = 4
)

// ValidPriority reports whether p is within the 1-4 range.
func ValidPriority(p int) bool { return p >= PriorityLow && p <= PriorityUrgent }

// Project carries its own tenant id alongside the client's; the two must
// always agree, and every write path that touches the client re-validates it.
type Project struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	TenantID       snowflake.ID  `gorm:"not null;index" json:"tenant_id"`
	ClientID       snowflake.ID  `gorm:"not null;index" json:"client_id"`
	Name           string        `gorm:"type:text;not null" json:"name"`
	Status         ProjectStatus `gorm:"type:text;not null;default:'planning';index" json:"status"`
	Priority       int           `gorm:"not null;default:2" json:"priority"`
	StartDate      *time.Time    `json:"start_date,omitempty"`
	EndDate        *time.Time    `json:"end_date,omitempty"`
	EstimatedHours float64       `gorm:"not null;default:0" json:"estimated_hours"`
	HourlyRate     int64         `gorm:"not null;default:0" json:"hourly_rate"`
	Budget         int64         `gorm:"not null;default:0" json:"budget"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Project) TableName() string { return "projects" }

// ProjectAssignment links a tenant member to a project.
type ProjectAssignment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ProjectID snowflake.ID `gorm:"not null;index;uniqueIndex:ux_project_assignments,priority:1" json:"project_id"`
	UserID    snowflake.ID `gorm:"not null;index;uniqueIndex:ux_project_assignments,priority:2" json:"user_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ProjectAssignment) TableName() string { return "project_assignments" }
