// Package domain contains persistence models for tasks.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// TaskStatus is the workflow state of a task. No transition is forbidden;
// only entering and leaving completed has side effects.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// ValidTaskStatus reports whether s is a known status.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// Task resolves to a tenant transitively through its project. HoursLogged is
// derived from time entries but persisted, and is maintained at write time:
// after any successful time entry insert it equals the exact sum of the
// task's entry hours.
type Task struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	ProjectID      snowflake.ID  `gorm:"not null;index" json:"project_id"`
	Title          string        `gorm:"type:text;not null" json:"title"`
	Description    string        `gorm:"type:text" json:"description"`
	Status         TaskStatus    `gorm:"type:text;not null;default:'todo';index" json:"status"`
	Priority       int           `gorm:"not null;default:2" json:"priority"`
	HoursEstimated float64       `gorm:"not null;default:0" json:"hours_estimated"`
	HoursLogged    float64       `gorm:"not null;default:0" json:"hours_logged"`
	DueDate        *time.Time    `json:"due_date,omitempty"`
	AssignedTo     *snowflake.ID `gorm:"index" json:"assigned_to,omitempty"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Task) TableName() string { return "tasks" }

// IsOverdue reports whether the task's due date has passed without the task
// being completed. Completing the task clears the flag even if the due date
// is unchanged.
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status == TaskStatusCompleted {
		return false
	}
	today := now.UTC().Truncate(24 * time.Hour)
	return t.DueDate.Before(today)
}
