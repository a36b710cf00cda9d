// Package domain contains persistence models for time entries.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// TimeEntry records hours a user logged against a task. Inserting one is the
// sole trigger for recomputing the task's persisted hours_logged.
type TimeEntry struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TaskID    snowflake.ID `gorm:"not null;index" json:"task_id"`
	UserID    snowflake.ID `gorm:"not null;index" json:"user_id"`
	Hours     float64      `gorm:"not null" json:"hours"`
	EntryDate time.Time    `gorm:"not null" json:"entry_date"`
	Notes     string       `gorm:"type:text" json:"notes"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (TimeEntry) TableName() string { return "time_entries" }
