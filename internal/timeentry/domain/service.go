package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	tenantdomain "github.com/lumora-hq/lumora/internal/tenant/domain"
)

type LogTimeRequest struct {
	TaskID    snowflake.ID
	UserID    snowflake.ID
	Hours     float64
	EntryDate time.Time
	Notes     string
}

// LogTimeResult returns the entry and the task total after the write; the
// total is exact, not eventually consistent.
type LogTimeResult struct {
	Entry           TimeEntry `json:"entry"`
	TaskHoursLogged float64   `json:"task_hours_logged"`
}

type Service interface {
	Log(ctx context.Context, tc tenantdomain.TenantContext, req LogTimeRequest) (LogTimeResult, error)
	ListByTask(ctx context.Context, tc tenantdomain.TenantContext, taskID snowflake.ID) ([]TimeEntry, error)
}
