package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	tenantdomain "github.com/lumora-hq/lumora/internal/tenant/domain"
)

type CreateTaskRequest struct {
	ProjectID      snowflake.ID
	Title          string
	Description    string
	Priority       int
	HoursEstimated float64
	DueDate        *time.Time
	AssignedTo     *snowflake.ID
}

// TaskView is a task with its read-time overdue flag.
type TaskView struct {
	Task
	IsOverdue bool `json:"is_overdue"`
}

type Service interface {
	Create(ctx context.Context, tc tenantdomain.TenantContext, req CreateTaskRequest) (Task, error)
	GetByID(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID) (TaskView, error)
	ListByProject(ctx context.Context, tc tenantdomain.TenantContext, projectID snowflake.ID) ([]TaskView, error)
	UpdateStatus(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID, status TaskStatus) (Task, error)
	Assign(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID, userID *snowflake.ID) (Task, error)
	Delete(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID) error
}
