package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	tenantdomain "github.com/lumora-hq/lumora/internal/tenant/domain"
)

type CreateProjectRequest struct {
	ClientID       snowflake.ID
	Name           string
	Status         ProjectStatus
	Priority       int
	StartDate      *time.Time
	EndDate        *time.Time
	EstimatedHours float64
	HourlyRate     int64
	Budget         int64
}

// ProjectView is a project with its read-time aggregates.
type ProjectView struct {
	Project
	TotalTasks         int64   `json:"total_tasks"`
	CompletedTasks     int64   `json:"completed_tasks"`
	ProgressPercentage float64 `json:"progress_percentage"`
	TotalHoursLogged   float64 `json:"total_hours_logged"`
}

type Service interface {
	Create(ctx context.Context, tc tenantdomain.TenantContext, req CreateProjectRequest) (Project, error)
	GetByID(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID) (ProjectView, error)
	ListByClient(ctx context.Context, tc tenantdomain.TenantContext, clientID snowflake.ID) ([]Project, error)
	UpdateStatus(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID, status ProjectStatus) (Project, error)
	ReassignClient(ctx context.Context, tc tenantdomain.TenantContext, id, newClientID snowflake.ID) (Project, error)
	AssignMember(ctx context.Context, tc tenantdomain.TenantContext, id, userID snowflake.ID) error
	UnassignMember(ctx context.Context, tc tenantdomain.TenantContext, id, userID snowflake.ID) error
	ListAssignedUsers(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID) ([]snowflake.ID, error)
	Delete(ctx context.Context, tc tenantdomain.TenantContext, id snowflake.ID) error
}
