package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/internal/apperror"
	clientdomain "github.com/lumora-hq/lumora/internal/client/domain"
	"github.com/lumora-hq/lumora/internal/clock"
	projectdomain "github.com/lumora-hq/lumora/internal/project/domain"
	projectrepo "github.com/lumora-hq/lumora/internal/project/repository"
	"github.com/lumora-hq/lumora/internal/task/domain"
	"github.com/lumora-hq/lumora/internal/task/repository"
	tenantdomain "github.com/lumora-hq/lumora/internal/tenant/domain"
	userdomain "github.com/lumora-hq/lumora/internal/user/domain"
	userrepo "github.com/lumora-hq/lumora/internal/user/repository"
	"github.com/lumora-hq/lumora/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	conn  *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	tc    tenantdomain.TenantContext
	proj  projectdomain.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&userdomain.User{},
		&tenantdomain.Tenant{},
		&tenantdomain.Membership{},
		&clientdomain.Client{},
		&projectdomain.Project{},
		&domain.Task{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:          conn,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fake,
		Repo:        repository.Provide(),
		ProjectRepo: projectrepo.Provide(),
		UserRepo:    userrepo.Provide(),
	})

	tenant := tenantdomain.Tenant{
		ID:        node.Generate(),
		Name:      "Acme",
		Subdomain: "acme",
		OwnerID:   node.Generate(),
		Plan:      tenantdomain.PlanFree,
		IsActive:  true,
		Settings:  datatypes.JSONMap{},
	}
	require.NoError(t, conn.Create(&tenant).Error)

	client := clientdomain.Client{ID: node.Generate(), TenantID: tenant.ID, Name: "C", Email: "c@example.com", Status: clientdomain.ClientStatusActive}
	require.NoError(t, conn.Create(&client).Error)

	project := projectdomain.Project{ID: node.Generate(), TenantID: tenant.ID, ClientID: client.ID, Name: "P", Status: projectdomain.ProjectStatusActive, Priority: 2}
	require.NoError(t, conn.Create(&project).Error)

	return &fixture{
		svc:   svc,
		conn:  conn,
		node:  node,
		clock: fake,
		tc:    tenantdomain.TenantContext{Tenant: tenant, Role: tenantdomain.RoleOwner},
		proj:  project,
	}
}

func TestCreateTaskValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.tc, domain.CreateTaskRequest{ProjectID: f.proj.ID, Title: "   "})
	if !apperror.IsValidation(err) {
		t.Fatalf("expected validation error for blank title, got %v", err)
	}

	unknown := f.node.Generate()
	missing := f.node.Generate()
	_, err = f.svc.Create(ctx, f.tc, domain.CreateTaskRequest{ProjectID: f.proj.ID, Title: "T", AssignedTo: &missing})
	if !apperror.IsReference(err) {
		t.Fatalf("expected reference error for unknown assignee, got %v", err)
	}

	_, err = f.svc.Create(ctx, f.tc, domain.CreateTaskRequest{ProjectID: unknown, Title: "T"})
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found for unknown project, got %v", err)
	}

	task, err := f.svc.Create(ctx, f.tc, domain.CreateTaskRequest{ProjectID: f.proj.ID, Title: "Real"})
	require.NoError(t, err)
	if task.Status != domain.TaskStatusTodo || task.Priority != projectdomain.PriorityMedium {
		t.Fatalf("unexpected defaults: %+v", task)
	}
}

func TestUpdateStatusCompletionSideEffects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.tc, domain.CreateTaskRequest{ProjectID: f.proj.ID, Title: "T"})
	require.NoError(t, err)

	completed, err := f.svc.UpdateStatus(ctx, f.tc, task.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)
	if completed.CompletedAt == nil {
		t.Fatal("expected completed_at to be set on completion")
	}
	if !completed.CompletedAt.Equal(f.clock.Now()) {
		t.Fatalf("completed_at should use the injected clock, got %v", completed.CompletedAt)
	}

	// a repeat completion keeps the original stamp
	f.clock.Advance(2 * time.Hour)
	repeated, err := f.svc.UpdateStatus(ctx, f.tc, task.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)
	if !repeated.CompletedAt.Equal(*completed.CompletedAt) {
		t.Fatalf("repeat completion must not restamp completed_at")
	}

	reopened, err := f.svc.UpdateStatus(ctx, f.tc, task.ID, domain.TaskStatusInProgress)
	require.NoError(t, err)
	if reopened.CompletedAt != nil {
		t.Fatal("expected completed_at to be cleared when leaving completed")
	}
}

func TestOverdueFlipsOnCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	task, err := f.svc.Create(ctx, f.tc, domain.CreateTaskRequest{ProjectID: f.proj.ID, Title: "Late", DueDate: &due})
	require.NoError(t, err)

	view, err := f.svc.GetByID(ctx, f.tc, task.ID)
	require.NoError(t, err)
	if !view.IsOverdue {
		t.Fatal("expected task past its due date to be overdue")
	}

	_, err = f.svc.UpdateStatus(ctx, f.tc, task.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)

	view, err = f.svc.GetByID(ctx, f.tc, task.ID)
	require.NoError(t, err)
	if view.IsOverdue {
		t.Fatal("completed tasks are never overdue")
	}
}

func TestTaskTenantScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.tc, domain.CreateTaskRequest{ProjectID: f.proj.ID, Title: "Mine"})
	require.NoError(t, err)

	other := tenantdomain.Tenant{
		ID:        f.node.Generate(),
		Name:      "Other",
		Subdomain: "other",
		OwnerID:   f.node.Generate(),
		Plan:      tenantdomain.PlanFree,
		IsActive:  true,
		Settings:  datatypes.JSONMap{},
	}
	require.NoError(t, f.conn.Create(&other).Error)
	otherCtx := tenantdomain.TenantContext{Tenant: other, Role: tenantdomain.RoleOwner}

	_, err = f.svc.GetByID(ctx, otherCtx, task.ID)
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found across workspaces, got %v", err)
	}
}

func TestAssignAndUnassign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := userdomain.User{ID: f.node.Generate(), Email: "u@example.com", FirstName: "U", LastName: "V"}
	require.NoError(t, f.conn.Create(&user).Error)

	task, err := f.svc.Create(ctx, f.tc, domain.CreateTaskRequest{ProjectID: f.proj.ID, Title: "T"})
	require.NoError(t, err)

	assigned, err := f.svc.Assign(ctx, f.tc, task.ID, &user.ID)
	require.NoError(t, err)
	if assigned.AssignedTo == nil || *assigned.AssignedTo != user.ID {
		t.Fatalf("unexpected assignee: %v", assigned.AssignedTo)
	}

	cleared, err := f.svc.Assign(ctx, f.tc, task.ID, nil)
	require.NoError(t, err)
	if cleared.AssignedTo != nil {
		t.Fatal("expected assignee to be cleared")
	}
}
