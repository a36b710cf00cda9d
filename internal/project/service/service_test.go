package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/internal/apperror"
	clientdomain "github.com/lumora-hq/lumora/internal/client/domain"
	clientrepo "github.com/lumora-hq/lumora/internal/client/repository"
	"github.com/lumora-hq/lumora/internal/project/domain"
	"github.com/lumora-hq/lumora/internal/project/repository"
	taskdomain "github.com/lumora-hq/lumora/internal/task/domain"
	tenantdomain "github.com/lumora-hq/lumora/internal/tenant/domain"
	tenantrepo "github.com/lumora-hq/lumora/internal/tenant/repository"
	timeentrydomain "github.com/lumora-hq/lumora/internal/timeentry/domain"
	userdomain "github.com/lumora-hq/lumora/internal/user/domain"
	"github.com/lumora-hq/lumora/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&userdomain.User{},
		&tenantdomain.Tenant{},
		&tenantdomain.Membership{},
		&clientdomain.Client{},
		&domain.Project{},
		&domain.ProjectAssignment{},
		&taskdomain.Task{},
		&timeentrydomain.TimeEntry{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:         conn,
		Log:        zap.NewNop(),
		GenID:      node,
		Repo:       repository.Provide(),
		ClientRepo: clientrepo.Provide(),
		TenantRepo: tenantrepo.Provide(),
	})
	return svc, conn, node
}

func seedTenant(t *testing.T, conn *gorm.DB, node *snowflake.Node, subdomain string) tenantdomain.TenantContext {
	t.Helper()
	tenant := tenantdomain.Tenant{
		ID:        node.Generate(),
		Name:      subdomain,
		Subdomain: subdomain,
		OwnerID:   node.Generate(),
		Plan:      tenantdomain.PlanFree,
		IsActive:  true,
		Settings:  datatypes.JSONMap{},
	}
	require.NoError(t, conn.Create(&tenant).Error)
	return tenantdomain.TenantContext{Tenant: tenant, Role: tenantdomain.RoleOwner}
}

func seedClient(t *testing.T, conn *gorm.DB, node *snowflake.Node, tenantID snowflake.ID, email string) clientdomain.Client {
	t.Helper()
	client := clientdomain.Client{
		ID:       node.Generate(),
		TenantID: tenantID,
		Name:     "Client",
		Email:    email,
		Status:   clientdomain.ClientStatusActive,
	}
	require.NoError(t, conn.Create(&client).Error)
	return client
}

func TestCreateProjectRejectsForeignClient(t *testing.T) {
	svc, conn, node := newTestService(t)
	ctx := context.Background()
	tcA := seedTenant(t, conn, node, "alpha")
	tcB := seedTenant(t, conn, node, "beta")
	foreign := seedClient(t, conn, node, tcB.TenantID(), "f@example.com")

	_, err := svc.Create(ctx, tcA, domain.CreateProjectRequest{
		ClientID: foreign.ID,
		Name:     "Cross",
	})
	if !apperror.IsReference(err) {
		t.Fatalf("expected reference error for client from another workspace, got %v", err)
	}
}

func TestCreateProjectDefaults(t *testing.T) {
	svc, conn, node := newTestService(t)
	ctx := context.Background()
	tc := seedTenant(t, conn, node, "alpha")
	client := seedClient(t, conn, node, tc.TenantID(), "c@example.com")

	project, err := svc.Create(ctx, tc, domain.CreateProjectRequest{ClientID: client.ID, Name: "P"})
	require.NoError(t, err)
	if project.Status != domain.ProjectStatusPlanning {
		t.Fatalf("expected planning default, got %q", project.Status)
	}
	if project.Priority != domain.PriorityMedium {
		t.Fatalf("expected medium default priority, got %d", project.Priority)
	}
	if project.TenantID != tc.TenantID() {
		t.Fatalf("project bound to wrong tenant")
	}
}

func TestProjectProgress(t *testing.T) {
	svc, conn, node := newTestService(t)
	ctx := context.Background()
	tc := seedTenant(t, conn, node, "alpha")
	client := seedClient(t, conn, node, tc.TenantID(), "c@example.com")

	project, err := svc.Create(ctx, tc, domain.CreateProjectRequest{ClientID: client.ID, Name: "P"})
	require.NoError(t, err)

	// no tasks: progress stays zero
	view, err := svc.GetByID(ctx, tc, project.ID)
	require.NoError(t, err)
	if view.TotalTasks != 0 || view.ProgressPercentage != 0 {
		t.Fatalf("expected zero progress without tasks, got %+v", view)
	}

	statuses := []taskdomain.TaskStatus{
		taskdomain.TaskStatusCompleted,
		taskdomain.TaskStatusCompleted,
		taskdomain.TaskStatusTodo,
		taskdomain.TaskStatusInProgress,
	}
	for _, status := range statuses {
		task := taskdomain.Task{
			ID:          node.Generate(),
			ProjectID:   project.ID,
			Title:       "T",
			Status:      status,
			Priority:    2,
			HoursLogged: 1.5,
		}
		require.NoError(t, conn.Create(&task).Error)
	}

	view, err = svc.GetByID(ctx, tc, project.ID)
	require.NoError(t, err)
	if view.TotalTasks != 4 || view.CompletedTasks != 2 {
		t.Fatalf("unexpected task counts: %+v", view)
	}
	if view.ProgressPercentage != 50.0 {
		t.Fatalf("expected 50.0 progress, got %v", view.ProgressPercentage)
	}
	if view.TotalHoursLogged != 6 {
		t.Fatalf("expected 6 hours logged, got %v", view.TotalHoursLogged)
	}
}

func TestReassignClientRevalidatesTenant(t *testing.T) {
	svc, conn, node := newTestService(t)
	ctx := context.Background()
	tcA := seedTenant(t, conn, node, "alpha")
	tcB := seedTenant(t, conn, node, "beta")
	clientA := seedClient(t, conn, node, tcA.TenantID(), "a@example.com")
	clientA2 := seedClient(t, conn, node, tcA.TenantID(), "a2@example.com")
	clientB := seedClient(t, conn, node, tcB.TenantID(), "b@example.com")

	project, err := svc.Create(ctx, tcA, domain.CreateProjectRequest{ClientID: clientA.ID, Name: "P"})
	require.NoError(t, err)

	_, err = svc.ReassignClient(ctx, tcA, project.ID, clientB.ID)
	if !apperror.IsReference(err) {
		t.Fatalf("expected reference error reassigning to foreign client, got %v", err)
	}

	updated, err := svc.ReassignClient(ctx, tcA, project.ID, clientA2.ID)
	require.NoError(t, err)
	if updated.ClientID != clientA2.ID {
		t.Fatalf("expected client to change, got %v", updated.ClientID)
	}
}

func TestAssignMemberRequiresActiveMembership(t *testing.T) {
	svc, conn, node := newTestService(t)
	ctx := context.Background()
	tc := seedTenant(t, conn, node, "alpha")
	client := seedClient(t, conn, node, tc.TenantID(), "c@example.com")

	project, err := svc.Create(ctx, tc, domain.CreateProjectRequest{ClientID: client.ID, Name: "P"})
	require.NoError(t, err)

	stranger := userdomain.User{ID: node.Generate(), Email: "s@example.com", FirstName: "S", LastName: "T"}
	require.NoError(t, conn.Create(&stranger).Error)

	err = svc.AssignMember(ctx, tc, project.ID, stranger.ID)
	if !apperror.IsReference(err) {
		t.Fatalf("expected reference error for non-member assignment, got %v", err)
	}

	membership := tenantdomain.Membership{
		ID:       node.Generate(),
		TenantID: tc.TenantID(),
		UserID:   stranger.ID,
		Role:     tenantdomain.RoleMember,
		IsActive: true,
	}
	require.NoError(t, conn.Create(&membership).Error)

	require.NoError(t, svc.AssignMember(ctx, tc, project.ID, stranger.ID))

	err = svc.AssignMember(ctx, tc, project.ID, stranger.ID)
	if !apperror.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate assignment, got %v", err)
	}

	users, err := svc.ListAssignedUsers(ctx, tc, project.ID)
	require.NoError(t, err)
	if len(users) != 1 || users[0] != stranger.ID {
		t.Fatalf("unexpected assignments: %v", users)
	}
}
