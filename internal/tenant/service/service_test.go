package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/internal/apperror"
	clientdomain "github.com/lumora-hq/lumora/internal/client/domain"
	projectdomain "github.com/lumora-hq/lumora/internal/project/domain"
	taskdomain "github.com/lumora-hq/lumora/internal/task/domain"
	"github.com/lumora-hq/lumora/internal/tenant/domain"
	"github.com/lumora-hq/lumora/internal/tenant/repository"
	timeentrydomain "github.com/lumora-hq/lumora/internal/timeentry/domain"
	userdomain "github.com/lumora-hq/lumora/internal/user/domain"
	"github.com/lumora-hq/lumora/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)

	err = conn.AutoMigrate(
		&userdomain.User{},
		&domain.Tenant{},
		&domain.Membership{},
		&clientdomain.Client{},
		&clientdomain.ClientContact{},
		&projectdomain.Project{},
		&projectdomain.ProjectAssignment{},
		&taskdomain.Task{},
		&timeentrydomain.TimeEntry{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, conn, node
}

func seedUser(t *testing.T, conn *gorm.DB, node *snowflake.Node, email string) userdomain.User {
	t.Helper()
	user := userdomain.User{
		ID:        node.Generate(),
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
	}
	require.NoError(t, conn.Create(&user).Error)
	return user
}

func TestCreateTenantSubdomainCharset(t *testing.T) {
	svc, conn, node := newTestService(t)
	ctx := context.Background()
	owner := seedUser(t, conn, node, "owner@example.com")

	_, err := svc.Create(ctx, domain.CreateTenantRequest{
		Name:      "Bad",
		Subdomain: "foo bar!",
		OwnerID:   owner.ID,
	})
	if !apperror.IsValidation(err) {
		t.Fatalf("expected validation error for invalid subdomain, got %v", err)
	}

	tenant, err := svc.Create(ctx, domain.CreateTenantRequest{
		Name:      "Good",
		Subdomain: "Foo-Bar123",
		OwnerID:   owner.ID,
	})
	require.NoError(t, err)
	if tenant.Subdomain != "foo-bar123" {
		t.Fatalf("expected normalized subdomain, got %q", tenant.Subdomain)
	}
	if tenant.Plan != domain.PlanFree {
		t.Fatalf("expected default free plan, got %q", tenant.Plan)
	}
}

func TestCreateTenantDuplicateSubdomain(t *testing.T) {
	svc, conn, node := newTestService(t)
	ctx := context.Background()
	owner := seedUser(t, conn, node, "owner@example.com")

	_, err := svc.Create(ctx, domain.CreateTenantRequest{Name: "A", Subdomain: "acme", OwnerID: owner.ID})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateTenantRequest{Name: "B", Subdomain: "acme", OwnerID: owner.ID})
	if !apperror.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate subdomain, got %v", err)
	}
}

func TestAddMemberDuplicate(t *testing.T) {
	svc, conn, node := newTestService(t)
	ctx := context.Background()
	owner := seedUser(t, conn, node, "owner@example.com")
	member := seedUser(t, conn, node, "member@example.com")

	tenant, err := svc.Create(ctx, domain.CreateTenantRequest{Name: "Acme", Subdomain: "acme", OwnerID: owner.ID})
	require.NoError(t, err)

	_, err = svc.AddMember(ctx, domain.AddMemberRequest{TenantID: tenant.ID, UserID: member.ID, Role: domain.RoleMember})
	require.NoError(t, err)

	_, err = svc.AddMember(ctx, domain.AddMemberRequest{TenantID: tenant.ID, UserID: member.ID, Role: domain.RoleViewer})
	if !apperror.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate membership, got %v", err)
	}
}

func TestUpdateRoleRequiresAdmin(t *testing.T) {
	svc, conn, node := newTestService(t)
	ctx := context.Background()
	owner := seedUser(t, conn, node, "owner@example.com")
	member := seedUser(t, conn, node, "member@example.com")

	tenant, err := svc.Create(ctx, domain.CreateTenantRequest{Name: "Acme", Subdomain: "acme", OwnerID: owner.ID})
	require.NoError(t, err)
	_, err = svc.AddMember(ctx, domain.AddMemberRequest{TenantID: tenant.ID, UserID: member.ID, Role: domain.RoleMember})
	require.NoError(t, err)

	memberCtx := domain.TenantContext{Tenant: tenant, Role: domain.RoleMember}
	_, err = svc.UpdateRole(ctx, memberCtx, member.ID, domain.RoleViewer)
	if !apperror.IsAccessDenied(err) {
		t.Fatalf("expected access denied for member changing roles, got %v", err)
	}

	adminCtx := domain.TenantContext{Tenant: tenant, Role: domain.RoleAdmin}
	updated, err := svc.UpdateRole(ctx, adminCtx, member.ID, domain.RoleViewer)
	require.NoError(t, err)
	if updated.Role != domain.RoleViewer {
		t.Fatalf("expected viewer role, got %q", updated.Role)
	}
}

func TestRemoveOwnerMembershipRefused(t *testing.T) {
	svc, conn, node := newTestService(t)
	ctx := context.Background()
	owner := seedUser(t, conn, node, "owner@example.com")

	tenant, err := svc.Create(ctx, domain.CreateTenantRequest{Name: "Acme", Subdomain: "acme", OwnerID: owner.ID})
	require.NoError(t, err)
	_, err = svc.AddMember(ctx, domain.AddMemberRequest{TenantID: tenant.ID, UserID: owner.ID, Role: domain.RoleOwner})
	require.NoError(t, err)

	adminCtx := domain.TenantContext{Tenant: tenant, Role: domain.RoleAdmin}
	err = svc.RemoveMember(ctx, adminCtx, owner.ID)
	if !apperror.IsAccessDenied(err) {
		t.Fatalf("expected access denied removing owner membership, got %v", err)
	}
}

func TestUpdateOwnerRoleRefused(t *testing.T) {
	svc, conn, node := newTestService(t)
	ctx := context.Background()
	owner := seedUser(t, conn, node, "owner@example.com")

	tenant, err := svc.Create(ctx, domain.CreateTenantRequest{Name: "Acme", Subdomain: "acme", OwnerID: owner.ID})
	require.NoError(t, err)
	_, err = svc.AddMember(ctx, domain.AddMemberRequest{TenantID: tenant.ID, UserID: owner.ID, Role: domain.RoleOwner})
	require.NoError(t, err)

	adminCtx := domain.TenantContext{Tenant: tenant, Role: domain.RoleAdmin}
	_, err = svc.UpdateRole(ctx, adminCtx, owner.ID, domain.RoleViewer)
	if !apperror.IsAccessDenied(err) {
		t.Fatalf("expected access denied demoting the owner, got %v", err)
	}

	var role string
	require.NoError(t, conn.Raw(`SELECT role FROM memberships WHERE tenant_id = ? AND user_id = ?`, tenant.ID, owner.ID).Scan(&role).Error)
	if role != string(domain.RoleOwner) {
		t.Fatalf("owner role must be untouched, got %q", role)
	}
}

func TestResolveContextFailsClosed(t *testing.T) {
	svc, conn, node := newTestService(t)
	ctx := context.Background()
	owner := seedUser(t, conn, node, "owner@example.com")
	outsider := seedUser(t, conn, node, "outsider@example.com")

	tenant, err := svc.Create(ctx, domain.CreateTenantRequest{Name: "Acme", Subdomain: "acme", OwnerID: owner.ID})
	require.NoError(t, err)
	_, err = svc.AddMember(ctx, domain.AddMemberRequest{TenantID: tenant.ID, UserID: owner.ID, Role: domain.RoleOwner})
	require.NoError(t, err)

	// unknown subdomain
	_, err = svc.ResolveContext(ctx, owner.ID, "nope")
	if !apperror.IsAccessDenied(err) {
		t.Fatalf("expected access denied for unknown subdomain, got %v", err)
	}

	// non-member
	_, err = svc.ResolveContext(ctx, outsider.ID, "acme")
	if !apperror.IsAccessDenied(err) {
		t.Fatalf("expected access denied for non-member, got %v", err)
	}

	// happy path
	tc, err := svc.ResolveContext(ctx, owner.ID, "ACME")
	require.NoError(t, err)
	if tc.TenantID() != tenant.ID || tc.Role != domain.RoleOwner {
		t.Fatalf("unexpected context: %+v", tc)
	}

	// inactive membership
	require.NoError(t, conn.Exec(`UPDATE memberships SET is_active = 0 WHERE tenant_id = ? AND user_id = ?`, tenant.ID, owner.ID).Error)
	_, err = svc.ResolveContext(ctx, owner.ID, "acme")
	if !apperror.IsAccessDenied(err) {
		t.Fatalf("expected access denied for inactive membership, got %v", err)
	}

	// inactive tenant
	require.NoError(t, conn.Exec(`UPDATE memberships SET is_active = 1 WHERE tenant_id = ?`, tenant.ID).Error)
	require.NoError(t, conn.Exec(`UPDATE tenants SET is_active = 0 WHERE id = ?`, tenant.ID).Error)
	_, err = svc.ResolveContext(ctx, owner.ID, "acme")
	if !apperror.IsAccessDenied(err) {
		t.Fatalf("expected access denied for inactive tenant, got %v", err)
	}
}

func TestDeleteTenantCascades(t *testing.T) {
	svc, conn, node := newTestService(t)
	ctx := context.Background()
	owner := seedUser(t, conn, node, "owner@example.com")

	tenant, err := svc.Create(ctx, domain.CreateTenantRequest{Name: "Acme", Subdomain: "acme", OwnerID: owner.ID})
	require.NoError(t, err)
	_, err = svc.AddMember(ctx, domain.AddMemberRequest{TenantID: tenant.ID, UserID: owner.ID, Role: domain.RoleOwner})
	require.NoError(t, err)

	client := clientdomain.Client{ID: node.Generate(), TenantID: tenant.ID, Name: "C", Email: "c@example.com", Status: clientdomain.ClientStatusActive}
	require.NoError(t, conn.Create(&client).Error)
	project := projectdomain.Project{ID: node.Generate(), TenantID: tenant.ID, ClientID: client.ID, Name: "P", Status: projectdomain.ProjectStatusActive, Priority: 2}
	require.NoError(t, conn.Create(&project).Error)
	task := taskdomain.Task{ID: node.Generate(), ProjectID: project.ID, Title: "T", Status: taskdomain.TaskStatusTodo, Priority: 2}
	require.NoError(t, conn.Create(&task).Error)

	memberCtx := domain.TenantContext{Tenant: tenant, Role: domain.RoleMember}
	if err := svc.Delete(ctx, memberCtx); !apperror.IsAccessDenied(err) {
		t.Fatalf("expected access denied for non-owner delete, got %v", err)
	}

	ownerCtx := domain.TenantContext{Tenant: tenant, Role: domain.RoleOwner}
	require.NoError(t, svc.Delete(ctx, ownerCtx))

	for _, table := range []string{"tenants", "memberships", "clients", "projects", "tasks"} {
		var count int64
		require.NoError(t, conn.Table(table).Count(&count).Error)
		if count != 0 {
			t.Fatalf("expected %s to be empty after cascade, found %d rows", table, count)
		}
	}
}
