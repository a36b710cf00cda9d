package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/internal/tenant/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tenant *domain.Tenant) error {
	return db.WithContext(ctx).Create(tenant).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := db.WithContext(ctx).First(&tenant, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *repo) FindBySubdomain(ctx context.Context, db *gorm.DB, subdomain string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := db.WithContext(ctx).First(&tenant, "subdomain = ?", subdomain).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, tenant *domain.Tenant) error {
	return db.WithContext(ctx).Save(tenant).Error
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]domain.TenantListItem, error) {
	var items []domain.TenantListItem
	err := db.WithContext(ctx).Raw(
		`SELECT t.id, t.name, t.subdomain, m.role, t.is_active
		 FROM tenants t
		 JOIN memberships m ON m.tenant_id = t.id
		 WHERE m.user_id = ? AND m.is_active
		 ORDER BY t.created_at`,
		userID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) InsertMembership(ctx context.Context, db *gorm.DB, membership *domain.Membership) error {
	return db.WithContext(ctx).Create(membership).Error
}

func (r *repo) FindMembership(ctx context.Context, db *gorm.DB, tenantID, userID snowflake.ID) (*domain.Membership, error) {
	var membership domain.Membership
	err := db.WithContext(ctx).
		First(&membership, "tenant_id = ? AND user_id = ?", tenantID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *repo) UpdateMembership(ctx context.Context, db *gorm.DB, membership *domain.Membership) error {
	return db.WithContext(ctx).Save(membership).Error
}

func (r *repo) DeleteMembership(ctx context.Context, db *gorm.DB, tenantID, userID snowflake.ID) error {
	return db.WithContext(ctx).
		Exec(`DELETE FROM memberships WHERE tenant_id = ? AND user_id = ?`, tenantID, userID).Error
}

func (r *repo) ListMembers(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]domain.MemberView, error) {
	var members []domain.MemberView
	err := db.WithContext(ctx).Raw(
		`SELECT m.user_id, u.email, u.first_name || ' ' || u.last_name AS name,
		        m.role, m.is_active, m.joined_at
		 FROM memberships m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.tenant_id = ?
		 ORDER BY m.joined_at`,
		tenantID,
	).Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// DeleteCascade deletes children before parents so a failed step aborts the
// whole transaction instead of orphaning rows.
func (r *repo) DeleteCascade(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		statements := []string{
			`DELETE FROM time_entries WHERE task_id IN (
				SELECT t.id FROM tasks t
				JOIN projects p ON p.id = t.project_id
				WHERE p.tenant_id = ?)`,
			`DELETE FROM tasks WHERE project_id IN (
				SELECT id FROM projects WHERE tenant_id = ?)`,
			`DELETE FROM project_assignments WHERE project_id IN (
				SELECT id FROM projects WHERE tenant_id = ?)`,
			`DELETE FROM projects WHERE tenant_id = ?`,
			`DELETE FROM client_contacts WHERE client_id IN (
				SELECT id FROM clients WHERE tenant_id = ?)`,
			`DELETE FROM clients WHERE tenant_id = ?`,
			`DELETE FROM memberships WHERE tenant_id = ?`,
			`DELETE FROM tenants WHERE id = ?`,
		}
		for _, stmt := range statements {
			if err := tx.Exec(stmt, tenantID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
