package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/internal/client/domain"
	"github.com/lumora-hq/lumora/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Create(client).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Client, error) {
	var client domain.Client
	err := db.WithContext(ctx).
		First(&client, "tenant_id = ? AND id = ?", tenantID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListClientsFilter, page pagination.Pagination) ([]*domain.Client, error) {
	var clients []*domain.Client
	stmt := db.WithContext(ctx).
		Model(&domain.Client{}).
		Where("tenant_id = ?", tenantID)
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err == nil && cursor.CreatedAt != "" {
			if createdAt, parseErr := time.Parse(time.RFC3339, cursor.CreatedAt); parseErr == nil {
				stmt = stmt.Where("(created_at, id) < (?, ?)", createdAt, cursor.ID)
			}
		}
	}
	limit := page.PageSize
	if limit <= 0 {
		limit = 50
	}
	err := stmt.
		Order("created_at desc, id desc").
		Limit(limit + 1).
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Save(client).Error
}

// DeleteCascade deletes the client subtree children first: time entries,
// tasks, assignments, projects, contacts, then the client row.
func (r *repo) DeleteCascade(ctx context.Context, db *gorm.DB, clientID snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		statements := []string{
			`DELETE FROM time_entries WHERE task_id IN (
				SELECT t.id FROM tasks t
				JOIN projects p ON p.id = t.project_id
				WHERE p.client_id = ?)`,
			`DELETE FROM tasks WHERE project_id IN (
				SELECT id FROM projects WHERE client_id = ?)`,
			`DELETE FROM project_assignments WHERE project_id IN (
				SELECT id FROM projects WHERE client_id = ?)`,
			`DELETE FROM projects WHERE client_id = ?`,
			`DELETE FROM client_contacts WHERE client_id = ?`,
			`DELETE FROM clients WHERE id = ?`,
		}
		for _, stmt := range statements {
			if err := tx.Exec(stmt, clientID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repo) CountProjects(ctx context.Context, db *gorm.DB, clientID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("projects").
		Where("client_id = ?", clientID).
		Count(&count).Error
	return count, err
}

func (r *repo) CountProjectsByStatus(ctx context.Context, db *gorm.DB, clientID snowflake.ID, status string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("projects").
		Where("client_id = ? AND status = ?", clientID, status).
		Count(&count).Error
	return count, err
}

func (r *repo) InsertContact(ctx context.Context, db *gorm.DB, contact *domain.ClientContact) error {
	return db.WithContext(ctx).Create(contact).Error
}

func (r *repo) ListContacts(ctx context.Context, db *gorm.DB, clientID snowflake.ID) ([]domain.ClientContact, error) {
	var contacts []domain.ClientContact
	err := db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at").
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}
