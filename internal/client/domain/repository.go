package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListClientsFilter struct {
	Status ClientStatus
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, client *Client) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Client, error)
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListClientsFilter, page pagination.Pagination) ([]*Client, error)
	Update(ctx context.Context, db *gorm.DB, client *Client) error
	DeleteCascade(ctx context.Context, db *gorm.DB, clientID snowflake.ID) error

	CountProjects(ctx context.Context, db *gorm.DB, clientID snowflake.ID) (int64, error)
	CountProjectsByStatus(ctx context.Context, db *gorm.DB, clientID snowflake.ID, status string) (int64, error)

	InsertContact(ctx context.Context, db *gorm.DB, contact *ClientContact) error
	ListContacts(ctx context.Context, db *gorm.DB, clientID snowflake.ID) ([]ClientContact, error)
}
