// Package domain contains persistence models for clients and their contacts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ClientStatus is the lifecycle state of a client relationship.
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
	ClientStatusArchived ClientStatus = "archived"
)

// ValidClientStatus reports whether s is a known status.
func ValidClientStatus(s ClientStatus) bool {
	switch s {
	case ClientStatusActive, ClientStatusInactive, ClientStatusArchived:
		return true
	default:
		return false
	}
}

// Client is a tenant-owned customer record. Email is unique per tenant, not
// globally.
type Client struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"not null;index;uniqueIndex:ux_clients_tenant_email,priority:1" json:"tenant_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Email     string       `gorm:"type:text;not null;uniqueIndex:ux_clients_tenant_email,priority:2" json:"email"`
	Company   string       `gorm:"type:text" json:"company"`
	Status    ClientStatus `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }

// ClientContact is an additional person at a client. Email is unique per
// client.
type ClientContact struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ClientID  snowflake.ID `gorm:"not null;index;uniqueIndex:ux_client_contacts_client_email,priority:1" json:"client_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Email     string       `gorm:"type:text;not null;uniqueIndex:ux_client_contacts_client_email,priority:2" json:"email"`
	IsPrimary bool         `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ClientContact) TableName() string { return "client_contacts" }
