// Package domain mirrors the invoicing collaborator's persisted shape. The
// workspace core only reads invoice status and totals; it never writes here.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// BillableStatuses are the statuses counted into a client's invoiced total.
var BillableStatuses = []InvoiceStatus{InvoiceStatusSent, InvoiceStatusPaid}

// Invoice is owned by the invoicing collaborator.
type Invoice struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	TenantID    snowflake.ID  `gorm:"not null;index" json:"tenant_id"`
	ClientID    snowflake.ID  `gorm:"not null;index" json:"client_id"`
	Status      InvoiceStatus `gorm:"type:text;not null;default:'draft'" json:"status"`
	TotalAmount int64         `gorm:"not null;default:0" json:"total_amount"`
	IssuedAt    *time.Time    `json:"issued_at,omitempty"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }
