package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Reader is the outbound contract to the invoicing collaborator: an opaque,
// side-effect-free sum over a client's invoices.
type Reader interface {
	SumInvoicedAmount(ctx context.Context, db *gorm.DB, clientID snowflake.ID, statuses []InvoiceStatus) (int64, error)
}
