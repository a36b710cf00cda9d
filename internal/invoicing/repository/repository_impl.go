package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lumora-hq/lumora/internal/invoicing/domain"
	"gorm.io/gorm"
)

type reader struct{}

func Provide() domain.Reader {
	return &reader{}
}

func (r *reader) SumInvoicedAmount(ctx context.Context, db *gorm.DB, clientID snowflake.ID, statuses []domain.InvoiceStatus) (int64, error) {
	if len(statuses) == 0 {
		statuses = domain.BillableStatuses
	}

	var total int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(total_amount), 0)
		 FROM invoices
		 WHERE client_id = ? AND status IN ?`,
		clientID,
		statuses,
	).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total < 0 {
		total = 0
	}
	return total, nil
}
