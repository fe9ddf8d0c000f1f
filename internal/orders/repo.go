package orders

import (
	"context"
	"strings"

	"github.com/angelmondragon/b2b-portal/pkg/db/models"
	"github.com/angelmondragon/b2b-portal/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists local copies of accepted draft orders.
type Repository interface {
	Create(ctx context.Context, record *models.OrderRecord) error
	ListByEmail(ctx context.Context, email string, params listParams) ([]models.OrderRecord, *pagination.Cursor, error)
}

type repository struct {
	db *gorm.DB
}

type listParams struct {
	Limit  int
	Cursor *pagination.Cursor
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, record *models.OrderRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// ListByEmail pages through a customer's orders newest first.
func (r *repository) ListByEmail(ctx context.Context, email string, params listParams) ([]models.OrderRecord, *pagination.Cursor, error) {
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Model(&models.OrderRecord{}).
		Where("customer_email = ?", strings.ToLower(strings.TrimSpace(email)))
	if params.Cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var records []models.OrderRecord
	if err := query.Order("created_at DESC, id DESC").Limit(normalized + 1).Find(&records).Error; err != nil {
		return nil, nil, err
	}

	if len(records) > normalized {
		records = records[:normalized]
		last := records[normalized-1]
		return records, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return records, nil, nil
}
