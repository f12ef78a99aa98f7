package persistence

import (
	"context"

	"github.com/adisyon/backend/internal/domain/ledger"
	"github.com/adisyon/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDiscountRecordRepository implements DiscountRecordRepository using GORM.
// The table is append-only; Save always inserts.
type GormDiscountRecordRepository struct {
	db *gorm.DB
}

// NewGormDiscountRecordRepository creates a new GormDiscountRecordRepository
func NewGormDiscountRecordRepository(db *gorm.DB) *GormDiscountRecordRepository {
	return &GormDiscountRecordRepository{db: db}
}

// Save appends a discount audit record
func (r *GormDiscountRecordRepository) Save(ctx context.Context, record *ledger.DiscountRecord) error {
	model := models.DiscountRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByTab finds all discount records for a tab, oldest first
func (r *GormDiscountRecordRepository) FindByTab(ctx context.Context, tabID uuid.UUID) ([]ledger.DiscountRecord, error) {
	var recordModels []models.DiscountRecordModel
	if err := r.db.WithContext(ctx).
		Where("tab_id = ?", tabID).
		Order("created_at ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	records := make([]ledger.DiscountRecord, len(recordModels))
	for i := range recordModels {
		records[i] = *recordModels[i].ToDomain()
	}
	return records, nil
}
