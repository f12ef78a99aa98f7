package persistence

import (
	"context"
	"errors"

	"github.com/adisyon/backend/internal/domain/ledger"
	"github.com/adisyon/backend/internal/domain/shared"
	"github.com/adisyon/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTabRepository implements TabRepository using GORM
type GormTabRepository struct {
	db *gorm.DB
}

// NewGormTabRepository creates a new GormTabRepository
func NewGormTabRepository(db *gorm.DB) *GormTabRepository {
	return &GormTabRepository{db: db}
}

// Save creates or updates a tab
func (r *GormTabRepository) Save(ctx context.Context, tab *ledger.Tab) error {
	model := models.TabModelFromDomain(tab)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a tab by its ID
func (r *GormTabRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Tab, error) {
	var model models.TabModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForBranch finds a tab by ID within a branch
func (r *GormTabRepository) FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*ledger.Tab, error) {
	var model models.TabModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND id = ?", branchID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenByTable finds the most recently opened open tab for a table
func (r *GormTabRepository) FindOpenByTable(ctx context.Context, branchID uuid.UUID, tableCode string) (*ledger.Tab, error) {
	var model models.TabModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND table_code = ? AND status = ?", branchID, tableCode, string(ledger.TabStatusOpen)).
		Order("opened_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
