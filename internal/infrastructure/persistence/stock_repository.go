package persistence

import (
	"context"
	"errors"

	"github.com/adisyon/backend/internal/domain/catalog"
	"github.com/adisyon/backend/internal/domain/inventory"
	"github.com/adisyon/backend/internal/domain/shared"
	"github.com/adisyon/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockRepository implements StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// Save creates or updates a stock item
func (r *GormStockRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	model := models.StockItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByKey finds a stock item by its key within a branch
func (r *GormStockRepository) FindByKey(ctx context.Context, branchID uuid.UUID, key string) (*inventory.StockItem, error) {
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND key = ?", branchID, key).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNormalizedName finds a stock item by its normalized display name
func (r *GormStockRepository) FindByNormalizedName(ctx context.Context, branchID uuid.UUID, name string) (*inventory.StockItem, error) {
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND normalized_name = ?", branchID, catalog.Normalize(name)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForBranch finds all stock items for a branch
func (r *GormStockRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID) ([]inventory.StockItem, error) {
	var itemModels []models.StockItemModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Order("key ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]inventory.StockItem, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return items, nil
}
