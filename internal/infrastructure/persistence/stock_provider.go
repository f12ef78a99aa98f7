package persistence

import (
	"context"

	"github.com/adisyon/backend/internal/domain/inventory"
	"github.com/adisyon/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStockProvider is the read side of stock for the order materializer,
// plus a standalone clamped decrement for back-office corrections outside
// the settlement unit of work.
type GormStockProvider struct {
	db *Database
}

// NewGormStockProvider creates a new GormStockProvider
func NewGormStockProvider(db *Database) *GormStockProvider {
	return &GormStockProvider{db: db}
}

// Fetch returns the current stock snapshot for a branch
func (p *GormStockProvider) Fetch(ctx context.Context, branchID uuid.UUID) ([]inventory.StockItem, error) {
	var itemModels []models.StockItemModel
	if err := p.db.WithBranch(branchID).WithContext(ctx).
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

// Decrement reduces on-hand for a stock key, clamping at zero. The
// read-modify-write runs in its own transaction.
func (p *GormStockProvider) Decrement(ctx context.Context, branchID uuid.UUID, key string, amount decimal.Decimal) error {
	return p.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := NewGormStockRepository(tx)
		item, err := repo.FindByKey(ctx, branchID, key)
		if err != nil {
			return err
		}
		item.Decrement(amount)
		return repo.Save(ctx, item)
	})
}

var _ inventory.StockProvider = (*GormStockProvider)(nil)
