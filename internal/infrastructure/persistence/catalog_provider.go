package persistence

import (
	"context"

	"github.com/adisyon/backend/internal/domain/catalog"
	"github.com/adisyon/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCatalogProvider serves the read-only catalog consumed by the chat
// intake. Inactive items are invisible to ordering.
type GormCatalogProvider struct {
	db *Database
}

// NewGormCatalogProvider creates a new GormCatalogProvider
func NewGormCatalogProvider(db *Database) *GormCatalogProvider {
	return &GormCatalogProvider{db: db}
}

// Fetch returns the current active catalog for a branch
func (p *GormCatalogProvider) Fetch(ctx context.Context, branchID uuid.UUID) ([]catalog.Item, error) {
	var itemModels []models.CatalogItemModel
	if err := p.db.WithBranch(branchID).WithContext(ctx).
		Preload("Variations", func(db *gorm.DB) *gorm.DB {
			return db.Order("catalog_variations.sort_order ASC")
		}).
		Where("active = ?", true).
		Order("key ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]catalog.Item, len(itemModels))
	for i := range itemModels {
		items[i] = itemModels[i].ToDomain()
	}
	return items, nil
}

var _ catalog.Provider = (*GormCatalogProvider)(nil)
