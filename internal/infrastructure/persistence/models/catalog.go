package models

import (
	"github.com/adisyon/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogItemModel is the persistence model for sellable catalog entries.
// The ordering core reads the catalog through the Provider; writes happen
// through back-office tooling outside this service.
type CatalogItemModel struct {
	BaseModel
	BranchID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_catalog_branch_key,priority:1"`
	Key         string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_catalog_branch_key,priority:2"`
	DisplayName string          `gorm:"type:varchar(200);not null"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Category    string          `gorm:"type:varchar(100)"`
	Active      bool            `gorm:"not null;default:true"`
	// Associations
	Variations []CatalogVariationModel `gorm:"foreignKey:ItemID;references:ID"`
}

// TableName returns the table name for GORM
func (CatalogItemModel) TableName() string {
	return "catalog_items"
}

// ToDomain converts the persistence model to a domain catalog Item.
func (m *CatalogItemModel) ToDomain() catalog.Item {
	item := catalog.Item{
		Key:         m.Key,
		DisplayName: m.DisplayName,
		BasePrice:   m.BasePrice,
		Category:    m.Category,
		Variations:  make([]catalog.Variation, len(m.Variations)),
	}
	for i, v := range m.Variations {
		item.Variations[i] = catalog.Variation{
			Name:       v.Name,
			ExtraPrice: v.ExtraPrice,
		}
	}
	return item
}

// CatalogVariationModel is the persistence model for a catalog item variation.
type CatalogVariationModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name       string          `gorm:"type:varchar(100);not null"`
	ExtraPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SortOrder  int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CatalogVariationModel) TableName() string {
	return "catalog_variations"
}
