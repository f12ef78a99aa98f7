package models

import (
	"github.com/adisyon/backend/internal/domain/catalog"
	"github.com/adisyon/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItemModel is the persistence model for the StockItem aggregate root.
// NormalizedName is a derived column that serves the 1:1 fallback lookup for
// products without a recipe.
type StockItemModel struct {
	BranchAggregateModel
	Key            string          `gorm:"type:varchar(100);not null;index"`
	Name           string          `gorm:"type:varchar(200);not null"`
	NormalizedName string          `gorm:"type:varchar(200);not null;index"`
	OnHand         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Unit           string          `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (StockItemModel) TableName() string {
	return "stock_items"
}

// ToDomain converts the persistence model to a domain StockItem aggregate.
func (m *StockItemModel) ToDomain() *inventory.StockItem {
	item := &inventory.StockItem{
		Key:    m.Key,
		Name:   m.Name,
		OnHand: m.OnHand,
		Unit:   m.Unit,
	}
	m.PopulateBranchAggregateRoot(&item.BranchAggregateRoot)
	return item
}

// FromDomain populates the persistence model from a domain StockItem aggregate.
func (m *StockItemModel) FromDomain(s *inventory.StockItem) {
	m.FromDomainBranchAggregateRoot(s.BranchAggregateRoot)
	m.Key = s.Key
	m.Name = s.Name
	m.NormalizedName = catalog.Normalize(s.Name)
	m.OnHand = s.OnHand
	m.Unit = s.Unit
}

// StockItemModelFromDomain creates a new persistence model from a domain StockItem aggregate.
func StockItemModelFromDomain(s *inventory.StockItem) *StockItemModel {
	m := &StockItemModel{}
	m.FromDomain(s)
	return m
}

// RecipeModel is the persistence model for product recipes.
type RecipeModel struct {
	BaseModel
	BranchID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_branch_product,priority:1"`
	ProductKey string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_recipe_branch_product,priority:2"`
	// Associations
	Ingredients []RecipeIngredientModel `gorm:"foreignKey:RecipeID;references:ID"`
}

// TableName returns the table name for GORM
func (RecipeModel) TableName() string {
	return "recipes"
}

// ToDomain converts the persistence model to a domain Recipe.
func (m *RecipeModel) ToDomain() *inventory.Recipe {
	recipe := &inventory.Recipe{
		ProductKey:  m.ProductKey,
		Ingredients: make([]inventory.RecipeIngredient, len(m.Ingredients)),
	}
	for i, ing := range m.Ingredients {
		recipe.Ingredients[i] = inventory.RecipeIngredient{
			IngredientKey: ing.IngredientKey,
			Quantity:      ing.Quantity,
			Unit:          ing.Unit,
		}
	}
	return recipe
}

// RecipeIngredientModel is the persistence model for a single recipe ingredient.
type RecipeIngredientModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	RecipeID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	IngredientKey string          `gorm:"type:varchar(100);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit          string          `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (RecipeIngredientModel) TableName() string {
	return "recipe_ingredients"
}
