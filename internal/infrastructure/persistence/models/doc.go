// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, AggregateModel, BranchAggregateModel)
// - ledger.go: Tab ledger models (Tab, Payment, DiscountRecord)
// - ordering.go: Order models (Order, OrderLine)
// - inventory.go: Stock models (StockItem, Recipe, RecipeIngredient)
// - catalog.go: Catalog models (CatalogItem, CatalogVariation)
package models

// All returns every persistence model for schema migration.
func All() []any {
	return []any{
		&TabModel{},
		&PaymentModel{},
		&DiscountRecordModel{},
		&OrderModel{},
		&OrderLineModel{},
		&StockItemModel{},
		&RecipeModel{},
		&RecipeIngredientModel{},
		&CatalogItemModel{},
		&CatalogVariationModel{},
	}
}
