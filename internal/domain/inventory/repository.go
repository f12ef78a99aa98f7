package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockRepository persists tracked stock items
type StockRepository interface {
	Save(ctx context.Context, item *StockItem) error
	FindByKey(ctx context.Context, branchID uuid.UUID, key string) (*StockItem, error)
	// FindByNormalizedName resolves a stock item by its normalized display
	// name; used by the 1:1 fallback when a product has no recipe
	FindByNormalizedName(ctx context.Context, branchID uuid.UUID, name string) (*StockItem, error)
	FindAllForBranch(ctx context.Context, branchID uuid.UUID) ([]StockItem, error)
}

// RecipeRepository loads product recipes
type RecipeRepository interface {
	FindByProductKey(ctx context.Context, branchID uuid.UUID, productKey string) (*Recipe, error)
}

// StockProvider is the read side consumed by the order materializer. It may
// be served from an external cache; this core only reads current values.
type StockProvider interface {
	Fetch(ctx context.Context, branchID uuid.UUID) ([]StockItem, error)
	Decrement(ctx context.Context, branchID uuid.UUID, key string, amount decimal.Decimal) error
}
