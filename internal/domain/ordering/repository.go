package ordering

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository persists Order aggregates
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*Order, error)
	// FindByTab returns all orders attached to a tab, oldest first
	FindByTab(ctx context.Context, tabID uuid.UUID) ([]Order, error)
	// FindActiveByTab returns the non-terminal orders attached to a tab
	FindActiveByTab(ctx context.Context, tabID uuid.UUID) ([]Order, error)
}
