package ledger

import (
	"context"
	"time"

	"github.com/adisyon/backend/internal/domain/inventory"
	"github.com/adisyon/backend/internal/domain/ordering"
	"github.com/google/uuid"
)

// TabRepository persists Tab aggregates
type TabRepository interface {
	Save(ctx context.Context, tab *Tab) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tab, error)
	FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*Tab, error)
	// FindOpenByTable returns the most recently opened open tab for a table,
	// or shared.ErrNotFound when the table has no open tab
	FindOpenByTable(ctx context.Context, branchID uuid.UUID, tableCode string) (*Tab, error)
}

// PaymentRepository persists payment records
type PaymentRepository interface {
	Save(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	// FindByTab returns all payments still attached to a tab, including
	// voided ones and those created before the given time
	FindByTab(ctx context.Context, tabID uuid.UUID) ([]Payment, error)
	// FindByTabSince returns attached payments created at or after the
	// given time, newest first
	FindByTabSince(ctx context.Context, tabID uuid.UUID, since time.Time) ([]Payment, error)
}

// DiscountRecordRepository appends discount audit records
type DiscountRecordRepository interface {
	Save(ctx context.Context, record *DiscountRecord) error
	FindByTab(ctx context.Context, tabID uuid.UUID) ([]DiscountRecord, error)
}

// UnitOfWorkRepos bundles the transaction-scoped repositories available to a
// ledger unit of work. Every repository operates on the same transaction.
type UnitOfWorkRepos interface {
	Tabs() TabRepository
	Payments() PaymentRepository
	Discounts() DiscountRecordRepository
	Orders() ordering.OrderRepository
	Stock() inventory.StockRepository
	Recipes() inventory.RecipeRepository
}

// UnitOfWork executes a function inside a single database transaction. The
// transaction is the unit of atomicity for all ledger-affecting mutations:
// payment insertion, totals recompute, order finalization and stock
// consumption either all commit or all roll back.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos UnitOfWorkRepos) error) error
}
