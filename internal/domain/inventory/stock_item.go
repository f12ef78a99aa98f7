package inventory

import (
	"time"

	"github.com/adisyon/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItem tracks the on-hand quantity of an ingredient or sellable product.
// On-hand never goes negative; decrements clamp at zero.
type StockItem struct {
	shared.BranchAggregateRoot
	Key    string
	Name   string
	OnHand decimal.Decimal
	Unit   string
}

// NewStockItem creates a new tracked stock item
func NewStockItem(branchID uuid.UUID, key, name string, onHand decimal.Decimal, unit string) (*StockItem, error) {
	if key == "" {
		return nil, shared.NewDomainError("INVALID_STOCK_KEY", "Stock key cannot be empty")
	}
	if onHand.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "On-hand quantity cannot be negative")
	}
	return &StockItem{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(branchID),
		Key:                 key,
		Name:                name,
		OnHand:              onHand,
		Unit:                unit,
	}, nil
}

// Decrement reduces on-hand by the given base-unit amount, clamping at zero.
// It returns the quantity actually consumed.
func (s *StockItem) Decrement(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() || amount.IsZero() {
		return decimal.Zero
	}
	consumed := amount
	if consumed.GreaterThan(s.OnHand) {
		consumed = s.OnHand
	}
	s.OnHand = s.OnHand.Sub(consumed)
	s.UpdatedAt = time.Now()
	return consumed
}

// Increment adds stock back (supplier delivery, correction)
func (s *StockItem) Increment(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Increment amount cannot be negative")
	}
	s.OnHand = s.OnHand.Add(amount)
	s.UpdatedAt = time.Now()
	return nil
}

// CanSatisfy reports whether the requested quantity is available
func (s *StockItem) CanSatisfy(amount decimal.Decimal) bool {
	return s.OnHand.GreaterThanOrEqual(amount)
}
