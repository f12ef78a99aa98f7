package ledger

import (
	"time"

	"github.com/adisyon/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountRecord is an append-only audit entry written whenever a discount
// is applied to a tab. Records are never updated or deleted.
type DiscountRecord struct {
	ID        uuid.UUID
	BranchID  uuid.UUID
	TabID     uuid.UUID
	Amount    decimal.Decimal
	Rate      decimal.Decimal
	Source    string
	CreatedAt time.Time
}

// NewDiscountRecord creates an audit record for an applied discount
func NewDiscountRecord(branchID, tabID uuid.UUID, amount, rate decimal.Decimal, source string) (*DiscountRecord, error) {
	if tabID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TAB", "Tab ID cannot be empty")
	}
	if amount.IsNegative() || rate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	return &DiscountRecord{
		ID:        uuid.New(),
		BranchID:  branchID,
		TabID:     tabID,
		Amount:    amount,
		Rate:      rate,
		Source:    source,
		CreatedAt: time.Now(),
	}, nil
}
