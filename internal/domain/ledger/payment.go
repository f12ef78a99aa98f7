package ledger

import (
	"time"

	"github.com/adisyon/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a payment was taken
type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "CASH"
	PaymentMethodCard  PaymentMethod = "CARD"
	PaymentMethodOther PaymentMethod = "OTHER"
)

// IsValid checks if the method is a known PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is a settlement record against a tab. A payment is never deleted:
// voiding excludes it from totals, detaching clears its tab reference when
// the overpayment repair moves it out of a tab.
type Payment struct {
	ID        uuid.UUID
	BranchID  uuid.UUID
	TabID     *uuid.UUID
	Amount    decimal.Decimal
	Method    PaymentMethod
	Voided    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPayment creates a payment attached to a tab
func NewPayment(branchID, tabID uuid.UUID, amount decimal.Decimal, method PaymentMethod) (*Payment, error) {
	if tabID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TAB", "Tab ID cannot be empty")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		method = PaymentMethodOther
	}
	now := time.Now()
	tab := tabID
	return &Payment{
		ID:        uuid.New(),
		BranchID:  branchID,
		TabID:     &tab,
		Amount:    amount,
		Method:    method,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Void excludes the payment from all totals. Voiding is idempotent.
func (p *Payment) Void() {
	p.Voided = true
	p.UpdatedAt = time.Now()
}

// Detach clears the tab reference. Used by the overpayment repair: the
// payment row survives for audit but no longer counts toward any tab.
func (p *Payment) Detach() {
	p.TabID = nil
	p.UpdatedAt = time.Now()
}

// IsAttached reports whether the payment still references a tab
func (p *Payment) IsAttached() bool {
	return p.TabID != nil
}
