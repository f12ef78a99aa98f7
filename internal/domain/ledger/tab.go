package ledger

import (
	"sort"
	"time"

	"github.com/adisyon/backend/internal/domain/ordering"
	"github.com/adisyon/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TabStatus represents the lifecycle of a tab (adisyon)
type TabStatus string

const (
	TabStatusOpen   TabStatus = "OPEN"
	TabStatusClosed TabStatus = "CLOSED"
)

// IsValid checks if the status is a valid TabStatus
func (s TabStatus) IsValid() bool {
	return s == TabStatusOpen || s == TabStatusClosed
}

// DefaultEpsilon is the settlement tolerance in currency units. A balance at
// or below this is treated as zero.
var DefaultEpsilon = decimal.NewFromFloat(0.01)

// hundred is the percent divisor for rate-based discounts
var hundred = decimal.NewFromInt(100)

// Tab is the running bill (adisyon) attached to a table. It aggregates orders
// and payments until closed. Totals are never patched incrementally: every
// mutation recomputes them from the current child rows, so concurrent writers
// converge on the latest recompute.
type Tab struct {
	shared.BranchAggregateRoot
	TableCode      string
	Status         TabStatus
	OpenedAt       time.Time
	ClosedAt       *time.Time
	GrossTotal     decimal.Decimal
	DiscountRate   decimal.Decimal
	DiscountAmount decimal.Decimal
	PaymentsTotal  decimal.Decimal
	TipTotal       decimal.Decimal
	Balance        decimal.Decimal
}

// NewTab opens a new tab for a table. Tabs are created lazily on the first
// order or payment against a table.
func NewTab(branchID uuid.UUID, tableCode string) (*Tab, error) {
	if tableCode == "" {
		return nil, shared.NewDomainError("INVALID_TABLE", "Table code cannot be empty")
	}
	tab := &Tab{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(branchID),
		TableCode:           tableCode,
		Status:              TabStatusOpen,
		OpenedAt:            time.Now(),
		GrossTotal:          decimal.Zero,
		DiscountRate:        decimal.Zero,
		DiscountAmount:      decimal.Zero,
		PaymentsTotal:       decimal.Zero,
		TipTotal:            decimal.Zero,
		Balance:             decimal.Zero,
	}
	tab.AddDomainEvent(NewTabOpenedEvent(tab))
	return tab, nil
}

// IsOpen returns true while the tab accepts orders and payments
func (t *Tab) IsOpen() bool {
	return t.Status == TabStatusOpen
}

// CountsPayment reports whether a payment belongs in this tab's totals:
// it must be attached, not voided, and created at or after the tab opened.
// The time filter keeps a reused table from inheriting a prior tab's payments.
func (t *Tab) CountsPayment(p *Payment) bool {
	if p.Voided || p.TabID == nil || *p.TabID != t.ID {
		return false
	}
	return !p.CreatedAt.Before(t.OpenedAt)
}

// Recalculate recomputes all totals from the current child rows. Gross is the
// sum of non-cancelled order totals; payments are the attached, non-voided
// payments created at or after OpenedAt.
func (t *Tab) Recalculate(orders []ordering.Order, payments []Payment) {
	gross := decimal.Zero
	for idx := range orders {
		if orders[idx].Status != ordering.StatusCancelled {
			gross = gross.Add(orders[idx].Total)
		}
	}

	paid := decimal.Zero
	for idx := range payments {
		if t.CountsPayment(&payments[idx]) {
			paid = paid.Add(payments[idx].Amount)
		}
	}

	t.GrossTotal = gross
	t.PaymentsTotal = paid
	t.applyDerivedTotals()
	t.UpdatedAt = time.Now()
}

// applyDerivedTotals recomputes discount amount and balance from the current
// gross and payments totals.
func (t *Tab) applyDerivedTotals() {
	discount := t.DiscountAmount
	if t.DiscountRate.IsPositive() {
		discount = t.GrossTotal.Mul(t.DiscountRate).Div(hundred)
	}
	// clamp(discount, 0, gross)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(t.GrossTotal) {
		discount = t.GrossTotal
	}
	t.DiscountAmount = discount

	balance := t.GrossTotal.Sub(t.DiscountAmount).Sub(t.PaymentsTotal)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	t.Balance = balance
}

// NetTotal returns gross minus discount
func (t *Tab) NetTotal() decimal.Decimal {
	return t.GrossTotal.Sub(t.DiscountAmount)
}

// SetDiscount applies a discount as an explicit amount or a percentage rate.
// An explicit amount takes precedence; the rate only applies when no amount
// is given, and a rate-based discount keeps tracking gross on recompute.
// Allowed only while open.
func (t *Tab) SetDiscount(amount, rate decimal.Decimal) error {
	if !t.IsOpen() {
		return shared.ErrTabClosed
	}
	if amount.IsNegative() || rate.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if rate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount rate cannot exceed 100%")
	}
	if amount.IsPositive() {
		t.DiscountRate = decimal.Zero
		t.DiscountAmount = amount
	} else {
		t.DiscountRate = rate
		t.DiscountAmount = decimal.Zero
	}
	t.applyDerivedTotals()
	t.UpdatedAt = time.Now()
	return nil
}

// ApplyPayment clamps an incoming amount to the current balance and returns
// the applied portion plus any excess, which the caller records as a tip.
func (t *Tab) ApplyPayment(amount decimal.Decimal) (applied, tip decimal.Decimal, err error) {
	if !t.IsOpen() {
		return decimal.Zero, decimal.Zero, shared.ErrTabClosed
	}
	if amount.IsNegative() || amount.IsZero() {
		return decimal.Zero, decimal.Zero, shared.NewDomainError("INVALID_PAYMENT", "Payment amount must be positive")
	}

	applied = amount
	if applied.GreaterThan(t.Balance) {
		applied = t.Balance
		tip = amount.Sub(t.Balance)
		t.TipTotal = t.TipTotal.Add(tip)
	}
	t.PaymentsTotal = t.PaymentsTotal.Add(applied)
	t.applyDerivedTotals()
	t.UpdatedAt = time.Now()
	t.AddDomainEvent(NewTabPaymentAppliedEvent(t, applied, tip))
	return applied, tip, nil
}

// IsSettled reports whether the balance is zero within the epsilon tolerance
func (t *Tab) IsSettled(epsilon decimal.Decimal) bool {
	return t.Balance.LessThanOrEqual(epsilon)
}

// Close closes the tab. Unless forced, the balance must be settled. Closing
// is terminal; a closed tab is never reopened.
func (t *Tab) Close(force bool, epsilon decimal.Decimal) error {
	if !t.IsOpen() {
		return shared.ErrTabClosed
	}
	if !force && !t.IsSettled(epsilon) {
		return shared.ErrTabNotSettled
	}
	now := time.Now()
	t.Status = TabStatusClosed
	t.ClosedAt = &now
	t.UpdatedAt = now
	t.AddDomainEvent(NewTabClosedEvent(t, force))
	return nil
}

// NeedsRepair reports whether payments exceed gross beyond the epsilon,
// indicating misrouted payments that must be detached.
func (t *Tab) NeedsRepair(epsilon decimal.Decimal) bool {
	return t.PaymentsTotal.Sub(t.GrossTotal).GreaterThan(epsilon)
}

// PartitionOverpayment splits payments newest-first into a kept set whose
// running sum stays within gross, and the excess set to be detached. When
// gross is zero (within epsilon) every payment is excess.
func PartitionOverpayment(gross decimal.Decimal, payments []Payment, epsilon decimal.Decimal) (kept, excess []Payment) {
	sorted := make([]Payment, len(payments))
	copy(sorted, payments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if gross.LessThanOrEqual(epsilon) {
		return nil, sorted
	}

	running := decimal.Zero
	for _, p := range sorted {
		if running.Add(p.Amount).LessThanOrEqual(gross) {
			running = running.Add(p.Amount)
			kept = append(kept, p)
		} else {
			excess = append(excess, p)
		}
	}
	return kept, excess
}
