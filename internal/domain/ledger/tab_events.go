package ledger

import (
	"github.com/adisyon/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeTab = "Tab"

// Event type constants
const (
	EventTypeTabOpened         = "TabOpened"
	EventTypeTabPaymentApplied = "TabPaymentApplied"
	EventTypeTabClosed         = "TabClosed"
)

// TabOpenedEvent is raised when a tab is lazily opened for a table
type TabOpenedEvent struct {
	shared.BaseDomainEvent
	TabID     uuid.UUID `json:"tab_id"`
	TableCode string    `json:"table"`
}

// NewTabOpenedEvent creates a new TabOpenedEvent
func NewTabOpenedEvent(tab *Tab) *TabOpenedEvent {
	return &TabOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTabOpened, AggregateTypeTab, tab.ID, tab.BranchID),
		TabID:           tab.ID,
		TableCode:       tab.TableCode,
	}
}

// EventType returns the event type name
func (e *TabOpenedEvent) EventType() string {
	return EventTypeTabOpened
}

// TabPaymentAppliedEvent is raised when a payment is applied to a tab
type TabPaymentAppliedEvent struct {
	shared.BaseDomainEvent
	TabID     uuid.UUID       `json:"tab_id"`
	TableCode string          `json:"table"`
	Applied   decimal.Decimal `json:"applied"`
	Tip       decimal.Decimal `json:"tip"`
	Balance   decimal.Decimal `json:"balance"`
}

// NewTabPaymentAppliedEvent creates a new TabPaymentAppliedEvent
func NewTabPaymentAppliedEvent(tab *Tab, applied, tip decimal.Decimal) *TabPaymentAppliedEvent {
	return &TabPaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTabPaymentApplied, AggregateTypeTab, tab.ID, tab.BranchID),
		TabID:           tab.ID,
		TableCode:       tab.TableCode,
		Applied:         applied,
		Tip:             tip,
		Balance:         tab.Balance,
	}
}

// EventType returns the event type name
func (e *TabPaymentAppliedEvent) EventType() string {
	return EventTypeTabPaymentApplied
}

// TabClosedEvent is raised when a tab closes, either by settlement or force
type TabClosedEvent struct {
	shared.BaseDomainEvent
	TabID     uuid.UUID       `json:"tab_id"`
	TableCode string          `json:"table"`
	Forced    bool            `json:"forced"`
	Gross     decimal.Decimal `json:"gross_total"`
	Payments  decimal.Decimal `json:"payments_total"`
	Tip       decimal.Decimal `json:"tip_total"`
}

// NewTabClosedEvent creates a new TabClosedEvent
func NewTabClosedEvent(tab *Tab, forced bool) *TabClosedEvent {
	return &TabClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTabClosed, AggregateTypeTab, tab.ID, tab.BranchID),
		TabID:           tab.ID,
		TableCode:       tab.TableCode,
		Forced:          forced,
		Gross:           tab.GrossTotal,
		Payments:        tab.PaymentsTotal,
		Tip:             tab.TipTotal,
	}
}

// EventType returns the event type name
func (e *TabClosedEvent) EventType() string {
	return EventTypeTabClosed
}
