package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine is one fully priced line awaiting persistence
type OrderLine struct {
	ProductKey      string
	ProductName     string
	Quantity        int
	UnitPrice       decimal.Decimal
	VariationName   string
	IsComplimentary bool
}

// AttachOrderResult reports the order created by AttachOrder and the tab it
// landed on.
type AttachOrderResult struct {
	OrderID    uuid.UUID       `json:"order_id"`
	TabID      uuid.UUID       `json:"tab_id"`
	OrderTotal decimal.Decimal `json:"order_total"`
	TabBalance decimal.Decimal `json:"tab_balance"`
}

// PaymentResult reports how a payment was applied
type PaymentResult struct {
	PaymentID uuid.UUID       `json:"payment_id"`
	Applied   decimal.Decimal `json:"applied"`
	Tip       decimal.Decimal `json:"tip"`
	Balance   decimal.Decimal `json:"balance"`
	Closed    bool            `json:"closed"`
}

// TabView is the read model for a tab with its derived totals
type TabView struct {
	ID             uuid.UUID        `json:"id"`
	TableCode      string           `json:"table_code"`
	Status         string           `json:"status"`
	OpenedAt       time.Time        `json:"opened_at"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
	GrossTotal     decimal.Decimal  `json:"gross_total"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	DiscountRate   decimal.Decimal  `json:"discount_rate"`
	PaymentsTotal  decimal.Decimal  `json:"payments_total"`
	TipTotal       decimal.Decimal  `json:"tip_total"`
	Balance        decimal.Decimal  `json:"balance"`
	Orders         []TabOrderView   `json:"orders"`
	Payments       []TabPaymentView `json:"payments"`
}

// TabPaymentView is one payment in a TabView's history, voided ones included
type TabPaymentView struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Voided    bool            `json:"voided"`
	CreatedAt time.Time       `json:"created_at"`
}

// TabOrderView is one order summarized inside a TabView
type TabOrderView struct {
	ID        uuid.UUID       `json:"id"`
	TableCode string          `json:"table_code"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Lines     []TabLineView   `json:"lines"`
}

// TabLineView is one order line inside a TabOrderView
type TabLineView struct {
	ID              uuid.UUID       `json:"id"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	VariationName   string          `json:"variation_name,omitempty"`
	IsComplimentary bool            `json:"is_complimentary"`
	Amount          decimal.Decimal `json:"amount"`
}
