package ordering

import (
	"fmt"
	"time"

	"github.com/adisyon/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the kitchen/cashier status of an order
type Status string

const (
	StatusNew       Status = "NEW"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusPreparing, StatusReady, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for the paid and cancelled end states
func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status.
// Any active order may be settled (PAID) or cancelled; the kitchen flow
// advances NEW -> PREPARING -> READY.
func (s Status) CanTransitionTo(target Status) bool {
	if s.IsTerminal() {
		return false
	}
	switch target {
	case StatusPaid, StatusCancelled:
		return true
	case StatusPreparing:
		return s == StatusNew
	case StatusReady:
		return s == StatusPreparing
	}
	return false
}

// LineItem represents a single priced line of an order
type LineItem struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	ProductKey      string
	ProductName     string
	Quantity        int
	UnitPrice       decimal.Decimal
	VariationName   string
	IsComplimentary bool
	CreatedAt       time.Time
}

// NewLineItem creates a new order line
func NewLineItem(orderID uuid.UUID, productKey, productName string, quantity int, unitPrice decimal.Decimal, variationName string) (*LineItem, error) {
	if productKey == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product key cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return &LineItem{
		ID:            uuid.New(),
		OrderID:       orderID,
		ProductKey:    productKey,
		ProductName:   productName,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		VariationName: variationName,
		CreatedAt:     time.Now(),
	}, nil
}

// Amount returns the line amount; complimentary lines contribute nothing
func (li *LineItem) Amount() decimal.Decimal {
	if li.IsComplimentary {
		return decimal.Zero
	}
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Order represents a single guest order attached to a tab.
// Orders are created by the materializer and advanced by the kitchen flow;
// settlement (PAID) is driven by the tab ledger.
type Order struct {
	shared.BranchAggregateRoot
	TableCode string
	TabID     uuid.UUID
	Items     []LineItem
	Status    Status
	Total     decimal.Decimal
	PaidAt    *time.Time
}

// NewOrder creates a new order for a table's tab
func NewOrder(branchID, tabID uuid.UUID, tableCode string) (*Order, error) {
	if tabID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TAB", "Tab ID cannot be empty")
	}
	if tableCode == "" {
		return nil, shared.NewDomainError("INVALID_TABLE", "Table code cannot be empty")
	}
	order := &Order{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(branchID),
		TableCode:           tableCode,
		TabID:               tabID,
		Items:               make([]LineItem, 0),
		Status:              StatusNew,
		Total:               decimal.Zero,
	}
	order.AddDomainEvent(NewOrderCreatedEvent(order))
	return order, nil
}

// AddItem adds a line to the order and recomputes the total.
// Only allowed while the order is NEW.
func (o *Order) AddItem(productKey, productName string, quantity int, unitPrice decimal.Decimal, variationName string) (*LineItem, error) {
	if o.Status != StatusNew {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to an order already in the kitchen")
	}
	item, err := NewLineItem(o.ID, productKey, productName, quantity, unitPrice, variationName)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()
	return item, nil
}

// MarkComplimentary flags a line as ikram (on the house) and reprices the order
func (o *Order) MarkComplimentary(itemID uuid.UUID) error {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			o.Items[idx].IsComplimentary = true
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// AdvanceStatus moves the order along the kitchen flow
func (o *Order) AdvanceStatus(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}
	previous := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, previous))
	return nil
}

// MarkPaid finalizes the order at settlement
func (o *Order) MarkPaid() error {
	if err := o.AdvanceStatus(StatusPaid); err != nil {
		return err
	}
	now := time.Now()
	o.PaidAt = &now
	return nil
}

// Cancel cancels the order; cancelled orders drop out of tab totals
func (o *Order) Cancel() error {
	return o.AdvanceStatus(StatusCancelled)
}

// IsActive returns true while the order still counts toward the tab
func (o *Order) IsActive() bool {
	return !o.Status.IsTerminal()
}

// recalculateTotal recomputes the order total from its lines
func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for idx := range o.Items {
		total = total.Add(o.Items[idx].Amount())
	}
	o.Total = total
}
