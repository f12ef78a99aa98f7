package models

import (
	"time"

	"github.com/adisyon/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	BranchAggregateModel
	TabID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	TableCode string          `gorm:"type:varchar(50);not null"`
	Status    string          `gorm:"type:varchar(20);not null;index"`
	Total     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAt    *time.Time
	// Associations
	Items []OrderLineModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *ordering.Order {
	order := &ordering.Order{
		TabID:     m.TabID,
		TableCode: m.TableCode,
		Status:    ordering.Status(m.Status),
		Total:     m.Total,
		PaidAt:    m.PaidAt,
		Items:     make([]ordering.LineItem, len(m.Items)),
	}
	m.PopulateBranchAggregateRoot(&order.BranchAggregateRoot)
	for i, line := range m.Items {
		order.Items[i] = *line.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *ordering.Order) {
	m.FromDomainBranchAggregateRoot(o.BranchAggregateRoot)
	m.TabID = o.TabID
	m.TableCode = o.TableCode
	m.Status = string(o.Status)
	m.Total = o.Total
	m.PaidAt = o.PaidAt
	m.Items = make([]OrderLineModel, len(o.Items))
	for i := range o.Items {
		m.Items[i] = *OrderLineModelFromDomain(&o.Items[i])
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order aggregate.
func OrderModelFromDomain(o *ordering.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderLineModel is the persistence model for a single order line.
type OrderLineModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductKey      string          `gorm:"type:varchar(100);not null"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VariationName   string          `gorm:"type:varchar(100)"`
	IsComplimentary bool            `gorm:"not null;default:false"`
	CreatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain LineItem.
func (m *OrderLineModel) ToDomain() *ordering.LineItem {
	return &ordering.LineItem{
		ID:              m.ID,
		OrderID:         m.OrderID,
		ProductKey:      m.ProductKey,
		ProductName:     m.ProductName,
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
		VariationName:   m.VariationName,
		IsComplimentary: m.IsComplimentary,
		CreatedAt:       m.CreatedAt,
	}
}

// OrderLineModelFromDomain creates a new persistence model from a domain LineItem.
func OrderLineModelFromDomain(li *ordering.LineItem) *OrderLineModel {
	return &OrderLineModel{
		ID:              li.ID,
		OrderID:         li.OrderID,
		ProductKey:      li.ProductKey,
		ProductName:     li.ProductName,
		Quantity:        li.Quantity,
		UnitPrice:       li.UnitPrice,
		VariationName:   li.VariationName,
		IsComplimentary: li.IsComplimentary,
		CreatedAt:       li.CreatedAt,
	}
}
