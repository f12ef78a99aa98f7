package models

import (
	"time"

	"github.com/adisyon/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TabModel is the persistence model for the Tab aggregate root.
// Totals are denormalized snapshots of the latest recompute; the child order
// and payment rows remain the source of truth.
type TabModel struct {
	BranchAggregateModel
	TableCode      string          `gorm:"type:varchar(50);not null;index:idx_tabs_branch_table"`
	Status         string          `gorm:"type:varchar(20);not null;index"`
	OpenedAt       time.Time       `gorm:"not null"`
	ClosedAt       *time.Time
	GrossTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountRate   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentsTotal  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TipTotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Balance        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (TabModel) TableName() string {
	return "tabs"
}

// ToDomain converts the persistence model to a domain Tab aggregate.
func (m *TabModel) ToDomain() *ledger.Tab {
	tab := &ledger.Tab{
		TableCode:      m.TableCode,
		Status:         ledger.TabStatus(m.Status),
		OpenedAt:       m.OpenedAt,
		ClosedAt:       m.ClosedAt,
		GrossTotal:     m.GrossTotal,
		DiscountRate:   m.DiscountRate,
		DiscountAmount: m.DiscountAmount,
		PaymentsTotal:  m.PaymentsTotal,
		TipTotal:       m.TipTotal,
		Balance:        m.Balance,
	}
	m.PopulateBranchAggregateRoot(&tab.BranchAggregateRoot)
	return tab
}

// FromDomain populates the persistence model from a domain Tab aggregate.
func (m *TabModel) FromDomain(t *ledger.Tab) {
	m.FromDomainBranchAggregateRoot(t.BranchAggregateRoot)
	m.TableCode = t.TableCode
	m.Status = string(t.Status)
	m.OpenedAt = t.OpenedAt
	m.ClosedAt = t.ClosedAt
	m.GrossTotal = t.GrossTotal
	m.DiscountRate = t.DiscountRate
	m.DiscountAmount = t.DiscountAmount
	m.PaymentsTotal = t.PaymentsTotal
	m.TipTotal = t.TipTotal
	m.Balance = t.Balance
}

// TabModelFromDomain creates a new persistence model from a domain Tab aggregate.
func TabModelFromDomain(t *ledger.Tab) *TabModel {
	m := &TabModel{}
	m.FromDomain(t)
	return m
}

// PaymentModel is the persistence model for payment records. A detached
// payment (nil tab_id) survives for audit but counts toward no tab.
type PaymentModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	BranchID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	TabID     *uuid.UUID      `gorm:"type:uuid;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method    string          `gorm:"type:varchar(20);not null"`
	Voided    bool            `gorm:"not null;default:false"`
	CreatedAt time.Time       `gorm:"not null;index"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment record.
func (m *PaymentModel) ToDomain() *ledger.Payment {
	return &ledger.Payment{
		ID:        m.ID,
		BranchID:  m.BranchID,
		TabID:     m.TabID,
		Amount:    m.Amount,
		Method:    ledger.PaymentMethod(m.Method),
		Voided:    m.Voided,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Payment record.
func (m *PaymentModel) FromDomain(p *ledger.Payment) {
	m.ID = p.ID
	m.BranchID = p.BranchID
	m.TabID = p.TabID
	m.Amount = p.Amount
	m.Method = string(p.Method)
	m.Voided = p.Voided
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment record.
func PaymentModelFromDomain(p *ledger.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// DiscountRecordModel is the persistence model for the append-only discount
// audit trail. Rows are inserted and never updated.
type DiscountRecordModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	BranchID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	TabID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Source    string          `gorm:"type:varchar(100)"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DiscountRecordModel) TableName() string {
	return "discount_records"
}

// ToDomain converts the persistence model to a domain DiscountRecord.
func (m *DiscountRecordModel) ToDomain() *ledger.DiscountRecord {
	return &ledger.DiscountRecord{
		ID:        m.ID,
		BranchID:  m.BranchID,
		TabID:     m.TabID,
		Amount:    m.Amount,
		Rate:      m.Rate,
		Source:    m.Source,
		CreatedAt: m.CreatedAt,
	}
}

// DiscountRecordModelFromDomain creates a new persistence model from a domain DiscountRecord.
func DiscountRecordModelFromDomain(r *ledger.DiscountRecord) *DiscountRecordModel {
	return &DiscountRecordModel{
		ID:        r.ID,
		BranchID:  r.BranchID,
		TabID:     r.TabID,
		Amount:    r.Amount,
		Rate:      r.Rate,
		Source:    r.Source,
		CreatedAt: r.CreatedAt,
	}
}
