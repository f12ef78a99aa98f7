package models

import (
	"time"

	"github.com/adisyon/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// BranchAggregateModel provides common persistence fields for branch-scoped
// aggregate roots. It extends AggregateModel with the owning branch ID.
type BranchAggregateModel struct {
	AggregateModel
	BranchID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainBranchAggregateRoot populates BranchAggregateModel from domain BranchAggregateRoot
func (m *BranchAggregateModel) FromDomainBranchAggregateRoot(b shared.BranchAggregateRoot) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.BranchID = b.BranchID
}

// PopulateBranchAggregateRoot populates a domain BranchAggregateRoot from persistence model
func (m *BranchAggregateModel) PopulateBranchAggregateRoot(b *shared.BranchAggregateRoot) {
	b.BaseAggregateRoot.BaseEntity.ID = m.ID
	b.BaseAggregateRoot.BaseEntity.CreatedAt = m.CreatedAt
	b.BaseAggregateRoot.BaseEntity.UpdatedAt = m.UpdatedAt
	b.BaseAggregateRoot.Version = m.Version
	b.BranchID = m.BranchID
}
