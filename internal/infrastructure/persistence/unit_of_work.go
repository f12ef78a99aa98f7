package persistence

import (
	"context"

	"github.com/adisyon/backend/internal/domain/inventory"
	"github.com/adisyon/backend/internal/domain/ledger"
	"github.com/adisyon/backend/internal/domain/ordering"
	"gorm.io/gorm"
)

// GormUnitOfWork implements the ledger UnitOfWork on a single database
// transaction. Every repository handed to the callback shares the same
// transaction, so a payment insert, the totals recompute and the stock
// decrement commit or roll back together.
type GormUnitOfWork struct {
	db *Database
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *Database) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside a database transaction
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(repos ledger.UnitOfWorkRepos) error) error {
	return u.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newGormRepoSet(tx))
	})
}

// gormRepoSet bundles transaction-scoped repositories
type gormRepoSet struct {
	tabs      *GormTabRepository
	payments  *GormPaymentRepository
	discounts *GormDiscountRecordRepository
	orders    *GormOrderRepository
	stock     *GormStockRepository
	recipes   *GormRecipeRepository
}

func newGormRepoSet(tx *gorm.DB) *gormRepoSet {
	return &gormRepoSet{
		tabs:      NewGormTabRepository(tx),
		payments:  NewGormPaymentRepository(tx),
		discounts: NewGormDiscountRecordRepository(tx),
		orders:    NewGormOrderRepository(tx),
		stock:     NewGormStockRepository(tx),
		recipes:   NewGormRecipeRepository(tx),
	}
}

func (s *gormRepoSet) Tabs() ledger.TabRepository { return s.tabs }

func (s *gormRepoSet) Payments() ledger.PaymentRepository { return s.payments }

func (s *gormRepoSet) Discounts() ledger.DiscountRecordRepository { return s.discounts }

func (s *gormRepoSet) Orders() ordering.OrderRepository { return s.orders }

func (s *gormRepoSet) Stock() inventory.StockRepository { return s.stock }

func (s *gormRepoSet) Recipes() inventory.RecipeRepository { return s.recipes }

var _ ledger.UnitOfWork = (*GormUnitOfWork)(nil)
