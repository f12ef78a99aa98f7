package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/adisyon/backend/internal/domain/catalog"
	"github.com/adisyon/backend/internal/domain/inventory"
	"github.com/adisyon/backend/internal/domain/ledger"
	"github.com/adisyon/backend/internal/domain/ordering"
	"github.com/adisyon/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Store is an in-memory implementation of the ledger unit of work and its
// repositories. It backs tests and local development; it serializes every
// unit of work behind one mutex and does not roll back on error.
type Store struct {
	mu        sync.Mutex
	tabs      map[uuid.UUID]ledger.Tab
	payments  map[uuid.UUID]ledger.Payment
	discounts []ledger.DiscountRecord
	orders    map[uuid.UUID]ordering.Order
	stock     map[string]inventory.StockItem
	recipes   map[string]inventory.Recipe
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		tabs:     make(map[uuid.UUID]ledger.Tab),
		payments: make(map[uuid.UUID]ledger.Payment),
		orders:   make(map[uuid.UUID]ordering.Order),
		stock:    make(map[string]inventory.StockItem),
		recipes:  make(map[string]inventory.Recipe),
	}
}

// Execute runs fn with repositories bound to this store. The mutex stands in
// for transaction isolation; mutations made before a failure are kept.
func (s *Store) Execute(ctx context.Context, fn func(repos ledger.UnitOfWorkRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&repoSet{store: s})
}

// SeedStock inserts or replaces a stock item outside a unit of work
func (s *Store) SeedStock(item *inventory.StockItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[stockKey(item.BranchID, item.Key)] = cloneStock(item)
}

// SeedRecipe registers a product recipe for a branch
func (s *Store) SeedRecipe(branchID uuid.UUID, recipe inventory.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[stockKey(branchID, recipe.ProductKey)] = cloneRecipe(recipe)
}

// StockItem returns a copy of a seeded stock item for assertions
func (s *Store) StockItem(branchID uuid.UUID, key string) (inventory.StockItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.stock[stockKey(branchID, key)]
	return item, ok
}

func stockKey(branchID uuid.UUID, key string) string {
	return branchID.String() + "/" + key
}

type repoSet struct {
	store *Store
}

func (r *repoSet) Tabs() ledger.TabRepository { return &tabRepo{r.store} }

func (r *repoSet) Payments() ledger.PaymentRepository { return &paymentRepo{r.store} }

func (r *repoSet) Discounts() ledger.DiscountRecordRepository { return &discountRepo{r.store} }

func (r *repoSet) Orders() ordering.OrderRepository { return &orderRepo{r.store} }

func (r *repoSet) Stock() inventory.StockRepository { return &stockRepo{r.store} }

func (r *repoSet) Recipes() inventory.RecipeRepository { return &recipeRepo{r.store} }

type tabRepo struct{ store *Store }

func (r *tabRepo) Save(ctx context.Context, tab *ledger.Tab) error {
	r.store.tabs[tab.ID] = *tab
	return nil
}

func (r *tabRepo) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Tab, error) {
	tab, ok := r.store.tabs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &tab, nil
}

func (r *tabRepo) FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*ledger.Tab, error) {
	tab, ok := r.store.tabs[id]
	if !ok || tab.BranchID != branchID {
		return nil, shared.ErrNotFound
	}
	return &tab, nil
}

func (r *tabRepo) FindOpenByTable(ctx context.Context, branchID uuid.UUID, tableCode string) (*ledger.Tab, error) {
	var best *ledger.Tab
	for id := range r.store.tabs {
		tab := r.store.tabs[id]
		if tab.BranchID != branchID || tab.TableCode != tableCode || !tab.IsOpen() {
			continue
		}
		if best == nil || tab.OpenedAt.After(best.OpenedAt) {
			copied := tab
			best = &copied
		}
	}
	if best == nil {
		return nil, shared.ErrNotFound
	}
	return best, nil
}

type paymentRepo struct{ store *Store }

func (r *paymentRepo) Save(ctx context.Context, payment *ledger.Payment) error {
	r.store.payments[payment.ID] = *payment
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Payment, error) {
	payment, ok := r.store.payments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &payment, nil
}

func (r *paymentRepo) FindByTab(ctx context.Context, tabID uuid.UUID) ([]ledger.Payment, error) {
	var out []ledger.Payment
	for id := range r.store.payments {
		p := r.store.payments[id]
		if p.TabID != nil && *p.TabID == tabID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *paymentRepo) FindByTabSince(ctx context.Context, tabID uuid.UUID, since time.Time) ([]ledger.Payment, error) {
	var out []ledger.Payment
	for id := range r.store.payments {
		p := r.store.payments[id]
		if p.TabID != nil && *p.TabID == tabID && !p.Voided && !p.CreatedAt.Before(since) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type discountRepo struct{ store *Store }

func (r *discountRepo) Save(ctx context.Context, record *ledger.DiscountRecord) error {
	r.store.discounts = append(r.store.discounts, *record)
	return nil
}

func (r *discountRepo) FindByTab(ctx context.Context, tabID uuid.UUID) ([]ledger.DiscountRecord, error) {
	var out []ledger.DiscountRecord
	for _, rec := range r.store.discounts {
		if rec.TabID == tabID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type orderRepo struct{ store *Store }

func (r *orderRepo) Save(ctx context.Context, order *ordering.Order) error {
	r.store.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	order, ok := r.store.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := cloneOrder(&order)
	return &copied, nil
}

func (r *orderRepo) FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*ordering.Order, error) {
	order, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.BranchID != branchID {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (r *orderRepo) FindByTab(ctx context.Context, tabID uuid.UUID) ([]ordering.Order, error) {
	var out []ordering.Order
	for id := range r.store.orders {
		order := r.store.orders[id]
		if order.TabID == tabID {
			out = append(out, cloneOrder(&order))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *orderRepo) FindActiveByTab(ctx context.Context, tabID uuid.UUID) ([]ordering.Order, error) {
	orders, err := r.FindByTab(ctx, tabID)
	if err != nil {
		return nil, err
	}
	active := orders[:0]
	for _, order := range orders {
		if order.IsActive() {
			active = append(active, order)
		}
	}
	return active, nil
}

type stockRepo struct{ store *Store }

func (r *stockRepo) Save(ctx context.Context, item *inventory.StockItem) error {
	r.store.stock[stockKey(item.BranchID, item.Key)] = cloneStock(item)
	return nil
}

func (r *stockRepo) FindByKey(ctx context.Context, branchID uuid.UUID, key string) (*inventory.StockItem, error) {
	item, ok := r.store.stock[stockKey(branchID, key)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := cloneStock(&item)
	return &copied, nil
}

func (r *stockRepo) FindByNormalizedName(ctx context.Context, branchID uuid.UUID, name string) (*inventory.StockItem, error) {
	for key := range r.store.stock {
		item := r.store.stock[key]
		if item.BranchID == branchID && catalog.Normalize(item.Name) == name {
			copied := cloneStock(&item)
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stockRepo) FindAllForBranch(ctx context.Context, branchID uuid.UUID) ([]inventory.StockItem, error) {
	var out []inventory.StockItem
	for key := range r.store.stock {
		item := r.store.stock[key]
		if item.BranchID == branchID {
			out = append(out, cloneStock(&item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

type recipeRepo struct{ store *Store }

func (r *recipeRepo) FindByProductKey(ctx context.Context, branchID uuid.UUID, productKey string) (*inventory.Recipe, error) {
	recipe, ok := r.store.recipes[stockKey(branchID, productKey)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := cloneRecipe(recipe)
	return &copied, nil
}

func cloneOrder(order *ordering.Order) ordering.Order {
	copied := *order
	copied.Items = make([]ordering.LineItem, len(order.Items))
	copy(copied.Items, order.Items)
	return copied
}

func cloneStock(item *inventory.StockItem) inventory.StockItem {
	return *item
}

func cloneRecipe(recipe inventory.Recipe) inventory.Recipe {
	copied := recipe
	copied.Ingredients = make([]inventory.RecipeIngredient, len(recipe.Ingredients))
	copy(copied.Ingredients, recipe.Ingredients)
	return copied
}
