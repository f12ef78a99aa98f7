package ledger

import (
	"context"
	"errors"

	appinventory "github.com/adisyon/backend/internal/application/inventory"
	domledger "github.com/adisyon/backend/internal/domain/ledger"
	"github.com/adisyon/backend/internal/domain/ordering"
	"github.com/adisyon/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RepairStrategy partitions a tab's countable payments into the kept set and
// the excess to detach. The default is the newest-first greedy partition.
type RepairStrategy func(gross decimal.Decimal, payments []domledger.Payment, epsilon decimal.Decimal) (kept, excess []domledger.Payment)

// TabService orchestrates the tab ledger: order attachment, payments,
// discounts, repair and settlement. Every mutating operation runs inside a
// single unit of work and recomputes tab totals from child rows before
// acting on them.
type TabService struct {
	uow         domledger.UnitOfWork
	consumption *appinventory.ConsumptionService
	publisher   shared.EventPublisher
	repair      RepairStrategy
	epsilon     decimal.Decimal
	logger      *zap.Logger
}

// NewTabService creates a new tab service. A nil repair strategy selects the
// newest-first overpayment partition; a zero epsilon selects the default
// settlement tolerance.
func NewTabService(
	uow domledger.UnitOfWork,
	consumption *appinventory.ConsumptionService,
	publisher shared.EventPublisher,
	repair RepairStrategy,
	epsilon decimal.Decimal,
	logger *zap.Logger,
) *TabService {
	if repair == nil {
		repair = domledger.PartitionOverpayment
	}
	if epsilon.IsZero() {
		epsilon = domledger.DefaultEpsilon
	}
	return &TabService{
		uow:         uow,
		consumption: consumption,
		publisher:   publisher,
		repair:      repair,
		epsilon:     epsilon,
		logger:      logger,
	}
}

// AttachOrder creates an order with the given lines on the table's open tab,
// opening a tab when the table has none.
func (s *TabService) AttachOrder(ctx context.Context, branchID uuid.UUID, tableCode string, lines []OrderLine) (*AttachOrderResult, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one line")
	}

	var result AttachOrderResult
	var events []shared.DomainEvent

	err := s.uow.Execute(ctx, func(repos domledger.UnitOfWorkRepos) error {
		tab, err := repos.Tabs().FindOpenByTable(ctx, branchID, tableCode)
		if errors.Is(err, shared.ErrNotFound) {
			tab, err = domledger.NewTab(branchID, tableCode)
			if err != nil {
				return err
			}
			if err := repos.Tabs().Save(ctx, tab); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		order, err := ordering.NewOrder(branchID, tab.ID, tableCode)
		if err != nil {
			return err
		}
		for _, line := range lines {
			item, err := order.AddItem(line.ProductKey, line.ProductName, line.Quantity, line.UnitPrice, line.VariationName)
			if err != nil {
				return err
			}
			if line.IsComplimentary {
				if err := order.MarkComplimentary(item.ID); err != nil {
					return err
				}
			}
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}

		if err := s.recompute(ctx, repos, tab); err != nil {
			return err
		}
		if err := repos.Tabs().Save(ctx, tab); err != nil {
			return err
		}

		events = drainEvents(events, &tab.BaseAggregateRoot, &order.BaseAggregateRoot)
		result = AttachOrderResult{
			OrderID:    order.ID,
			TabID:      tab.ID,
			OrderTotal: order.Total,
			TabBalance: tab.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return &result, nil
}

// ApplyPayment records a payment against a tab. The stored payment carries
// only the applied portion; any excess over the balance accrues as tip on
// the tab. When the balance settles, the tab closes in the same transaction:
// active orders are marked paid and their stock is consumed exactly once.
func (s *TabService) ApplyPayment(ctx context.Context, branchID, tabID uuid.UUID, amount decimal.Decimal, method domledger.PaymentMethod) (*PaymentResult, error) {
	var result PaymentResult
	var events []shared.DomainEvent

	err := s.uow.Execute(ctx, func(repos domledger.UnitOfWorkRepos) error {
		tab, err := repos.Tabs().FindByIDForBranch(ctx, branchID, tabID)
		if err != nil {
			return err
		}

		orders, payments, err := s.loadChildren(ctx, repos, tab)
		if err != nil {
			return err
		}
		payments, err = s.repairIfNeeded(ctx, repos, tab, orders, payments)
		if err != nil {
			return err
		}

		applied, tip, err := tab.ApplyPayment(amount)
		if err != nil {
			return err
		}

		if applied.IsPositive() {
			payment, err := domledger.NewPayment(branchID, tab.ID, applied, method)
			if err != nil {
				return err
			}
			if err := repos.Payments().Save(ctx, payment); err != nil {
				return err
			}
			payments = append(payments, *payment)
			result.PaymentID = payment.ID
		}

		tab.Recalculate(orders, payments)

		if tab.IsSettled(s.epsilon) && tab.GrossTotal.GreaterThan(s.epsilon) {
			if err := s.settle(ctx, repos, tab, false); err != nil {
				return err
			}
			result.Closed = true
		}
		if err := repos.Tabs().Save(ctx, tab); err != nil {
			return err
		}

		events = drainEvents(events, &tab.BaseAggregateRoot)
		result.Applied = applied
		result.Tip = tip
		result.Balance = tab.Balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return &result, nil
}

// ApplyDiscount sets the tab's discount and appends an audit record.
// The discount record is append-only; the tab carries only the current value.
func (s *TabService) ApplyDiscount(ctx context.Context, branchID, tabID uuid.UUID, amount, rate decimal.Decimal, source string) error {
	return s.uow.Execute(ctx, func(repos domledger.UnitOfWorkRepos) error {
		tab, err := repos.Tabs().FindByIDForBranch(ctx, branchID, tabID)
		if err != nil {
			return err
		}
		if err := s.recompute(ctx, repos, tab); err != nil {
			return err
		}
		if err := tab.SetDiscount(amount, rate); err != nil {
			return err
		}
		record, err := domledger.NewDiscountRecord(branchID, tab.ID, tab.DiscountAmount, rate, source)
		if err != nil {
			return err
		}
		if err := repos.Discounts().Save(ctx, record); err != nil {
			return err
		}
		return repos.Tabs().Save(ctx, tab)
	})
}

// CloseTab settles and closes a tab. Without force the balance must be zero
// within the epsilon; force closes regardless, eating any shortfall.
func (s *TabService) CloseTab(ctx context.Context, branchID, tabID uuid.UUID, force bool) error {
	var events []shared.DomainEvent

	err := s.uow.Execute(ctx, func(repos domledger.UnitOfWorkRepos) error {
		tab, err := repos.Tabs().FindByIDForBranch(ctx, branchID, tabID)
		if err != nil {
			return err
		}
		orders, payments, err := s.loadChildren(ctx, repos, tab)
		if err != nil {
			return err
		}
		if _, err := s.repairIfNeeded(ctx, repos, tab, orders, payments); err != nil {
			return err
		}
		if !force && !tab.IsSettled(s.epsilon) {
			return shared.ErrTabNotSettled
		}
		if err := s.settle(ctx, repos, tab, force); err != nil {
			return err
		}
		if err := repos.Tabs().Save(ctx, tab); err != nil {
			return err
		}
		events = drainEvents(events, &tab.BaseAggregateRoot)
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events)
	return nil
}

// VoidPayment voids a payment and recomputes its tab when still open
func (s *TabService) VoidPayment(ctx context.Context, branchID, paymentID uuid.UUID) error {
	return s.uow.Execute(ctx, func(repos domledger.UnitOfWorkRepos) error {
		payment, err := repos.Payments().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment.BranchID != branchID {
			return shared.ErrNotFound
		}
		payment.Void()
		if err := repos.Payments().Save(ctx, payment); err != nil {
			return err
		}
		if payment.TabID == nil {
			return nil
		}
		tab, err := repos.Tabs().FindByID(ctx, *payment.TabID)
		if err != nil {
			return err
		}
		if !tab.IsOpen() {
			return nil
		}
		if err := s.recompute(ctx, repos, tab); err != nil {
			return err
		}
		return repos.Tabs().Save(ctx, tab)
	})
}

// CancelOrder cancels an order and drops it from its tab's totals
func (s *TabService) CancelOrder(ctx context.Context, branchID, orderID uuid.UUID) error {
	return s.uow.Execute(ctx, func(repos domledger.UnitOfWorkRepos) error {
		order, err := repos.Orders().FindByIDForBranch(ctx, branchID, orderID)
		if err != nil {
			return err
		}
		if err := order.Cancel(); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		tab, err := repos.Tabs().FindByID(ctx, order.TabID)
		if err != nil {
			return err
		}
		if err := s.recompute(ctx, repos, tab); err != nil {
			return err
		}
		return repos.Tabs().Save(ctx, tab)
	})
}

// AdvanceOrderStatus moves an order along the kitchen flow
func (s *TabService) AdvanceOrderStatus(ctx context.Context, branchID, orderID uuid.UUID, target ordering.Status) error {
	var events []shared.DomainEvent

	err := s.uow.Execute(ctx, func(repos domledger.UnitOfWorkRepos) error {
		order, err := repos.Orders().FindByIDForBranch(ctx, branchID, orderID)
		if err != nil {
			return err
		}
		if err := order.AdvanceStatus(target); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		events = drainEvents(events, &order.BaseAggregateRoot)
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events)
	return nil
}

// MarkLineComplimentary flags an order line as ikram and recomputes the tab
func (s *TabService) MarkLineComplimentary(ctx context.Context, branchID, orderID, itemID uuid.UUID) error {
	return s.uow.Execute(ctx, func(repos domledger.UnitOfWorkRepos) error {
		order, err := repos.Orders().FindByIDForBranch(ctx, branchID, orderID)
		if err != nil {
			return err
		}
		if err := order.MarkComplimentary(itemID); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		tab, err := repos.Tabs().FindByID(ctx, order.TabID)
		if err != nil {
			return err
		}
		if err := s.recompute(ctx, repos, tab); err != nil {
			return err
		}
		return repos.Tabs().Save(ctx, tab)
	})
}

// GetTab returns a tab with recomputed totals and its orders
func (s *TabService) GetTab(ctx context.Context, branchID, tabID uuid.UUID) (*TabView, error) {
	var view *TabView
	err := s.uow.Execute(ctx, func(repos domledger.UnitOfWorkRepos) error {
		tab, err := repos.Tabs().FindByIDForBranch(ctx, branchID, tabID)
		if err != nil {
			return err
		}
		orders, payments, err := s.loadChildren(ctx, repos, tab)
		if err != nil {
			return err
		}
		if tab.IsOpen() {
			tab.Recalculate(orders, payments)
		}
		// the history lists every attached payment, voided ones included
		history, err := repos.Payments().FindByTab(ctx, tab.ID)
		if err != nil {
			return err
		}
		view = buildTabView(tab, orders, history)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetOpenTabByTable returns the table's open tab, or shared.ErrNotFound
func (s *TabService) GetOpenTabByTable(ctx context.Context, branchID uuid.UUID, tableCode string) (*TabView, error) {
	var view *TabView
	err := s.uow.Execute(ctx, func(repos domledger.UnitOfWorkRepos) error {
		tab, err := repos.Tabs().FindOpenByTable(ctx, branchID, tableCode)
		if err != nil {
			return err
		}
		orders, payments, err := s.loadChildren(ctx, repos, tab)
		if err != nil {
			return err
		}
		tab.Recalculate(orders, payments)
		history, err := repos.Payments().FindByTab(ctx, tab.ID)
		if err != nil {
			return err
		}
		view = buildTabView(tab, orders, history)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// loadChildren loads a tab's orders and its countable payments: attached,
// non-voided, created at or after the tab opened
func (s *TabService) loadChildren(ctx context.Context, repos domledger.UnitOfWorkRepos, tab *domledger.Tab) ([]ordering.Order, []domledger.Payment, error) {
	orders, err := repos.Orders().FindByTab(ctx, tab.ID)
	if err != nil {
		return nil, nil, err
	}
	// The time filter keeps a reused table from inheriting payments recorded
	// against a previous tab on the same table.
	payments, err := repos.Payments().FindByTabSince(ctx, tab.ID, tab.OpenedAt)
	if err != nil {
		return nil, nil, err
	}
	return orders, payments, nil
}

// recompute refreshes a tab's totals from its current child rows
func (s *TabService) recompute(ctx context.Context, repos domledger.UnitOfWorkRepos, tab *domledger.Tab) error {
	orders, payments, err := s.loadChildren(ctx, repos, tab)
	if err != nil {
		return err
	}
	tab.Recalculate(orders, payments)
	return nil
}

// repairIfNeeded detaches misrouted payments when the countable payments
// exceed gross. Returns the payments that remain attached.
func (s *TabService) repairIfNeeded(ctx context.Context, repos domledger.UnitOfWorkRepos, tab *domledger.Tab, orders []ordering.Order, payments []domledger.Payment) ([]domledger.Payment, error) {
	tab.Recalculate(orders, payments)
	if !tab.NeedsRepair(s.epsilon) {
		return payments, nil
	}

	countable := make([]domledger.Payment, 0, len(payments))
	for i := range payments {
		if tab.CountsPayment(&payments[i]) {
			countable = append(countable, payments[i])
		}
	}
	_, excess := s.repair(tab.GrossTotal, countable, s.epsilon)

	detached := make(map[uuid.UUID]struct{}, len(excess))
	for i := range excess {
		p := excess[i]
		p.Detach()
		if err := repos.Payments().Save(ctx, &p); err != nil {
			return nil, err
		}
		detached[p.ID] = struct{}{}
		s.logger.Warn("detached overpayment from tab",
			zap.String("tab_id", tab.ID.String()),
			zap.String("payment_id", p.ID.String()),
			zap.String("amount", p.Amount.String()))
	}

	remaining := payments[:0]
	for _, p := range payments {
		if _, gone := detached[p.ID]; !gone {
			remaining = append(remaining, p)
		}
	}
	tab.Recalculate(orders, remaining)
	return remaining, nil
}

// settle marks every active order paid, consumes its stock and closes the
// tab. Runs inside the caller's unit of work so the whole settlement commits
// atomically.
func (s *TabService) settle(ctx context.Context, repos domledger.UnitOfWorkRepos, tab *domledger.Tab, force bool) error {
	active, err := repos.Orders().FindActiveByTab(ctx, tab.ID)
	if err != nil {
		return err
	}
	for i := range active {
		order := &active[i]
		if err := order.MarkPaid(); err != nil {
			return err
		}
		if err := s.consumption.ConsumeOrder(ctx, repos.Stock(), repos.Recipes(), order); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
	}
	return tab.Close(force, s.epsilon)
}

// publish delivers the collected domain events after commit, best-effort
func (s *TabService) publish(ctx context.Context, events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

// drainEvents moves the aggregates' pending events into the slice
func drainEvents(events []shared.DomainEvent, aggregates ...*shared.BaseAggregateRoot) []shared.DomainEvent {
	for _, agg := range aggregates {
		events = append(events, agg.GetDomainEvents()...)
		agg.ClearDomainEvents()
	}
	return events
}

// buildTabView assembles the read model from a tab, its orders and its
// payment history
func buildTabView(tab *domledger.Tab, orders []ordering.Order, payments []domledger.Payment) *TabView {
	view := &TabView{
		ID:             tab.ID,
		TableCode:      tab.TableCode,
		Status:         string(tab.Status),
		OpenedAt:       tab.OpenedAt,
		ClosedAt:       tab.ClosedAt,
		GrossTotal:     tab.GrossTotal,
		DiscountAmount: tab.DiscountAmount,
		DiscountRate:   tab.DiscountRate,
		PaymentsTotal:  tab.PaymentsTotal,
		TipTotal:       tab.TipTotal,
		Balance:        tab.Balance,
	}
	for i := range orders {
		order := &orders[i]
		ov := TabOrderView{
			ID:        order.ID,
			TableCode: order.TableCode,
			Status:    order.Status.String(),
			Total:     order.Total,
		}
		for j := range order.Items {
			line := &order.Items[j]
			ov.Lines = append(ov.Lines, TabLineView{
				ID:              line.ID,
				ProductName:     line.ProductName,
				Quantity:        line.Quantity,
				UnitPrice:       line.UnitPrice,
				VariationName:   line.VariationName,
				IsComplimentary: line.IsComplimentary,
				Amount:          line.Amount(),
			})
		}
		view.Orders = append(view.Orders, ov)
	}
	for i := range payments {
		p := &payments[i]
		view.Payments = append(view.Payments, TabPaymentView{
			ID:        p.ID,
			Amount:    p.Amount,
			Method:    string(p.Method),
			Voided:    p.Voided,
			CreatedAt: p.CreatedAt,
		})
	}
	return view
}
