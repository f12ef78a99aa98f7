package ledger

import (
	"context"
	"testing"
	"time"

	appinventory "github.com/adisyon/backend/internal/application/inventory"
	"github.com/adisyon/backend/internal/domain/inventory"
	domledger "github.com/adisyon/backend/internal/domain/ledger"
	"github.com/adisyon/backend/internal/domain/ordering"
	"github.com/adisyon/backend/internal/domain/shared"
	"github.com/adisyon/backend/internal/infrastructure/persistence/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type ledgerFixture struct {
	service   *TabService
	store     *memory.Store
	publisher *recordingPublisher
	branchID  uuid.UUID
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()
	publisher := &recordingPublisher{}
	service := NewTabService(
		store,
		appinventory.NewConsumptionService(logger),
		publisher,
		nil,
		decimal.Zero,
		logger,
	)
	return &ledgerFixture{
		service:   service,
		store:     store,
		publisher: publisher,
		branchID:  uuid.New(),
	}
}

func latteLines(qty int) []OrderLine {
	return []OrderLine{{
		ProductKey:  "latte",
		ProductName: "Latte",
		Quantity:    qty,
		UnitPrice:   decimal.NewFromInt(50),
	}}
}

func (fx *ledgerFixture) eventTypes() []string {
	types := make([]string, len(fx.publisher.events))
	for i, e := range fx.publisher.events {
		types[i] = e.EventType()
	}
	return types
}

func TestAttachOrder_OpensTabLazily(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	result, err := fx.service.AttachOrder(ctx, fx.branchID, "M5", latteLines(2))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(result.OrderTotal))
	assert.True(t, decimal.NewFromInt(100).Equal(result.TabBalance))

	// the second order lands on the same open tab
	second, err := fx.service.AttachOrder(ctx, fx.branchID, "M5", latteLines(1))
	require.NoError(t, err)
	assert.Equal(t, result.TabID, second.TabID)
	assert.True(t, decimal.NewFromInt(150).Equal(second.TabBalance))

	assert.Contains(t, fx.eventTypes(), domledger.EventTypeTabOpened)
	assert.Contains(t, fx.eventTypes(), ordering.EventTypeOrderCreated)
}

func TestAttachOrder_RejectsEmptyOrder(t *testing.T) {
	fx := newLedgerFixture(t)

	_, err := fx.service.AttachOrder(context.Background(), fx.branchID, "M5", nil)
	assert.Error(t, err)
}

func TestApplyPayment_PartialLeavesTabOpen(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	attached, err := fx.service.AttachOrder(ctx, fx.branchID, "M5", latteLines(2))
	require.NoError(t, err)

	result, err := fx.service.ApplyPayment(ctx, fx.branchID, attached.TabID, decimal.NewFromInt(60), domledger.PaymentMethodCash)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(60).Equal(result.Applied))
	assert.True(t, result.Tip.IsZero())
	assert.True(t, decimal.NewFromInt(40).Equal(result.Balance))
	assert.False(t, result.Closed)

	view, err := fx.service.GetTab(ctx, fx.branchID, attached.TabID)
	require.NoError(t, err)
	assert.Equal(t, string(domledger.TabStatusOpen), view.Status)
}

func TestApplyPayment_OverpaymentClampsToTipAndCloses(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	attached, err := fx.service.AttachOrder(ctx, fx.branchID, "M5", latteLines(2))
	require.NoError(t, err)

	_, err = fx.service.ApplyPayment(ctx, fx.branchID, attached.TabID, decimal.NewFromInt(60), domledger.PaymentMethodCash)
	require.NoError(t, err)

	// 50 against a 40 balance: 40 applies, 10 becomes tip, the tab closes
	result, err := fx.service.ApplyPayment(ctx, fx.branchID, attached.TabID, decimal.NewFromInt(50), domledger.PaymentMethodCard)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40).Equal(result.Applied), "applied was %s", result.Applied)
	assert.True(t, decimal.NewFromInt(10).Equal(result.Tip), "tip was %s", result.Tip)
	assert.True(t, result.Balance.IsZero())
	assert.True(t, result.Closed)

	view, err := fx.service.GetTab(ctx, fx.branchID, attached.TabID)
	require.NoError(t, err)
	assert.Equal(t, string(domledger.TabStatusClosed), view.Status)
	assert.True(t, decimal.NewFromInt(100).Equal(view.PaymentsTotal))
	assert.True(t, decimal.NewFromInt(10).Equal(view.TipTotal))
	for _, order := range view.Orders {
		assert.Equal(t, "PAID", order.Status)
	}

	// the table is free for the next party
	_, err = fx.service.GetOpenTabByTable(ctx, fx.branchID, "M5")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.Contains(t, fx.eventTypes(), domledger.EventTypeTabPaymentApplied)
	assert.Contains(t, fx.eventTypes(), domledger.EventTypeTabClosed)
}

func TestApplyPayment_SettlementDecrementsStockOnce(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	milk, err := inventory.NewStockItem(fx.branchID, "milk", "Süt", decimal.NewFromInt(1000), inventory.UnitMillilitre)
	require.NoError(t, err)
	fx.store.SeedStock(milk)
	fx.store.SeedRecipe(fx.branchID, inventory.Recipe{
		ProductKey: "latte",
		Ingredients: []inventory.RecipeIngredient{
			{IngredientKey: "milk", Quantity: decimal.NewFromFloat(0.2), Unit: inventory.UnitLitre},
		},
	})

	attached, err := fx.service.AttachOrder(ctx, fx.branchID, "M5", latteLines(2))
	require.NoError(t, err)

	// partial payment must not touch stock
	_, err = fx.service.ApplyPayment(ctx, fx.branchID, attached.TabID, decimal.NewFromInt(60), domledger.PaymentMethodCash)
	require.NoError(t, err)
	item, ok := fx.store.StockItem(fx.branchID, "milk")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(1000).Equal(item.OnHand))

	// settlement consumes 2 x 0.2l = 400ml exactly once
	_, err = fx.service.ApplyPayment(ctx, fx.branchID, attached.TabID, decimal.NewFromInt(40), domledger.PaymentMethodCash)
	require.NoError(t, err)
	item, ok = fx.store.StockItem(fx.branchID, "milk")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(600).Equal(item.OnHand), "on hand was %s", item.OnHand)
}

func TestApplyPayment_FallbackDecrementsByProductName(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	ayran, err := inventory.NewStockItem(fx.branchID, "ayran-stock", "Ayran", decimal.NewFromInt(10), inventory.UnitPiece)
	require.NoError(t, err)
	fx.store.SeedStock(ayran)

	lines := []OrderLine{{
		ProductKey:  "ayran",
		ProductName: "Ayran",
		Quantity:    3,
		UnitPrice:   decimal.NewFromInt(25),
	}}
	attached, err := fx.service.AttachOrder(ctx, fx.branchID, "M5", lines)
	require.NoError(t, err)

	_, err = fx.service.ApplyPayment(ctx, fx.branchID, attached.TabID, decimal.NewFromInt(75), domledger.PaymentMethodCash)
	require.NoError(t, err)

	item, ok := fx.store.StockItem(fx.branchID, "ayran-stock")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(7).Equal(item.OnHand), "on hand was %s", item.OnHand)
}

func TestApplyPayment_UntrackedProductSettlesAnyway(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	attached, err := fx.service.AttachOrder(ctx, fx.branchID, "M5", latteLines(1))
	require.NoError(t, err)

	result, err := fx.service.ApplyPayment(ctx, fx.branchID, attached.TabID, decimal.NewFromInt(50), domledger.PaymentMethodCash)
	require.NoError(t, err)
	assert.True(t, result.Closed)
}

func TestApplyDiscount_RecordsAuditTrail(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	attached, err := fx.service.AttachOrder(ctx, fx.branchID, "M5", latteLines(4))
	require.NoError(t, err)

	err = fx.service.ApplyDiscount(ctx, fx.branchID, attached.TabID, decimal.Zero, decimal.NewFromInt(10), "manager")
	require.NoError(t, err)

	view, err := fx.service.GetTab(ctx, fx.branchID, attached.TabID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20).Equal(view.DiscountAmount), "discount was %s", view.DiscountAmount)
	assert.True(t, decimal.NewFromInt(180).Equal(view.Balance))

	err = fx.store.Execute(ctx, func(repos domledger.UnitOfWorkRepos) error {
		records, err := repos.Discounts().FindByTab(ctx, attached.TabID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "manager", records[0].Source)
		assert.True(t, decimal.NewFromInt(20).Equal(records[0].Amount))
		return nil
	})
	require.NoError(t, err)
}

func TestCloseTab_UnsettledRequiresForce(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	attached, err := fx.service.AttachOrder(ctx, fx.branchID, "M5", latteLines(2))
	require.NoError(t, err)

	err = fx.service.CloseTab(ctx, fx.branchID, attached.TabID, false)
	assert.ErrorIs(t, err, shared.ErrTabNotSettled)

	err = fx.service.CloseTab(ctx, fx.branchID, attached.TabID, true)
	require.NoError(t, err)

	view, err := fx.service.GetTab(ctx, fx.branchID, attached.TabID)
	require.NoError(t, err)
	assert.Equal(t, string(domledger.TabStatusClosed), view.Status)
}

func TestVoidPayment_RestoresBalance(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	attached, err := fx.service.AttachOrder(ctx, fx.branchID, "M5", latteLines(2))
	require.NoError(t, err)
	paid, err := fx.service.ApplyPayment(ctx, fx.branchID, attached.TabID, decimal.NewFromInt(60), domledger.PaymentMethodCash)
	require.NoError(t, err)

	err = fx.service.VoidPayment(ctx, fx.branchID, paid.PaymentID)
	require.NoError(t, err)

	view, err := fx.service.GetTab(ctx, fx.branchID, attached.TabID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(view.Balance), "balance was %s", view.Balance)
	assert.True(t, view.PaymentsTotal.IsZero())

	// the voided payment stays visible in the history
	require.Len(t, view.Payments, 1)
	assert.Equal(t, paid.PaymentID, view.Payments[0].ID)
	assert.True(t, view.Payments[0].Voided)
	assert.True(t, decimal.NewFromInt(60).Equal(view.Payments[0].Amount))
}

func TestCancelOrder_DropsFromTabTotals(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	first, err := fx.service.AttachOrder(ctx, fx.branchID, "M5", latteLines(2))
	require.NoError(t, err)
	_, err = fx.service.AttachOrder(ctx, fx.branchID, "M5", latteLines(1))
	require.NoError(t, err)

	err = fx.service.CancelOrder(ctx, fx.branchID, first.OrderID)
	require.NoError(t, err)

	view, err := fx.service.GetTab(ctx, fx.branchID, first.TabID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(view.GrossTotal), "gross was %s", view.GrossTotal)
}

func TestRepair_DetachesNewestFirstOverpayment(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	attached, err := fx.service.AttachOrder(ctx, fx.branchID, "M5", latteLines(2))
	require.NoError(t, err)

	// Simulate a misrouted payment written behind the service's back.
	err = fx.store.Execute(ctx, func(repos domledger.UnitOfWorkRepos) error {
		stray, err := domledger.NewPayment(fx.branchID, attached.TabID, decimal.NewFromInt(120), domledger.PaymentMethodCash)
		if err != nil {
			return err
		}
		return repos.Payments().Save(ctx, stray)
	})
	require.NoError(t, err)

	// The next payment first repairs the ledger: the stray 120 exceeds the
	// 100 gross and is detached, then the 60 applies against a full balance.
	result, err := fx.service.ApplyPayment(ctx, fx.branchID, attached.TabID, decimal.NewFromInt(60), domledger.PaymentMethodCash)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(60).Equal(result.Applied), "applied was %s", result.Applied)
	view, err := fx.service.GetTab(ctx, fx.branchID, attached.TabID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(60).Equal(view.PaymentsTotal), "payments were %s", view.PaymentsTotal)
	assert.True(t, decimal.NewFromInt(40).Equal(view.Balance))
}

func TestRecompute_IgnoresPaymentsPredatingTab(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	attached, err := fx.service.AttachOrder(ctx, fx.branchID, "M5", latteLines(2))
	require.NoError(t, err)

	// A payment stamped before the tab opened must never count, even when
	// it points at this tab.
	err = fx.store.Execute(ctx, func(repos domledger.UnitOfWorkRepos) error {
		tab, err := repos.Tabs().FindByID(ctx, attached.TabID)
		if err != nil {
			return err
		}
		stale, err := domledger.NewPayment(fx.branchID, attached.TabID, decimal.NewFromInt(40), domledger.PaymentMethodCash)
		if err != nil {
			return err
		}
		stale.CreatedAt = tab.OpenedAt.Add(-time.Minute)
		return repos.Payments().Save(ctx, stale)
	})
	require.NoError(t, err)

	view, err := fx.service.GetTab(ctx, fx.branchID, attached.TabID)
	require.NoError(t, err)
	assert.True(t, view.PaymentsTotal.IsZero(), "payments were %s", view.PaymentsTotal)
	assert.True(t, decimal.NewFromInt(100).Equal(view.Balance), "balance was %s", view.Balance)
}

func TestRepair_PartitionsAgainstGrossNotNet(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	attached, err := fx.service.AttachOrder(ctx, fx.branchID, "M5", latteLines(2))
	require.NoError(t, err)
	require.NoError(t, fx.service.ApplyDiscount(ctx, fx.branchID, attached.TabID, decimal.NewFromInt(20), decimal.Zero, "manager"))

	// Two payments written behind the service's back, the larger one newer.
	// The kept set must fit under the 100 gross, not the 80 net, so the
	// newest-first walk keeps the 90 and detaches the 30.
	var older, newer *domledger.Payment
	err = fx.store.Execute(ctx, func(repos domledger.UnitOfWorkRepos) error {
		older, err = domledger.NewPayment(fx.branchID, attached.TabID, decimal.NewFromInt(30), domledger.PaymentMethodCash)
		if err != nil {
			return err
		}
		if err := repos.Payments().Save(ctx, older); err != nil {
			return err
		}
		newer, err = domledger.NewPayment(fx.branchID, attached.TabID, decimal.NewFromInt(90), domledger.PaymentMethodCash)
		if err != nil {
			return err
		}
		newer.CreatedAt = older.CreatedAt.Add(time.Millisecond)
		return repos.Payments().Save(ctx, newer)
	})
	require.NoError(t, err)

	// Repair runs on close; the kept 90 settles the 80 net balance.
	require.NoError(t, fx.service.CloseTab(ctx, fx.branchID, attached.TabID, false))

	err = fx.store.Execute(ctx, func(repos domledger.UnitOfWorkRepos) error {
		kept, err := repos.Payments().FindByID(ctx, newer.ID)
		require.NoError(t, err)
		assert.True(t, kept.IsAttached())

		detached, err := repos.Payments().FindByID(ctx, older.ID)
		require.NoError(t, err)
		assert.False(t, detached.IsAttached())
		return nil
	})
	require.NoError(t, err)

	view, err := fx.service.GetTab(ctx, fx.branchID, attached.TabID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(90).Equal(view.PaymentsTotal), "payments were %s", view.PaymentsTotal)
	assert.True(t, view.Balance.IsZero(), "balance was %s", view.Balance)
}

func TestAdvanceOrderStatus_KitchenFlow(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	attached, err := fx.service.AttachOrder(ctx, fx.branchID, "M5", latteLines(1))
	require.NoError(t, err)

	require.NoError(t, fx.service.AdvanceOrderStatus(ctx, fx.branchID, attached.OrderID, ordering.StatusPreparing))
	require.NoError(t, fx.service.AdvanceOrderStatus(ctx, fx.branchID, attached.OrderID, ordering.StatusReady))
	assert.Error(t, fx.service.AdvanceOrderStatus(ctx, fx.branchID, attached.OrderID, ordering.StatusNew))

	assert.Contains(t, fx.eventTypes(), ordering.EventTypeOrderStatusChanged)
}

func TestMarkLineComplimentary_RepricesTab(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	attached, err := fx.service.AttachOrder(ctx, fx.branchID, "M5", latteLines(2))
	require.NoError(t, err)

	var itemID uuid.UUID
	err = fx.store.Execute(ctx, func(repos domledger.UnitOfWorkRepos) error {
		order, err := repos.Orders().FindByID(ctx, attached.OrderID)
		require.NoError(t, err)
		itemID = order.Items[0].ID
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, fx.service.MarkLineComplimentary(ctx, fx.branchID, attached.OrderID, itemID))

	view, err := fx.service.GetTab(ctx, fx.branchID, attached.TabID)
	require.NoError(t, err)
	assert.True(t, view.GrossTotal.IsZero(), "gross was %s", view.GrossTotal)
}
