package ledger

import (
	"testing"
	"time"

	"github.com/adisyon/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTab(t *testing.T) *Tab {
	tab, err := NewTab(uuid.New(), "M1")
	require.NoError(t, err)
	return tab
}

func orderWithTotal(t *testing.T, tab *Tab, total int64) ordering.Order {
	order, err := ordering.NewOrder(tab.BranchID, tab.ID, tab.TableCode)
	require.NoError(t, err)
	_, err = order.AddItem("item", "Item", 1, decimal.NewFromInt(total), "")
	require.NoError(t, err)
	return *order
}

func paymentAt(t *testing.T, tab *Tab, amount int64, at time.Time) Payment {
	p, err := NewPayment(tab.BranchID, tab.ID, decimal.NewFromInt(amount), PaymentMethodCash)
	require.NoError(t, err)
	p.CreatedAt = at
	return *p
}

// assertInvariant checks balance == max(0, gross - discount - payments)
func assertInvariant(t *testing.T, tab *Tab) {
	t.Helper()
	want := tab.GrossTotal.Sub(tab.DiscountAmount).Sub(tab.PaymentsTotal)
	if want.IsNegative() {
		want = decimal.Zero
	}
	assert.True(t, tab.Balance.Equal(want), "balance %s != %s", tab.Balance, want)
}

// ============================================
// Tab lifecycle
// ============================================

func TestNewTab(t *testing.T) {
	tab := createTestTab(t)
	assert.Equal(t, TabStatusOpen, tab.Status)
	assert.True(t, tab.Balance.IsZero())
	assert.Len(t, tab.GetDomainEvents(), 1)

	_, err := NewTab(uuid.New(), "")
	assert.Error(t, err)
}

func TestTab_Close(t *testing.T) {
	tab := createTestTab(t)
	tab.Recalculate([]ordering.Order{orderWithTotal(t, tab, 100)}, nil)

	// open balance blocks close
	err := tab.Close(false, DefaultEpsilon)
	assert.Error(t, err)

	// forced close works regardless
	require.NoError(t, tab.Close(true, DefaultEpsilon))
	assert.Equal(t, TabStatusClosed, tab.Status)
	require.NotNil(t, tab.ClosedAt)

	// closing is terminal
	assert.Error(t, tab.Close(true, DefaultEpsilon))
	_, _, err = tab.ApplyPayment(decimal.NewFromInt(10))
	assert.Error(t, err)
	assert.Error(t, tab.SetDiscount(decimal.NewFromInt(5), decimal.Zero))
}

// ============================================
// Totals recompute
// ============================================

func TestTab_Recalculate_SkipsCancelledOrders(t *testing.T) {
	tab := createTestTab(t)
	kept := orderWithTotal(t, tab, 100)
	cancelled := orderWithTotal(t, tab, 50)
	require.NoError(t, cancelled.Cancel())

	tab.Recalculate([]ordering.Order{kept, cancelled}, nil)
	assert.True(t, tab.GrossTotal.Equal(decimal.NewFromInt(100)))
	assertInvariant(t, tab)
}

func TestTab_Recalculate_Idempotent(t *testing.T) {
	tab := createTestTab(t)
	orders := []ordering.Order{orderWithTotal(t, tab, 100), orderWithTotal(t, tab, 45)}
	payments := []Payment{paymentAt(t, tab, 60, time.Now())}

	tab.Recalculate(orders, payments)
	gross, paid, balance := tab.GrossTotal, tab.PaymentsTotal, tab.Balance

	tab.Recalculate(orders, payments)
	assert.True(t, tab.GrossTotal.Equal(gross))
	assert.True(t, tab.PaymentsTotal.Equal(paid))
	assert.True(t, tab.Balance.Equal(balance))
}

func TestTab_Recalculate_PaymentAntiLeakage(t *testing.T) {
	tab := createTestTab(t)
	before := paymentAt(t, tab, 40, tab.OpenedAt.Add(-time.Hour))
	after := paymentAt(t, tab, 30, tab.OpenedAt.Add(time.Minute))
	voided := paymentAt(t, tab, 25, tab.OpenedAt.Add(time.Minute))
	voided.Void()
	detached := paymentAt(t, tab, 15, tab.OpenedAt.Add(time.Minute))
	detached.Detach()

	tab.Recalculate([]ordering.Order{orderWithTotal(t, tab, 200)}, []Payment{before, after, voided, detached})

	assert.True(t, tab.PaymentsTotal.Equal(decimal.NewFromInt(30)), "payments_total = %s", tab.PaymentsTotal)
	assertInvariant(t, tab)
}

// ============================================
// Discounts
// ============================================

func TestTab_SetDiscount(t *testing.T) {
	tab := createTestTab(t)
	tab.Recalculate([]ordering.Order{orderWithTotal(t, tab, 200)}, nil)

	tests := []struct {
		name   string
		amount decimal.Decimal
		rate   decimal.Decimal
		want   decimal.Decimal
	}{
		{"explicit amount", decimal.NewFromInt(20), decimal.Zero, decimal.NewFromInt(20)},
		{"rate when no amount", decimal.Zero, decimal.NewFromInt(10), decimal.NewFromInt(20)},
		{"amount wins over rate", decimal.NewFromInt(30), decimal.NewFromInt(5), decimal.NewFromInt(30)},
		{"amount clamped to gross", decimal.NewFromInt(500), decimal.Zero, decimal.NewFromInt(200)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tab.SetDiscount(tt.amount, tt.rate))
			assert.True(t, tab.DiscountAmount.Equal(tt.want), "discount = %s", tab.DiscountAmount)
			assertInvariant(t, tab)
		})
	}

	assert.Error(t, tab.SetDiscount(decimal.NewFromInt(-1), decimal.Zero))
	assert.Error(t, tab.SetDiscount(decimal.Zero, decimal.NewFromInt(101)))
}

func TestTab_RateDiscount_TracksGross(t *testing.T) {
	tab := createTestTab(t)
	tab.Recalculate([]ordering.Order{orderWithTotal(t, tab, 100)}, nil)
	require.NoError(t, tab.SetDiscount(decimal.Zero, decimal.NewFromInt(10)))
	assert.True(t, tab.DiscountAmount.Equal(decimal.NewFromInt(10)))

	// a second order grows the rate-based discount on recompute
	tab.Recalculate([]ordering.Order{orderWithTotal(t, tab, 100), orderWithTotal(t, tab, 100)}, nil)
	assert.True(t, tab.DiscountAmount.Equal(decimal.NewFromInt(20)))
	assertInvariant(t, tab)
}

// ============================================
// Payments and tips
// ============================================

func TestTab_ApplyPayment_ClampsAndTips(t *testing.T) {
	tab := createTestTab(t)
	tab.Recalculate([]ordering.Order{orderWithTotal(t, tab, 100)}, nil)

	applied, tip, err := tab.ApplyPayment(decimal.NewFromInt(60))
	require.NoError(t, err)
	assert.True(t, applied.Equal(decimal.NewFromInt(60)))
	assert.True(t, tip.IsZero())
	assert.True(t, tab.Balance.Equal(decimal.NewFromInt(40)))
	assertInvariant(t, tab)

	// second payment overshoots by 10: clamped, excess is a tip
	applied, tip, err = tab.ApplyPayment(decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.True(t, applied.Equal(decimal.NewFromInt(40)))
	assert.True(t, tip.Equal(decimal.NewFromInt(10)))
	assert.True(t, tab.Balance.IsZero())
	assert.True(t, tab.TipTotal.Equal(decimal.NewFromInt(10)))
	assert.True(t, tab.IsSettled(DefaultEpsilon))
	assertInvariant(t, tab)
}

func TestTab_ApplyPayment_Validation(t *testing.T) {
	tab := createTestTab(t)
	_, _, err := tab.ApplyPayment(decimal.Zero)
	assert.Error(t, err)
	_, _, err = tab.ApplyPayment(decimal.NewFromInt(-5))
	assert.Error(t, err)
}

// ============================================
// Overpayment repair
// ============================================

func TestPartitionOverpayment(t *testing.T) {
	tab := createTestTab(t)
	now := time.Now()
	oldest := paymentAt(t, tab, 80, now.Add(-3*time.Minute))
	middle := paymentAt(t, tab, 50, now.Add(-2*time.Minute))
	newest := paymentAt(t, tab, 40, now.Add(-1*time.Minute))
	gross := decimal.NewFromInt(100)

	kept, excess := PartitionOverpayment(gross, []Payment{oldest, middle, newest}, DefaultEpsilon)

	// newest-first greedy: 40 kept, 50 kept (90 <= 100), 80 excess
	require.Len(t, kept, 2)
	require.Len(t, excess, 1)
	assert.Equal(t, newest.ID, kept[0].ID)
	assert.Equal(t, middle.ID, kept[1].ID)
	assert.Equal(t, oldest.ID, excess[0].ID)

	// kept sum stays within gross
	sum := decimal.Zero
	for _, p := range kept {
		sum = sum.Add(p.Amount)
	}
	assert.True(t, sum.LessThanOrEqual(gross))

	// kept and excess sets are disjoint
	seen := map[uuid.UUID]bool{}
	for _, p := range kept {
		seen[p.ID] = true
	}
	for _, p := range excess {
		assert.False(t, seen[p.ID])
	}
}

func TestPartitionOverpayment_ZeroGrossDetachesAll(t *testing.T) {
	tab := createTestTab(t)
	payments := []Payment{
		paymentAt(t, tab, 10, time.Now()),
		paymentAt(t, tab, 20, time.Now()),
	}
	kept, excess := PartitionOverpayment(decimal.Zero, payments, DefaultEpsilon)
	assert.Empty(t, kept)
	assert.Len(t, excess, 2)
}

func TestPartitionOverpayment_NoExcess(t *testing.T) {
	tab := createTestTab(t)
	payments := []Payment{paymentAt(t, tab, 60, time.Now())}
	kept, excess := PartitionOverpayment(decimal.NewFromInt(100), payments, DefaultEpsilon)
	assert.Len(t, kept, 1)
	assert.Empty(t, excess)
}

func TestTab_NeedsRepair(t *testing.T) {
	tab := createTestTab(t)
	tab.GrossTotal = decimal.NewFromInt(100)
	tab.PaymentsTotal = decimal.NewFromInt(100)
	assert.False(t, tab.NeedsRepair(DefaultEpsilon))

	tab.PaymentsTotal = decimal.NewFromInt(130)
	assert.True(t, tab.NeedsRepair(DefaultEpsilon))
}

// ============================================
// Payment entity
// ============================================

func TestNewPayment(t *testing.T) {
	p, err := NewPayment(uuid.New(), uuid.New(), decimal.NewFromInt(50), PaymentMethodCard)
	require.NoError(t, err)
	assert.True(t, p.IsAttached())

	_, err = NewPayment(uuid.New(), uuid.Nil, decimal.NewFromInt(50), PaymentMethodCard)
	assert.Error(t, err)
	_, err = NewPayment(uuid.New(), uuid.New(), decimal.Zero, PaymentMethodCard)
	assert.Error(t, err)

	// unknown methods normalize to OTHER
	p, err = NewPayment(uuid.New(), uuid.New(), decimal.NewFromInt(5), PaymentMethod("BITCOIN"))
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodOther, p.Method)
}

func TestPayment_VoidAndDetach(t *testing.T) {
	tab := createTestTab(t)
	p := paymentAt(t, tab, 50, time.Now())

	assert.True(t, tab.CountsPayment(&p))
	p.Void()
	assert.False(t, tab.CountsPayment(&p))

	q := paymentAt(t, tab, 50, time.Now())
	q.Detach()
	assert.False(t, q.IsAttached())
	assert.False(t, tab.CountsPayment(&q))
}
