package chat

import (
	"context"
	"sync"
	"testing"

	appinventory "github.com/adisyon/backend/internal/application/inventory"
	ledgerapp "github.com/adisyon/backend/internal/application/ledger"
	"github.com/adisyon/backend/internal/domain/catalog"
	"github.com/adisyon/backend/internal/domain/inventory"
	"github.com/adisyon/backend/internal/domain/shared"
	"github.com/adisyon/backend/internal/infrastructure/persistence/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCatalogProvider struct {
	items []catalog.Item
}

func (f *fakeCatalogProvider) Fetch(ctx context.Context, branchID uuid.UUID) ([]catalog.Item, error) {
	return f.items, nil
}

type fakeStockProvider struct {
	items []inventory.StockItem
}

func (f *fakeStockProvider) Fetch(ctx context.Context, branchID uuid.UUID) ([]inventory.StockItem, error) {
	return f.items, nil
}

func (f *fakeStockProvider) Decrement(ctx context.Context, branchID uuid.UUID, key string, amount decimal.Decimal) error {
	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return nil
}

// mapSessionStore keeps conversation state in a plain map so the service
// tests need no cache infrastructure.
type mapSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*SessionState
}

func newMapSessionStore() *mapSessionStore {
	return &mapSessionStore{sessions: make(map[string]*SessionState)}
}

func (s *mapSessionStore) Get(ctx context.Context, conversationID string) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[conversationID], nil
}

func (s *mapSessionStore) Put(ctx context.Context, conversationID string, state *SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[conversationID] = state
	return nil
}

func (s *mapSessionStore) Delete(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, conversationID)
	return nil
}

type chatFixture struct {
	service  *Service
	tabs     *ledgerapp.TabService
	store    *memory.Store
	stock    *fakeStockProvider
	sessions *mapSessionStore
	branchID uuid.UUID
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()
	sessions := newMapSessionStore()

	tabs := ledgerapp.NewTabService(
		store,
		appinventory.NewConsumptionService(logger),
		noopPublisher{},
		nil,
		decimal.Zero,
		logger,
	)
	stock := &fakeStockProvider{}
	service := NewService(
		&fakeCatalogProvider{items: testCatalogItems()},
		stock,
		sessions,
		tabs,
		0.92, 0.85,
		logger,
	)
	return &chatFixture{
		service:  service,
		tabs:     tabs,
		store:    store,
		stock:    stock,
		sessions: sessions,
		branchID: uuid.New(),
	}
}

func TestChat_CreatesOrderFromUtterance(t *testing.T) {
	fx := newChatFixture(t)
	ctx := context.Background()

	resp, err := fx.service.Chat(ctx, fx.branchID, Request{
		ConversationID: "conv-1",
		TableCode:      "M5",
		Text:           "Merhaba, 2 latte ve 1 americano alabilir miyim",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.OrderID)
	require.Len(t, resp.Lines, 2)
	assert.True(t, decimal.NewFromInt(245).Equal(resp.OrderTotal), "total was %s", resp.OrderTotal)
	assert.Empty(t, resp.Unmatched)
	assert.Empty(t, resp.Clarifications)

	view, err := fx.tabs.GetOpenTabByTable(ctx, fx.branchID, "M5")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(245).Equal(view.Balance))
}

func TestChat_SecondOrderLandsOnSameTab(t *testing.T) {
	fx := newChatFixture(t)
	ctx := context.Background()

	first, err := fx.service.Chat(ctx, fx.branchID, Request{
		ConversationID: "conv-1", TableCode: "M5", Text: "2 latte",
	})
	require.NoError(t, err)
	second, err := fx.service.Chat(ctx, fx.branchID, Request{
		ConversationID: "conv-2", TableCode: "M5", Text: "1 americano",
	})
	require.NoError(t, err)

	assert.Equal(t, *first.TabID, *second.TabID)
	assert.True(t, decimal.NewFromInt(245).Equal(second.TabBalance), "balance was %s", second.TabBalance)
}

func TestChat_StockShortageWithholdsLine(t *testing.T) {
	fx := newChatFixture(t)
	ctx := context.Background()

	ayran, err := inventory.NewStockItem(fx.branchID, "ayran", "Ayran", decimal.NewFromInt(1), inventory.UnitPiece)
	require.NoError(t, err)
	fx.stock.items = []inventory.StockItem{*ayran}

	resp, err := fx.service.Chat(ctx, fx.branchID, Request{
		ConversationID: "conv-1",
		TableCode:      "M5",
		Text:           "2 ayran 1 latte",
	})
	require.NoError(t, err)

	require.Len(t, resp.Shortages, 1)
	assert.Equal(t, "ayran", resp.Shortages[0].ProductKey)
	assert.Equal(t, 2, resp.Shortages[0].Requested)
	assert.True(t, decimal.NewFromInt(1).Equal(resp.Shortages[0].Available))

	// the latte line still materializes
	require.NotNil(t, resp.OrderID)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "Latte", resp.Lines[0].ProductName)
}

func TestChat_ShortageOnlyTurnCreatesNoOrder(t *testing.T) {
	fx := newChatFixture(t)
	ctx := context.Background()

	ayran, err := inventory.NewStockItem(fx.branchID, "ayran", "Ayran", decimal.Zero, inventory.UnitPiece)
	require.NoError(t, err)
	fx.stock.items = []inventory.StockItem{*ayran}

	resp, err := fx.service.Chat(ctx, fx.branchID, Request{
		ConversationID: "conv-1", TableCode: "M5", Text: "1 ayran",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.OrderID)
	require.Len(t, resp.Shortages, 1)
}

func TestChat_UnmatchedTermsReported(t *testing.T) {
	fx := newChatFixture(t)
	ctx := context.Background()

	resp, err := fx.service.Chat(ctx, fx.branchID, Request{
		ConversationID: "conv-1", TableCode: "M5", Text: "2 pizza lütfen",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.OrderID)
	assert.Contains(t, resp.Unmatched, "pizza")
}

func TestChat_VariationClarificationFlow(t *testing.T) {
	fx := newChatFixture(t)
	ctx := context.Background()

	// Turn 1: the product needs a variation, nothing is written yet.
	resp, err := fx.service.Chat(ctx, fx.branchID, Request{
		ConversationID: "conv-1",
		TableCode:      "M5",
		Text:           "1 latte ve 2 türk kahvesi",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.OrderID)
	require.Len(t, resp.Clarifications, 1)
	assert.Equal(t, "Türk Kahvesi", resp.Clarifications[0].ProductName)
	assert.Equal(t, 2, resp.Clarifications[0].Quantity)
	assert.Equal(t, []string{"Sade", "Şekerli"}, resp.Clarifications[0].Variations)

	_, err = fx.tabs.GetOpenTabByTable(ctx, fx.branchID, "M5")
	assert.ErrorIs(t, err, shared.ErrNotFound, "no tab may exist before resolution")

	// Turn 2: the bare variation answer materializes the whole batch.
	resp, err = fx.service.Chat(ctx, fx.branchID, Request{
		ConversationID: "conv-1",
		TableCode:      "M5",
		Text:           "sade olsun",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.OrderID)
	require.Len(t, resp.Lines, 2)
	assert.True(t, decimal.NewFromInt(205).Equal(resp.OrderTotal), "total was %s", resp.OrderTotal)

	var kahve *LineView
	for i := range resp.Lines {
		if resp.Lines[i].ProductName == "Türk Kahvesi" {
			kahve = &resp.Lines[i]
		}
	}
	require.NotNil(t, kahve)
	assert.Equal(t, "Sade", kahve.VariationName)
	assert.Equal(t, 2, kahve.Quantity)
}

func TestChat_NumberWordQuantityTriggersClarification(t *testing.T) {
	fx := newChatFixture(t)
	ctx := context.Background()

	resp, err := fx.service.Chat(ctx, fx.branchID, Request{
		ConversationID: "conv-1", TableCode: "M5", Text: "bir türk kahvesi",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.OrderID)
	require.Len(t, resp.Clarifications, 1)
	assert.Equal(t, 1, resp.Clarifications[0].Quantity)
	assert.Equal(t, []string{"Sade", "Şekerli"}, resp.Clarifications[0].Variations)
}

func TestChat_ConfirmationAutoSelectsFirstVariation(t *testing.T) {
	fx := newChatFixture(t)
	ctx := context.Background()

	_, err := fx.service.Chat(ctx, fx.branchID, Request{
		ConversationID: "conv-1", TableCode: "M5", Text: "2 türk kahvesi",
	})
	require.NoError(t, err)

	resp, err := fx.service.Chat(ctx, fx.branchID, Request{
		ConversationID: "conv-1", TableCode: "M5", Text: "farketmez",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.OrderID)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "Sade", resp.Lines[0].VariationName)
}

func TestChat_InlineVariationSkipsClarification(t *testing.T) {
	fx := newChatFixture(t)
	ctx := context.Background()

	resp, err := fx.service.Chat(ctx, fx.branchID, Request{
		ConversationID: "conv-1", TableCode: "M5", Text: "2 sade türk kahvesi",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.OrderID)
	assert.Empty(t, resp.Clarifications)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "Sade", resp.Lines[0].VariationName)
	assert.Equal(t, 2, resp.Lines[0].Quantity)
}

func TestChat_UnrelatedAnswerKeepsWaiting(t *testing.T) {
	fx := newChatFixture(t)
	ctx := context.Background()

	_, err := fx.service.Chat(ctx, fx.branchID, Request{
		ConversationID: "conv-1", TableCode: "M5", Text: "1 türk kahvesi",
	})
	require.NoError(t, err)

	resp, err := fx.service.Chat(ctx, fx.branchID, Request{
		ConversationID: "conv-1", TableCode: "M5", Text: "bir saniye bakıyorum",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.OrderID)
	require.Len(t, resp.Clarifications, 1)
}
