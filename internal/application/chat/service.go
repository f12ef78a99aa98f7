package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	ledgerapp "github.com/adisyon/backend/internal/application/ledger"
	"github.com/adisyon/backend/internal/domain/catalog"
	"github.com/adisyon/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service turns free-text utterances into orders on the table's tab. A turn
// either creates an order, reports shortages and unmatched words, or parks
// the conversation behind a variation clarification. Nothing is written to
// the database until every mentioned product is fully specified.
type Service struct {
	catalog      catalog.Provider
	stock        inventory.StockProvider
	sessions     SessionStore
	tabs         *ledgerapp.TabService
	extractor    *Extractor
	matcher      *Matcher
	resolver     *Resolver
	materializer *Materializer
	logger       *zap.Logger
}

// NewService creates a new chat service
func NewService(
	catalogProvider catalog.Provider,
	stockProvider inventory.StockProvider,
	sessions SessionStore,
	tabs *ledgerapp.TabService,
	singleThreshold, multiThreshold float64,
	logger *zap.Logger,
) *Service {
	return &Service{
		catalog:      catalogProvider,
		stock:        stockProvider,
		sessions:     sessions,
		tabs:         tabs,
		extractor:    NewExtractor(),
		matcher:      NewMatcher(singleThreshold, multiThreshold),
		resolver:     NewResolver(),
		materializer: NewMaterializer(),
		logger:       logger,
	}
}

// workingItem is one product mention being assembled during a turn
type workingItem struct {
	item      *catalog.Item
	quantity  int
	variation string
}

// Chat processes one conversational turn
func (s *Service) Chat(ctx context.Context, branchID uuid.UUID, req Request) (*Response, error) {
	items, err := s.catalog.Fetch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	idx := catalog.NewIndex(items)

	state, err := s.sessions.Get(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}
	if state != nil && len(state.Pending) > 0 {
		return s.continueClarification(ctx, branchID, req, state, idx)
	}

	return s.startTurn(ctx, branchID, req, idx)
}

// continueClarification advances a parked conversation. The utterance is
// matched only against the pending variation names, never the full catalog.
func (s *Service) continueClarification(ctx context.Context, branchID uuid.UUID, req Request, state *SessionState, idx *catalog.Index) (*Response, error) {
	resolved, open := s.resolver.ResolveTurn(req.Text, state.Pending)
	state.Resolved = append(state.Resolved, resolved...)

	if len(open) > 0 {
		state.Pending = open
		state.UpdatedAt = time.Now()
		if err := s.sessions.Put(ctx, req.ConversationID, state); err != nil {
			return nil, err
		}
		return s.clarificationResponse(open), nil
	}

	if err := s.sessions.Delete(ctx, req.ConversationID); err != nil {
		return nil, err
	}

	tableCode := state.TableCode
	if tableCode == "" {
		tableCode = req.TableCode
	}
	return s.materialize(ctx, branchID, tableCode, state.Resolved, idx, nil)
}

// startTurn runs extraction and matching on a fresh utterance
func (s *Service) startTurn(ctx context.Context, branchID uuid.UUID, req Request, idx *catalog.Index) (*Response, error) {
	candidates := s.extractor.Extract(req.Text, idx)

	var working []workingItem
	position := make(map[string]int)
	var unresolved []Candidate

	add := func(key string, qty int) {
		if pos, ok := position[key]; ok {
			// the same product from both passes keeps the larger quantity
			if qty > working[pos].quantity {
				working[pos].quantity = qty
			}
			return
		}
		item, ok := idx.Item(key)
		if !ok {
			return
		}
		position[key] = len(working)
		working = append(working, workingItem{item: item, quantity: qty})
	}

	for _, cand := range candidates {
		if cand.Key != "" {
			add(cand.Key, cand.Quantity)
			continue
		}
		if key, ok := s.matcher.Match(cand.Raw, idx); ok {
			add(key, cand.Quantity)
			continue
		}
		unresolved = append(unresolved, cand)
	}

	// Second chance for unresolved text: variation names of the products
	// mentioned in the same turn.
	var unmatched []string
	for _, cand := range unresolved {
		if s.attachVariation(working, cand.Raw) {
			continue
		}
		unmatched = append(unmatched, cand.Raw)
	}

	var ready []ResolvedItem
	var pending []PendingVariationRequest
	for _, w := range working {
		if w.item.HasVariations() && w.variation == "" {
			pending = append(pending, PendingVariationRequest{
				ProductKey:  w.item.Key,
				ProductName: w.item.DisplayName,
				Quantity:    w.quantity,
				Variations:  w.item.VariationNames(),
				CreatedAt:   time.Now(),
			})
			continue
		}
		ready = append(ready, ResolvedItem{
			ProductKey:    w.item.Key,
			VariationName: w.variation,
			Quantity:      w.quantity,
		})
	}

	if len(pending) > 0 {
		state := &SessionState{
			BranchID:  branchID.String(),
			TableCode: req.TableCode,
			Pending:   pending,
			Resolved:  ready,
			UpdatedAt: time.Now(),
		}
		if err := s.sessions.Put(ctx, req.ConversationID, state); err != nil {
			return nil, err
		}
		return s.clarificationResponse(pending), nil
	}

	return s.materialize(ctx, branchID, req.TableCode, ready, idx, unmatched)
}

// attachVariation assigns raw text to the first mentioned product that
// declares it as a variation and has none chosen yet.
func (s *Service) attachVariation(working []workingItem, raw string) bool {
	for i := range working {
		if working[i].variation != "" {
			continue
		}
		if v, ok := working[i].item.VariationByName(raw); ok {
			working[i].variation = v.Name
			return true
		}
	}
	return false
}

// materialize prices the resolved items, writes the order and builds the reply
func (s *Service) materialize(ctx context.Context, branchID uuid.UUID, tableCode string, resolved []ResolvedItem, idx *catalog.Index, unmatched []string) (*Response, error) {
	stockItems, err := s.stock.Fetch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	lines, shortages := s.materializer.Materialize(resolved, idx, stockItems)

	resp := &Response{
		Shortages:  shortages,
		Unmatched:  unmatched,
		OrderTotal: decimal.Zero,
		TabBalance: decimal.Zero,
	}

	if len(lines) == 0 {
		resp.Reply = buildEmptyReply(shortages, unmatched)
		return resp, nil
	}

	result, err := s.tabs.AttachOrder(ctx, branchID, tableCode, lines)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created from chat",
		zap.String("branch_id", branchID.String()),
		zap.String("table_code", tableCode),
		zap.String("order_id", result.OrderID.String()),
		zap.Int("lines", len(lines)))

	resp.OrderID = &result.OrderID
	resp.TabID = &result.TabID
	resp.OrderTotal = result.OrderTotal
	resp.TabBalance = result.TabBalance
	for _, line := range lines {
		resp.Lines = append(resp.Lines, LineView{
			ProductName:   line.ProductName,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			VariationName: line.VariationName,
			Amount:        line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	resp.Reply = buildOrderReply(resp.Lines, result.OrderTotal, shortages, unmatched)
	return resp, nil
}

// clarificationResponse builds the prompt asking for variation choices
func (s *Service) clarificationResponse(pending []PendingVariationRequest) *Response {
	resp := &Response{
		OrderTotal: decimal.Zero,
		TabBalance: decimal.Zero,
	}
	var prompts []string
	for _, req := range pending {
		resp.Clarifications = append(resp.Clarifications, Clarification{
			ProductName: req.ProductName,
			Quantity:    req.Quantity,
			Variations:  req.Variations,
		})
		prompts = append(prompts, fmt.Sprintf("%s icin secenekler: %s",
			req.ProductName, strings.Join(req.Variations, ", ")))
	}
	resp.Reply = "Hangi secenegi istersiniz? " + strings.Join(prompts, " | ")
	return resp
}

func buildOrderReply(lines []LineView, total decimal.Decimal, shortages []Shortage, unmatched []string) string {
	var parts []string
	for _, line := range lines {
		name := line.ProductName
		if line.VariationName != "" {
			name = name + " (" + line.VariationName + ")"
		}
		parts = append(parts, fmt.Sprintf("%dx %s", line.Quantity, name))
	}
	reply := fmt.Sprintf("Siparisiniz alindi: %s. Toplam %s TL.", strings.Join(parts, ", "), total.StringFixed(2))
	if note := buildEmptyReply(shortages, unmatched); note != "" && (len(shortages) > 0 || len(unmatched) > 0) {
		reply = reply + " " + note
	}
	return reply
}

func buildEmptyReply(shortages []Shortage, unmatched []string) string {
	var parts []string
	for _, sh := range shortages {
		parts = append(parts, fmt.Sprintf("%s icin stok yetersiz (kalan %s)", sh.ProductName, sh.Available.String()))
	}
	if len(unmatched) > 0 {
		parts = append(parts, "Anlayamadigim: "+strings.Join(unmatched, ", "))
	}
	if len(parts) == 0 {
		return "Siparis anlasilamadi, tekrar eder misiniz?"
	}
	return strings.Join(parts, ". ") + "."
}
