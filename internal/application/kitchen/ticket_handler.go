package kitchen

import (
	"context"
	"fmt"

	"github.com/adisyon/backend/internal/domain/ordering"
	"github.com/adisyon/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Ticket is the kitchen's view of a freshly created order
type Ticket struct {
	BranchID  string `json:"branch_id"`
	OrderID   string `json:"order_id"`
	TableCode string `json:"table_code"`
}

// TicketNotifier forwards tickets to the kitchen. Implementations may print,
// push to a display or post to an external system.
type TicketNotifier interface {
	NotifyTicket(ctx context.Context, ticket Ticket) error
}

// TicketHandler turns OrderCreated events into kitchen tickets
type TicketHandler struct {
	logger   *zap.Logger
	notifier TicketNotifier
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(logger *zap.Logger) *TicketHandler {
	return &TicketHandler{logger: logger}
}

// WithNotifier sets the notifier for forwarding tickets
func (h *TicketHandler) WithNotifier(notifier TicketNotifier) *TicketHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *TicketHandler) EventTypes() []string {
	return []string{ordering.EventTypeOrderCreated}
}

// Handle processes an OrderCreatedEvent
func (h *TicketHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*ordering.OrderCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			ordering.EventTypeOrderCreated, event.EventType())
	}

	ticket := Ticket{
		BranchID:  event.BranchID().String(),
		OrderID:   created.OrderID.String(),
		TableCode: created.TableCode,
	}

	h.logger.Info("kitchen ticket created",
		zap.String("branch_id", ticket.BranchID),
		zap.String("order_id", ticket.OrderID),
		zap.String("table_code", ticket.TableCode),
	)

	if h.notifier != nil {
		if err := h.notifier.NotifyTicket(ctx, ticket); err != nil {
			// a notification failure never fails the event handling
			h.logger.Error("failed to forward kitchen ticket",
				zap.String("order_id", ticket.OrderID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Ensure TicketHandler implements shared.EventHandler
var _ shared.EventHandler = (*TicketHandler)(nil)
