package handler

import (
	ledgerapp "github.com/adisyon/backend/internal/application/ledger"
	"github.com/adisyon/backend/internal/domain/ledger"
	"github.com/adisyon/backend/internal/domain/ordering"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TabHandler serves the tab ledger: payments, discounts, closing, and the
// kitchen-facing order status flow.
type TabHandler struct {
	BaseHandler
	tabs *ledgerapp.TabService
}

// NewTabHandler creates a new TabHandler
func NewTabHandler(tabService *ledgerapp.TabService) *TabHandler {
	return &TabHandler{tabs: tabService}
}

// RegisterRoutes registers tab and order routes
func (h *TabHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tabs := rg.Group("/tabs")
	tabs.GET("/:id", h.GetTab)
	tabs.POST("/:id/payments", h.ApplyPayment)
	tabs.POST("/:id/discount", h.ApplyDiscount)
	tabs.POST("/:id/close", h.CloseTab)

	rg.GET("/tables/:code/tab", h.GetOpenTabByTable)
	rg.POST("/payments/:id/void", h.VoidPayment)

	orders := rg.Group("/orders")
	orders.POST("/:id/status", h.AdvanceOrderStatus)
	orders.POST("/:id/cancel", h.CancelOrder)
	orders.POST("/:id/lines/:lineId/complimentary", h.MarkLineComplimentary)
}

// ApplyPaymentRequest is the payload for recording a payment against a tab
type ApplyPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method"`
}

// ApplyDiscountRequest is the payload for applying a discount to a tab.
// Either a fixed amount or a percentage rate may be given.
type ApplyDiscountRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Rate   decimal.Decimal `json:"rate"`
	Source string          `json:"source"`
}

// CloseTabRequest is the payload for closing a tab
type CloseTabRequest struct {
	Force bool `json:"force"`
}

// AdvanceOrderStatusRequest is the payload for the kitchen status flow
type AdvanceOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetTab returns a tab with its orders and payments
func (h *TabHandler) GetTab(c *gin.Context) {
	branchID, tabID, ok := h.branchAndID(c)
	if !ok {
		return
	}
	view, err := h.tabs.GetTab(c.Request.Context(), branchID, tabID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// GetOpenTabByTable returns the open tab for a table, if any
func (h *TabHandler) GetOpenTabByTable(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.BadRequest(c, "X-Branch-ID header is required")
		return
	}
	view, err := h.tabs.GetOpenTabByTable(c.Request.Context(), branchID, c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// ApplyPayment records a payment against a tab. Overpayment beyond the net
// total accrues as tip; a settled tab closes automatically.
func (h *TabHandler) ApplyPayment(c *gin.Context) {
	branchID, tabID, ok := h.branchAndID(c)
	if !ok {
		return
	}
	var req ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	result, err := h.tabs.ApplyPayment(c.Request.Context(), branchID, tabID, req.Amount, ledger.PaymentMethod(req.Method))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ApplyDiscount applies a discount to a tab and writes an audit record
func (h *TabHandler) ApplyDiscount(c *gin.Context) {
	branchID, tabID, ok := h.branchAndID(c)
	if !ok {
		return
	}
	var req ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	if err := h.tabs.ApplyDiscount(c.Request.Context(), branchID, tabID, req.Amount, req.Rate, req.Source); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CloseTab settles and closes a tab; force closes regardless of balance
func (h *TabHandler) CloseTab(c *gin.Context) {
	branchID, tabID, ok := h.branchAndID(c)
	if !ok {
		return
	}
	var req CloseTabRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BindingError(c, err)
		return
	}
	if err := h.tabs.CloseTab(c.Request.Context(), branchID, tabID, req.Force); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// VoidPayment excludes a payment from its tab's totals
func (h *TabHandler) VoidPayment(c *gin.Context) {
	branchID, paymentID, ok := h.branchAndID(c)
	if !ok {
		return
	}
	if err := h.tabs.VoidPayment(c.Request.Context(), branchID, paymentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AdvanceOrderStatus drives the kitchen flow for an order
func (h *TabHandler) AdvanceOrderStatus(c *gin.Context) {
	branchID, orderID, ok := h.branchAndID(c)
	if !ok {
		return
	}
	var req AdvanceOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	target := ordering.Status(req.Status)
	if !target.IsValid() {
		h.BadRequest(c, "Unknown order status: "+req.Status)
		return
	}
	if err := h.tabs.AdvanceOrderStatus(c.Request.Context(), branchID, orderID, target); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CancelOrder cancels an order and recomputes its tab
func (h *TabHandler) CancelOrder(c *gin.Context) {
	branchID, orderID, ok := h.branchAndID(c)
	if !ok {
		return
	}
	if err := h.tabs.CancelOrder(c.Request.Context(), branchID, orderID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// MarkLineComplimentary flags an order line as ikram and reprices the tab
func (h *TabHandler) MarkLineComplimentary(c *gin.Context) {
	branchID, orderID, ok := h.branchAndID(c)
	if !ok {
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID")
		return
	}
	if err := h.tabs.MarkLineComplimentary(c.Request.Context(), branchID, orderID, lineID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// branchAndID extracts the branch ID and the :id path parameter
func (h *TabHandler) branchAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.BadRequest(c, "X-Branch-ID header is required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ID")
		return uuid.Nil, uuid.Nil, false
	}
	return branchID, id, true
}
