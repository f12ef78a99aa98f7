package chat

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request is one conversational turn from a guest or waiter
type Request struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	TableCode      string `json:"table_code" binding:"required"`
	Text           string `json:"text" binding:"required"`
}

// Shortage reports a withheld line: the product was tracked but the
// requested quantity exceeded the available stock.
type Shortage struct {
	ProductKey  string          `json:"product_key"`
	ProductName string          `json:"product_name"`
	Requested   int             `json:"requested"`
	Available   decimal.Decimal `json:"available"`
}

// Clarification asks the guest to pick a variation before any line is written
type Clarification struct {
	ProductName string   `json:"product_name"`
	Quantity    int      `json:"quantity"`
	Variations  []string `json:"variations"`
}

// LineView echoes one created order line back to the guest
type LineView struct {
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	VariationName string          `json:"variation_name,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}

// Response is the outcome of one conversational turn
type Response struct {
	Reply          string          `json:"reply"`
	OrderID        *uuid.UUID      `json:"order_id,omitempty"`
	TabID          *uuid.UUID      `json:"tab_id,omitempty"`
	Lines          []LineView      `json:"lines,omitempty"`
	OrderTotal     decimal.Decimal `json:"order_total"`
	TabBalance     decimal.Decimal `json:"tab_balance"`
	Shortages      []Shortage      `json:"shortages,omitempty"`
	Unmatched      []string        `json:"unmatched,omitempty"`
	Clarifications []Clarification `json:"clarifications,omitempty"`
}
