package chat

import (
	"context"
	"time"
)

// PendingVariationRequest is one product mention waiting for the guest to
// pick a variation. No order line exists for it yet.
type PendingVariationRequest struct {
	ProductKey  string    `json:"product_key"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Variations  []string  `json:"variations"`
	CreatedAt   time.Time `json:"created_at"`
}

// ResolvedItem is a fully specified order line candidate carried across
// turns while clarification is in flight.
type ResolvedItem struct {
	ProductKey    string `json:"product_key"`
	VariationName string `json:"variation_name,omitempty"`
	Quantity      int    `json:"quantity"`
}

// SessionState is the per-conversation clarification state. It exists only
// while at least one variation request is pending; the order is written to
// the database in a single batch once every request resolves.
type SessionState struct {
	BranchID  string                    `json:"branch_id"`
	TableCode string                    `json:"table_code"`
	Pending   []PendingVariationRequest `json:"pending"`
	Resolved  []ResolvedItem            `json:"resolved"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// SessionStore persists conversation state between turns. Implementations
// enforce the TTL: Get returns (nil, nil) for missing or expired sessions.
type SessionStore interface {
	Get(ctx context.Context, conversationID string) (*SessionState, error)
	Put(ctx context.Context, conversationID string, state *SessionState) error
	Delete(ctx context.Context, conversationID string) error
}
