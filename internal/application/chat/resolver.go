package chat

import (
	"strings"

	"github.com/adisyon/backend/internal/domain/catalog"
)

// confirmationPhrases auto-select the first declared variation for every
// still-open pending request. Matched against the whole normalized
// utterance, not individual tokens.
var confirmationPhrases = map[string]struct{}{
	"tamam":      {},
	"olur":       {},
	"evet":       {},
	"aynen":      {},
	"farketmez":  {},
	"fark etmez": {},
	"hepsi ayni": {},
}

// Resolver advances pending variation requests using the guest's follow-up
// turn. Follow-up tokens are matched only against the variation names of
// the pending requests, never against the full catalog.
type Resolver struct{}

// NewResolver creates a new Resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// IsConfirmation reports whether the utterance is a closed-set confirmation
func (r *Resolver) IsConfirmation(text string) bool {
	norm := strings.Join(catalog.Tokens(text), " ")
	_, ok := confirmationPhrases[norm]
	return ok
}

// ResolveTurn matches the utterance against the pending requests. Each
// pending request whose variation name appears in the tokens resolves into
// a ResolvedItem; a number immediately before the variation overrides the
// recorded quantity, a bare mention inherits it. Returns the resolutions
// and the requests still open.
func (r *Resolver) ResolveTurn(text string, pending []PendingVariationRequest) (resolved []ResolvedItem, open []PendingVariationRequest) {
	if r.IsConfirmation(text) {
		for _, req := range pending {
			resolved = append(resolved, ResolvedItem{
				ProductKey:    req.ProductKey,
				VariationName: req.Variations[0],
				Quantity:      req.Quantity,
			})
		}
		return resolved, nil
	}

	tokens := catalog.Tokens(text)
	for _, req := range pending {
		item, ok := r.resolveOne(tokens, req)
		if !ok {
			open = append(open, req)
			continue
		}
		resolved = append(resolved, item)
	}
	return resolved, open
}

func (r *Resolver) resolveOne(tokens []string, req PendingVariationRequest) (ResolvedItem, bool) {
	for _, variation := range req.Variations {
		varTokens := catalog.Tokens(variation)
		pos := findPhrase(tokens, varTokens)
		if pos < 0 {
			continue
		}
		qty := req.Quantity
		if pos > 0 {
			if n, ok := parseQuantity(tokens[pos-1]); ok {
				qty = n
			}
		}
		return ResolvedItem{
			ProductKey:    req.ProductKey,
			VariationName: variation,
			Quantity:      qty,
		}, true
	}
	return ResolvedItem{}, false
}
