package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingKahve(qty int) PendingVariationRequest {
	return PendingVariationRequest{
		ProductKey:  "turk-kahvesi",
		ProductName: "Türk Kahvesi",
		Quantity:    qty,
		Variations:  []string{"Sade", "Şekerli"},
		CreatedAt:   time.Now(),
	}
}

func TestResolver_BareVariationInheritsQuantity(t *testing.T) {
	resolver := NewResolver()

	resolved, open := resolver.ResolveTurn("sade olsun", []PendingVariationRequest{pendingKahve(2)})
	require.Len(t, resolved, 1)
	assert.Empty(t, open)
	assert.Equal(t, "turk-kahvesi", resolved[0].ProductKey)
	assert.Equal(t, "Sade", resolved[0].VariationName)
	assert.Equal(t, 2, resolved[0].Quantity)
}

func TestResolver_NumberOverridesQuantity(t *testing.T) {
	resolver := NewResolver()

	resolved, open := resolver.ResolveTurn("3 şekerli", []PendingVariationRequest{pendingKahve(2)})
	require.Len(t, resolved, 1)
	assert.Empty(t, open)
	assert.Equal(t, "Şekerli", resolved[0].VariationName)
	assert.Equal(t, 3, resolved[0].Quantity)
}

func TestResolver_ConfirmationSelectsFirstVariation(t *testing.T) {
	resolver := NewResolver()

	phrases := []string{"tamam", "farketmez", "fark etmez", "hepsi aynı", "olur", "evet"}
	for _, phrase := range phrases {
		t.Run(phrase, func(t *testing.T) {
			resolved, open := resolver.ResolveTurn(phrase, []PendingVariationRequest{pendingKahve(2)})
			require.Len(t, resolved, 1)
			assert.Empty(t, open)
			assert.Equal(t, "Sade", resolved[0].VariationName)
			assert.Equal(t, 2, resolved[0].Quantity)
		})
	}
}

func TestResolver_UnrelatedTextKeepsPending(t *testing.T) {
	resolver := NewResolver()

	resolved, open := resolver.ResolveTurn("bir dakika bakayım", []PendingVariationRequest{pendingKahve(1)})
	assert.Empty(t, resolved)
	require.Len(t, open, 1)
	assert.Equal(t, "turk-kahvesi", open[0].ProductKey)
}

func TestResolver_PartialResolution(t *testing.T) {
	resolver := NewResolver()

	pending := []PendingVariationRequest{
		pendingKahve(1),
		{
			ProductKey:  "limonata",
			ProductName: "Limonata",
			Quantity:    1,
			Variations:  []string{"Naneli", "Klasik"},
			CreatedAt:   time.Now(),
		},
	}

	resolved, open := resolver.ResolveTurn("sade", pending)
	require.Len(t, resolved, 1)
	assert.Equal(t, "turk-kahvesi", resolved[0].ProductKey)
	require.Len(t, open, 1)
	assert.Equal(t, "limonata", open[0].ProductKey)
}
