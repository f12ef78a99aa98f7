package chat

import (
	"testing"

	"github.com/adisyon/backend/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_ExactMatch(t *testing.T) {
	idx := catalog.NewIndex(testCatalogItems())
	matcher := NewMatcher(0.92, 0.85)

	tests := []struct {
		input string
		want  string
	}{
		{"latte", "latte"},
		{"Latte", "latte"},
		{"türk kahvesi", "turk-kahvesi"},
		{"TÜRK KAHVESİ", "turk-kahvesi"},
	}
	for _, tt := range tests {
		key, ok := matcher.Match(tt.input, idx)
		require.True(t, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, key)
	}
}

func TestMatcher_TokenSuperset(t *testing.T) {
	idx := catalog.NewIndex(testCatalogItems())
	matcher := NewMatcher(0.92, 0.85)

	// reordered tokens of a multi-word name still match
	key, ok := matcher.Match("kahvesi türk", idx)
	require.True(t, ok)
	assert.Equal(t, "turk-kahvesi", key)

	// a single generic token is not enough to claim a multi-word product
	_, ok = matcher.Match("kahvesi", idx)
	assert.False(t, ok)
}

func TestMatcher_FuzzyTypo(t *testing.T) {
	idx := catalog.NewIndex(testCatalogItems())
	matcher := NewMatcher(0.92, 0.85)

	// a doubled letter on a long name stays above the single-token threshold
	key, ok := matcher.Match("americanoo", idx)
	require.True(t, ok)
	assert.Equal(t, "americano", key)

	key, ok = matcher.Match("türk kahvesii", idx)
	require.True(t, ok)
	assert.Equal(t, "turk-kahvesi", key)

	// short words need the looser threshold to absorb a typo
	_, ok = matcher.Match("lattee", idx)
	assert.False(t, ok)

	loose := NewMatcher(0.85, 0.8)
	key, ok = loose.Match("lattee", idx)
	require.True(t, ok)
	assert.Equal(t, "latte", key)
}

func TestMatcher_RejectsUnrelated(t *testing.T) {
	idx := catalog.NewIndex(testCatalogItems())
	matcher := NewMatcher(0.92, 0.85)

	for _, input := range []string{"pizza", "kola", "çay"} {
		_, ok := matcher.Match(input, idx)
		assert.False(t, ok, "input %q must not match", input)
	}

	_, ok := matcher.Match("", idx)
	assert.False(t, ok)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("latte", "latte"))
	assert.Equal(t, 0.0, Similarity("", "latte"))
	assert.Equal(t, 1.0, Similarity("", ""))

	// "lattee" vs "latte": 5 matched runes over 11 total
	assert.InDelta(t, 10.0/11.0, Similarity("lattee", "latte"), 1e-9)

	assert.Greater(t, Similarity("ayran", "ayran"), Similarity("ayran", "americano"))
}
