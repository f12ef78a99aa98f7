package chat

import (
	"github.com/adisyon/backend/internal/domain/catalog"
)

// Matcher resolves raw candidate text to catalog keys through three tiers:
// exact normalized name, token superset for multi-word input, then a fuzzy
// similarity ratio against every catalog name.
type Matcher struct {
	singleThreshold float64
	multiThreshold  float64
}

// NewMatcher creates a matcher with the given fuzzy thresholds. The single
// threshold applies to one-token input, the multi threshold to longer input.
func NewMatcher(singleThreshold, multiThreshold float64) *Matcher {
	return &Matcher{
		singleThreshold: singleThreshold,
		multiThreshold:  multiThreshold,
	}
}

// Match resolves raw text to a catalog key. ok is false when no tier
// produced a match at or above its threshold.
func (m *Matcher) Match(raw string, idx *catalog.Index) (string, bool) {
	norm := catalog.Normalize(raw)
	if norm == "" {
		return "", false
	}

	if key, ok := idx.LookupExact(norm); ok {
		return key, true
	}

	candTokens := catalog.Tokens(norm)
	if len(candTokens) >= 2 {
		if key, ok := m.matchSuperset(candTokens, idx); ok {
			return key, true
		}
	}

	threshold := m.singleThreshold
	if len(candTokens) >= 2 {
		threshold = m.multiThreshold
	}
	return m.matchFuzzy(norm, threshold, idx)
}

// matchSuperset matches when every candidate token appears among the item's
// name tokens. Requires at least two candidate tokens so that a single
// generic word cannot claim a multi-word product.
func (m *Matcher) matchSuperset(candTokens []string, idx *catalog.Index) (string, bool) {
	for _, key := range idx.Keys() {
		itemTokens := idx.ItemTokens(key)
		if len(itemTokens) < len(candTokens) {
			continue
		}
		set := make(map[string]struct{}, len(itemTokens))
		for _, t := range itemTokens {
			set[t] = struct{}{}
		}
		all := true
		for _, t := range candTokens {
			if _, ok := set[t]; !ok {
				all = false
				break
			}
		}
		if all {
			return key, true
		}
	}
	return "", false
}

// matchFuzzy picks the catalog name with the highest similarity ratio,
// accepting it only at or above the threshold.
func (m *Matcher) matchFuzzy(norm string, threshold float64, idx *catalog.Index) (string, bool) {
	bestKey := ""
	bestScore := 0.0
	for key, name := range idx.NormalizedNames() {
		score := Similarity(norm, name)
		// ties resolve to the lexicographically smaller key for determinism
		if score > bestScore || (score == bestScore && score > 0 && key < bestKey) {
			bestScore = score
			bestKey = key
		}
	}
	if bestKey != "" && bestScore >= threshold {
		return bestKey, true
	}
	return "", false
}

// Similarity returns a ratio in [0,1]: twice the total length of matching
// character blocks divided by the combined length of both strings. Matching
// blocks are found by recursively taking the longest common substring.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}
	matched := matchingLength(ra, rb)
	return 2.0 * float64(matched) / float64(len(ra)+len(rb))
}

func matchingLength(a, b []rune) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingLength(a[:ai], b[:bi])
	total += matchingLength(a[ai+size:], b[bi+size:])
	return total
}

func longestCommonSubstring(a, b []rune) (ai, bi, size int) {
	// lengths[j] holds the common-suffix length ending at a[i-1], b[j-1]
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > size {
					size = curr[j]
					ai = i - size
					bi = j - size
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return ai, bi, size
}
