package catalog

import "strings"

// Phrase is a multi-word catalog name in token form, used by the anchored
// re-scan pass of the extractor.
type Phrase struct {
	Key    string
	Tokens []string
}

// Index provides normalized lookup structures over a catalog snapshot.
// It is rebuilt per request from the Provider's current items.
type Index struct {
	items      map[string]*Item
	byNormName map[string]string
	tokens     map[string][]string
	phrases    []Phrase
	varTokens  map[string]struct{}
}

// NewIndex builds an Index from a catalog snapshot
func NewIndex(items []Item) *Index {
	idx := &Index{
		items:      make(map[string]*Item, len(items)),
		byNormName: make(map[string]string, len(items)),
		tokens:     make(map[string][]string, len(items)),
		varTokens:  make(map[string]struct{}),
	}
	for i := range items {
		item := &items[i]
		idx.items[item.Key] = item

		normName := Normalize(item.DisplayName)
		idx.byNormName[normName] = item.Key
		if normKey := Normalize(item.Key); normKey != normName {
			idx.byNormName[normKey] = item.Key
		}

		toks := Tokens(item.DisplayName)
		idx.tokens[item.Key] = toks
		if len(toks) >= 2 {
			idx.phrases = append(idx.phrases, Phrase{Key: item.Key, Tokens: toks})
		}

		for _, v := range item.Variations {
			for _, vt := range Tokens(v.Name) {
				idx.varTokens[vt] = struct{}{}
			}
		}
	}
	return idx
}

// Item returns the catalog item for a key
func (x *Index) Item(key string) (*Item, bool) {
	item, ok := x.items[key]
	return item, ok
}

// LookupExact resolves a normalized name to a catalog key
func (x *Index) LookupExact(normName string) (string, bool) {
	key, ok := x.byNormName[normName]
	return key, ok
}

// ItemTokens returns the normalized name tokens for a key
func (x *Index) ItemTokens(key string) []string {
	return x.tokens[key]
}

// Phrases returns all multi-word catalog names in token form
func (x *Index) Phrases() []Phrase {
	return x.phrases
}

// IsVariationKeyword reports whether a token appears in any variation name
func (x *Index) IsVariationKeyword(token string) bool {
	_, ok := x.varTokens[Normalize(token)]
	return ok
}

// Keys returns all catalog keys (ordering unspecified)
func (x *Index) Keys() []string {
	keys := make([]string, 0, len(x.items))
	for k := range x.items {
		keys = append(keys, k)
	}
	return keys
}

// NormalizedNames returns the normalized display name for each key
func (x *Index) NormalizedNames() map[string]string {
	names := make(map[string]string, len(x.items))
	for key, toks := range x.tokens {
		names[key] = strings.Join(toks, " ")
	}
	return names
}
