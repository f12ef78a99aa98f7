package chat

import (
	"strconv"
	"strings"

	"github.com/adisyon/backend/internal/domain/catalog"
)

// Candidate is a (text, quantity) pair extracted from an utterance. Key is
// set only by the anchored catalog-phrase pass, which already knows the
// catalog item it matched.
type Candidate struct {
	Raw      string
	Quantity int
	Key      string
}

// numberWords maps normalized Turkish number words to quantities (1-12)
var numberWords = map[string]int{
	"bir": 1, "iki": 2, "uc": 3, "dort": 4, "bes": 5, "alti": 6,
	"yedi": 7, "sekiz": 8, "dokuz": 9, "on": 10, "onbir": 11, "oniki": 12,
}

// greetingTokens are openers that never carry order content
var greetingTokens = map[string]struct{}{
	"merhaba": {}, "selam": {}, "selamlar": {}, "gunaydin": {},
	"iyi": {}, "gunler": {}, "aksamlar": {}, "hosgeldiniz": {},
}

// fillerTokens are polite noise and counters skipped during extraction
var fillerTokens = map[string]struct{}{
	"lutfen": {}, "rica": {}, "ederim": {}, "edersem": {},
	"alabilir": {}, "miyim": {}, "miyiz": {}, "muyum": {},
	"istiyorum": {}, "istiyoruz": {}, "isterim": {}, "alalim": {},
	"tane": {}, "adet": {}, "ve": {}, "de": {}, "da": {}, "bide": {},
}

// mathTokens are arithmetic/total chatter filtered from unmatched reporting
var mathTokens = map[string]struct{}{
	"arti": {}, "eksi": {}, "toplam": {}, "kac": {}, "tutar": {},
	"hesap": {}, "tl": {}, "lira": {},
}

// maxNameWindow is the greedy product-name window after a quantity anchor
const maxNameWindow = 3

// parseQuantity interprets a normalized token as a quantity anchor.
// Digits and Turkish number words 1-12 anchor a quantity.
func parseQuantity(token string) (int, bool) {
	if n, err := strconv.Atoi(token); err == nil && n > 0 && n < 1000 {
		return n, true
	}
	if n, ok := numberWords[token]; ok {
		return n, true
	}
	return 0, false
}

func isFiller(token string) bool {
	if _, ok := fillerTokens[token]; ok {
		return true
	}
	_, ok := greetingTokens[token]
	return ok
}

func isNoise(token string) bool {
	if isFiller(token) {
		return true
	}
	_, ok := mathTokens[token]
	return ok
}

// Extractor turns raw utterance text into order candidates. It is stateless;
// the catalog index is passed per call because the catalog is fetched fresh
// per request.
type Extractor struct{}

// NewExtractor creates a new Extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract implements the two-pass candidate extraction:
// an anchor-driven greedy pass with variation split-off, a "<name> <number>"
// fallback, an anchored re-scan over exact multi-word catalog phrases, and
// re-emission of leftover tokens as quantity-1 candidates.
func (e *Extractor) Extract(text string, idx *catalog.Index) []Candidate {
	tokens := catalog.Tokens(text)
	if len(tokens) == 0 {
		return nil
	}

	consumed := make([]bool, len(tokens))
	var candidates []Candidate

	// Pass 1: quantity anchors with a greedy name window.
	for i := 0; i < len(tokens); i++ {
		if consumed[i] || isFiller(tokens[i]) {
			continue
		}
		qty, ok := parseQuantity(tokens[i])
		if !ok {
			continue
		}
		consumed[i] = true

		nameTokens, varTokens := e.consumeWindow(tokens, consumed, i+1, idx)
		if len(nameTokens) == 0 {
			// Fallback "<name> <number>": quantity trailing the name.
			nameTokens = e.backtrackName(tokens, consumed, i-1)
		}

		for _, vt := range varTokens {
			candidates = append(candidates, Candidate{Raw: vt, Quantity: qty})
		}
		if len(nameTokens) > 0 {
			candidates = append(candidates, Candidate{Raw: strings.Join(nameTokens, " "), Quantity: qty})
		}
	}

	// Pass 2: exact multi-word catalog phrases anchored by an immediately
	// preceding quantity. When both passes hit the same catalog key the
	// caller keeps the larger quantity (never the sum).
	candidates = append(candidates, e.scanPhrases(tokens, consumed, idx)...)

	// Leftovers become quantity-1 candidates: a lone variation word sent in
	// a later turn arrives this way.
	for i, tok := range tokens {
		if consumed[i] || isNoise(tok) {
			continue
		}
		if _, isNum := parseQuantity(tok); isNum {
			continue
		}
		candidates = append(candidates, Candidate{Raw: tok, Quantity: 1})
	}

	return candidates
}

// consumeWindow greedily takes up to maxNameWindow tokens after an anchor as
// a product name. Variation keywords split off into their own candidates
// sharing the anchor's quantity.
func (e *Extractor) consumeWindow(tokens []string, consumed []bool, start int, idx *catalog.Index) (nameTokens, varTokens []string) {
	taken := 0
	for j := start; j < len(tokens) && taken < maxNameWindow; j++ {
		tok := tokens[j]
		if consumed[j] {
			break
		}
		if _, isNum := parseQuantity(tok); isNum {
			break
		}
		if isFiller(tok) {
			consumed[j] = true
			continue
		}
		if idx.IsVariationKeyword(tok) && taken > 0 {
			consumed[j] = true
			taken++
			varTokens = append(varTokens, tok)
			continue
		}
		consumed[j] = true
		taken++
		nameTokens = append(nameTokens, tok)
	}

	if len(nameTokens) >= 2 && idx.IsVariationKeyword(nameTokens[0]) {
		first := nameTokens[0]
		rest := strings.Join(nameTokens[1:], "")
		// A short leading word splits off as a variation only when the
		// remainder is still a plausible product name; longer variation
		// keywords always split.
		if len([]rune(first)) > 4 || len([]rune(rest)) >= 6 {
			varTokens = append(varTokens, first)
			nameTokens = nameTokens[1:]
		}
	}
	return nameTokens, varTokens
}

// backtrackName picks up to maxNameWindow unconsumed tokens immediately
// before a trailing quantity anchor, e.g. "latte 2".
func (e *Extractor) backtrackName(tokens []string, consumed []bool, end int) []string {
	var reversed []string
	for j := end; j >= 0 && len(reversed) < maxNameWindow; j-- {
		tok := tokens[j]
		if consumed[j] || isFiller(tok) {
			break
		}
		if _, isNum := parseQuantity(tok); isNum {
			break
		}
		consumed[j] = true
		reversed = append(reversed, tok)
	}
	// restore original order
	name := make([]string, len(reversed))
	for i, tok := range reversed {
		name[len(reversed)-1-i] = tok
	}
	return name
}

// scanPhrases finds exact multi-word catalog names in the token stream and
// anchors a quantity immediately before each hit.
func (e *Extractor) scanPhrases(tokens []string, consumed []bool, idx *catalog.Index) []Candidate {
	var candidates []Candidate
	for _, phrase := range idx.Phrases() {
		pos := findPhrase(tokens, phrase.Tokens)
		if pos < 0 {
			continue
		}
		qty := 1
		if pos > 0 {
			if n, ok := parseQuantity(tokens[pos-1]); ok {
				qty = n
				consumed[pos-1] = true
			}
		}
		for j := pos; j < pos+len(phrase.Tokens); j++ {
			consumed[j] = true
		}
		candidates = append(candidates, Candidate{
			Raw:      strings.Join(phrase.Tokens, " "),
			Quantity: qty,
			Key:      phrase.Key,
		})
	}
	return candidates
}

// findPhrase returns the index of the first exact occurrence of the phrase
// token sequence, or -1
func findPhrase(tokens, phrase []string) int {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return -1
	}
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		match := true
		for j := range phrase {
			if tokens[i+j] != phrase[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
