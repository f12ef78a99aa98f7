package inventory

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Stock units are normalized so recipes and stock items can be declared in
// convenient units: mass converts to grams, volume to millilitres, anything
// else passes through unchanged.
const (
	UnitGram       = "g"
	UnitKilogram   = "kg"
	UnitMilligram  = "mg"
	UnitMillilitre = "ml"
	UnitLitre      = "l"
	UnitCentilitre = "cl"
	UnitPiece      = "adet"
)

var thousand = decimal.NewFromInt(1000)

// NormalizeQuantity converts a quantity in the given unit to the stock base
// unit (grams for mass, millilitres for volume). Unknown units pass through.
func NormalizeQuantity(quantity decimal.Decimal, unit string) (decimal.Decimal, string) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case UnitKilogram:
		return quantity.Mul(thousand), UnitGram
	case UnitMilligram:
		return quantity.Div(thousand), UnitGram
	case UnitGram, "gr", "gram":
		return quantity, UnitGram
	case UnitLitre, "lt", "litre":
		return quantity.Mul(thousand), UnitMillilitre
	case UnitCentilitre:
		return quantity.Mul(decimal.NewFromInt(10)), UnitMillilitre
	case UnitMillilitre:
		return quantity, UnitMillilitre
	default:
		return quantity, strings.ToLower(strings.TrimSpace(unit))
	}
}
