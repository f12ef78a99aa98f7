package chat

import (
	ledgerapp "github.com/adisyon/backend/internal/application/ledger"
	"github.com/adisyon/backend/internal/domain/catalog"
	"github.com/adisyon/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// Materializer prices resolved items into order lines, withholding lines
// whose product is stock-tracked but short. Availability is checked against
// a stock snapshot; the authoritative decrement happens at settlement.
type Materializer struct{}

// NewMaterializer creates a new Materializer
func NewMaterializer() *Materializer {
	return &Materializer{}
}

// stockIndex maps both key and normalized name to on-hand quantities
type stockIndex struct {
	byKey  map[string]decimal.Decimal
	byName map[string]decimal.Decimal
}

func buildStockIndex(items []inventory.StockItem) *stockIndex {
	sx := &stockIndex{
		byKey:  make(map[string]decimal.Decimal, len(items)),
		byName: make(map[string]decimal.Decimal, len(items)),
	}
	for i := range items {
		sx.byKey[items[i].Key] = items[i].OnHand
		sx.byName[catalog.Normalize(items[i].Name)] = items[i].OnHand
	}
	return sx
}

// lookup returns the tracked on-hand quantity for an item, matching by
// stock key first and normalized display name second.
func (sx *stockIndex) lookup(item *catalog.Item) (decimal.Decimal, bool) {
	if onHand, ok := sx.byKey[item.Key]; ok {
		return onHand, true
	}
	onHand, ok := sx.byName[catalog.Normalize(item.DisplayName)]
	return onHand, ok
}

// Materialize prices each resolved item against the catalog. Items tracked
// in the stock snapshot with insufficient quantity are withheld and
// reported; untracked items always materialize.
func (m *Materializer) Materialize(resolved []ResolvedItem, idx *catalog.Index, stock []inventory.StockItem) (lines []ledgerapp.OrderLine, shortages []Shortage) {
	sx := buildStockIndex(stock)

	for _, ri := range resolved {
		item, ok := idx.Item(ri.ProductKey)
		if !ok {
			continue
		}

		if onHand, tracked := sx.lookup(item); tracked {
			requested := decimal.NewFromInt(int64(ri.Quantity))
			if onHand.LessThan(requested) {
				shortages = append(shortages, Shortage{
					ProductKey:  item.Key,
					ProductName: item.DisplayName,
					Requested:   ri.Quantity,
					Available:   onHand,
				})
				continue
			}
		}

		variationName := ""
		variation, _ := item.VariationByName(ri.VariationName)
		if variation != nil {
			variationName = variation.Name
		}
		lines = append(lines, ledgerapp.OrderLine{
			ProductKey:    item.Key,
			ProductName:   item.DisplayName,
			Quantity:      ri.Quantity,
			UnitPrice:     item.UnitPrice(variation),
			VariationName: variationName,
		})
	}
	return lines, shortages
}
