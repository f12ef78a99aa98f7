package inventory

import (
	"github.com/shopspring/decimal"
)

// RecipeIngredient is a single ingredient requirement of a product recipe
type RecipeIngredient struct {
	IngredientKey string
	Quantity      decimal.Decimal
	Unit          string
}

// Recipe maps a sellable product to its ingredient consumption.
// Recipes drive stock decrement at settlement.
type Recipe struct {
	ProductKey  string
	Ingredients []RecipeIngredient
}
