package inventory

import (
	"context"
	"errors"

	"github.com/adisyon/backend/internal/domain/catalog"
	"github.com/adisyon/backend/internal/domain/inventory"
	"github.com/adisyon/backend/internal/domain/ordering"
	"github.com/adisyon/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ConsumptionService decrements stock when an order is settled. Products
// with a recipe consume their ingredients in base units; products without a
// recipe fall back to a 1:1 decrement against a stock item with the same
// normalized name. Untracked products are logged and skipped, never an
// error: a data gap must not block taking a guest's money.
type ConsumptionService struct {
	logger *zap.Logger
}

// NewConsumptionService creates a new consumption service
func NewConsumptionService(logger *zap.Logger) *ConsumptionService {
	return &ConsumptionService{logger: logger}
}

// ConsumeOrder decrements stock for every line of a settled order using the
// transaction-scoped repositories. Only storage failures are returned;
// missing recipes or stock rows are skipped with a warning.
func (s *ConsumptionService) ConsumeOrder(
	ctx context.Context,
	stocks inventory.StockRepository,
	recipes inventory.RecipeRepository,
	order *ordering.Order,
) error {
	for i := range order.Items {
		line := &order.Items[i]
		if err := s.consumeLine(ctx, stocks, recipes, order.BranchID, line); err != nil {
			return err
		}
	}
	return nil
}

func (s *ConsumptionService) consumeLine(
	ctx context.Context,
	stocks inventory.StockRepository,
	recipes inventory.RecipeRepository,
	branchID uuid.UUID,
	line *ordering.LineItem,
) error {
	recipe, err := recipes.FindByProductKey(ctx, branchID, line.ProductKey)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	if recipe != nil {
		for _, ing := range recipe.Ingredients {
			amount, _ := inventory.NormalizeQuantity(ing.Quantity, ing.Unit)
			total := amount.Mul(decimal.NewFromInt(int64(line.Quantity)))
			if err := s.decrement(ctx, stocks, branchID, ing.IngredientKey, total, line.ProductName); err != nil {
				return err
			}
		}
		return nil
	}

	// 1:1 fallback: a stock item sharing the product's normalized name.
	item, err := stocks.FindByNormalizedName(ctx, branchID, catalog.Normalize(line.ProductName))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("stock decrement skipped: product not tracked",
				zap.String("branch_id", branchID.String()),
				zap.String("product_key", line.ProductKey),
				zap.String("product_name", line.ProductName))
			return nil
		}
		return err
	}

	consumed := item.Decrement(decimal.NewFromInt(int64(line.Quantity)))
	if consumed.LessThan(decimal.NewFromInt(int64(line.Quantity))) {
		s.logger.Warn("stock clamped at zero",
			zap.String("branch_id", branchID.String()),
			zap.String("stock_key", item.Key),
			zap.String("requested", decimal.NewFromInt(int64(line.Quantity)).String()),
			zap.String("consumed", consumed.String()))
	}
	return stocks.Save(ctx, item)
}

func (s *ConsumptionService) decrement(
	ctx context.Context,
	stocks inventory.StockRepository,
	branchID uuid.UUID,
	key string,
	amount decimal.Decimal,
	productName string,
) error {
	item, err := stocks.FindByKey(ctx, branchID, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("stock decrement skipped: ingredient not tracked",
				zap.String("branch_id", branchID.String()),
				zap.String("ingredient_key", key),
				zap.String("product_name", productName))
			return nil
		}
		return err
	}

	consumed := item.Decrement(amount)
	if consumed.LessThan(amount) {
		s.logger.Warn("stock clamped at zero",
			zap.String("branch_id", branchID.String()),
			zap.String("stock_key", key),
			zap.String("requested", amount.String()),
			zap.String("consumed", consumed.String()))
	}
	return stocks.Save(ctx, item)
}
