package persistence

import (
	"context"
	"testing"

	"github.com/adisyon/backend/internal/domain/inventory"
	"github.com/adisyon/backend/internal/domain/shared"
	"github.com/adisyon/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStockRepository_Lookups(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStockRepository(db.DB)
	ctx := context.Background()
	branchID := uuid.New()

	milk, err := inventory.NewStockItem(branchID, "sut", "Süt", decimal.NewFromInt(1000), inventory.UnitMillilitre)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, milk))

	t.Run("by key", func(t *testing.T) {
		loaded, err := repo.FindByKey(ctx, branchID, "sut")
		require.NoError(t, err)
		assert.Equal(t, "Süt", loaded.Name)
		assert.True(t, loaded.OnHand.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("by normalized name folds diacritics", func(t *testing.T) {
		loaded, err := repo.FindByNormalizedName(ctx, branchID, "SÜT")
		require.NoError(t, err)
		assert.Equal(t, milk.ID, loaded.ID)
	})

	t.Run("wrong branch is not found", func(t *testing.T) {
		_, err := repo.FindByKey(ctx, uuid.New(), "sut")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("decrement round trip", func(t *testing.T) {
		loaded, err := repo.FindByKey(ctx, branchID, "sut")
		require.NoError(t, err)
		loaded.Decrement(decimal.NewFromInt(400))
		require.NoError(t, repo.Save(ctx, loaded))

		again, err := repo.FindByKey(ctx, branchID, "sut")
		require.NoError(t, err)
		assert.True(t, again.OnHand.Equal(decimal.NewFromInt(600)))
	})
}

func TestGormRecipeRepository_FindByProductKey(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormRecipeRepository(db.DB)
	ctx := context.Background()
	branchID := uuid.New()

	recipeModel := &models.RecipeModel{
		BranchID:   branchID,
		ProductKey: "latte",
		Ingredients: []models.RecipeIngredientModel{
			{ID: uuid.New(), IngredientKey: "sut", Quantity: decimal.NewFromFloat(0.2), Unit: inventory.UnitLitre},
			{ID: uuid.New(), IngredientKey: "espresso", Quantity: decimal.NewFromInt(1), Unit: inventory.UnitPiece},
		},
	}
	recipeModel.ID = uuid.New()
	require.NoError(t, db.DB.Create(recipeModel).Error)

	recipe, err := repo.FindByProductKey(ctx, branchID, "latte")
	require.NoError(t, err)
	assert.Equal(t, "latte", recipe.ProductKey)
	require.Len(t, recipe.Ingredients, 2)

	_, err = repo.FindByProductKey(ctx, branchID, "ayran")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormStockProvider_FetchAndDecrement(t *testing.T) {
	db := newTestDB(t)
	provider := NewGormStockProvider(db)
	repo := NewGormStockRepository(db.DB)
	ctx := context.Background()
	branchID := uuid.New()

	ayran, err := inventory.NewStockItem(branchID, "ayran", "Ayran", decimal.NewFromInt(10), inventory.UnitPiece)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, ayran))

	items, err := provider.Fetch(ctx, branchID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ayran", items[0].Key)

	require.NoError(t, provider.Decrement(ctx, branchID, "ayran", decimal.NewFromInt(3)))
	loaded, err := repo.FindByKey(ctx, branchID, "ayran")
	require.NoError(t, err)
	assert.True(t, loaded.OnHand.Equal(decimal.NewFromInt(7)))

	t.Run("decrement clamps at zero", func(t *testing.T) {
		require.NoError(t, provider.Decrement(ctx, branchID, "ayran", decimal.NewFromInt(100)))
		loaded, err := repo.FindByKey(ctx, branchID, "ayran")
		require.NoError(t, err)
		assert.True(t, loaded.OnHand.IsZero())
	})

	t.Run("unknown key errors", func(t *testing.T) {
		err := provider.Decrement(ctx, branchID, "bilinmeyen", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
