package persistence

import (
	"context"
	"errors"

	"github.com/adisyon/backend/internal/domain/inventory"
	"github.com/adisyon/backend/internal/domain/shared"
	"github.com/adisyon/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRecipeRepository implements RecipeRepository using GORM
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GormRecipeRepository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// FindByProductKey finds the recipe for a product within a branch
func (r *GormRecipeRepository) FindByProductKey(ctx context.Context, branchID uuid.UUID, productKey string) (*inventory.Recipe, error) {
	var model models.RecipeModel
	if err := r.db.WithContext(ctx).
		Preload("Ingredients").
		Where("branch_id = ? AND product_key = ?", branchID, productKey).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
