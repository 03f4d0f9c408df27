package services

import (
	"errors"
	"mime/multipart"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "savora/internal/errors"
	"savora/internal/models"
	"savora/internal/pagination"
	"savora/internal/storage"
)

// recipeService handles recipe-related business logic.
type recipeService struct {
	db     *gorm.DB
	images *storage.ImageStore
}

// NewRecipeService creates a new RecipeServicer.
func NewRecipeService(db *gorm.DB, images *storage.ImageStore) RecipeServicer {
	return &recipeService{db: db, images: images}
}

// CreateRecipe creates a recipe with optional tag and ingredient
// associations. Referenced tags and ingredients must belong to the same
// user; the whole operation is transactional.
func (s *recipeService) CreateRecipe(userID uint, title string, timeMinutes int, price decimal.Decimal, link string, tagIDs, ingredientIDs []uint) (*models.Recipe, error) {
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "recipe title is required")
	}
	if timeMinutes < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "time_minutes must not be negative")
	}
	if price.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price must not be negative")
	}

	tags, err := s.resolveTags(userID, tagIDs)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.resolveIngredients(userID, ingredientIDs)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		UserID:      userID,
		Title:       title,
		TimeMinutes: timeMinutes,
		Price:       price,
		Link:        link,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients").Create(recipe).Error; err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(recipe).Association("Tags").Append(tags); err != nil {
				return err
			}
		}
		if len(ingredients) > 0 {
			if err := tx.Model(recipe).Association("Ingredients").Append(ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetRecipeByID(userID, recipe.ID)
}

// GetUserRecipes retrieves a paginated list of the user's recipes, newest
// first, optionally filtered by associated tag or ingredient IDs.
func (s *recipeService) GetUserRecipes(userID uint, page pagination.PageRequest, filter RecipeFilter) (*pagination.PageResponse[models.Recipe], error) {
	page.Defaults()

	base := s.db.Model(&models.Recipe{}).Where("user_id = ?", userID)
	if len(filter.TagIDs) > 0 {
		sub := s.db.Table("recipe_tags").Select("recipe_id").Where("tag_id IN ?", filter.TagIDs)
		base = base.Where("id IN (?)", sub)
	}
	if len(filter.IngredientIDs) > 0 {
		sub := s.db.Table("recipe_ingredients").Select("recipe_id").Where("ingredient_id IN ?", filter.IngredientIDs)
		base = base.Where("id IN (?)", sub)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var recipes []models.Recipe
	err := base.Preload("Tags").Preload("Ingredients").
		Order("id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&recipes).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(recipes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRecipeByID retrieves one of the user's recipes with its tags and
// ingredients loaded. Recipes of other users surface as not found.
func (s *recipeService) GetRecipeByID(userID, recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.Preload("Tags").Preload("Ingredients").
		Where("id = ? AND user_id = ?", recipeID, userID).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecipeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &recipe, nil
}

// UpdateRecipe applies an update to one of the user's recipes. Nil fields
// keep their current values; supplied association slices replace the full
// set, including clearing it when empty.
func (s *recipeService) UpdateRecipe(userID, recipeID uint, update RecipeUpdate) (*models.Recipe, error) {
	recipe, err := s.GetRecipeByID(userID, recipeID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Title != nil {
		if *update.Title == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "recipe title is required")
		}
		updates["title"] = *update.Title
	}
	if update.TimeMinutes != nil {
		if *update.TimeMinutes < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "time_minutes must not be negative")
		}
		updates["time_minutes"] = *update.TimeMinutes
	}
	if update.Price != nil {
		if update.Price.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price must not be negative")
		}
		updates["price"] = *update.Price
	}
	if update.Link != nil {
		updates["link"] = *update.Link
	}

	var tags []models.Tag
	if update.TagIDs != nil {
		if tags, err = s.resolveTags(userID, *update.TagIDs); err != nil {
			return nil, err
		}
	}
	var ingredients []models.Ingredient
	if update.IngredientIDs != nil {
		if ingredients, err = s.resolveIngredients(userID, *update.IngredientIDs); err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(recipe).Updates(updates).Error; err != nil {
				return err
			}
		}
		if update.TagIDs != nil {
			if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		if update.IngredientIDs != nil {
			if err := tx.Model(recipe).Association("Ingredients").Replace(ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetRecipeByID(userID, recipeID)
}

// DeleteRecipe removes one of the user's recipes along with its
// association rows. Referenced tags and ingredients survive.
func (s *recipeService) DeleteRecipe(userID, recipeID uint) error {
	recipe, err := s.GetRecipeByID(userID, recipeID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(recipe).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if recipe.Image != "" {
		if err := s.images.Remove(recipe.Image); err != nil {
			// The row is gone; a stale file is a cleanup problem, not a failure.
			return nil
		}
	}
	return nil
}

// SaveImage stores an uploaded image for one of the user's recipes and
// replaces any previous attachment.
func (s *recipeService) SaveImage(userID, recipeID uint, header *multipart.FileHeader) (*models.Recipe, error) {
	recipe, err := s.GetRecipeByID(userID, recipeID)
	if err != nil {
		return nil, err
	}

	if header == nil || !storage.Allowed(header.Filename) {
		return nil, apperrors.ErrInvalidImage
	}
	if header.Size > storage.MaxImageSize {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidImage, "image exceeds the maximum allowed size")
	}

	previous := recipe.Image
	path, err := s.images.Save(recipe.ID, header)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(recipe).Update("image", path).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	_ = s.images.Remove(previous)

	recipe.Image = path
	return recipe, nil
}

// resolveTags loads the given tag IDs and verifies every one belongs to
// the user. A missing or foreign ID fails the whole set.
func (s *recipeService) resolveTags(userID uint, ids []uint) ([]models.Tag, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	var tags []models.Tag
	if err := s.db.Where("id IN ? AND user_id = ?", ids, userID).Find(&tags).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(tags) != len(ids) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "one or more tags do not exist")
	}
	return tags, nil
}

// resolveIngredients is the ingredient counterpart of resolveTags.
func (s *recipeService) resolveIngredients(userID uint, ids []uint) ([]models.Ingredient, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	var ingredients []models.Ingredient
	if err := s.db.Where("id IN ? AND user_id = ?", ids, userID).Find(&ingredients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(ingredients) != len(ids) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "one or more ingredients do not exist")
	}
	return ingredients, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
