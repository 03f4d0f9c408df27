package services

import (
	"gorm.io/gorm"

	apperrors "savora/internal/errors"
	"savora/internal/models"
	"savora/internal/pagination"
)

// ingredientService handles ingredient-related business logic.
type ingredientService struct {
	db *gorm.DB
}

// NewIngredientService creates a new IngredientServicer.
func NewIngredientService(db *gorm.DB) IngredientServicer {
	return &ingredientService{db: db}
}

// CreateIngredient creates a new ingredient owned by the user.
func (s *ingredientService) CreateIngredient(userID uint, name string) (*models.Ingredient, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "ingredient name is required")
	}

	ingredient := &models.Ingredient{UserID: userID, Name: name}
	if err := s.db.Create(ingredient).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return ingredient, nil
}

// GetUserIngredients retrieves a paginated list of the user's ingredients,
// name descending.
func (s *ingredientService) GetUserIngredients(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Ingredient], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Ingredient{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var ingredients []models.Ingredient
	if err := base.Order("name DESC").Scopes(pagination.Paginate(page)).Find(&ingredients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(ingredients, page.Page, page.PageSize, totalItems)
	return &result, nil
}
