package services

import (
	"mime/multipart"

	"github.com/shopspring/decimal"

	"savora/internal/models"
	"savora/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	UpdateSelf(userID uint, name, password *string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
}

// TokenServicer defines the contract for issuing and resolving the opaque
// API tokens used by the auth middleware.
type TokenServicer interface {
	Issue(email, password string) (string, error)
	Resolve(key string) (*models.User, error)
}

// TagServicer defines the contract for tag-related business logic.
type TagServicer interface {
	CreateTag(userID uint, name string) (*models.Tag, error)
	GetUserTags(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Tag], error)
}

// IngredientServicer defines the contract for ingredient-related business logic.
type IngredientServicer interface {
	CreateIngredient(userID uint, name string) (*models.Ingredient, error)
	GetUserIngredients(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Ingredient], error)
}

// RecipeFilter holds optional filter parameters for listing recipes.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeUpdate carries the fields of a recipe update. Nil means the field
// was not supplied and keeps its current value; for TagIDs/IngredientIDs a
// non-nil (possibly empty) slice replaces the full association set.
type RecipeUpdate struct {
	Title         *string
	TimeMinutes   *int
	Price         *decimal.Decimal
	Link          *string
	TagIDs        *[]uint
	IngredientIDs *[]uint
}

// RecipeServicer defines the contract for recipe-related business logic.
type RecipeServicer interface {
	CreateRecipe(userID uint, title string, timeMinutes int, price decimal.Decimal, link string, tagIDs, ingredientIDs []uint) (*models.Recipe, error)
	GetUserRecipes(userID uint, page pagination.PageRequest, filter RecipeFilter) (*pagination.PageResponse[models.Recipe], error)
	GetRecipeByID(userID, recipeID uint) (*models.Recipe, error)
	UpdateRecipe(userID, recipeID uint, update RecipeUpdate) (*models.Recipe, error)
	DeleteRecipe(userID, recipeID uint) error
	SaveImage(userID, recipeID uint, header *multipart.FileHeader) (*models.Recipe, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string)
}
