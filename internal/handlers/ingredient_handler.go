package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "savora/internal/errors"
	"savora/internal/pagination"
	"savora/internal/services"
)

// IngredientHandler handles ingredient-related requests
type IngredientHandler struct {
	ingredientService services.IngredientServicer
	auditService      services.AuditServicer
}

// NewIngredientHandler creates a new IngredientHandler
func NewIngredientHandler(ingredientService services.IngredientServicer, auditService services.AuditServicer) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService, auditService: auditService}
}

// CreateIngredientRequest represents the request payload for creating an ingredient
type CreateIngredientRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// IngredientResponse represents an ingredient in the response
type IngredientResponse struct {
	ID     uint   `json:"id"`
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
}

// CreateIngredient handles the creation of a new ingredient
// @Summary     Create an ingredient
// @Description Create a new ingredient owned by the authenticated user
// @Tags        ingredients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateIngredientRequest true "Ingredient details"
// @Success     201 {object} IngredientResponse "Ingredient created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /recipe/ingredients [post]
func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	ingredient, err := h.ingredientService.CreateIngredient(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "ingredient", ingredient.ID, c.ClientIP())

	c.JSON(http.StatusCreated, gin.H{"ingredient": ingredient})
}

// GetUserIngredients handles the retrieval of the user's ingredients
// @Summary     List ingredients
// @Description List the authenticated user's ingredients, name descending
// @Tags        ingredients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {array} IngredientResponse "List of ingredients"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /recipe/ingredients [get]
func (h *IngredientHandler) GetUserIngredients(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.ingredientService.GetUserIngredients(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
