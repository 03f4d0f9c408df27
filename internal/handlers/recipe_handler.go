package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "savora/internal/errors"
	"savora/internal/models"
	"savora/internal/pagination"
	"savora/internal/services"
)

// RecipeHandler handles recipe-related requests
type RecipeHandler struct {
	recipeService services.RecipeServicer
	auditService  services.AuditServicer
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(recipeService services.RecipeServicer, auditService services.AuditServicer) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService, auditService: auditService}
}

// RecipeRequest represents the payload for creating a recipe or replacing
// one via PUT. Omitted optional fields take the create defaults.
type RecipeRequest struct {
	Title       string          `json:"title" binding:"required,max=255"`
	TimeMinutes int             `json:"time_minutes" binding:"omitempty,min=0"`
	Price       decimal.Decimal `json:"price" binding:"omitempty,min=0"`
	Link        string          `json:"link" binding:"omitempty,url,max=255"`
	Tags        []uint          `json:"tags"`
	Ingredients []uint          `json:"ingredients"`
}

// PatchRecipeRequest represents a partial update. Nil fields are left
// unchanged; a present tags/ingredients key replaces the association set.
type PatchRecipeRequest struct {
	Title       *string          `json:"title" binding:"omitempty,max=255"`
	TimeMinutes *int             `json:"time_minutes" binding:"omitempty,min=0"`
	Price       *decimal.Decimal `json:"price" binding:"omitempty,min=0"`
	Link        *string          `json:"link" binding:"omitempty,url,max=255"`
	Tags        *[]uint          `json:"tags"`
	Ingredients *[]uint          `json:"ingredients"`
}

// RecipeListItem is the list projection: associations appear as ID lists.
type RecipeListItem struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Link        string          `json:"link"`
	Image       string          `json:"image"`
	Tags        []uint          `json:"tags"`
	Ingredients []uint          `json:"ingredients"`
}

// RecipeDetail is the detail projection with nested tag and ingredient objects.
type RecipeDetail struct {
	ID          uint                 `json:"id"`
	Title       string               `json:"title"`
	TimeMinutes int                  `json:"time_minutes"`
	Price       decimal.Decimal      `json:"price"`
	Link        string               `json:"link"`
	Image       string               `json:"image"`
	Tags        []TagResponse        `json:"tags"`
	Ingredients []IngredientResponse `json:"ingredients"`
}

func toListItem(r models.Recipe) RecipeListItem {
	item := RecipeListItem{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Image:       r.Image,
		Tags:        []uint{},
		Ingredients: []uint{},
	}
	for _, t := range r.Tags {
		item.Tags = append(item.Tags, t.ID)
	}
	for _, i := range r.Ingredients {
		item.Ingredients = append(item.Ingredients, i.ID)
	}
	return item
}

func toDetail(r *models.Recipe) RecipeDetail {
	detail := RecipeDetail{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Image:       r.Image,
		Tags:        []TagResponse{},
		Ingredients: []IngredientResponse{},
	}
	for _, t := range r.Tags {
		detail.Tags = append(detail.Tags, TagResponse{ID: t.ID, UserID: t.UserID, Name: t.Name})
	}
	for _, i := range r.Ingredients {
		detail.Ingredients = append(detail.Ingredients, IngredientResponse{ID: i.ID, UserID: i.UserID, Name: i.Name})
	}
	return detail
}

// CreateRecipe handles the creation of a new recipe
// @Summary     Create a recipe
// @Description Create a new recipe with optional tag and ingredient IDs
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RecipeRequest true "Recipe details"
// @Success     201 {object} RecipeDetail "Recipe created"
// @Failure     400 {object} ErrorResponse "Invalid input or unknown tag/ingredient IDs"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /recipe/recipes [post]
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	recipe, err := h.recipeService.CreateRecipe(userID, req.Title, req.TimeMinutes, req.Price, req.Link, req.Tags, req.Ingredients)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "recipe", recipe.ID, c.ClientIP())

	c.JSON(http.StatusCreated, gin.H{"recipe": toDetail(recipe)})
}

// GetUserRecipes handles the retrieval of the user's recipes
// @Summary     List recipes
// @Description List the authenticated user's recipes, newest first, optionally filtered by tag/ingredient IDs
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       tags query string false "Comma-separated tag IDs"
// @Param       ingredients query string false "Comma-separated ingredient IDs"
// @Success     200 {array} RecipeListItem "List of recipes"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /recipe/recipes [get]
func (h *RecipeHandler) GetUserRecipes(c *gin.Context) {
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

	var filter services.RecipeFilter
	if filter.TagIDs, err = parseIDList(c, "tags"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.IngredientIDs, err = parseIDList(c, "ingredients"); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.recipeService.GetUserRecipes(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	items := make([]RecipeListItem, 0, len(result.Data))
	for _, r := range result.Data {
		items = append(items, toListItem(r))
	}

	c.JSON(http.StatusOK, pagination.NewPageResponse(items, result.Page, result.PageSize, result.TotalItems))
}

// GetRecipeByID handles the retrieval of a specific recipe
// @Summary     Get recipe by ID
// @Description Get one of the authenticated user's recipes with nested tags and ingredients
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Recipe ID"
// @Success     200 {object} RecipeDetail "Recipe details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recipe not found"
// @Router      /recipe/recipes/{id} [get]
func (h *RecipeHandler) GetRecipeByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recipeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	recipe, err := h.recipeService.GetRecipeByID(userID, recipeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": toDetail(recipe)})
}

// PatchRecipe handles a partial recipe update
// @Summary     Partially update a recipe
// @Description Change only the supplied fields; a supplied tags/ingredients key replaces the association set
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Recipe ID"
// @Param       request body PatchRecipeRequest true "Fields to change"
// @Success     200 {object} RecipeDetail "Updated recipe"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recipe not found"
// @Router      /recipe/recipes/{id} [patch]
func (h *RecipeHandler) PatchRecipe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recipeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PatchRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.RecipeUpdate{
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		Link:          req.Link,
		TagIDs:        req.Tags,
		IngredientIDs: req.Ingredients,
	}

	recipe, err := h.recipeService.UpdateRecipe(userID, recipeID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", "recipe", recipeID, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"recipe": toDetail(recipe)})
}

// PutRecipe handles a full recipe replacement
// @Summary     Replace a recipe
// @Description Replace every field; omitted scalars take create defaults and omitted relations are cleared
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Recipe ID"
// @Param       request body RecipeRequest true "Full recipe"
// @Success     200 {object} RecipeDetail "Replaced recipe"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recipe not found"
// @Router      /recipe/recipes/{id} [put]
func (h *RecipeHandler) PutRecipe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recipeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// Replace semantics: every field is written, omitted relations clear.
	tags := req.Tags
	if tags == nil {
		tags = []uint{}
	}
	ingredients := req.Ingredients
	if ingredients == nil {
		ingredients = []uint{}
	}
	update := services.RecipeUpdate{
		Title:         &req.Title,
		TimeMinutes:   &req.TimeMinutes,
		Price:         &req.Price,
		Link:          &req.Link,
		TagIDs:        &tags,
		IngredientIDs: &ingredients,
	}

	recipe, err := h.recipeService.UpdateRecipe(userID, recipeID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", "recipe", recipeID, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"recipe": toDetail(recipe)})
}

// DeleteRecipe handles deleting a recipe
// @Summary     Delete a recipe
// @Description Delete one of the authenticated user's recipes; its tags and ingredients survive
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Recipe ID"
// @Success     200 {object} MessageResponse "Recipe deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recipe not found"
// @Router      /recipe/recipes/{id} [delete]
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recipeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recipeService.DeleteRecipe(userID, recipeID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "recipe", recipeID, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}

// UploadImage handles a recipe image upload
// @Summary     Upload a recipe image
// @Description Attach a multipart image to one of the authenticated user's recipes
// @Tags        recipes
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Recipe ID"
// @Param       image formData file true "Image file (jpg, jpeg, png, gif)"
// @Success     200 {object} RecipeDetail "Image stored"
// @Failure     400 {object} ErrorResponse "Missing or unsupported image file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recipe not found"
// @Router      /recipe/recipes/{id}/upload-image [post]
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recipeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidImage, "image file is required"))
		return
	}

	recipe, err := h.recipeService.SaveImage(userID, recipeID, header)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "upload_image", "recipe", recipeID, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"id": recipe.ID, "image": recipe.Image})
}

// MessageResponse represents a simple confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}
