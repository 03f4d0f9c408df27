package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "savora/internal/errors"
	"savora/internal/pagination"
	"savora/internal/services"
)

// TagHandler handles tag-related requests
type TagHandler struct {
	tagService   services.TagServicer
	auditService services.AuditServicer
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService services.TagServicer, auditService services.AuditServicer) *TagHandler {
	return &TagHandler{tagService: tagService, auditService: auditService}
}

// CreateTagRequest represents the request payload for creating a tag
type CreateTagRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// TagResponse represents a tag in the response
type TagResponse struct {
	ID     uint   `json:"id"`
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
}

// CreateTag handles the creation of a new tag
// @Summary     Create a tag
// @Description Create a new tag owned by the authenticated user
// @Tags        tags
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTagRequest true "Tag details"
// @Success     201 {object} TagResponse "Tag created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /recipe/tags [post]
func (h *TagHandler) CreateTag(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tag, err := h.tagService.CreateTag(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "tag", tag.ID, c.ClientIP())

	c.JSON(http.StatusCreated, gin.H{"tag": tag})
}

// GetUserTags handles the retrieval of the user's tags
// @Summary     List tags
// @Description List the authenticated user's tags, name descending
// @Tags        tags
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {array} TagResponse "List of tags"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /recipe/tags [get]
func (h *TagHandler) GetUserTags(c *gin.Context) {
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

	result, err := h.tagService.GetUserTags(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
