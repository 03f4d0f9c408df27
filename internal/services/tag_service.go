package services

import (
	"gorm.io/gorm"

	apperrors "savora/internal/errors"
	"savora/internal/models"
	"savora/internal/pagination"
)

// tagService handles tag-related business logic.
type tagService struct {
	db *gorm.DB
}

// NewTagService creates a new TagServicer.
func NewTagService(db *gorm.DB) TagServicer {
	return &tagService{db: db}
}

// CreateTag creates a new tag owned by the user.
func (s *tagService) CreateTag(userID uint, name string) (*models.Tag, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "tag name is required")
	}

	tag := &models.Tag{UserID: userID, Name: name}
	if err := s.db.Create(tag).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return tag, nil
}

// GetUserTags retrieves a paginated list of the user's tags, name descending.
func (s *tagService) GetUserTags(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Tag], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Tag{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var tags []models.Tag
	if err := base.Order("name DESC").Scopes(pagination.Paginate(page)).Find(&tags).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(tags, page.Page, page.PageSize, totalItems)
	return &result, nil
}
