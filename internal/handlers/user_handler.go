package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "savora/internal/errors"
	"savora/internal/services"
)

// UserHandler handles registration, token issuance, and the profile endpoints.
type UserHandler struct {
	userService  services.UserServicer
	tokenService services.TokenServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserServicer, tokenService services.TokenServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{
		userService:  userService,
		tokenService: tokenService,
		auditService: auditService,
	}
}

// CreateUserRequest represents the registration request payload
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=5,max=128"`
	Name     string `json:"name" binding:"max=255"`
}

// TokenRequest represents the token issuance request payload
type TokenRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateMeRequest represents the profile update payload. Absent fields are
// left unchanged.
type UpdateMeRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Password *string `json:"password" binding:"omitempty,min=5,max=128"`
}

// UserResponse represents the user data in a response
type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenResponse represents a successful token issuance
type TokenResponse struct {
	Token string `json:"token"`
}

// CreateUser handles user registration
// @Summary     Register a new user
// @Description Register a new user with email and password
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body CreateUserRequest true "User registration data"
// @Success     201 {object} UserResponse "User created"
// @Failure     400 {object} ErrorResponse "Invalid input or email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/create [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req.Email, req.Password, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "create", "user", user.ID, c.ClientIP())

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	})
}

// CreateToken handles token issuance
// @Summary     Obtain an API token
// @Description Exchange email and password for an opaque bearer token
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body TokenRequest true "Credentials"
// @Success     200 {object} TokenResponse "Token issued"
// @Failure     400 {object} ErrorResponse "Missing fields or bad credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/token [post]
func (h *UserHandler) CreateToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// Failure responses never carry a token field.
	token, err := h.tokenService.Issue(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GetMe returns the authenticated user's profile
// @Summary     Get own profile
// @Description Get the authenticated user's email and display name
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "Profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email": user.Email,
		"name":  user.Name,
	})
}

// UpdateMe updates the authenticated user's own profile
// @Summary     Update own profile
// @Description Change the display name and/or password of the authenticated user
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateMeRequest true "Fields to change"
// @Success     200 {object} UserResponse "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /users/me [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateSelf(userID, req.Name, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", "user", userID, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{
		"email": user.Email,
		"name":  user.Name,
	})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
