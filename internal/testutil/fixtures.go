package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"savora/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     fmt.Sprintf("Test User %d", counter.Load()),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTag creates a tag owned by the given user.
func CreateTestTag(t *testing.T, db *gorm.DB, userID uint, name string) *models.Tag {
	t.Helper()

	if name == "" {
		name = fmt.Sprintf("Test Tag %d", nextID())
	}
	tag := &models.Tag{UserID: userID, Name: name}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return tag
}

// CreateTestIngredient creates an ingredient owned by the given user.
func CreateTestIngredient(t *testing.T, db *gorm.DB, userID uint, name string) *models.Ingredient {
	t.Helper()

	if name == "" {
		name = fmt.Sprintf("Test Ingredient %d", nextID())
	}
	ingredient := &models.Ingredient{UserID: userID, Name: name}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create test ingredient: %v", err)
	}
	return ingredient
}

// CreateTestRecipe creates a recipe with default scalar values.
func CreateTestRecipe(t *testing.T, db *gorm.DB, userID uint) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		UserID:      userID,
		Title:       fmt.Sprintf("Test Recipe %d", nextID()),
		TimeMinutes: 10,
		Price:       decimal.RequireFromString("7.00"),
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	return recipe
}

// AttachTags associates the given tags with a recipe.
func AttachTags(t *testing.T, db *gorm.DB, recipe *models.Recipe, tags ...*models.Tag) {
	t.Helper()

	for _, tag := range tags {
		if err := db.Model(recipe).Association("Tags").Append(tag); err != nil {
			t.Fatalf("failed to attach tag: %v", err)
		}
	}
}

// AttachIngredients associates the given ingredients with a recipe.
func AttachIngredients(t *testing.T, db *gorm.DB, recipe *models.Recipe, ingredients ...*models.Ingredient) {
	t.Helper()

	for _, ingredient := range ingredients {
		if err := db.Model(recipe).Association("Ingredients").Append(ingredient); err != nil {
			t.Fatalf("failed to attach ingredient: %v", err)
		}
	}
}
