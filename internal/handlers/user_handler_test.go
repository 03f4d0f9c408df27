package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "savora/internal/errors"
	"savora/internal/models"
	"savora/internal/pagination"
	"savora/internal/services"
	"savora/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn   func(email, password, name string) (*models.User, error)
	getUserByIDFn  func(id uint) (*models.User, error)
	updateSelfFn   func(userID uint, name, password *string) (*models.User, error)
	attemptLoginFn func(email, password string) (*models.User, error)
}

func (m *mockUserService) CreateUser(email, password, name string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(email, password, name)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id uint) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) UpdateSelf(userID uint, name, password *string) (*models.User, error) {
	if m.updateSelfFn != nil {
		return m.updateSelfFn(userID, name, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) AttemptLogin(email, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &models.User{}, nil
}

type mockTokenService struct {
	issueFn   func(email, password string) (string, error)
	resolveFn func(key string) (*models.User, error)
}

func (m *mockTokenService) Issue(email, password string) (string, error) {
	if m.issueFn != nil {
		return m.issueFn(email, password)
	}
	return "sometokenkey", nil
}

func (m *mockTokenService) Resolve(key string) (*models.User, error) {
	if m.resolveFn != nil {
		return m.resolveFn(key)
	}
	return &models.User{}, nil
}

type mockTagService struct {
	createTagFn   func(userID uint, name string) (*models.Tag, error)
	getUserTagsFn func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Tag], error)
}

func (m *mockTagService) CreateTag(userID uint, name string) (*models.Tag, error) {
	if m.createTagFn != nil {
		return m.createTagFn(userID, name)
	}
	return &models.Tag{}, nil
}

func (m *mockTagService) GetUserTags(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Tag], error) {
	if m.getUserTagsFn != nil {
		return m.getUserTagsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Tag{}, 1, 20, 0)
	return &resp, nil
}

type mockIngredientService struct {
	createIngredientFn   func(userID uint, name string) (*models.Ingredient, error)
	getUserIngredientsFn func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Ingredient], error)
}

func (m *mockIngredientService) CreateIngredient(userID uint, name string) (*models.Ingredient, error) {
	if m.createIngredientFn != nil {
		return m.createIngredientFn(userID, name)
	}
	return &models.Ingredient{}, nil
}

func (m *mockIngredientService) GetUserIngredients(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Ingredient], error) {
	if m.getUserIngredientsFn != nil {
		return m.getUserIngredientsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Ingredient{}, 1, 20, 0)
	return &resp, nil
}

type mockRecipeService struct {
	createRecipeFn   func(userID uint, title string, timeMinutes int, price decimal.Decimal, link string, tagIDs, ingredientIDs []uint) (*models.Recipe, error)
	getUserRecipesFn func(userID uint, page pagination.PageRequest, filter services.RecipeFilter) (*pagination.PageResponse[models.Recipe], error)
	getRecipeByIDFn  func(userID, recipeID uint) (*models.Recipe, error)
	updateRecipeFn   func(userID, recipeID uint, update services.RecipeUpdate) (*models.Recipe, error)
	deleteRecipeFn   func(userID, recipeID uint) error
	saveImageFn      func(userID, recipeID uint, header *multipart.FileHeader) (*models.Recipe, error)
}

func (m *mockRecipeService) CreateRecipe(userID uint, title string, timeMinutes int, price decimal.Decimal, link string, tagIDs, ingredientIDs []uint) (*models.Recipe, error) {
	if m.createRecipeFn != nil {
		return m.createRecipeFn(userID, title, timeMinutes, price, link, tagIDs, ingredientIDs)
	}
	return &models.Recipe{}, nil
}

func (m *mockRecipeService) GetUserRecipes(userID uint, page pagination.PageRequest, filter services.RecipeFilter) (*pagination.PageResponse[models.Recipe], error) {
	if m.getUserRecipesFn != nil {
		return m.getUserRecipesFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Recipe{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockRecipeService) GetRecipeByID(userID, recipeID uint) (*models.Recipe, error) {
	if m.getRecipeByIDFn != nil {
		return m.getRecipeByIDFn(userID, recipeID)
	}
	return &models.Recipe{}, nil
}

func (m *mockRecipeService) UpdateRecipe(userID, recipeID uint, update services.RecipeUpdate) (*models.Recipe, error) {
	if m.updateRecipeFn != nil {
		return m.updateRecipeFn(userID, recipeID, update)
	}
	return &models.Recipe{}, nil
}

func (m *mockRecipeService) DeleteRecipe(userID, recipeID uint) error {
	if m.deleteRecipeFn != nil {
		return m.deleteRecipeFn(userID, recipeID)
	}
	return nil
}

func (m *mockRecipeService) SaveImage(userID, recipeID uint, header *multipart.FileHeader) (*models.Recipe, error) {
	if m.saveImageFn != nil {
		return m.saveImageFn(userID, recipeID, header)
	}
	return &models.Recipe{}, nil
}

type mockAuditService struct{}

func (m *mockAuditService) Log(_ uint, _, _ string, _ uint, _ string) {}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupUserRouter(handler *UserHandler) *gin.Engine {
	r := gin.New()
	r.POST("/users/create", handler.CreateUser)
	r.POST("/users/token", handler.CreateToken)
	r.GET("/users/me", injectUserID(1), handler.GetMe)
	r.PATCH("/users/me", injectUserID(1), handler.UpdateMe)
	return r
}

func injectUserID(uid uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- tests ---

func TestUserHandler_CreateUser(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(email, _, name string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: 1}, Email: email, Name: name}, nil
			},
		}
		handler := NewUserHandler(userSvc, &mockTokenService{}, &mockAuditService{})
		r := setupUserRouter(handler)

		rec := doRequest(r, "POST", "/users/create",
			`{"email":"test@example.com","password":"password123","name":"Test Name"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["email"] != "test@example.com" {
			t.Errorf("expected email test@example.com, got %v", result["email"])
		}
		if result["name"] != "Test Name" {
			t.Errorf("expected name Test Name, got %v", result["name"])
		}
		if result["password"] != nil {
			t.Error("response must not carry a password field")
		}
	})

	t.Run("returns 400 on missing email", func(t *testing.T) {
		handler := NewUserHandler(&mockUserService{}, &mockTokenService{}, &mockAuditService{})
		r := setupUserRouter(handler)

		rec := doRequest(r, "POST", "/users/create", `{"password":"password123"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on short password", func(t *testing.T) {
		handler := NewUserHandler(&mockUserService{}, &mockTokenService{}, &mockAuditService{})
		r := setupUserRouter(handler)

		rec := doRequest(r, "POST", "/users/create", `{"email":"test@example.com","password":"pw1"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid email format", func(t *testing.T) {
		handler := NewUserHandler(&mockUserService{}, &mockTokenService{}, &mockAuditService{})
		r := setupUserRouter(handler)

		rec := doRequest(r, "POST", "/users/create", `{"email":"not-an-email","password":"password123"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on duplicate email", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(_, _, _ string) (*models.User, error) {
				return nil, apperrors.ErrEmailTaken
			},
		}
		handler := NewUserHandler(userSvc, &mockTokenService{}, &mockAuditService{})
		r := setupUserRouter(handler)

		rec := doRequest(r, "POST", "/users/create", `{"email":"dup@example.com","password":"password123"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "EMAIL_TAKEN")
	})
}

func TestUserHandler_CreateToken(t *testing.T) {
	t.Run("returns 200 with token", func(t *testing.T) {
		tokenSvc := &mockTokenService{
			issueFn: func(email, _ string) (string, error) {
				return "aabbccddeeff00112233445566778899aabbccdd", nil
			},
		}
		handler := NewUserHandler(&mockUserService{}, tokenSvc, &mockAuditService{})
		r := setupUserRouter(handler)

		rec := doRequest(r, "POST", "/users/token", `{"email":"test@example.com","password":"password123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["token"] != "aabbccddeeff00112233445566778899aabbccdd" {
			t.Errorf("expected token in response, got %v", result["token"])
		}
	})

	t.Run("returns 400 on bad credentials", func(t *testing.T) {
		tokenSvc := &mockTokenService{
			issueFn: func(_, _ string) (string, error) {
				return "", apperrors.ErrInvalidCredentials
			},
		}
		handler := NewUserHandler(&mockUserService{}, tokenSvc, &mockAuditService{})
		r := setupUserRouter(handler)

		rec := doRequest(r, "POST", "/users/token", `{"email":"test@example.com","password":"wrong"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "INVALID_CREDENTIALS")
		if _, exists := result["token"]; exists {
			t.Error("failure response must not carry a token field")
		}
	})

	t.Run("returns 400 on missing fields", func(t *testing.T) {
		handler := NewUserHandler(&mockUserService{}, &mockTokenService{}, &mockAuditService{})
		r := setupUserRouter(handler)

		rec := doRequest(r, "POST", "/users/token", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestUserHandler_GetMe(t *testing.T) {
	t.Run("returns 200 with profile", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(id uint) (*models.User, error) {
				return &models.User{Base: models.Base{ID: id}, Email: "me@example.com", Name: "Me"}, nil
			},
		}
		handler := NewUserHandler(userSvc, &mockTokenService{}, &mockAuditService{})
		r := setupUserRouter(handler)

		rec := doRequest(r, "GET", "/users/me", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["email"] != "me@example.com" {
			t.Errorf("expected me@example.com, got %v", result["email"])
		}
		if result["name"] != "Me" {
			t.Errorf("expected Me, got %v", result["name"])
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewUserHandler(&mockUserService{}, &mockTokenService{}, &mockAuditService{})
		r := gin.New()
		r.GET("/users/me", handler.GetMe)

		rec := doRequest(r, "GET", "/users/me", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestUserHandler_UpdateMe(t *testing.T) {
	t.Run("returns 200 and forwards supplied fields", func(t *testing.T) {
		var gotName, gotPassword *string
		userSvc := &mockUserService{
			updateSelfFn: func(_ uint, name, password *string) (*models.User, error) {
				gotName, gotPassword = name, password
				return &models.User{Email: "me@example.com", Name: "Renamed"}, nil
			},
		}
		handler := NewUserHandler(userSvc, &mockTokenService{}, &mockAuditService{})
		r := setupUserRouter(handler)

		rec := doRequest(r, "PATCH", "/users/me", `{"name":"Renamed"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotName == nil || *gotName != "Renamed" {
			t.Errorf("expected name Renamed forwarded, got %v", gotName)
		}
		if gotPassword != nil {
			t.Error("expected absent password to stay nil")
		}
		result := parseJSON(t, rec)
		if result["name"] != "Renamed" {
			t.Errorf("expected name Renamed, got %v", result["name"])
		}
	})

	t.Run("returns 400 on short password", func(t *testing.T) {
		handler := NewUserHandler(&mockUserService{}, &mockTokenService{}, &mockAuditService{})
		r := setupUserRouter(handler)

		rec := doRequest(r, "PATCH", "/users/me", `{"password":"pw"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewUserHandler(&mockUserService{}, &mockTokenService{}, &mockAuditService{})
		r := gin.New()
		r.PATCH("/users/me", handler.UpdateMe)

		rec := doRequest(r, "PATCH", "/users/me", `{"name":"x"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
