package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"savora/internal/handlers"
	"savora/internal/logger"
	"savora/internal/middleware"
	"savora/internal/models"
	"savora/internal/services"
	"savora/internal/storage"
	"savora/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Token{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db, userService)
	tagService := services.NewTagService(db)
	ingredientService := services.NewIngredientService(db)
	recipeService := services.NewRecipeService(db, storage.NewImageStore(t.TempDir()))
	auditService := services.NewAuditService(db)

	// Handlers
	userHandler := handlers.NewUserHandler(userService, tokenService, auditService)
	tagHandler := handlers.NewTagHandler(tagService, auditService)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService, auditService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	users := router.Group("/users")
	users.POST("/create", userHandler.CreateUser)
	users.POST("/token", userHandler.CreateToken)

	me := users.Group("/me")
	me.Use(middleware.AuthMiddleware(tokenService))
	me.GET("", userHandler.GetMe)
	me.PATCH("", userHandler.UpdateMe)

	recipe := router.Group("/recipe")
	recipe.Use(middleware.AuthMiddleware(tokenService))

	tags := recipe.Group("/tags")
	tags.GET("", tagHandler.GetUserTags)
	tags.POST("", tagHandler.CreateTag)

	ingredients := recipe.Group("/ingredients")
	ingredients.GET("", ingredientHandler.GetUserIngredients)
	ingredients.POST("", ingredientHandler.CreateIngredient)

	recipes := recipe.Group("/recipes")
	recipes.GET("", recipeHandler.GetUserRecipes)
	recipes.POST("", recipeHandler.CreateRecipe)
	recipes.GET("/:id", recipeHandler.GetRecipeByID)
	recipes.PATCH("/:id", recipeHandler.PatchRecipe)
	recipes.PUT("/:id", recipeHandler.PutRecipe)
	recipes.DELETE("/:id", recipeHandler.DeleteRecipe)
	recipes.POST("/:id/upload-image", recipeHandler.UploadImage)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns its ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test User"}`, email, password)
	rec := app.request("POST", "/users/create", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["id"].(float64)
}

// tokenFor obtains an API token for the given credentials.
func (app *testApp) tokenFor(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/users/token", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("token issuance failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}

// registerAndLogin registers a user and returns a valid token.
func (app *testApp) registerAndLogin(t *testing.T, email string) string {
	t.Helper()
	app.registerUser(t, email, "password123")
	return app.tokenFor(t, email, "password123")
}
