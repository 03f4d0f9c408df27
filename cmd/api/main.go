package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"savora/internal/config"
	"savora/internal/database"
	"savora/internal/handlers"
	"savora/internal/logger"
	"savora/internal/middleware"
	"savora/internal/services"
	"savora/internal/storage"
	"savora/internal/validator"

	_ "savora/internal/docs" // Import swagger docs
)

// @title           Savora API
// @version         1.0
// @description     Savora is a recipe management service: users keep their own recipes, tags, and ingredients behind token authentication.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the API token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	imageStore := storage.NewImageStore(appConfig.UploadDir)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db, userService)
	tagService := services.NewTagService(db)
	ingredientService := services.NewIngredientService(db)
	recipeService := services.NewRecipeService(db, imageStore)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokenService, auditService)
	tagHandler := handlers.NewTagHandler(tagService, auditService)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService, auditService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public user routes
	users := router.Group("/users")
	users.POST("/create", userHandler.CreateUser)
	users.POST("/token", userHandler.CreateToken)

	// Authenticated profile routes
	me := users.Group("/me")
	me.Use(middleware.AuthMiddleware(tokenService))
	me.GET("", userHandler.GetMe)
	me.PATCH("", userHandler.UpdateMe)

	// Recipe resource routes
	recipe := router.Group("/recipe")
	recipe.Use(middleware.AuthMiddleware(tokenService))

	recipe.GET("/tags", tagHandler.GetUserTags)
	recipe.POST("/tags", tagHandler.CreateTag)

	recipe.GET("/ingredients", ingredientHandler.GetUserIngredients)
	recipe.POST("/ingredients", ingredientHandler.CreateIngredient)

	recipes := recipe.Group("/recipes")
	recipes.GET("", recipeHandler.GetUserRecipes)
	recipes.POST("", recipeHandler.CreateRecipe)
	recipes.GET("/:id", recipeHandler.GetRecipeByID)
	recipes.PATCH("/:id", recipeHandler.PatchRecipe)
	recipes.PUT("/:id", recipeHandler.PutRecipe)
	recipes.DELETE("/:id", recipeHandler.DeleteRecipe)
	recipes.POST("/:id/upload-image", recipeHandler.UploadImage)

	log.Infof("Starting Savora backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
