package router

import (
	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/api"
	"github.com/forkful/forkful-backend/internal/middleware"
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Auth    *api.AuthHandler
	Recipes *api.RecipeHandler
	Profile *api.ProfileHandler
	Images  *api.ImageHandler

	Validator   middleware.TokenValidator
	RateLimiter *middleware.RateLimiter
	Health      gin.HandlerFunc

	AllowedOrigins []string
}

// SetupRouter configures the application routes. Read routes take an
// optional token so signed-in users see their favorite state; mutating
// routes require one.
func SetupRouter(h Handlers) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CORS(h.AllowedOrigins))

	if h.Health != nil {
		router.GET("/health", h.Health)
	}

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
	}

	reads := v1.Group("")
	reads.Use(middleware.OptionalAuthMiddleware(h.Validator))
	{
		reads.GET("/recipes", h.Recipes.ListRecipes)
		reads.GET("/recipes/:id", h.Recipes.GetRecipe)
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(h.Validator))
	{
		create := protected.Group("")
		if h.RateLimiter != nil {
			create.Use(h.RateLimiter.Middleware())
		}
		create.POST("/recipes", h.Recipes.CreateRecipe)

		protected.PUT("/recipes/:id", h.Recipes.UpdateRecipe)
		protected.DELETE("/recipes/:id", h.Recipes.DeleteRecipe)
		protected.POST("/recipes/:id/favorite", h.Recipes.ToggleFavorite)

		protected.POST("/images", h.Images.UploadImage)

		protected.GET("/profile", h.Profile.GetProfile)
		protected.PUT("/profile", h.Profile.UpdateProfile)
	}

	return router
}
