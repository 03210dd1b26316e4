// Command seed loads a handful of demo users and recipes into the document
// store for local development.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/database"
	"github.com/forkful/forkful-backend/internal/domain"
	"github.com/forkful/forkful-backend/internal/service"
	"github.com/forkful/forkful-backend/internal/session"
	"github.com/forkful/forkful-backend/internal/store"
)

type seedUser struct {
	register domain.RegisterRequest
	recipes  []domain.RecipeDraft
}

var seedUsers = []seedUser{
	{
		register: domain.RegisterRequest{
			Email:       "alice@example.com",
			Password:    "seed-password-1",
			DisplayName: "Alice",
		},
		recipes: []domain.RecipeDraft{
			{
				Title:        "Classic Margherita Pizza",
				Description:  "Thin crust, tomato, mozzarella, basil.",
				Category:     "Dinner",
				Ingredients:  []string{"pizza dough", "tomato sauce", "mozzarella", "basil"},
				Instructions: []string{"Stretch the dough", "Top and bake at 250C for 8 minutes"},
			},
			{
				Title:        "Overnight Oats",
				Description:  "No-cook breakfast with oats and fruit.",
				Category:     "Breakfast",
				Ingredients:  []string{"rolled oats", "milk", "chia seeds", "berries"},
				Instructions: []string{"Mix everything", "Refrigerate overnight"},
			},
		},
	},
	{
		register: domain.RegisterRequest{
			Email:       "bob@example.com",
			Password:    "seed-password-2",
			DisplayName: "Bob",
		},
		recipes: []domain.RecipeDraft{
			{
				Title:        "Green Curry",
				Description:  "Thai green curry with vegetables.",
				Category:     "Dinner",
				Ingredients:  []string{"green curry paste", "coconut milk", "eggplant", "jasmine rice"},
				Instructions: []string{"Fry the paste", "Add coconut milk and vegetables", "Simmer and serve over rice"},
			},
		},
	},
}

func main() {
	_ = godotenv.Load()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	gormDB, err := database.NewGormDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open gorm connection")
	}
	docs, err := store.NewGorm(gormDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize document store")
	}

	ctx := context.Background()
	auth := service.NewAuthService(docs, service.NewMemoryTokenRegistry(), cfg.JWTSecret, logger)

	for _, u := range seedUsers {
		_, user, err := auth.Register(ctx, u.register)
		if err != nil {
			logger.Warn().Err(err).Str("email", u.register.Email).Msg("skipping user")
			continue
		}

		recipes := service.NewRecipeService(docs, session.Static(user.ID), logger)
		for _, draft := range u.recipes {
			id, err := recipes.CreateRecipe(ctx, draft)
			if err != nil {
				logger.Fatal().Err(err).Str("title", draft.Title).Msg("failed to seed recipe")
			}
			logger.Info().Str("recipe_id", id).Str("title", draft.Title).Msg("seeded recipe")
		}
	}
}
