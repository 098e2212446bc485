package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/lifeblood-dev/lifeblood/db"
	"github.com/lifeblood-dev/lifeblood/internal/auth"
	"github.com/lifeblood-dev/lifeblood/internal/chat"
	"github.com/lifeblood-dev/lifeblood/internal/handlers"
	"github.com/lifeblood-dev/lifeblood/internal/matching"
	"github.com/lifeblood-dev/lifeblood/internal/router"
	"github.com/lifeblood-dev/lifeblood/internal/services"
	"github.com/lifeblood-dev/lifeblood/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	if err := db.ConnectDatabase(os.Getenv("DATABASE_URL")); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	requests := store.NewRequestStore(db.DB)
	donors := store.NewDonorRegistry(db.DB)
	messages := store.NewMessageStore(db.DB)

	mailer := services.NewMailerFromEnv()
	notifier := services.NewNotifier(db.DB, mailer)
	engine := matching.NewEngine(requests, donors, notifier)
	relay := chat.NewRelay(requests, messages)

	r := router.NewRouter(router.Handlers{
		Auth:     &handlers.AuthHandler{Mailer: mailer},
		Requests: &handlers.RequestHandler{Requests: requests},
		Admin:    &handlers.AdminHandler{Engine: engine, Requests: requests},
		Donors:   &handlers.DonorHandler{Registry: donors},
		Chat:     &handlers.ChatHandler{Requests: requests, Messages: messages},
		WS:       &handlers.WSHandler{Relay: relay},
	})

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
