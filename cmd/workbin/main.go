package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/workbin-dev/workbin/db"
	"github.com/workbin-dev/workbin/internal/auth"
	"github.com/workbin-dev/workbin/internal/router"
	"github.com/workbin-dev/workbin/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize token signing: %v", err)
	}

	sqliteFile := os.Getenv("DATABASE_FILE")

	if sqliteFile == "" {
		sqliteFile = "workbin.db"
	}

	if err := db.ConnectDatabase(os.Getenv("DATABASE_URL"), sqliteFile); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := store.InitStorageRoot(os.Getenv("STORAGE_ROOT")); err != nil {
		log.Fatalf("Failed to initialize storage root: %v", err)
	}

	r := router.NewRouter()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
