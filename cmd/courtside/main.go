package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/sidelinehq/courtside/internal/app"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ courtside failed to start: %v", err)
	}
}
