package main

import (
	"log"
	"os"

	"app/config"
	"app/database"
	"app/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	// Load configuration
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	// Set up the application configuration
	config.AppConfig.DatabaseURL = databaseURL
	config.AppConfig.JWTSecret = jwtSecret
	config.AppConfig.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	config.AppConfig.AdminUser = os.Getenv("ADMIN_USER")
	config.AppConfig.AdminPasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")
	if config.AppConfig.AdminUser == "" {
		log.Println("ADMIN_USER is not set; admin endpoints will reject all logins")
	}

	// Initialize database
	database.InitDB(databaseURL)
	defer database.CloseDB()

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024, // report uploads can be large
	})

	// Add CORS middleware
	app.Use(cors.New())

	// Setup routes
	routes.SetupRoutes(app)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Fatal(app.Listen(":" + port))
}
