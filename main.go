// main.go
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"carabin/database"
	"carabin/handlers"
	"carabin/middleware"
	"carabin/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database
	database.InitDB()
	defer database.CloseDB()

	// Wire services
	store := database.NewAccountStore(database.GetDB())
	ledger := services.NewLedger(store, getEnv("BOOTSTRAP_USERNAME", "Guillaume"))
	gate := services.NewGate(ledger)
	articleService := services.NewArticleService()

	var generator services.ContentGenerator
	gemini, err := services.NewGeminiGenerator(context.Background())
	if err != nil {
		log.Printf("Warning: generation disabled: %v", err)
		generator = services.DisabledGenerator{}
	} else {
		generator = gemini
	}

	handlers.Init(ledger, gate, articleService, generator)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.RateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/signup", handlers.Signup)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/logout", middleware.AuthMiddleware, handlers.Logout)

	// Account routes
	accountGroup := api.Group("/accounts")
	accountGroup.Use(middleware.AuthMiddleware)
	accountGroup.Get("/me", handlers.GetCurrentAccount)
	accountGroup.Put("/me/settings", handlers.UpdateSettings)
	accountGroup.Post("/me/subscription", handlers.UpgradeSubscription)

	// Article routes (quota-gated)
	api.Get("/specialties", handlers.GetSpecialties)
	articleGroup := api.Group("/articles")
	articleGroup.Use(middleware.AuthMiddleware)
	articleGroup.Get("/random", handlers.GetRandomArticle)
	articleGroup.Get("/:id", handlers.GetArticleByID)

	// Exam routes
	examGroup := api.Group("/exams")
	examGroup.Use(middleware.AuthMiddleware)
	examGroup.Post("/generate", handlers.GenerateExam)
	examGroup.Post("/results", handlers.RecordExamResult)

	// ECOS routes
	ecosGroup := api.Group("/ecos")
	ecosGroup.Use(middleware.AuthMiddleware)
	ecosGroup.Post("/generate", handlers.GenerateStation)

	// Study plan routes
	planGroup := api.Group("/plan")
	planGroup.Use(middleware.AuthMiddleware)
	planGroup.Get("/", handlers.GetStudyPlan)
	planGroup.Post("/", handlers.AddStudySession)
	planGroup.Post("/generate", handlers.GenerateStudyPlan)
	planGroup.Patch("/:id", handlers.ToggleStudySession)
	planGroup.Delete("/:id", handlers.DeleteStudySession)

	// AI coach chat
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/coach", websocket.New(handlers.CoachSocket))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🩺 Bootstrap account: %s", getEnv("BOOTSTRAP_USERNAME", "Guillaume"))
	log.Printf("🎓 Coach available at ws://localhost:%s/ws/coach", port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	if os.Getenv("GEMINI_API_KEY") == "" {
		log.Println("WARNING: GEMINI_API_KEY not set, generation endpoints will be unavailable")
	}

	if os.Getenv("APP_ENV") == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
