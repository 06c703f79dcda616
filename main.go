package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"

	"school-calendar/app/config"
	"school-calendar/app/eventstore"
	"school-calendar/app/routes/calendar"
	"school-calendar/app/services"
)

// customErrorHandler handles HTTP errors for both API and page requests
func customErrorHandler(c *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a *fiber.Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Check if this is an API request
	if len(c.Path()) >= 4 && c.Path()[:4] == "/api" {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"code":    code,
		})
	}

	switch code {
	case 404:
		return c.Status(404).Render("error", fiber.Map{
			"Title":        "Page Not Found - School Calendar",
			"ErrorCode":    "404",
			"ErrorTitle":   "Page Not Found",
			"ErrorMessage": "The page you are looking for does not exist.",
		})
	default:
		return c.Status(code).Render("error", fiber.Map{
			"Title":        "Error - School Calendar",
			"ErrorCode":    code,
			"ErrorTitle":   "An Error Occurred",
			"ErrorMessage": err.Error(),
		})
	}
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	if err := config.Init(configPath); err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	cfg := config.Get()

	// Remote collaborators
	var stats *eventstore.StatsClient
	if cfg.StatsURL != "" {
		stats = eventstore.NewStatsClient(cfg.StatsURL)
	}
	store := eventstore.NewClient(cfg.StoreURL, stats)
	session := calendar.NewSession(store)

	// Background refresh
	services.StartScheduler(cfg.RefreshCron, session, stats)

	// Initialize template engine
	engine := html.New("./app/templates", ".html")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		Views:        engine,
		ViewsLayout:  "layouts/main",
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Static files
	app.Static("/static", "./static")

	// Routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/calendar")
	})
	calendar.SetupCalendarRoutes(app, session, cfg.WeekStartDay())

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})

	// Start server
	log.Println("Server starting on", cfg.Listen)
	log.Fatal(app.Listen(cfg.Listen))
}
