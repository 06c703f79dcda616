// eventstored is a development stand-in for the remote events collection
// and the dashboard statistics service. It serves the same REST surface the
// production backend exposes, including the backend-native _id identifier
// field that the calendar app's store client normalizes away.
package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	_ "github.com/lib/pq"

	"school-calendar/app/database"
	"school-calendar/app/models"
)

// storeEvent is the wire shape served by the backend: identical to the
// calendar model except for the native _id field name.
type storeEvent struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	ClassLabel  string `json:"class_label"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
	AllDay      bool   `json:"all_day"`
	Reminder    bool   `json:"reminder"`
	Color       string `json:"color,omitempty"`
}

func toStoreEvent(e models.CalendarEvent) storeEvent {
	return storeEvent{
		ID:          e.ID,
		Title:       e.Title,
		Date:        e.Date,
		Category:    e.Category,
		ClassLabel:  e.ClassLabel,
		Description: e.Description,
		Location:    e.Location,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		AllDay:      e.AllDay,
		Reminder:    e.Reminder,
		Color:       e.Color,
	}
}

func (s storeEvent) toModel() models.CalendarEvent {
	return models.CalendarEvent{
		ID:          s.ID,
		Title:       s.Title,
		Date:        s.Date,
		Category:    s.Category,
		ClassLabel:  s.ClassLabel,
		Description: s.Description,
		Location:    s.Location,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		AllDay:      s.AllDay,
		Reminder:    s.Reminder,
		Color:       s.Color,
	}
}

func main() {
	dsn := os.Getenv("EVENTSTORE_DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres dbname=school_calendar sslmode=disable"
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Cannot establish database connection:", err)
	}
	if err := database.EnsureSchema(db); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	app := fiber.New()
	app.Use(logger.New())

	app.Get("/api/events", func(c *fiber.Ctx) error {
		events, err := database.GetEvents(db)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to fetch events",
			})
		}
		records := make([]storeEvent, 0, len(events))
		for _, e := range events {
			records = append(records, toStoreEvent(e))
		}
		return c.JSON(fiber.Map{
			"success": true,
			"events":  records,
		})
	})

	app.Post("/api/events", func(c *fiber.Ctx) error {
		rec := new(storeEvent)
		if err := c.BodyParser(rec); err != nil {
			return c.Status(400).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid request body",
			})
		}

		event := rec.toModel()
		event.ID = ""
		if err := database.CreateEvent(db, &event); err != nil {
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to create event",
			})
		}
		return c.JSON(fiber.Map{
			"success": true,
			"event":   toStoreEvent(event),
		})
	})

	app.Put("/api/events/:id", func(c *fiber.Ctx) error {
		rec := new(storeEvent)
		if err := c.BodyParser(rec); err != nil {
			return c.Status(400).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid request body",
			})
		}

		event := rec.toModel()
		event.ID = c.Params("id")
		found, err := database.UpdateEvent(db, &event)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to update event",
			})
		}
		if !found {
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "Event not found",
			})
		}
		return c.JSON(fiber.Map{
			"success": true,
			"event":   toStoreEvent(event),
		})
	})

	app.Delete("/api/events/:id", func(c *fiber.Ctx) error {
		found, err := database.DeleteEvent(db, c.Params("id"))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to delete event",
			})
		}
		if !found {
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "Event not found",
			})
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Event deleted successfully",
		})
	})

	app.Post("/api/stats/increment/:name", func(c *fiber.Ctx) error {
		if err := database.IncrementStat(db, c.Params("name")); err != nil {
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to increment stat",
			})
		}
		return c.JSON(fiber.Map{"success": true})
	})

	app.Post("/api/stats/resync", func(c *fiber.Ctx) error {
		if err := database.ResyncStats(db); err != nil {
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to resync stats",
			})
		}
		return c.JSON(fiber.Map{"success": true})
	})

	app.Get("/api/stats", func(c *fiber.Ctx) error {
		stats, err := database.GetStats(db)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to fetch stats",
			})
		}
		return c.JSON(fiber.Map{
			"success": true,
			"stats":   stats,
		})
	})

	listen := os.Getenv("EVENTSTORE_LISTEN")
	if listen == "" {
		listen = ":9090"
	}
	log.Println("Event store server starting on", listen)
	log.Fatal(app.Listen(listen))
}
