package calendar

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"school-calendar/app/agenda"
	"school-calendar/app/eventstore"
	"school-calendar/app/models"
)

// GetEventsAPI returns the full event list, refreshed from the store.
func GetEventsAPI(c *fiber.Ctx) error {
	session.Refresh(c.Context())
	return c.JSON(fiber.Map{
		"success": true,
		"events":  session.Events(),
	})
}

// CreateEventAPI creates a new event from a draft.
func CreateEventAPI(c *fiber.Ctx) error {
	draft := new(models.EventDraft)
	if err := c.BodyParser(draft); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if msg := validateDraft(draft); msg != "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   msg,
		})
	}

	event, err := session.Create(c.Context(), *draft)
	if err != nil {
		return remoteFailure(c, "Failed to create event", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"event":   event,
	})
}

// UpdateEventAPI applies a partial update to an existing event.
func UpdateEventAPI(c *fiber.Ctx) error {
	id := c.Params("id")

	patch := new(models.EventPatch)
	if err := c.BodyParser(patch); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if patch.Title != nil && *patch.Title == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Title cannot be empty",
		})
	}
	if patch.Date != nil {
		if _, err := time.Parse(agenda.DateLayout, *patch.Date); err != nil {
			return c.Status(400).JSON(fiber.Map{
				"success": false,
				"error":   "Date must be YYYY-MM-DD",
			})
		}
	}

	event, ok, err := session.Update(c.Context(), id, *patch)
	if err != nil {
		return remoteFailure(c, "Failed to update event", err)
	}
	if !ok {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "Event not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"event":   event,
	})
}

// DeleteEventAPI deletes an event. A missing id is not an error: the
// response reports deleted=false and the local list is reconciled anyway.
func DeleteEventAPI(c *fiber.Ctx) error {
	found, err := session.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return remoteFailure(c, "Failed to delete event", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"deleted": found,
	})
}

// ResetEventsAPI wipes the whole collection. Best-effort maintenance.
func ResetEventsAPI(c *fiber.Ctx) error {
	session.ResetAll(c.Context())
	return c.JSON(fiber.Map{
		"success": true,
		"message": "All events deleted",
	})
}

func validateDraft(d *models.EventDraft) string {
	if d.Title == "" {
		return "Title is required"
	}
	if _, err := time.Parse(agenda.DateLayout, d.Date); err != nil {
		return "Date must be YYYY-MM-DD"
	}
	return ""
}

// remoteFailure surfaces store errors to the user. Mutation failures are
// always actionable messages, never silent.
func remoteFailure(c *fiber.Ctx, msg string, err error) error {
	var re *eventstore.RemoteError
	if errors.As(err, &re) && re.Status != 0 {
		return c.Status(502).JSON(fiber.Map{
			"success": false,
			"error":   msg,
			"details": re.Error(),
		})
	}
	return c.Status(500).JSON(fiber.Map{
		"success": false,
		"error":   msg,
		"details": err.Error(),
	})
}
