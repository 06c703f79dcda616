package calendar

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"school-calendar/app/agenda"
	"school-calendar/app/models"
)

var (
	session   *Session
	weekStart time.Weekday
)

// SetupCalendarRoutes sets up the calendar page and API routes.
func SetupCalendarRoutes(app *fiber.App, s *Session, firstWeekday time.Weekday) {
	session = s
	weekStart = firstWeekday

	// Page routes
	app.Get("/calendar", renderCalendarPage)
	app.Get("/calendar/export.ics", ExportICS)

	// API routes
	api := app.Group("/api/calendar")
	api.Get("/events", GetEventsAPI)
	api.Post("/events", CreateEventAPI)
	api.Put("/events/:id", UpdateEventAPI)
	api.Delete("/events/:id", DeleteEventAPI)
	api.Delete("/events", ResetEventsAPI)
}

// viewState is everything the calendar page derives from query params.
type viewState struct {
	View       string
	Ref        time.Time
	Active     []models.Category
	Query      string
	CatChecked map[models.Category]bool
}

func renderCalendarPage(c *fiber.Ctx) error {
	ctx := c.Context()
	session.Refresh(ctx)
	events := session.Events()

	now := time.Now()
	state := parseViewState(c, now)

	filtered := agenda.FilterEvents(events, state.Active, state.Query)
	byDate := agenda.GroupByDate(filtered)

	cells := agenda.MonthGrid(state.Ref, now, weekStart, byDate)
	buckets := agenda.ListWindow(now, byDate)

	prev := state.Ref.AddDate(0, -1, 0)
	next := state.Ref.AddDate(0, 1, 0)

	return c.Render("calendar/index", fiber.Map{
		"Title":       "Calendar",
		"CurrentPage": "calendar",
		"View":        state.View,
		"MonthLabel":  state.Ref.Format("January 2006"),
		"MonthParam":  state.Ref.Format("2006-01"),
		"PrevMonth":   prev.Format("2006-01"),
		"NextMonth":   next.Format("2006-01"),
		"Cells":       cells,
		"Buckets":     buckets,
		"Categories":  models.KnownCategories,
		"CatChecked":  state.CatChecked,
		"Query":       state.Query,
		"HasEvents":   len(filtered) > 0,
	})
}

// parseViewState reads view mode, reference month, category filter and
// search query. The month param only moves the grid; the list window is
// always anchored on the real current date.
func parseViewState(c *fiber.Ctx, now time.Time) viewState {
	state := viewState{
		View:  c.Query("view", "month"),
		Query: c.Query("q"),
	}
	if state.View != "list" {
		state.View = "month"
	}

	// The grid only cares about year and month; anchor on the first so
	// month navigation cannot skip short months.
	state.Ref = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if m := c.Query("month"); m != "" {
		if ref, err := time.ParseInLocation("2006-01", m, now.Location()); err == nil {
			state.Ref = ref
		}
	}

	// No cats param at all means the default view: every category shown.
	// Explicit cats params form an inclusion list, and an explicitly empty
	// list shows nothing. Both repeated params and comma-joined values work.
	if !c.Context().QueryArgs().Has("cats") {
		state.Active = append(state.Active, models.KnownCategories...)
	} else {
		for _, val := range c.Context().QueryArgs().PeekMulti("cats") {
			for _, raw := range strings.Split(string(val), ",") {
				raw = strings.TrimSpace(raw)
				if raw == "" {
					continue
				}
				state.Active = append(state.Active, models.ParseCategory(raw))
			}
		}
	}

	state.CatChecked = make(map[models.Category]bool, len(state.Active))
	for _, cat := range state.Active {
		state.CatChecked[cat] = true
	}
	return state
}
