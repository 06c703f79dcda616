// Package agenda turns the flat event list into the filtered, date-grouped
// structures the month and list views render. Everything here is a pure
// function over the session's event slice; nothing mutates its input.
package agenda

import (
	"strings"

	"school-calendar/app/models"
)

// FilterEvents applies the active category filter and the free-text search
// to the full event list, preserving order.
//
// The category filter is an explicit inclusion list: an empty active set
// means no category is selected, so nothing is shown. This is deliberate,
// not a missing "empty means all" shortcut.
//
// The search is a case-insensitive substring test against title, class
// label, description and location; an event stays if any field matches.
func FilterEvents(events []models.CalendarEvent, active []models.Category, query string) []models.CalendarEvent {
	filtered := make([]models.CalendarEvent, 0, len(events))

	activeSet := make(map[models.Category]bool, len(active))
	for _, c := range active {
		activeSet[c] = true
	}

	q := strings.ToLower(strings.TrimSpace(query))

	for _, e := range events {
		if !activeSet[e.Kind()] {
			continue
		}
		if q != "" && !matchesQuery(e, q) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func matchesQuery(e models.CalendarEvent, q string) bool {
	for _, field := range []string{e.Title, e.ClassLabel, e.Description, e.Location} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// GroupByDate buckets events by their exact date string, keeping the
// relative order of the input within each bucket. Dates with no events get
// no bucket.
func GroupByDate(events []models.CalendarEvent) map[string][]models.CalendarEvent {
	byDate := make(map[string][]models.CalendarEvent)
	for _, e := range events {
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	return byDate
}
