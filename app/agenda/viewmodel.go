package agenda

import (
	"time"

	"school-calendar/app/models"
)

// DateLayout is the wire and grouping format for event dates.
const DateLayout = "2006-01-02"

// maxCellEvents is how many events a month-grid cell shows before
// collapsing the rest into an overflow count.
const maxCellEvents = 2

// List view window: 3 days back through 14 days ahead of today, inclusive.
const (
	listDaysBefore = 3
	listDaysAfter  = 14
)

// DayCell is one cell of the month grid. Leading cells borrowed from the
// previous month have InMonth false but still resolve their event bucket.
type DayCell struct {
	Date     string
	Day      int
	Weekday  time.Weekday
	InMonth  bool
	Today    bool
	Events   []models.CalendarEvent
	Overflow int
}

// DayBucket is one dated group of events in the list view.
type DayBucket struct {
	Date   string
	Today  bool
	Events []models.CalendarEvent
}

// MonthGrid builds the ordered day cells for the month containing ref.
//
// The grid starts on weekStart: as many trailing days of the previous month
// are prepended as it takes to align the first of the month, so the result
// has at least days-in-month and at most days-in-month+6 cells. The tail is
// not padded with next-month days.
//
// today is evaluated by the caller at construction time so an open view
// does not shift when midnight passes.
func MonthGrid(ref, today time.Time, weekStart time.Weekday, byDate map[string][]models.CalendarEvent) []DayCell {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()
	lead := int(first.Weekday()-weekStart+7) % 7

	todayKey := today.Format(DateLayout)

	cells := make([]DayCell, 0, lead+daysInMonth)
	for d := first.AddDate(0, 0, -lead); len(cells) < lead+daysInMonth; d = d.AddDate(0, 0, 1) {
		key := d.Format(DateLayout)
		events := byDate[key]

		cell := DayCell{
			Date:    key,
			Day:     d.Day(),
			Weekday: d.Weekday(),
			InMonth: d.Month() == first.Month(),
			Today:   key == todayKey,
		}
		if len(events) > maxCellEvents {
			cell.Events = events[:maxCellEvents]
			cell.Overflow = len(events) - maxCellEvents
		} else {
			cell.Events = events
		}
		cells = append(cells, cell)
	}
	return cells
}

// ListWindow builds the rolling list view: every date from today-3 through
// today+14 that has at least one event, ascending. Empty dates are omitted
// entirely, unlike the month grid where every cell renders.
func ListWindow(today time.Time, byDate map[string][]models.CalendarEvent) []DayBucket {
	todayKey := today.Format(DateLayout)

	var buckets []DayBucket
	for off := -listDaysBefore; off <= listDaysAfter; off++ {
		key := today.AddDate(0, 0, off).Format(DateLayout)
		events := byDate[key]
		if len(events) == 0 {
			continue
		}
		buckets = append(buckets, DayBucket{
			Date:   key,
			Today:  key == todayKey,
			Events: events,
		})
	}
	return buckets
}
