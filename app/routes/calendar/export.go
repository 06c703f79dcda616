package calendar

import (
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/gofiber/fiber/v2"

	"school-calendar/app/agenda"
)

// ExportICS serves the current event list as an iCalendar feed so events
// can be subscribed to from external calendar apps.
func ExportICS(c *fiber.Ctx) error {
	session.Refresh(c.Context())
	events := session.Events()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//school-calendar//EN")

	now := time.Now()
	for _, e := range events {
		day, err := time.Parse(agenda.DateLayout, e.Date)
		if err != nil {
			continue
		}

		ev := cal.AddEvent(e.ID)
		ev.SetDtStampTime(now)
		ev.SetSummary(e.Title)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}

		start, end, timed := eventTimes(day, e.StartTime, e.EndTime, e.AllDay)
		if timed {
			ev.SetStartAt(start)
			ev.SetEndAt(end)
		} else {
			ev.SetAllDayStartAt(day)
			ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		}
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="calendar.ics"`)
	return c.SendString(cal.Serialize())
}

// eventTimes resolves the concrete start/end for an event. All-day events
// ignore any stored times; timed events without an end get one hour.
func eventTimes(day time.Time, startTime, endTime string, allDay bool) (start, end time.Time, timed bool) {
	if allDay || startTime == "" {
		return time.Time{}, time.Time{}, false
	}

	st, err := time.Parse("15:04", startTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	start = day.Add(time.Duration(st.Hour())*time.Hour + time.Duration(st.Minute())*time.Minute)

	end = start.Add(time.Hour)
	if et, err := time.Parse("15:04", endTime); err == nil {
		candidate := day.Add(time.Duration(et.Hour())*time.Hour + time.Duration(et.Minute())*time.Minute)
		if candidate.After(start) {
			end = candidate
		}
	}
	return start, end, true
}
