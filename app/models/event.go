package models

// CalendarEvent represents a single entry on the school calendar.
// Date is a plain YYYY-MM-DD string; events carry no timezone and the
// calendar groups them by exact date equality.
type CalendarEvent struct {
	ID          string `json:"id"`
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

// Kind resolves the event's raw category string to the closed category set.
func (e CalendarEvent) Kind() Category {
	return ParseCategory(e.Category)
}

// DisplayColor returns the color override if set, otherwise the category color.
func (e CalendarEvent) DisplayColor() string {
	if e.Color != "" {
		return e.Color
	}
	return e.Kind().Color()
}

// EventDraft is a CalendarEvent before the store has assigned an identifier.
type EventDraft struct {
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

// EventPatch is a partial update: one optional slot per mutable field.
// A nil slot leaves the field untouched. The identifier is never patchable.
type EventPatch struct {
	Title       *string `json:"title,omitempty"`
	Date        *string `json:"date,omitempty"`
	Category    *string `json:"category,omitempty"`
	ClassLabel  *string `json:"class_label,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	AllDay      *bool   `json:"all_day,omitempty"`
	Reminder    *bool   `json:"reminder,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// Apply copies every set slot of the patch onto the event.
func (p EventPatch) Apply(e *CalendarEvent) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.ClassLabel != nil {
		e.ClassLabel = *p.ClassLabel
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.StartTime != nil {
		e.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		e.EndTime = *p.EndTime
	}
	if p.AllDay != nil {
		e.AllDay = *p.AllDay
	}
	if p.Reminder != nil {
		e.Reminder = *p.Reminder
	}
	if p.Color != nil {
		e.Color = *p.Color
	}
}
