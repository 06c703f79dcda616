package models

// Category defines the closed set of event kinds the calendar knows how to
// present. Raw category strings outside this set are not rejected; they
// normalize to CategoryOther and get the default presentation.
type Category string

const (
	CategoryAssessment Category = "assessment"
	CategoryMeeting    Category = "meeting"
	CategoryDeadline   Category = "deadline"
	CategoryLesson     Category = "lesson"
	CategoryOther      Category = "other"
)

// KnownCategories lists the four real categories, in display order.
// CategoryOther is a presentation fallback, not a selectable kind.
var KnownCategories = []Category{
	CategoryAssessment,
	CategoryMeeting,
	CategoryDeadline,
	CategoryLesson,
}

// ParseCategory maps a raw category string onto the closed set. Anything
// unrecognized becomes CategoryOther.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryAssessment, CategoryMeeting, CategoryDeadline, CategoryLesson:
		return Category(s)
	default:
		return CategoryOther
	}
}

// Label returns the human-friendly name shown in the UI.
func (c Category) Label() string {
	switch c {
	case CategoryAssessment:
		return "Assessment"
	case CategoryMeeting:
		return "Meeting"
	case CategoryDeadline:
		return "Deadline"
	case CategoryLesson:
		return "Lesson"
	default:
		return "Other"
	}
}

// Color returns the default display color for the category.
func (c Category) Color() string {
	switch c {
	case CategoryAssessment:
		return "#e53e3e"
	case CategoryMeeting:
		return "#3182ce"
	case CategoryDeadline:
		return "#dd6b20"
	case CategoryLesson:
		return "#38a169"
	default:
		return "#718096"
	}
}
