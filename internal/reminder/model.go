package reminder

import (
	"strings"
	"time"
)

// Category is the fixed vocabulary of reminder kinds. The dispatch channel
// is derived from it, see ChannelFor.
type Category string

const (
	CategoryAppointment Category = "appointment"
	CategoryVaccination Category = "vaccination"
	CategoryFollowup    Category = "followup"
	CategoryGeneral     Category = "general"
)

// ParseCategory matches a category name case-insensitively. The second
// return reports whether the name is part of the known vocabulary.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryAppointment:
		return CategoryAppointment, true
	case CategoryVaccination:
		return CategoryVaccination, true
	case CategoryFollowup:
		return CategoryFollowup, true
	case CategoryGeneral:
		return CategoryGeneral, true
	default:
		return CategoryGeneral, false
	}
}

// Reminder is a message armed to fire at a future instant. Sent only ever
// moves false -> true; a fired reminder is never reset.
type Reminder struct {
	ID       int64
	Message  string
	DueAt    time.Time
	Category Category
	Sent     bool

	// Optional references, 0 when the reminder is not tied to a record.
	PetID    int64
	ClientID int64
}

// Stats summarizes the scheduler's reminder set.
type Stats struct {
	Total      int
	Sent       int
	Pending    int
	ByCategory map[Category]int
}
