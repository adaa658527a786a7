package api

import "time"

type BookAppointmentRequest struct {
	VetID  int64  `json:"vet_id"`
	PetID  int64  `json:"pet_id"`
	Date   string `json:"date"` // "2006-01-02"
	Time   string `json:"time"` // "HH:MM"
	Reason string `json:"reason"`
}

type AppointmentResponse struct {
	ID              int64  `json:"id"`
	VetID           int64  `json:"vet_id"`
	PetID           int64  `json:"pet_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Reason          string `json:"reason"`
	Status          string `json:"status"`
	DurationMinutes int    `json:"duration_minutes"`
}

type CancelResponse struct {
	Cancelled bool `json:"cancelled"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

type ScheduleReminderRequest struct {
	Message  string    `json:"message"`
	DueAt    time.Time `json:"due_at"`
	Category string    `json:"category"`
}

type ReminderResponse struct {
	ID       int64     `json:"id"`
	Message  string    `json:"message"`
	DueAt    time.Time `json:"due_at"`
	Category string    `json:"category"`
	Channel  string    `json:"channel"`
	Sent     bool      `json:"sent"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
