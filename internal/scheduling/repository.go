package scheduling

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPetNotFound         = errors.New("pet not found")
	ErrVetNotFound         = errors.New("veterinarian not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all storage interactions needed by the service.
type Repository interface {
	GetPetByID(ctx context.Context, id int64) (*Pet, error)
	GetVetByID(ctx context.Context, id int64) (*Veterinarian, error)

	// Save persists the appointment, assigning an ID on first save.
	// Subsequent saves update status and notes only; identity is immutable.
	Save(ctx context.Context, appt *Appointment) error
	FindByID(ctx context.Context, id int64) (*Appointment, error)
	ListAll(ctx context.Context) ([]*Appointment, error)
	FindByVet(ctx context.Context, vetID int64) ([]*Appointment, error)

	// FindByDate matches by calendar day, not instant.
	FindByDate(ctx context.Context, day time.Time) ([]*Appointment, error)
}
