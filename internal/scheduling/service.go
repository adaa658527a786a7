package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	redisclient "github.com/vetcare/clinic-backoffice/internal/redis"
)

var (
	ErrInvalidAppointment  = errors.New("appointment is not valid")
	ErrSchedulingConflict  = errors.New("slot already has a non-cancelled appointment")
	ErrScheduleBeingBooked = errors.New("schedule is currently being booked, please retry")
)

// ReminderService is the capability used to arm a reminder after a
// successful booking. It may be absent; booking works without it.
type ReminderService interface {
	ScheduleReminder(ctx context.Context, message string, dueAt time.Time) error
}

type Service struct {
	repo      Repository
	locker    redisclient.Locker
	reminders ReminderService // optional
}

// NewService wires the scheduling service. Pass nil reminders to book
// without arming reminders.
func NewService(repo Repository, locker redisclient.Locker, reminders ReminderService) *Service {
	if locker == nil {
		locker = redisclient.NoopLocker{}
	}
	return &Service{
		repo:      repo,
		locker:    locker,
		reminders: reminders,
	}
}

// Book validates the appointment, checks the (vet, date, time) slot for
// conflicts and persists it as confirmed. The conflict check and insert run
// under a per-(vet, day) lock so two concurrent bookers cannot both pass
// the check. The appointment is mutated in place; on any error nothing is
// persisted and no reminder is armed.
func (s *Service) Book(ctx context.Context, appt *Appointment) error {
	if !appt.Valid() {
		return ErrInvalidAppointment
	}

	err := s.locker.WithScheduleLock(ctx, appt.Vet.ID, appt.Date, func(lockCtx context.Context) error {
		conflict, err := s.hasConflict(lockCtx, appt)
		if err != nil {
			return fmt.Errorf("check conflicts: %w", err)
		}
		if conflict {
			return ErrSchedulingConflict
		}

		if err := s.repo.Save(lockCtx, appt); err != nil {
			return fmt.Errorf("save appointment: %w", err)
		}
		appt.Confirm()
		if err := s.repo.Save(lockCtx, appt); err != nil {
			return fmt.Errorf("save confirmed appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return ErrScheduleBeingBooked
		}
		return err
	}

	// Reminder arming is best-effort: the booking stands even if it fails.
	if s.reminders != nil {
		msg := fmt.Sprintf("Reminder: appointment tomorrow with Dr. %s", appt.Vet.Name)
		dueAt := appt.Date.AddDate(0, 0, -1)
		if err := s.reminders.ScheduleReminder(ctx, msg, dueAt); err != nil {
			log.Printf("failed to arm reminder for appointment %d: %v", appt.ID, err)
		}
	}

	return nil
}

// ListAll returns a snapshot of all booked appointments, never the live
// backing list.
func (s *Service) ListAll(ctx context.Context) ([]*Appointment, error) {
	appts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	out := make([]*Appointment, len(appts))
	copy(out, appts)
	return out, nil
}

// Cancel looks up an appointment and cancels it. It reports false for an
// unknown id or an appointment that has already been completed.
func (s *Service) Cancel(ctx context.Context, id int64) (bool, error) {
	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load appointment: %w", err)
	}
	if !appt.Cancel() {
		return false, nil
	}
	if err := s.repo.Save(ctx, appt); err != nil {
		return false, fmt.Errorf("save cancelled appointment: %w", err)
	}
	return true, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetPet(ctx context.Context, id int64) (*Pet, error) {
	return s.repo.GetPetByID(ctx, id)
}

func (s *Service) GetVet(ctx context.Context, id int64) (*Veterinarian, error) {
	return s.repo.GetVetByID(ctx, id)
}

func (s *Service) ListByVet(ctx context.Context, vetID int64) ([]*Appointment, error) {
	return s.repo.FindByVet(ctx, vetID)
}

func (s *Service) ListByDate(ctx context.Context, day time.Time) ([]*Appointment, error) {
	return s.repo.FindByDate(ctx, day)
}

// IsAvailable reports whether no non-cancelled appointment occupies the
// exact (vet, date, time) slot.
func (s *Service) IsAvailable(ctx context.Context, vetID int64, day time.Time, hhmm string) (bool, error) {
	sameDay, err := s.repo.FindByDate(ctx, day)
	if err != nil {
		return false, fmt.Errorf("list same-day appointments: %w", err)
	}
	for _, a := range sameDay {
		if a.Vet != nil && a.Vet.ID == vetID && a.Time == hhmm && a.Status() != StatusCancelled {
			return false, nil
		}
	}
	return true, nil
}

// hasConflict scans the candidate's day for a non-cancelled appointment on
// the same vet at the same time string.
func (s *Service) hasConflict(ctx context.Context, candidate *Appointment) (bool, error) {
	sameDay, err := s.repo.FindByDate(ctx, candidate.Date)
	if err != nil {
		return false, err
	}
	for _, a := range sameDay {
		if a.Vet != nil && a.Vet.ID == candidate.Vet.ID &&
			a.Time == candidate.Time &&
			a.Status() != StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}
