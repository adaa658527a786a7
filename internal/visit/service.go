package visit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vetcare/clinic-backoffice/internal/reminder"
)

var (
	ErrVisitNotFound       = errors.New("visit not found")
	ErrAppointmentNotReady = errors.New("appointment is not confirmed")
	ErrVisitNotInProgress  = errors.New("visit is not in progress")
	ErrInsufficientStock   = errors.New("insufficient stock for medication")
)

// Repository persists visits.
type Repository interface {
	Save(ctx context.Context, v *Visit) error
	FindByID(ctx context.Context, id int64) (*Visit, error)
}

// StockConsumer depletes inventory when a medication is administered. How
// the stock is depleted (FIFO over lots, etc.) is the inventory system's
// concern.
type StockConsumer interface {
	Consume(ctx context.Context, product string, qty int) (bool, error)
}

// Biller charges the pet's owner for a finalized visit.
type Biller interface {
	Charge(ctx context.Context, clientID int64, amountCents int64) error
}

// FollowUpScheduler arms follow-up reminders. *reminder.Scheduler satisfies
// it.
type FollowUpScheduler interface {
	Schedule(ctx context.Context, message string, dueAt time.Time, category reminder.Category) reminder.Reminder
}

type Service struct {
	repo      Repository
	stock     StockConsumer
	biller    Biller            // optional
	reminders FollowUpScheduler // optional
}

func NewService(repo Repository, stock StockConsumer, biller Biller, reminders FollowUpScheduler) *Service {
	return &Service{
		repo:      repo,
		stock:     stock,
		biller:    biller,
		reminders: reminders,
	}
}

// Begin starts a visit against its confirmed appointment and persists it.
func (s *Service) Begin(ctx context.Context, v *Visit) error {
	if !v.Start() {
		return ErrAppointmentNotReady
	}
	if err := s.repo.Save(ctx, v); err != nil {
		return fmt.Errorf("save visit: %w", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Visit, error) {
	return s.repo.FindByID(ctx, id)
}

// AdministerMedication depletes stock for the product and records it on the
// visit with its cost. Nothing is recorded when the stock cannot cover the
// quantity.
func (s *Service) AdministerMedication(ctx context.Context, visitID int64, product string, qty int, unitCostCents int64) error {
	v, err := s.repo.FindByID(ctx, visitID)
	if err != nil {
		return fmt.Errorf("load visit: %w", err)
	}
	if v.State() != StateInProgress {
		return ErrVisitNotInProgress
	}

	if s.stock != nil {
		ok, err := s.stock.Consume(ctx, product, qty)
		if err != nil {
			return fmt.Errorf("consume stock: %w", err)
		}
		if !ok {
			return ErrInsufficientStock
		}
	}

	v.AddMedication(product, unitCostCents*int64(qty))
	if err := s.repo.Save(ctx, v); err != nil {
		return fmt.Errorf("save visit: %w", err)
	}
	return nil
}

// Finalize closes the visit, charges the owner when a biller is configured
// and arms a follow-up reminder a week out when the treatment calls for
// one.
func (s *Service) Finalize(ctx context.Context, visitID int64, notes string) error {
	v, err := s.repo.FindByID(ctx, visitID)
	if err != nil {
		return fmt.Errorf("load visit: %w", err)
	}
	if !v.Finalize(notes) {
		return ErrVisitNotInProgress
	}
	if err := s.repo.Save(ctx, v); err != nil {
		return fmt.Errorf("save visit: %w", err)
	}

	if s.biller != nil && v.TotalCents() > 0 {
		ownerID := v.Appointment.Pet.OwnerID
		if err := s.biller.Charge(ctx, ownerID, v.TotalCents()); err != nil {
			return fmt.Errorf("charge visit %d: %w", v.ID, err)
		}
	}

	if s.reminders != nil && v.RequiresFollowUp() {
		msg := fmt.Sprintf("Follow-up: %s needs a check after %s", v.Appointment.Pet.Name, v.Treatment)
		s.reminders.Schedule(ctx, msg, v.Date.AddDate(0, 0, 7), reminder.CategoryFollowup)
	}

	return nil
}
