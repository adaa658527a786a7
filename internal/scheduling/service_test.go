package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReminderService struct {
	messages []string
	dueAts   []time.Time
	err      error
}

func (f *fakeReminderService) ScheduleReminder(ctx context.Context, message string, dueAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, message)
	f.dueAts = append(f.dueAts, dueAt)
	return nil
}

func newTestService(rem ReminderService) (*Service, *MemoryRepository) {
	repo := NewMemoryRepository()
	repo.AddPet(testPet())
	repo.AddVet(testVet())
	return NewService(repo, nil, rem), repo
}

func bookFor(t *testing.T, svc *Service, repo *MemoryRepository, hhmm string) *Appointment {
	t.Helper()
	ctx := context.Background()
	pet, err := repo.GetPetByID(ctx, 1)
	require.NoError(t, err)
	vet, err := repo.GetVetByID(ctx, 1)
	require.NoError(t, err)

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	appt := NewAppointment(0, day, hhmm, "consultation", pet, vet)
	require.NoError(t, svc.Book(ctx, appt))
	return appt
}

func TestBookConfirmsAndPersists(t *testing.T) {
	svc, repo := newTestService(nil)
	appt := bookFor(t, svc, repo, "10:00")

	assert.Equal(t, StatusConfirmed, appt.Status(), "booking confirms in place")
	assert.NotZero(t, appt.ID)

	stored, err := repo.FindByID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, stored.Status())
}

func TestBookRejectsInvalidAppointment(t *testing.T) {
	svc, repo := newTestService(nil)
	ctx := context.Background()

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	appt := NewAppointment(0, day, "19:00", "consultation", testPet(), testVet())

	err := svc.Book(ctx, appt)
	assert.ErrorIs(t, err, ErrInvalidAppointment)
	assert.Equal(t, StatusScheduled, appt.Status())

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "failed booking must not persist")
}

func TestBookRejectsSpeciesMismatch(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	felineVet := NewVeterinarian(2, "Lopez", "feline medicine", "555-9876")
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	appt := NewAppointment(0, day, "09:00", "consultation", testPet(), felineVet)

	assert.ErrorIs(t, svc.Book(ctx, appt), ErrInvalidAppointment)
}

func TestBookConflictOnSameSlot(t *testing.T) {
	svc, repo := newTestService(nil)
	ctx := context.Background()

	bookFor(t, svc, repo, "10:00")

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	pet, _ := repo.GetPetByID(ctx, 1)
	vet, _ := repo.GetVetByID(ctx, 1)
	second := NewAppointment(0, day, "10:00", "checkup", pet, vet)

	err := svc.Book(ctx, second)
	assert.ErrorIs(t, err, ErrSchedulingConflict)
	assert.Equal(t, StatusScheduled, second.Status())

	all, _ := repo.ListAll(ctx)
	assert.Len(t, all, 1, "conflicting booking must not persist")
}

func TestBookDifferentTimeOrVetDoesNotConflict(t *testing.T) {
	svc, repo := newTestService(nil)
	ctx := context.Background()

	bookFor(t, svc, repo, "10:00")
	bookFor(t, svc, repo, "11:00")

	otherVet := NewVeterinarian(2, "Lopez", SpecialtyGeneral, "555-9876")
	repo.AddVet(otherVet)
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	pet, _ := repo.GetPetByID(ctx, 1)
	appt := NewAppointment(0, day, "10:00", "consultation", pet, otherVet)
	assert.NoError(t, svc.Book(ctx, appt))
}

func TestCancelThenRebookSameSlot(t *testing.T) {
	svc, repo := newTestService(nil)
	ctx := context.Background()

	first := bookFor(t, svc, repo, "10:00")

	cancelled, err := svc.Cancel(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, cancelled)

	// The slot is free again.
	bookFor(t, svc, repo, "10:00")
}

func TestCancelCompletedReturnsFalse(t *testing.T) {
	svc, repo := newTestService(nil)
	ctx := context.Background()

	appt := bookFor(t, svc, repo, "10:00")
	require.True(t, appt.Complete("healthy"))

	cancelled, err := svc.Cancel(ctx, appt.ID)
	require.NoError(t, err)
	assert.False(t, cancelled)
	assert.Equal(t, StatusCompleted, appt.Status(), "state unchanged")
}

func TestCancelUnknownIDReturnsFalse(t *testing.T) {
	svc, _ := newTestService(nil)

	cancelled, err := svc.Cancel(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, cancelled)
}

func TestBookArmsReminderWithVetName(t *testing.T) {
	rem := &fakeReminderService{}
	svc, repo := newTestService(rem)

	appt := bookFor(t, svc, repo, "10:00")

	require.Len(t, rem.messages, 1)
	assert.Contains(t, rem.messages[0], "Dr. Garcia")

	wantDue := appt.Date.AddDate(0, 0, -1)
	assert.True(t, rem.dueAts[0].Equal(wantDue), "reminder due one day before the appointment")
}

func TestBookSurvivesReminderFailure(t *testing.T) {
	rem := &fakeReminderService{err: assert.AnError}
	svc, repo := newTestService(rem)

	appt := bookFor(t, svc, repo, "10:00")

	stored, err := repo.FindByID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, stored.Status(), "booking stands even if arming fails")
}

func TestIsAvailable(t *testing.T) {
	svc, repo := newTestService(nil)
	ctx := context.Background()

	appt := bookFor(t, svc, repo, "10:00")
	day := appt.Date

	available, err := svc.IsAvailable(ctx, 1, day, "10:00")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = svc.IsAvailable(ctx, 1, day, "10:30")
	require.NoError(t, err)
	assert.True(t, available)

	// Cancelled appointments free the slot.
	_, err = svc.Cancel(ctx, appt.ID)
	require.NoError(t, err)
	available, err = svc.IsAvailable(ctx, 1, day, "10:00")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestListAllReturnsSnapshot(t *testing.T) {
	svc, repo := newTestService(nil)
	ctx := context.Background()

	bookFor(t, svc, repo, "10:00")
	bookFor(t, svc, repo, "11:00")

	first, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)

	first[0] = nil // mutating the snapshot must not affect the store

	second, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.NotNil(t, second[0])
}

func TestListByVetAndDate(t *testing.T) {
	svc, repo := newTestService(nil)
	ctx := context.Background()

	bookFor(t, svc, repo, "10:00")
	bookFor(t, svc, repo, "11:00")

	byVet, err := svc.ListByVet(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, byVet, 2)

	byVet, err = svc.ListByVet(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, byVet)

	day := time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC) // same calendar day, different clock
	byDate, err := svc.ListByDate(ctx, day)
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	byDate, err = svc.ListByDate(ctx, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, byDate)
}
