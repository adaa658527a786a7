package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPet() *Pet {
	return &Pet{ID: 1, Name: "Rex", Species: "canine", Breed: "Labrador", Age: 3, OwnerID: 101}
}

func testVet() *Veterinarian {
	return NewVeterinarian(1, "Garcia", SpecialtyGeneral, "555-1234")
}

func testAppointment(hhmm, motive string) *Appointment {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return NewAppointment(1, day, hhmm, motive, testPet(), testVet())
}

func TestAppointmentLifecycle(t *testing.T) {
	a := testAppointment("10:00", "consultation")
	require.Equal(t, StatusScheduled, a.Status())

	assert.True(t, a.Confirm())
	assert.Equal(t, StatusConfirmed, a.Status())
	assert.False(t, a.Confirm(), "confirm is not repeatable")

	assert.True(t, a.Complete("all good"))
	assert.Equal(t, StatusCompleted, a.Status())
	assert.Equal(t, "all good", a.Notes())
}

func TestCompleteRequiresConfirmed(t *testing.T) {
	a := testAppointment("10:00", "consultation")
	assert.False(t, a.Complete("notes"))
	assert.Equal(t, StatusScheduled, a.Status())
}

func TestCancelFromAnyStateExceptCompleted(t *testing.T) {
	a := testAppointment("10:00", "consultation")
	assert.True(t, a.Cancel())
	assert.Equal(t, StatusCancelled, a.Status())

	b := testAppointment("10:00", "consultation")
	b.Confirm()
	assert.True(t, b.Cancel())

	c := testAppointment("10:00", "consultation")
	c.Confirm()
	c.Complete("done")
	assert.False(t, c.Cancel(), "completed appointments cannot be cancelled")
	assert.Equal(t, StatusCompleted, c.Status())
}

func TestValidityWorkingHours(t *testing.T) {
	assert.True(t, testAppointment("08:00", "consultation").Valid(), "inclusive lower bound")
	assert.True(t, testAppointment("18:00", "consultation").Valid(), "inclusive upper bound")
	assert.False(t, testAppointment("19:00", "consultation").Valid())
	assert.False(t, testAppointment("07:59", "consultation").Valid())
}

func TestValiditySpeciesCapability(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	felineVet := NewVeterinarian(2, "Lopez", "feline medicine", "555-9876")

	dog := testPet()
	a := NewAppointment(1, day, "09:00", "consultation", dog, felineVet)
	assert.False(t, a.Valid(), "feline specialist cannot treat a canine")

	cat := &Pet{ID: 2, Name: "Misu", Species: "feline", Age: 2, OwnerID: 102}
	b := NewAppointment(2, day, "09:00", "consultation", cat, felineVet)
	assert.True(t, b.Valid())
}

func TestValidityVetAvailabilityAndPet(t *testing.T) {
	a := testAppointment("10:00", "consultation")
	a.Vet.Available = false
	assert.False(t, a.Valid())

	b := testAppointment("10:00", "consultation")
	b.Pet.Name = ""
	assert.False(t, b.Valid(), "invalid pet invalidates the appointment")

	c := testAppointment("10:00", "consultation")
	c.Pet.Age = -1
	assert.False(t, c.Valid())
}

func TestEstimatedDuration(t *testing.T) {
	tests := []struct {
		motive string
		want   time.Duration
	}{
		{"consultation", 30 * time.Minute},
		{"Vaccination", 15 * time.Minute},
		{"SURGERY", 120 * time.Minute},
		{"checkup", 20 * time.Minute},
		{"something else", 30 * time.Minute},
	}

	for _, tt := range tests {
		a := testAppointment("10:00", tt.motive)
		assert.Equal(t, tt.want, a.EstimatedDuration(), "motive %q", tt.motive)
	}
}

func TestParseReason(t *testing.T) {
	r, ok := ParseReason(" Surgery ")
	assert.True(t, ok)
	assert.Equal(t, ReasonSurgery, r)

	r, ok = ParseReason("grooming")
	assert.False(t, ok)
	assert.Equal(t, ReasonConsultation, r)
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 5, 1, 22, 30, 0, 0, time.UTC)
	next := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(evening, next))
}
