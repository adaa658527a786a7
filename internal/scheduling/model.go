package scheduling

import (
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Reason is the fixed vocabulary of appointment motives. Unknown free-text
// motives fall back to ReasonConsultation when parsed.
type Reason string

const (
	ReasonConsultation Reason = "consultation"
	ReasonVaccination  Reason = "vaccination"
	ReasonSurgery      Reason = "surgery"
	ReasonCheckup      Reason = "checkup"
)

// ParseReason matches a free-text motive case-insensitively against the
// known vocabulary. The second return reports whether the motive matched.
func ParseReason(s string) (Reason, bool) {
	switch Reason(strings.ToLower(strings.TrimSpace(s))) {
	case ReasonConsultation:
		return ReasonConsultation, true
	case ReasonVaccination:
		return ReasonVaccination, true
	case ReasonSurgery:
		return ReasonSurgery, true
	case ReasonCheckup:
		return ReasonCheckup, true
	default:
		return ReasonConsultation, false
	}
}

// Duration returns the estimated appointment length for the motive.
func (r Reason) Duration() time.Duration {
	switch r {
	case ReasonVaccination:
		return 15 * time.Minute
	case ReasonSurgery:
		return 120 * time.Minute
	case ReasonCheckup:
		return 20 * time.Minute
	case ReasonConsultation:
		return 30 * time.Minute
	default:
		return 30 * time.Minute
	}
}

type Pet struct {
	ID      int64
	Name    string
	Species string
	Breed   string
	Age     int
	OwnerID int64
}

func (p *Pet) Valid() bool {
	return p != nil && len(p.Name) > 0 && p.Age >= 0
}

func (p *Pet) Adult() bool {
	return p.Age >= 1
}

// Veterinarian owns its own availability: a global on/off flag, a specialty
// that bounds which species it can treat, and daily working hours expressed
// as inclusive "HH:MM" bounds.
type Veterinarian struct {
	ID         int64
	Name       string
	Specialty  string
	Phone      string
	Available  bool
	HoursStart string
	HoursEnd   string
}

const (
	defaultHoursStart = "08:00"
	defaultHoursEnd   = "18:00"

	// SpecialtyGeneral treats every species.
	SpecialtyGeneral = "general medicine"
)

func NewVeterinarian(id int64, name, specialty, phone string) *Veterinarian {
	return &Veterinarian{
		ID:         id,
		Name:       name,
		Specialty:  specialty,
		Phone:      phone,
		Available:  true,
		HoursStart: defaultHoursStart,
		HoursEnd:   defaultHoursEnd,
	}
}

// CanTreat reports whether the vet can see a patient of the given species.
// General practitioners treat everything; specialists only species their
// specialty names.
func (v *Veterinarian) CanTreat(species string) bool {
	if strings.EqualFold(v.Specialty, SpecialtyGeneral) {
		return true
	}
	return strings.Contains(strings.ToLower(v.Specialty), strings.ToLower(species))
}

// WithinHours reports whether an "HH:MM" time falls inside working hours.
// Zero-padded 24h strings order lexically, so plain string comparison is
// enough. Bounds are inclusive.
func (v *Veterinarian) WithinHours(hhmm string) bool {
	return hhmm >= v.HoursStart && hhmm <= v.HoursEnd
}

// Appointment is the scheduling aggregate. Its status only ever moves
// forward: scheduled -> confirmed -> completed, with cancelled reachable
// from anywhere but completed.
type Appointment struct {
	ID     int64
	Date   time.Time // calendar day
	Time   string    // "HH:MM"
	Reason Reason
	Pet    *Pet
	Vet    *Veterinarian

	status Status
	notes  string
}

// NewAppointment builds a scheduled appointment. Free-text motives that do
// not match the known vocabulary fall back to consultation.
func NewAppointment(id int64, date time.Time, hhmm, motive string, pet *Pet, vet *Veterinarian) *Appointment {
	reason, _ := ParseReason(motive)
	return &Appointment{
		ID:     id,
		Date:   date,
		Time:   hhmm,
		Reason: reason,
		Pet:    pet,
		Vet:    vet,
		status: StatusScheduled,
	}
}

func (a *Appointment) Status() Status {
	return a.status
}

func (a *Appointment) Notes() string {
	return a.notes
}

// Confirm moves a scheduled appointment to confirmed. It reports false once
// the appointment has left the scheduled state.
func (a *Appointment) Confirm() bool {
	if a.status != StatusScheduled {
		return false
	}
	a.status = StatusConfirmed
	return true
}

// Complete closes out a confirmed appointment, storing the visit notes.
func (a *Appointment) Complete(notes string) bool {
	if a.status != StatusConfirmed {
		return false
	}
	a.status = StatusCompleted
	a.notes = notes
	return true
}

// Cancel works from any state except completed.
func (a *Appointment) Cancel() bool {
	if a.status == StatusCompleted {
		return false
	}
	a.status = StatusCancelled
	return true
}

// Valid reports whether the appointment could actually take place: the pet
// checks out, the vet is available, can treat the species, and the requested
// time sits inside the vet's working hours.
func (a *Appointment) Valid() bool {
	if a.Pet == nil || a.Vet == nil {
		return false
	}
	return a.Pet.Valid() &&
		a.Vet.Available &&
		a.Vet.CanTreat(a.Pet.Species) &&
		a.Vet.WithinHours(a.Time)
}

func (a *Appointment) EstimatedDuration() time.Duration {
	return a.Reason.Duration()
}

// SameDay compares two instants by calendar day, ignoring time of day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
