package visit

import (
	"strings"
	"time"

	"github.com/vetcare/clinic-backoffice/internal/scheduling"
)

type State string

const (
	StateCreated    State = "created"
	StateInProgress State = "in_progress"
	StateFinalized  State = "finalized"
)

type Medication struct {
	Name      string
	CostCents int64
}

// Visit records the medical attention given during a confirmed appointment.
type Visit struct {
	ID          int64
	Date        time.Time
	Diagnosis   string
	Treatment   string
	Appointment *scheduling.Appointment

	state       State
	medications []Medication
	notes       string
	totalCents  int64
}

func NewVisit(id int64, date time.Time, diagnosis, treatment string, appt *scheduling.Appointment) *Visit {
	return &Visit{
		ID:          id,
		Date:        date,
		Diagnosis:   diagnosis,
		Treatment:   treatment,
		Appointment: appt,
		state:       StateCreated,
	}
}

func (v *Visit) State() State {
	return v.state
}

func (v *Visit) Notes() string {
	return v.notes
}

func (v *Visit) TotalCents() int64 {
	return v.totalCents
}

func (v *Visit) Medications() []Medication {
	out := make([]Medication, len(v.medications))
	copy(out, v.medications)
	return out
}

// Start begins the visit. It only works against a confirmed appointment,
// which it closes out in the same step.
func (v *Visit) Start() bool {
	if v.state != StateCreated || v.Appointment == nil {
		return false
	}
	if !v.Appointment.Complete("visit started") {
		return false
	}
	v.state = StateInProgress
	return true
}

func (v *Visit) AddMedication(name string, costCents int64) {
	v.medications = append(v.medications, Medication{Name: name, CostCents: costCents})
	v.totalCents += costCents
}

// Finalize closes an in-progress visit, storing the closing notes.
func (v *Visit) Finalize(notes string) bool {
	if v.state != StateInProgress {
		return false
	}
	v.state = StateFinalized
	v.notes = notes
	return true
}

// Duration estimates how long the visit took: the appointment's estimated
// length plus five minutes per administered medication. Zero until the
// visit is finalized.
func (v *Visit) Duration() time.Duration {
	if v.state != StateFinalized {
		return 0
	}
	return v.Appointment.EstimatedDuration() + time.Duration(len(v.medications))*5*time.Minute
}

// RequiresFollowUp reports whether the treatment calls for a follow-up
// visit.
func (v *Visit) RequiresFollowUp() bool {
	followUpTreatments := []string{"surgery", "prolonged treatment", "chronic condition"}
	treatment := strings.ToLower(v.Treatment)
	for _, t := range followUpTreatments {
		if strings.Contains(treatment, t) {
			return true
		}
	}
	return false
}
