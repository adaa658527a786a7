package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vetcare/clinic-backoffice/internal/reminder"
	redisclient "github.com/vetcare/clinic-backoffice/internal/redis"
	"github.com/vetcare/clinic-backoffice/internal/scheduling"
)

const dateLayout = "2006-01-02"

func bookAppointmentHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		day, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		pet, err := svc.GetPet(r.Context(), req.PetID)
		if err != nil {
			handleBookError(w, err)
			return
		}
		vet, err := svc.GetVet(r.Context(), req.VetID)
		if err != nil {
			handleBookError(w, err)
			return
		}

		appt := scheduling.NewAppointment(0, day, req.Time, req.Reason, pet, vet)
		if err := svc.Book(r.Context(), appt); err != nil {
			handleBookError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func listAppointmentsHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var (
			appts []*scheduling.Appointment
			err   error
		)
		switch {
		case r.URL.Query().Get("vet_id") != "":
			vetID, parseErr := strconv.ParseInt(r.URL.Query().Get("vet_id"), 10, 64)
			if parseErr != nil {
				writeError(w, http.StatusBadRequest, "invalid_vet_id", "vet_id must be an integer")
				return
			}
			appts, err = svc.ListByVet(ctx, vetID)
		case r.URL.Query().Get("date") != "":
			day, parseErr := time.Parse(dateLayout, r.URL.Query().Get("date"))
			if parseErr != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
				return
			}
			appts, err = svc.ListByDate(ctx, day)
		default:
			appts, err = svc.ListAll(ctx)
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]AppointmentResponse, 0, len(appts))
		for _, a := range appts {
			out = append(out, toAppointmentResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getAppointmentHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be an integer")
			return
		}

		appt, err := svc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, scheduling.ErrAppointmentNotFound) {
				writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func cancelAppointmentHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be an integer")
			return
		}

		cancelled, err := svc.Cancel(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, CancelResponse{Cancelled: cancelled})
	}
}

func availabilityHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vetID, err := strconv.ParseInt(r.URL.Query().Get("vet_id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_vet_id", "vet_id must be an integer")
			return
		}
		day, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		hhmm := r.URL.Query().Get("time")
		if hhmm == "" {
			writeError(w, http.StatusBadRequest, "invalid_time", "time is required")
			return
		}

		available, err := svc.IsAvailable(r.Context(), vetID, day, hhmm)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, AvailabilityResponse{Available: available})
	}
}

func scheduleReminderHandler(sched *reminder.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScheduleReminderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Message == "" {
			writeError(w, http.StatusBadRequest, "invalid_message", "message is required")
			return
		}
		if req.DueAt.IsZero() {
			writeError(w, http.StatusBadRequest, "invalid_due_at", "due_at is required")
			return
		}

		cat, _ := reminder.ParseCategory(req.Category)
		rem := sched.Schedule(r.Context(), req.Message, req.DueAt, cat)

		writeJSON(w, http.StatusCreated, toReminderResponse(rem))
	}
}

func listRemindersHandler(sched *reminder.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pending []reminder.Reminder
		if raw := r.URL.Query().Get("category"); raw != "" {
			cat, ok := reminder.ParseCategory(raw)
			if !ok {
				writeError(w, http.StatusBadRequest, "invalid_category", "unknown reminder category")
				return
			}
			pending = sched.PendingByCategory(cat)
		} else {
			pending = sched.Pending()
		}

		out := make([]ReminderResponse, 0, len(pending))
		for _, rem := range pending {
			out = append(out, toReminderResponse(rem))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func reminderStatsHandler(sched *reminder.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sched.Stats())
	}
}

func cancelReminderHandler(sched *reminder.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_reminder_id", "id must be an integer")
			return
		}

		if !sched.Cancel(id) {
			writeError(w, http.StatusNotFound, "reminder_not_cancellable", "reminder is unknown or already fired")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleBookError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scheduling.ErrPetNotFound):
		writeError(w, http.StatusNotFound, "pet_not_found", err.Error())
	case errors.Is(err, scheduling.ErrVetNotFound):
		writeError(w, http.StatusNotFound, "vet_not_found", err.Error())
	case errors.Is(err, scheduling.ErrInvalidAppointment):
		writeError(w, http.StatusUnprocessableEntity, "invalid_appointment", err.Error())
	case errors.Is(err, scheduling.ErrSchedulingConflict):
		writeError(w, http.StatusConflict, "scheduling_conflict", err.Error())
	case errors.Is(err, scheduling.ErrScheduleBeingBooked),
		errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "schedule_being_booked", "schedule is currently being booked, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func toAppointmentResponse(a *scheduling.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		VetID:           a.Vet.ID,
		PetID:           a.Pet.ID,
		Date:            a.Date.Format(dateLayout),
		Time:            a.Time,
		Reason:          string(a.Reason),
		Status:          string(a.Status()),
		DurationMinutes: int(a.EstimatedDuration().Minutes()),
	}
}

func toReminderResponse(r reminder.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:       r.ID,
		Message:  r.Message,
		DueAt:    r.DueAt,
		Category: string(r.Category),
		Channel:  string(reminder.ChannelFor(r.Category)),
		Sent:     r.Sent,
	}
}
