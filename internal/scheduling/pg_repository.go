package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanPet(row pgx.Row) (*Pet, error) {
	var p Pet

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Species,
		&p.Breed,
		&p.Age,
		&p.OwnerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPetNotFound
		}
		return nil, err
	}

	return &p, nil
}

func scanVet(row pgx.Row) (*Veterinarian, error) {
	var v Veterinarian

	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Specialty,
		&v.Phone,
		&v.Available,
		&v.HoursStart,
		&v.HoursEnd,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVetNotFound
		}
		return nil, err
	}

	return &v, nil
}

const appointmentColumns = `
	a.id, a.scheduled_on, a.scheduled_at, a.reason, a.status, a.notes,
	p.id, p.name, p.species, p.breed, p.age, p.owner_id,
	v.id, v.name, v.specialty, v.phone, v.available, v.hours_start, v.hours_end
`

const appointmentJoins = `
	FROM appointments a
	JOIN pets p ON p.id = a.pet_id
	JOIN vets v ON v.id = a.vet_id
`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var (
		a      Appointment
		p      Pet
		v      Veterinarian
		reason string
		status string
	)

	err := row.Scan(
		&a.ID, &a.Date, &a.Time, &reason, &status, &a.notes,
		&p.ID, &p.Name, &p.Species, &p.Breed, &p.Age, &p.OwnerID,
		&v.ID, &v.Name, &v.Specialty, &v.Phone, &v.Available, &v.HoursStart, &v.HoursEnd,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.Reason = Reason(reason)
	a.status = Status(status)
	a.Pet = &p
	a.Vet = &v
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]*Appointment, error) {
	defer rows.Close()

	var result []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Interface methods

func (r *PgRepository) GetPetByID(ctx context.Context, id int64) (*Pet, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, species, breed, age, owner_id
		FROM pets
		WHERE id = $1
	`, id)
	return scanPet(row)
}

func (r *PgRepository) GetVetByID(ctx context.Context, id int64) (*Veterinarian, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, specialty, phone, available, hours_start, hours_end
		FROM vets
		WHERE id = $1
	`, id)
	return scanVet(row)
}

func (r *PgRepository) Save(ctx context.Context, appt *Appointment) error {
	if appt.ID == 0 {
		row := r.pool.QueryRow(ctx, `
			INSERT INTO appointments (vet_id, pet_id, scheduled_on, scheduled_at, reason, status, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			RETURNING id
		`, appt.Vet.ID, appt.Pet.ID, appt.Date, appt.Time, string(appt.Reason), string(appt.status), appt.notes)
		return row.Scan(&appt.ID)
	}

	_, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET status = $2,
		    notes = $3,
		    updated_at = now()
		WHERE id = $1
	`, appt.ID, string(appt.status), appt.notes)
	return err
}

func (r *PgRepository) FindByID(ctx context.Context, id int64) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+appointmentColumns+appointmentJoins+`WHERE a.id = $1`, id)
	return scanAppointment(row)
}

func (r *PgRepository) ListAll(ctx context.Context) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+appointmentColumns+appointmentJoins+`ORDER BY a.id`)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) FindByVet(ctx context.Context, vetID int64) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+appointmentColumns+appointmentJoins+`WHERE a.vet_id = $1 ORDER BY a.id`, vetID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) FindByDate(ctx context.Context, day time.Time) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+appointmentColumns+appointmentJoins+`WHERE a.scheduled_on = $1::date ORDER BY a.id`, day)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}
