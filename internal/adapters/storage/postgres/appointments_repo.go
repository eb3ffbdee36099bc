package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pethub/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (
			id, pet_id,
			date, time, description,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		a.ID,
		a.PetID,
		a.Date,
		a.Time,
		a.Description,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	// pet_id queda fuera: la cita no cambia de mascota.
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET
			date = $2,
			time = $3,
			description = $4,
			updated_at = $5
		WHERE id = $1
	`,
		a.ID,
		a.Date,
		a.Time,
		a.Description,
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

func (r *AppointmentsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, appointments.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, pet_id,
			to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI'), description,
			created_at, updated_at
		FROM appointments
		WHERE id = $1
	`, id)

	return scanAppointment(row)
}

func (r *AppointmentsRepo) ListAll(ctx context.Context) ([]appointments.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, pet_id,
			to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI'), description,
			created_at, updated_at
		FROM appointments
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *AppointmentsRepo) ListByPetIDs(ctx context.Context, petIDs []string) ([]appointments.Appointment, error) {
	if len(petIDs) == 0 {
		return []appointments.Appointment{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, pet_id,
			to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI'), description,
			created_at, updated_at
		FROM appointments
		WHERE pet_id = ANY($1)
		ORDER BY created_at ASC
	`, petIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func scanAppointment(row rowScanner) (appointments.Appointment, error) {
	var a appointments.Appointment
	var desc sql.NullString
	if err := row.Scan(
		&a.ID,
		&a.PetID,
		&a.Date,
		&a.Time,
		&desc,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return appointments.Appointment{}, appointments.ErrNotFound
		}
		return appointments.Appointment{}, err
	}

	if desc.Valid {
		a.Description = desc.String
	}

	return a, nil
}

func collectAppointments(rows *sql.Rows) ([]appointments.Appointment, error) {
	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
