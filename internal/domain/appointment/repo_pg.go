package appointment

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type repoPG struct {
	db querier
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{db: pool}
}

const apptCols = `id, donor_id, hospital_id, scheduled_at, status, note, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO blood_donation_appointment (id, donor_id, hospital_id, scheduled_at, status, note)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.DonorID, a.HospitalID, a.ScheduledAt, a.Status, a.Note,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppt(r.db.QueryRow(ctx, `SELECT `+apptCols+` FROM blood_donation_appointment WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.db.Exec(ctx, `
		UPDATE blood_donation_appointment SET
			scheduled_at=$2, status=$3, note=$4, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.ScheduledAt, a.Status, a.Note,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM blood_donation_appointment WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blood_donation_appointment`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+apptCols+` FROM blood_donation_appointment ORDER BY scheduled_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAppts(rows, total)
}

func (r *repoPG) ListByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blood_donation_appointment WHERE donor_id = $1`, donorID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+apptCols+` FROM blood_donation_appointment WHERE donor_id = $1 ORDER BY scheduled_at DESC LIMIT $2 OFFSET $3`,
		donorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAppts(rows, total)
}

func (r *repoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blood_donation_appointment WHERE hospital_id = $1`, hospitalID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+apptCols+` FROM blood_donation_appointment WHERE hospital_id = $1 ORDER BY scheduled_at DESC LIMIT $2 OFFSET $3`,
		hospitalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAppts(rows, total)
}

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.DonorID, &a.HospitalID, &a.ScheduledAt, &a.Status, &a.Note, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAppts(rows pgx.Rows, total int) ([]*Appointment, int, error) {
	var appts []*Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.DonorID, &a.HospitalID, &a.ScheduledAt, &a.Status, &a.Note, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		appts = append(appts, &a)
	}
	return appts, total, nil
}

// -- Evaluations --

type evalRepoPG struct {
	db querier
}

func NewEvaluationRepo(pool *pgxpool.Pool) EvaluationRepository {
	return &evalRepoPG{db: pool}
}

const evalCols = `id, donor_id, appointment_id, evaluator_id, hemoglobin, blood_pressure, weight_kg, pulse, result, remarks, evaluated_at, created_at`

func (r *evalRepoPG) Create(ctx context.Context, e *Evaluation) error {
	e.ID = uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO health_evaluation (id, donor_id, appointment_id, evaluator_id, hemoglobin, blood_pressure, weight_kg, pulse, result, remarks, evaluated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		e.ID, e.DonorID, e.AppointmentID, e.EvaluatorID, e.Hemoglobin, e.BloodPressure, e.WeightKG, e.Pulse, e.Result, e.Remarks, e.EvaluatedAt,
	)
	return err
}

func (r *evalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	return scanEval(r.db.QueryRow(ctx, `SELECT `+evalCols+` FROM health_evaluation WHERE id = $1`, id))
}

func (r *evalRepoPG) Update(ctx context.Context, e *Evaluation) error {
	_, err := r.db.Exec(ctx, `
		UPDATE health_evaluation SET
			hemoglobin=$2, blood_pressure=$3, weight_kg=$4, pulse=$5, result=$6, remarks=$7
		WHERE id = $1`,
		e.ID, e.Hemoglobin, e.BloodPressure, e.WeightKG, e.Pulse, e.Result, e.Remarks,
	)
	return err
}

func (r *evalRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM health_evaluation WHERE id = $1`, id)
	return err
}

func (r *evalRepoPG) ListByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*Evaluation, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM health_evaluation WHERE donor_id = $1`, donorID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+evalCols+` FROM health_evaluation WHERE donor_id = $1 ORDER BY evaluated_at DESC LIMIT $2 OFFSET $3`,
		donorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var evals []*Evaluation
	for rows.Next() {
		var e Evaluation
		if err := rows.Scan(&e.ID, &e.DonorID, &e.AppointmentID, &e.EvaluatorID, &e.Hemoglobin, &e.BloodPressure, &e.WeightKG, &e.Pulse, &e.Result, &e.Remarks, &e.EvaluatedAt, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		evals = append(evals, &e)
	}
	return evals, total, nil
}

func scanEval(row pgx.Row) (*Evaluation, error) {
	var e Evaluation
	err := row.Scan(&e.ID, &e.DonorID, &e.AppointmentID, &e.EvaluatorID, &e.Hemoglobin, &e.BloodPressure, &e.WeightKG, &e.Pulse, &e.Result, &e.Remarks, &e.EvaluatedAt, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
