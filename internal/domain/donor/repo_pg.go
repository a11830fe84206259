package donor

import (
	"context"
	"fmt"

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

const donorCols = `id, name, email, phone, password_hash, blood_type, address, date_of_birth,
	health_status, appointment_status, active_status, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, d *Donor) error {
	d.ID = uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO donor (
			id, name, email, phone, password_hash, blood_type, address, date_of_birth,
			health_status, appointment_status, active_status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		d.ID, d.Name, d.Email, d.Phone, d.PasswordHash, d.BloodType, d.Address, d.DateOfBirth,
		d.HealthStatus, d.AppointmentStatus, d.ActiveStatus,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Donor, error) {
	return scanDonor(r.db.QueryRow(ctx, `SELECT `+donorCols+` FROM donor WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Donor, error) {
	return scanDonor(r.db.QueryRow(ctx, `SELECT `+donorCols+` FROM donor WHERE email = $1`, email))
}

func (r *repoPG) Update(ctx context.Context, d *Donor) error {
	_, err := r.db.Exec(ctx, `
		UPDATE donor SET
			name=$2, email=$3, phone=$4, blood_type=$5, address=$6, date_of_birth=$7,
			health_status=$8, appointment_status=$9, active_status=$10, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.Email, d.Phone, d.BloodType, d.Address, d.DateOfBirth,
		d.HealthStatus, d.AppointmentStatus, d.ActiveStatus,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM donor WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Donor, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM donor`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+donorCols+` FROM donor ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectDonors(rows, total)
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Donor, int, error) {
	where := `WHERE 1=1`
	args := []interface{}{}
	i := 1
	if v, ok := params["blood_type"]; ok {
		where += fmt.Sprintf(" AND blood_type = $%d", i)
		args = append(args, v)
		i++
	}
	if v, ok := params["name"]; ok {
		where += fmt.Sprintf(" AND name ILIKE $%d", i)
		args = append(args, "%"+v+"%")
		i++
	}
	if v, ok := params["active"]; ok {
		where += fmt.Sprintf(" AND active_status = $%d", i)
		args = append(args, v == "true")
		i++
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM donor `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+donorCols+` FROM donor %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, i, i+1)
	args = append(args, limit, offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectDonors(rows, total)
}

func (r *repoPG) ListEligibleByBloodType(ctx context.Context, bloodType string) ([]*Donor, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+donorCols+` FROM donor
		WHERE blood_type = $1
		  AND health_status = FALSE
		  AND appointment_status = FALSE
		  AND active_status = TRUE
		ORDER BY created_at`, bloodType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	donors, _, err := collectDonors(rows, 0)
	return donors, err
}

func (r *repoPG) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.db.Exec(ctx, `UPDATE donor SET active_status = $2, updated_at = NOW() WHERE id = $1`, id, active)
	return err
}

func (r *repoPG) SetHealthStatus(ctx context.Context, id uuid.UUID, onHold bool) error {
	_, err := r.db.Exec(ctx, `UPDATE donor SET health_status = $2, updated_at = NOW() WHERE id = $1`, id, onHold)
	return err
}

func (r *repoPG) SetAppointmentStatus(ctx context.Context, id uuid.UUID, booked bool) error {
	_, err := r.db.Exec(ctx, `UPDATE donor SET appointment_status = $2, updated_at = NOW() WHERE id = $1`, id, booked)
	return err
}

func scanDonor(row pgx.Row) (*Donor, error) {
	var d Donor
	err := row.Scan(
		&d.ID, &d.Name, &d.Email, &d.Phone, &d.PasswordHash, &d.BloodType, &d.Address, &d.DateOfBirth,
		&d.HealthStatus, &d.AppointmentStatus, &d.ActiveStatus, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDonors(rows pgx.Rows, total int) ([]*Donor, int, error) {
	var donors []*Donor
	for rows.Next() {
		var d Donor
		err := rows.Scan(
			&d.ID, &d.Name, &d.Email, &d.Phone, &d.PasswordHash, &d.BloodType, &d.Address, &d.DateOfBirth,
			&d.HealthStatus, &d.AppointmentStatus, &d.ActiveStatus, &d.CreatedAt, &d.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		donors = append(donors, &d)
	}
	return donors, total, nil
}
