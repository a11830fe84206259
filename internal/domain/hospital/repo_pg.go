package hospital

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

const hospitalCols = `id, name, email, phone, password_hash, address, city, active_status, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, h *Hospital) error {
	h.ID = uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO hospital (id, name, email, phone, password_hash, address, city, active_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		h.ID, h.Name, h.Email, h.Phone, h.PasswordHash, h.Address, h.City, h.ActiveStatus,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return scanHospital(r.db.QueryRow(ctx, `SELECT `+hospitalCols+` FROM hospital WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Hospital, error) {
	return scanHospital(r.db.QueryRow(ctx, `SELECT `+hospitalCols+` FROM hospital WHERE email = $1`, email))
}

func (r *repoPG) Update(ctx context.Context, h *Hospital) error {
	_, err := r.db.Exec(ctx, `
		UPDATE hospital SET
			name=$2, email=$3, phone=$4, address=$5, city=$6, active_status=$7, updated_at=NOW()
		WHERE id = $1`,
		h.ID, h.Name, h.Email, h.Phone, h.Address, h.City, h.ActiveStatus,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM hospital WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM hospital`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+hospitalCols+` FROM hospital ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectHospitals(rows, total)
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Hospital, int, error) {
	where := `WHERE 1=1`
	args := []interface{}{}
	i := 1
	if v, ok := params["city"]; ok {
		where += fmt.Sprintf(" AND city ILIKE $%d", i)
		args = append(args, "%"+v+"%")
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
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM hospital `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+hospitalCols+` FROM hospital %s ORDER BY name LIMIT $%d OFFSET $%d`, where, i, i+1)
	args = append(args, limit, offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectHospitals(rows, total)
}

func (r *repoPG) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.db.Exec(ctx, `UPDATE hospital SET active_status = $2, updated_at = NOW() WHERE id = $1`, id, active)
	return err
}

func scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(&h.ID, &h.Name, &h.Email, &h.Phone, &h.PasswordHash, &h.Address, &h.City, &h.ActiveStatus, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func collectHospitals(rows pgx.Rows, total int) ([]*Hospital, int, error) {
	var hs []*Hospital
	for rows.Next() {
		var h Hospital
		if err := rows.Scan(&h.ID, &h.Name, &h.Email, &h.Phone, &h.PasswordHash, &h.Address, &h.City, &h.ActiveStatus, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, 0, err
		}
		hs = append(hs, &h)
	}
	return hs, total, nil
}

// -- Admin repository --

type adminRepoPG struct {
	db querier
}

func NewAdminRepo(pool *pgxpool.Pool) AdminRepository {
	return &adminRepoPG{db: pool}
}

const adminCols = `id, hospital_id, name, email, phone, password_hash, active_status, created_at, updated_at`

func (r *adminRepoPG) Create(ctx context.Context, a *Admin) error {
	a.ID = uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO hospital_admin (id, hospital_id, name, email, phone, password_hash, active_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.HospitalID, a.Name, a.Email, a.Phone, a.PasswordHash, a.ActiveStatus,
	)
	return err
}

func (r *adminRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	return scanAdmin(r.db.QueryRow(ctx, `SELECT `+adminCols+` FROM hospital_admin WHERE id = $1`, id))
}

func (r *adminRepoPG) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	return scanAdmin(r.db.QueryRow(ctx, `SELECT `+adminCols+` FROM hospital_admin WHERE email = $1`, email))
}

func (r *adminRepoPG) Update(ctx context.Context, a *Admin) error {
	_, err := r.db.Exec(ctx, `
		UPDATE hospital_admin SET
			name=$2, email=$3, phone=$4, active_status=$5, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Name, a.Email, a.Phone, a.ActiveStatus,
	)
	return err
}

func (r *adminRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM hospital_admin WHERE id = $1`, id)
	return err
}

func (r *adminRepoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Admin, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM hospital_admin WHERE hospital_id = $1`, hospitalID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+adminCols+` FROM hospital_admin WHERE hospital_id = $1 ORDER BY name LIMIT $2 OFFSET $3`,
		hospitalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var admins []*Admin
	for rows.Next() {
		var a Admin
		if err := rows.Scan(&a.ID, &a.HospitalID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash, &a.ActiveStatus, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		admins = append(admins, &a)
	}
	return admins, total, nil
}

func (r *adminRepoPG) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.db.Exec(ctx, `UPDATE hospital_admin SET active_status = $2, updated_at = NOW() WHERE id = $1`, id, active)
	return err
}

func scanAdmin(row pgx.Row) (*Admin, error) {
	var a Admin
	err := row.Scan(&a.ID, &a.HospitalID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash, &a.ActiveStatus, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
