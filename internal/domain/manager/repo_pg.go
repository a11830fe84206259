package manager

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

const managerCols = `id, name, email, phone, password_hash, active_status, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, m *SystemManager) error {
	m.ID = uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO system_manager (id, name, email, phone, password_hash, active_status)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		m.ID, m.Name, m.Email, m.Phone, m.PasswordHash, m.ActiveStatus,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*SystemManager, error) {
	return scanManager(r.db.QueryRow(ctx, `SELECT `+managerCols+` FROM system_manager WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*SystemManager, error) {
	return scanManager(r.db.QueryRow(ctx, `SELECT `+managerCols+` FROM system_manager WHERE email = $1`, email))
}

func (r *repoPG) Update(ctx context.Context, m *SystemManager) error {
	_, err := r.db.Exec(ctx, `
		UPDATE system_manager SET
			name=$2, email=$3, phone=$4, active_status=$5, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.Email, m.Phone, m.ActiveStatus,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM system_manager WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*SystemManager, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM system_manager`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+managerCols+` FROM system_manager ORDER BY created_at LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*SystemManager
	for rows.Next() {
		var m SystemManager
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.PasswordHash, &m.ActiveStatus, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &m)
	}
	return out, total, nil
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM system_manager`).Scan(&n)
	return n, err
}

func scanManager(row pgx.Row) (*SystemManager, error) {
	var m SystemManager
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.PasswordHash, &m.ActiveStatus, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
