package inventory

import (
	"context"
	"time"

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

const invCols = `id, hospital_id, blood_type, available_stocks, expiration_date, freshness, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, inv *BloodInventory) error {
	inv.ID = uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO blood_inventory (id, hospital_id, blood_type, available_stocks, expiration_date, freshness)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		inv.ID, inv.HospitalID, inv.BloodType, inv.AvailableStocks, inv.ExpirationDate, inv.Freshness,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*BloodInventory, error) {
	return scanInv(r.db.QueryRow(ctx, `SELECT `+invCols+` FROM blood_inventory WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, inv *BloodInventory) error {
	_, err := r.db.Exec(ctx, `
		UPDATE blood_inventory SET
			blood_type=$2, available_stocks=$3, expiration_date=$4, freshness=$5, updated_at=NOW()
		WHERE id = $1`,
		inv.ID, inv.BloodType, inv.AvailableStocks, inv.ExpirationDate, inv.Freshness,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM blood_inventory WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*BloodInventory, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blood_inventory`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+invCols+` FROM blood_inventory ORDER BY expiration_date LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectInvs(rows, total)
}

func (r *repoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*BloodInventory, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blood_inventory WHERE hospital_id = $1`, hospitalID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+invCols+` FROM blood_inventory WHERE hospital_id = $1 ORDER BY expiration_date LIMIT $2 OFFSET $3`,
		hospitalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectInvs(rows, total)
}

func (r *repoPG) FindCandidates(ctx context.Context, bloodType string, units int, now time.Time) ([]*Candidate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT h.id, h.name, h.email, h.phone, i.blood_type, SUM(i.available_stocks) AS stock
		FROM blood_inventory i
		JOIN hospital h ON h.id = i.hospital_id
		WHERE i.blood_type = $1
		  AND i.available_stocks >= $2
		  AND i.freshness <> 'expired'
		  AND i.expiration_date > $3
		  AND h.active_status = TRUE
		GROUP BY h.id, h.name, h.email, h.phone, i.blood_type
		ORDER BY stock DESC`,
		bloodType, units, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.HospitalID, &c.HospitalName, &c.HospitalEmail, &c.HospitalPhone, &c.BloodType, &c.Stock); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, nil
}

func (r *repoPG) RefreshFreshness(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE blood_inventory SET
			freshness = CASE
				WHEN expiration_date <= $1 THEN 'expired'
				WHEN expiration_date <= $1 + INTERVAL '7 days' THEN 'soon'
				ELSE 'not_expired'
			END,
			updated_at = NOW()
		WHERE freshness <> CASE
				WHEN expiration_date <= $1 THEN 'expired'
				WHEN expiration_date <= $1 + INTERVAL '7 days' THEN 'soon'
				ELSE 'not_expired'
			END`,
		now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func scanInv(row pgx.Row) (*BloodInventory, error) {
	var inv BloodInventory
	err := row.Scan(&inv.ID, &inv.HospitalID, &inv.BloodType, &inv.AvailableStocks, &inv.ExpirationDate, &inv.Freshness, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func collectInvs(rows pgx.Rows, total int) ([]*BloodInventory, int, error) {
	var invs []*BloodInventory
	for rows.Next() {
		var inv BloodInventory
		if err := rows.Scan(&inv.ID, &inv.HospitalID, &inv.BloodType, &inv.AvailableStocks, &inv.ExpirationDate, &inv.Freshness, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, 0, err
		}
		invs = append(invs, &inv)
	}
	return invs, total, nil
}
