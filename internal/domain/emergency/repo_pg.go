package emergency

import (
	"context"
	"fmt"
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

const requestCols = `id, requester_name, requester_phone, proof_identity_ref, proof_document_id,
	blood_type, units, criticality, needed_by, hospital_name, hospital_address,
	active_status, accept_status, decline_reason, accepted_by_kind, accepted_by_id,
	created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, req *EmergencyRequest) error {
	req.ID = uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO emergency_request (
			id, requester_name, requester_phone, proof_identity_ref, proof_document_id,
			blood_type, units, criticality, needed_by, hospital_name, hospital_address,
			active_status, accept_status, decline_reason
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		req.ID, req.RequesterName, req.RequesterPhone, req.ProofIdentityRef, req.ProofDocumentID,
		req.BloodType, req.Units, req.Criticality, dateOf(req.NeededBy), req.HospitalName, req.HospitalAddress,
		req.ActiveStatus, req.AcceptStatus, req.DeclineReason,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*EmergencyRequest, error) {
	return scanRequest(r.db.QueryRow(ctx, `SELECT `+requestCols+` FROM emergency_request WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, req *EmergencyRequest) error {
	_, err := r.db.Exec(ctx, `
		UPDATE emergency_request SET
			requester_name=$2, requester_phone=$3, proof_identity_ref=$4, blood_type=$5,
			units=$6, criticality=$7, needed_by=$8, hospital_name=$9, hospital_address=$10,
			updated_at=NOW()
		WHERE id = $1`,
		req.ID, req.RequesterName, req.RequesterPhone, req.ProofIdentityRef, req.BloodType,
		req.Units, req.Criticality, dateOf(req.NeededBy), req.HospitalName, req.HospitalAddress,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM emergency_request WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*EmergencyRequest, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM emergency_request`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+requestCols+` FROM emergency_request ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectRequests(rows, total)
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*EmergencyRequest, int, error) {
	where := `WHERE 1=1`
	args := []interface{}{}
	i := 1
	if v, ok := params["blood_type"]; ok {
		where += fmt.Sprintf(" AND blood_type = $%d", i)
		args = append(args, v)
		i++
	}
	if v, ok := params["criticality"]; ok {
		where += fmt.Sprintf(" AND criticality = $%d", i)
		args = append(args, v)
		i++
	}
	if v, ok := params["accept_status"]; ok {
		where += fmt.Sprintf(" AND accept_status = $%d", i)
		args = append(args, v)
		i++
	}
	if v, ok := params["active_status"]; ok {
		where += fmt.Sprintf(" AND active_status = $%d", i)
		args = append(args, v)
		i++
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM emergency_request `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+requestCols+` FROM emergency_request %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, i, i+1)
	args = append(args, limit, offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectRequests(rows, total)
}

func (r *repoPG) ListMatchable(ctx context.Context, now time.Time) ([]*EmergencyRequest, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+requestCols+` FROM emergency_request
		WHERE accept_status = 'pending'
		  AND active_status = 'active'
		  AND needed_by >= $1
		ORDER BY criticality DESC, needed_by`, dateOf(now))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs, _, err := collectRequests(rows, 0)
	return reqs, err
}

func (r *repoPG) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE emergency_request
		SET accept_status = 'declined', active_status = 'inactive', updated_at = NOW()
		WHERE needed_by < $1`, dateOf(now))
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *repoPG) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	status := ActiveStatusInactive
	if active {
		status = ActiveStatusActive
	}
	_, err := r.db.Exec(ctx, `UPDATE emergency_request SET active_status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

func (r *repoPG) SetAccepted(ctx context.Context, id uuid.UUID, by AcceptedBy) error {
	_, err := r.db.Exec(ctx, `
		UPDATE emergency_request
		SET accept_status = 'accepted', accepted_by_kind = $2, accepted_by_id = $3, updated_at = NOW()
		WHERE id = $1`, id, by.Kind, by.ID)
	return err
}

func (r *repoPG) SetDeclined(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE emergency_request
		SET accept_status = 'declined', decline_reason = $2, updated_at = NOW()
		WHERE id = $1`, id, reason)
	return err
}

func (r *repoPG) SetProofDocument(ctx context.Context, id uuid.UUID, blobID string) error {
	_, err := r.db.Exec(ctx, `UPDATE emergency_request SET proof_document_id = $2, updated_at = NOW() WHERE id = $1`, id, blobID)
	return err
}

func scanRequest(row pgx.Row) (*EmergencyRequest, error) {
	var req EmergencyRequest
	var abKind *string
	var abID *uuid.UUID
	err := row.Scan(
		&req.ID, &req.RequesterName, &req.RequesterPhone, &req.ProofIdentityRef, &req.ProofDocumentID,
		&req.BloodType, &req.Units, &req.Criticality, &req.NeededBy, &req.HospitalName, &req.HospitalAddress,
		&req.ActiveStatus, &req.AcceptStatus, &req.DeclineReason, &abKind, &abID,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if abKind != nil && abID != nil {
		req.AcceptedBy = &AcceptedBy{Kind: *abKind, ID: *abID}
	}
	return &req, nil
}

func collectRequests(rows pgx.Rows, total int) ([]*EmergencyRequest, int, error) {
	var reqs []*EmergencyRequest
	for rows.Next() {
		var req EmergencyRequest
		var abKind *string
		var abID *uuid.UUID
		err := rows.Scan(
			&req.ID, &req.RequesterName, &req.RequesterPhone, &req.ProofIdentityRef, &req.ProofDocumentID,
			&req.BloodType, &req.Units, &req.Criticality, &req.NeededBy, &req.HospitalName, &req.HospitalAddress,
			&req.ActiveStatus, &req.AcceptStatus, &req.DeclineReason, &abKind, &abID,
			&req.CreatedAt, &req.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		if abKind != nil && abID != nil {
			req.AcceptedBy = &AcceptedBy{Kind: *abKind, ID: *abID}
		}
		reqs = append(reqs, &req)
	}
	return reqs, total, nil
}
