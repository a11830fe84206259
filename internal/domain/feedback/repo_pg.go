package feedback

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

const feedbackCols = `id, author_kind, author_id, rating, message, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, f *Feedback) error {
	f.ID = uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO feedback (id, author_kind, author_id, rating, message)
		VALUES ($1,$2,$3,$4,$5)`,
		f.ID, f.AuthorKind, f.AuthorID, f.Rating, f.Message,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Feedback, error) {
	var f Feedback
	err := r.db.QueryRow(ctx, `SELECT `+feedbackCols+` FROM feedback WHERE id = $1`, id).
		Scan(&f.ID, &f.AuthorKind, &f.AuthorID, &f.Rating, &f.Message, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Feedback, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+feedbackCols+` FROM feedback ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectFeedback(rows, total)
}

func (r *repoPG) ListByAuthor(ctx context.Context, kind string, authorID uuid.UUID, limit, offset int) ([]*Feedback, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM feedback WHERE author_kind = $1 AND author_id = $2`, kind, authorID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+feedbackCols+` FROM feedback WHERE author_kind = $1 AND author_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		kind, authorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectFeedback(rows, total)
}

func collectFeedback(rows pgx.Rows, total int) ([]*Feedback, int, error) {
	var out []*Feedback
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.AuthorKind, &f.AuthorID, &f.Rating, &f.Message, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &f)
	}
	return out, total, nil
}

// -- Inquiries --

type inquiryRepoPG struct {
	db querier
}

func NewInquiryRepo(pool *pgxpool.Pool) InquiryRepository {
	return &inquiryRepoPG{db: pool}
}

const inquiryCols = `id, name, email, subject, message, status, response, created_at, updated_at`

func (r *inquiryRepoPG) Create(ctx context.Context, q *Inquiry) error {
	q.ID = uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO inquiry (id, name, email, subject, message, status)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		q.ID, q.Name, q.Email, q.Subject, q.Message, q.Status,
	)
	return err
}

func (r *inquiryRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Inquiry, error) {
	var q Inquiry
	err := r.db.QueryRow(ctx, `SELECT `+inquiryCols+` FROM inquiry WHERE id = $1`, id).
		Scan(&q.ID, &q.Name, &q.Email, &q.Subject, &q.Message, &q.Status, &q.Response, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *inquiryRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM inquiry WHERE id = $1`, id)
	return err
}

func (r *inquiryRepoPG) List(ctx context.Context, status string, limit, offset int) ([]*Inquiry, int, error) {
	where := `WHERE 1=1`
	args := []interface{}{}
	i := 1
	if status != "" {
		where += fmt.Sprintf(" AND status = $%d", i)
		args = append(args, status)
		i++
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM inquiry `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+inquiryCols+` FROM inquiry %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, i, i+1)
	args = append(args, limit, offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Inquiry
	for rows.Next() {
		var q Inquiry
		if err := rows.Scan(&q.ID, &q.Name, &q.Email, &q.Subject, &q.Message, &q.Status, &q.Response, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &q)
	}
	return out, total, nil
}

func (r *inquiryRepoPG) Resolve(ctx context.Context, id uuid.UUID, response string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE inquiry SET status = 'resolved', response = $2, updated_at = NOW()
		WHERE id = $1`, id, response)
	return err
}
