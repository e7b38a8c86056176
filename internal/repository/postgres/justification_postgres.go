package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"justifacil/internal/model"
	"justifacil/internal/repository"
)

// JustificationPostgres is a PostgreSQL implementation of repository.JustificationRepository.
type JustificationPostgres struct {
	db *sql.DB
}

// NewJustificationPostgres creates a new JustificationPostgres repository.
func NewJustificationPostgres(db *sql.DB) *JustificationPostgres {
	return &JustificationPostgres{db: db}
}

var _ repository.JustificationRepository = (*JustificationPostgres)(nil)

const justificationSelect = `
		SELECT j.id, j.student_id, u.username, j.start_date, j.end_date, j.reason, j.description,
		       j.status, j.coordinator_comment, j.source, j.created_at, j.updated_at
		FROM justifications j
		JOIN users u ON u.id = j.student_id`

func scanJustification(s interface{ Scan(...any) error }) (*model.Justification, error) {
	var (
		j   model.Justification
		end sql.NullTime
	)
	if err := s.Scan(
		&j.ID,
		&j.StudentID,
		&j.StudentUsername,
		&j.StartDate,
		&end,
		&j.Reason,
		&j.Description,
		&j.Status,
		&j.CoordinatorComment,
		&j.Source,
		&j.CreatedAt,
		&j.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if end.Valid {
		j.EndDate = &end.Time
	}
	return &j, nil
}

// Create inserts a justification. Status defaults to pending when unset.
func (r *JustificationPostgres) Create(ctx context.Context, j *model.Justification) (*model.Justification, error) {
	status := j.Status
	if status == "" {
		status = model.StatusPending
	}
	const q = `
		INSERT INTO justifications (student_id, start_date, end_date, reason, description, status, coordinator_comment, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	out := *j
	out.Status = status
	if err := r.db.QueryRowContext(ctx, q,
		j.StudentID,
		j.StartDate,
		j.EndDate,
		j.Reason,
		j.Description,
		status,
		j.CoordinatorComment,
		j.Source,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a justification with its owner's username.
func (r *JustificationPostgres) FindByID(ctx context.Context, id int64) (*model.Justification, error) {
	j, err := scanJustification(r.db.QueryRowContext(ctx, justificationSelect+` WHERE j.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("justification %d: %w", id, model.ErrNotFound)
	}
	return j, err
}

// List applies f and returns one page plus the total count. A non-positive limit returns every row.
func (r *JustificationPostgres) List(ctx context.Context, f repository.JustificationFilter, pq repository.PageQuery) (*repository.PageResult[model.Justification], error) {
	var (
		conds []string
		args  []any
	)
	if f.StudentID != 0 {
		args = append(args, f.StudentID)
		conds = append(conds, fmt.Sprintf("j.student_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("j.status = $%d", len(args)))
	}
	if f.UsernameContains != "" {
		args = append(args, "%"+escapeLike(f.UsernameContains)+"%")
		conds = append(conds, fmt.Sprintf("u.username ILIKE $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	qCount := `SELECT COUNT(*) FROM justifications j JOIN users u ON u.id = j.student_id` + where
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	order := " ORDER BY j.created_at DESC, j.id DESC"
	if f.OldestFirst {
		order = " ORDER BY j.created_at ASC, j.id ASC"
	}
	qList := justificationSelect + where + order
	if pq.Limit > 0 {
		args = append(args, pq.Limit, pq.Offset)
		qList += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Justification, 0)
	for rows.Next() {
		j, err := scanJustification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Justification]{Items: items, Total: total}, nil
}

// UpdateStatus writes status, comment and updated_at only while the row is still pending.
func (r *JustificationPostgres) UpdateStatus(ctx context.Context, id int64, status model.Status, comment string, at time.Time) error {
	const q = `
		UPDATE justifications
		SET status = $1, coordinator_comment = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`
	res, err := r.db.ExecContext(ctx, q, status, comment, at, id, model.StatusPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM justifications WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("justification %d: %w", id, model.ErrNotFound)
	}
	return fmt.Errorf("justification %d: %w", id, model.ErrInvalidTransition)
}

// Delete removes a justification and, by cascade, its documents.
func (r *JustificationPostgres) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM justifications WHERE id = $1`, id)
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
