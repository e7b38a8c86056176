package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"justifacil/internal/model"
	"justifacil/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

func scanDocument(s interface{ Scan(...any) error }) (*model.Document, error) {
	var (
		d         model.Document
		validated sql.NullTime
	)
	if err := s.Scan(&d.ID, &d.JustificationID, &d.FilePath, &d.Legible, &validated, &d.CreatedAt); err != nil {
		return nil, err
	}
	if validated.Valid {
		d.ValidatedAt = &validated.Time
	}
	return &d, nil
}

// Create inserts a document row. Legibility is written later by MarkValidated.
func (r *DocumentPostgres) Create(ctx context.Context, d *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (justification_id, file_path)
		VALUES ($1, $2)
		RETURNING id, justification_id, file_path, legible, validated_at, created_at
	`
	return scanDocument(r.db.QueryRowContext(ctx, q, d.JustificationID, d.FilePath))
}

// FindByID fetches a single document.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `
		SELECT id, justification_id, file_path, legible, validated_at, created_at
		FROM documents
		WHERE id = $1
	`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %d: %w", id, model.ErrNotFound)
	}
	return d, err
}

// ListByJustification returns the documents of one justification in upload order.
func (r *DocumentPostgres) ListByJustification(ctx context.Context, justificationID int64) ([]model.Document, error) {
	const q = `
		SELECT id, justification_id, file_path, legible, validated_at, created_at
		FROM documents
		WHERE justification_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, q, justificationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

// MarkValidated stores the legibility verdict together with its timestamp.
func (r *DocumentPostgres) MarkValidated(ctx context.Context, id int64, legible bool, at time.Time) error {
	const q = `UPDATE documents SET legible = $1, validated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, q, legible, at, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("document %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// Delete removes a document by ID. A missing row is not an error.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}
