package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `
    id,
    folder_id,
    filename,
    storage_key,
    document_type,
    extracted_text,
    analysis,
    completeness,
    is_duplicate,
    amount,
    summary,
    uploaded_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (` + documentColumns + `
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	var analysis any
	if len(doc.Analysis) > 0 {
		analysis = []byte(doc.Analysis)
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.FolderID,
		doc.Filename,
		doc.StorageKey,
		doc.DocumentType,
		doc.ExtractedText,
		analysis,
		doc.Completeness,
		doc.IsDuplicate,
		doc.Amount,
		doc.Summary,
		doc.UploadedAt,
	)
	return err
}

// GetByID returns a document by its ID.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	const query = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, documentID))
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return doc, err
}

// ListByFolder returns a folder's documents in upload order.
func (r *PGRepo) ListByFolder(ctx context.Context, folderID string) ([]Document, error) {
	const query = `SELECT ` + documentColumns + ` FROM documents WHERE folder_id = $1 ORDER BY uploaded_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, folderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Delete removes a document.
func (r *PGRepo) Delete(ctx context.Context, documentID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, documentID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByFolder returns how many documents a folder holds.
func (r *PGRepo) CountByFolder(ctx context.Context, folderID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE folder_id = $1`, folderID).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var text, summary, analysis sql.NullString
	err := row.Scan(
		&doc.ID,
		&doc.FolderID,
		&doc.Filename,
		&doc.StorageKey,
		&doc.DocumentType,
		&text,
		&analysis,
		&doc.Completeness,
		&doc.IsDuplicate,
		&doc.Amount,
		&summary,
		&doc.UploadedAt,
	)
	if err != nil {
		return Document{}, err
	}
	doc.ExtractedText = text.String
	doc.Summary = summary.String
	if analysis.Valid {
		doc.Analysis = []byte(analysis.String)
	}
	return doc, nil
}
