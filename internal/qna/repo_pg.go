package qna

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new entry.
func (r *PGRepo) Create(ctx context.Context, entry Entry) error {
	const query = `
INSERT INTO qna (id, folder_id, question, answer, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query, entry.ID, entry.FolderID, entry.Question, entry.Answer, entry.CreatedAt)
	return err
}

// ListByFolder returns a folder's history, newest first.
func (r *PGRepo) ListByFolder(ctx context.Context, folderID string) ([]Entry, error) {
	const query = `
SELECT id, folder_id, question, answer, created_at
FROM qna
WHERE folder_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, folderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.FolderID, &entry.Question, &entry.Answer, &entry.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
