package folders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const folderColumns = `
    id,
    folder_name,
    policy_number,
    company_name,
    coverage_amount,
    policy_type,
    expiry_date,
    exclusions,
    required_documents,
    status,
    completion_percentage,
    policy_summary,
    policy_file_key,
    policy_validated,
    created_at,
    updated_at`

// Create inserts a new folder.
func (r *PGRepo) Create(ctx context.Context, folder Folder) error {
	const query = `
INSERT INTO policy_folders (` + folderColumns + `
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	exclusions, err := marshalJSONB(folder.Exclusions)
	if err != nil {
		return err
	}
	requiredDocs, err := marshalJSONB(folder.RequiredDocuments)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		folder.ID,
		folder.FolderName,
		folder.PolicyNumber,
		folder.CompanyName,
		folder.CoverageAmount,
		folder.PolicyType,
		folder.ExpiryDate,
		exclusions,
		requiredDocs,
		folder.Status,
		folder.CompletionPercentage,
		folder.PolicySummary,
		folder.PolicyFileKey,
		folder.PolicyValidated,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	return err
}

// GetByID returns a folder by its ID.
func (r *PGRepo) GetByID(ctx context.Context, folderID string) (Folder, error) {
	const query = `SELECT ` + folderColumns + ` FROM policy_folders WHERE id = $1`
	folder, err := scanFolder(r.DB.QueryRowContext(ctx, query, folderID))
	if errors.Is(err, sql.ErrNoRows) {
		return Folder{}, ErrNotFound
	}
	return folder, err
}

// List returns all folders, newest first.
func (r *PGRepo) List(ctx context.Context) ([]Folder, error) {
	const query = `SELECT ` + folderColumns + ` FROM policy_folders ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, folder)
	}
	return out, rows.Err()
}

// Delete removes a folder; child rows cascade at the schema level.
func (r *PGRepo) Delete(ctx context.Context, folderID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM policy_folders WHERE id = $1`, folderID)
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

// UpdateStatus sets the status and completion percentage.
func (r *PGRepo) UpdateStatus(ctx context.Context, folderID, status string, completion int) error {
	const query = `
UPDATE policy_folders
SET status = $2, completion_percentage = $3, updated_at = NOW()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, folderID, status, completion)
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

// CountByStatus tallies folders per lifecycle status.
func (r *PGRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM policy_folders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFolder(row rowScanner) (Folder, error) {
	var folder Folder
	var exclusions, requiredDocs sql.NullString
	var summary, fileKey sql.NullString
	err := row.Scan(
		&folder.ID,
		&folder.FolderName,
		&folder.PolicyNumber,
		&folder.CompanyName,
		&folder.CoverageAmount,
		&folder.PolicyType,
		&folder.ExpiryDate,
		&exclusions,
		&requiredDocs,
		&folder.Status,
		&folder.CompletionPercentage,
		&summary,
		&fileKey,
		&folder.PolicyValidated,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return Folder{}, err
	}
	folder.Exclusions = unmarshalStringList(exclusions)
	folder.RequiredDocuments = unmarshalStringList(requiredDocs)
	folder.PolicySummary = summary.String
	folder.PolicyFileKey = fileKey.String
	return folder, nil
}

func marshalJSONB(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	return json.Marshal(list)
}

func unmarshalStringList(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return []string{}
	}
	return out
}
