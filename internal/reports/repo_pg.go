package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"claimdesk-backend/internal/analysis"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Replace deletes any prior report for the folder and stores the new one,
// in a single transaction.
func (r *PGRepo) Replace(ctx context.Context, report Report) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM analysis_reports WHERE folder_id = $1`, report.FolderID); err != nil {
		return err
	}

	const query = `
INSERT INTO analysis_reports (
    id,
    folder_id,
    total_bill_amount,
    covered_amount,
    user_pays,
    missing_documents,
    fraud_warnings,
    exclusions_found,
    claim_guide,
    checklist,
    summary,
    approval_likelihood,
    recommendations,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	missing, err := marshalList(report.MissingDocuments)
	if err != nil {
		return err
	}
	warnings, err := marshalList(report.FraudWarnings)
	if err != nil {
		return err
	}
	exclusions, err := marshalList(report.ExclusionsFound)
	if err != nil {
		return err
	}
	guide, err := marshalList(report.ClaimGuide)
	if err != nil {
		return err
	}
	checklist, err := marshalChecklist(report.Checklist)
	if err != nil {
		return err
	}
	recommendations, err := marshalList(report.Recommendations)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(
		ctx,
		query,
		report.ID,
		report.FolderID,
		report.TotalBillAmount,
		report.CoveredAmount,
		report.UserPays,
		missing,
		warnings,
		exclusions,
		guide,
		checklist,
		report.Summary,
		report.ApprovalLikelihood,
		recommendations,
		report.CreatedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// GetLatestByFolder returns the folder's newest report.
func (r *PGRepo) GetLatestByFolder(ctx context.Context, folderID string) (Report, error) {
	const query = `
SELECT
    id,
    folder_id,
    total_bill_amount,
    covered_amount,
    user_pays,
    missing_documents,
    fraud_warnings,
    exclusions_found,
    claim_guide,
    checklist,
    summary,
    approval_likelihood,
    recommendations,
    created_at
FROM analysis_reports
WHERE folder_id = $1
ORDER BY created_at DESC
LIMIT 1`

	var report Report
	var missing, warnings, exclusions, guide, checklist, recommendations sql.NullString
	var summary, likelihood sql.NullString
	err := r.DB.QueryRowContext(ctx, query, folderID).Scan(
		&report.ID,
		&report.FolderID,
		&report.TotalBillAmount,
		&report.CoveredAmount,
		&report.UserPays,
		&missing,
		&warnings,
		&exclusions,
		&guide,
		&checklist,
		&summary,
		&likelihood,
		&recommendations,
		&report.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Report{}, ErrNotFound
	}
	if err != nil {
		return Report{}, err
	}
	report.MissingDocuments = unmarshalList(missing)
	report.FraudWarnings = unmarshalList(warnings)
	report.ExclusionsFound = unmarshalList(exclusions)
	report.ClaimGuide = unmarshalList(guide)
	report.Checklist = unmarshalChecklist(checklist)
	report.Summary = summary.String
	report.ApprovalLikelihood = likelihood.String
	report.Recommendations = unmarshalList(recommendations)
	return report, nil
}

func marshalList(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	return json.Marshal(list)
}

func marshalChecklist(items []analysis.ChecklistItem) ([]byte, error) {
	if items == nil {
		items = []analysis.ChecklistItem{}
	}
	return json.Marshal(items)
}

func unmarshalList(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return []string{}
	}
	return out
}

func unmarshalChecklist(raw sql.NullString) []analysis.ChecklistItem {
	if !raw.Valid || raw.String == "" {
		return []analysis.ChecklistItem{}
	}
	var out []analysis.ChecklistItem
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return []analysis.ChecklistItem{}
	}
	return out
}
