package folders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateMarshalsLists(t *testing.T) {
	repo, mock := newMockRepo(t)

	folder := Folder{
		ID:                "folder-1",
		FolderName:        "Sharma Hospitalization",
		PolicyNumber:      "HLT-2024-889",
		CompanyName:       "Star Health",
		CoverageAmount:    "₹10,00,000",
		PolicyType:        "Health Insurance",
		ExpiryDate:        "15-Aug-2026",
		Exclusions:        []string{"Cosmetic surgery"},
		RequiredDocuments: []string{"Hospital bills"},
		Status:            StatusOngoing,
		PolicySummary:     "Family floater policy.",
		PolicyFileKey:     "policies/abc123_policy.pdf",
		PolicyValidated:   true,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO policy_folders").
		WithArgs(
			folder.ID,
			folder.FolderName,
			folder.PolicyNumber,
			folder.CompanyName,
			folder.CoverageAmount,
			folder.PolicyType,
			folder.ExpiryDate,
			[]byte(`["Cosmetic surgery"]`),
			[]byte(`["Hospital bills"]`),
			folder.Status,
			folder.CompletionPercentage,
			folder.PolicySummary,
			folder.PolicyFileKey,
			folder.PolicyValidated,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), folder); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDUnmarshalsLists(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "folder_name", "policy_number", "company_name", "coverage_amount",
		"policy_type", "expiry_date", "exclusions", "required_documents",
		"status", "completion_percentage", "policy_summary", "policy_file_key",
		"policy_validated", "created_at", "updated_at",
	}).AddRow(
		"folder-1", "Sharma Hospitalization", "HLT-2024-889", "Star Health", "₹10,00,000",
		"Health Insurance", "15-Aug-2026", `["Dental care","Cosmetic surgery"]`, `["Hospital bills"]`,
		StatusValid, 72, "Family floater policy.", "policies/abc123_policy.pdf",
		true, now, now,
	)
	mock.ExpectQuery("SELECT .+ FROM policy_folders WHERE id =").
		WithArgs("folder-1").
		WillReturnRows(rows)

	folder, err := repo.GetByID(context.Background(), "folder-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(folder.Exclusions) != 2 || folder.Exclusions[0] != "Dental care" {
		t.Fatalf("exclusions: %v", folder.Exclusions)
	}
	if folder.Status != StatusValid || folder.CompletionPercentage != 72 {
		t.Fatalf("status: %s/%d", folder.Status, folder.CompletionPercentage)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT .+ FROM policy_folders WHERE id =").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDeleteNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM policy_folders").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE policy_folders").
		WithArgs("folder-1", StatusCompleted, 97).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateStatus(context.Background(), "folder-1", StatusCompleted, 97); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCountByStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow(StatusOngoing, 3).
		AddRow(StatusFraud, 1)
	mock.ExpectQuery("SELECT status, COUNT").WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background())
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[StatusOngoing] != 3 || counts[StatusFraud] != 1 {
		t.Fatalf("counts: %v", counts)
	}
}
