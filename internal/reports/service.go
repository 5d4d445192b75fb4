package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"claimdesk-backend/internal/analysis"
	"claimdesk-backend/internal/documents"
	"claimdesk-backend/internal/folders"
	"claimdesk-backend/internal/shared/metrics"
	"claimdesk-backend/internal/shared/telemetry"
)

// Service generates and serves folder-level analysis reports.
type Service struct {
	Repo      Repo
	Folders   folders.Repo
	Docs      documents.Repo
	Requestor *analysis.Requestor
}

// Generate runs the folder-level aggregate analysis over every document in
// the folder and replaces the folder's stored report with the result.
func (s *Service) Generate(ctx context.Context, folderID string) (Report, error) {
	folder, err := s.Folders.GetByID(ctx, folderID)
	if err != nil {
		return Report{}, err
	}
	docs, err := s.Docs.ListByFolder(ctx, folderID)
	if err != nil {
		return Report{}, err
	}

	in := analysis.ReportContext{
		Policy: analysis.PolicySnapshot{
			CompanyName:       folder.CompanyName,
			PolicyNumber:      folder.PolicyNumber,
			CoverageAmount:    folder.CoverageAmount,
			PolicyType:        folder.PolicyType,
			ExpiryDate:        folder.ExpiryDate,
			Exclusions:        folder.Exclusions,
			RequiredDocuments: folder.RequiredDocuments,
			Summary:           folder.PolicySummary,
		},
	}
	for _, doc := range docs {
		parsed := analysis.ParseDocumentPayload(doc.Analysis)
		in.Documents = append(in.Documents, analysis.ReportDocument{
			Filename: doc.Filename,
			Type:     doc.DocumentType,
			Summary:  doc.Summary,
			Amount:   doc.Amount,
			Date:     parsed.Date,
			Hospital: parsed.HospitalName,
		})
		for _, indicator := range parsed.FraudIndicators {
			in.FraudIndicators = append(in.FraudIndicators, fmt.Sprintf("[%s]: %s", doc.Filename, indicator))
		}
		in.TotalAmount += doc.Amount
	}

	data := s.Requestor.BuildReport(ctx, in)
	report := Report{
		ID:                 uuid.NewString(),
		FolderID:           folderID,
		TotalBillAmount:    data.TotalBillAmount,
		CoveredAmount:      data.CoveredAmount,
		UserPays:           data.UserPays,
		MissingDocuments:   data.MissingDocuments,
		FraudWarnings:      data.FraudWarnings,
		ExclusionsFound:    data.ExclusionsFound,
		ClaimGuide:         data.ClaimGuide,
		Checklist:          data.Checklist,
		Summary:            data.Summary,
		ApprovalLikelihood: data.ApprovalLikelihood,
		Recommendations:    data.Recommendations,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.Repo.Replace(ctx, report); err != nil {
		return Report{}, err
	}
	metrics.IncReportsGenerated()
	telemetry.Info("report generated", map[string]any{
		"folder_id":      folderID,
		"documents":      len(docs),
		"total_amount":   report.TotalBillAmount,
		"fraud_warnings": len(report.FraudWarnings),
	})
	return report, nil
}

// Latest returns the folder's current report.
func (s *Service) Latest(ctx context.Context, folderID string) (Report, error) {
	if _, err := s.Folders.GetByID(ctx, folderID); err != nil {
		return Report{}, err
	}
	return s.Repo.GetLatestByFolder(ctx, folderID)
}
