package reports

import (
	"time"

	"claimdesk-backend/internal/analysis"
)

// Report is the folder-level claim-readiness and fraud-risk record. A folder
// holds at most one: regenerating replaces the prior report.
type Report struct {
	ID                 string                   `json:"id"`
	FolderID           string                   `json:"folder_id"`
	TotalBillAmount    float64                  `json:"total_bill_amount"`
	CoveredAmount      float64                  `json:"covered_amount"`
	UserPays           float64                  `json:"user_pays"`
	MissingDocuments   []string                 `json:"missing_documents"`
	FraudWarnings      []string                 `json:"fraud_warnings"`
	ExclusionsFound    []string                 `json:"exclusions_found"`
	ClaimGuide         []string                 `json:"claim_guide"`
	Checklist          []analysis.ChecklistItem `json:"checklist"`
	Summary            string                   `json:"summary"`
	ApprovalLikelihood string                   `json:"claim_approval_likelihood"`
	Recommendations    []string                 `json:"recommendations"`
	CreatedAt          time.Time                `json:"created_at"`
}
