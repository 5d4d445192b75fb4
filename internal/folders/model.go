package folders

import "time"

// Folder is one insurance claim workspace, created from a validated policy
// document.
type Folder struct {
	ID                   string    `json:"id"`
	FolderName           string    `json:"folder_name"`
	PolicyNumber         string    `json:"policy_number"`
	CompanyName          string    `json:"company_name"`
	CoverageAmount       string    `json:"coverage_amount"`
	PolicyType           string    `json:"policy_type"`
	ExpiryDate           string    `json:"expiry_date"`
	Exclusions           []string  `json:"exclusions"`
	RequiredDocuments    []string  `json:"required_documents"`
	Status               string    `json:"status"`
	CompletionPercentage int       `json:"completion_percentage"`
	PolicySummary        string    `json:"policy_summary"`
	PolicyFileKey        string    `json:"-"`
	PolicyValidated      bool      `json:"policy_validated"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
