// Package analysis builds the structured-output prompts sent to the LLM and
// parses its responses into typed records. Every request shape degrades to a
// deterministic fallback record when the provider is unreachable or returns
// text without a parseable JSON object.
package analysis

import "encoding/json"

// PolicyFields is the structured record extracted from a policy document.
type PolicyFields struct {
	PolicyNumber      string   `json:"policy_number"`
	CompanyName       string   `json:"company_name"`
	CoverageAmount    string   `json:"coverage_amount"`
	PolicyType        string   `json:"policy_type"`
	ExpiryDate        string   `json:"expiry_date"`
	Exclusions        []string `json:"exclusions"`
	RequiredDocuments []string `json:"required_documents"`
	Summary           string   `json:"summary"`
}

// Compliance is the per-document coverage verdict.
type Compliance struct {
	IsCovered          bool   `json:"is_covered"`
	ExclusionViolated  string `json:"exclusion_violated"`
	WaitingPeriodIssue bool   `json:"waiting_period_issue"`
	Reason             string `json:"reason"`
}

// DocumentAnalysis is the fraud/compliance record for one claim document.
// Raw carries the canonical JSON payload persisted alongside the document.
type DocumentAnalysis struct {
	DocumentType       string          `json:"document_type"`
	HospitalName       string          `json:"hospital_name"`
	DoctorName         string          `json:"doctor_name"`
	PatientName        string          `json:"patient_name"`
	Date               string          `json:"date"`
	DiseaseType        string          `json:"disease_type"`
	TreatmentDetails   string          `json:"treatment_details"`
	Amount             float64         `json:"amount"`
	HasDoctorSignature bool            `json:"has_doctor_signature"`
	HasHospitalSeal    bool            `json:"has_hospital_seal"`
	HasDate            bool            `json:"has_date"`
	HasPatientDetails  bool            `json:"has_patient_details"`
	Completeness       int             `json:"completeness"`
	Summary            string          `json:"summary"`
	MissingInfo        []string        `json:"missing_info"`
	FraudIndicators    []string        `json:"fraud_indicators"`
	PolicyCompliance   Compliance      `json:"policy_compliance"`
	Raw                json.RawMessage `json:"-"`
}

// ChecklistItem is one named entry in an aggregate report checklist.
type ChecklistItem struct {
	Item      string `json:"item"`
	Completed bool   `json:"completed"`
}

// ReportData is the folder-level aggregate analysis record.
type ReportData struct {
	TotalBillAmount    float64         `json:"total_bill_amount"`
	CoveredAmount      float64         `json:"covered_amount"`
	UserPays           float64         `json:"user_pays"`
	MissingDocuments   []string        `json:"missing_documents"`
	FraudWarnings      []string        `json:"fraud_warnings"`
	ExclusionsFound    []string        `json:"exclusions_found"`
	ClaimGuide         []string        `json:"claim_guide"`
	Checklist          []ChecklistItem `json:"checklist"`
	Summary            string          `json:"summary"`
	ApprovalLikelihood string          `json:"claim_approval_likelihood"`
	Recommendations    []string        `json:"recommendations"`
}

// PolicySnapshot is the policy context injected into prompts.
type PolicySnapshot struct {
	CompanyName       string
	PolicyNumber      string
	CoverageAmount    string
	PolicyType        string
	ExpiryDate        string
	Exclusions        []string
	RequiredDocuments []string
	Summary           string
}

// DocumentContext carries everything the per-document analysis prompt needs.
type DocumentContext struct {
	Policy PolicySnapshot
	// ExistingSummaries holds one "filename: summary" line per document
	// already in the folder.
	ExistingSummaries []string
	Text              string
}

// ReportDocument is one document's contribution to the aggregate prompt.
type ReportDocument struct {
	Filename string
	Type     string
	Summary  string
	Amount   float64
	Date     string
	Hospital string
}

// ReportContext carries the inputs to the folder-level aggregate analysis.
type ReportContext struct {
	Policy    PolicySnapshot
	Documents []ReportDocument
	// FraudIndicators are document-level indicators, already prefixed with
	// their source filename.
	FraudIndicators []string
	TotalAmount     float64
}

// QuestionContext carries the inputs to a free-form Q&A request.
type QuestionContext struct {
	Policy            PolicySnapshot
	DocumentSummaries []string
	Question          string
}
