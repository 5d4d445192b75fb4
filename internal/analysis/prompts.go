package analysis

import (
	"fmt"
	"strings"
)

const (
	validationTextLimit = 2000
	policySnippetLimit  = 500
)

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return "- " + strings.Join(items, "\n- ")
}

func validatePolicyPrompt(text string) string {
	return fmt.Sprintf(`Is this text from a genuine insurance policy document?

Text: %s

Look for: policy number, coverage details, insurance company name, terms and conditions.
Answer with just YES or NO.`, truncateRunes(text, validationTextLimit))
}

func extractPolicyPrompt(text string) string {
	return fmt.Sprintf(`Extract key information from this insurance policy document:

Text: %s

Provide a JSON response with these exact keys (extract actual values from the text):
{
    "policy_number": "extracted policy number",
    "company_name": "insurance company name",
    "coverage_amount": "coverage amount with currency symbol",
    "policy_type": "type of policy (health/life/vehicle etc)",
    "expiry_date": "expiry/validity date in DD-MMM-YYYY format",
    "exclusions": ["list", "of", "exclusions", "and", "limitations"],
    "required_documents": ["list", "of", "required", "documents", "for", "claims"],
    "summary": "comprehensive 2-3 sentence summary of policy coverage and key benefits"
}

Extract actual values from the document. Be thorough with exclusions and required documents.
Return ONLY valid JSON, no additional text or markdown.`, text)
}

func analyzeDocumentPrompt(in DocumentContext) string {
	existing := "None yet"
	if len(in.ExistingSummaries) > 0 {
		existing = bulletList(in.ExistingSummaries)
	}
	return fmt.Sprintf(`You are an expert insurance fraud detection AI. Analyze this medical/insurance document for claim processing.

POLICY CONTEXT (THE RULEBOOK):
- Coverage: %s
- Exclusions: %s
- Required Documents: %s
- Policy Summary: %s

EXISTING DOCUMENTS IN THIS CLAIM:
%s

CURRENT DOCUMENT TEXT TO ANALYZE:
%s

CRITICAL FRAUD DETECTION CHECKS:
1. Date Consistency: Check if document dates are within policy validity period
2. Treatment Exclusions: Verify treatments/procedures against policy exclusions
3. Amount Anomalies: Flag unusually high amounts or duplicate charges
4. Cross-Document Consistency: Check if dates, patient names, and diagnoses match across documents
5. Required Signatures/Seals: Verify presence of doctor signatures and hospital seals
6. Waiting Period Violations: Check if claim is made during waiting periods
7. Pre-existing Conditions: Flag treatments for pre-existing conditions if not covered

Provide detailed analysis in JSON format:
{
    "document_type": "bill/prescription/discharge_summary/medical_report/diagnostic_report/other",
    "hospital_name": "hospital/clinic name or null",
    "doctor_name": "doctor name or null",
    "patient_name": "patient name or null",
    "date": "document date in DD-MMM-YYYY or null",
    "disease_type": "disease/condition mentioned or null",
    "treatment_details": "brief description of treatment",
    "amount": numeric amount in rupees or 0,
    "has_doctor_signature": true/false,
    "has_hospital_seal": true/false,
    "has_date": true/false,
    "has_patient_details": true/false,
    "completeness": percentage 0-100 based on document completeness,
    "summary": "brief 2-3 sentence summary",
    "missing_info": ["critical", "missing", "information"],
    "fraud_indicators": ["Specific fraud concerns with severity level (HIGH/MEDIUM/LOW)"],
    "policy_compliance": {
        "is_covered": true/false,
        "exclusion_violated": "specific exclusion name or null",
        "waiting_period_issue": true/false,
        "reason": "explanation of coverage decision"
    }
}

Be thorough and strict. Flag ALL suspicious patterns.
Return ONLY valid JSON.`,
		in.Policy.CoverageAmount,
		strings.Join(in.Policy.Exclusions, ", "),
		strings.Join(in.Policy.RequiredDocuments, ", "),
		truncateRunes(in.Policy.Summary, policySnippetLimit),
		existing,
		in.Text)
}

func reportPrompt(in ReportContext) string {
	lines := make([]string, 0, len(in.Documents))
	for _, d := range in.Documents {
		lines = append(lines, fmt.Sprintf("- %s (%s): %s | Amount: %.2f | Date: %s | Hospital: %s",
			d.Filename, d.Type, d.Summary, d.Amount, d.Date, d.Hospital))
	}
	indicators := "None detected at document level"
	if len(in.FraudIndicators) > 0 {
		indicators = strings.Join(in.FraudIndicators, "\n")
	}
	return fmt.Sprintf(`You are an expert insurance claim analyst. Perform comprehensive analysis.

POLICY DETAILS:
- Company: %s
- Policy Number: %s
- Coverage: %s
- Policy Type: %s
- Expiry: %s
- Exclusions: %s
- Required Documents: %s
- Policy Summary: %s

UPLOADED DOCUMENTS (%d total):
%s

Total Claimed Amount: %.2f

DETECTED FRAUD INDICATORS:
%s

ANALYSIS TASKS:
1. Cross-Document Verification: patient names, date consistency and chronological order, hospital/doctor consistency, duplicate charges
2. Policy Compliance Deep Check: match expenses against coverage limits, identify excluded expenses, waiting period violations, required documents present
3. Fraud Pattern Detection: unusual billing, inflated costs, missing signatures/seals/dates, inconsistent diagnoses, timeline anomalies
4. Financial Calculation: total eligible amount, co-payments and deductibles, subtract non-covered expenses, apply policy limits

Provide comprehensive analysis in JSON:
{
    "total_bill_amount": %.2f,
    "covered_amount": calculated eligible amount after all checks,
    "user_pays": amount user must pay (deductibles + non-covered),
    "missing_documents": ["specific required documents not yet uploaded"],
    "fraud_warnings": ["SEVERITY - Description - Evidence from documents"],
    "exclusions_found": ["specific expenses/treatments that fall under exclusions"],
    "claim_guide": ["Step 1: specific actionable step", "Step 2: next step with details"],
    "checklist": [{"item": "named checklist item", "completed": true/false}],
    "summary": "4-5 sentence comprehensive analysis covering claim viability, major concerns, coverage assessment, fraud risk level, and next steps",
    "claim_approval_likelihood": "HIGH/MEDIUM/LOW with explanation",
    "recommendations": ["specific actions to improve claim success"]
}

Be thorough, realistic, and prioritize fraud detection.
Return ONLY valid JSON.`,
		in.Policy.CompanyName,
		in.Policy.PolicyNumber,
		in.Policy.CoverageAmount,
		in.Policy.PolicyType,
		in.Policy.ExpiryDate,
		strings.Join(in.Policy.Exclusions, ", "),
		strings.Join(in.Policy.RequiredDocuments, ", "),
		in.Policy.Summary,
		len(in.Documents),
		strings.Join(lines, "\n"),
		in.TotalAmount,
		indicators,
		in.TotalAmount)
}

func answerPrompt(in QuestionContext) string {
	docs := "None uploaded yet"
	if len(in.DocumentSummaries) > 0 {
		docs = bulletList(in.DocumentSummaries)
	}
	return fmt.Sprintf(`Answer this question about the insurance policy and uploaded documents.

POLICY DETAILS:
- Company: %s
- Coverage: %s
- Type: %s
- Expiry: %s
- Exclusions: %s
- Summary: %s

UPLOADED DOCUMENTS:
%s

USER QUESTION: %s

Provide a clear, concise, and helpful answer based on the policy details and documents.
If the question cannot be answered from available information, say so clearly.`,
		in.Policy.CompanyName,
		in.Policy.CoverageAmount,
		in.Policy.PolicyType,
		in.Policy.ExpiryDate,
		strings.Join(in.Policy.Exclusions, ", "),
		in.Policy.Summary,
		docs,
		in.Question)
}
