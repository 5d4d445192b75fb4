package analysis

import (
	"encoding/json"
	"strings"
)

// extractJSONObject locates the first "{" through the last "}" in a response
// and returns that span. Markdown fences and prose around the object are
// discarded. The second return is false when no such span exists.
func extractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// decodeObject parses a JSON object span into a generic map, keeping numbers
// as json.Number so integer and float renderings are both accepted.
func decodeObject(span string) (map[string]any, bool) {
	dec := json.NewDecoder(strings.NewReader(span))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, false
	}
	return obj, true
}

func stringField(obj map[string]any, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}

func numberField(obj map[string]any, key string) float64 {
	if v, ok := obj[key].(json.Number); ok {
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return 0
}

func boolField(obj map[string]any, key string) bool {
	v, _ := obj[key].(bool)
	return v
}

// stringListField accepts a list of strings, skipping non-string members.
func stringListField(obj map[string]any, key string) []string {
	raw, ok := obj[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func objectField(obj map[string]any, key string) map[string]any {
	if v, ok := obj[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

func clampPercent(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

// documentAnalysisFromObject builds a typed record from a decoded payload,
// tolerating missing or mistyped fields.
func documentAnalysisFromObject(obj map[string]any) DocumentAnalysis {
	compliance := objectField(obj, "policy_compliance")
	doc := DocumentAnalysis{
		DocumentType:       stringField(obj, "document_type"),
		HospitalName:       stringField(obj, "hospital_name"),
		DoctorName:         stringField(obj, "doctor_name"),
		PatientName:        stringField(obj, "patient_name"),
		Date:               stringField(obj, "date"),
		DiseaseType:        stringField(obj, "disease_type"),
		TreatmentDetails:   stringField(obj, "treatment_details"),
		Amount:             numberField(obj, "amount"),
		HasDoctorSignature: boolField(obj, "has_doctor_signature"),
		HasHospitalSeal:    boolField(obj, "has_hospital_seal"),
		HasDate:            boolField(obj, "has_date"),
		HasPatientDetails:  boolField(obj, "has_patient_details"),
		Completeness:       clampPercent(numberField(obj, "completeness")),
		Summary:            stringField(obj, "summary"),
		MissingInfo:        stringListField(obj, "missing_info"),
		FraudIndicators:    stringListField(obj, "fraud_indicators"),
		PolicyCompliance: Compliance{
			IsCovered:          boolField(compliance, "is_covered"),
			ExclusionViolated:  stringField(compliance, "exclusion_violated"),
			WaitingPeriodIssue: boolField(compliance, "waiting_period_issue"),
			Reason:             stringField(compliance, "reason"),
		},
	}
	if doc.DocumentType == "" {
		doc.DocumentType = "unknown"
	}
	return doc
}

// ParseDocumentPayload rebuilds a DocumentAnalysis from a persisted payload.
// Payloads that do not decode yield a zero record with Raw set, so callers
// can still apply the textual fraud heuristic.
func ParseDocumentPayload(raw []byte) DocumentAnalysis {
	obj, ok := decodeObject(string(raw))
	if !ok {
		return DocumentAnalysis{DocumentType: "unknown", Raw: raw}
	}
	doc := documentAnalysisFromObject(obj)
	doc.Raw = raw
	return doc
}

// HasFraudSignal reports whether a persisted analysis payload flags fraud.
// A decodable payload is checked structurally for a non-empty
// fraud_indicators list; an undecodable one falls back to a case-insensitive
// substring scan for "fraud".
func HasFraudSignal(raw []byte) bool {
	if len(raw) == 0 {
		return false
	}
	if obj, ok := decodeObject(string(raw)); ok {
		return len(stringListField(obj, "fraud_indicators")) > 0
	}
	return strings.Contains(strings.ToLower(string(raw)), "fraud")
}
