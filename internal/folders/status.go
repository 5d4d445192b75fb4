package folders

// Folder lifecycle statuses.
const (
	StatusOngoing   = "ongoing"
	StatusValid     = "valid"
	StatusCompleted = "completed"
	StatusFraud     = "fraud"
)

// Status thresholds on the folder completion percentage.
const (
	completedThreshold = 95
	validThreshold     = 70
)

// DocumentStat is the slice of a document the status engine looks at.
type DocumentStat struct {
	Completeness int
	Fraud        bool
}

// DeriveStatus computes a folder's status and completion percentage from its
// current documents. Completion is the truncated mean of document
// completeness scores, 0 when the folder is empty. Any fraud-flagged
// document forces the fraud status regardless of completion.
func DeriveStatus(stats []DocumentStat) (string, int) {
	if len(stats) == 0 {
		return StatusOngoing, 0
	}

	sum := 0
	fraud := false
	for _, stat := range stats {
		sum += stat.Completeness
		fraud = fraud || stat.Fraud
	}
	completion := sum / len(stats)

	switch {
	case fraud:
		return StatusFraud, completion
	case completion >= completedThreshold:
		return StatusCompleted, completion
	case completion >= validThreshold:
		return StatusValid, completion
	default:
		return StatusOngoing, completion
	}
}
