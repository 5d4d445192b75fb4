package documents

import (
	"encoding/json"
	"time"
)

// Document represents an uploaded claim artifact owned by a folder.
type Document struct {
	ID            string          `json:"id"`
	FolderID      string          `json:"folder_id"`
	Filename      string          `json:"filename"`
	StorageKey    string          `json:"-"`
	DocumentType  string          `json:"document_type"`
	ExtractedText string          `json:"-"`
	Analysis      json.RawMessage `json:"analysis,omitempty"`
	Completeness  int             `json:"completeness"`
	IsDuplicate   bool            `json:"is_duplicate"`
	Amount        float64         `json:"amount"`
	Summary       string          `json:"summary"`
	UploadedAt    time.Time       `json:"uploaded_at"`
}
