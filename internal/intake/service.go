// Package intake orchestrates the document ingestion pipeline: store the
// upload, extract its text, gate on readability and duplicates, run the LLM
// analysis, and persist the result. Hard gates reject a file; the analysis
// step never does.
package intake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"claimdesk-backend/internal/analysis"
	"claimdesk-backend/internal/documents"
	"claimdesk-backend/internal/folders"
	"claimdesk-backend/internal/shared/metrics"
	"claimdesk-backend/internal/shared/storage/object"
	"claimdesk-backend/internal/shared/telemetry"
	"claimdesk-backend/internal/shared/util"
	"claimdesk-backend/internal/similarity"
)

// Minimum extracted-text lengths below which an upload is rejected as
// unreadable. The policy document carries the folder's rulebook and is held
// to a higher bar.
const (
	MinPolicyTextLen   = 50
	MinDocumentTextLen = 20
)

// fullCompletion blocks further uploads once reached.
const fullCompletion = 100

var (
	ErrNoFiles         = errors.New("no files uploaded")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrUnreadable      = errors.New("could not extract text from document")
	ErrNotAPolicy      = errors.New("not a valid insurance policy document")
	ErrFolderFull      = errors.New("folder is complete, no more uploads allowed")
)

// Failure reasons reported per file in a batch result.
const (
	reasonUnsupported = "unsupported file type"
	reasonUnreadable  = "could not extract text"
	reasonDuplicate   = "duplicate document"
	reasonInternal    = "internal error"
)

// TextExtractor turns an uploaded payload into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, r io.Reader, fileName string) (string, error)
}

// Service runs the intake pipeline for policy and claim documents.
type Service struct {
	Folders   folders.Repo
	FolderSvc *folders.Service
	Docs      documents.Repo
	Store     object.ObjectStore
	Extractor TextExtractor
	Requestor *analysis.Requestor
}

// File is one upload in a batch. Open is called once when the pipeline is
// ready to consume the payload.
type File struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FailedUpload records why one file in a batch was rejected.
type FailedUpload struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// BatchResult summarizes a claim-document batch upload.
type BatchResult struct {
	Uploaded      []documents.Document `json:"uploaded"`
	Failed        []FailedUpload       `json:"failed"`
	TotalUploaded int                  `json:"total_uploaded"`
	TotalFailed   int                  `json:"total_failed"`
}

// CreatePolicyFolder validates a policy upload and atomically creates its
// folder. The stored file is removed again on every rejection path.
func (s *Service) CreatePolicyFolder(ctx context.Context, folderName string, file File) (folders.Folder, error) {
	start := time.Now()
	defer func() { metrics.ObserveIntakeDurationMs(float64(time.Since(start).Milliseconds())) }()

	if folderName == "" {
		folderName = "New Policy"
	}
	fileName, err := util.SanitizeFileName(file.Name)
	if err != nil || !util.AllowedUploadExt(fileName) {
		metrics.IncIntakeRejected()
		return folders.Folder{}, ErrUnsupportedType
	}

	key, text, err := s.storeAndExtract(ctx, "policies", fileName, file)
	if err != nil {
		metrics.IncIntakeRejected()
		return folders.Folder{}, err
	}
	if len(text) < MinPolicyTextLen {
		s.discard(ctx, key)
		metrics.IncIntakeRejected()
		return folders.Folder{}, ErrUnreadable
	}

	if !s.Requestor.ValidatePolicy(ctx, text) {
		s.discard(ctx, key)
		metrics.IncIntakeRejected()
		return folders.Folder{}, ErrNotAPolicy
	}

	fields := s.Requestor.ExtractPolicyFields(ctx, text)
	now := time.Now().UTC()
	folder := folders.Folder{
		ID:                uuid.NewString(),
		FolderName:        folderName,
		PolicyNumber:      fields.PolicyNumber,
		CompanyName:       fields.CompanyName,
		CoverageAmount:    fields.CoverageAmount,
		PolicyType:        fields.PolicyType,
		ExpiryDate:        fields.ExpiryDate,
		Exclusions:        fields.Exclusions,
		RequiredDocuments: fields.RequiredDocuments,
		Status:            folders.StatusOngoing,
		PolicySummary:     fields.Summary,
		PolicyFileKey:     key,
		PolicyValidated:   true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.Folders.Create(ctx, folder); err != nil {
		s.discard(ctx, key)
		return folders.Folder{}, err
	}

	metrics.IncIntakeAccepted()
	telemetry.Info("policy folder created", map[string]any{
		"folder_id":     folder.ID,
		"policy_number": folder.PolicyNumber,
		"synthetic":     analysis.IsSyntheticPolicyNumber(folder.PolicyNumber),
	})
	return folder, nil
}

// UploadDocuments runs the intake pipeline for a batch of claim documents.
// Each file passes or fails independently; the folder's status is re-derived
// once after the whole batch.
func (s *Service) UploadDocuments(ctx context.Context, folderID string, files []File) (BatchResult, error) {
	folder, err := s.Folders.GetByID(ctx, folderID)
	if err != nil {
		return BatchResult{}, err
	}
	if folder.CompletionPercentage >= fullCompletion {
		return BatchResult{}, ErrFolderFull
	}
	if len(files) == 0 {
		return BatchResult{}, ErrNoFiles
	}

	existing, err := s.Docs.ListByFolder(ctx, folderID)
	if err != nil {
		return BatchResult{}, err
	}
	texts := make([]string, 0, len(existing))
	for _, doc := range existing {
		texts = append(texts, doc.ExtractedText)
	}

	result := BatchResult{Uploaded: []documents.Document{}, Failed: []FailedUpload{}}
	for _, file := range files {
		if file.Name == "" {
			continue
		}
		doc, reason := s.processDocument(ctx, folder, file, texts)
		if reason != "" {
			metrics.IncIntakeRejected()
			result.Failed = append(result.Failed, FailedUpload{Filename: file.Name, Reason: reason})
			continue
		}
		metrics.IncIntakeAccepted()
		result.Uploaded = append(result.Uploaded, doc)
		texts = append(texts, doc.ExtractedText)
	}
	result.TotalUploaded = len(result.Uploaded)
	result.TotalFailed = len(result.Failed)

	status, completion, err := s.FolderSvc.RecomputeStatus(ctx, folderID)
	if err != nil {
		return result, err
	}
	telemetry.Info("document batch processed", map[string]any{
		"folder_id":  folderID,
		"uploaded":   result.TotalUploaded,
		"failed":     result.TotalFailed,
		"status":     status,
		"completion": completion,
	})
	return result, nil
}

// processDocument takes one file through the pipeline. A non-empty reason
// means the file was rejected and any stored copy already removed.
func (s *Service) processDocument(ctx context.Context, folder folders.Folder, file File, existingTexts []string) (documents.Document, string) {
	start := time.Now()
	defer func() { metrics.ObserveIntakeDurationMs(float64(time.Since(start).Milliseconds())) }()

	fileName, err := util.SanitizeFileName(file.Name)
	if err != nil || !util.AllowedUploadExt(fileName) {
		return documents.Document{}, reasonUnsupported
	}

	key, text, err := s.storeAndExtract(ctx, folder.ID, fileName, file)
	if err != nil {
		return documents.Document{}, reasonUnreadable
	}
	if len(text) < MinDocumentTextLen {
		s.discard(ctx, key)
		return documents.Document{}, reasonUnreadable
	}

	for _, prior := range existingTexts {
		if similarity.IsDuplicate(text, prior) {
			s.discard(ctx, key)
			return documents.Document{}, reasonDuplicate
		}
	}

	a := s.Requestor.AnalyzeDocument(ctx, analysis.DocumentContext{
		Policy:            policySnapshot(folder),
		ExistingSummaries: existingSummaries(ctx, s.Docs, folder.ID),
		Text:              text,
	})

	doc := documents.Document{
		ID:            uuid.NewString(),
		FolderID:      folder.ID,
		Filename:      fileName,
		StorageKey:    key,
		DocumentType:  a.DocumentType,
		ExtractedText: text,
		Analysis:      a.Raw,
		Completeness:  a.Completeness,
		IsDuplicate:   false,
		Amount:        a.Amount,
		Summary:       a.Summary,
		UploadedAt:    time.Now().UTC(),
	}
	if err := s.Docs.Create(ctx, doc); err != nil {
		s.discard(ctx, key)
		telemetry.Error("document persist failed", map[string]any{
			"folder_id": folder.ID,
			"filename":  fileName,
			"error":     err.Error(),
		})
		return documents.Document{}, reasonInternal
	}
	return doc, ""
}

// storeAndExtract saves the payload and extracts its text from the stored
// copy. On extraction failure the stored copy is removed.
func (s *Service) storeAndExtract(ctx context.Context, namespace, fileName string, file File) (string, string, error) {
	body, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	key, _, _, err := s.Store.Save(ctx, namespace, fileName, body)
	body.Close()
	if err != nil {
		return "", "", err
	}

	stored, err := s.Store.Open(ctx, key)
	if err != nil {
		s.discard(ctx, key)
		return "", "", err
	}
	text, err := s.Extractor.ExtractText(ctx, stored, fileName)
	stored.Close()
	if err != nil {
		s.discard(ctx, key)
		telemetry.Warn("text extraction failed", map[string]any{
			"filename": fileName,
			"error":    err.Error(),
		})
		return "", "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return key, text, nil
}

func (s *Service) discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.Store.Delete(ctx, key); err != nil {
		telemetry.Warn("stored file removal failed", map[string]any{
			"storage_key": key,
			"error":       err.Error(),
		})
	}
}

func policySnapshot(folder folders.Folder) analysis.PolicySnapshot {
	return analysis.PolicySnapshot{
		CompanyName:       folder.CompanyName,
		PolicyNumber:      folder.PolicyNumber,
		CoverageAmount:    folder.CoverageAmount,
		PolicyType:        folder.PolicyType,
		ExpiryDate:        folder.ExpiryDate,
		Exclusions:        folder.Exclusions,
		RequiredDocuments: folder.RequiredDocuments,
		Summary:           folder.PolicySummary,
	}
}

func existingSummaries(ctx context.Context, repo documents.Repo, folderID string) []string {
	docs, err := repo.ListByFolder(ctx, folderID)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(docs))
	for _, doc := range docs {
		out = append(out, fmt.Sprintf("%s: %s", doc.Filename, doc.Summary))
	}
	return out
}
