package documents

import (
	"context"

	"claimdesk-backend/internal/analysis"
	"claimdesk-backend/internal/folders"
	"claimdesk-backend/internal/shared/storage/object"
	"claimdesk-backend/internal/shared/telemetry"
)

// Service contains business logic for claim documents.
type Service struct {
	Repo    Repo
	Store   object.ObjectStore
	Folders *folders.Service
}

// ListByFolder returns a folder's documents, confirming the folder exists.
func (s *Service) ListByFolder(ctx context.Context, folderID string) ([]Document, error) {
	if _, err := s.Folders.Get(ctx, folderID); err != nil {
		return nil, err
	}
	return s.Repo.ListByFolder(ctx, folderID)
}

// Delete removes a document and its stored file, then re-derives the owning
// folder's status from the documents that remain.
func (s *Service) Delete(ctx context.Context, documentID string) error {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}

	if doc.StorageKey != "" {
		if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
			telemetry.Warn("stored file removal failed", map[string]any{
				"document_id": documentID,
				"storage_key": doc.StorageKey,
				"error":       err.Error(),
			})
		}
	}

	if err := s.Repo.Delete(ctx, documentID); err != nil {
		return err
	}

	_, _, err = s.Folders.RecomputeStatus(ctx, doc.FolderID)
	return err
}

// FolderSource adapts the documents repo to the view the folders service
// needs for status derivation and cascade deletion.
type FolderSource struct {
	Repo Repo
}

func (f FolderSource) StatsByFolder(ctx context.Context, folderID string) ([]folders.DocumentStat, error) {
	docs, err := f.Repo.ListByFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	stats := make([]folders.DocumentStat, 0, len(docs))
	for _, doc := range docs {
		stats = append(stats, folders.DocumentStat{
			Completeness: doc.Completeness,
			Fraud:        analysis.HasFraudSignal(doc.Analysis),
		})
	}
	return stats, nil
}

func (f FolderSource) StorageKeysByFolder(ctx context.Context, folderID string) ([]string, error) {
	docs, err := f.Repo.ListByFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.StorageKey != "" {
			keys = append(keys, doc.StorageKey)
		}
	}
	return keys, nil
}

func (f FolderSource) CountByFolder(ctx context.Context, folderID string) (int, error) {
	return f.Repo.CountByFolder(ctx, folderID)
}
