package folders

import (
	"context"

	"claimdesk-backend/internal/shared/storage/object"
	"claimdesk-backend/internal/shared/telemetry"
)

// DocumentSource is the view of the documents aggregate the folder service
// needs: per-document stats for the status engine, stored file keys for
// cascade deletion, and counts for responses.
type DocumentSource interface {
	StatsByFolder(ctx context.Context, folderID string) ([]DocumentStat, error)
	StorageKeysByFolder(ctx context.Context, folderID string) ([]string, error)
	CountByFolder(ctx context.Context, folderID string) (int, error)
}

// Service contains business logic for folders.
type Service struct {
	Repo  Repo
	Docs  DocumentSource
	Store object.ObjectStore
}

// DashboardStats summarizes folders per lifecycle status.
type DashboardStats struct {
	Total     int `json:"total"`
	Valid     int `json:"valid"`
	Fraud     int `json:"fraud"`
	Ongoing   int `json:"ongoing"`
	Completed int `json:"completed"`
}

// Get returns a folder by ID.
func (s *Service) Get(ctx context.Context, folderID string) (Folder, error) {
	return s.Repo.GetByID(ctx, folderID)
}

// List returns all folders, newest first.
func (s *Service) List(ctx context.Context) ([]Folder, error) {
	return s.Repo.List(ctx)
}

// DocumentCount returns how many documents a folder holds.
func (s *Service) DocumentCount(ctx context.Context, folderID string) (int, error) {
	return s.Docs.CountByFolder(ctx, folderID)
}

// Dashboard tallies folders per status.
func (s *Service) Dashboard(ctx context.Context) (DashboardStats, error) {
	counts, err := s.Repo.CountByStatus(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	stats := DashboardStats{
		Valid:     counts[StatusValid],
		Fraud:     counts[StatusFraud],
		Ongoing:   counts[StatusOngoing],
		Completed: counts[StatusCompleted],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

// Delete removes a folder, its stored policy file, and every stored document
// file. File removal failures are logged and do not block the row deletion.
func (s *Service) Delete(ctx context.Context, folderID string) error {
	folder, err := s.Repo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}

	keys, err := s.Docs.StorageKeysByFolder(ctx, folderID)
	if err != nil {
		return err
	}
	if folder.PolicyFileKey != "" {
		keys = append(keys, folder.PolicyFileKey)
	}
	for _, key := range keys {
		if err := s.Store.Delete(ctx, key); err != nil {
			telemetry.Warn("stored file removal failed", map[string]any{
				"folder_id":   folderID,
				"storage_key": key,
				"error":       err.Error(),
			})
		}
	}

	return s.Repo.Delete(ctx, folderID)
}

// RecomputeStatus re-derives a folder's status and completion from its
// current documents and persists the result.
func (s *Service) RecomputeStatus(ctx context.Context, folderID string) (string, int, error) {
	stats, err := s.Docs.StatsByFolder(ctx, folderID)
	if err != nil {
		return "", 0, err
	}
	status, completion := DeriveStatus(stats)
	if err := s.Repo.UpdateStatus(ctx, folderID, status, completion); err != nil {
		return "", 0, err
	}
	return status, completion, nil
}
