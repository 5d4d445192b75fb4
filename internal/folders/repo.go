package folders

import "context"

// Repo defines persistence operations for policy folders.
type Repo interface {
	Create(ctx context.Context, folder Folder) error
	GetByID(ctx context.Context, folderID string) (Folder, error)
	// List returns all folders, newest first.
	List(ctx context.Context) ([]Folder, error)
	Delete(ctx context.Context, folderID string) error
	UpdateStatus(ctx context.Context, folderID, status string, completion int) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}
