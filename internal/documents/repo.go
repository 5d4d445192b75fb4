package documents

import "context"

// Repo defines persistence operations for claim documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	// ListByFolder returns a folder's documents in upload order.
	ListByFolder(ctx context.Context, folderID string) ([]Document, error)
	Delete(ctx context.Context, documentID string) error
	CountByFolder(ctx context.Context, folderID string) (int, error)
}
