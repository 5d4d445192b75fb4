package qna

import "context"

// Repo defines persistence operations for Q&A history.
type Repo interface {
	Create(ctx context.Context, entry Entry) error
	// ListByFolder returns a folder's history, newest first.
	ListByFolder(ctx context.Context, folderID string) ([]Entry, error)
}
