package reports

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("report not found")

// Repo defines persistence operations for analysis reports.
type Repo interface {
	// Replace deletes any prior report for the folder and stores the new one.
	Replace(ctx context.Context, report Report) error
	GetLatestByFolder(ctx context.Context, folderID string) (Report, error)
}
