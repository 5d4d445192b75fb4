package reports

import (
	"context"
	"sync"
)

// MemoryRepo stores reports in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu       sync.RWMutex
	byFolder map[string]Report
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byFolder: make(map[string]Report)}
}

// Replace swaps the folder's report for the given one.
func (r *MemoryRepo) Replace(ctx context.Context, report Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byFolder[report.FolderID] = report
	return nil
}

// GetLatestByFolder returns the folder's current report.
func (r *MemoryRepo) GetLatestByFolder(ctx context.Context, folderID string) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.byFolder[folderID]
	if !ok {
		return Report{}, ErrNotFound
	}
	return report, nil
}
