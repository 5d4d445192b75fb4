package qna

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores Q&A entries in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu       sync.RWMutex
	byFolder map[string][]Entry
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byFolder: make(map[string][]Entry)}
}

// Create stores the entry.
func (r *MemoryRepo) Create(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byFolder[entry.FolderID] = append(r.byFolder[entry.FolderID], entry)
	return nil
}

// ListByFolder returns a folder's history, newest first.
func (r *MemoryRepo) ListByFolder(ctx context.Context, folderID string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.byFolder[folderID]))
	copy(out, r.byFolder[folderID])
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
