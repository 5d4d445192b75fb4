package folders

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores folders in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Folder
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Folder)}
}

// Create stores the folder.
func (r *MemoryRepo) Create(ctx context.Context, folder Folder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[folder.ID] = folder
	return nil
}

// GetByID returns a folder by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, folderID string) (Folder, error) {
	if err := ctx.Err(); err != nil {
		return Folder{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	folder, ok := r.byID[folderID]
	if !ok {
		return Folder{}, ErrNotFound
	}
	return folder, nil
}

// List returns all folders, newest first.
func (r *MemoryRepo) List(ctx context.Context) ([]Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Folder, 0, len(r.byID))
	for _, folder := range r.byID {
		out = append(out, folder)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a folder.
func (r *MemoryRepo) Delete(ctx context.Context, folderID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[folderID]; !ok {
		return ErrNotFound
	}
	delete(r.byID, folderID)
	return nil
}

// UpdateStatus sets the status and completion percentage.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, folderID, status string, completion int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	folder, ok := r.byID[folderID]
	if !ok {
		return ErrNotFound
	}
	folder.Status = status
	folder.CompletionPercentage = completion
	folder.UpdatedAt = time.Now().UTC()
	r.byID[folderID] = folder
	return nil
}

// CountByStatus tallies folders per lifecycle status.
func (r *MemoryRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int)
	for _, folder := range r.byID {
		counts[folder.Status]++
	}
	return counts, nil
}
