package folders

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"
	"time"
)

type fakeDocSource struct {
	stats map[string][]DocumentStat
	keys  map[string][]string
}

func (f *fakeDocSource) StatsByFolder(_ context.Context, folderID string) ([]DocumentStat, error) {
	return f.stats[folderID], nil
}

func (f *fakeDocSource) StorageKeysByFolder(_ context.Context, folderID string) ([]string, error) {
	return f.keys[folderID], nil
}

func (f *fakeDocSource) CountByFolder(_ context.Context, folderID string) (int, error) {
	return len(f.stats[folderID]), nil
}

type fakeStore struct {
	deleted []string
	failOn  string
}

func (f *fakeStore) Save(context.Context, string, string, io.Reader) (string, int64, string, error) {
	return "", 0, "", errors.New("not used")
}

func (f *fakeStore) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not used")
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	if key == f.failOn {
		return errors.New("backend unavailable")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func seedFolder(t *testing.T, repo Repo, folder Folder) Folder {
	t.Helper()
	if folder.Status == "" {
		folder.Status = StatusOngoing
	}
	folder.CreatedAt = time.Now().UTC()
	folder.UpdatedAt = folder.CreatedAt
	if err := repo.Create(context.Background(), folder); err != nil {
		t.Fatalf("seed folder: %v", err)
	}
	return folder
}

func TestServiceDeleteRemovesStoredFiles(t *testing.T) {
	repo := NewMemoryRepo()
	store := &fakeStore{}
	svc := &Service{
		Repo: repo,
		Docs: &fakeDocSource{keys: map[string][]string{
			"folder-1": {"folder/a.png", "folder/b.pdf"},
		}},
		Store: store,
	}
	seedFolder(t, repo, Folder{ID: "folder-1", PolicyFileKey: "policies/p.pdf"})

	if err := svc.Delete(context.Background(), "folder-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	sort.Strings(store.deleted)
	want := []string{"folder/a.png", "folder/b.pdf", "policies/p.pdf"}
	if len(store.deleted) != 3 {
		t.Fatalf("deleted keys: %v, want %v", store.deleted, want)
	}
	for i, key := range want {
		if store.deleted[i] != key {
			t.Fatalf("deleted keys: %v, want %v", store.deleted, want)
		}
	}
	if _, err := repo.GetByID(context.Background(), "folder-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("folder row not removed: %v", err)
	}
}

func TestServiceDeleteSurvivesFileRemovalFailure(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{
		Repo:  repo,
		Docs:  &fakeDocSource{keys: map[string][]string{"folder-1": {"folder/stuck.png"}}},
		Store: &fakeStore{failOn: "folder/stuck.png"},
	}
	seedFolder(t, repo, Folder{ID: "folder-1"})

	if err := svc.Delete(context.Background(), "folder-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "folder-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("folder row not removed after file failure: %v", err)
	}
}

func TestServiceDeleteMissingFolder(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo(), Docs: &fakeDocSource{}, Store: &fakeStore{}}
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceRecomputeStatusPersists(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{
		Repo: repo,
		Docs: &fakeDocSource{stats: map[string][]DocumentStat{
			"folder-1": {{Completeness: 96}, {Completeness: 98}},
		}},
	}
	seedFolder(t, repo, Folder{ID: "folder-1"})

	status, completion, err := svc.RecomputeStatus(context.Background(), "folder-1")
	if err != nil {
		t.Fatalf("RecomputeStatus: %v", err)
	}
	if status != StatusCompleted || completion != 97 {
		t.Fatalf("got %s/%d, want completed/97", status, completion)
	}
	folder, err := repo.GetByID(context.Background(), "folder-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if folder.Status != StatusCompleted || folder.CompletionPercentage != 97 {
		t.Fatalf("status not persisted: %s/%d", folder.Status, folder.CompletionPercentage)
	}
}

func TestServiceDashboard(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo, Docs: &fakeDocSource{}}
	seedFolder(t, repo, Folder{ID: "f1", Status: StatusOngoing})
	seedFolder(t, repo, Folder{ID: "f2", Status: StatusValid})
	seedFolder(t, repo, Folder{ID: "f3", Status: StatusFraud})
	seedFolder(t, repo, Folder{ID: "f4", Status: StatusCompleted})
	seedFolder(t, repo, Folder{ID: "f5", Status: StatusOngoing})

	stats, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	want := DashboardStats{Total: 5, Valid: 1, Fraud: 1, Ongoing: 2, Completed: 1}
	if stats != want {
		t.Fatalf("dashboard: %+v, want %+v", stats, want)
	}
}
