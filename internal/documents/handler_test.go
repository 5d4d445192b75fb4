package documents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"claimdesk-backend/internal/folders"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service, *folders.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _, folderRepo, _ := newTestService(t)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router, svc, folderRepo
}

func TestListDocumentsEmptyFolder(t *testing.T) {
	router, _, folderRepo := newTestRouter(t)
	_ = folderRepo.Create(context.Background(), folders.Folder{ID: "folder-1", Status: folders.StatusOngoing})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/folders/folder-1/documents", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "[]" {
		t.Fatalf("empty folder body: %s", rec.Body.String())
	}
}

func TestListDocumentsUnknownFolder(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/folders/missing/documents", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestListDocumentsReturnsUploadOrder(t *testing.T) {
	router, svc, folderRepo := newTestRouter(t)
	_ = folderRepo.Create(context.Background(), folders.Folder{ID: "folder-1", Status: folders.StatusOngoing})
	_ = svc.Repo.Create(context.Background(), Document{ID: "doc-2", FolderID: "folder-1", Filename: "second.png", UploadedAt: time.Now()})
	_ = svc.Repo.Create(context.Background(), Document{ID: "doc-1", FolderID: "folder-1", Filename: "first.png", UploadedAt: time.Now().Add(-time.Hour)})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/folders/folder-1/documents", nil)
	router.ServeHTTP(rec, req)

	var got []Document
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].Filename != "first.png" || got[1].Filename != "second.png" {
		t.Fatalf("order: %+v", got)
	}
}

func TestDeleteDocumentEndpoint(t *testing.T) {
	router, svc, folderRepo := newTestRouter(t)
	_ = folderRepo.Create(context.Background(), folders.Folder{ID: "folder-1", Status: folders.StatusValid})
	_ = svc.Repo.Create(context.Background(), Document{ID: "doc-1", FolderID: "folder-1", Filename: "bill.png"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/doc-1", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: %d body: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/doc-1", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status: %d", rec.Code)
	}
}
