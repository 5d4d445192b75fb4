package intake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"claimdesk-backend/internal/analysis"
	"claimdesk-backend/internal/documents"
	"claimdesk-backend/internal/folders"
)

// memStore is a minimal in-memory object store.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	n       int
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Save(_ context.Context, namespace, fileName string, r io.Reader) (string, int64, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	key := fmt.Sprintf("%s/%d_%s", namespace, m.n, fileName)
	m.objects[key] = data
	return key, int64(len(data)), "application/octet-stream", nil
}

func (m *memStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// fakeExtractor maps file names to extracted text.
type fakeExtractor struct {
	texts map[string]string
	errs  map[string]error
}

func (f *fakeExtractor) ExtractText(_ context.Context, r io.Reader, fileName string) (string, error) {
	_, _ = io.ReadAll(r)
	if err := f.errs[fileName]; err != nil {
		return "", err
	}
	return f.texts[fileName], nil
}

// queueClient feeds scripted responses to the requestor in call order.
type queueClient struct {
	responses []string
	errs      []error
	calls     int
}

func (q *queueClient) Complete(context.Context, string) (string, error) {
	i := q.calls
	q.calls++
	var resp string
	var err error
	if i < len(q.responses) {
		resp = q.responses[i]
	}
	if i < len(q.errs) {
		err = q.errs[i]
	}
	return resp, err
}

type fixture struct {
	svc        *Service
	store      *memStore
	extractor  *fakeExtractor
	folderRepo *folders.MemoryRepo
	docRepo    *documents.MemoryRepo
}

func newFixture(client *queueClient) *fixture {
	store := newMemStore()
	extractor := &fakeExtractor{texts: map[string]string{}, errs: map[string]error{}}
	folderRepo := folders.NewMemoryRepo()
	docRepo := documents.NewMemoryRepo()
	folderSvc := &folders.Service{
		Repo:  folderRepo,
		Docs:  documents.FolderSource{Repo: docRepo},
		Store: store,
	}
	return &fixture{
		svc: &Service{
			Folders:   folderRepo,
			FolderSvc: folderSvc,
			Docs:      docRepo,
			Store:     store,
			Extractor: extractor,
			Requestor: analysis.NewRequestor(client),
		},
		store:      store,
		extractor:  extractor,
		folderRepo: folderRepo,
		docRepo:    docRepo,
	}
}

func payload(name string) File {
	return File{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("binary bytes of " + name)), nil
		},
	}
}

const policyText = "Star Health insurance policy number HLT-2024-889 covering hospitalization up to ten lakh rupees."

const policyJSON = `{
	"policy_number": "HLT-2024-889",
	"company_name": "Star Health",
	"coverage_amount": "₹10,00,000",
	"policy_type": "Health Insurance",
	"expiry_date": "15-Aug-2026",
	"exclusions": ["Cosmetic surgery"],
	"required_documents": ["Hospital bills", "Discharge summary"],
	"summary": "Family floater policy."
}`

func TestCreatePolicyFolderSuccess(t *testing.T) {
	f := newFixture(&queueClient{responses: []string{"YES", policyJSON}})
	f.extractor.texts["policy.pdf"] = policyText

	folder, err := f.svc.CreatePolicyFolder(context.Background(), "Sharma Claim", payload("policy.pdf"))
	if err != nil {
		t.Fatalf("CreatePolicyFolder: %v", err)
	}
	if folder.PolicyNumber != "HLT-2024-889" || folder.CompanyName != "Star Health" {
		t.Fatalf("folder fields: %+v", folder)
	}
	if !folder.PolicyValidated || folder.Status != folders.StatusOngoing || folder.CompletionPercentage != 0 {
		t.Fatalf("folder state: %+v", folder)
	}
	if folder.PolicyFileKey == "" {
		t.Fatalf("policy file key missing")
	}
	if f.store.count() != 1 {
		t.Fatalf("stored objects: %d, want 1", f.store.count())
	}
	if _, err := f.folderRepo.GetByID(context.Background(), folder.ID); err != nil {
		t.Fatalf("folder not persisted: %v", err)
	}
}

func TestCreatePolicyFolderDefaultName(t *testing.T) {
	f := newFixture(&queueClient{responses: []string{"YES", policyJSON}})
	f.extractor.texts["policy.pdf"] = policyText

	folder, err := f.svc.CreatePolicyFolder(context.Background(), "", payload("policy.pdf"))
	if err != nil {
		t.Fatalf("CreatePolicyFolder: %v", err)
	}
	if folder.FolderName != "New Policy" {
		t.Fatalf("default name: %q", folder.FolderName)
	}
}

func TestCreatePolicyFolderRejectsShortText(t *testing.T) {
	f := newFixture(&queueClient{})
	f.extractor.texts["policy.pdf"] = "too short"

	_, err := f.svc.CreatePolicyFolder(context.Background(), "x", payload("policy.pdf"))
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
	if f.store.count() != 0 {
		t.Fatalf("rejected upload left %d stored objects", f.store.count())
	}
}

func TestCreatePolicyFolderRejectsNonPolicy(t *testing.T) {
	f := newFixture(&queueClient{responses: []string{"NO"}})
	f.extractor.texts["menu.png"] = strings.Repeat("restaurant menu items and prices ", 5)

	_, err := f.svc.CreatePolicyFolder(context.Background(), "x", payload("menu.png"))
	if !errors.Is(err, ErrNotAPolicy) {
		t.Fatalf("expected ErrNotAPolicy, got %v", err)
	}
	if f.store.count() != 0 {
		t.Fatalf("rejected upload left %d stored objects", f.store.count())
	}
}

func TestCreatePolicyFolderRejectsUnsupportedType(t *testing.T) {
	f := newFixture(&queueClient{})

	_, err := f.svc.CreatePolicyFolder(context.Background(), "x", payload("malware.exe"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if f.store.count() != 0 {
		t.Fatalf("unsupported upload was stored")
	}
}

func TestCreatePolicyFolderExtractionFallback(t *testing.T) {
	f := newFixture(&queueClient{responses: []string{"YES", "no json in this reply"}})
	f.extractor.texts["policy.pdf"] = policyText

	folder, err := f.svc.CreatePolicyFolder(context.Background(), "x", payload("policy.pdf"))
	if err != nil {
		t.Fatalf("CreatePolicyFolder: %v", err)
	}
	if !analysis.IsSyntheticPolicyNumber(folder.PolicyNumber) {
		t.Fatalf("expected synthetic policy number, got %q", folder.PolicyNumber)
	}
	if len(folder.RequiredDocuments) == 0 {
		t.Fatalf("fallback required documents empty")
	}
}

func seedValidFolder(t *testing.T, f *fixture) folders.Folder {
	t.Helper()
	folder := folders.Folder{
		ID:             "folder-1",
		CompanyName:    "Star Health",
		CoverageAmount: "₹10,00,000",
		Status:         folders.StatusOngoing,
	}
	if err := f.folderRepo.Create(context.Background(), folder); err != nil {
		t.Fatalf("seed folder: %v", err)
	}
	return folder
}

func analysisJSON(completeness int, amount float64, indicators string) string {
	return fmt.Sprintf(`{
		"document_type": "bill",
		"amount": %v,
		"completeness": %d,
		"summary": "A claim document.",
		"fraud_indicators": [%s],
		"policy_compliance": {"is_covered": true, "reason": "ok"}
	}`, amount, completeness, indicators)
}

func TestUploadDocumentsBatch(t *testing.T) {
	client := &queueClient{responses: []string{
		analysisJSON(96, 30000, ""),
		analysisJSON(98, 1500, ""),
	}}
	f := newFixture(client)
	seedValidFolder(t, f)
	f.extractor.texts["bill.png"] = strings.Repeat("hospital bill line item ", 10)
	f.extractor.texts["rx.jpg"] = strings.Repeat("prescription medication dosage ", 10)
	f.extractor.texts["blurry.png"] = "short"
	f.extractor.texts["bill_copy.png"] = f.extractor.texts["bill.png"]

	result, err := f.svc.UploadDocuments(context.Background(), "folder-1", []File{
		payload("bill.png"),
		payload("blurry.png"),
		payload("rx.jpg"),
		payload("bill_copy.png"),
	})
	if err != nil {
		t.Fatalf("UploadDocuments: %v", err)
	}

	if result.TotalUploaded != 2 || result.TotalFailed != 2 {
		t.Fatalf("counts: %d uploaded, %d failed", result.TotalUploaded, result.TotalFailed)
	}
	reasons := map[string]string{}
	for _, fail := range result.Failed {
		reasons[fail.Filename] = fail.Reason
	}
	if reasons["blurry.png"] != "could not extract text" {
		t.Fatalf("blurry reason: %q", reasons["blurry.png"])
	}
	if reasons["bill_copy.png"] != "duplicate document" {
		t.Fatalf("duplicate reason: %q", reasons["bill_copy.png"])
	}

	for _, doc := range result.Uploaded {
		if doc.IsDuplicate {
			t.Fatalf("stored document flagged duplicate: %+v", doc)
		}
		if len(doc.Analysis) == 0 {
			t.Fatalf("analysis payload missing on %s", doc.Filename)
		}
	}

	// Two accepted files stored, the rejected ones cleaned up.
	if f.store.count() != 2 {
		t.Fatalf("stored objects: %d, want 2", f.store.count())
	}

	folder, err := f.folderRepo.GetByID(context.Background(), "folder-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if folder.Status != folders.StatusCompleted || folder.CompletionPercentage != 97 {
		t.Fatalf("folder after batch: %s/%d, want completed/97", folder.Status, folder.CompletionPercentage)
	}
}

func TestUploadDocumentsFraudIndicatorFlagsFolder(t *testing.T) {
	client := &queueClient{responses: []string{
		analysisJSON(100, 500000, `"HIGH - Treatment date before policy start"`),
	}}
	f := newFixture(client)
	seedValidFolder(t, f)
	f.extractor.texts["bill.png"] = strings.Repeat("inflated hospital bill ", 10)

	if _, err := f.svc.UploadDocuments(context.Background(), "folder-1", []File{payload("bill.png")}); err != nil {
		t.Fatalf("UploadDocuments: %v", err)
	}
	folder, _ := f.folderRepo.GetByID(context.Background(), "folder-1")
	if folder.Status != folders.StatusFraud {
		t.Fatalf("status: %s, want fraud", folder.Status)
	}
}

func TestUploadDocumentsAnalysisFallbackStillUploads(t *testing.T) {
	client := &queueClient{errs: []error{errors.New("provider down")}}
	f := newFixture(client)
	seedValidFolder(t, f)
	f.extractor.texts["bill.png"] = strings.Repeat("hospital bill ", 10)

	result, err := f.svc.UploadDocuments(context.Background(), "folder-1", []File{payload("bill.png")})
	if err != nil {
		t.Fatalf("UploadDocuments: %v", err)
	}
	if result.TotalUploaded != 1 {
		t.Fatalf("oracle outage rejected the upload: %+v", result)
	}
	doc := result.Uploaded[0]
	if doc.Completeness != 50 {
		t.Fatalf("fallback completeness: %d", doc.Completeness)
	}
	// The fallback record carries a fraud indicator, so the folder flips.
	folder, _ := f.folderRepo.GetByID(context.Background(), "folder-1")
	if folder.Status != folders.StatusFraud {
		t.Fatalf("status: %s, want fraud", folder.Status)
	}
}

func TestUploadDocumentsFolderFull(t *testing.T) {
	f := newFixture(&queueClient{})
	folder := folders.Folder{ID: "folder-1", Status: folders.StatusCompleted, CompletionPercentage: 100}
	if err := f.folderRepo.Create(context.Background(), folder); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := f.svc.UploadDocuments(context.Background(), "folder-1", []File{payload("bill.png")})
	if !errors.Is(err, ErrFolderFull) {
		t.Fatalf("expected ErrFolderFull, got %v", err)
	}
}

func TestUploadDocumentsUnknownFolder(t *testing.T) {
	f := newFixture(&queueClient{})
	_, err := f.svc.UploadDocuments(context.Background(), "missing", []File{payload("bill.png")})
	if !errors.Is(err, folders.ErrNotFound) {
		t.Fatalf("expected folders.ErrNotFound, got %v", err)
	}
}

func TestUploadDocumentsNoFiles(t *testing.T) {
	f := newFixture(&queueClient{})
	seedValidFolder(t, f)
	_, err := f.svc.UploadDocuments(context.Background(), "folder-1", nil)
	if !errors.Is(err, ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
}

func TestUploadDocumentsExtractionErrorCleansUp(t *testing.T) {
	f := newFixture(&queueClient{})
	seedValidFolder(t, f)
	f.extractor.errs["torn.pdf"] = errors.New("pdf rendering unavailable")

	result, err := f.svc.UploadDocuments(context.Background(), "folder-1", []File{payload("torn.pdf")})
	if err != nil {
		t.Fatalf("UploadDocuments: %v", err)
	}
	if result.TotalFailed != 1 || result.Failed[0].Reason != "could not extract text" {
		t.Fatalf("failure: %+v", result)
	}
	if f.store.count() != 0 {
		t.Fatalf("failed upload left stored objects")
	}
}
