package local

import (
	"bytes"
	"context"
	"io"
	"testing"
)

func TestLocalStoreSaveOpenDelete(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key, size, _, err := store.Save(ctx, "folder-1", "bill.pdf", bytes.NewReader([]byte("%PDF-1.4 test")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size == 0 {
		t.Fatalf("expected non-zero size")
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "%PDF-1.4 test" {
		t.Fatalf("unexpected contents: %q", data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Idempotent: deleting again must not fail.
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := store.Open(ctx, key); err == nil {
		t.Fatalf("expected open to fail after delete")
	}
}

func TestLocalStoreRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../outside"); err == nil {
		t.Fatalf("expected traversal rejection")
	}
}
