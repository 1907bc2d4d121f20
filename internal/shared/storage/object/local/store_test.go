package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key, size, mimeType, err := store.Save(ctx, "device-1", "resume.txt", strings.NewReader("Jane Doe\nSenior Engineer\n"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len("Jane Doe\nSenior Engineer\n")) {
		t.Fatalf("size: got %d", size)
	}
	if !strings.HasPrefix(mimeType, "text/plain") {
		t.Fatalf("mime: got %q", mimeType)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "Jane Doe\nSenior Engineer\n" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestSaveNamespacesByFingerprint(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	keyA, _, _, err := store.Save(ctx, "device-a", "resume.txt", strings.NewReader("aaaa"))
	if err != nil {
		t.Fatalf("save a: %v", err)
	}
	keyB, _, _, err := store.Save(ctx, "device-b", "resume.txt", strings.NewReader("bbbb"))
	if err != nil {
		t.Fatalf("save b: %v", err)
	}
	if strings.Split(keyA, "/")[0] == strings.Split(keyB, "/")[0] {
		t.Fatalf("expected different namespaces, got %q and %q", keyA, keyB)
	}
}

func TestSaveRejectsTraversalNames(t *testing.T) {
	store := New(t.TempDir())
	if _, _, _, err := store.Save(context.Background(), "device-1", "../escape.txt", strings.NewReader("x")); err == nil {
		t.Fatalf("expected traversal rejection")
	}
}

func TestOpenRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../outside"); err == nil {
		t.Fatalf("expected invalid storage key error")
	}
}
