package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestLocalImageStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalImageStore(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	url, err := store.Save(context.Background(), "665f1c", "Bin Photo.JPG", pngHeader)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, "_665f1c.png") {
		t.Fatalf("unexpected url %q", url)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), strings.TrimPrefix(url, "/uploads/")))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != string(pngHeader) {
		t.Fatalf("stored bytes differ")
	}
}

func TestLocalImageStore_UniqueNames(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	a, _ := store.Save(context.Background(), "u1", "a.png", pngHeader)
	b, _ := store.Save(context.Background(), "u1", "a.png", pngHeader)
	if a == b {
		t.Fatalf("expected distinct names for repeated uploads, got %q twice", a)
	}
}

func TestLocalImageStore_NameFromContentNotUpload(t *testing.T) {
	gif := []byte("GIF89a<html><script src=//x.example/a.js></script></html>")
	store, err := NewLocalImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	for _, name := range []string{"evil.html", "evil.js", "evil.svg", "noext"} {
		url, err := store.Save(context.Background(), "u1", name, gif)
		if err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
		if !strings.HasSuffix(url, "_u1.gif") {
			t.Fatalf("%s stored as %q, want a .gif name", name, url)
		}
	}
}

func TestLocalImageStore_ServedAsImage(t *testing.T) {
	gif := []byte("GIF89a<html><script>alert(1)</script></html>")
	store, err := NewLocalImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	url, err := store.Save(context.Background(), "u1", "evil.html", gif)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	e := echo.New()
	e.Static(URLPrefix, store.Dir())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/gif" {
		t.Fatalf("served with Content-Type %q", ct)
	}
}
