package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/moviecatalog/internal/model"
)

type fakeStorage struct {
	name        string
	contentType string
	body        string
	err         error
}

func (f *fakeStorage) Put(_ context.Context, name string, r io.Reader, _ int64, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(r)
	f.name, f.contentType, f.body = name, contentType, string(b)
	return "http://cdn.example.com/movies/" + name, nil
}

func TestUpload(t *testing.T) {
	store := &fakeStorage{}
	svc := NewUploadService(store, 1024, quietLogger())

	url, err := svc.Upload(context.Background(), "Poster.JPG", strings.NewReader("data"), 4, "image/jpeg")
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if filepath.Ext(store.name) != ".jpg" {
		t.Errorf("Expected .jpg object name, got %q", store.name)
	}
	if len(strings.TrimSuffix(store.name, ".jpg")) != 36 {
		t.Errorf("Expected uuid object name, got %q", store.name)
	}
	if store.body != "data" || store.contentType != "image/jpeg" {
		t.Errorf("Unexpected stored object: %+v", store)
	}
	if !strings.HasSuffix(url, store.name) {
		t.Errorf("Expected url to end with object name, got %q", url)
	}
}

func TestUploadErrors(t *testing.T) {
	ctx := context.Background()

	disabled := NewUploadService(nil, 1024, quietLogger())
	if _, err := disabled.Upload(ctx, "a.png", strings.NewReader("x"), 1, ""); !errors.Is(err, model.ErrValidation) {
		t.Errorf("Expected validation error when storage disabled, got %v", err)
	}

	svc := NewUploadService(&fakeStorage{}, 4, quietLogger())
	if _, err := svc.Upload(ctx, "a.png", strings.NewReader(""), 0, ""); !errors.Is(err, model.ErrValidation) {
		t.Errorf("Expected validation error for empty file, got %v", err)
	}
	if _, err := svc.Upload(ctx, "a.png", strings.NewReader("too large"), 9, ""); !errors.Is(err, model.ErrValidation) {
		t.Errorf("Expected validation error for large file, got %v", err)
	}

	failing := NewUploadService(&fakeStorage{err: errors.New("boom")}, 0, quietLogger())
	if _, err := failing.Upload(ctx, "a.png", strings.NewReader("x"), 1, ""); err == nil || errors.Is(err, model.ErrValidation) {
		t.Errorf("Expected storage error to propagate, got %v", err)
	}
}
