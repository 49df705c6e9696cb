package service

import (
	"context"
	"errors"
	"testing"

	"github.com/user/moviecatalog/internal/model"
)

func TestCategoryLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	action, err := env.categories.Create(ctx, CategoryInput{Title: " Action "})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if action.Title != "Action" {
		t.Errorf("Expected trimmed title, got %q", action.Title)
	}

	// 填充缓存后写入，列表应反映最新数据
	if list, _ := env.categories.List(ctx); len(list) != 1 {
		t.Fatalf("Expected 1 category, got %d", len(list))
	}
	if _, err := env.categories.Create(ctx, CategoryInput{Title: "Drama"}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if list, _ := env.categories.List(ctx); len(list) != 2 {
		t.Errorf("Expected cache to be invalidated, got %d categories", len(list))
	}

	if _, err := env.categories.Create(ctx, CategoryInput{Title: "Action"}); !errors.Is(err, model.ErrConflict) {
		t.Errorf("Expected conflict for duplicate title, got %v", err)
	}
	if _, err := env.categories.Create(ctx, CategoryInput{Title: "  "}); !errors.Is(err, model.ErrValidation) {
		t.Errorf("Expected validation error for blank title, got %v", err)
	}

	updated, err := env.categories.Update(ctx, action.ID, CategoryInput{})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Title != "Action" {
		t.Errorf("Expected empty title to keep current value, got %q", updated.Title)
	}
	updated, err = env.categories.Update(ctx, action.ID, CategoryInput{Title: "Thriller"})
	if err != nil || updated.Title != "Thriller" {
		t.Errorf("Expected rename to Thriller, got %+v (err=%v)", updated, err)
	}
	if _, err := env.categories.Update(ctx, 999, CategoryInput{Title: "x"}); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}

	if err := env.categories.Delete(ctx, action.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := env.categories.Delete(ctx, action.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Expected not found on second delete, got %v", err)
	}
	if list, _ := env.categories.List(ctx); len(list) != 1 {
		t.Errorf("Expected 1 category after delete, got %d", len(list))
	}
}

func TestCategoryTitlesAreCaseSensitive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		title string
		kind  error
	}{
		{"Action", nil},
		{"action", nil},
		{"ACTION", nil},
		{"Action", model.ErrConflict},
		{" action ", model.ErrConflict},
	}
	for _, tt := range tests {
		_, err := env.categories.Create(ctx, CategoryInput{Title: tt.title})
		if tt.kind == nil && err != nil {
			t.Errorf("Create(%q) expected success, got %v", tt.title, err)
		}
		if tt.kind != nil && !errors.Is(err, tt.kind) {
			t.Errorf("Create(%q) expected %v, got %v", tt.title, tt.kind, err)
		}
	}

	list, _ := env.categories.List(ctx)
	if len(list) != 3 {
		t.Errorf("Expected 3 categories, got %d", len(list))
	}

	drama, err := env.categories.Create(ctx, CategoryInput{Title: "Drama"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := env.categories.Update(ctx, drama.ID, CategoryInput{Title: "action"}); !errors.Is(err, model.ErrConflict) {
		t.Errorf("Expected conflict renaming to existing title, got %v", err)
	}
	if _, err := env.categories.Update(ctx, drama.ID, CategoryInput{Title: "drama"}); err != nil {
		t.Errorf("Expected rename differing only in case to succeed, got %v", err)
	}
}
