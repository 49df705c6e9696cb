package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/user/moviecatalog/internal/config"
	"github.com/user/moviecatalog/internal/model"
	"github.com/user/moviecatalog/internal/repository/memory"
	"github.com/user/moviecatalog/internal/utils"
)

// hookedMovies 在读操作完成后执行回调，模拟并发写入
type hookedMovies struct {
	MovieStore
	afterFind     func()
	afterTopRated func()
}

func (h *hookedMovies) Find(ctx context.Context, f model.MovieFilter, offset, limit int) ([]*model.Movie, error) {
	movies, err := h.MovieStore.Find(ctx, f, offset, limit)
	if h.afterFind != nil {
		h.afterFind()
	}
	return movies, err
}

func (h *hookedMovies) TopRated(ctx context.Context, limit int) ([]*model.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	movies, err := h.MovieStore.TopRated(ctx, limit)
	if h.afterTopRated != nil {
		h.afterTopRated()
	}
	return movies, err
}

// strictCategories 上下文已取消时返回错误
type strictCategories struct {
	CategoryStore
}

func (s strictCategories) List(ctx context.Context) ([]*model.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.CategoryStore.List(ctx)
}

func newHookedMovieService(store *memory.Store) (*MovieService, *hookedMovies) {
	hooked := &hookedMovies{MovieStore: store.Movies}
	svc := NewMovieService(hooked, config.CatalogConfig{
		PageSize:     10,
		CacheSize:    100,
		CacheTTL:     time.Minute,
		TopRatedSize: 10,
		RandomSize:   8,
	}, utils.NewCache(), quietLogger())
	return svc, hooked
}

func testMovieInput(name string) MovieInput {
	return MovieInput{
		Name:       name,
		Desc:       name + " description",
		Image:      "image.jpg",
		TitleImage: "title.jpg",
		Category:   "Drama",
		Language:   "English",
		Year:       2020,
		Time:       120,
		Video:      "video.mp4",
	}
}

func TestListDoesNotCacheAcrossConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	svc, hooked := newHookedMovieService(memory.New())
	if _, err := svc.Create(ctx, 1, testMovieInput("First")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	var once sync.Once
	hooked.afterFind = func() {
		once.Do(func() {
			if _, err := svc.Create(ctx, 1, testMovieInput("Second")); err != nil {
				t.Errorf("Create() during list error: %v", err)
			}
		})
	}

	if _, err := svc.List(ctx, model.MovieFilter{}, 1); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if n := svc.pages.Len(); n != 0 {
		t.Errorf("Expected no page cached after concurrent write, got %d", n)
	}

	page, err := svc.List(ctx, model.MovieFilter{}, 1)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if page.TotalMovies != 2 || len(page.Movies) != 2 {
		t.Errorf("Expected 2 movies after write, got total=%d len=%d", page.TotalMovies, len(page.Movies))
	}
}

func TestTopRatedDoesNotCacheAcrossConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	svc, hooked := newHookedMovieService(memory.New())
	if _, err := svc.Create(ctx, 1, testMovieInput("First")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	var once sync.Once
	hooked.afterTopRated = func() {
		once.Do(func() {
			if _, err := svc.Create(ctx, 1, testMovieInput("Second")); err != nil {
				t.Errorf("Create() during top rated error: %v", err)
			}
		})
	}

	first, err := svc.TopRated(ctx)
	if err != nil {
		t.Fatalf("TopRated() error: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("Expected 1 movie from first call, got %d", len(first))
	}
	second, err := svc.TopRated(ctx)
	if err != nil {
		t.Fatalf("TopRated() error: %v", err)
	}
	if len(second) != 2 {
		t.Errorf("Expected 2 movies after write, got %d", len(second))
	}
}

func TestSharedLookupsIgnoreCallerCancellation(t *testing.T) {
	store := memory.New()
	svc, _ := newHookedMovieService(store)
	if _, err := svc.Create(context.Background(), 1, testMovieInput("First")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	categories := NewCategoryService(strictCategories{store.Categories}, utils.NewCache(), quietLogger())
	if _, err := categories.Create(context.Background(), CategoryInput{Title: "Drama"}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	movies, err := svc.TopRated(ctx)
	if err != nil {
		t.Errorf("Expected top rated to ignore cancelled caller, got %v", err)
	}
	if len(movies) != 1 {
		t.Errorf("Expected 1 movie, got %d", len(movies))
	}

	list, err := categories.List(ctx)
	if err != nil {
		t.Errorf("Expected categories to ignore cancelled caller, got %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 category, got %d", len(list))
	}
}
