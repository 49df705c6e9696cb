package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/user/moviecatalog/internal/config"
	"github.com/user/moviecatalog/internal/model"
	"github.com/user/moviecatalog/internal/repository/memory"
	"github.com/user/moviecatalog/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	store      *memory.Store
	users      *UserService
	favorites  *FavoriteService
	movies     *MovieService
	categories *CategoryService
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.New()
	logger := quietLogger()
	c := utils.NewCache()

	users := NewUserService(store.Users, logger)
	users.hashCost = bcrypt.MinCost

	return &testEnv{
		store:     store,
		users:     users,
		favorites: NewFavoriteService(store.Users, store.Favorites, store.Movies, logger),
		movies: NewMovieService(store.Movies, config.CatalogConfig{
			PageSize:     2,
			CacheSize:    100,
			CacheTTL:     time.Minute,
			TopRatedSize: 10,
			RandomSize:   8,
		}, c, logger),
		categories: NewCategoryService(store.Categories, c, logger),
	}
}

func (e *testEnv) createUser(t *testing.T, name string) *model.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), RegisterInput{
		FullName: name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Failed to register %s: %v", name, err)
	}
	return u
}

func (e *testEnv) createMovie(t *testing.T, name, category string) *model.Movie {
	t.Helper()
	m, err := e.movies.Create(context.Background(), 1, MovieInput{
		Name:       name,
		Desc:       name + " description",
		Image:      "image.jpg",
		TitleImage: "title.jpg",
		Category:   category,
		Language:   "English",
		Year:       2020,
		Time:       120,
		Video:      "video.mp4",
	})
	if err != nil {
		t.Fatalf("Failed to create movie %s: %v", name, err)
	}
	return m
}
