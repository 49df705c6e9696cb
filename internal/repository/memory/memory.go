// Package memory 提供进程内存储，用于本地开发（DB_DRIVER=memory）和测试
package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/user/moviecatalog/internal/model"
)

type state struct {
	mu         sync.Mutex
	nextID     int
	users      map[int]*model.User
	movies     map[int]*model.Movie
	categories map[int]*model.Category
}

func (s *state) id() int {
	s.nextID++
	return s.nextID
}

// Store 各仓库共享同一份数据和锁
type Store struct {
	Users      *UserRepository
	Favorites  *FavoriteRepository
	Movies     *MovieRepository
	Categories *CategoryRepository
}

// New 创建空存储
func New() *Store {
	s := &state{
		users:      make(map[int]*model.User),
		movies:     make(map[int]*model.Movie),
		categories: make(map[int]*model.Category),
	}
	return &Store{
		Users:      &UserRepository{s: s},
		Favorites:  &FavoriteRepository{s: s},
		Movies:     &MovieRepository{s: s},
		Categories: &CategoryRepository{s: s},
	}
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.LikedMovies = append(c.LikedMovies[:0:0], u.LikedMovies...)
	return &c
}

func cloneMovie(m *model.Movie) *model.Movie {
	c := *m
	c.Cast = append(model.CastList{}, m.Cast...)
	c.Reviews = append([]model.Review{}, m.Reviews...)
	return &c
}

// ==================== 用户 ====================

type UserRepository struct {
	s *state
}

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return model.ConflictError("User already exists")
		}
	}
	now := time.Now().UTC()
	user.ID = r.s.id()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.LikedMovies == nil {
		user.LikedMovies = []int64{}
	}
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id int) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepository) Update(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.users[user.ID]
	if !ok {
		return model.NotFoundError("User not found")
	}
	for _, u := range r.s.users {
		if u.ID != user.ID && u.Email == user.Email {
			return model.ConflictError("Email already in use")
		}
	}
	stored.FullName = user.FullName
	stored.Email = user.Email
	stored.Image = user.Image
	stored.PasswordHash = user.PasswordHash
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *UserRepository) List(_ context.Context) ([]*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]*model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *UserRepository) Delete(_ context.Context, id int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return false, nil
	}
	delete(r.s.users, id)
	return true, nil
}

// ==================== 收藏 ====================

type FavoriteRepository struct {
	s *state
}

func (r *FavoriteRepository) Add(_ context.Context, userID, movieID int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok || u.HasFavorite(movieID) {
		return false, nil
	}
	u.LikedMovies = append(u.LikedMovies, int64(movieID))
	return true, nil
}

func (r *FavoriteRepository) Clear(_ context.Context, userID int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return false, nil
	}
	u.LikedMovies = []int64{}
	return true, nil
}

// ==================== 电影 ====================

type MovieRepository struct {
	s *state
}

// sorted 按创建时间倒序，时间相同按 ID 倒序；调用方需持有锁
func (r *MovieRepository) sorted(f model.MovieFilter) []*model.Movie {
	var movies []*model.Movie
	for _, m := range r.s.movies {
		if f.Matches(m) {
			movies = append(movies, m)
		}
	}
	sort.Slice(movies, func(i, j int) bool {
		if !movies[i].CreatedAt.Equal(movies[j].CreatedAt) {
			return movies[i].CreatedAt.After(movies[j].CreatedAt)
		}
		return movies[i].ID > movies[j].ID
	})
	return movies
}

func listCopy(movies []*model.Movie) []*model.Movie {
	out := make([]*model.Movie, 0, len(movies))
	for _, m := range movies {
		out = append(out, cloneMovie(m))
	}
	return out
}

func (r *MovieRepository) Find(_ context.Context, f model.MovieFilter, offset, limit int) ([]*model.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.sorted(f)
	if offset < 0 || offset >= len(all) {
		return []*model.Movie{}, nil
	}
	end := len(all)
	if limit < end-offset {
		end = offset + limit
	}
	return listCopy(all[offset:end]), nil
}

func (r *MovieRepository) Count(_ context.Context, f model.MovieFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.sorted(f))), nil
}

func (r *MovieRepository) FindByID(_ context.Context, id int) (*model.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m, ok := r.s.movies[id]; ok {
		return cloneMovie(m), nil
	}
	return nil, nil
}

func (r *MovieRepository) FindByIDs(_ context.Context, ids []int64) ([]*model.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var movies []*model.Movie
	for _, id := range ids {
		if m, ok := r.s.movies[int(id)]; ok {
			movies = append(movies, m)
		}
	}
	return listCopy(movies), nil
}

func (r *MovieRepository) TopRated(_ context.Context, limit int) ([]*model.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	movies := r.sorted(model.MovieFilter{})
	sort.SliceStable(movies, func(i, j int) bool {
		if movies[i].Rate != movies[j].Rate {
			return movies[i].Rate > movies[j].Rate
		}
		return movies[i].ID < movies[j].ID
	})
	if len(movies) > limit {
		movies = movies[:limit]
	}
	return listCopy(movies), nil
}

func (r *MovieRepository) Random(_ context.Context, limit int) ([]*model.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	movies := r.sorted(model.MovieFilter{})
	rand.Shuffle(len(movies), func(i, j int) { movies[i], movies[j] = movies[j], movies[i] })
	if len(movies) > limit {
		movies = movies[:limit]
	}
	return listCopy(movies), nil
}

func (r *MovieRepository) insert(movie *model.Movie) {
	now := time.Now().UTC()
	movie.ID = r.s.id()
	movie.Version = 1
	if movie.CreatedAt.IsZero() {
		movie.CreatedAt = now
	}
	movie.UpdatedAt = now
	r.s.movies[movie.ID] = cloneMovie(movie)
}

func (r *MovieRepository) Create(_ context.Context, movie *model.Movie) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.insert(movie)
	return nil
}

func (r *MovieRepository) Update(_ context.Context, movie *model.Movie) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.movies[movie.ID]
	if !ok || stored.Version != movie.Version {
		return model.ConflictError("Movie was modified concurrently, please retry")
	}
	reviews := stored.Reviews
	updated := cloneMovie(movie)
	updated.Reviews = reviews
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	updated.Version++
	r.s.movies[movie.ID] = updated
	movie.Version = updated.Version
	return nil
}

func (r *MovieRepository) Delete(_ context.Context, id int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movies[id]; !ok {
		return false, nil
	}
	delete(r.s.movies, id)
	return true, nil
}

func (r *MovieRepository) DeleteAll(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movies = make(map[int]*model.Movie)
	return nil
}

func (r *MovieRepository) Replace(_ context.Context, movies []*model.Movie) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movies = make(map[int]*model.Movie)
	for _, m := range movies {
		r.insert(m)
	}
	return nil
}

// AppendReview 全程持锁，与数据库实现的行锁语义一致
func (r *MovieRepository) AppendReview(_ context.Context, movieID int, apply func(*model.Movie) (*model.Review, error)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.movies[movieID]
	if !ok {
		return model.NotFoundError("Movie not found")
	}
	working := cloneMovie(stored)
	review, err := apply(working)
	if err != nil {
		return err
	}
	review.ID = r.s.id()
	review.MovieID = movieID
	working.Reviews[len(working.Reviews)-1] = *review
	working.Version++
	r.s.movies[movieID] = working
	return nil
}

// ==================== 分类 ====================

type CategoryRepository struct {
	s *state
}

// duplicate 标题区分大小写，与数据库唯一索引一致
func (r *CategoryRepository) duplicate(c *model.Category) bool {
	for _, existing := range r.s.categories {
		if existing.ID != c.ID && existing.Title == c.Title {
			return true
		}
	}
	return false
}

func (r *CategoryRepository) Create(_ context.Context, category *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.duplicate(category) {
		return model.ConflictError("Category already exists")
	}
	now := time.Now().UTC()
	category.ID = r.s.id()
	category.CreatedAt, category.UpdatedAt = now, now
	c := *category
	r.s.categories[c.ID] = &c
	return nil
}

func (r *CategoryRepository) FindByID(_ context.Context, id int) (*model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CategoryRepository) Update(_ context.Context, category *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.categories[category.ID]
	if !ok {
		return model.NotFoundError("Category not found")
	}
	if r.duplicate(category) {
		return model.ConflictError("Category already exists")
	}
	stored.Title = category.Title
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *CategoryRepository) Delete(_ context.Context, id int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return false, nil
	}
	delete(r.s.categories, id)
	return true, nil
}

func (r *CategoryRepository) List(_ context.Context) ([]*model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	categories := make([]*model.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := *c
		categories = append(categories, &cp)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID > categories[j].ID })
	return categories, nil
}
