package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/user/moviecatalog/internal/config"
	"github.com/user/moviecatalog/internal/model"
	"github.com/user/moviecatalog/internal/utils"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const topRatedCacheKey = "movies:top_rated"

// MovieService 电影列表、详情、影评与后台管理
type MovieService struct {
	movies MovieStore
	cfg    config.CatalogConfig
	pages  *utils.LRUCache[*model.MoviePage]
	cache  *cache.Cache
	group  singleflight.Group
	gen    atomic.Uint64 // 缓存代数，每次写操作递增
	logger *logrus.Logger
}

// NewMovieService 创建电影服务
func NewMovieService(movies MovieStore, cfg config.CatalogConfig, c *cache.Cache, logger *logrus.Logger) *MovieService {
	if cfg.PageSize < 1 {
		cfg.PageSize = 1
	}
	return &MovieService{
		movies: movies,
		cfg:    cfg,
		pages:  utils.NewLRUCache[*model.MoviePage](cfg.CacheSize, cfg.CacheTTL),
		cache:  c,
		logger: logger,
	}
}

// List 按条件分页查询，数量和当页数据并发获取
func (s *MovieService) List(ctx context.Context, f model.MovieFilter, page int) (*model.MoviePage, error) {
	p := model.NewPagination(page, s.cfg.PageSize)
	key := f.Key() + "|" + p.String()
	if cached, ok := s.pages.Get(key); ok {
		return cached, nil
	}
	gen := s.gen.Load()

	var (
		movies []*model.Movie
		total  int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movies, err = s.movies.Find(gctx, f, p.Offset(), p.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.movies.Count(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("查询电影列表失败: %w", err)
	}

	if movies == nil {
		movies = []*model.Movie{}
	}
	result := &model.MoviePage{
		Movies:      movies,
		Page:        p.Page,
		TotalPages:  p.TotalPages(total),
		TotalMovies: total,
	}
	// 查询期间有写操作时不回填缓存
	if s.gen.Load() == gen {
		s.pages.Set(key, result)
	}
	return result, nil
}

// Get 电影详情（含影评）
func (s *MovieService) Get(ctx context.Context, id int) (*model.Movie, error) {
	movie, err := s.movies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, model.NotFoundError("Movie not found")
	}
	return movie, nil
}

// TopRated 评分最高的电影，结果缓存，并发请求只查询一次
func (s *MovieService) TopRated(ctx context.Context) ([]*model.Movie, error) {
	if v, ok := s.cache.Get(topRatedCacheKey); ok {
		return v.([]*model.Movie), nil
	}
	v, err, _ := s.group.Do(topRatedCacheKey, func() (interface{}, error) {
		gen := s.gen.Load()
		// 共享查询不受发起者取消影响
		movies, err := s.movies.TopRated(context.WithoutCancel(ctx), s.cfg.TopRatedSize)
		if err != nil {
			return nil, err
		}
		if s.gen.Load() == gen {
			s.cache.Set(topRatedCacheKey, movies, cache.DefaultExpiration)
		}
		return movies, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*model.Movie), nil
}

// Random 随机电影
func (s *MovieService) Random(ctx context.Context) ([]*model.Movie, error) {
	return s.movies.Random(ctx, s.cfg.RandomSize)
}

// MovieInput 创建/更新电影参数
type MovieInput struct {
	Name            string             `json:"name" validate:"required"`
	Desc            string             `json:"desc" validate:"required"`
	Image           string             `json:"image" validate:"required"`
	TitleImage      string             `json:"titleImage" validate:"required"`
	Category        string             `json:"category" validate:"required"`
	Language        string             `json:"language" validate:"required"`
	Year            int                `json:"year" validate:"required,min=1888"`
	Time            int                `json:"time" validate:"required,min=1"`
	Video           string             `json:"video" validate:"required"`
	Rate            float64            `json:"rate" validate:"min=0,max=5"`
	NumberOfReviews int                `json:"numberOfReviews" validate:"min=0"`
	Cast            []model.CastMember `json:"casts"`
}

// Create 创建电影，记录创建者
func (s *MovieService) Create(ctx context.Context, userID int, in MovieInput) (*model.Movie, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	movie := &model.Movie{
		UserID:          userID,
		Name:            in.Name,
		Desc:            in.Desc,
		Image:           in.Image,
		TitleImage:      in.TitleImage,
		Category:        in.Category,
		Language:        in.Language,
		Year:            in.Year,
		Time:            in.Time,
		Video:           in.Video,
		Rate:            in.Rate,
		NumberOfReviews: in.NumberOfReviews,
		Cast:            model.CastList(in.Cast),
	}
	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, err
	}
	s.invalidate()
	s.logger.WithFields(logrus.Fields{"movie_id": movie.ID, "user_id": userID}).Info("movie created")
	return movie, nil
}

// Update 更新电影，空字段保留原值（包括评分和评价数）
func (s *MovieService) Update(ctx context.Context, id int, in MovieInput) (*model.Movie, error) {
	movie, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Rate < 0 || in.Rate > 5 || in.NumberOfReviews < 0 || in.Year < 0 || in.Time < 0 {
		return nil, model.ValidationError("Invalid movie data")
	}

	movie.Name = orString(in.Name, movie.Name)
	movie.Desc = orString(in.Desc, movie.Desc)
	movie.Image = orString(in.Image, movie.Image)
	movie.TitleImage = orString(in.TitleImage, movie.TitleImage)
	movie.Category = orString(in.Category, movie.Category)
	movie.Language = orString(in.Language, movie.Language)
	movie.Video = orString(in.Video, movie.Video)
	if in.Year != 0 {
		movie.Year = in.Year
	}
	if in.Time != 0 {
		movie.Time = in.Time
	}
	if in.Rate != 0 {
		movie.Rate = in.Rate
	}
	if in.NumberOfReviews != 0 {
		movie.NumberOfReviews = in.NumberOfReviews
	}
	if len(in.Cast) > 0 {
		movie.Cast = model.CastList(in.Cast)
	}

	if err := s.movies.Update(ctx, movie); err != nil {
		return nil, err
	}
	s.invalidate()
	return movie, nil
}

// Delete 删除电影
func (s *MovieService) Delete(ctx context.Context, id int) error {
	ok, err := s.movies.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return model.NotFoundError("Movie not found")
	}
	s.invalidate()
	return nil
}

// DeleteAll 删除所有电影
func (s *MovieService) DeleteAll(ctx context.Context) error {
	if err := s.movies.DeleteAll(ctx); err != nil {
		return err
	}
	s.invalidate()
	s.logger.Warn("all movies removed")
	return nil
}

// Import 清空后导入内置电影数据
func (s *MovieService) Import(ctx context.Context, userID int) ([]*model.Movie, error) {
	movies, err := seedMovies()
	if err != nil {
		return nil, err
	}
	for _, m := range movies {
		m.UserID = userID
	}
	if err := s.movies.Replace(ctx, movies); err != nil {
		return nil, err
	}
	s.invalidate()
	s.logger.WithField("count", len(movies)).Info("movies imported")
	return movies, nil
}

// invalidate 任何写操作后清理列表和排行缓存
func (s *MovieService) invalidate() {
	s.gen.Add(1)
	s.pages.Clear()
	s.cache.Delete(topRatedCacheKey)
	s.group.Forget(topRatedCacheKey)
}

func orString(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
