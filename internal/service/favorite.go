package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/user/moviecatalog/internal/model"
)

// FavoriteService 用户收藏列表
type FavoriteService struct {
	users     UserStore
	favorites FavoriteStore
	movies    MovieStore
	logger    *logrus.Logger
}

// NewFavoriteService 创建收藏服务
func NewFavoriteService(users UserStore, favorites FavoriteStore, movies MovieStore, logger *logrus.Logger) *FavoriteService {
	return &FavoriteService{
		users:     users,
		favorites: favorites,
		movies:    movies,
		logger:    logger,
	}
}

// Add 添加收藏，已收藏返回 Conflict
func (s *FavoriteService) Add(ctx context.Context, userID, movieID int) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return model.NotFoundError("User not found")
	}
	movie, err := s.movies.FindByID(ctx, movieID)
	if err != nil {
		return err
	}
	if movie == nil {
		return model.NotFoundError("Movie not found")
	}
	if user.HasFavorite(movieID) {
		return model.ConflictError("Movie already liked")
	}

	added, err := s.favorites.Add(ctx, userID, movieID)
	if err != nil {
		return err
	}
	if !added {
		// 并发添加时由条件更新兜底
		return model.ConflictError("Movie already liked")
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "movie_id": movieID}).Debug("favorite added")
	return nil
}

// Clear 清空收藏（接口上称为“移除收藏”），可重复调用
func (s *FavoriteService) Clear(ctx context.Context, userID int) error {
	found, err := s.favorites.Clear(ctx, userID)
	if err != nil {
		return err
	}
	if !found {
		return model.NotFoundError("User not found")
	}
	return nil
}

// List 收藏的电影，按收藏顺序返回，已删除的电影跳过
func (s *FavoriteService) List(ctx context.Context, userID int) ([]*model.Movie, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.NotFoundError("User not found")
	}

	found, err := s.movies.FindByIDs(ctx, user.LikedMovies)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.Movie, len(found))
	for _, m := range found {
		byID[int64(m.ID)] = m
	}

	movies := make([]*model.Movie, 0, len(user.LikedMovies))
	for _, id := range user.LikedMovies {
		if m, ok := byID[id]; ok {
			movies = append(movies, m)
		}
	}
	return movies, nil
}
