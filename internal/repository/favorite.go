package repository

import (
	"context"

	"github.com/user/moviecatalog/internal/model"
	"gorm.io/gorm"
)

// FavoriteRepository 收藏列表，存于 users.liked_movies
type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add 追加收藏，已存在或用户不存在时返回 false
// 条件更新在数据库端一次完成，不存在读改写竞争
func (r *FavoriteRepository) Add(ctx context.Context, userID, movieID int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND NOT (? = ANY(liked_movies))", userID, movieID).
		Updates(map[string]interface{}{
			"liked_movies": gorm.Expr("array_append(liked_movies, ?::bigint)", movieID),
			"updated_at":   gorm.Expr("NOW()"),
		})
	return result.RowsAffected > 0, result.Error
}

// Clear 清空收藏，用户不存在时返回 false
func (r *FavoriteRepository) Clear(ctx context.Context, userID int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"liked_movies": gorm.Expr("'{}'::bigint[]"),
			"updated_at":   gorm.Expr("NOW()"),
		})
	return result.RowsAffected > 0, result.Error
}
