package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/user/moviecatalog/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// applyFilter 只对非空条件加 WHERE
func applyFilter(q *gorm.DB, f model.MovieFilter) *gorm.DB {
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Language != "" {
		q = q.Where("language = ?", f.Language)
	}
	if f.Time != nil {
		q = q.Where(`"time" = ?`, *f.Time)
	}
	if f.Rate != nil {
		q = q.Where("rate = ?", *f.Rate)
	}
	if f.Year != nil {
		q = q.Where("year = ?", *f.Year)
	}
	if f.Search != "" {
		q = q.Where("name ILIKE ?", "%"+escapeLike(f.Search)+"%")
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 转义 LIKE 通配符，搜索词按字面匹配
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Find 按条件分页查询，按创建时间倒序
func (r *MovieRepository) Find(ctx context.Context, f model.MovieFilter, offset, limit int) ([]*model.Movie, error) {
	movies := make([]*model.Movie, 0, limit)
	err := applyFilter(r.db.WithContext(ctx).Model(&model.Movie{}), f).
		Preload("Reviews", orderReviews).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&movies).Error
	return movies, err
}

// Count 统计满足条件的电影数量
func (r *MovieRepository) Count(ctx context.Context, f model.MovieFilter) (int64, error) {
	var count int64
	err := applyFilter(r.db.WithContext(ctx).Model(&model.Movie{}), f).Count(&count).Error
	return count, err
}

// FindByID 根据 ID 查找电影（含影评），不存在返回 nil
func (r *MovieRepository) FindByID(ctx context.Context, id int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.WithContext(ctx).
		Preload("Reviews", orderReviews).
		First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// orderReviews 影评按提交顺序加载
func orderReviews(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// FindByIDs 批量查询（含影评），不保证顺序
func (r *MovieRepository) FindByIDs(ctx context.Context, ids []int64) ([]*model.Movie, error) {
	var movies []*model.Movie
	if len(ids) == 0 {
		return movies, nil
	}
	err := r.db.WithContext(ctx).Preload("Reviews", orderReviews).Where("id IN ?", ids).Find(&movies).Error
	return movies, err
}

// TopRated 评分最高的电影
func (r *MovieRepository) TopRated(ctx context.Context, limit int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.db.WithContext(ctx).Preload("Reviews", orderReviews).Order("rate DESC").Order("id ASC").Limit(limit).Find(&movies).Error
	return movies, err
}

// Random 随机抽取电影
func (r *MovieRepository) Random(ctx context.Context, limit int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.db.WithContext(ctx).Preload("Reviews", orderReviews).Order("RANDOM()").Limit(limit).Find(&movies).Error
	return movies, err
}

// Create 创建电影
func (r *MovieRepository) Create(ctx context.Context, movie *model.Movie) error {
	movie.Version = 1
	return r.db.WithContext(ctx).Omit("Reviews").Create(movie).Error
}

// Update 整体更新电影字段，version 不一致时返回冲突（乐观锁）
func (r *MovieRepository) Update(ctx context.Context, movie *model.Movie) error {
	result := r.db.WithContext(ctx).Model(&model.Movie{}).
		Where("id = ? AND version = ?", movie.ID, movie.Version).
		Updates(map[string]interface{}{
			"name":              movie.Name,
			"desc":              movie.Desc,
			"title_image":       movie.TitleImage,
			"image":             movie.Image,
			"category":          movie.Category,
			"language":          movie.Language,
			"year":              movie.Year,
			"time":              movie.Time,
			"video":             movie.Video,
			"cast":              movie.Cast,
			"rate":              movie.Rate,
			"number_of_reviews": movie.NumberOfReviews,
			"version":           gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ConflictError("Movie was modified concurrently, please retry")
	}
	movie.Version++
	return nil
}

// Delete 删除电影及其影评，返回是否存在
func (r *MovieRepository) Delete(ctx context.Context, id int) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("movie_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Movie{}, id)
		deleted = result.RowsAffected > 0
		return result.Error
	})
	return deleted, err
}

// DeleteAll 删除所有电影
func (r *MovieRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(deleteAllMovies)
}

// Replace 清空后批量导入
func (r *MovieRepository) Replace(ctx context.Context, movies []*model.Movie) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteAllMovies(tx); err != nil {
			return err
		}
		if len(movies) == 0 {
			return nil
		}
		for _, m := range movies {
			m.Version = 1
		}
		return tx.Omit("Reviews").CreateInBatches(movies, 100).Error
	})
}

func deleteAllMovies(tx *gorm.DB) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Review{}).Error; err != nil {
		return err
	}
	return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Movie{}).Error
}

// AppendReview 在事务中锁定电影行，由 apply 判断并追加影评，随后写入影评和聚合字段
// apply 看到的是加锁后的最新影评列表，并发提交按顺序串行执行
func (r *MovieRepository) AppendReview(ctx context.Context, movieID int, apply func(*model.Movie) (*model.Review, error)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var movie model.Movie
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&movie, movieID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.NotFoundError("Movie not found")
		}
		if err != nil {
			return err
		}
		if err := tx.Where("movie_id = ?", movieID).Order("id ASC").Find(&movie.Reviews).Error; err != nil {
			return err
		}

		review, err := apply(&movie)
		if err != nil {
			return err
		}

		review.MovieID = movieID
		if err := tx.Create(review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return model.ConflictError("You already reviewed this movie")
			}
			return err
		}

		return tx.Model(&model.Movie{}).Where("id = ?", movieID).Updates(map[string]interface{}{
			"rate":              movie.Rate,
			"number_of_reviews": movie.NumberOfReviews,
			"version":           gorm.Expr("version + 1"),
		}).Error
	})
}
