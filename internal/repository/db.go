package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/user/moviecatalog/internal/config"
	"github.com/user/moviecatalog/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化数据库连接并迁移表结构
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Database.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取连接池失败: %w", err)
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	logrus.Info("Running auto migration...")
	if err := db.AutoMigrate(&model.User{}, &model.Category{}, &model.Movie{}, &model.Review{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// Repositories 仓库集合
type Repositories struct {
	DB       *gorm.DB
	User     *UserRepository
	Favorite *FavoriteRepository
	Movie    *MovieRepository
	Category *CategoryRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:       db,
		User:     NewUserRepository(db),
		Favorite: NewFavoriteRepository(db),
		Movie:    NewMovieRepository(db),
		Category: NewCategoryRepository(db),
	}
}
