package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/user/moviecatalog/internal/config"
	"github.com/user/moviecatalog/internal/handler"
	"github.com/user/moviecatalog/internal/middleware"
	"github.com/user/moviecatalog/internal/repository"
	"github.com/user/moviecatalog/internal/repository/memory"
	"github.com/user/moviecatalog/internal/router"
	"github.com/user/moviecatalog/internal/service"
	"github.com/user/moviecatalog/internal/storage"
	"github.com/user/moviecatalog/internal/utils"
)

// stores 各存储的具体实现（postgres 或 memory）
type stores struct {
	users      service.UserStore
	favorites  service.FavoriteStore
	movies     service.MovieStore
	categories service.CategoryStore
	close      func()
}

func openStores(cfg *config.Config, logger *logrus.Logger) (*stores, error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("using in-memory store, data will be lost on restart")
		m := memory.New()
		return &stores{
			users:      m.Users,
			favorites:  m.Favorites,
			movies:     m.Movies,
			categories: m.Categories,
			close:      func() {},
		}, nil
	}

	db, err := repository.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	repos := repository.NewRepositories(db)
	return &stores{
		users:      repos.User,
		favorites:  repos.Favorite,
		movies:     repos.Movie,
		categories: repos.Category,
		close: func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		},
	}, nil
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func main() {
	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		logrus.Info("未找到 .env 文件，使用系统环境变量")
	}

	// 加载配置
	cfg := config.Load()
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("配置无效")
	}

	// 初始化存储
	st, err := openStores(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("数据库连接失败")
	}
	defer st.close()

	// 初始化缓存
	appCache := utils.NewCache()

	// 对象存储
	var objects service.ObjectStorage
	if cfg.Storage.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		minioStorage, err := storage.NewMinIOStorage(ctx, cfg.Storage, logger)
		cancel()
		if err != nil {
			logger.WithError(err).Fatal("对象存储初始化失败")
		}
		objects = minioStorage
	}

	services := &handler.Services{
		Users:      service.NewUserService(st.users, logger),
		Favorites:  service.NewFavoriteService(st.users, st.favorites, st.movies, logger),
		Movies:     service.NewMovieService(st.movies, cfg.Catalog, appCache, logger),
		Categories: service.NewCategoryService(st.categories, appCache, logger),
		Uploads:    service.NewUploadService(objects, cfg.Storage.MaxUploadSize, logger),
	}

	if cfg.Auth.AdminEmail != "" {
		if _, err := services.Users.EnsureAdmin(context.Background(), cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			logger.WithError(err).Fatal("初始化管理员失败")
		}
	}

	// 初始化 Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = cfg.Storage.MaxUploadSize

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 中间件
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Security())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	h := handler.NewHandler(cfg, services, logger)

	// 注册路由
	router.RegisterRoutes(r, h, st.users)

	srv := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        r,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		logger.WithField("port", cfg.Server.Port).Info("服务器启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("服务器启动失败")
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("服务器强制关闭")
	}

	logger.Info("服务器已退出")
}
