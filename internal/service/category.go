package service

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/user/moviecatalog/internal/model"
	"golang.org/x/sync/singleflight"
)

const categoriesCacheKey = "categories:all"

// CategoryService 分类管理
type CategoryService struct {
	categories CategoryStore
	cache      *cache.Cache
	group      singleflight.Group
	gen        atomic.Uint64
	logger     *logrus.Logger
}

// NewCategoryService 创建分类服务
func NewCategoryService(categories CategoryStore, c *cache.Cache, logger *logrus.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		cache:      c,
		logger:     logger,
	}
}

// CategoryInput 分类参数
type CategoryInput struct {
	Title string `json:"title" validate:"required,max=100"`
}

// List 获取所有分类（缓存）
func (s *CategoryService) List(ctx context.Context) ([]*model.Category, error) {
	if v, ok := s.cache.Get(categoriesCacheKey); ok {
		return v.([]*model.Category), nil
	}
	v, err, _ := s.group.Do(categoriesCacheKey, func() (interface{}, error) {
		gen := s.gen.Load()
		categories, err := s.categories.List(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if s.gen.Load() == gen {
			s.cache.Set(categoriesCacheKey, categories, cache.DefaultExpiration)
		}
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*model.Category), nil
}

// Create 创建分类
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*model.Category, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	category := &model.Category{Title: in.Title}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate()
	s.logger.WithField("title", category.Title).Info("category created")
	return category, nil
}

// Update 更新分类，空标题保留原值
func (s *CategoryService) Update(ctx context.Context, id int, in CategoryInput) (*model.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, model.NotFoundError("Category not found")
	}
	category.Title = orString(strings.TrimSpace(in.Title), category.Title)
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate()
	return category, nil
}

// Delete 删除分类
func (s *CategoryService) Delete(ctx context.Context, id int) error {
	ok, err := s.categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return model.NotFoundError("Category not found")
	}
	s.invalidate()
	return nil
}

// invalidate 写操作后清理分类缓存
func (s *CategoryService) invalidate() {
	s.gen.Add(1)
	s.cache.Delete(categoriesCacheKey)
	s.group.Forget(categoriesCacheKey)
}
