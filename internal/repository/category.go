package repository

import (
	"context"
	"errors"

	"github.com/user/moviecatalog/internal/model"
	"gorm.io/gorm"
)

// CategoryRepository 分类仓库
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create 创建分类
func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	err := r.db.WithContext(ctx).Create(category).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.ConflictError("Category already exists")
	}
	return err
}

// FindByID 根据 ID 查找分类，不存在返回 nil
func (r *CategoryRepository) FindByID(ctx context.Context, id int) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Update 更新分类标题
func (r *CategoryRepository) Update(ctx context.Context, category *model.Category) error {
	err := r.db.WithContext(ctx).Model(category).Update("title", category.Title).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.ConflictError("Category already exists")
	}
	return err
}

// Delete 删除分类，返回是否存在
func (r *CategoryRepository) Delete(ctx context.Context, id int) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Category{}, id)
	return result.RowsAffected > 0, result.Error
}

// List 获取所有分类
func (r *CategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&categories).Error
	return categories, err
}
