package repository

import (
	"context"
	"errors"

	"github.com/user/moviecatalog/internal/model"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户，邮箱重复返回冲突错误
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.ConflictError("User already exists")
	}
	return err
}

// FindByEmail 根据邮箱查找用户，不存在返回 nil
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByID 根据 ID 查找用户，不存在返回 nil
func (r *UserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Update 更新资料与密码，不触碰收藏列表
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"full_name":     user.FullName,
		"email":         user.Email,
		"image":         user.Image,
		"password_hash": user.PasswordHash,
	})
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return model.ConflictError("Email already in use")
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.NotFoundError("User not found")
	}
	return nil
}

// List 获取所有用户
func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, err
}

// Delete 删除用户，返回是否存在
func (r *UserRepository) Delete(ctx context.Context, id int) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.User{}, id)
	return result.RowsAffected > 0, result.Error
}
