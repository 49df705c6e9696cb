package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/user/moviecatalog/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// UserService 注册、登录、资料与账户管理
type UserService struct {
	users    UserStore
	hashCost int
	logger   *logrus.Logger
}

// NewUserService 创建用户服务
func NewUserService(users UserStore, logger *logrus.Logger) *UserService {
	return &UserService{
		users:    users,
		hashCost: bcrypt.DefaultCost,
		logger:   logger,
	}
}

// RegisterInput 注册参数
type RegisterInput struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Image    string `json:"image"`
}

// LoginInput 登录参数
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileInput 更新资料参数，空字段保留原值
type ProfileInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email" validate:"omitempty,email"`
	Image    string `json:"image"`
}

// ChangePasswordInput 修改密码参数
type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register 注册
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.ConflictError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: string(hash),
		Image:        in.Image,
		LikedMovies:  []int64{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// EnsureAdmin 启动时创建初始管理员，邮箱已存在时不做修改
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if !existing.IsAdmin {
			s.logger.WithField("email", email).Warn("admin email belongs to a regular user")
		}
		return existing, nil
	}
	if len(password) < 6 {
		return nil, model.ValidationError("admin password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, err
	}
	admin := &model.User{
		FullName:     "Admin",
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      true,
		LikedMovies:  []int64{},
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", admin.ID).Info("admin user created")
	return admin, nil
}

// Login 登录，邮箱不存在与密码错误返回同一错误
func (s *UserService) Login(ctx context.Context, in LoginInput) (*model.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !checkPassword(user, in.Password) {
		return nil, model.UnauthorizedError("Invalid email or password")
	}
	return user, nil
}

// Get 获取用户
func (s *UserService) Get(ctx context.Context, id int) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.NotFoundError("User not found")
	}
	return user, nil
}

// UpdateProfile 更新资料，新邮箱属于他人时返回冲突
func (s *UserService) UpdateProfile(ctx context.Context, userID int, in ProfileInput) (*model.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Email != "" && in.Email != user.Email {
		other, err := s.users.FindByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != user.ID {
			return nil, model.ConflictError("Email already in use")
		}
		user.Email = in.Email
	}
	user.FullName = orString(in.FullName, user.FullName)
	user.Image = orString(in.Image, user.Image)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword 修改密码
func (s *UserService) ChangePassword(ctx context.Context, userID int, in ChangePasswordInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if in.OldPassword == in.NewPassword {
		return model.ValidationError("New password cannot be same as old password")
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPassword(user, in.OldPassword) {
		return model.ValidationError("Invalid old password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), s.hashCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.users.Update(ctx, user)
}

// DeleteProfile 用户注销自己的账户，管理员账户不可删除
func (s *UserService) DeleteProfile(ctx context.Context, userID int) error {
	return s.deleteUser(ctx, userID)
}

// List 获取所有用户
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

// DeleteUser 管理员删除用户，管理员账户不可删除
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	return s.deleteUser(ctx, id)
}

func (s *UserService) deleteUser(ctx context.Context, id int) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		return model.ValidationError("Can't delete admin user")
	}
	ok, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return model.NotFoundError("User not found")
	}
	s.logger.WithField("user_id", id).Info("user deleted")
	return nil
}

// checkPassword 验证密码
func checkPassword(user *model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
