package service

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/user/moviecatalog/internal/model"
)

// UserStore 用户存储，查询不存在时返回 nil, nil
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context) ([]*model.User, error)
	Delete(ctx context.Context, id int) (bool, error)
}

// FavoriteStore 收藏列表存储
type FavoriteStore interface {
	Add(ctx context.Context, userID, movieID int) (bool, error)
	Clear(ctx context.Context, userID int) (bool, error)
}

// MovieStore 电影与影评存储
type MovieStore interface {
	Find(ctx context.Context, f model.MovieFilter, offset, limit int) ([]*model.Movie, error)
	Count(ctx context.Context, f model.MovieFilter) (int64, error)
	FindByID(ctx context.Context, id int) (*model.Movie, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*model.Movie, error)
	TopRated(ctx context.Context, limit int) ([]*model.Movie, error)
	Random(ctx context.Context, limit int) ([]*model.Movie, error)
	Create(ctx context.Context, movie *model.Movie) error
	Update(ctx context.Context, movie *model.Movie) error
	Delete(ctx context.Context, id int) (bool, error)
	DeleteAll(ctx context.Context) error
	Replace(ctx context.Context, movies []*model.Movie) error
	AppendReview(ctx context.Context, movieID int, apply func(*model.Movie) (*model.Review, error)) error
}

// CategoryStore 分类存储
type CategoryStore interface {
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id int) (*model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id int) (bool, error)
	List(ctx context.Context) ([]*model.Category, error)
}

var validate = newValidator()

// newValidator 错误信息使用 json 字段名
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct 校验输入，失败时转换为 ValidationError
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return model.ValidationError("Invalid input")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeField(fe))
	}
	return model.ValidationError("%s", strings.Join(msgs, "; "))
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		if fe.Kind().String() == "string" {
			return fe.Field() + " must be at least " + fe.Param() + " characters"
		}
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
