package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/user/moviecatalog/internal/model"
)

// ReviewInput 提交影评参数
type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=2000"`
}

// SubmitReview 提交影评
// 电影不存在返回 NotFound，同一用户重复评价返回 Conflict；
// 成功后评价数等于影评条数，评分为全部评分的算术平均值
func (s *MovieService) SubmitReview(ctx context.Context, movieID int, author *model.User, in ReviewInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}

	err := s.movies.AppendReview(ctx, movieID, func(movie *model.Movie) (*model.Review, error) {
		if movie.HasReviewFrom(author.ID) {
			return nil, model.ConflictError("You already reviewed this movie")
		}
		review := model.Review{
			UserID:    author.ID,
			UserName:  author.FullName,
			UserImage: author.Image,
			Rating:    in.Rating,
			Comment:   in.Comment,
			CreatedAt: time.Now().UTC(),
		}
		movie.AddReview(review)
		return &review, nil
	})
	if err != nil {
		return err
	}

	s.invalidate()
	s.logger.WithFields(logrus.Fields{
		"movie_id": movieID,
		"user_id":  author.ID,
		"rating":   in.Rating,
	}).Info("review added")
	return nil
}
