package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Movie 电影模型
type Movie struct {
	ID              int       `json:"_id" gorm:"primaryKey"`
	UserID          int       `json:"userId" gorm:"index"`
	Name            string    `json:"name" gorm:"not null;index"`
	Desc            string    `json:"desc"`
	TitleImage      string    `json:"titleImage"`
	Image           string    `json:"image"`
	Category        string    `json:"category" gorm:"index"`
	Language        string    `json:"language" gorm:"index"`
	Year            int       `json:"year" gorm:"index"`
	Time            int       `json:"time" gorm:"index"` // 时长（分钟）
	Video           string    `json:"video"`
	Cast            CastList  `json:"casts" gorm:"type:jsonb"`
	Rate            float64   `json:"rate" gorm:"not null;default:0;index"`
	NumberOfReviews int       `json:"numberOfReviews" gorm:"not null;default:0"`
	Version         int       `json:"-" gorm:"not null;default:1"`
	Reviews         []Review  `json:"reviews" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Review 影评，一个用户对同一部电影只能评价一次
type Review struct {
	ID        int       `json:"_id" gorm:"primaryKey"`
	MovieID   int       `json:"-" gorm:"not null;uniqueIndex:idx_review_movie_user"`
	UserID    int       `json:"userId" gorm:"not null;uniqueIndex:idx_review_movie_user"`
	UserName  string    `json:"userName"`
	UserImage string    `json:"userImage"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasReviewFrom 该用户是否已评价过
func (m *Movie) HasReviewFrom(userID int) bool {
	for _, r := range m.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// AddReview 追加影评并重新计算评分和评价数
func (m *Movie) AddReview(r Review) {
	m.Reviews = append(m.Reviews, r)
	m.RecomputeRating()
}

// RecomputeRating 评分为所有影评的算术平均值，无影评时归零
func (m *Movie) RecomputeRating() {
	m.NumberOfReviews = len(m.Reviews)
	if m.NumberOfReviews == 0 {
		m.Rate = 0
		return
	}
	sum := 0
	for _, r := range m.Reviews {
		sum += r.Rating
	}
	m.Rate = float64(sum) / float64(m.NumberOfReviews)
}

// MarshalJSON 影评和演员列表为空时输出 []
func (m Movie) MarshalJSON() ([]byte, error) {
	type movieJSON Movie
	out := movieJSON(m)
	if out.Reviews == nil {
		out.Reviews = []Review{}
	}
	return json.Marshal(out)
}

// CastMember 演员
type CastMember struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// CastList 以 jsonb 存储的演员列表
type CastList []CastMember

// Value 实现 driver.Valuer
func (c CastList) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// MarshalJSON nil 编码为 []
func (c CastList) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]CastMember(c))
}

// Scan 实现 sql.Scanner
func (c *CastList) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*c = CastList{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("cast: unsupported source type")
	}
	return json.Unmarshal(data, c)
}

// Category 分类
type Category struct {
	ID        int       `json:"_id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
