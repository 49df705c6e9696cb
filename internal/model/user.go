package model

import (
	"time"

	"github.com/lib/pq"
)

// User 用户模型
type User struct {
	ID           int           `json:"_id" gorm:"primaryKey"`
	FullName     string        `json:"fullName" gorm:"not null"`
	Email        string        `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string        `json:"-" gorm:"not null"`
	Image        string        `json:"image"`
	IsAdmin      bool          `json:"isAdmin" gorm:"not null;default:false"`
	LikedMovies  pq.Int64Array `json:"likedMovies" gorm:"type:bigint[];not null;default:'{}'"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// HasFavorite 收藏列表中是否已有该电影（按有序列表逐个比较）
func (u *User) HasFavorite(movieID int) bool {
	for _, id := range u.LikedMovies {
		if id == int64(movieID) {
			return true
		}
	}
	return false
}

// Profile 返回给客户端的用户信息，附带 token
type Profile struct {
	ID       int    `json:"_id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Image    string `json:"image"`
	IsAdmin  bool   `json:"isAdmin"`
	Token    string `json:"token,omitempty"`
}

// NewProfile 由用户构建 Profile
func NewProfile(u *User, token string) *Profile {
	return &Profile{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Image:    u.Image,
		IsAdmin:  u.IsAdmin,
		Token:    token,
	}
}
