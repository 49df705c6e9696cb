package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/user/moviecatalog/internal/model"
	"github.com/user/moviecatalog/internal/utils"
)

const userKey = "user"

// Claims JWT 声明
type Claims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// UserFinder 按 ID 查找用户，不存在返回 nil
type UserFinder interface {
	FindByID(ctx context.Context, id int) (*model.User, error)
}

// RequireAuth 必须登录中间件
// 每次请求都从存储读取用户，管理员标记和展示信息始终是最新的
// secureCookie 为 true 时续期 Cookie 仅通过 HTTPS 发送，与登录 Cookie 一致
func RequireAuth(jwtSecret string, secureCookie bool, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractClaims(c, jwtSecret)
		if err != nil {
			utils.Unauthorized(c, "Not authorized, token failed")
			c.Abort()
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			utils.InternalServerError(c, "")
			c.Abort()
			return
		}
		if user == nil {
			utils.Unauthorized(c, "Not authorized, user not found")
			c.Abort()
			return
		}

		c.Set(userKey, user)

		// 滑动续期逻辑：如果 Token 过期时间消耗超过一半，则刷新
		if shouldRefresh(claims) {
			lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
			if newToken, err := GenerateToken(user.ID, jwtSecret, lifetime); err == nil {
				c.SetCookie("token", newToken, int(lifetime.Seconds()), "/", "", secureCookie, true)
				c.Header("X-Refreshed-Token", newToken)
			}
		}

		c.Next()
	}
}

// RequireAdmin 管理员权限中间件，需在 RequireAuth 之后使用
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			utils.Forbidden(c, "Not authorized as an admin")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser 从上下文获取当前用户（未登录返回 nil）
func CurrentUser(c *gin.Context) *model.User {
	if v, exists := c.Get(userKey); exists {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}

// extractClaims 从 Cookie 或 Header 中提取 JWT Claims
func extractClaims(c *gin.Context, jwtSecret string) (*Claims, error) {
	var tokenString string

	// 优先从 Authorization Header 获取
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	} else if cookie, err := c.Cookie("token"); err == nil {
		tokenString = cookie
	}

	if tokenString == "" {
		return nil, jwt.ErrTokenMalformed
	}

	// 解析 Token，只接受 HS256
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// GenerateToken 生成 JWT Token
func GenerateToken(userID int, jwtSecret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// shouldRefresh 判断是否需要刷新 Token
// 逻辑：如果已经消耗了总有效期的 50% 以上，则建议刷新
func shouldRefresh(claims *Claims) bool {
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return false
	}

	totalDuration := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	elapsedDuration := time.Since(claims.IssuedAt.Time)

	// 如果消耗超过 50%
	return elapsedDuration > totalDuration/2
}
