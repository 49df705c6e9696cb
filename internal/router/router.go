package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/moviecatalog/internal/handler"
	"github.com/user/moviecatalog/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler, users middleware.UserFinder) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.RequireAuth(h.Config.Auth.Secret, h.Config.IsProduction(), users)
	requireAdmin := middleware.RequireAdmin()

	api := r.Group("/api")

	// ==================== 用户 ====================
	userGroup := api.Group("/users")
	{
		userGroup.POST("/register", h.Register)
		userGroup.POST("/login", h.Login)
		userGroup.POST("/logout", h.Logout)
	}

	me := api.Group("/users", requireAuth)
	{
		me.PUT("", h.UpdateProfile)
		me.DELETE("", h.DeleteProfile)
		me.PUT("/password", h.ChangePassword)
		me.GET("/favorites", h.ListFavorites)
		me.POST("/favorites", h.AddFavorite)
		me.DELETE("/favorites", h.ClearFavorites)
	}

	adminUsers := api.Group("/users", requireAuth, requireAdmin)
	{
		adminUsers.GET("", h.AdminListUsers)
		adminUsers.DELETE("/:id", h.AdminDeleteUser)
	}

	// ==================== 电影 ====================
	movies := api.Group("/movies")
	{
		movies.GET("", h.ListMovies)
		movies.GET("/rated/top", h.TopRatedMovies)
		movies.GET("/random/all", h.RandomMovies)
		movies.GET("/:id", h.GetMovie)
		movies.POST("/:id/reviews", requireAuth, h.CreateReview)
	}

	adminMovies := api.Group("/movies", requireAuth, requireAdmin)
	{
		adminMovies.POST("", h.CreateMovie)
		adminMovies.POST("/import", h.ImportMovies)
		adminMovies.PUT("/:id", h.UpdateMovie)
		adminMovies.DELETE("/:id", h.DeleteMovie)
		adminMovies.DELETE("", h.DeleteAllMovies)
	}

	// ==================== 分类 ====================
	api.GET("/categories", h.ListCategories)
	adminCategories := api.Group("/categories", requireAuth, requireAdmin)
	{
		adminCategories.POST("", h.CreateCategory)
		adminCategories.PUT("/:id", h.UpdateCategory)
		adminCategories.DELETE("/:id", h.DeleteCategory)
	}

	// ==================== 上传 ====================
	api.POST("/upload", requireAuth, h.Upload)
}
