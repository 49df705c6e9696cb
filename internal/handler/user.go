package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/moviecatalog/internal/middleware"
	"github.com/user/moviecatalog/internal/model"
	"github.com/user/moviecatalog/internal/service"
	"github.com/user/moviecatalog/internal/utils"
)

// Register 注册
func (h *Handler) Register(c *gin.Context) {
	var req service.RegisterInput
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.Services.Users.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	profile, err := h.profileWithToken(c, user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, "User registered successfully", profile)
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var req service.LoginInput
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.Services.Users.Login(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	profile, err := h.profileWithToken(c, user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, profile)
}

// Logout 清除 Cookie
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", h.Config.IsProduction(), true)
	utils.SuccessWithMessage(c, "Logged out", nil)
}

// UpdateProfile 更新资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req service.ProfileInput
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.Services.Users.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	profile, err := h.profileWithToken(c, user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, profile)
}

// DeleteProfile 注销账户
func (h *Handler) DeleteProfile(c *gin.Context) {
	if err := h.Services.Users.DeleteProfile(c.Request.Context(), middleware.CurrentUser(c).ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.SetCookie("token", "", -1, "/", "", h.Config.IsProduction(), true)
	utils.SuccessWithMessage(c, "User deleted successfully", nil)
}

// ChangePassword 修改密码
func (h *Handler) ChangePassword(c *gin.Context) {
	var req service.ChangePasswordInput
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.Services.Users.ChangePassword(c.Request.Context(), middleware.CurrentUser(c).ID, req); err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "Password changed successfully", nil)
}

// ListFavorites 收藏的电影
func (h *Handler) ListFavorites(c *gin.Context) {
	movies, err := h.Services.Favorites.List(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, movies)
}

type favoriteRequest struct {
	MovieID int `json:"movieId"`
}

// AddFavorite 添加收藏
func (h *Handler) AddFavorite(c *gin.Context) {
	var req favoriteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.MovieID < 1 {
		utils.BadRequest(c, "movieId is required")
		return
	}

	userID := middleware.CurrentUser(c).ID
	if err := h.Services.Favorites.Add(c.Request.Context(), userID, req.MovieID); err != nil {
		h.respondError(c, err)
		return
	}
	movies, err := h.Services.Favorites.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, "Movie added to favorites", movies)
}

// ClearFavorites 清空收藏
func (h *Handler) ClearFavorites(c *gin.Context) {
	if err := h.Services.Favorites.Clear(c.Request.Context(), middleware.CurrentUser(c).ID); err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "Your favorite movies deleted successfully", []*model.Movie{})
}

// ==================== 管理员 ====================

// AdminListUsers 用户列表
func (h *Handler) AdminListUsers(c *gin.Context) {
	users, err := h.Services.Users.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, users)
}

// AdminDeleteUser 删除用户
func (h *Handler) AdminDeleteUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Services.Users.DeleteUser(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "User deleted successfully", nil)
}
