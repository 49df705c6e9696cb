package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/user/moviecatalog/internal/config"
	"github.com/user/moviecatalog/internal/middleware"
	"github.com/user/moviecatalog/internal/model"
	"github.com/user/moviecatalog/internal/service"
	"github.com/user/moviecatalog/internal/utils"
)

// Services handler 依赖的业务服务
type Services struct {
	Users      *service.UserService
	Favorites  *service.FavoriteService
	Movies     *service.MovieService
	Categories *service.CategoryService
	Uploads    *service.UploadService
}

// Handler HTTP 处理器
type Handler struct {
	Config   *config.Config
	Services *Services
	Logger   *logrus.Logger
}

// NewHandler 创建处理器
func NewHandler(cfg *config.Config, services *Services, logger *logrus.Logger) *Handler {
	return &Handler{
		Config:   cfg,
		Services: services,
		Logger:   logger,
	}
}

// respondError 按错误类别返回对应状态码，未知错误记录日志后返回 500
func (h *Handler) respondError(c *gin.Context, err error) {
	var appErr *model.Error
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, model.ErrNotFound):
			utils.NotFound(c, appErr.Message)
		case errors.Is(err, model.ErrConflict):
			utils.Conflict(c, appErr.Message)
		case errors.Is(err, model.ErrValidation):
			utils.BadRequest(c, appErr.Message)
		case errors.Is(err, model.ErrUnauthorized):
			utils.Unauthorized(c, appErr.Message)
		default:
			utils.BadRequest(c, appErr.Message)
		}
		return
	}

	_ = c.Error(err)
	h.Logger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	utils.InternalServerError(c, "")
}

// bindJSON 解析请求体，失败时返回 400
func (h *Handler) bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

// paramID 解析路径中的 ID
func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		utils.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return id, true
}

// profileWithToken 构建带新 token 的用户信息，同时写入 Cookie
func (h *Handler) profileWithToken(c *gin.Context, user *model.User) (*model.Profile, error) {
	expiry := h.Config.Auth.JWTExpiry
	token, err := middleware.GenerateToken(user.ID, h.Config.Auth.Secret, expiry)
	if err != nil {
		return nil, err
	}
	c.SetCookie("token", token, int(expiry.Seconds()), "/", "", h.Config.IsProduction(), true)
	return model.NewProfile(user, token), nil
}
