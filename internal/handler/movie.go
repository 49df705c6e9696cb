package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/moviecatalog/internal/middleware"
	"github.com/user/moviecatalog/internal/model"
	"github.com/user/moviecatalog/internal/service"
	"github.com/user/moviecatalog/internal/utils"
)

// parseFilter 从查询参数构建筛选条件，数值参数格式错误返回 ValidationError
func parseFilter(c *gin.Context) (model.MovieFilter, int, error) {
	f := model.MovieFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Language: strings.TrimSpace(c.Query("language")),
		Search:   strings.TrimSpace(c.Query("search")),
	}

	intParam := func(name string) (*int, error) {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, model.ValidationError("%s must be a number", name)
		}
		return &v, nil
	}

	var err error
	if f.Time, err = intParam("time"); err != nil {
		return f, 0, err
	}
	if f.Year, err = intParam("year"); err != nil {
		return f, 0, err
	}
	if raw := strings.TrimSpace(c.Query("rate")); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return f, 0, model.ValidationError("rate must be a number")
		}
		f.Rate = &rate
	}

	// 页码非法时按第 1 页处理
	page, _ := strconv.Atoi(c.DefaultQuery("pageNumber", "1"))
	return f, page, nil
}

// ListMovies 电影列表（筛选 + 分页）
func (h *Handler) ListMovies(c *gin.Context) {
	f, page, err := parseFilter(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.Services.Movies.List(c.Request.Context(), f, page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, result)
}

// GetMovie 电影详情
func (h *Handler) GetMovie(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	movie, err := h.Services.Movies.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, movie)
}

// TopRatedMovies 评分最高的电影
func (h *Handler) TopRatedMovies(c *gin.Context) {
	movies, err := h.Services.Movies.TopRated(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, movies)
}

// RandomMovies 随机电影
func (h *Handler) RandomMovies(c *gin.Context) {
	movies, err := h.Services.Movies.Random(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, movies)
}

// CreateReview 提交影评
func (h *Handler) CreateReview(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req service.ReviewInput
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.Services.Movies.SubmitReview(c.Request.Context(), id, middleware.CurrentUser(c), req); err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, "Review added successfully", nil)
}

// ==================== 管理员 ====================

// CreateMovie 创建电影
func (h *Handler) CreateMovie(c *gin.Context) {
	var req service.MovieInput
	if !h.bindJSON(c, &req) {
		return
	}
	movie, err := h.Services.Movies.Create(c.Request.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, "Movie created successfully", movie)
}

// UpdateMovie 更新电影
func (h *Handler) UpdateMovie(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req service.MovieInput
	if !h.bindJSON(c, &req) {
		return
	}
	movie, err := h.Services.Movies.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, movie)
}

// DeleteMovie 删除电影
func (h *Handler) DeleteMovie(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Services.Movies.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "Movie removed successfully", nil)
}

// DeleteAllMovies 删除所有电影
func (h *Handler) DeleteAllMovies(c *gin.Context) {
	if err := h.Services.Movies.DeleteAll(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "All movies removed successfully", nil)
}

// ImportMovies 导入内置电影数据
func (h *Handler) ImportMovies(c *gin.Context) {
	movies, err := h.Services.Movies.Import(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, "Movies imported successfully", movies)
}
