package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/moviecatalog/internal/service"
	"github.com/user/moviecatalog/internal/utils"
)

// ListCategories 分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.Services.Categories.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, categories)
}

// ==================== 分类管理 ====================

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req service.CategoryInput
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.Services.Categories.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, "Category created successfully", category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req service.CategoryInput
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.Services.Categories.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, category)
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Services.Categories.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "Category deleted successfully", nil)
}
