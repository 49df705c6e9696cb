package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/moviecatalog/internal/utils"
)

// Upload 上传文件（multipart 字段 file），返回公开地址
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequest(c, "Please upload a file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	url, err := h.Services.Uploads.Upload(c.Request.Context(), fileHeader.Filename, file,
		fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, "File uploaded successfully", gin.H{"url": url})
}
