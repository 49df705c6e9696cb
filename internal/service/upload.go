package service

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/user/moviecatalog/internal/model"
)

// ObjectStorage 对象存储
type ObjectStorage interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// UploadService 文件上传
type UploadService struct {
	storage ObjectStorage
	maxSize int64
	logger  *logrus.Logger
}

// NewUploadService 创建上传服务，storage 为 nil 表示未启用
func NewUploadService(storage ObjectStorage, maxSize int64, logger *logrus.Logger) *UploadService {
	return &UploadService{
		storage: storage,
		maxSize: maxSize,
		logger:  logger,
	}
}

// Upload 以 uuid + 原扩展名作为对象名上传，返回公开地址
func (s *UploadService) Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	if s.storage == nil {
		return "", model.ValidationError("File upload is not enabled")
	}
	if size <= 0 {
		return "", model.ValidationError("Please upload a file")
	}
	if s.maxSize > 0 && size > s.maxSize {
		return "", model.ValidationError("File is too large")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	url, err := s.storage.Put(ctx, name, r, size, contentType)
	if err != nil {
		s.logger.WithError(err).WithField("filename", filename).Error("upload failed")
		return "", err
	}
	return url, nil
}
