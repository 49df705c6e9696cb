package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
	"github.com/user/moviecatalog/internal/config"
)

// MinIOStorage S3 兼容对象存储
type MinIOStorage struct {
	client    *minio.Client
	bucket    string
	region    string
	publicURL string
	logger    *logrus.Logger
}

// NewMinIOStorage 创建客户端并确保存储桶存在且可公开读取
func NewMinIOStorage(ctx context.Context, cfg config.StorageConfig, logger *logrus.Logger) (*MinIOStorage, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	s := &MinIOStorage{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		logger:    logger,
	}

	logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"bucket":   cfg.Bucket,
		"useSSL":   cfg.UseSSL,
	}).Info("MinIO client initialized")

	if err := s.ensureBucket(ctx); err != nil {
		logger.WithError(err).Warn("Failed to configure bucket, uploads may fail")
	}
	return s, nil
}

func (s *MinIOStorage) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.WithField("bucket", s.bucket).Info("Bucket created")
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, s.bucket)
	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}
	return nil
}

// Put 上传对象并返回公开访问地址
func (s *MinIOStorage) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"object": info.Key,
		"size":   info.Size,
	}).Info("Object uploaded")
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, info.Key), nil
}
