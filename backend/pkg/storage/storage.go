package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/9dragon/workinghour/backend/config"
)

// Archiver 导入源文件归档
type Archiver interface {
	// Archive 上传文件并返回对象键
	Archive(ctx context.Context, batchNo, fileName string, data []byte) (string, error)
	// Remove 删除已归档对象（导入回滚时使用）
	Remove(ctx context.Context, key string) error
}

// MinioArchiver 基于 MinIO 的归档实现
type MinioArchiver struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewMinioArchiver 创建 MinIO 客户端，桶不存在时自动创建
func NewMinioArchiver(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (*MinioArchiver, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化 MinIO 客户端失败: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("检查存储桶失败: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("创建存储桶失败: %w", err)
		}
		logger.Info("已创建存储桶", zap.String("bucket", cfg.Bucket))
	}

	return &MinioArchiver{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// Archive 上传至 imports/<批次号>/<文件名>
func (a *MinioArchiver) Archive(ctx context.Context, batchNo, fileName string, data []byte) (string, error) {
	key := ObjectKey(batchNo, fileName)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: ContentType(fileName),
	})
	if err != nil {
		return "", fmt.Errorf("上传归档文件失败: %w", err)
	}
	a.logger.Info("导入文件已归档", zap.String("bucket", a.bucket), zap.String("key", key))
	return key, nil
}

// Remove 删除归档对象
func (a *MinioArchiver) Remove(ctx context.Context, key string) error {
	if err := a.client.RemoveObject(ctx, a.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("删除归档文件失败: %w", err)
	}
	a.logger.Info("导入回滚，归档文件已删除", zap.String("bucket", a.bucket), zap.String("key", key))
	return nil
}

// ObjectKey 归档对象键，文件名只保留最后一段
func ObjectKey(batchNo, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" {
		base = "upload"
	}
	return "imports/" + batchNo + "/" + base
}

// ContentType 按扩展名返回表格 MIME 类型
func ContentType(fileName string) string {
	if strings.HasSuffix(strings.ToLower(fileName), ".xls") {
		return "application/vnd.ms-excel"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
