package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
)

// ObjectStorage 原始文件与解析结果的对象存储
type ObjectStorage interface {
	// UploadOriginal 上传原始简历，返回对象键 resume/{id}/original{ext}
	UploadOriginal(ctx context.Context, submissionID, fileExt string, data []byte) (string, error)
	// UploadResult 上传解析结果 JSON，返回对象键 resume/{id}/result.json
	UploadResult(ctx context.Context, submissionID string, resultJSON []byte) (string, error)
	DownloadOriginal(ctx context.Context, objectKey string) ([]byte, error)
	DownloadResult(ctx context.Context, objectKey string) ([]byte, error)
}

var _ ObjectStorage = (*MinIO)(nil)

// MinIO 基于 minio-go 的对象存储
type MinIO struct {
	client         *minio.Client
	cfg            *config.MinIOConfig
	originalBucket string
	resultBucket   string
}

// NewMinIO 创建客户端，确保两个存储桶存在并按配置设置过期规则
func NewMinIO(ctx context.Context, cfg *config.MinIOConfig) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	m := &MinIO{
		client:         client,
		cfg:            cfg,
		originalBucket: cfg.OriginalsBucket,
		resultBucket:   cfg.ResultsBucket,
	}

	for _, bucket := range []string{m.originalBucket, m.resultBucket} {
		if err := m.ensureBucketExists(ctx, bucket, cfg.Location); err != nil {
			return nil, err
		}
	}

	if err := m.setupLifecycleRules(ctx); err != nil {
		logger.Warn().Err(err).Msg("设置MinIO生命周期规则失败")
	}

	logger.Info().Str("endpoint", cfg.Endpoint).
		Str("originals", m.originalBucket).
		Str("results", m.resultBucket).
		Msg("MinIO客户端初始化成功")
	return m, nil
}

func (m *MinIO) ensureBucketExists(ctx context.Context, bucketName, location string) error {
	exists, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 是否存在时出错: %w", bucketName, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location}); err != nil {
		return fmt.Errorf("创建存储桶 %s 失败: %w", bucketName, err)
	}
	logger.Info().Str("bucket", bucketName).Msg("已创建存储桶")
	return nil
}

func (m *MinIO) setupLifecycleRules(ctx context.Context) error {
	rules := []struct {
		bucket string
		id     string
		days   int
	}{
		{m.originalBucket, "expire-originals", m.cfg.OriginalFileExpireDays},
		{m.resultBucket, "expire-results", m.cfg.ResultExpireDays},
	}
	for _, r := range rules {
		if r.days <= 0 {
			continue
		}
		lc := lifecycle.NewConfiguration()
		lc.Rules = []lifecycle.Rule{{
			ID:         r.id,
			Status:     "Enabled",
			Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(r.days)},
		}}
		if err := m.client.SetBucketLifecycle(ctx, r.bucket, lc); err != nil {
			return fmt.Errorf("为存储桶 %s 设置生命周期失败: %w", r.bucket, err)
		}
	}
	return nil
}

// OriginalObjectKey 原始文件的对象键
func OriginalObjectKey(submissionID, fileExt string) string {
	return fmt.Sprintf("resume/%s/original%s", submissionID, strings.ToLower(fileExt))
}

// ResultObjectKey 解析结果的对象键
func ResultObjectKey(submissionID string) string {
	return fmt.Sprintf("resume/%s/result.json", submissionID)
}

func (m *MinIO) UploadOriginal(ctx context.Context, submissionID, fileExt string, data []byte) (string, error) {
	key := OriginalObjectKey(submissionID, fileExt)
	if err := m.put(ctx, m.originalBucket, key, data, ContentTypeFor(fileExt)); err != nil {
		return "", err
	}
	return key, nil
}

func (m *MinIO) UploadResult(ctx context.Context, submissionID string, resultJSON []byte) (string, error) {
	key := ResultObjectKey(submissionID)
	if err := m.put(ctx, m.resultBucket, key, resultJSON, "application/json"); err != nil {
		return "", err
	}
	return key, nil
}

func (m *MinIO) DownloadOriginal(ctx context.Context, objectKey string) ([]byte, error) {
	return m.get(ctx, m.originalBucket, objectKey)
}

func (m *MinIO) DownloadResult(ctx context.Context, objectKey string) ([]byte, error) {
	return m.get(ctx, m.resultBucket, objectKey)
}

func (m *MinIO) put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := m.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("上传对象 %s/%s 失败: %w", bucket, key, err)
	}
	logger.Debug().Str("bucket", bucket).Str("key", key).Int("size", len(data)).Msg("对象上传完成")
	return nil
}

func (m *MinIO) get(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("获取对象 %s/%s 失败: %w", bucket, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		// 对象不存在时 minio 在读取阶段才返回 NoSuchKey
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("对象 %s/%s: %w", bucket, key, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("读取对象 %s/%s 失败: %w", bucket, key, err)
	}
	return data, nil
}

// ContentTypeFor 按扩展名返回 MIME 类型
func ContentTypeFor(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
