package processor

import (
	"context"
	"time"

	"resume-parser-go/internal/storage"
	"resume-parser-go/internal/storage/models"
)

// Decoder 按文件名把内容解码为文本，*parser.Registry 满足该接口
type Decoder interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
	Supports(ext string) bool
}

// RecordStore 解析记录持久化，*storage.MySQL 满足该接口
type RecordStore interface {
	CreateRecord(ctx context.Context, record *models.ParseRecord) error
	SaveParseResult(ctx context.Context, record *models.ParseRecord, event *models.OutboxMessage) error
	UpdateStatus(ctx context.Context, submissionID, status, errMsg string) error
	GetRecord(ctx context.Context, submissionID string) (*models.ParseRecord, error)
}

// TaskPublisher 异步解析任务投递，*storage.RabbitMQ 满足该接口
type TaskPublisher interface {
	PublishTask(ctx context.Context, task *storage.ParseTask) error
}

// StatusTracker 提交状态的快速查询，*storage.Redis 满足该接口
type StatusTracker interface {
	SetSubmissionStatus(ctx context.Context, submissionID, status string, ttl time.Duration) error
	GetSubmissionStatus(ctx context.Context, submissionID string) (string, error)
}

var (
	_ RecordStore   = (*storage.MySQL)(nil)
	_ TaskPublisher = (*storage.RabbitMQ)(nil)
	_ StatusTracker = (*storage.Redis)(nil)
)
