// Package outbox 发件箱中继：把与解析记录同事务落库的事件投递到 RabbitMQ
package outbox

import (
	"context"
	"sync"
	"time"

	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/storage/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultPollingInterval = 5 * time.Second
	defaultBatchSize       = 10
	maxRetryCount          = 5
)

// Publisher 消息发布方，*storage.RabbitMQ 满足该接口
type Publisher interface {
	PublishMessage(ctx context.Context, exchangeName, routingKey string, message []byte, persistent bool) error
}

// Option 中继配置项
type Option func(*MessageRelay)

// WithPollingInterval 轮询间隔，<=0 时忽略
func WithPollingInterval(d time.Duration) Option {
	return func(r *MessageRelay) {
		if d > 0 {
			r.pollingInterval = d
		}
	}
}

// WithBatchSize 每轮最多处理的消息数，<=0 时忽略
func WithBatchSize(n int) Option {
	return func(r *MessageRelay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// MessageRelay 轮询 outbox 表并将消息发布到消息代理
type MessageRelay struct {
	db              *gorm.DB
	publisher       Publisher
	pollingInterval time.Duration
	batchSize       int
	tracer          trace.Tracer
	now             func() time.Time

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

func NewMessageRelay(db *gorm.DB, publisher Publisher, opts ...Option) *MessageRelay {
	r := &MessageRelay{
		db:              db,
		publisher:       publisher,
		pollingInterval: defaultPollingInterval,
		batchSize:       defaultBatchSize,
		tracer:          otel.Tracer("resume-parser-go/outbox"),
		now:             time.Now,
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start 在后台轮询，ctx 取消或 Stop 后退出
func (r *MessageRelay) Start(ctx context.Context) {
	logger.Info().Dur("interval", r.pollingInterval).Int("batch_size", r.batchSize).Msg("发件箱中继启动")
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.pollingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info().Msg("发件箱中继已停止")
				return
			case <-r.done:
				logger.Info().Msg("发件箱中继已停止")
				return
			case <-ticker.C:
				if err := r.processPendingMessages(ctx); err != nil {
					logger.Error().Err(err).Msg("处理发件箱消息失败")
				}
			}
		}
	}()
}

// Stop 通知后台协程退出并等待当前批次完成
func (r *MessageRelay) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
	r.wg.Wait()
}

func (r *MessageRelay) processPendingMessages(ctx context.Context) error {
	var messages []models.OutboxMessage

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	// SKIP LOCKED 让多个实例并行拉取互不重叠的批次
	err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", constants.OutboxPending).
		Order("created_at asc").
		Limit(r.batchSize).
		Find(&messages).Error
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return tx.Commit().Error
	}

	// 空轮询不产生 span
	ctx, span := r.tracer.Start(ctx, "outbox.ProcessBatch",
		trace.WithAttributes(attribute.Int("messaging.batch.message_count", len(messages))))
	defer span.End()

	logger.Debug().Int("count", len(messages)).Msg("拉取到待投递的发件箱消息")
	for i := range messages {
		msg := &messages[i]
		r.deliver(ctx, msg)
		// 更新失败时整批回滚，消息在下一轮重新拾取
		if err := tx.Save(msg).Error; err != nil {
			return err
		}
	}
	return tx.Commit().Error
}

// deliver 发布一条消息并按结果更新其状态，不落库
func (r *MessageRelay) deliver(ctx context.Context, msg *models.OutboxMessage) {
	err := r.publisher.PublishMessage(ctx, msg.TargetExchange, msg.TargetRoutingKey, []byte(msg.Payload), true)
	if err != nil {
		msg.RetryCount++
		msg.ErrorMessage = err.Error()
		if msg.RetryCount >= maxRetryCount {
			msg.Status = constants.OutboxFailed
		}
		logger.Warn().Err(err).
			Uint64("id", msg.ID).
			Str("aggregate_id", msg.AggregateID).
			Int("retries", msg.RetryCount).
			Msg("发件箱消息发布失败")
		return
	}
	now := r.now()
	msg.Status = constants.OutboxSent
	msg.ProcessedAt = &now
	msg.ErrorMessage = ""
}
