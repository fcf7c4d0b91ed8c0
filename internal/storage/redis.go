package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/types"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

var redisTracer = otel.Tracer("resume-parser-go/storage/redis")

// Redis 封装 go-redis 客户端
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter 创建客户端、挂载 OpenTelemetry 钩子并 Ping 一次
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis配置不能为空")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis地址不能为空")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: time.Duration(cfg.MinRetryBackoffMS) * time.Millisecond,
		MaxRetryBackoff: time.Duration(cfg.MaxRetryBackoffMS) * time.Millisecond,

		ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute,
		ConnMaxIdleTime: time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute,
	})

	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("为Redis挂载OpenTelemetry失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("连接Redis %s 失败: %w", cfg.Address, err)
	}

	return &Redis{Client: client, config: cfg}, nil
}

// Close 关闭连接
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping 检查连接
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}
	return r.Client.Ping(ctx).Err()
}

// SetSubmissionStatus 记录异步提交的最新状态，供查询接口快速返回
func (r *Redis) SetSubmissionStatus(ctx context.Context, submissionID, status string, ttl time.Duration) error {
	return r.Client.Set(ctx, fmt.Sprintf(constants.KeySubmissionStatus, submissionID), status, ttl).Err()
}

// GetSubmissionStatus key 不存在时返回空字符串
func (r *Redis) GetSubmissionStatus(ctx context.Context, submissionID string) (string, error) {
	status, err := r.Client.Get(ctx, fmt.Sprintf(constants.KeySubmissionStatus, submissionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return status, err
}

// RedisCache 解析结果的二级缓存，key 形如 app:parse:result:{md5}
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ResultCache = (*RedisCache)(nil)

// NewRedisCache ttl<=0 时使用默认值
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Get 未命中、Redis 不可用或数据损坏都视为未命中
func (c *RedisCache) Get(ctx context.Context, md5Hex string) (*types.ResumeResponse, bool) {
	key := fmt.Sprintf(constants.KeyParseResult, md5Hex)
	ctx, span := redisTracer.Start(ctx, "RedisCache.Get", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(semconv.DBSystemRedis, attribute.String("db.operation", "GET"), attribute.String("db.redis.key", key))

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.SetAttributes(attribute.Bool("db.redis.key_exists", false))
			return nil, false
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn().Err(err).Str("key", key).Msg("读取Redis缓存失败，按未命中处理")
		return nil, false
	}

	var resp types.ResumeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		span.RecordError(err)
		logger.Warn().Err(err).Str("key", key).Msg("Redis缓存数据损坏，按未命中处理")
		return nil, false
	}
	span.SetAttributes(attribute.Bool("db.redis.key_exists", true), attribute.Int("db.redis.value_length", len(data)))
	return &resp, true
}

// Set 写入失败只记录日志
func (c *RedisCache) Set(ctx context.Context, md5Hex string, resp *types.ResumeResponse) {
	if resp == nil {
		return
	}
	key := fmt.Sprintf(constants.KeyParseResult, md5Hex)
	data, err := json.Marshal(resp)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("缓存序列化失败，跳过写入")
		return
	}

	ctx, span := redisTracer.Start(ctx, "RedisCache.Set", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(semconv.DBSystemRedis, attribute.String("db.operation", "SET"), attribute.String("db.redis.key", key),
		attribute.Int64("db.redis.expiration_ms", c.ttl.Milliseconds()))

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn().Err(err).Str("key", key).Msg("写入Redis缓存失败")
	}
}
