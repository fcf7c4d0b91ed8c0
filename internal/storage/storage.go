package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/logger"
)

var (
	// ErrRecordNotFound 解析记录不存在
	ErrRecordNotFound = errors.New("record not found")
	// ErrObjectNotFound 对象存储中没有该对象
	ErrObjectNotFound = errors.New("object not found")
)

// Storage 聚合所有外部存储依赖，未配置的组件为 nil
type Storage struct {
	MinIO    *MinIO
	RabbitMQ *RabbitMQ
	MySQL    *MySQL
	Redis    *Redis
}

// NewStorage 按配置初始化各组件。单个组件失败只记录告警，
// 但配置了却全部失败时返回错误。
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	s := &Storage{}
	var initErrors []string
	configured := 0
	var err error

	if cfg.MinIO.Endpoint != "" {
		configured++
		if s.MinIO, err = NewMinIO(ctx, &cfg.MinIO); err != nil {
			logger.Warn().Err(err).Msg("初始化MinIO失败")
			initErrors = append(initErrors, fmt.Sprintf("MinIO: %v", err))
		}
	}

	if cfg.RabbitMQ.URL != "" {
		configured++
		if s.RabbitMQ, err = NewRabbitMQ(&cfg.RabbitMQ); err == nil {
			err = s.RabbitMQ.SetupTopology()
		}
		if err != nil {
			logger.Warn().Err(err).Msg("初始化RabbitMQ失败")
			initErrors = append(initErrors, fmt.Sprintf("RabbitMQ: %v", err))
			if s.RabbitMQ != nil {
				s.RabbitMQ.Close()
				s.RabbitMQ = nil
			}
		}
	}

	if cfg.MySQL.Host != "" {
		configured++
		if s.MySQL, err = NewMySQL(&cfg.MySQL); err != nil {
			logger.Warn().Err(err).Msg("初始化MySQL失败")
			initErrors = append(initErrors, fmt.Sprintf("MySQL: %v", err))
		}
	}

	if cfg.Redis.Address != "" {
		configured++
		if s.Redis, err = NewRedisAdapter(&cfg.Redis); err != nil {
			logger.Warn().Err(err).Msg("初始化Redis失败")
			initErrors = append(initErrors, fmt.Sprintf("Redis: %v", err))
		}
	} else {
		logger.Info().Msg("Redis未配置，仅使用进程内缓存")
	}

	if configured > 0 && len(initErrors) == configured {
		return nil, fmt.Errorf("所有存储组件初始化失败: %s", strings.Join(initErrors, "; "))
	}
	if len(initErrors) > 0 {
		logger.Warn().Str("failed", strings.Join(initErrors, "; ")).Msg("部分存储组件初始化失败，相关功能降级")
	}
	return s, nil
}

// Close 关闭所有连接
func (s *Storage) Close() {
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭RabbitMQ连接失败")
		}
	}
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭MySQL连接失败")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭Redis连接失败")
		}
	}
}
