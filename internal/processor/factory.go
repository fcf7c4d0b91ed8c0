package processor

import (
	"context"
	"fmt"
	"time"

	"resume-parser-go/internal/analyzer"
	"resume-parser-go/internal/config"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/parser"
	"resume-parser-go/internal/storage"
	"resume-parser-go/internal/taxonomy"
)

const defaultDecodeTimeout = 20 * time.Second

// NewResumeServiceFromConfig 按配置组装服务，store 中为 nil 的组件对应功能关闭
func NewResumeServiceFromConfig(ctx context.Context, cfg *config.Config, store *storage.Storage) (*ResumeService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	var err error
	tax := taxonomy.Default(cfg.Parser.SkillAliases)
	a := analyzer.New(analyzer.WithTaxonomy(tax))

	decodeTimeout := config.GetDuration(cfg.Parser.DecodeTimeout, defaultDecodeTimeout)
	var registry *parser.Registry
	if cfg.Parser.TikaURL != "" {
		registry = parser.NewTikaRegistry(cfg.Parser.TikaURL, parser.WithTikaTimeout(decodeTimeout))
		logger.Info().Str("tika_url", cfg.Parser.TikaURL).Msg("使用Tika解码PDF/DOCX")
	} else {
		registry, err = parser.NewDefaultRegistry(ctx, parser.WithPDFTimeout(decodeTimeout))
		if err != nil {
			return nil, fmt.Errorf("初始化文本解码器失败: %w", err)
		}
	}

	cacheTTL := config.GetDuration(cfg.Parser.CacheTTL, storage.DefaultCacheTTL)
	l1 := storage.NewMemoryCache(cacheTTL, cfg.Parser.CacheMaxEntries)

	var compOpts []ComponentOpt
	if store != nil && store.Redis != nil {
		compOpts = append(compOpts,
			WithCache(storage.NewTieredCache(l1, storage.NewRedisCache(store.Redis.Client, cacheTTL))),
			WithStatusTracker(store.Redis))
	} else {
		compOpts = append(compOpts, WithCache(l1))
	}

	setOpts := []SettingOpt{
		WithMaxFileSize(cfg.Parser.MaxFileSize()),
		WithSupportedFormats(cfg.Parser.SupportedFormats),
		WithProcessingTimeout(config.GetDuration(cfg.Parser.ProcessingTimeout, 0)),
		WithBatchConcurrency(cfg.Parser.BatchConcurrency),
	}

	// 接口里不能放 nil 指针
	if store != nil {
		if store.MinIO != nil {
			compOpts = append(compOpts, WithObjectStorage(store.MinIO))
		}
		if store.MySQL != nil {
			compOpts = append(compOpts, WithRecordStore(store.MySQL))
		}
		if store.RabbitMQ != nil {
			compOpts = append(compOpts, WithTaskPublisher(store.RabbitMQ))
		}
		if store.MySQL != nil && store.RabbitMQ != nil {
			setOpts = append(setOpts, WithOutbox(cfg.RabbitMQ.ResumeExchange, cfg.RabbitMQ.ParsedRoutingKey))
		}
	}

	svc, err := CreateResumeService(a, registry, compOpts, setOpts)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Int("skills", tax.Size()).
		Strs("formats", svc.Settings().SupportedFormats).
		Bool("async", svc.AsyncEnabled()).
		Msg("简历解析服务已初始化")
	return svc, nil
}
