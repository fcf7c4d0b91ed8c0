package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-parser-go/internal/api/handler"
	"resume-parser-go/internal/api/router"
	"resume-parser-go/internal/config"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/outbox"
	"resume-parser-go/internal/processor"
	"resume-parser-go/internal/storage"
	"resume-parser-go/internal/tracing"

	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径，为空时自动查找 config.yaml")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.InitProvider(ctx, cfg.Tracing, cfg.Server.Version)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化链路追踪失败")
	}

	store, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化存储失败")
	}
	defer store.Close()

	svc, err := processor.NewResumeServiceFromConfig(ctx, cfg, store)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化简历解析服务失败")
	}

	var relay *outbox.MessageRelay
	if store.MySQL != nil && store.RabbitMQ != nil {
		relay = outbox.NewMessageRelay(store.MySQL.DB(), store.RabbitMQ,
			outbox.WithPollingInterval(config.GetDuration(cfg.RabbitMQ.OutboxInterval, 0)),
			outbox.WithBatchSize(cfg.RabbitMQ.OutboxBatchSize))
		relay.Start(ctx)
	}

	var consumerDone <-chan struct{}
	if store.RabbitMQ != nil && svc.AsyncEnabled() {
		retryInterval := config.GetDuration(cfg.RabbitMQ.RetryInterval, 5*time.Second)
		consumerDone, err = store.RabbitMQ.StartConsumer(ctx, cfg.RabbitMQ.TaskQueue,
			cfg.RabbitMQ.PrefetchCount, cfg.RabbitMQ.ConsumerWorkers, taskHandler(svc, retryInterval))
		if err != nil {
			logger.Fatal().Err(err).Msg("启动解析任务消费者失败")
		}
		logger.Info().
			Str("queue", cfg.RabbitMQ.TaskQueue).
			Int("workers", cfg.RabbitMQ.ConsumerWorkers).
			Msg("解析任务消费者已启动")
	}

	h := router.NewServer(cfg)
	router.RegisterRoutes(h, handler.NewResumeHandler(svc, cfg.Server.Version), cfg)

	go func() {
		logger.Info().Str("address", cfg.Server.Address).Msg("HTTP 服务器启动")
		if err := h.Run(); err != nil {
			logger.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("接收到终止信号，正在优雅退出...")

	timeout := config.GetDuration(cfg.Server.ShutdownTimeout, 10*time.Second)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := h.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP服务器关闭失败")
	}
	if relay != nil {
		relay.Stop()
	}
	if consumerDone != nil {
		select {
		case <-consumerDone:
		case <-shutdownCtx.Done():
			logger.Warn().Msg("等待消费者退出超时")
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("关闭链路追踪失败")
	}
	logger.Info().Msg("优雅退出完成")
}

// taskHandler 返回 true 表示 ack。暂时性失败等待 retryInterval 后 nack 重新入队，
// 其余失败直接 ack 丢弃，状态已记录为 FAILED。
func taskHandler(svc *processor.ResumeService, retryInterval time.Duration) storage.DeliveryHandler {
	return func(ctx context.Context, body []byte) bool {
		err := svc.HandleTask(ctx, body)
		if err == nil {
			return true
		}
		if !processor.IsRetryable(err) {
			logger.Error().Err(err).Msg("解析任务失败，丢弃消息")
			return true
		}

		logger.Warn().Err(err).Dur("retry_in", retryInterval).Msg("解析任务暂时失败，稍后重新入队")
		select {
		case <-ctx.Done():
		case <-time.After(retryInterval):
		}
		return false
	}
}

func initLogger(cfg *config.Config) {
	logger.Init(logger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	logger.Logger = logger.Logger.With().
		Str("app", "resume-parser").
		Str("version", cfg.Server.Version).
		Logger()

	glog.SetLogger(hertzadapter.From(logger.Logger))
	glog.SetLevel(hertzLevel(cfg.Logger.Level))
}

func hertzLevel(level string) glog.Level {
	switch level {
	case "debug":
		return glog.LevelDebug
	case "warn":
		return glog.LevelWarn
	case "error":
		return glog.LevelError
	default:
		return glog.LevelInfo
	}
}
