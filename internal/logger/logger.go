// Package logger 封装全局 zerolog 日志实例
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger 全局日志实例，Init 之前使用 zerolog 的默认配置
var Logger = log.Logger

// Config 日志配置
type Config struct {
	Level        string `json:"level" yaml:"level"`                 // debug, info, warn, error
	Format       string `json:"format" yaml:"format"`               // json 或 pretty
	TimeFormat   string `json:"time_format" yaml:"time_format"`     // 为空时使用 RFC3339
	ReportCaller bool   `json:"report_caller" yaml:"report_caller"` // 是否输出调用位置
}

// Init 按配置重建全局日志实例，输出到标准输出
func Init(cfg Config) {
	Logger = New(cfg, os.Stdout)
	log.Logger = Logger
}

// New 按配置构建一个写入 w 的日志实例，无法识别的级别按 info 处理
func New(cfg Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	output := w
	if cfg.Format == "pretty" {
		output = zerolog.ConsoleWriter{Out: w, TimeFormat: cfg.TimeFormat}
	}

	ctx := zerolog.New(output).Level(level).With().Timestamp()
	if cfg.ReportCaller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// Debug 开始一条 debug 事件
func Debug() *zerolog.Event { return Logger.Debug() }

// Info 开始一条 info 事件
func Info() *zerolog.Event { return Logger.Info() }

// Warn 开始一条 warn 事件
func Warn() *zerolog.Event { return Logger.Warn() }

// Error 开始一条 error 事件
func Error() *zerolog.Event { return Logger.Error() }

// Fatal 记录后退出进程
func Fatal() *zerolog.Event { return Logger.Fatal() }

// Ctx 取出 ctx 中携带的日志实例，没有时返回全局禁用实例
func Ctx(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext 把全局日志实例放入 ctx
func WithContext(ctx context.Context) context.Context {
	return Logger.WithContext(ctx)
}

// WithSubmission 返回带 submission_id 字段的子日志实例
func WithSubmission(id string) zerolog.Logger {
	return Logger.With().Str("submission_id", id).Logger()
}
