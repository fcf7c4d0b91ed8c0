package router

import (
	"time"

	"resume-parser-go/internal/api/handler"
	"resume-parser-go/internal/config"

	"github.com/cloudwego/hertz/pkg/app/server"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
)

const apiPrefix = "/api/v1"

// NewServer 创建挂载了 OpenTelemetry 服务端追踪的 Hertz 实例
func NewServer(cfg *config.Config) *server.Hertz {
	tracer, tracerCfg := hertztracing.NewServerTracer()
	h := server.Default(
		tracer,
		server.WithHostPorts(cfg.Server.Address),
		server.WithMaxRequestBodySize(cfg.Server.MaxRequestBody<<20),
		server.WithExitWaitTime(config.GetDuration(cfg.Server.ShutdownTimeout, 5*time.Second)),
	)
	h.Use(hertztracing.ServerMiddleware(tracerCfg))
	return h
}

// RegisterRoutes 注册 API 路由。health 与 supported-formats 不鉴权。
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler, cfg *config.Config) {
	h.Use(RequestLogger())

	api := h.Group(apiPrefix, RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	api.GET("/health", resumeHandler.HandleHealth)
	api.GET("/supported-formats", resumeHandler.HandleSupportedFormats)

	resume := api.Group("/resume", APIKeyAuth(cfg.Auth.APIKeys))
	resume.POST("/parse", resumeHandler.HandleParse)
	resume.POST("/parse-text", resumeHandler.HandleParseText)
	resume.POST("/submit", resumeHandler.HandleSubmit)
	resume.GET("/:id", resumeHandler.HandleGet)

	// 兼容旧客户端的根路径入口
	h.GET("/health", resumeHandler.HandleHealth)
	h.GET("/supported-formats", resumeHandler.HandleSupportedFormats)
	h.POST("/parse-resume", APIKeyAuth(cfg.Auth.APIKeys), resumeHandler.HandleParse)
}
