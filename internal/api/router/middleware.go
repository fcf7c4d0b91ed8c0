package router

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"resume-parser-go/internal/logger"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"
	"golang.org/x/time/rate"
)

// APIKeyHeader 鉴权请求头
const APIKeyHeader = "X-API-Key"

var errInvalidAPIKey = errors.New("invalid api key")

func passThrough(ctx context.Context, c *app.RequestContext) {
	c.Next(ctx)
}

// APIKeyAuth 校验 X-API-Key，keys 为空时不鉴权
func APIKeyAuth(keys []string) app.HandlerFunc {
	if len(keys) == 0 {
		return passThrough
	}
	allowed := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			allowed = append(allowed, []byte(k))
		}
	}

	return keyauth.New(
		keyauth.WithKeyLookUp("header:"+APIKeyHeader, ""),
		keyauth.WithContextKey("api_key"),
		keyauth.WithValidator(func(_ context.Context, _ *app.RequestContext, key string) (bool, error) {
			for _, k := range allowed {
				if subtle.ConstantTimeCompare(k, []byte(key)) == 1 {
					return true, nil
				}
			}
			return false, errInvalidAPIKey
		}),
		keyauth.WithErrorHandler(func(_ context.Context, c *app.RequestContext, err error) {
			if err == nil {
				err = errInvalidAPIKey
			}
			c.AbortWithStatusJSON(consts.StatusUnauthorized, utils.H{"error": err.Error()})
		}),
	)
}

// RateLimit 全局令牌桶限流，超限返回 429。rps<=0 时不限流。
func RateLimit(rps float64, burst int) app.HandlerFunc {
	if rps <= 0 {
		return passThrough
	}
	if burst <= 0 {
		burst = max(int(rps), 1)
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(ctx context.Context, c *app.RequestContext) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(consts.StatusTooManyRequests, utils.H{"error": "too many requests"})
			return
		}
		c.Next(ctx)
	}
}

// RequestLogger 把日志实例放入请求 ctx，并在请求结束后记录一行访问日志
func RequestLogger() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		ctx = logger.WithContext(ctx)
		c.Next(ctx)

		status := c.Response.StatusCode()
		event := logger.Info()
		if status >= consts.StatusInternalServerError {
			event = logger.Warn()
		}
		event.Str("method", string(c.Method())).
			Str("path", string(c.Path())).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("请求完成")
	}
}
