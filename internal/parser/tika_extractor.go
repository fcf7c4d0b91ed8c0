package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resume-parser-go/internal/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TikaTextExtractor 通过 Apache Tika 服务器的 /tika 接口提取纯文本，PDF 与 DOCX 均可
type TikaTextExtractor struct {
	serverURL   string
	contentType string
	client      *http.Client
	tracer      trace.Tracer
}

type TikaOption func(*TikaTextExtractor)

// WithTikaTimeout 单次请求超时，<=0 时忽略
func WithTikaTimeout(timeout time.Duration) TikaOption {
	return func(e *TikaTextExtractor) {
		if timeout > 0 {
			e.client.Timeout = timeout
		}
	}
}

// WithTikaHTTPClient 替换默认的 HTTP 客户端
func WithTikaHTTPClient(c *http.Client) TikaOption {
	return func(e *TikaTextExtractor) {
		if c != nil {
			e.client = c
		}
	}
}

// NewTikaTextExtractor contentType 为上传时的 Content-Type，为空时由 Tika 自行探测
func NewTikaTextExtractor(serverURL, contentType string, options ...TikaOption) *TikaTextExtractor {
	e := &TikaTextExtractor{
		serverURL:   strings.TrimRight(serverURL, "/"),
		contentType: contentType,
		client:      &http.Client{Timeout: 60 * time.Second},
		tracer:      otel.Tracer("resume-parser-go/parser"),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

var _ TextExtractor = (*TikaTextExtractor)(nil)

func (e *TikaTextExtractor) ExtractText(ctx context.Context, data []byte, uri string) (string, error) {
	ctx, span := e.tracer.Start(ctx, "TikaTextExtractor.ExtractText", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("file.size", len(data))))
	defer span.End()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, e.serverURL+"/tika", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	if e.contentType != "" {
		req.Header.Set("Content-Type", e.contentType)
	}
	req.Header.Set("Accept", "text/plain")
	if uri != "" {
		req.Header.Set("X-Tika-Resource-Name", uri)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "tika request failed")
		return "", fmt.Errorf("发送请求到Tika服务器失败: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		// 422 表示文件损坏或加密
		io.Copy(io.Discard, resp.Body)
		span.SetStatus(codes.Error, resp.Status)
		return "", fmt.Errorf("tika服务器返回错误状态码: %d", resp.StatusCode)
	}

	textBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取Tika响应失败: %w", err)
	}
	text := strings.TrimSpace(string(textBytes))

	logger.Ctx(ctx).Debug().
		Str("uri", uri).
		Int("text_length", len(text)).
		Dur("duration", time.Since(start)).
		Msg("Tika文本提取完成")
	return text, nil
}
