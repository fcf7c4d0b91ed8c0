package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/processor"
	"resume-parser-go/internal/tracing"
	"resume-parser-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.opentelemetry.io/otel/trace"
)

// ResumeService 处理器对外提供的能力，*processor.ResumeService 满足该接口
type ResumeService interface {
	ParseFile(ctx context.Context, filename string, data []byte) (*types.ResumeResponse, error)
	ParseText(ctx context.Context, text string) (*types.ResumeResponse, error)
	Submit(ctx context.Context, filename string, data []byte) (*processor.Submission, error)
	Get(ctx context.Context, id string) (*processor.Submission, error)
	Settings() processor.Settings
}

var _ ResumeService = (*processor.ResumeService)(nil)

// ResumeHandler 简历解析相关的 HTTP 处理器
type ResumeHandler struct {
	svc     ResumeService
	version string
	now     func() time.Time
}

func NewResumeHandler(svc ResumeService, version string) *ResumeHandler {
	if version == "" {
		version = "1.0.0"
	}
	return &ResumeHandler{svc: svc, version: version, now: time.Now}
}

// ParseTextRequest POST /resume/parse-text 的请求体
type ParseTextRequest struct {
	Text string `json:"text"`
}

// HealthResponse GET /health 的响应
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// HandleParse 同步解析上传的简历
// POST /api/v1/resume/parse
func (h *ResumeHandler) HandleParse(ctx context.Context, c *app.RequestContext) {
	filename, data, ok := h.readUpload(ctx, c)
	if !ok {
		return
	}
	resp, err := h.svc.ParseFile(ctx, filename, data)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, resp)
}

// HandleParseText 解析 JSON 中的纯文本
// POST /api/v1/resume/parse-text
func (h *ResumeHandler) HandleParseText(ctx context.Context, c *app.RequestContext) {
	var req ParseTextRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "请求体必须是 {\"text\": \"...\"}"})
		return
	}
	resp, err := h.svc.ParseText(ctx, req.Text)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, resp)
}

// HandleSubmit 异步提交，返回 202 与提交ID
// POST /api/v1/resume/submit
func (h *ResumeHandler) HandleSubmit(ctx context.Context, c *app.RequestContext) {
	filename, data, ok := h.readUpload(ctx, c)
	if !ok {
		return
	}
	sub, err := h.svc.Submit(ctx, filename, data)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	c.JSON(consts.StatusAccepted, sub)
}

// HandleGet 查询提交状态，完成时直接返回解析结果
// GET /api/v1/resume/:id
func (h *ResumeHandler) HandleGet(ctx context.Context, c *app.RequestContext) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "id 不能为空"})
		return
	}
	sub, err := h.svc.Get(ctx, id)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	if sub.Result != nil {
		c.JSON(consts.StatusOK, sub.Result)
		return
	}
	c.JSON(consts.StatusOK, sub)
}

// HandleHealth GET /api/v1/health
func (h *ResumeHandler) HandleHealth(_ context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Timestamp: h.now(),
	})
}

// HandleSupportedFormats GET /api/v1/supported-formats
func (h *ResumeHandler) HandleSupportedFormats(_ context.Context, c *app.RequestContext) {
	set := h.svc.Settings()
	c.JSON(consts.StatusOK, utils.H{
		"supported_formats":  set.SupportedFormats,
		"max_file_size":      fmt.Sprintf("%dMB", set.MaxFileSize>>20),
		"processing_timeout": fmt.Sprintf("%d seconds", int(set.ProcessingTimeout.Seconds())),
	})
}

// readUpload 读取 multipart 中的 file 字段，失败时已写好响应
func (h *ResumeHandler) readUpload(ctx context.Context, c *app.RequestContext) (string, []byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
		return "", nil, false
	}
	// 超限时不读取内容
	if fileHeader.Size > h.svc.Settings().MaxFileSize {
		h.fail(ctx, c, processor.ErrFileTooLarge)
		return "", nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "读取文件失败"})
		return "", nil, false
	}
	return fileHeader.Filename, data, true
}

func (h *ResumeHandler) fail(ctx context.Context, c *app.RequestContext, err error) {
	code := StatusCode(err)
	tracing.RecordHTTPError(trace.SpanFromContext(ctx), err, code)
	if code >= consts.StatusInternalServerError {
		logger.Ctx(ctx).Error().Err(err).Str("path", string(c.Path())).Msg("请求处理失败")
	}
	c.JSON(code, utils.H{"error": err.Error()})
}

// StatusCode 把处理器错误映射为 HTTP 状态码
func StatusCode(err error) int {
	switch {
	case errors.Is(err, processor.ErrFileTooLarge),
		errors.Is(err, processor.ErrUnsupportedFormat),
		errors.Is(err, processor.ErrDecodeFailed):
		return consts.StatusBadRequest
	case errors.Is(err, processor.ErrNotFound):
		return consts.StatusNotFound
	case errors.Is(err, processor.ErrProcessingTimeout):
		return consts.StatusGatewayTimeout
	case errors.Is(err, processor.ErrAsyncUnavailable):
		return consts.StatusServiceUnavailable
	default:
		return consts.StatusInternalServerError
	}
}
