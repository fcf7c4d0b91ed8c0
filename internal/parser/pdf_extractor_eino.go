package parser

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"resume-parser-go/internal/logger"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
)

const defaultPDFTimeout = 30 * time.Second

// EinoPDFTextExtractor 使用 Eino PDF Parser 提取整份文档的文本
type EinoPDFTextExtractor struct {
	parser  *pdf.PDFParser
	timeout time.Duration
}

// EinoPDFOption PDF提取器的配置选项
type EinoPDFOption func(*EinoPDFTextExtractor)

// WithPDFTimeout 单次解析超时，<=0 时忽略
func WithPDFTimeout(d time.Duration) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEinoPDFTextExtractor 不按页拆分，整份 PDF 输出为一段文本
func NewEinoPDFTextExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFTextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	if err != nil {
		return nil, fmt.Errorf("创建Eino PDF解析器失败: %w", err)
	}
	e := &EinoPDFTextExtractor{parser: p, timeout: defaultPDFTimeout}
	for _, option := range options {
		option(e)
	}
	return e, nil
}

func (e *EinoPDFTextExtractor) ExtractText(ctx context.Context, data []byte, uri string) (string, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	docs, err := e.parser.Parse(ctx, bytes.NewReader(data), einoParser.WithURI(uri))
	if err != nil {
		return "", fmt.Errorf("eino PDF解析失败 (%s): %w", uri, err)
	}
	if len(docs) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, doc.Content)
	}
	text := strings.TrimSpace(strings.Join(parts, "\n"))

	logger.Ctx(ctx).Debug().
		Int("documents", len(docs)).
		Int("text_length", len(text)).
		Dur("elapsed", time.Since(start)).
		Msg("PDF文本提取完成")
	return text, nil
}
