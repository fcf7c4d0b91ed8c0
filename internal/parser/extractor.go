// Package parser 把上传的简历文件解码为纯文本
package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ErrUnsupportedFormat 扩展名没有注册对应的解码器
var ErrUnsupportedFormat = errors.New("unsupported file format")

const (
	pdfContentType  = "application/pdf"
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// TextExtractor 从文件内容中提取纯文本
type TextExtractor interface {
	// ExtractText uri 只用于日志与元数据
	ExtractText(ctx context.Context, data []byte, uri string) (string, error)
}

// Registry 按小写扩展名分发到对应的 TextExtractor
type Registry struct {
	extractors map[string]TextExtractor
}

func NewRegistry() *Registry {
	return &Registry{extractors: make(map[string]TextExtractor)}
}

// Register ext 需带点，如 ".pdf"
func (r *Registry) Register(ext string, extractor TextExtractor) *Registry {
	r.extractors[strings.ToLower(ext)] = extractor
	return r
}

// Supports 判断扩展名是否已注册
func (r *Registry) Supports(ext string) bool {
	_, ok := r.extractors[strings.ToLower(ext)]
	return ok
}

// Formats 已注册扩展名，按字典序
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.extractors))
	for ext := range r.extractors {
		formats = append(formats, ext)
	}
	slices.Sort(formats)
	return formats
}

// Extract 按文件名扩展名选择解码器
func (r *Registry) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	extractor, ok := r.extractors[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return extractor.ExtractText(ctx, data, filename)
}

// NewDefaultRegistry 注册 PDF 与 DOCX 解码器
func NewDefaultRegistry(ctx context.Context, opts ...EinoPDFOption) (*Registry, error) {
	pdfExtractor, err := NewEinoPDFTextExtractor(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return NewRegistry().
		Register(".pdf", pdfExtractor).
		Register(".docx", NewDocxTextExtractor()), nil
}

// NewTikaRegistry PDF 与 DOCX 都交给 Tika 服务器解码
func NewTikaRegistry(serverURL string, opts ...TikaOption) *Registry {
	return NewRegistry().
		Register(".pdf", NewTikaTextExtractor(serverURL, pdfContentType, opts...)).
		Register(".docx", NewTikaTextExtractor(serverURL, docxContentType, opts...))
}
