package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const docxBodyPart = "word/document.xml"

// DocxTextExtractor 读取 word/document.xml 中正文段落，每段一行
type DocxTextExtractor struct{}

func NewDocxTextExtractor() *DocxTextExtractor {
	return &DocxTextExtractor{}
}

type docxDocument struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []struct {
		Text []struct {
			Content string `xml:",chardata"`
		} `xml:"t"`
	} `xml:"r"`
}

func (e *DocxTextExtractor) ExtractText(ctx context.Context, data []byte, uri string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("DOCX文件 %s 不是有效的压缩包: %w", uri, err)
	}

	for _, file := range reader.File {
		if file.Name != docxBodyPart {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("打开 %s 失败: %w", docxBodyPart, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("读取 %s 失败: %w", docxBodyPart, err)
		}
		return parseDocxBody(content)
	}
	return "", fmt.Errorf("DOCX文件 %s 缺少 %s", uri, docxBodyPart)
}

func parseDocxBody(content []byte) (string, error) {
	var doc docxDocument
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("解析DOCX正文失败: %w", err)
	}

	var sb strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, run := range para.Runs {
			for _, t := range run.Text {
				sb.WriteString(t.Content)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
