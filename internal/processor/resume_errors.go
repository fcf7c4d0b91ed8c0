package processor

import (
	"errors"
	"fmt"

	"resume-parser-go/internal/parser"
)

// 对外可区分的错误，HTTP 层据此映射状态码
var (
	ErrFileTooLarge      = errors.New("File too large")
	ErrUnsupportedFormat = parser.ErrUnsupportedFormat
	ErrProcessingTimeout = errors.New("processing timeout")
	ErrNotFound          = errors.New("resume not found")
	ErrAsyncUnavailable  = errors.New("async submission is not configured")
	ErrInvalidTask       = errors.New("invalid parse task")
)

// 处理阶段的失败原因
var (
	ErrDecodeFailed   = errors.New("提取简历文本失败")
	ErrDownloadFailed = errors.New("下载简历失败")
	ErrStoreFailed    = errors.New("保存解析结果失败")
	ErrPublishFailed  = errors.New("投递解析任务失败")
)

// ResumeProcessError 带提交ID与阶段信息的错误
type ResumeProcessError struct {
	SubmissionID string
	Op           string
	BaseErr      error
	Detail       string
}

func (e *ResumeProcessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, ID:%s): %s", e.BaseErr, e.Op, e.SubmissionID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, ID:%s)", e.BaseErr, e.Op, e.SubmissionID)
}

func (e *ResumeProcessError) Unwrap() error {
	return e.BaseErr
}

// Is 支持 errors.Is 与基础错误比较
func (e *ResumeProcessError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

func NewDecodeError(id, detail string) error {
	return &ResumeProcessError{SubmissionID: id, Op: "parse", BaseErr: ErrDecodeFailed, Detail: detail}
}

func NewDownloadError(id, detail string) error {
	return &ResumeProcessError{SubmissionID: id, Op: "download", BaseErr: ErrDownloadFailed, Detail: detail}
}

func NewStoreError(id, detail string) error {
	return &ResumeProcessError{SubmissionID: id, Op: "store", BaseErr: ErrStoreFailed, Detail: detail}
}

func NewPublishError(id, detail string) error {
	return &ResumeProcessError{SubmissionID: id, Op: "publish", BaseErr: ErrPublishFailed, Detail: detail}
}
