package constants

const (
	// ParserVersion 写入解析记录，规则调整时递增
	ParserVersion = "heuristic-1"

	// 支持的文件扩展名
	ExtPDF  = ".pdf"
	ExtDOCX = ".docx"

	// NoTextReason 文件解码后没有任何文本时的 error_reason
	NoTextReason = "No text extracted from file"
	// NoTextConfidence 没有文本时返回的综合置信度
	NoTextConfidence = 0.1
)

// 解析记录状态
const (
	StatusQueued     = "QUEUED"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// 发件箱消息状态
const (
	OutboxPending = "PENDING"
	OutboxSent    = "SENT"
	OutboxFailed  = "FAILED"
)

// EventResumeParsed 解析完成事件类型
const EventResumeParsed = "resume.parsed"
