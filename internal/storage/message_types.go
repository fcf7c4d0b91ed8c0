package storage

import "time"

// ParseTask 异步解析任务，由 Submit 投递、由消费者处理
type ParseTask struct {
	SubmissionID      string    `json:"submission_id"`
	OriginalFilename  string    `json:"original_filename"`
	OriginalObjectKey string    `json:"original_object_key"` // MinIO 中的对象路径
	ContentMD5        string    `json:"content_md5"`
	SubmittedAt       time.Time `json:"submitted_at"`
}

// ParsedEvent 解析完成事件，经发件箱投递到 resume.parsed
type ParsedEvent struct {
	SubmissionID      string    `json:"submission_id"`
	ContentMD5        string    `json:"content_md5"`
	FileType          string    `json:"file_type,omitempty"`
	Status            string    `json:"status"`
	OverallConfidence float64   `json:"overall_confidence"`
	TechnicalSkills   []string  `json:"technical_skills"`
	ResultObjectKey   string    `json:"result_object_key,omitempty"`
	Error             string    `json:"error,omitempty"`
	ParsedAt          time.Time `json:"parsed_at"`
}
