package processor

import (
	"time"

	"resume-parser-go/internal/analyzer"
	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/storage"
)

// Components 服务依赖，Analyzer 与 Decoder 必填，其余为 nil 时对应功能关闭
type Components struct {
	Analyzer *analyzer.Analyzer
	Decoder  Decoder
	Cache    storage.ResultCache
	Objects  storage.ObjectStorage
	Records  RecordStore
	Tasks    TaskPublisher
	Status   StatusTracker
}

// Settings 服务参数
type Settings struct {
	MaxFileSize       int64
	SupportedFormats  []string
	ProcessingTimeout time.Duration
	EventExchange     string // 为空时不写发件箱
	ParsedRoutingKey  string
	StatusTTL         time.Duration
	BatchConcurrency  int
}

// DefaultSettings 20MB、.pdf/.docx、30 秒
func DefaultSettings() Settings {
	return Settings{
		MaxFileSize:       20 << 20,
		SupportedFormats:  []string{constants.ExtPDF, constants.ExtDOCX},
		ProcessingTimeout: 30 * time.Second,
		ParsedRoutingKey:  constants.EventResumeParsed,
		StatusTTL:         24 * time.Hour,
		BatchConcurrency:  4,
	}
}

// ComponentOpt 只修改 Components
type ComponentOpt func(*Components)

// SettingOpt 只修改 Settings
type SettingOpt func(*Settings)

func WithCache(c storage.ResultCache) ComponentOpt {
	return func(comp *Components) { comp.Cache = c }
}

func WithObjectStorage(o storage.ObjectStorage) ComponentOpt {
	return func(comp *Components) { comp.Objects = o }
}

func WithRecordStore(r RecordStore) ComponentOpt {
	return func(comp *Components) { comp.Records = r }
}

func WithTaskPublisher(p TaskPublisher) ComponentOpt {
	return func(comp *Components) { comp.Tasks = p }
}

func WithStatusTracker(s StatusTracker) ComponentOpt {
	return func(comp *Components) { comp.Status = s }
}

// WithMaxFileSize <=0 时忽略
func WithMaxFileSize(n int64) SettingOpt {
	return func(s *Settings) {
		if n > 0 {
			s.MaxFileSize = n
		}
	}
}

// WithSupportedFormats 空列表时忽略
func WithSupportedFormats(formats []string) SettingOpt {
	return func(s *Settings) {
		if len(formats) > 0 {
			s.SupportedFormats = formats
		}
	}
}

// WithProcessingTimeout <=0 时忽略
func WithProcessingTimeout(d time.Duration) SettingOpt {
	return func(s *Settings) {
		if d > 0 {
			s.ProcessingTimeout = d
		}
	}
}

// WithOutbox 解析完成事件投递的交换机与路由键
func WithOutbox(exchange, routingKey string) SettingOpt {
	return func(s *Settings) {
		s.EventExchange = exchange
		if routingKey != "" {
			s.ParsedRoutingKey = routingKey
		}
	}
}

// WithBatchConcurrency <=0 时忽略
func WithBatchConcurrency(n int) SettingOpt {
	return func(s *Settings) {
		if n > 0 {
			s.BatchConcurrency = n
		}
	}
}
