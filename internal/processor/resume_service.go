package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"resume-parser-go/internal/analyzer"
	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/storage"
	"resume-parser-go/internal/storage/models"
	"resume-parser-go/internal/tracing"
	"resume-parser-go/internal/types"
	"resume-parser-go/pkg/utils"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
)

var tracer = otel.Tracer("resume-parser-go/processor")

// textCachePrefix 纯文本解析与文件解析的缓存键分开
const textCachePrefix = "text:"

// Submission 异步提交的状态，Status 为 COMPLETED 时 Result 非空
type Submission struct {
	ID     string                `json:"submission_id"`
	Status string                `json:"status"`
	Error  string                `json:"error,omitempty"`
	Result *types.ResumeResponse `json:"-"`
}

// ResumeService 文件校验、解码、抽取、缓存与持久化的编排
type ResumeService struct {
	comp  Components
	set   Settings
	now   func() time.Time
	newID func() (string, error)
}

// NewResumeService comp.Analyzer 与 comp.Decoder 必填，comp.Cache 为空时使用默认内存缓存
func NewResumeService(comp Components, set Settings, opts ...SettingOpt) (*ResumeService, error) {
	if comp.Analyzer == nil {
		return nil, errors.New("analyzer 未初始化")
	}
	if comp.Decoder == nil {
		return nil, errors.New("decoder 未初始化")
	}
	if comp.Cache == nil {
		comp.Cache = storage.NewMemoryCache(0, 0)
	}
	for _, opt := range opts {
		opt(&set)
	}
	if set.ProcessingTimeout <= 0 {
		set.ProcessingTimeout = DefaultSettings().ProcessingTimeout
	}
	return &ResumeService{
		comp:  comp,
		set:   set,
		now:   time.Now,
		newID: newSubmissionID,
	}, nil
}

// CreateResumeService 以默认参数为基础应用组件与参数选项
func CreateResumeService(a *analyzer.Analyzer, d Decoder, compOpts []ComponentOpt, setOpts []SettingOpt) (*ResumeService, error) {
	comp := Components{Analyzer: a, Decoder: d}
	for _, opt := range compOpts {
		opt(&comp)
	}
	return NewResumeService(comp, DefaultSettings(), setOpts...)
}

func newSubmissionID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	return id.String(), nil
}

// Settings 返回当前参数的副本
func (s *ResumeService) Settings() Settings {
	set := s.set
	set.SupportedFormats = slices.Clone(s.set.SupportedFormats)
	return set
}

// AsyncEnabled 对象存储与任务队列都可用时才支持异步提交
func (s *ResumeService) AsyncEnabled() bool {
	return s.comp.Objects != nil && s.comp.Tasks != nil
}

// validate 先校验大小再校验扩展名，返回小写扩展名
func (s *ResumeService) validate(filename string, size int) (string, error) {
	if int64(size) > s.set.MaxFileSize {
		return "", ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(s.set.SupportedFormats, ext) || !s.comp.Decoder.Supports(ext) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return ext, nil
}

// ParseFile 同步解析一个上传文件。缓存未命中且配置了持久化时，
// 结果会被归档并分配 submission_id。
func (s *ResumeService) ParseFile(ctx context.Context, filename string, data []byte) (*types.ResumeResponse, error) {
	ctx, span := tracer.Start(ctx, "ResumeService.ParseFile", trace.WithAttributes(
		attribute.String("file.name", tracing.SafeFilename(filename)),
		attribute.Int("file.size", len(data)),
	))
	defer span.End()

	ext, err := s.validate(filename, len(data))
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}

	resp, contentMD5, hit, err := s.extract(ctx, "", filename, ext, data)
	if err != nil {
		tracing.RecordError(span, err, errorTypeOf(err))
		return nil, err
	}
	span.SetAttributes(attribute.Bool("cache.hit", hit), attribute.Float64("resume.overall_confidence", resp.Metadata.OverallConfidence))
	if hit || (s.comp.Objects == nil && s.comp.Records == nil) {
		return resp, nil
	}

	id, err := s.newID()
	if err != nil {
		logger.Warn().Err(err).Msg("生成提交ID失败，跳过归档")
		return resp, nil
	}
	resp.SubmissionID = id
	err = s.persist(ctx, persistJob{
		id:         id,
		contentMD5: contentMD5,
		filename:   filename,
		ext:        ext,
		size:       len(data),
		original:   data,
		resp:       resp,
	})
	if err != nil {
		// 同步解析已经拿到结果，归档失败不影响返回
		logger.Warn().Err(err).Str("submission_id", id).Msg("归档解析结果失败")
		resp.SubmissionID = ""
	}
	return resp, nil
}

// ParseText 解析已解码的纯文本，只使用缓存不做归档
func (s *ResumeService) ParseText(ctx context.Context, text string) (*types.ResumeResponse, error) {
	ctx, span := tracer.Start(ctx, "ResumeService.ParseText", trace.WithAttributes(
		attribute.Int("text.length", len(text)),
	))
	defer span.End()

	start := s.now()
	key := textCachePrefix + utils.CalculateMD5([]byte(text))
	if cached, ok := s.comp.Cache.Get(ctx, key); ok {
		cached.Metadata.ExtractionDetails.CacheHit = true
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}

	resp, err := s.analyze(ctx, text, types.ExtractionDetails{FileType: "text"}, start)
	if err != nil {
		tracing.RecordError(span, err, errorTypeOf(err))
		return nil, err
	}
	if resp.Metadata.ExtractionDetails.ErrorReason == "" {
		s.comp.Cache.Set(ctx, key, resp)
	}
	return resp, nil
}

// extract 查缓存、解码并抽取，未命中时把结果写入缓存
func (s *ResumeService) extract(ctx context.Context, id, filename, ext string, data []byte) (*types.ResumeResponse, string, bool, error) {
	start := s.now()
	contentMD5 := utils.CalculateMD5(data)
	if cached, ok := s.comp.Cache.Get(ctx, contentMD5); ok {
		cached.Metadata.ExtractionDetails.CacheHit = true
		logger.Debug().Str("md5", contentMD5).Msg("解析结果命中缓存")
		return cached, contentMD5, true, nil
	}

	text, err := s.comp.Decoder.Extract(ctx, filename, data)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedFormat):
			return nil, contentMD5, false, err
		case errors.Is(err, context.DeadlineExceeded):
			return nil, contentMD5, false, fmt.Errorf("%w: 解码超时", ErrProcessingTimeout)
		case errors.Is(err, context.Canceled):
			return nil, contentMD5, false, err
		}
		return nil, contentMD5, false, NewDecodeError(id, err.Error())
	}

	details := types.ExtractionDetails{
		FileType: strings.TrimPrefix(ext, "."),
		FileSize: len(data),
	}
	resp, err := s.analyze(ctx, text, details, start)
	if err != nil {
		return nil, contentMD5, false, err
	}
	if resp.Metadata.ExtractionDetails.ErrorReason == "" {
		s.comp.Cache.Set(ctx, contentMD5, resp)
	}
	return resp, contentMD5, false, nil
}

// analyze 空文本返回置信度 0.1 的空结果，否则在处理超时内运行抽取
func (s *ResumeService) analyze(ctx context.Context, text string, details types.ExtractionDetails, start time.Time) (*types.ResumeResponse, error) {
	if strings.TrimSpace(text) == "" {
		return emptyResponse(constants.NoTextConfidence, constants.NoTextReason), nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.set.ProcessingTimeout)
	defer cancel()
	result, err := s.comp.Analyzer.AnalyzeContext(ctx, text)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: 超过 %s", ErrProcessingTimeout, s.set.ProcessingTimeout)
		}
		return nil, err
	}

	details.TextLength = utf8.RuneCountInString(text)
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("candidate.email", tracing.SafeAttributeValue("candidate.email", result.Data.PersonalInfo.Email, tracing.DefaultMaxLength)),
		attribute.Int("text.length", details.TextLength),
	)
	logger.Ctx(ctx).Debug().
		Str("preview", tracing.SafeResumeContent(text)).
		Float64("overall", result.Overall).
		Msg("简历文本分析完成")
	return &types.ResumeResponse{
		Data: result.Data,
		Metadata: types.ExtractionMetadata{
			ProcessingTime:    s.now().Sub(start).Seconds(),
			OverallConfidence: result.Overall,
			SectionConfidence: result.SectionConfidence,
			ExtractionDetails: details,
		},
	}, nil
}

func emptyResponse(confidence float64, reason string) *types.ResumeResponse {
	return &types.ResumeResponse{
		Data: types.NewResumeData(),
		Metadata: types.ExtractionMetadata{
			OverallConfidence: confidence,
			ExtractionDetails: types.ExtractionDetails{ErrorReason: reason},
		},
	}
}

// Submit 归档原始文件并投递解析任务，立即返回 QUEUED
func (s *ResumeService) Submit(ctx context.Context, filename string, data []byte) (*Submission, error) {
	if !s.AsyncEnabled() {
		return nil, ErrAsyncUnavailable
	}
	ctx, span := tracer.Start(ctx, "ResumeService.Submit", trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()

	ext, err := s.validate(filename, len(data))
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	id, err := s.newID()
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("submission.id", id))
	log := logger.WithSubmission(id)

	objectKey, err := s.comp.Objects.UploadOriginal(ctx, id, ext, data)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeObjectStorage)
		return nil, NewStoreError(id, err.Error())
	}

	contentMD5 := utils.CalculateMD5(data)
	if s.comp.Records != nil {
		record := &models.ParseRecord{
			SubmissionID:      id,
			ContentMD5:        contentMD5,
			OriginalFilename:  filename,
			FileType:          strings.TrimPrefix(ext, "."),
			FileSize:          int64(len(data)),
			OriginalObjectKey: objectKey,
			Status:            constants.StatusQueued,
			ParserVersion:     constants.ParserVersion,
		}
		if err := s.comp.Records.CreateRecord(ctx, record); err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeDB)
			return nil, NewStoreError(id, err.Error())
		}
	}

	task := &storage.ParseTask{
		SubmissionID:      id,
		OriginalFilename:  filename,
		OriginalObjectKey: objectKey,
		ContentMD5:        contentMD5,
		SubmittedAt:       s.now(),
	}
	if err := s.comp.Tasks.PublishTask(ctx, task); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRabbitMQ)
		s.markStatus(ctx, id, constants.StatusFailed, err.Error())
		return nil, NewPublishError(id, err.Error())
	}
	s.setStatus(ctx, id, constants.StatusQueued)

	log.Info().Str("object_key", objectKey).Msg("解析任务已入队")
	return &Submission{ID: id, Status: constants.StatusQueued}, nil
}

// HandleTask 消费一个解析任务。返回的错误可用 IsRetryable 判断是否需要重新入队。
func (s *ResumeService) HandleTask(ctx context.Context, body []byte) error {
	var task storage.ParseTask
	if err := json.Unmarshal(body, &task); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	if task.SubmissionID == "" || task.OriginalObjectKey == "" {
		return fmt.Errorf("%w: 缺少 submission_id 或 original_object_key", ErrInvalidTask)
	}
	if s.comp.Objects == nil {
		return ErrAsyncUnavailable
	}

	ctx, span := tracer.Start(ctx, "ResumeService.HandleTask", trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(attribute.String("submission.id", task.SubmissionID)))
	defer span.End()
	log := logger.WithSubmission(task.SubmissionID)
	id := task.SubmissionID

	s.markStatus(ctx, id, constants.StatusProcessing, "")

	data, err := s.comp.Objects.DownloadOriginal(ctx, task.OriginalObjectKey)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeObjectStorage)
		if errors.Is(err, storage.ErrObjectNotFound) {
			s.markStatus(ctx, id, constants.StatusFailed, "原始文件不存在")
			return fmt.Errorf("原始文件 %s: %w", task.OriginalObjectKey, ErrNotFound)
		}
		return NewDownloadError(id, err.Error())
	}

	ext := strings.ToLower(filepath.Ext(task.OriginalFilename))
	resp, contentMD5, _, err := s.extract(ctx, id, task.OriginalFilename, ext, data)
	if err != nil {
		tracing.RecordError(span, err, errorTypeOf(err))
		if !errors.Is(err, context.Canceled) {
			s.markStatus(ctx, id, constants.StatusFailed, err.Error())
			log.Warn().Err(err).Msg("解析任务失败")
		}
		return err
	}

	resp.SubmissionID = id
	err = s.persist(ctx, persistJob{
		id:          id,
		contentMD5:  contentMD5,
		filename:    task.OriginalFilename,
		ext:         ext,
		size:        len(data),
		originalKey: task.OriginalObjectKey,
		submittedAt: task.SubmittedAt,
		resp:        resp,
	})
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return err
	}

	log.Info().Float64("overall_confidence", resp.Metadata.OverallConfidence).Msg("解析任务完成")
	return nil
}

// IsRetryable 存储类的暂时性失败与关停时的取消需要重新入队
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreFailed) ||
		errors.Is(err, ErrDownloadFailed) ||
		errors.Is(err, context.Canceled)
}

type persistJob struct {
	id          string
	contentMD5  string
	filename    string
	ext         string
	size        int
	original    []byte // 为空表示原始文件已归档
	originalKey string
	submittedAt time.Time
	resp        *types.ResumeResponse
}

// persist 归档结果 JSON，并在同一事务中写解析记录与发件箱事件
func (s *ResumeService) persist(ctx context.Context, job persistJob) error {
	resultJSON, err := json.Marshal(job.resp)
	if err != nil {
		return NewStoreError(job.id, err.Error())
	}

	var resultKey string
	if s.comp.Objects != nil {
		if job.original != nil {
			if job.originalKey, err = s.comp.Objects.UploadOriginal(ctx, job.id, job.ext, job.original); err != nil {
				return NewStoreError(job.id, err.Error())
			}
		}
		if resultKey, err = s.comp.Objects.UploadResult(ctx, job.id, resultJSON); err != nil {
			return NewStoreError(job.id, err.Error())
		}
	}

	if s.comp.Records != nil {
		resp := job.resp
		record := &models.ParseRecord{
			SubmissionID:      job.id,
			ContentMD5:        job.contentMD5,
			OriginalFilename:  job.filename,
			FileType:          strings.TrimPrefix(job.ext, "."),
			FileSize:          int64(job.size),
			OriginalObjectKey: job.originalKey,
			ResultObjectKey:   resultKey,
			Status:            constants.StatusCompleted,
			OverallConfidence: resp.Metadata.OverallConfidence,
			ResultJSON:        datatypes.JSON(resultJSON),
			SkillsJSON:        utils.ConvertArrayToJSON(resp.Data.Skills.Technical),
			ErrorMessage:      resp.Metadata.ExtractionDetails.ErrorReason,
			ParserVersion:     constants.ParserVersion,
		}
		if !job.submittedAt.IsZero() {
			record.CreatedAt = job.submittedAt
		}

		event, err := s.parsedEvent(job, resultKey)
		if err != nil {
			return NewStoreError(job.id, err.Error())
		}
		if err := s.comp.Records.SaveParseResult(ctx, record, event); err != nil {
			return NewStoreError(job.id, err.Error())
		}
	}

	s.setStatus(ctx, job.id, constants.StatusCompleted)
	return nil
}

// parsedEvent 未配置交换机时返回 nil
func (s *ResumeService) parsedEvent(job persistJob, resultKey string) (*models.OutboxMessage, error) {
	if s.set.EventExchange == "" {
		return nil, nil
	}
	payload, err := json.Marshal(storage.ParsedEvent{
		SubmissionID:      job.id,
		ContentMD5:        job.contentMD5,
		FileType:          strings.TrimPrefix(job.ext, "."),
		Status:            constants.StatusCompleted,
		OverallConfidence: job.resp.Metadata.OverallConfidence,
		TechnicalSkills:   job.resp.Data.Skills.Technical,
		ResultObjectKey:   resultKey,
		Error:             job.resp.Metadata.ExtractionDetails.ErrorReason,
		ParsedAt:          s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("序列化解析完成事件失败: %w", err)
	}
	return &models.OutboxMessage{
		AggregateID:      job.id,
		EventType:        constants.EventResumeParsed,
		Payload:          string(payload),
		TargetExchange:   s.set.EventExchange,
		TargetRoutingKey: s.set.ParsedRoutingKey,
		Status:           constants.OutboxPending,
	}, nil
}

// markStatus 同时更新数据库与 Redis 中的状态，失败只记录日志
func (s *ResumeService) markStatus(ctx context.Context, id, status, errMsg string) {
	if s.comp.Records != nil {
		if err := s.comp.Records.UpdateStatus(ctx, id, status, errMsg); err != nil {
			logger.Warn().Err(err).Str("submission_id", id).Str("status", status).Msg("更新解析记录状态失败")
		}
	}
	s.setStatus(ctx, id, status)
}

func (s *ResumeService) setStatus(ctx context.Context, id, status string) {
	if s.comp.Status == nil {
		return
	}
	if err := s.comp.Status.SetSubmissionStatus(ctx, id, status, s.set.StatusTTL); err != nil {
		logger.Warn().Err(err).Str("submission_id", id).Msg("写入提交状态缓存失败")
	}
}

// Get 按提交ID查询状态与结果
func (s *ResumeService) Get(ctx context.Context, id string) (*Submission, error) {
	if s.comp.Status != nil {
		status, err := s.comp.Status.GetSubmissionStatus(ctx, id)
		if err != nil {
			logger.Warn().Err(err).Str("submission_id", id).Msg("读取提交状态缓存失败")
		} else if status == constants.StatusQueued || status == constants.StatusProcessing {
			return &Submission{ID: id, Status: status}, nil
		}
	}

	if s.comp.Records != nil {
		return s.getFromRecords(ctx, id)
	}
	if s.comp.Objects != nil {
		data, err := s.comp.Objects.DownloadResult(ctx, storage.ResultObjectKey(id))
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		return completedSubmission(id, data)
	}
	return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
}

func (s *ResumeService) getFromRecords(ctx context.Context, id string) (*Submission, error) {
	record, err := s.comp.Records.GetRecord(ctx, id)
	if errors.Is(err, storage.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	switch record.Status {
	case constants.StatusCompleted:
	case constants.StatusFailed:
		return &Submission{ID: id, Status: record.Status, Error: record.ErrorMessage}, nil
	default:
		return &Submission{ID: id, Status: record.Status}, nil
	}

	data := []byte(record.ResultJSON)
	if len(data) == 0 && s.comp.Objects != nil && record.ResultObjectKey != "" {
		if data, err = s.comp.Objects.DownloadResult(ctx, record.ResultObjectKey); err != nil {
			return nil, err
		}
	}
	return completedSubmission(id, data)
}

func completedSubmission(id string, data []byte) (*Submission, error) {
	var resp types.ResumeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("解析已保存的结果 %s 失败: %w", id, err)
	}
	resp.SubmissionID = id
	return &Submission{ID: id, Status: constants.StatusCompleted, Result: &resp}, nil
}

func errorTypeOf(err error) tracing.ErrorType {
	switch {
	case errors.Is(err, ErrProcessingTimeout):
		return tracing.ErrorTypeTimeout
	case errors.Is(err, ErrDecodeFailed):
		return tracing.ErrorTypeDecode
	case errors.Is(err, ErrUnsupportedFormat), errors.Is(err, ErrFileTooLarge):
		return tracing.ErrorTypeValidation
	default:
		return tracing.ErrorTypeInternal
	}
}
