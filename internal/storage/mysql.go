package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"resume-parser-go/internal/config"
	rlog "resume-parser-go/internal/logger"
	"resume-parser-go/internal/storage/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var mysqlTracer = otel.Tracer("resume-parser-go/storage/mysql")

type spanCtxKey struct{}

// GormTracingPlugin 为每条 GORM 语句创建一个客户端 span
type GormTracingPlugin struct {
	tracer         trace.Tracer
	dbName         string
	disableErrSkip bool
}

// NewGormTracingPlugin 默认跳过 SkipHooks 的语句
func NewGormTracingPlugin(dbName string) *GormTracingPlugin {
	return &GormTracingPlugin{
		tracer:         mysqlTracer,
		dbName:         dbName,
		disableErrSkip: true,
	}
}

// WithDisableErrSkip 设置是否跳过 SkipHooks 的语句
func (p *GormTracingPlugin) WithDisableErrSkip(disable bool) *GormTracingPlugin {
	p.disableErrSkip = disable
	return p
}

func (p *GormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

// Initialize 为 create/query/update/delete/row/raw 注册前后回调
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	regs := []struct {
		name string
		err  error
	}{
		{"create", cb.Create().Before("gorm:create").Register("otel:before_create", p.before("CREATE"))},
		{"create", cb.Create().After("gorm:create").Register("otel:after_create", p.after())},
		{"query", cb.Query().Before("gorm:query").Register("otel:before_query", p.before("SELECT"))},
		{"query", cb.Query().After("gorm:query").Register("otel:after_query", p.after())},
		{"update", cb.Update().Before("gorm:update").Register("otel:before_update", p.before("UPDATE"))},
		{"update", cb.Update().After("gorm:update").Register("otel:after_update", p.after())},
		{"delete", cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before("DELETE"))},
		{"delete", cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after())},
		{"row", cb.Row().Before("gorm:row").Register("otel:before_row", p.before("ROW"))},
		{"row", cb.Row().After("gorm:row").Register("otel:after_row", p.after())},
		{"raw", cb.Raw().Before("gorm:raw").Register("otel:before_raw", p.before("RAW"))},
		{"raw", cb.Raw().After("gorm:raw").Register("otel:after_raw", p.after())},
	}
	for _, r := range regs {
		if r.err != nil {
			return fmt.Errorf("注册 %s 追踪回调失败: %w", r.name, r.err)
		}
	}
	return nil
}

func (p *GormTracingPlugin) before(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		if p.disableErrSkip && db.Statement.SkipHooks {
			return
		}
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}

		attrs := []attribute.KeyValue{
			semconv.DBSystemMySQL,
			attribute.String("db.name", p.dbName),
			attribute.String("db.operation", operation),
			attribute.String("db.sql.table", table),
		}
		if stmt := db.Statement.SQL.String(); stmt != "" {
			attrs = append(attrs, attribute.String("db.statement", stmt))
		}
		newCtx, span := p.tracer.Start(ctx, operation+" "+table,
			trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
		db.Statement.Context = context.WithValue(newCtx, spanCtxKey{}, span)
	}
}

func (p *GormTracingPlugin) after() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement.Context == nil {
			return
		}
		span, ok := db.Statement.Context.Value(spanCtxKey{}).(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		span.SetAttributes(attribute.Int64("db.rows_affected", max(db.Statement.RowsAffected, 0)))
		switch {
		case db.Error == nil:
			span.SetStatus(codes.Ok, "")
		case errors.Is(db.Error, gorm.ErrRecordNotFound):
			// 查不到记录属于正常业务分支
			span.SetAttributes(attribute.String("error.type", "record_not_found"))
			span.SetStatus(codes.Ok, "record not found")
		default:
			span.SetAttributes(attribute.String("error.type", "database_error"))
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}
	}
}

// MySQL 解析记录与发件箱的关系存储
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 建立连接、注册追踪插件并自动迁移表结构
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		PrepareStmt:                              true,
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute)

	if err := db.Use(NewGormTracingPlugin(cfg.Database).WithDisableErrSkip(true)); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("注册追踪插件失败: %w", err)
	}

	m := &MySQL{db: db, cfg: cfg}
	if err := m.autoMigrateSchema(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("自动迁移数据库结构失败: %w", err)
	}

	rlog.Info().Str("host", cfg.Host).Str("database", cfg.Database).Msg("成功连接到MySQL并完成表结构迁移")
	return m, nil
}

// gormLogLevel 1=Silent 2=Error 3=Warn 4=Info
func gormLogLevel(level int) logger.LogLevel {
	switch level {
	case 1:
		return logger.Silent
	case 2:
		return logger.Error
	case 3:
		return logger.Warn
	default:
		return logger.Info
	}
}

func (m *MySQL) autoMigrateSchema() error {
	silent := logger.New(log.New(log.Writer(), "", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Silent,
		IgnoreRecordNotFoundError: true,
	})
	if err := m.db.Session(&gorm.Session{Logger: silent}).AutoMigrate(
		&models.ParseRecord{},
		&models.OutboxMessage{},
	); err != nil {
		return fmt.Errorf("GORM自动迁移失败: %w", err)
	}
	return nil
}

// DB 返回 GORM 连接，供发件箱中继使用
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	return sqlDB.Close()
}

// CreateRecord 异步提交时写入 QUEUED 记录
func (m *MySQL) CreateRecord(ctx context.Context, record *models.ParseRecord) error {
	if err := m.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("创建解析记录 %s 失败: %w", record.SubmissionID, err)
	}
	return nil
}

// SaveParseResult 在同一事务中写入（或覆盖）解析记录并追加一条发件箱消息
func (m *MySQL) SaveParseResult(ctx context.Context, record *models.ParseRecord, event *models.OutboxMessage) error {
	ctx, span := mysqlTracer.Start(ctx, "MySQL.SaveParseResult", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		semconv.DBSystemMySQL,
		attribute.String("db.name", m.cfg.Database),
		attribute.String("submission.id", record.SubmissionID),
		attribute.String("submission.status", record.Status),
	)

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 重复投递的任务会覆盖旧记录
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error; err != nil {
			return fmt.Errorf("保存解析记录失败: %w", err)
		}
		if event == nil {
			return nil
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("写入发件箱消息失败: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// UpdateStatus 更新记录状态，errMsg 为空时清空错误信息
func (m *MySQL) UpdateStatus(ctx context.Context, submissionID, status, errMsg string) error {
	result := m.db.WithContext(ctx).Model(&models.ParseRecord{}).
		Where("submission_id = ?", submissionID).
		Updates(map[string]any{"status": status, "error_message": errMsg})
	if result.Error != nil {
		return fmt.Errorf("更新解析记录 %s 状态失败: %w", submissionID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("解析记录 %s: %w", submissionID, ErrRecordNotFound)
	}
	return nil
}

// GetRecord 按提交ID查询
func (m *MySQL) GetRecord(ctx context.Context, submissionID string) (*models.ParseRecord, error) {
	var record models.ParseRecord
	err := m.db.WithContext(ctx).Where("submission_id = ?", submissionID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("解析记录 %s: %w", submissionID, ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("查询解析记录 %s 失败: %w", submissionID, err)
	}
	return &record, nil
}
