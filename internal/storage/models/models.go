package models

import (
	"time"

	"gorm.io/datatypes"
)

// ParseRecord 一次解析的记录，同步解析和异步提交共用
type ParseRecord struct {
	SubmissionID      string         `gorm:"type:char(36);primaryKey"`
	ContentMD5        string         `gorm:"type:char(32);index:idx_pr_content_md5"`
	OriginalFilename  string         `gorm:"type:varchar(255)"`
	FileType          string         `gorm:"type:varchar(16)"`
	FileSize          int64          `gorm:"default:0"`
	OriginalObjectKey string         `gorm:"type:varchar(1024)"`
	ResultObjectKey   string         `gorm:"type:varchar(1024)"`
	Status            string         `gorm:"type:varchar(20);default:'QUEUED';index:idx_pr_status"`
	OverallConfidence float64        `gorm:"default:0"`
	ResultJSON        datatypes.JSON `gorm:"type:json"`
	SkillsJSON        datatypes.JSON `gorm:"type:json"`
	ErrorMessage      string         `gorm:"type:text"`
	ParserVersion     string         `gorm:"type:varchar(50)"`
	CreatedAt         time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt         time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (ParseRecord) TableName() string {
	return "parse_records"
}
