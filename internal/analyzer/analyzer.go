// Package analyzer 实现基于规则的简历信息抽取：分段、字段识别、逐分区置信度与加权汇总。
//
// 抽取过程是纯函数式的：每次调用只读取输入文本和只读的技能目录，
// 不共享可变状态，因此同一个 Analyzer 可以被任意多个 goroutine 并发调用。
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/taxonomy"
	"resume-parser-go/internal/types"
)

// Analyzer 简历抽取器
type Analyzer struct {
	taxonomy *taxonomy.Taxonomy
}

// Option Analyzer 的可选配置
type Option func(*Analyzer)

// WithTaxonomy 注入技能目录，默认使用内置目录
func WithTaxonomy(t *taxonomy.Taxonomy) Option {
	return func(a *Analyzer) {
		if t != nil {
			a.taxonomy = t
		}
	}
}

// New 创建抽取器
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	if a.taxonomy == nil {
		a.taxonomy = taxonomy.Default(nil)
	}
	return a
}

// Taxonomy 返回抽取器使用的技能目录
func (a *Analyzer) Taxonomy() *taxonomy.Taxonomy {
	return a.taxonomy
}

// Analyze 对一段已解码的纯文本执行全部抽取。
// 空文本或纯空白文本返回空记录，综合置信度为0。
// 单个抽取器内部的异常只会让该分区退化为默认值和0置信度，不影响其它分区。
func (a *Analyzer) Analyze(text string) types.AnalysisResult {
	result := types.AnalysisResult{Data: types.NewResumeData()}
	if strings.TrimSpace(text) == "" {
		return result
	}

	secs := Segment(text)
	data := &result.Data
	conf := &result.SectionConfidence

	data.PersonalInfo, conf.PersonalInfo = guard("personal_info", types.PersonalInfo{}, func() (types.PersonalInfo, float64) {
		return ExtractIdentity(text)
	})
	data.Summary, conf.Summary = guard("summary", "", func() (string, float64) {
		return extractSummary(text, secs)
	})
	data.WorkExperience, conf.WorkExperience = guard("work_experience", []types.WorkExperience{}, func() ([]types.WorkExperience, float64) {
		return extractExperience(text, secs)
	})
	data.Education, conf.Education = guard("education", []types.Education{}, func() ([]types.Education, float64) {
		return extractEducation(text, secs)
	})
	data.Skills, conf.Skills = guard("skills", types.Skills{Technical: []string{}, Soft: []string{}}, func() (types.Skills, float64) {
		return a.ExtractSkills(text)
	})
	data.Projects, conf.Projects = guard("projects", []types.Project{}, func() ([]types.Project, float64) {
		return a.extractProjects(text, secs)
	})

	result.Overall = Aggregate(result.SectionConfidence)
	return result
}

// AnalyzeContext 与 Analyze 相同，但在 ctx 到期时立即返回 ctx.Err()。
// 超时后后台计算会自然结束，结果被丢弃。
func (a *Analyzer) AnalyzeContext(ctx context.Context, text string) (types.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return types.AnalysisResult{}, err
	}

	done := make(chan types.AnalysisResult, 1)
	go func() {
		done <- a.Analyze(text)
	}()

	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return types.AnalysisResult{}, ctx.Err()
	}
}

// guard 执行单个抽取器，捕获 panic 并降级为默认值
func guard[T any](section string, fallback T, fn func() (T, float64)) (out T, confidence float64) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Str("section", section).
				Str("panic", fmt.Sprint(r)).
				Msg("抽取器发生异常，该分区降级为空结果")
			out, confidence = fallback, 0
		}
	}()
	return fn()
}
