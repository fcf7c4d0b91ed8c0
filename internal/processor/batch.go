package processor

import (
	"context"

	"resume-parser-go/internal/types"

	"golang.org/x/sync/errgroup"
)

// BatchItem 批量解析的一项，IsText 为 true 时 Data 按纯文本处理
type BatchItem struct {
	Name   string
	Data   []byte
	IsText bool
}

// BatchResult 与输入顺序一一对应
type BatchResult struct {
	Name     string
	Response *types.ResumeResponse
	Err      error
}

// ParseBatch 并发解析多个文件，单项失败不影响其他项。concurrency<=0 时使用配置值。
func (s *ResumeService) ParseBatch(ctx context.Context, items []BatchItem, concurrency int) []BatchResult {
	if concurrency <= 0 {
		concurrency = s.set.BatchConcurrency
	}
	results := make([]BatchResult, len(items))

	var g errgroup.Group
	g.SetLimit(max(concurrency, 1))
	for i, item := range items {
		i, item := i, item // 按迭代复制循环变量（go 1.21 语义）
		g.Go(func() error {
			results[i].Name = item.Name
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			if item.IsText {
				results[i].Response, results[i].Err = s.ParseText(ctx, string(item.Data))
			} else {
				results[i].Response, results[i].Err = s.ParseFile(ctx, item.Name, item.Data)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
