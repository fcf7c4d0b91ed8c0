// resumectl 离线解析本地简历文件，每个文件输出一行 JSON
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/processor"
	"resume-parser-go/internal/types"

	"github.com/spf13/pflag"
)

type output struct {
	File   string                `json:"file"`
	Result *types.ResumeResponse `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

func main() {
	var (
		configPath string
		asText     bool
		jobs       int
	)
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径")
	pflag.BoolVar(&asText, "text", false, "把输入文件当作已解码的纯文本")
	pflag.IntVarP(&jobs, "jobs", "j", 0, "并发数，0 表示使用配置中的 batch_concurrency")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "用法: resumectl [-c config] [--text] [-j N] files...\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	// 标准输出只留给结果
	logger.Logger = logger.New(logger.Config{Level: cfg.Logger.Level, Format: "pretty"}, os.Stderr)

	if code := run(context.Background(), cfg, pflag.Args(), asText, jobs, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

// run 返回进程退出码，任一文件失败时为 1
func run(ctx context.Context, cfg *config.Config, paths []string, asText bool, jobs int, w io.Writer) int {
	svc, err := processor.NewResumeServiceFromConfig(ctx, cfg, nil)
	if err != nil {
		logger.Error().Err(err).Msg("初始化简历解析服务失败")
		return 1
	}

	outs := make([]output, len(paths))
	items := make([]processor.BatchItem, 0, len(paths))
	slots := make([]int, 0, len(paths)) // items[i] 对应 outs[slots[i]]
	for i, p := range paths {
		outs[i].File = filepath.Base(p)
		data, err := os.ReadFile(p)
		if err != nil {
			outs[i].Error = err.Error()
			continue
		}
		items = append(items, processor.BatchItem{Name: p, Data: data, IsText: asText})
		slots = append(slots, i)
	}

	for i, r := range svc.ParseBatch(ctx, items, jobs) {
		out := &outs[slots[i]]
		if r.Err != nil {
			out.Error = r.Err.Error()
		} else {
			out.Result = r.Response
		}
	}

	enc := json.NewEncoder(w)
	code := 0
	for _, out := range outs {
		if out.Error != "" {
			code = 1
		}
		if err := enc.Encode(out); err != nil {
			logger.Error().Err(err).Msg("写出结果失败")
			return 1
		}
	}
	return code
}
