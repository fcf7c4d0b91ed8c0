package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "无法写入临时配置文件")
	return path
}

// TestLoadConfigDefaults 空文件只得到默认值
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Address)
	assert.Equal(t, 20, cfg.Parser.MaxFileSizeMB)
	assert.Equal(t, int64(20*1024*1024), cfg.Parser.MaxFileSize())
	assert.Equal(t, []string{".pdf", ".docx"}, cfg.Parser.SupportedFormats)
	assert.Equal(t, "30s", cfg.Parser.ProcessingTimeout)
	assert.Equal(t, 1000, cfg.Parser.CacheMaxEntries)
	assert.Equal(t, "resume.parsed", cfg.RabbitMQ.ParsedRoutingKey)
	assert.Empty(t, cfg.Redis.Address, "外部依赖默认关闭")
	assert.Empty(t, cfg.Auth.APIKeys)
	assert.InDelta(t, 1.0, cfg.Tracing.SampleRatio, 1e-9)
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":9090"
parser:
  max_file_size_mb: 5
  cache_ttl: "10m"
  skill_aliases:
    golang: go
redis:
  address: "localhost:6379"
mysql:
  host: "db"
  username: "root"
  password: "secret"
  database: "resumes"
auth:
  api_keys: ["k1", "k2"]
rate_limit:
  requests_per_second: 20
  burst: 40
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 5, cfg.Parser.MaxFileSizeMB)
	assert.Equal(t, "10m", cfg.Parser.CacheTTL)
	assert.Equal(t, map[string]string{"golang": "go"}, cfg.Parser.SkillAliases)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 10, cfg.Redis.PoolSize, "未出现的字段保留默认值")
	assert.Equal(t, []string{"k1", "k2"}, cfg.Auth.APIKeys)
	assert.InDelta(t, 20.0, cfg.RateLimit.RequestsPerSecond, 1e-9)
	assert.Equal(t, 40, cfg.RateLimit.Burst)
	assert.Equal(t, "root:secret@tcp(db:3306)/resumes?charset=utf8mb4&parseTime=True&loc=Local&timeout=10s&readTimeout=30s&writeTimeout=30s",
		cfg.MySQL.DSN())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("RESUME_PARSER_SERVER_ADDRESS", ":7000")
	t.Setenv("RESUME_PARSER_MAX_FILE_SIZE_MB", "8")
	t.Setenv("RESUME_PARSER_API_KEYS", " a, b ,,c ")
	t.Setenv("RESUME_PARSER_REDIS_ADDRESS", "cache:6379")
	t.Setenv("RESUME_PARSER_TIKA_URL", "http://tika:9998")

	cfg, err := LoadConfig(writeConfig(t, "server:\n  address: \":9090\"\n"))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Address, "环境变量优先于配置文件")
	assert.Equal(t, 8, cfg.Parser.MaxFileSizeMB)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Auth.APIKeys)
	assert.Equal(t, "cache:6379", cfg.Redis.Address)
	assert.Equal(t, "http://tika:9998", cfg.Parser.TikaURL)
}

func TestLoadConfigInvalidEnvInt(t *testing.T) {
	t.Setenv("RESUME_PARSER_CACHE_MAX_ENTRIES", "many")
	_, err := LoadConfig(writeConfig(t, ""))
	assert.Error(t, err)
}

func TestLoadConfigValidation(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "parser:\n  processing_timeout: \"soon\"\n"))
	assert.ErrorContains(t, err, "parser.processing_timeout")

	_, err = LoadConfig(writeConfig(t, "parser:\n  supported_formats: [\"pdf\"]\n"))
	assert.ErrorContains(t, err, "supported_formats")

	_, err = LoadConfig(writeConfig(t, "parser:\n  max_file_size_mb: -1\n"))
	assert.Error(t, err)
}

func TestLoadConfigBadYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, GetDuration("", 5*time.Second))
	assert.Equal(t, 5*time.Second, GetDuration("bogus", 5*time.Second))
	assert.Equal(t, 90*time.Second, GetDuration("1m30s", time.Second))
}
