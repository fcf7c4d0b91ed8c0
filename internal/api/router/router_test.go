package router

import (
	"context"
	"net/http"
	"testing"

	"resume-parser-go/internal/api/handler"
	"resume-parser-go/internal/config"
	"resume-parser-go/internal/processor"
	"resume-parser-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
)

type stubService struct{}

func (stubService) ParseFile(context.Context, string, []byte) (*types.ResumeResponse, error) {
	return &types.ResumeResponse{Data: types.NewResumeData()}, nil
}

func (stubService) ParseText(context.Context, string) (*types.ResumeResponse, error) {
	return &types.ResumeResponse{Data: types.NewResumeData()}, nil
}

func (stubService) Submit(context.Context, string, []byte) (*processor.Submission, error) {
	return nil, processor.ErrAsyncUnavailable
}

func (stubService) Get(_ context.Context, id string) (*processor.Submission, error) {
	return &processor.Submission{ID: id, Status: "QUEUED"}, nil
}

func (stubService) Settings() processor.Settings {
	return processor.DefaultSettings()
}

func newEngine(cfg *config.Config) *server.Hertz {
	h := server.New(server.WithHostPorts("127.0.0.1:0"))
	RegisterRoutes(h, handler.NewResumeHandler(stubService{}, cfg.Server.Version), cfg)
	return h
}

func TestAPIKeyAuth(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.APIKeys = []string{"secret-key"}
	h := newEngine(cfg)

	resp := ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/resume/abc", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/resume/abc", nil,
		ut.Header{Key: APIKeyHeader, Value: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/resume/abc", nil,
		ut.Header{Key: APIKeyHeader, Value: "secret-key"})
	assert.Equal(t, http.StatusOK, resp.Code)

	// health 与 supported-formats 不需要 key
	resp = ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/supported-formats", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAuthDisabledWithoutKeys(t *testing.T) {
	h := newEngine(config.Default())

	resp := ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/resume/abc", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimit.RequestsPerSecond = 0.001
	cfg.RateLimit.Burst = 2
	h := newEngine(cfg)

	for i := 0; i < 2; i++ {
		resp := ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/health", nil)
		assert.Equal(t, http.StatusOK, resp.Code)
	}
	resp := ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
}

func TestLegacyRoutes(t *testing.T) {
	h := newEngine(config.Default())

	resp := ut.PerformRequest(h.Engine, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = ut.PerformRequest(h.Engine, http.MethodGet, "/supported-formats", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}
