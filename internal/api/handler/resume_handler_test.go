package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"resume-parser-go/internal/api/handler"
	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/processor"
	"resume-parser-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	settings  processor.Settings
	parseErr  error
	submitErr error
	subs      map[string]*processor.Submission
	calls     int
	lastFile  string
	lastText  string
}

func newFakeService() *fakeService {
	return &fakeService{settings: processor.DefaultSettings(), subs: map[string]*processor.Submission{}}
}

func sampleResponse() *types.ResumeResponse {
	resp := &types.ResumeResponse{Data: types.NewResumeData()}
	resp.Data.PersonalInfo.FullName = "Jane Smith"
	resp.Metadata.OverallConfidence = 0.72
	resp.Metadata.ExtractionDetails.FileType = "pdf"
	return resp
}

func (f *fakeService) ParseFile(_ context.Context, filename string, _ []byte) (*types.ResumeResponse, error) {
	f.calls++
	f.lastFile = filename
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return sampleResponse(), nil
}

func (f *fakeService) ParseText(_ context.Context, text string) (*types.ResumeResponse, error) {
	f.calls++
	f.lastText = text
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	resp := sampleResponse()
	resp.Metadata.ExtractionDetails.FileType = "text"
	return resp, nil
}

func (f *fakeService) Submit(_ context.Context, filename string, _ []byte) (*processor.Submission, error) {
	f.calls++
	f.lastFile = filename
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &processor.Submission{ID: "0190a6f4-0000-7000-8000-000000000001", Status: constants.StatusQueued}, nil
}

func (f *fakeService) Get(_ context.Context, id string) (*processor.Submission, error) {
	sub, ok := f.subs[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, processor.ErrNotFound)
	}
	return sub, nil
}

func (f *fakeService) Settings() processor.Settings {
	return f.settings
}

func newTestEngine(svc handler.ResumeService) *server.Hertz {
	h := server.New(server.WithHostPorts("127.0.0.1:0"))
	rh := handler.NewResumeHandler(svc, "1.2.3")
	rg := h.Group("/api/v1")
	rg.GET("/health", rh.HandleHealth)
	rg.GET("/supported-formats", rh.HandleSupportedFormats)
	rg.POST("/resume/parse", rh.HandleParse)
	rg.POST("/resume/parse-text", rh.HandleParseText)
	rg.POST("/resume/submit", rh.HandleSubmit)
	rg.GET("/resume/:id", rh.HandleGet)
	return h
}

// multipartBody 构造只含 file 字段的表单
func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func upload(h *server.Hertz, path string, body *bytes.Buffer, contentType string) *ut.ResponseRecorder {
	return ut.PerformRequest(h.Engine, http.MethodPost, path,
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: contentType},
	)
}

func errorMessage(t *testing.T, resp *ut.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body["error"]
}

func TestHandleParseSuccess(t *testing.T) {
	svc := newFakeService()
	h := newTestEngine(svc)

	body, ct := multipartBody(t, "file", "jane.pdf", []byte("%PDF-1.4"))
	resp := upload(h, "/api/v1/resume/parse", body, ct)
	require.Equal(t, http.StatusOK, resp.Code)

	var got types.ResumeResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "Jane Smith", got.Data.PersonalInfo.FullName)
	assert.Equal(t, "pdf", got.Metadata.ExtractionDetails.FileType)
	assert.Equal(t, "jane.pdf", svc.lastFile)
}

func TestHandleParseMissingFile(t *testing.T) {
	svc := newFakeService()
	h := newTestEngine(svc)

	body, ct := multipartBody(t, "document", "jane.pdf", []byte("%PDF-1.4"))
	resp := upload(h, "/api/v1/resume/parse", body, ct)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Zero(t, svc.calls)
}

func TestHandleParseTooLargeSkipsService(t *testing.T) {
	svc := newFakeService()
	svc.settings.MaxFileSize = 8
	h := newTestEngine(svc)

	body, ct := multipartBody(t, "file", "big.pdf", bytes.Repeat([]byte("x"), 9))
	resp := upload(h, "/api/v1/resume/parse", body, ct)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "File too large", errorMessage(t, resp))
	assert.Zero(t, svc.calls)
}

func TestHandleParseErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unsupported", fmt.Errorf("%w: \".txt\"", processor.ErrUnsupportedFormat), http.StatusBadRequest},
		{"decode", processor.NewDecodeError("", "malformed PDF"), http.StatusBadRequest},
		{"timeout", processor.ErrProcessingTimeout, http.StatusGatewayTimeout},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newFakeService()
			svc.parseErr = tc.err
			h := newTestEngine(svc)

			body, ct := multipartBody(t, "file", "cv.pdf", []byte("x"))
			resp := upload(h, "/api/v1/resume/parse", body, ct)
			assert.Equal(t, tc.code, resp.Code)
			assert.Equal(t, tc.err.Error(), errorMessage(t, resp))
		})
	}
}

func TestHandleParseText(t *testing.T) {
	svc := newFakeService()
	h := newTestEngine(svc)

	payload := []byte(`{"text":"Jane Smith\njane@example.com"}`)
	resp := ut.PerformRequest(h.Engine, http.MethodPost, "/api/v1/resume/parse-text",
		&ut.Body{Body: bytes.NewReader(payload), Len: len(payload)},
		ut.Header{Key: "Content-Type", Value: "application/json"},
	)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Jane Smith\njane@example.com", svc.lastText)

	var got types.ResumeResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "text", got.Metadata.ExtractionDetails.FileType)
}

func TestHandleParseTextBadBody(t *testing.T) {
	svc := newFakeService()
	h := newTestEngine(svc)

	payload := []byte(`not json`)
	resp := ut.PerformRequest(h.Engine, http.MethodPost, "/api/v1/resume/parse-text",
		&ut.Body{Body: bytes.NewReader(payload), Len: len(payload)},
		ut.Header{Key: "Content-Type", Value: "application/json"},
	)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Zero(t, svc.calls)
}

func TestHandleSubmit(t *testing.T) {
	svc := newFakeService()
	h := newTestEngine(svc)

	body, ct := multipartBody(t, "file", "jane.docx", []byte("PK"))
	resp := upload(h, "/api/v1/resume/submit", body, ct)
	require.Equal(t, http.StatusAccepted, resp.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "0190a6f4-0000-7000-8000-000000000001", got["submission_id"])
	assert.Equal(t, constants.StatusQueued, got["status"])
}

func TestHandleSubmitUnavailable(t *testing.T) {
	svc := newFakeService()
	svc.submitErr = processor.ErrAsyncUnavailable
	h := newTestEngine(svc)

	body, ct := multipartBody(t, "file", "jane.pdf", []byte("x"))
	resp := upload(h, "/api/v1/resume/submit", body, ct)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestHandleGet(t *testing.T) {
	svc := newFakeService()
	svc.subs["queued"] = &processor.Submission{ID: "queued", Status: constants.StatusQueued}
	done := sampleResponse()
	done.SubmissionID = "done"
	svc.subs["done"] = &processor.Submission{ID: "done", Status: constants.StatusCompleted, Result: done}
	h := newTestEngine(svc)

	resp := ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/resume/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/resume/queued", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var status map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &status))
	assert.Equal(t, constants.StatusQueued, status["status"])

	resp = ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/resume/done", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var got types.ResumeResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "done", got.SubmissionID)
	assert.Equal(t, "Jane Smith", got.Data.PersonalInfo.FullName)
}

func TestHandleHealth(t *testing.T) {
	h := newTestEngine(newFakeService())
	before := time.Now().Add(-time.Second)

	resp := ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var got handler.HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "healthy", got.Status)
	assert.Equal(t, "1.2.3", got.Version)
	assert.True(t, got.Timestamp.After(before))
}

func TestHandleSupportedFormats(t *testing.T) {
	h := newTestEngine(newFakeService())

	resp := ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/supported-formats", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var got struct {
		SupportedFormats  []string `json:"supported_formats"`
		MaxFileSize       string   `json:"max_file_size"`
		ProcessingTimeout string   `json:"processing_timeout"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, []string{".pdf", ".docx"}, got.SupportedFormats)
	assert.Equal(t, "20MB", got.MaxFileSize)
	assert.Equal(t, "30 seconds", got.ProcessingTimeout)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, handler.StatusCode(processor.ErrFileTooLarge))
	assert.Equal(t, http.StatusNotFound, handler.StatusCode(fmt.Errorf("x: %w", processor.ErrNotFound)))
	assert.Equal(t, http.StatusGatewayTimeout, handler.StatusCode(processor.ErrProcessingTimeout))
	assert.Equal(t, http.StatusInternalServerError, handler.StatusCode(processor.NewStoreError("id", "disk full")))
}
