package resumes

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-ats-backend/internal/llm"
)

func newTestRouter(ai llm.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := NewService(NewMemoryRepo(), ai, nil, false)
	h := &Handler{
		Svc:            svc,
		AIConfigured:   true,
		AIProvider:     "groq",
		AIModel:        "llama-3.3-70b-versatile",
		ChatEnabled:    true,
		ImproveEnabled: true,
	}
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/resume"))
	return r
}

func multipartUpload(t *testing.T, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v (%s)", err, resp.Body.String())
	}
	return payload
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	payload := decodeBody(t, resp)
	errObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object, got %s", resp.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestUploadTooShortReturns400(t *testing.T) {
	r := newTestRouter(&fakeAI{analyzeResult: aiResult()})

	body, contentType := multipartUpload(t, "resume.txt", "Jane Doe, engineer at Acme.")
	req := httptest.NewRequest(http.MethodPost, "/api/resume/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
	if code := errorCode(t, resp); code != "insufficient_content" {
		t.Fatalf("expected insufficient_content, got %q", code)
	}
}

func TestUploadMissingFileReturns400(t *testing.T) {
	r := newTestRouter(&fakeAI{analyzeResult: aiResult()})

	req := httptest.NewRequest(http.MethodPost, "/api/resume/upload", strings.NewReader(""))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != "validation_error" {
		t.Fatalf("expected validation_error, got %q", code)
	}
}

func TestUploadSuccessReturnsAnalysis(t *testing.T) {
	r := newTestRouter(&fakeAI{
		analyzeResult: aiResult(),
		keyPoints:     []string{"Led migration to Kubernetes"},
		improvedLines: map[string]string{},
	})

	body, contentType := multipartUpload(t, "resume.txt", serviceFixture)
	req := httptest.NewRequest(http.MethodPost, "/api/resume/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	payload := decodeBody(t, resp)
	if payload["success"] != true {
		t.Fatalf("expected success, got %s", resp.Body.String())
	}
	if payload["atsScore"] != float64(81) {
		t.Fatalf("expected atsScore 81, got %v", payload["atsScore"])
	}
	if payload["analysisStatus"] != "ai" {
		t.Fatalf("expected ai status, got %v", payload["analysisStatus"])
	}
	if payload["resumeId"] == "" {
		t.Fatalf("expected resumeId")
	}
}

func TestAnalyzeNetworkFailureReturns200Fallback(t *testing.T) {
	r := newTestRouter(&fakeAI{
		analyzeErr:   &llm.ServiceError{Cause: llm.CauseTransient, Err: errors.New("connection refused")},
		keyPointsErr: &llm.ServiceError{Cause: llm.CauseTransient, Err: errors.New("connection refused")},
		improveErr:   &llm.ServiceError{Cause: llm.CauseTransient, Err: errors.New("connection refused")},
	})

	body, _ := json.Marshal(map[string]string{"text": serviceFixture})
	req := httptest.NewRequest(http.MethodPost, "/api/resume/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 fallback, got %d: %s", resp.Code, resp.Body.String())
	}
	payload := decodeBody(t, resp)
	if payload["analysisStatus"] != "fallback" {
		t.Fatalf("expected fallback status, got %v", payload["analysisStatus"])
	}
}

func TestAnalyzeNoAPIKeyReturns503Offline(t *testing.T) {
	r := newTestRouter(&fakeAI{analyzeErr: &llm.ConfigError{Reason: "no API key"}})

	body, _ := json.Marshal(map[string]string{"text": serviceFixture})
	req := httptest.NewRequest(http.MethodPost, "/api/resume/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", resp.Code, resp.Body.String())
	}
	payload := decodeBody(t, resp)
	if payload["serverStatus"] != "offline" {
		t.Fatalf("expected serverStatus offline, got %v", payload["serverStatus"])
	}
}

func TestAnalyzeEmptyTextReturns400(t *testing.T) {
	r := newTestRouter(&fakeAI{analyzeResult: aiResult()})

	body, _ := json.Marshal(map[string]string{"text": "   "})
	req := httptest.NewRequest(http.MethodPost, "/api/resume/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestQuickScoreReturnsHeuristicResult(t *testing.T) {
	r := newTestRouter(&fakeAI{analyzeErr: errors.New("must not be called")})

	body, _ := json.Marshal(map[string]string{"text": serviceFixture})
	req := httptest.NewRequest(http.MethodPost, "/api/resume/quick-score", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	payload := decodeBody(t, resp)
	score, ok := payload["atsScore"].(float64)
	if !ok || score < 0 || score > 100 {
		t.Fatalf("unexpected score: %v", payload["atsScore"])
	}
}

func TestChatReturnsReply(t *testing.T) {
	r := newTestRouter(&fakeAI{chatReply: "Focus your summary on impact."})

	body, _ := json.Marshal(map[string]any{
		"message": "How can I improve my summary?",
		"history": []map[string]string{{"role": "user", "content": "hi"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/resume/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	payload := decodeBody(t, resp)
	if payload["reply"] != "Focus your summary on impact." {
		t.Fatalf("unexpected reply: %v", payload["reply"])
	}
}

func TestChatDisabledReturns404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewService(NewMemoryRepo(), &fakeAI{}, nil, false)
	h := &Handler{Svc: svc, ChatEnabled: false}
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/resume"))

	body, _ := json.Marshal(map[string]string{"message": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/api/resume/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestImproveReturnsRewrite(t *testing.T) {
	r := newTestRouter(&fakeAI{
		improvement: llm.Improvement{
			ImprovedText: "Led the payments platform serving 2M customers",
			Explanation:  "Added a strong verb and a metric.",
			NewScore:     78,
		},
	})

	body, _ := json.Marshal(map[string]string{
		"text":     "Responsible for payments platform",
		"category": "experience",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/resume/improve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	payload := decodeBody(t, resp)
	if payload["improvedText"] != "Led the payments platform serving 2M customers" {
		t.Fatalf("unexpected improvedText: %v", payload["improvedText"])
	}
	if payload["newScore"] != float64(78) {
		t.Fatalf("unexpected newScore: %v", payload["newScore"])
	}
}

func TestHealthReportsAIAndFeatures(t *testing.T) {
	r := newTestRouter(&fakeAI{})

	req := httptest.NewRequest(http.MethodGet, "/api/resume/health", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	payload := decodeBody(t, resp)
	if payload["database"] != "memory" {
		t.Fatalf("expected memory database status, got %v", payload["database"])
	}
	ai, ok := payload["ai"].(map[string]any)
	if !ok || ai["configured"] != true || ai["provider"] != "groq" {
		t.Fatalf("unexpected ai block: %v", payload["ai"])
	}
	features, ok := payload["features"].(map[string]any)
	if !ok || features["chat"] != true {
		t.Fatalf("unexpected features block: %v", payload["features"])
	}
}
