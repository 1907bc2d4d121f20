package resumes

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"resume-ats-backend/internal/analysis"
	"resume-ats-backend/internal/llm"
	"resume-ats-backend/internal/usage"
)

// fakeAI returns canned results or errors per method.
type fakeAI struct {
	analyzeResult analysis.Result
	analyzeErr    error
	keyPoints     []string
	keyPointsErr  error
	improvedLines map[string]string
	improveErr    error
	improvement   llm.Improvement
	improveTxtErr error
	chatReply     string
	chatErr       error
}

func (f *fakeAI) Analyze(ctx context.Context, text string, sections analysis.Sections) (analysis.Result, error) {
	return f.analyzeResult, f.analyzeErr
}

func (f *fakeAI) KeyPoints(ctx context.Context, text string) ([]string, error) {
	return f.keyPoints, f.keyPointsErr
}

func (f *fakeAI) ImproveLines(ctx context.Context, text string) (map[string]string, error) {
	return f.improvedLines, f.improveErr
}

func (f *fakeAI) ImproveText(ctx context.Context, text, category, userInput string) (llm.Improvement, error) {
	return f.improvement, f.improveTxtErr
}

func (f *fakeAI) Chat(ctx context.Context, history []llm.ChatMessage, message, contextNote string) (string, error) {
	return f.chatReply, f.chatErr
}

const serviceFixture = `Jane Doe
Senior Software Engineer
jane.doe@example.com | (555) 123-4567

EXPERIENCE
Senior Software Engineer, Acme Corp
• Led migration to Kubernetes, reducing deploy time by 40%
• Built Go services handling 1M requests per day

SKILLS
Go, Python, PostgreSQL, Docker
`

func aiResult() analysis.Result {
	return analysis.Result{
		Score:     81,
		Breakdown: map[string]int{"keywords": 85, "experience": 80},
		Suggestions: []analysis.Suggestion{
			{Category: "keywords", Issue: "missing cloud terms", Suggestion: "add AWS", Impact: 6},
		},
	}
}

func TestAnalyzeUsesAIResult(t *testing.T) {
	repo := NewMemoryRepo()
	ai := &fakeAI{
		analyzeResult: aiResult(),
		keyPoints:     []string{"Led migration to Kubernetes"},
		improvedLines: map[string]string{"Built Go services": "Engineered Go services"},
	}
	svc := NewService(repo, ai, nil, false)

	resp, err := svc.Analyze(context.Background(), serviceFixture, FileInfo{FileType: "text/plain", UploadSource: "paste"}, "")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !resp.Success || resp.AnalysisStatus != StatusAI {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ATSScore != 81 {
		t.Fatalf("expected score 81, got %d", resp.ATSScore)
	}
	if resp.ResumeID == "" {
		t.Fatalf("expected a resume id")
	}
	if resp.ServerStatus != "online" {
		t.Fatalf("expected serverStatus online, got %q", resp.ServerStatus)
	}

	stored, err := repo.GetByID(context.Background(), resp.ResumeID)
	if err != nil {
		t.Fatalf("stored record: %v", err)
	}
	if stored.ATSScore == nil || *stored.ATSScore != 81 {
		t.Fatalf("expected stored score 81, got %v", stored.ATSScore)
	}
	if stored.Email != "jane.doe@example.com" {
		t.Fatalf("expected extracted email persisted, got %q", stored.Email)
	}
}

func TestAnalyzeFallsBackOnServiceError(t *testing.T) {
	ai := &fakeAI{
		analyzeErr:   &llm.ServiceError{Cause: llm.CauseTransient, Err: errors.New("connection refused")},
		keyPointsErr: &llm.ServiceError{Cause: llm.CauseTransient, Err: errors.New("connection refused")},
		improveErr:   &llm.ServiceError{Cause: llm.CauseTransient, Err: errors.New("connection refused")},
	}
	svc := NewService(NewMemoryRepo(), ai, nil, false)

	resp, err := svc.Analyze(context.Background(), serviceFixture, FileInfo{}, "")
	if err != nil {
		t.Fatalf("expected fallback, got error: %v", err)
	}
	if resp.AnalysisStatus != StatusFallback {
		t.Fatalf("expected fallback status, got %q", resp.AnalysisStatus)
	}
	if resp.ATSScore < 0 || resp.ATSScore > 100 {
		t.Fatalf("score out of range: %d", resp.ATSScore)
	}
	if len(resp.KeyPoints) == 0 {
		t.Fatalf("expected heuristic key points")
	}
	if resp.ImprovedContent == nil {
		t.Fatalf("expected empty map, got nil")
	}
}

func TestAnalyzeConfigErrorAborts(t *testing.T) {
	ai := &fakeAI{analyzeErr: &llm.ConfigError{Reason: "no API key"}}
	svc := NewService(NewMemoryRepo(), ai, nil, false)

	_, err := svc.Analyze(context.Background(), serviceFixture, FileInfo{}, "")
	if !llm.IsConfigError(err) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestAnalyzeSameEmailUpdatesExistingRecord(t *testing.T) {
	repo := NewMemoryRepo()
	ai := &fakeAI{analyzeResult: aiResult(), keyPoints: []string{"x"}, improvedLines: map[string]string{}}
	svc := NewService(repo, ai, nil, false)

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }
	resp1, err := svc.Analyze(context.Background(), serviceFixture, FileInfo{}, "")
	if err != nil {
		t.Fatalf("first analyze: %v", err)
	}

	second := first.Add(72 * time.Hour)
	svc.now = func() time.Time { return second }
	updated := strings.Replace(serviceFixture, "Built Go services", "Built distributed Go services", 1)
	resp2, err := svc.Analyze(context.Background(), updated, FileInfo{}, "")
	if err != nil {
		t.Fatalf("second analyze: %v", err)
	}

	if resp1.ResumeID != resp2.ResumeID {
		t.Fatalf("expected same record for same email, got %s and %s", resp1.ResumeID, resp2.ResumeID)
	}

	stored, err := repo.GetByID(context.Background(), resp2.ResumeID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.CreatedAt.Equal(first) {
		t.Fatalf("createdAt must be preserved: got %v", stored.CreatedAt)
	}
	if !stored.UpdatedAt.After(first) {
		t.Fatalf("updatedAt must advance: got %v", stored.UpdatedAt)
	}
	if !strings.Contains(stored.ResumeText, "distributed") {
		t.Fatalf("expected resume text replaced")
	}
}

type failingRepo struct{ Repo }

func (f failingRepo) FindByIdentity(ctx context.Context, email, phone, linkedin string) (ResumeRecord, error) {
	return ResumeRecord{}, errors.New("disk full")
}

func (f failingRepo) Insert(ctx context.Context, record ResumeRecord) error {
	return errors.New("disk full")
}

func TestAnalyzePersistenceFailureStillReturnsResult(t *testing.T) {
	ai := &fakeAI{analyzeResult: aiResult(), keyPoints: []string{"x"}, improvedLines: map[string]string{}}
	svc := NewService(failingRepo{NewMemoryRepo()}, ai, nil, false)

	resp, err := svc.Analyze(context.Background(), serviceFixture, FileInfo{}, "")
	if err != nil {
		t.Fatalf("expected success despite persistence failure, got %v", err)
	}
	if resp.ResumeID != "" {
		t.Fatalf("expected empty resumeId, got %q", resp.ResumeID)
	}
	if resp.AnalysisNote == "" {
		t.Fatalf("expected analysisNote explaining the save failure")
	}
	if resp.ATSScore != 81 {
		t.Fatalf("expected analysis result intact, got %d", resp.ATSScore)
	}
}

func TestAnalyzeQuotaEnforcedWhenMetered(t *testing.T) {
	ai := &fakeAI{analyzeResult: aiResult(), keyPoints: []string{"x"}, improvedLines: map[string]string{}}
	usageSvc := usage.NewService(1)
	svc := NewService(NewMemoryRepo(), ai, usageSvc, true)

	if _, err := svc.Analyze(context.Background(), serviceFixture, FileInfo{}, "device-1"); err != nil {
		t.Fatalf("first analyze should pass: %v", err)
	}
	_, err := svc.Analyze(context.Background(), serviceFixture, FileInfo{}, "device-1")
	if !errors.Is(err, usage.ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}

	if _, err := usageSvc.MarkPaid(context.Background(), "device-1"); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if _, err := svc.Analyze(context.Background(), serviceFixture, FileInfo{}, "device-1"); err != nil {
		t.Fatalf("paid device should be unmetered: %v", err)
	}
}

func TestQuickScoreNeverCallsAI(t *testing.T) {
	svc := NewService(NewMemoryRepo(), &fakeAI{analyzeErr: errors.New("must not be called")}, nil, false)

	resp := svc.QuickScore(serviceFixture)
	if !resp.Success {
		t.Fatalf("expected success")
	}
	if resp.ATSScore < 0 || resp.ATSScore > 100 {
		t.Fatalf("score out of range: %d", resp.ATSScore)
	}
}

func TestImproveFallsBackToHeuristic(t *testing.T) {
	ai := &fakeAI{improveTxtErr: &llm.ServiceError{Cause: llm.CauseRateLimited, Err: errors.New("429")}}
	svc := NewService(NewMemoryRepo(), ai, nil, false)

	imp, err := svc.Improve(context.Background(), "Responsible for the payment platform serving many customers every day.", "experience", "")
	if err != nil {
		t.Fatalf("expected heuristic fallback, got %v", err)
	}
	if !strings.Contains(strings.ToLower(imp.ImprovedText), "led") {
		t.Fatalf("expected weak verb replaced, got %q", imp.ImprovedText)
	}
	if imp.Explanation == "" {
		t.Fatalf("expected an explanation")
	}
}

func TestImprovePropagatesConfigError(t *testing.T) {
	ai := &fakeAI{improveTxtErr: &llm.ConfigError{Reason: "no API key"}}
	svc := NewService(NewMemoryRepo(), ai, nil, false)

	_, err := svc.Improve(context.Background(), "some text", "experience", "")
	if !llm.IsConfigError(err) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}
