package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-ats-backend/internal/analysis"
	"resume-ats-backend/internal/llm"
	"resume-ats-backend/internal/shared/metrics"
	"resume-ats-backend/internal/shared/telemetry"
	"resume-ats-backend/internal/usage"
)

// AnalysisStatus values reported to the client.
const (
	StatusAI       = "ai"
	StatusFallback = "fallback"
)

// AnalysisResponse is the full payload for upload and analyze requests.
type AnalysisResponse struct {
	Success         bool                  `json:"success"`
	ResumeID        string                `json:"resumeId"`
	Content         string                `json:"content"`
	ATSScore        int                   `json:"atsScore"`
	ATSBreakdown    map[string]int        `json:"atsBreakdown"`
	ATSSuggestions  []analysis.Suggestion `json:"atsSuggestions"`
	KeyPoints       []string              `json:"keyPoints"`
	ImprovedContent map[string]string     `json:"improvedContent"`
	JobProfiles     []analysis.JobProfile `json:"jobProfiles"`
	AnalysisStatus  string                `json:"analysisStatus"`
	AnalysisNote    string                `json:"analysisNote,omitempty"`
	ServerStatus    string                `json:"serverStatus"`
}

// Service runs the analysis pipeline: extract fields, persist, score with AI
// or the fallback scorer, enrich with key points and line rewrites.
type Service struct {
	repo    Repo
	ai      llm.Client
	usage   *usage.Service
	metered bool
	now     func() time.Time
}

func NewService(repo Repo, ai llm.Client, usageSvc *usage.Service, metered bool) *Service {
	return &Service{repo: repo, ai: ai, usage: usageSvc, metered: metered, now: time.Now}
}

// Analyze runs the full pipeline over already-extracted resume text.
// A *llm.ConfigError aborts with no result; a *llm.ServiceError degrades to
// the fallback scorer. Persistence failures never abort the analysis.
func (s *Service) Analyze(ctx context.Context, text string, file FileInfo, fingerprint string) (AnalysisResponse, error) {
	if err := s.checkQuota(ctx, fingerprint); err != nil {
		return AnalysisResponse{}, err
	}

	fields := ExtractFields(text)
	record, persistErr := s.upsert(ctx, text, fields, file)
	if persistErr != nil {
		telemetry.Error("resume.persist.failed", map[string]any{"error": persistErr.Error()})
	}

	sections := analysis.DetectSections(text)
	result, status, err := s.score(ctx, text, sections)
	if err != nil {
		return AnalysisResponse{}, err
	}

	keyPoints, err := s.ai.KeyPoints(ctx, text)
	if err != nil || len(keyPoints) == 0 {
		keyPoints = analysis.KeyPoints(text)
	}
	improved, err := s.ai.ImproveLines(ctx, text)
	if err != nil {
		improved = map[string]string{}
	}

	resp := AnalysisResponse{
		Success:         true,
		ResumeID:        record.ID,
		Content:         text,
		ATSScore:        result.Score,
		ATSBreakdown:    result.Breakdown,
		ATSSuggestions:  result.Suggestions,
		KeyPoints:       keyPoints,
		ImprovedContent: improved,
		JobProfiles:     result.JobProfiles,
		AnalysisStatus:  status,
		ServerStatus:    "online",
	}
	if persistErr != nil {
		resp.ResumeID = ""
		resp.AnalysisNote = "analysis completed but the result could not be saved"
	} else if err := s.saveAnalysis(ctx, record, result, resp); err != nil {
		telemetry.Error("resume.analysis.save_failed", map[string]any{"error": err.Error(), "resumeId": record.ID})
		resp.AnalysisNote = "analysis completed but the result could not be saved"
	}

	s.consumeQuota(ctx, fingerprint)
	metrics.IncAnalysisCompleted()
	if status == StatusFallback {
		metrics.IncAnalysisFallback()
	}
	return resp, nil
}

// QuickScore runs the heuristic scorer only. It never calls the AI provider
// and never fails past validation.
func (s *Service) QuickScore(text string) AnalysisResponse {
	result := analysis.FastScore(text)
	return AnalysisResponse{
		Success:        true,
		Content:        text,
		ATSScore:       result.Score,
		ATSBreakdown:   result.Breakdown,
		ATSSuggestions: result.Suggestions,
		KeyPoints:      analysis.KeyPoints(text),
		AnalysisStatus: StatusFallback,
		ServerStatus:   "online",
	}
}

// Chat proxies a conversational message to the AI provider.
func (s *Service) Chat(ctx context.Context, history []llm.ChatMessage, message, contextNote string) (string, error) {
	return s.ai.Chat(ctx, history, message, contextNote)
}

// Improve rewrites a line or block. When the provider fails it falls back to a
// verb-strengthening heuristic rather than erroring.
func (s *Service) Improve(ctx context.Context, text, category, userInput string) (llm.Improvement, error) {
	imp, err := s.ai.ImproveText(ctx, text, category, userInput)
	if err == nil {
		return imp, nil
	}
	if llm.IsConfigError(err) {
		return llm.Improvement{}, err
	}
	telemetry.Error("resume.improve.fallback", map[string]any{"error": err.Error()})
	return heuristicImprove(text), nil
}

func (s *Service) Get(ctx context.Context, id string) (ResumeRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]ResumeRecord, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) score(ctx context.Context, text string, sections analysis.Sections) (analysis.Result, string, error) {
	result, err := s.ai.Analyze(ctx, text, sections)
	if err == nil {
		return result, StatusAI, nil
	}
	if llm.IsConfigError(err) {
		return analysis.Result{}, "", err
	}
	var svcErr *llm.ServiceError
	if errors.As(err, &svcErr) {
		telemetry.Error("resume.analysis.fallback", map[string]any{"cause": string(svcErr.Cause)})
		return analysis.FallbackScore(text), StatusFallback, nil
	}
	return analysis.Result{}, "", err
}

// upsert finds an existing record by extracted identity and updates it, or
// inserts a fresh one. createdAt survives updates; updatedAt always advances.
func (s *Service) upsert(ctx context.Context, text string, fields ExtractedFields, file FileInfo) (ResumeRecord, error) {
	now := s.now().UTC()
	extractedJSON, err := json.Marshal(fields)
	if err != nil {
		return ResumeRecord{}, err
	}

	record := ResumeRecord{
		Name:            fields.Name,
		Email:           fields.Email,
		Phone:           fields.Phone,
		LinkedIn:        fields.LinkedIn,
		Location:        fields.Location,
		Role:            fields.Role,
		ExperienceYears: fields.ExperienceYears,
		Skills:          fields.Skills,
		Education:       fields.Education,
		ResumeText:      text,
		ExtractedData:   string(extractedJSON),
		FileType:        file.FileType,
		FileSize:        file.FileSize,
		UploadSource:    file.UploadSource,
		UpdatedAt:       now,
	}

	if record.HasIdentity() {
		existing, err := s.repo.FindByIdentity(ctx, fields.Email, fields.Phone, fields.LinkedIn)
		if err == nil {
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
			if err := s.repo.Update(ctx, record); err != nil {
				return ResumeRecord{}, err
			}
			return record, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return ResumeRecord{}, err
		}
	}

	record.ID = uuid.NewString()
	record.CreatedAt = now
	if err := s.repo.Insert(ctx, record); err != nil {
		return ResumeRecord{}, err
	}
	return record, nil
}

func (s *Service) saveAnalysis(ctx context.Context, record ResumeRecord, result analysis.Result, resp AnalysisResponse) error {
	breakdown, err := json.Marshal(result.Breakdown)
	if err != nil {
		return err
	}
	full, err := json.Marshal(map[string]any{
		"suggestions":    result.Suggestions,
		"keyPoints":      resp.KeyPoints,
		"jobProfiles":    result.JobProfiles,
		"analysisStatus": resp.AnalysisStatus,
	})
	if err != nil {
		return err
	}

	score := result.Score
	record.ATSScore = &score
	record.ATSBreakdown = string(breakdown)
	record.AnalysisResults = string(full)
	record.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, record)
}

func (s *Service) checkQuota(ctx context.Context, fingerprint string) error {
	if !s.metered || s.usage == nil || fingerprint == "" {
		return nil
	}
	ok, _, err := s.usage.CanConsume(ctx, fingerprint, 1)
	if err != nil {
		telemetry.Error("usage.check.failed", map[string]any{"error": err.Error()})
		return nil
	}
	if !ok {
		return usage.ErrLimitReached
	}
	return nil
}

func (s *Service) consumeQuota(ctx context.Context, fingerprint string) {
	if !s.metered || s.usage == nil || fingerprint == "" {
		return
	}
	if _, err := s.usage.Consume(ctx, fingerprint, 1); err != nil && !errors.Is(err, usage.ErrLimitReached) {
		telemetry.Error("usage.consume.failed", map[string]any{"error": err.Error()})
	}
}

var weakVerbs = []struct{ weak, strong string }{
	{"responsible for", "led"},
	{"worked on", "developed"},
	{"helped with", "drove"},
	{"helped", "supported"},
	{"was involved in", "contributed to"},
}

func heuristicImprove(text string) llm.Improvement {
	improved := text
	lower := strings.ToLower(improved)
	changed := false
	for _, v := range weakVerbs {
		if idx := strings.Index(lower, v.weak); idx >= 0 {
			improved = improved[:idx] + v.strong + improved[idx+len(v.weak):]
			lower = strings.ToLower(improved)
			changed = true
		}
	}
	explanation := "Replaced weak phrasing with action verbs."
	if !changed {
		explanation = "No automatic rewrite available; consider adding a quantified outcome."
	}
	result := analysis.FastScore(improved)
	return llm.Improvement{
		ImprovedText: improved,
		Explanation:  explanation,
		NewScore:     result.Score,
	}
}
