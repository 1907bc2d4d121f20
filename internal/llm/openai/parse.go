package openai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"resume-ats-backend/internal/analysis"
	"resume-ats-backend/internal/llm"
	"resume-ats-backend/internal/shared/telemetry"
)

var (
	controlChars     = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f]`)
	firstJSONObject  = regexp.MustCompile(`(?s)\{.*\}`)
	literalNewlines  = regexp.MustCompile(`\r?\n`)
	markdownFencePat = regexp.MustCompile("```(?:json)?")
)

// extractJSON pulls the first {...} block out of model output. Models wrap
// JSON in prose and fences often enough that straight unmarshaling fails.
func extractJSON(content string) (string, error) {
	cleaned := markdownFencePat.ReplaceAllString(content, "")
	cleaned = controlChars.ReplaceAllString(cleaned, "")
	cleaned = literalNewlines.ReplaceAllString(cleaned, " ")
	match := firstJSONObject.FindString(cleaned)
	if match == "" {
		return "", &llm.ServiceError{Cause: llm.CauseUnparseable, Err: fmt.Errorf("no JSON object in model output")}
	}
	return match, nil
}

type rawAnalysis struct {
	Score       *float64           `json:"score"`
	Breakdown   map[string]float64 `json:"breakdown"`
	Suggestions []rawSuggestion    `json:"suggestions"`
	JobProfiles []rawJobProfile    `json:"jobProfiles"`
}

type rawSuggestion struct {
	Category   string  `json:"category"`
	Issue      string  `json:"issue"`
	Suggestion string  `json:"suggestion"`
	Impact     float64 `json:"impact"`
}

type rawJobProfile struct {
	Title      string  `json:"title"`
	MatchScore float64 `json:"matchScore"`
	Reasoning  string  `json:"reasoning"`
}

// parseAnalysisResult validates and clamps the model's analysis JSON.
// Missing required keys raise an invalid-shape error; out-of-range numbers are
// clamped with a warning rather than failing the whole analysis.
func parseAnalysisResult(content string) (analysis.Result, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return analysis.Result{}, err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return analysis.Result{}, &llm.ServiceError{Cause: llm.CauseUnparseable, Err: err}
	}
	for _, required := range []string{"score", "breakdown", "suggestions"} {
		if _, ok := top[required]; !ok {
			return analysis.Result{}, &llm.ServiceError{
				Cause: llm.CauseInvalidResultShape,
				Err:   fmt.Errorf("missing %q key", required),
			}
		}
	}

	var parsed rawAnalysis
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return analysis.Result{}, &llm.ServiceError{Cause: llm.CauseInvalidResultShape, Err: err}
	}
	if parsed.Score == nil {
		return analysis.Result{}, &llm.ServiceError{Cause: llm.CauseInvalidResultShape, Err: fmt.Errorf("score is not a number")}
	}

	result := analysis.Result{
		Score:       int(*parsed.Score),
		Breakdown:   make(map[string]int, len(parsed.Breakdown)),
		Suggestions: make([]analysis.Suggestion, 0, len(parsed.Suggestions)),
		JobProfiles: make([]analysis.JobProfile, 0, len(parsed.JobProfiles)),
	}
	for key, v := range parsed.Breakdown {
		result.Breakdown[key] = int(v)
	}

	clamped := analysis.ClampBreakdown(result.Breakdown)
	if bounded := analysis.ClampScore(result.Score); bounded != result.Score {
		result.Score = bounded
		clamped = true
	}
	if clamped {
		telemetry.Info("ai.result.clamped", map[string]any{
			"score": result.Score,
		})
	}

	for _, s := range parsed.Suggestions {
		result.Suggestions = append(result.Suggestions, analysis.Suggestion{
			Category:   s.Category,
			Issue:      s.Issue,
			Suggestion: s.Suggestion,
			Impact:     analysis.ClampImpact(int(s.Impact)),
		})
	}
	for _, p := range parsed.JobProfiles {
		result.JobProfiles = append(result.JobProfiles, analysis.JobProfile{
			Title:      p.Title,
			MatchScore: analysis.ClampScore(int(p.MatchScore)),
			Reasoning:  p.Reasoning,
		})
	}
	return result, nil
}

func parseKeyPoints(content string) ([]string, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		KeyPoints []string `json:"keyPoints"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &llm.ServiceError{Cause: llm.CauseUnparseable, Err: err}
	}
	if parsed.KeyPoints == nil {
		return nil, &llm.ServiceError{Cause: llm.CauseInvalidResultShape, Err: fmt.Errorf("missing keyPoints key")}
	}
	out := make([]string, 0, len(parsed.KeyPoints))
	for _, p := range parsed.KeyPoints {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, nil
}

func parseImprovedLines(content string) (map[string]string, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		ImprovedLines map[string]string `json:"improvedLines"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &llm.ServiceError{Cause: llm.CauseUnparseable, Err: err}
	}
	if parsed.ImprovedLines == nil {
		return nil, &llm.ServiceError{Cause: llm.CauseInvalidResultShape, Err: fmt.Errorf("missing improvedLines key")}
	}
	return parsed.ImprovedLines, nil
}

func parseImprovement(content string) (llm.Improvement, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return llm.Improvement{}, err
	}
	var parsed struct {
		ImprovedText string  `json:"improvedText"`
		Explanation  string  `json:"explanation"`
		NewScore     float64 `json:"newScore"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return llm.Improvement{}, &llm.ServiceError{Cause: llm.CauseUnparseable, Err: err}
	}
	if strings.TrimSpace(parsed.ImprovedText) == "" {
		return llm.Improvement{}, &llm.ServiceError{Cause: llm.CauseInvalidResultShape, Err: fmt.Errorf("missing improvedText")}
	}
	return llm.Improvement{
		ImprovedText: parsed.ImprovedText,
		Explanation:  parsed.Explanation,
		NewScore:     analysis.ClampScore(int(parsed.NewScore)),
	}, nil
}
