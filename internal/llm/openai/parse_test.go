package openai

import (
	"testing"

	"resume-ats-backend/internal/llm"
)

func TestParseAnalysisResultClampsScores(t *testing.T) {
	content := "Here is the analysis you asked for:\n```json\n" + `{
		"score": 105,
		"breakdown": {"keywords": 110, "experience": -5, "skills": 80},
		"suggestions": [{"category": "keywords", "issue": "x", "suggestion": "y", "impact": 15}]
	}` + "\n```"

	result, err := parseAnalysisResult(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.Score != 100 {
		t.Fatalf("expected score clamped to 100, got %d", result.Score)
	}
	if result.Breakdown["keywords"] != 100 {
		t.Fatalf("expected keywords clamped to 100, got %d", result.Breakdown["keywords"])
	}
	if result.Breakdown["experience"] != 0 {
		t.Fatalf("expected experience clamped to 0, got %d", result.Breakdown["experience"])
	}
	if result.Breakdown["skills"] != 80 {
		t.Fatalf("in-range value must be untouched, got %d", result.Breakdown["skills"])
	}
	if result.Suggestions[0].Impact != 10 {
		t.Fatalf("expected impact clamped to 10, got %d", result.Suggestions[0].Impact)
	}
	if result.JobProfiles == nil || len(result.JobProfiles) != 0 {
		t.Fatalf("absent jobProfiles should default to empty slice")
	}
}

func TestParseAnalysisResultMissingKeys(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no score", `{"breakdown": {}, "suggestions": []}`},
		{"no breakdown", `{"score": 70, "suggestions": []}`},
		{"no suggestions", `{"score": 70, "breakdown": {}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseAnalysisResult(tc.content)
			se, ok := llm.AsServiceError(err)
			if !ok {
				t.Fatalf("expected ServiceError, got %v", err)
			}
			if se.Cause != llm.CauseInvalidResultShape {
				t.Fatalf("expected invalid_result_shape, got %s", se.Cause)
			}
		})
	}
}

func TestParseAnalysisResultDirtyFormatting(t *testing.T) {
	content := "Sure! {\"score\": 72,\n \"breakdown\": {\"keywords\": 60},\n \"suggestions\": []} Hope that helps."
	result, err := parseAnalysisResult(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.Score != 72 {
		t.Fatalf("expected 72, got %d", result.Score)
	}
}

func TestParseAnalysisResultNoJSON(t *testing.T) {
	_, err := parseAnalysisResult("I could not analyze this resume.")
	se, ok := llm.AsServiceError(err)
	if !ok || se.Cause != llm.CauseUnparseable {
		t.Fatalf("expected unparseable cause, got %v", err)
	}
}

func TestParseKeyPoints(t *testing.T) {
	points, err := parseKeyPoints(`{"keyPoints": ["Led migration to Kubernetes", "  ", "Cut costs by 30%"]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected blank entries dropped, got %v", points)
	}
}

func TestParseImprovedLinesMissingKey(t *testing.T) {
	_, err := parseImprovedLines(`{"lines": {}}`)
	se, ok := llm.AsServiceError(err)
	if !ok || se.Cause != llm.CauseInvalidResultShape {
		t.Fatalf("expected invalid shape, got %v", err)
	}
}

func TestParseImprovementClampsScore(t *testing.T) {
	improvement, err := parseImprovement(`{"improvedText": "Better line", "explanation": "why", "newScore": 250}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if improvement.NewScore != 100 {
		t.Fatalf("expected clamped 100, got %d", improvement.NewScore)
	}
}
