package analysis

import (
	"strings"
	"testing"
)

func TestFastScoreBounds(t *testing.T) {
	inputs := []string{
		sampleResume,
		strings.Repeat("word ", 50),
		strings.Repeat("x", 5000),
		"short but fifty characters of plain resume text here",
	}
	for _, input := range inputs {
		result := FastScore(input)
		if result.Score < 0 || result.Score > 100 {
			t.Fatalf("score out of range: %d", result.Score)
		}
		if result.Score > 90 {
			t.Fatalf("fast score must cap at 90, got %d", result.Score)
		}
		for key, v := range result.Breakdown {
			if v < 0 || v > 100 {
				t.Fatalf("breakdown %s out of range: %d", key, v)
			}
		}
		if result.JobProfiles == nil || result.Suggestions == nil {
			t.Fatalf("slices must be non-nil")
		}
	}
}

func TestFastScoreRewardsStructure(t *testing.T) {
	rich := FastScore(sampleResume)
	bare := FastScore(strings.Repeat("plain filler text with no resume structure at all ", 3))

	if rich.Score <= bare.Score {
		t.Fatalf("structured resume should outscore filler: %d vs %d", rich.Score, bare.Score)
	}
}

func TestFastScoreSuggestsMissingMetrics(t *testing.T) {
	text := "Summary\nEngineer.\n\nSkills\nPython and related tooling for building software systems."
	result := FastScore(text)
	found := false
	for _, s := range result.Suggestions {
		if strings.Contains(s.Issue, "quantified") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a quantified-results suggestion, got %+v", result.Suggestions)
	}
}
