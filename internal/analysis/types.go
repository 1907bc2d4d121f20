// Package analysis holds the deterministic parts of the resume scoring
// pipeline: section detection, the instant heuristic scorer, and the
// rule-based scorer used when the AI provider is unavailable.
package analysis

// Suggestion is a single actionable improvement for a resume.
type Suggestion struct {
	Category   string `json:"category"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
	Impact     int    `json:"impact"`
}

// JobProfile is a role the resume appears to match.
type JobProfile struct {
	Title      string `json:"title"`
	MatchScore int    `json:"matchScore"`
	Reasoning  string `json:"reasoning"`
}

// Result is the analysis outcome shared by the AI client and both heuristic scorers.
type Result struct {
	Score       int            `json:"score"`
	Breakdown   map[string]int `json:"breakdown"`
	Suggestions []Suggestion   `json:"suggestions"`
	JobProfiles []JobProfile   `json:"jobProfiles"`
}

// ClampScore bounds a score into [0,100].
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ClampImpact bounds a suggestion impact into [1,10].
func ClampImpact(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// ClampBreakdown bounds every sub-score into [0,100] in place and reports
// whether any value was out of range.
func ClampBreakdown(breakdown map[string]int) bool {
	adjusted := false
	for key, v := range breakdown {
		clamped := ClampScore(v)
		if clamped != v {
			breakdown[key] = clamped
			adjusted = true
		}
	}
	return adjusted
}
