package analysis

import "strings"

// FastScore computes an immediate approximate ATS score from length, section
// presence, and keyword heuristics. Synchronous, never fails, capped at 90 so
// the quick first paint never outranks a full analysis.
func FastScore(text string) Result {
	sections := DetectSections(text)

	score := 50

	switch {
	case len(text) > 2000:
		score += 10
	case len(text) > 800:
		score += 7
	case len(text) > 300:
		score += 4
	}

	if sections.HasSummary {
		score += 3
	}
	if sections.HasExperience {
		score += 6
	}
	if sections.HasEducation {
		score += 4
	}
	if sections.HasSkills {
		score += 5
	}
	if sections.HasAchievements {
		score += 3
	}
	if sections.HasContactInfo {
		score += 3
	}
	if sections.HasCertifications {
		score += 2
	}
	if sections.HasProjects {
		score += 2
	}

	if lines := strings.Count(text, "\n") + 1; lines > 15 {
		score += 3
	}
	if countMatches(text, actionVerbs) >= 3 {
		score += 4
	}
	if countMetricMatches(text) >= 2 {
		score += 4
	}
	if countMatches(text, techKeywords) >= 4 {
		score += 4
	}

	if score > 90 {
		score = 90
	}

	return Result{
		Score: ClampScore(score),
		Breakdown: map[string]int{
			"structure": structureEstimate(sections),
			"content":   contentEstimate(text),
		},
		Suggestions: quickSuggestions(text, sections),
		JobProfiles: []JobProfile{},
	}
}

func structureEstimate(sections Sections) int {
	present := 0
	for _, has := range []bool{
		sections.HasSummary, sections.HasExperience, sections.HasEducation,
		sections.HasSkills, sections.HasContactInfo,
	} {
		if has {
			present++
		}
	}
	return ClampScore(40 + present*12)
}

func contentEstimate(text string) int {
	score := 45
	score += countMatches(text, actionVerbs) * 3
	score += countMetricMatches(text) * 4
	return ClampScore(score)
}

func quickSuggestions(text string, sections Sections) []Suggestion {
	var out []Suggestion
	if !sections.HasSummary {
		out = append(out, Suggestion{
			Category:   "structure",
			Issue:      "No professional summary detected",
			Suggestion: "Open with a 2-3 line summary stating your role, specialty, and years of experience.",
			Impact:     6,
		})
	}
	if !sections.HasSkills {
		out = append(out, Suggestion{
			Category:   "keywords",
			Issue:      "No skills section detected",
			Suggestion: "Add a dedicated skills section listing the tools and technologies you work with.",
			Impact:     7,
		})
	}
	if countMetricMatches(text) == 0 {
		out = append(out, Suggestion{
			Category:   "content",
			Issue:      "No quantified results found",
			Suggestion: "Quantify your impact with numbers, e.g. \"reduced load time by 40%\".",
			Impact:     8,
		})
	}
	if out == nil {
		out = []Suggestion{}
	}
	return out
}
