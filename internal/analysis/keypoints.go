package analysis

import "strings"

// KeyPoints extracts up to eight standout achievement lines heuristically.
// Used when the AI key-point call fails; favors bullet lines carrying action
// verbs or quantified results.
func KeyPoints(text string) []string {
	lines := strings.Split(text, "\n")
	var points []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "•"))
		if len(trimmed) < 20 || len(trimmed) > 200 {
			continue
		}
		hasVerb := countMatches(trimmed, actionVerbs) > 0
		hasMetric := countMetricMatches(trimmed) > 0
		if !hasVerb && !hasMetric {
			continue
		}
		points = append(points, trimmed)
		if len(points) == 8 {
			break
		}
	}
	if points == nil {
		points = []string{}
	}
	return points
}
