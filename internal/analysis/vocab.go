package analysis

import (
	"regexp"
	"strings"
)

var actionVerbs = []string{
	"achieved", "built", "created", "delivered", "designed", "developed",
	"drove", "established", "implemented", "improved", "increased", "launched",
	"led", "managed", "optimized", "organized", "owned", "reduced",
	"redesigned", "shipped", "spearheaded", "streamlined",
}

var techKeywords = []string{
	"python", "java", "javascript", "typescript", "golang", "go", "react",
	"node", "sql", "postgres", "mysql", "mongodb", "redis", "aws", "gcp",
	"azure", "docker", "kubernetes", "terraform", "linux", "git", "ci/cd",
	"api", "microservices", "machine learning", "data analysis",
}

// quantifiedMetricPattern matches the measurable-impact phrasings ATS tools
// reward: percentages, multipliers, dollar amounts, and "N+ users" style counts.
var quantifiedMetricPattern = regexp.MustCompile(`(?i)\d+(\.\d+)?%|\d+(\.\d+)?x\b|\$\d[\d,]*|\d[\d,]*\+?\s*(users|customers|clients|requests|downloads|people|engineers|members)`)

var bulletLinePattern = regexp.MustCompile(`(?m)^\s*•`)

func countMatches(text string, words []string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			count++
		}
	}
	return count
}

func countMetricMatches(text string) int {
	return len(quantifiedMetricPattern.FindAllString(text, -1))
}

func countBulletLines(text string) int {
	return len(bulletLinePattern.FindAllString(text, -1))
}
