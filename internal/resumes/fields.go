package resumes

import (
	"regexp"
	"strings"
)

// ExtractedFields holds the best-effort contact and profile fields pulled from
// resume text, used for deduplication and storage.
type ExtractedFields struct {
	Name            string   `json:"name,omitempty"`
	Email           string   `json:"email,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	LinkedIn        string   `json:"linkedin,omitempty"`
	Location        string   `json:"location,omitempty"`
	Role            string   `json:"role,omitempty"`
	ExperienceYears string   `json:"experienceYears,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Education       string   `json:"education,omitempty"`
}

var (
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern    = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	linkedinPattern = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/[A-Za-z0-9_-]+`)
	namePattern     = regexp.MustCompile(`^[A-Z][a-zA-Z.'-]+(?: [A-Z][a-zA-Z.'-]+){1,3}$`)
	yearsPattern    = regexp.MustCompile(`(?i)(\d{1,2})\+?\s*(?:years?|yrs?)(?:\s+of)?\s+experience`)
	locationPattern = regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)?),\s*([A-Z]{2})\b`)
	degreePattern   = regexp.MustCompile(`(?i)\b(b\.?s\.?c?|m\.?s\.?c?|b\.?a |m\.?b\.?a|ph\.?d|bachelor|master|doctorate|diploma)\b`)
	rolePattern     = regexp.MustCompile(`(?i)\b((?:senior|junior|lead|staff|principal)\s+)?((?:software|backend|frontend|full[ -]?stack|data|devops|cloud|machine learning|qa|security|mobile|platform)\s+)?(engineer|developer|analyst|scientist|architect|designer|manager|consultant)\b`)

	knownSkills = []string{
		"python", "java", "javascript", "typescript", "go", "golang", "c++", "c#",
		"ruby", "php", "rust", "kotlin", "swift", "react", "angular", "vue",
		"node.js", "django", "flask", "spring", "sql", "postgresql", "mysql",
		"mongodb", "redis", "aws", "gcp", "azure", "docker", "kubernetes",
		"terraform", "git", "linux", "graphql", "rest", "kafka", "elasticsearch",
	}
)

// ExtractFields pulls contact and profile details out of cleaned resume text.
// Every field is best-effort; absent fields are empty.
func ExtractFields(text string) ExtractedFields {
	fields := ExtractedFields{
		Email:    emailPattern.FindString(text),
		LinkedIn: normalizeLinkedIn(linkedinPattern.FindString(text)),
		Name:     extractName(text),
		Role:     extractRole(text),
		Skills:   extractSkills(text),
	}
	if m := phonePattern.FindString(text); m != "" {
		fields.Phone = normalizePhone(m)
	}
	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		fields.ExperienceYears = m[1]
	}
	if m := locationPattern.FindStringSubmatch(text); m != nil {
		fields.Location = m[1] + ", " + m[2]
	}
	fields.Education = extractEducation(text)
	return fields
}

// extractName scans the first few lines for a plausible person name, skipping
// lines that carry contact details or headings.
func extractName(text string) string {
	lines := strings.Split(text, "\n")
	limit := 5
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || len(trimmed) > 60 {
			continue
		}
		if emailPattern.MatchString(trimmed) || phonePattern.MatchString(trimmed) {
			continue
		}
		if namePattern.MatchString(trimmed) {
			return trimmed
		}
	}
	return ""
}

func extractRole(text string) string {
	lines := strings.Split(text, "\n")
	limit := 10
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		if m := rolePattern.FindString(strings.TrimSpace(line)); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func extractSkills(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, skill := range knownSkills {
		if containsToken(lower, skill) {
			found = append(found, skill)
		}
	}
	return found
}

// containsToken avoids substring false positives like "go" inside "google".
func containsToken(lower, skill string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], skill)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(skill)
		beforeOK := start == 0 || !isWordChar(lower[start-1])
		afterOK := end == len(lower) || !isWordChar(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
		if idx >= len(lower) {
			return false
		}
	}
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

func extractEducation(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < 5 || len(trimmed) > 140 {
			continue
		}
		if degreePattern.MatchString(trimmed) {
			return trimmed
		}
	}
	return ""
}

func normalizeLinkedIn(raw string) string {
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	lower = strings.TrimPrefix(lower, "https://")
	lower = strings.TrimPrefix(lower, "http://")
	lower = strings.TrimPrefix(lower, "www.")
	return lower
}

// normalizePhone keeps digits (and a leading +) so formatting differences
// don't defeat identity matching.
func normalizePhone(raw string) string {
	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(strings.TrimPrefix(digits, "+")) < 10 {
		return ""
	}
	return digits
}
