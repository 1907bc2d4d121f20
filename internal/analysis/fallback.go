package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Component weights of the rule-based score, summing to 100.
var fallbackWeights = map[string]int{
	"keywords":       20,
	"formatting":     15,
	"experience":     20,
	"skills":         15,
	"achievements":   10,
	"contactInfo":    5,
	"certifications": 5,
	"languages":      3,
	"projects":       5,
	"volunteerWork":  2,
}

var (
	yearsPattern    = regexp.MustCompile(`(?i)\b\d{1,2}\+?\s*(years?|yrs?)\b`)
	linkedinPattern = regexp.MustCompile(`(?i)linkedin\.com/in/[A-Za-z0-9_-]+`)
	certKeywords    = []string{"certified", "certification", "certificate", "license", "aws certified", "pmp", "cka", "ccna"}
	languageNames   = []string{"english", "spanish", "french", "german", "mandarin", "chinese", "hindi", "arabic", "portuguese", "russian", "japanese"}
)

// FallbackScore is the deterministic rule-based scorer used when the AI call
// fails. Each section component is zeroed when the section detector says the
// section is absent, so keyword coincidences elsewhere in the text earn nothing.
func FallbackScore(text string) Result {
	sections := DetectSections(text)

	breakdown := map[string]int{
		"keywords":       scoreKeywords(text),
		"formatting":     scoreFormatting(text),
		"experience":     gated(sections.HasExperience, scoreExperience(text)),
		"skills":         gated(sections.HasSkills, scoreSkills(text)),
		"achievements":   gated(sections.HasAchievements, scoreAchievements(text)),
		"contactInfo":    gated(sections.HasContactInfo, scoreContactInfo(text)),
		"certifications": gated(sections.HasCertifications, scoreCertifications(text)),
		"languages":      gated(sections.HasLanguages, scoreLanguages(text)),
		"projects":       gated(sections.HasProjects, scoreProjects(text)),
		"volunteerWork":  gated(sections.HasVolunteerWork, scoreVolunteerWork(text)),
	}
	ClampBreakdown(breakdown)

	weighted := 0
	for component, weight := range fallbackWeights {
		weighted += breakdown[component] * weight
	}

	return Result{
		Score:       ClampScore(weighted / 100),
		Breakdown:   breakdown,
		Suggestions: fallbackSuggestions(breakdown, sections),
		JobProfiles: matchJobProfiles(text),
	}
}

func gated(present bool, score int) int {
	if !present {
		return 0
	}
	return score
}

func scoreKeywords(text string) int {
	return ClampScore(35 + countMatches(text, techKeywords)*7 + countMatches(text, actionVerbs)*2)
}

func scoreFormatting(text string) int {
	score := 40
	bullets := countBulletLines(text)
	if bullets > 5 {
		bullets = 5
	}
	score += bullets * 6
	lines := strings.Split(text, "\n")
	if len(lines) > 10 {
		score += 10
	}
	long := 0
	for _, line := range lines {
		if len(line) > 160 {
			long++
		}
	}
	if long == 0 {
		score += 10
	}
	return ClampScore(score)
}

func scoreExperience(text string) int {
	score := 40
	bullets := countBulletLines(text)
	if bullets > 6 {
		bullets = 6
	}
	score += bullets * 5
	metrics := countMetricMatches(text)
	if metrics > 3 {
		metrics = 3
	}
	score += metrics * 7
	if yearsPattern.MatchString(text) {
		score += 10
	}
	return ClampScore(score)
}

func scoreSkills(text string) int {
	return ClampScore(40 + countMatches(text, techKeywords)*8)
}

func scoreAchievements(text string) int {
	score := 20 + countMetricMatches(text)*20
	score += countMatches(text, actionVerbs) * 3
	return ClampScore(score)
}

func scoreContactInfo(text string) int {
	score := 0
	if emailPattern.MatchString(text) {
		score += 50
	}
	if phonePattern.MatchString(text) {
		score += 30
	}
	if linkedinPattern.MatchString(text) {
		score += 20
	}
	return ClampScore(score)
}

func scoreCertifications(text string) int {
	return ClampScore(40 + countMatches(text, certKeywords)*20)
}

func scoreLanguages(text string) int {
	return ClampScore(55 + countMatches(text, languageNames)*15)
}

func scoreProjects(text string) int {
	return ClampScore(50 + countMatches(text, techKeywords)*5)
}

func scoreVolunteerWork(text string) int {
	score := 70
	if countMetricMatches(text) > 0 {
		score += 15
	}
	return ClampScore(score)
}

type componentAdvice struct {
	category   string
	issue      string
	suggestion string
	impact     int
}

var adviceByComponent = map[string]componentAdvice{
	"keywords": {
		category:   "keywords",
		issue:      "Few recognizable industry keywords",
		suggestion: "Mirror the terminology of target job postings in your skills and experience bullets.",
		impact:     8,
	},
	"formatting": {
		category:   "formatting",
		issue:      "Sparse bullet structure",
		suggestion: "Break dense paragraphs into bullet points so ATS parsers and recruiters can scan them.",
		impact:     6,
	},
	"experience": {
		category:   "experience",
		issue:      "Experience section lacks depth",
		suggestion: "Describe each role with 3-5 bullets that pair an action verb with a measurable outcome.",
		impact:     9,
	},
	"skills": {
		category:   "skills",
		issue:      "Skills section is thin",
		suggestion: "List concrete technologies rather than broad categories.",
		impact:     7,
	},
	"achievements": {
		category:   "achievements",
		issue:      "Few quantified achievements",
		suggestion: "Add numbers to your wins: percentages, dollar amounts, or user counts.",
		impact:     8,
	},
	"contactInfo": {
		category:   "contact",
		issue:      "Contact details are incomplete",
		suggestion: "Include an email address, phone number, and LinkedIn URL near the top.",
		impact:     5,
	},
}

func fallbackSuggestions(breakdown map[string]int, sections Sections) []Suggestion {
	components := make([]string, 0, len(breakdown))
	for component := range breakdown {
		components = append(components, component)
	}
	sort.Strings(components)

	var out []Suggestion
	for _, component := range components {
		advice, ok := adviceByComponent[component]
		if !ok {
			continue
		}
		if breakdown[component] >= 60 {
			continue
		}
		out = append(out, Suggestion{
			Category:   advice.category,
			Issue:      advice.issue,
			Suggestion: advice.suggestion,
			Impact:     ClampImpact(advice.impact),
		})
	}
	if !sections.HasSummary {
		out = append(out, Suggestion{
			Category:   "structure",
			Issue:      "No professional summary detected",
			Suggestion: "Open with a short summary of your role, specialty, and years of experience.",
			Impact:     6,
		})
	}
	if out == nil {
		out = []Suggestion{}
	}
	return out
}

type profileFamily struct {
	title    string
	keywords []string
}

var profileFamilies = []profileFamily{
	{"Software Engineer", []string{"python", "java", "golang", "go", "api", "git", "microservices"}},
	{"Frontend Developer", []string{"react", "javascript", "typescript", "node"}},
	{"Backend Developer", []string{"sql", "postgres", "redis", "api", "microservices", "golang"}},
	{"DevOps Engineer", []string{"docker", "kubernetes", "terraform", "aws", "ci/cd", "linux"}},
	{"Data Analyst", []string{"sql", "python", "data analysis", "machine learning"}},
}

func matchJobProfiles(text string) []JobProfile {
	lower := strings.ToLower(text)
	var profiles []JobProfile
	for _, family := range profileFamilies {
		var hits []string
		for _, kw := range family.keywords {
			if strings.Contains(lower, kw) {
				hits = append(hits, kw)
			}
		}
		if len(hits) < 2 {
			continue
		}
		profiles = append(profiles, JobProfile{
			Title:      family.title,
			MatchScore: ClampScore(40 + len(hits)*12),
			Reasoning:  fmt.Sprintf("Resume mentions %s.", strings.Join(hits, ", ")),
		})
	}
	sort.SliceStable(profiles, func(i, j int) bool { return profiles[i].MatchScore > profiles[j].MatchScore })
	if len(profiles) > 3 {
		profiles = profiles[:3]
	}
	if profiles == nil {
		profiles = []JobProfile{}
	}
	return profiles
}
