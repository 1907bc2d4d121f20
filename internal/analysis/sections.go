package analysis

import "regexp"

// Sections flags which standard resume sections are textually present.
type Sections struct {
	HasSummary        bool `json:"hasSummary"`
	HasExperience     bool `json:"hasExperience"`
	HasEducation      bool `json:"hasEducation"`
	HasSkills         bool `json:"hasSkills"`
	HasAchievements   bool `json:"hasAchievements"`
	HasContactInfo    bool `json:"hasContactInfo"`
	HasCertifications bool `json:"hasCertifications"`
	HasLanguages      bool `json:"hasLanguages"`
	HasProjects       bool `json:"hasProjects"`
	HasVolunteerWork  bool `json:"hasVolunteerWork"`
}

var (
	summaryPattern    = regexp.MustCompile(`(?i)\b(summary|objective|profile|about me)\b`)
	experiencePattern = regexp.MustCompile(`(?i)\b(experience|employment|work history|career|job)\b`)
	educationPattern  = regexp.MustCompile(`(?i)\b(education|academic|university|college|degree|school)\b`)
	skillsPattern     = regexp.MustCompile(`(?i)\b(skills|technologies|technical|competencies|tools|stack)\b`)
	achievementsPat   = regexp.MustCompile(`(?i)\b(achievements?|accomplishments?|awards?|honors?)\b`)
	emailPattern      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern      = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

	// Header-anchored: these sections only count when a heading announces them,
	// so stray words like "certified" in a skills line do not flip the flag.
	certificationsPat = regexp.MustCompile(`(?im)^\s*•?\s*(certifications?|licenses? & certifications?|licenses?)\b[^a-z]*$`)
	languagesPattern  = regexp.MustCompile(`(?im)^\s*•?\s*(languages?|spoken languages?)\b[^a-z]*$`)
	projectsPattern   = regexp.MustCompile(`(?im)^\s*•?\s*(projects?|personal projects?|portfolio|side projects?)\b[^a-z]*$`)
	volunteerPattern  = regexp.MustCompile(`(?i)\b(volunteer|volunteering|community service|nonprofit|charity)\b`)
)

// DetectSections classifies which resume sections are present. Pure and
// deterministic; the result both constrains the AI prompt and gates the
// fallback scorer's per-section components.
func DetectSections(text string) Sections {
	return Sections{
		HasSummary:        summaryPattern.MatchString(text),
		HasExperience:     experiencePattern.MatchString(text),
		HasEducation:      educationPattern.MatchString(text),
		HasSkills:         skillsPattern.MatchString(text),
		HasAchievements:   achievementsPat.MatchString(text),
		HasContactInfo:    emailPattern.MatchString(text) || phonePattern.MatchString(text),
		HasCertifications: certificationsPat.MatchString(text),
		HasLanguages:      languagesPattern.MatchString(text),
		HasProjects:       projectsPattern.MatchString(text),
		HasVolunteerWork:  volunteerPattern.MatchString(text),
	}
}
