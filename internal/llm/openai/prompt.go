package openai

import (
	"fmt"
	"strings"

	"resume-ats-backend/internal/analysis"
	"resume-ats-backend/internal/llm"
)

const analysisSystemPrompt = `You are an ATS (Applicant Tracking System) resume analyzer. You evaluate how well a resume will survive automated keyword and structure matching. Be specific and honest; do not inflate scores. Respond ONLY with a single JSON object, no markdown fences, no commentary.`

const analysisResponseShape = `{
  "score": 0-100 integer,
  "breakdown": {
    "keywords": 0-100, "formatting": 0-100, "experience": 0-100, "skills": 0-100,
    "achievements": 0-100, "contactInfo": 0-100, "certifications": 0-100,
    "languages": 0-100, "projects": 0-100, "volunteerWork": 0-100
  },
  "suggestions": [
    {"category": "string", "issue": "string", "suggestion": "string", "impact": 1-10}
  ],
  "jobProfiles": [
    {"title": "string", "matchScore": 0-100, "reasoning": "string"}
  ]
}`

func buildAnalysisMessages(resumeText string, sections analysis.Sections) []chatMessage {
	var user strings.Builder
	user.WriteString("Sections detected in this resume (do not score absent sections above 0):\n")
	user.WriteString(sectionsTable(sections))
	user.WriteString("\nReturn strictly this JSON shape:\n")
	user.WriteString(analysisResponseShape)
	user.WriteString("\n\nResume:\n")
	user.WriteString(resumeText)

	return []chatMessage{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: user.String()},
	}
}

func sectionsTable(s analysis.Sections) string {
	rows := []struct {
		name    string
		present bool
	}{
		{"summary", s.HasSummary},
		{"experience", s.HasExperience},
		{"education", s.HasEducation},
		{"skills", s.HasSkills},
		{"achievements", s.HasAchievements},
		{"contactInfo", s.HasContactInfo},
		{"certifications", s.HasCertifications},
		{"languages", s.HasLanguages},
		{"projects", s.HasProjects},
		{"volunteerWork", s.HasVolunteerWork},
	}
	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "- %s: %t\n", row.name, row.present)
	}
	return b.String()
}

func buildKeyPointsMessages(resumeText string) []chatMessage {
	user := `Extract the 5-8 strongest achievement bullets from this resume. Prefer lines with measurable impact. Respond ONLY with JSON: {"keyPoints": ["string", ...]}

Resume:
` + resumeText
	return []chatMessage{
		{Role: "system", Content: "You are a resume reviewer who surfaces a candidate's strongest accomplishments. Respond only with JSON."},
		{Role: "user", Content: user},
	}
}

func buildImproveLinesMessages(resumeText string) []chatMessage {
	user := `Identify up to 6 weak lines in this resume and rewrite each to be stronger for ATS matching. Respond ONLY with JSON mapping the original line to the rewrite: {"improvedLines": {"original line": "rewritten line", ...}}

Resume:
` + resumeText
	return []chatMessage{
		{Role: "system", Content: "You rewrite resume lines to be concise, action-led, and quantified. Respond only with JSON."},
		{Role: "user", Content: user},
	}
}

func buildImproveTextMessages(text, category, userInput string) []chatMessage {
	var user strings.Builder
	fmt.Fprintf(&user, "Rewrite the following resume %s content to score higher with ATS systems.", category)
	if strings.TrimSpace(userInput) != "" {
		fmt.Fprintf(&user, " The candidate adds: %s.", userInput)
	}
	user.WriteString(`
Respond ONLY with JSON: {"improvedText": "string", "explanation": "string", "newScore": 0-100}

Content:
`)
	user.WriteString(text)

	return []chatMessage{
		{Role: "system", Content: "You improve resume content. Respond only with JSON."},
		{Role: "user", Content: user.String()},
	}
}

func buildChatMessages(history []llm.ChatMessage, message string, contextNote string) []chatMessage {
	system := "You are a friendly resume coach embedded in an ATS analysis tool. Keep answers short and practical."
	if strings.TrimSpace(contextNote) != "" {
		system += "\n\nThe user's latest resume analysis:\n" + contextNote
	}

	messages := []chatMessage{{Role: "system", Content: system}}
	for _, turn := range history {
		role := turn.Role
		if role != "user" && role != "assistant" {
			role = "user"
		}
		messages = append(messages, chatMessage{Role: role, Content: turn.Content})
	}
	return append(messages, chatMessage{Role: "user", Content: message})
}
