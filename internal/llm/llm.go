// Package llm abstracts the AI provider behind a small interface with a typed
// error hierarchy, so callers branch on error type rather than message text.
package llm

import (
	"context"

	"resume-ats-backend/internal/analysis"
)

// Client abstracts an LLM provider for resume analysis.
type Client interface {
	// Analyze scores the resume and returns the full structured result.
	Analyze(ctx context.Context, resumeText string, sections analysis.Sections) (analysis.Result, error)
	// KeyPoints extracts 5-8 standout achievement bullets.
	KeyPoints(ctx context.Context, resumeText string) ([]string, error)
	// ImproveLines rewrites weak resume lines, keyed by the original line.
	ImproveLines(ctx context.Context, resumeText string) (map[string]string, error)
	// ImproveText rewrites a single line or block for a category.
	ImproveText(ctx context.Context, text, category, userInput string) (Improvement, error)
	// Chat answers a conversational message, optionally grounded in a prior analysis.
	Chat(ctx context.Context, history []ChatMessage, message string, contextNote string) (string, error)
}

// ChatMessage is one turn of a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Improvement is the result of a single-text rewrite.
type Improvement struct {
	ImprovedText string `json:"improvedText"`
	Explanation  string `json:"explanation"`
	NewScore     int    `json:"newScore"`
}
