package service

import "time"

const (
	// NoInsightText replaces an empty provider response.
	NoInsightText = "No insight available."
	// FallbackInsightText replaces any provider failure.
	FallbackInsightText = "The numbers are shy today. Mathematical synergy is present, but AI insight is currently offline."

	// ValidationMessage is shown to the user when any field fails to parse.
	ValidationMessage = "Please ensure all inputs are valid numbers."

	DefaultGeminiModel   = "gemini-3-flash-preview"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultMaxTokens     = 300

	maxProviderResponseBytes = 1 << 20

	sessionCleanupInterval = 10 * time.Minute
)
