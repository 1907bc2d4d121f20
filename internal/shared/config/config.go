package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration. It is built once in main and passed
// explicitly to the components that need it.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	// SQLite database file. Empty means in-memory repos (dev/test mode).
	DatabasePath string
	// Directory for uploaded files and derived extracted text.
	LocalStoreDir string

	// AI provider settings. Provider selects the chat-completions base URL
	// unless AIBaseURL overrides it.
	AIProvider       string
	AIAPIKey         string
	AIModel          string
	AIBaseURL        string
	AITimeoutSeconds int

	// Shared secret for admin bulk-read/export routes.
	AdminSecret string

	// Payment gating of repeat free-tier usage.
	PaymentsEnabled   bool
	FreeAnalysisLimit int
	PayPalClientID    string
	PayPalSecret      string
	PayPalBaseURL     string

	// Per-feature enable flags reported by the health route.
	ChatEnabled    bool
	ImproveEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	env := normalizeEnv(getEnv("ENV", "dev"))
	apiKey := firstNonEmpty(os.Getenv("GROQ_API_KEY"), os.Getenv("OPENAI_API_KEY"), os.Getenv("AI_API_KEY"))

	if env == "production" && apiKey == "" {
		log.Printf("no AI API key configured; analysis will rely on fallback scoring")
	}

	return Config{
		Port:              getEnv("PORT", "8080"),
		Env:               env,
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		DatabasePath:      getEnv("DATABASE_PATH", "./data/resumes.db"),
		LocalStoreDir:     getEnv("LOCAL_STORE_DIR", "./data/uploads"),
		AIProvider:        normalizeProvider(getEnv("AI_PROVIDER", "groq")),
		AIAPIKey:          apiKey,
		AIModel:           getEnv("AI_MODEL", "llama-3.3-70b-versatile"),
		AIBaseURL:         getEnv("AI_BASE_URL", ""),
		AITimeoutSeconds:  getEnvInt("AI_TIMEOUT_SECONDS", 45),
		AdminSecret:       getEnv("ADMIN_SECRET", ""),
		PaymentsEnabled:   getEnvBool("PAYMENTS_ENABLED", false),
		FreeAnalysisLimit: getEnvInt("FREE_ANALYSIS_LIMIT", 1),
		PayPalClientID:    getEnv("PAYPAL_CLIENT_ID", ""),
		PayPalSecret:      getEnv("PAYPAL_SECRET", ""),
		PayPalBaseURL:     getEnv("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com"),
		ChatEnabled:       getEnvBool("FEATURE_CHAT", true),
		ImproveEnabled:    getEnvBool("FEATURE_IMPROVE", true),
	}
}

// AIConfigured reports whether an AI provider can be called at all.
func (c Config) AIConfigured() bool {
	return strings.TrimSpace(c.AIAPIKey) != ""
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config env %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config env %s invalid bool: %v", key, err)
		return def
	}
	return val
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "custom":
		return "custom"
	default:
		return "groq"
	}
}
