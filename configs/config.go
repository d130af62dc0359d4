// config.go - Configuration loaded from environment variables

package configs

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	// Provider credentials
	OPENROUTER_API_KEY string
	GEMINI_API_KEY     string

	// Ensemble configuration
	OPENROUTER_BASE_URL string
	MODELS              []string // ordered, index 0 = highest tie-break priority
	FAST_MODE           bool
	CANDIDATE_COUNT     int // top-k guesses requested per provider (1 = single guess)

	// Identification headers sent to OpenRouter (app attribution)
	APP_REFERER string
	APP_TITLE   string

	// Server Configuration
	PORT            string
	UPLOAD_DIR      string
	ALLOWED_ORIGINS string
)

// DefaultModels is the provider ensemble used when MODELS is not configured.
// Order matters: earlier models win voting ties.
var DefaultModels = []string{
	"google/gemini-2.0-flash-001",
	"qwen/qwen2.5-vl-72b-instruct",
	"openai/gpt-4o-mini",
}

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	// Load .env file if exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	OPENROUTER_API_KEY = getEnv("OPENROUTER_API_KEY", "")
	GEMINI_API_KEY = getEnv("GEMINI_API_KEY", "")
	if OPENROUTER_API_KEY == "" && GEMINI_API_KEY == "" {
		log.Fatal("OPENROUTER_API_KEY (or GEMINI_API_KEY) environment variable is required")
	}

	OPENROUTER_BASE_URL = getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1")
	MODELS = getEnvList("MODELS", DefaultModels)
	FAST_MODE = getEnvBool("FAST_MODE", true)
	CANDIDATE_COUNT = getEnvInt("CANDIDATE_COUNT", 3)
	if CANDIDATE_COUNT < 1 {
		CANDIDATE_COUNT = 1
	}

	APP_REFERER = getEnv("APP_REFERER", "https://github.com/bosocmputer/captcha_ocr_ensemble")
	APP_TITLE = getEnv("APP_TITLE", "captcha-ocr-ensemble")

	PORT = getEnv("PORT", "8080")
	UPLOAD_DIR = getEnv("UPLOAD_DIR", "uploads")
	ALLOWED_ORIGINS = getEnv("ALLOWED_ORIGINS", "*")

	log.Printf("✓ Configuration loaded successfully (%d models, fast_mode=%v)", len(MODELS), FAST_MODE)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvList parses a comma-separated list, trimming blanks
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}
