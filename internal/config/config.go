package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	DatabaseURL    string
	AdminJWTSecret string

	// WhatsApp Cloud API
	WhatsAppAPIBaseURL  string
	WhatsAppPhoneID     string
	WhatsAppAccessToken string
	WhatsAppVerifyToken string
	WhatsAppSendTimeout time.Duration

	// Answering service (AI)
	AIProvider      string
	GeminiAPIKey    string
	GeminiModelID   string
	BedrockModelID  string
	AWSRegion       string
	AnswerMaxTokens int

	// Sales notifications
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SalesInboxEmail   string

	// Webchat
	WebchatEnabled bool
}

// AI provider preferences for the answering service.
const (
	AIProviderAuto    = "auto"
	AIProviderGemini  = "gemini"
	AIProviderBedrock = "bedrock"
)

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		WhatsAppAPIBaseURL:  getEnv("WHATSAPP_API_BASE_URL", "https://graph.facebook.com/v19.0"),
		WhatsAppPhoneID:     getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		WhatsAppAccessToken: getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		WhatsAppVerifyToken: getEnv("WHATSAPP_VERIFY_TOKEN", "xtenda_verify_token"),
		WhatsAppSendTimeout: getEnvAsDuration("WHATSAPP_SEND_TIMEOUT", 10*time.Second),

		AIProvider:      strings.ToLower(strings.TrimSpace(getEnv("AI_PROVIDER", AIProviderAuto))),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:   getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		BedrockModelID:  getEnv("BEDROCK_MODEL_ID", ""),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		AnswerMaxTokens: getEnvAsInt("ANSWER_MAX_TOKENS", 512),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "bot@xtendafinance.co.zm"),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Xtenda Finance Bot"),
		SalesInboxEmail:   getEnv("SALES_INBOX_EMAIL", ""),

		WebchatEnabled: getEnvAsBool("WEBCHAT_ENABLED", true),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
