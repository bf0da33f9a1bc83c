package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting. It is built once in
// main and passed by reference to the handlers and clients; nothing
// reads the environment after startup.
type Config struct {
	Port string

	VapiAPIKey        string
	VapiAssistantID   string
	VapiPhoneNumberID string

	GoogleCredentialsFile string
	CalendarID            string
	FollowupSheetID       string

	WhatsAppAccessToken string
	WhatsAppPhoneID     string
	WhatsAppVerifyToken string
	MetaAppSecret       string

	InstagramAccessToken string
	InstagramAccountID   string
	InstagramVerifyToken string

	MetaAccessToken string
	MetaAdAccountID string
}

// Load reads .env (if present), builds the Config and enforces the
// startup requirements. GOOGLE_APPLICATION_CREDENTIALS is the one
// value we refuse to run without.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg := FromEnv()

	if cfg.GoogleCredentialsFile == "" {
		log.Fatal("GOOGLE_APPLICATION_CREDENTIALS not set")
	}

	log.Printf("Using credentials: %s", cfg.GoogleCredentialsFile)
	log.Printf("Calendar ID: %s", cfg.CalendarID)

	return cfg
}

// FromEnv populates a Config from the current process environment
// without any fatal checks.
func FromEnv() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "3002"),

		VapiAPIKey:        getEnv("VAPI_API_KEY", ""),
		VapiAssistantID:   getEnv("VAPI_ASSISTANT_ID", ""),
		VapiPhoneNumberID: getEnv("VAPI_PHONE_NUMBER", ""),

		GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		CalendarID:            getEnv("GOOGLE_CALENDAR_ID", "primary"),
		FollowupSheetID:       getEnv("VITE_FOLLOWUP_SHEET_ID", ""),

		WhatsAppAccessToken: getEnv("VITE_WHATSAPP_ACCESS_TOKEN", ""),
		WhatsAppPhoneID:     getEnv("VITE_WHATSAPP_PHONE_ID", ""),
		WhatsAppVerifyToken: getEnv("WHATSAPP_VERIFY_TOKEN", "novasync_secret"),
		MetaAppSecret:       getEnv("META_APP_SECRET", ""),

		InstagramAccessToken: getEnv("VITE_INSTAGRAM_ACCESS_TOKEN", ""),
		InstagramAccountID:   getEnv("VITE_INSTAGRAM_ACCOUNT_ID", ""),
		InstagramVerifyToken: getEnv("INSTAGRAM_VERIFY_TOKEN", ""),

		MetaAccessToken: getEnv("VITE_META_ACCESS_TOKEN", ""),
		MetaAdAccountID: getEnv("VITE_META_AD_ACCOUNT_ID", ""),
	}

	// Instagram may share the WhatsApp verify token.
	if cfg.InstagramVerifyToken == "" {
		cfg.InstagramVerifyToken = cfg.WhatsAppVerifyToken
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
