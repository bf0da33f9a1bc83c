package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GOOGLE_CALENDAR_ID", "")
	t.Setenv("WHATSAPP_VERIFY_TOKEN", "")
	t.Setenv("INSTAGRAM_VERIFY_TOKEN", "")

	cfg := FromEnv()

	if cfg.Port != "3002" {
		t.Errorf("Port = %q, want 3002", cfg.Port)
	}
	if cfg.CalendarID != "primary" {
		t.Errorf("CalendarID = %q, want primary", cfg.CalendarID)
	}
	if cfg.WhatsAppVerifyToken != "novasync_secret" {
		t.Errorf("WhatsAppVerifyToken = %q, want novasync_secret", cfg.WhatsAppVerifyToken)
	}
}

func TestInstagramVerifyTokenFallsBackToWhatsApp(t *testing.T) {
	t.Setenv("WHATSAPP_VERIFY_TOKEN", "shared_token")
	t.Setenv("INSTAGRAM_VERIFY_TOKEN", "")

	cfg := FromEnv()
	if cfg.InstagramVerifyToken != "shared_token" {
		t.Errorf("InstagramVerifyToken = %q, want shared_token", cfg.InstagramVerifyToken)
	}
}

func TestInstagramVerifyTokenOwnValueWins(t *testing.T) {
	t.Setenv("WHATSAPP_VERIFY_TOKEN", "wa_token")
	t.Setenv("INSTAGRAM_VERIFY_TOKEN", "ig_token")

	cfg := FromEnv()
	if cfg.InstagramVerifyToken != "ig_token" {
		t.Errorf("InstagramVerifyToken = %q, want ig_token", cfg.InstagramVerifyToken)
	}
}
