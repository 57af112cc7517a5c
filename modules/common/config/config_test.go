package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg := FromEnv()
	if err := cfg.validate(); err != nil {
		t.Fatalf("validate() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.GeminiModel != "gemini-2.5-flash-image" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.GeminiHDModel != "gemini-3-pro-image-preview" {
		t.Errorf("GeminiHDModel = %q", cfg.GeminiHDModel)
	}
	if cfg.GeminiHDImageSize != "2K" {
		t.Errorf("GeminiHDImageSize = %q", cfg.GeminiHDImageSize)
	}
	if cfg.GalleryCap != 20 {
		t.Errorf("GalleryCap = %d, want 20", cfg.GalleryCap)
	}
	if cfg.GallerySlot != "stylizedGallery" {
		t.Errorf("GallerySlot = %q", cfg.GallerySlot)
	}
	if cfg.SessionIdleTimeout != 2*time.Hour || cfg.SessionMaxAge != 24*time.Hour {
		t.Errorf("session timeouts = %v/%v", cfg.SessionIdleTimeout, cfg.SessionMaxAge)
	}
	if got := cfg.GetRedisAddr(); got != "localhost:6379" {
		t.Errorf("GetRedisAddr() = %q", got)
	}
}

func TestFromEnvAPIKeyAlias(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "  from-alias ")

	if got := FromEnv().GeminiAPIKey; got != "from-alias" {
		t.Fatalf("GeminiAPIKey = %q, want from-alias", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "missing key", env: map[string]string{"GEMINI_API_KEY": "", "API_KEY": ""}, wantErr: true},
		{name: "vertex without project", env: map[string]string{"GEMINI_BACKEND": "vertex", "GOOGLE_CLOUD_PROJECT": ""}, wantErr: true},
		{name: "vertex with project", env: map[string]string{"GEMINI_BACKEND": "vertex", "GOOGLE_CLOUD_PROJECT": "p"}},
		{name: "unknown backend", env: map[string]string{"GEMINI_API_KEY": "k", "GEMINI_BACKEND": "openai"}, wantErr: true},
		{name: "supabase without url", env: map[string]string{"GEMINI_API_KEY": "k", "GALLERY_BACKEND": "supabase"}, wantErr: true},
		{name: "supabase complete", env: map[string]string{"GEMINI_API_KEY": "k", "GALLERY_BACKEND": "supabase", "SUPABASE_URL": "https://x.supabase.co", "SUPABASE_SERVICE_KEY": "s"}},
		{name: "memory gallery", env: map[string]string{"GEMINI_API_KEY": "k", "GALLERY_BACKEND": "MEMORY"}},
		{name: "bad cap", env: map[string]string{"GEMINI_API_KEY": "k", "GALLERY_CAP": "0"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"API_KEY", "GEMINI_BACKEND", "GALLERY_BACKEND", "SUPABASE_URL", "SUPABASE_SERVICE_KEY", "GALLERY_CAP"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			err := FromEnv().validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInvalidNumbersFallBackToDefaults(t *testing.T) {
	t.Setenv("GALLERY_CAP", "many")
	t.Setenv("SESSION_IDLE_TIMEOUT", "-5m")
	t.Setenv("REDIS_USE_TLS", "maybe")

	cfg := FromEnv()
	if cfg.GalleryCap != 20 {
		t.Errorf("GalleryCap = %d, want 20", cfg.GalleryCap)
	}
	if cfg.SessionIdleTimeout != 2*time.Hour {
		t.Errorf("SessionIdleTimeout = %v, want 2h", cfg.SessionIdleTimeout)
	}
	if cfg.RedisUseTLS {
		t.Error("RedisUseTLS = true, want false")
	}
}
