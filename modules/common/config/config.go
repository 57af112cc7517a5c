package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 구조체 - 모든 환경변수를 담음
type Config struct {
	// Server
	Port   string
	AppEnv string

	// Gemini API
	GeminiAPIKey      string
	GeminiBackend     string
	GeminiModel       string
	GeminiHDModel     string
	GeminiHDImageSize string
	GoogleProject     string
	GoogleLocation    string

	// Gallery
	GalleryBackend string
	GallerySlot    string
	GalleryCap     int

	// Redis
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Supabase
	SupabaseURL          string
	SupabaseServiceKey   string
	SupabaseGalleryTable string

	// Upload / session limits
	MaxUploadBytes     int64
	SessionIdleTimeout time.Duration
	SessionMaxAge      time.Duration

	// EnvFileLoaded is false when no .env file was found.
	EnvFileLoaded bool
}

const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"

	GalleryRedis    = "redis"
	GallerySupabase = "supabase"
	GalleryMemory   = "memory"
)

// LoadConfig - .env 파일과 환경변수에서 설정 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	envFileLoaded := godotenv.Load() == nil

	cfg := FromEnv()
	cfg.EnvFileLoaded = envFileLoaded
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromEnv reads the process environment without touching .env files.
func FromEnv() *Config {
	return &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "production"),

		GeminiAPIKey:      firstEnv("GEMINI_API_KEY", "API_KEY"),
		GeminiBackend:     strings.ToLower(getEnv("GEMINI_BACKEND", BackendGemini)),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
		GeminiHDModel:     getEnv("GEMINI_HD_MODEL", "gemini-3-pro-image-preview"),
		GeminiHDImageSize: strings.ToUpper(getEnv("GEMINI_HD_IMAGE_SIZE", "2K")),
		GoogleProject:     getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleLocation:    getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),

		GalleryBackend: strings.ToLower(getEnv("GALLERY_BACKEND", GalleryRedis)),
		GallerySlot:    getEnv("GALLERY_SLOT", "stylizedGallery"),
		GalleryCap:     getEnvInt("GALLERY_CAP", 20),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   getEnvBool("REDIS_USE_TLS", false),

		SupabaseURL:          getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:   getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseGalleryTable: getEnv("SUPABASE_GALLERY_TABLE", "graf_gallery_slots"),

		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", 20<<20)),
		SessionIdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour),
		SessionMaxAge:      getEnvDuration("SESSION_MAX_AGE", 24*time.Hour),
	}
}

// validate - 필수 환경변수 검증
func (c *Config) validate() error {
	switch c.GeminiBackend {
	case BackendGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required")
		}
	case BackendVertex:
		if c.GoogleProject == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required for the vertex backend")
		}
	default:
		return fmt.Errorf("unknown GEMINI_BACKEND %q", c.GeminiBackend)
	}

	switch c.GalleryBackend {
	case GalleryRedis:
		if c.RedisHost == "" {
			return fmt.Errorf("REDIS_HOST is required")
		}
	case GallerySupabase:
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required")
		}
		if c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
		}
	case GalleryMemory:
	default:
		return fmt.Errorf("unknown GALLERY_BACKEND %q", c.GalleryBackend)
	}

	if c.GalleryCap <= 0 {
		return fmt.Errorf("GALLERY_CAP must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// getEnv - 환경변수 가져오기 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

func getEnvInt(key string, defaultValue int) int {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
