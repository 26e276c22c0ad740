package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	FileSearch FileSearchConfig
	Admin      AdminConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	WebDir             string
	UploadDir          string
	StateFilePath      string
	EnvFilePath        string
}

type FileSearchConfig struct {
	APIKey           string
	BaseURL          string
	Model            string
	StoreDisplayName string
	MaxFileSize      int64
	PollInterval     time.Duration
	PollTimeout      time.Duration
	ChatTimeout      time.Duration
	ProgressInterval time.Duration
}

type AdminConfig struct {
	AuthEnabled bool
	Password    string
	JWTSecret   string
	TokenTTL    time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5001"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			WebDir:             getEnv("WEB_DIR", "./web"),
			UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
			StateFilePath:      getEnv("STATE_FILE_PATH", "store_state.json"),
			EnvFilePath:        getEnv("ENV_FILE_PATH", ".env"),
		},
		FileSearch: FileSearchConfig{
			APIKey:           getEnv("GEMINI_API_KEY", ""),
			BaseURL:          getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Model:            getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			StoreDisplayName: getEnv("STORE_DISPLAY_NAME", "RAG-App-Store"),
			MaxFileSize:      getEnvAsInt64("MAX_FILE_SIZE_BYTES", 100*1024*1024),
			PollInterval:     getEnvAsSeconds("IMPORT_POLL_INTERVAL_SECONDS", 3),
			PollTimeout:      getEnvAsSeconds("IMPORT_POLL_TIMEOUT_SECONDS", 120),
			ChatTimeout:      getEnvAsSeconds("CHAT_TIMEOUT_SECONDS", 120),
			ProgressInterval: getEnvAsSeconds("IMPORT_PROGRESS_INTERVAL_SECONDS", 15),
		},
		Admin: AdminConfig{
			AuthEnabled: getEnvAsBool("ADMIN_AUTH_ENABLED", true),
			Password:    getEnv("ADMIN_PASSWORD", ""),
			JWTSecret:   getEnv("JWT_SECRET", ""),
			TokenTTL:    getEnvAsSeconds("ADMIN_TOKEN_TTL_SECONDS", 3600),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseInt(strValue, 10, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsSeconds(key string, fallback int) time.Duration {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(value) * time.Second
	}
	return time.Duration(fallback) * time.Second
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
