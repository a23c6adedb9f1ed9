package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Log       LogConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	MinIO     MinIOConfig
	Import    ImportConfig
}

type AppConfig struct {
	Port string
	Env  string
	URL  string // base URL dashboard, dipakai untuk QR code rekap
}

type LogConfig struct {
	Level  string
	Format string // text | json
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	MigrationsPath string
}

type JWTConfig struct {
	Secret          string
	ExpireHours     int
	RefreshExpHours int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Window time.Duration
	Max    int64
}

type MinIOConfig struct {
	Endpoint string
	User     string
	Password string
	Bucket   string
	UseSSL   bool
}

type ImportConfig struct {
	DataDir       string
	Tahun         int
	AdminPassword string
}

func Load() *Config {
	// Load .env jika ada (development), di production pakai env variable langsung
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	jwtExpire, _ := strconv.Atoi(getEnv("JWT_EXPIRE_HOURS", "24"))
	jwtRefreshExpire, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRE_HOURS", "168"))
	minioSSL, _ := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
	rateWindowMs, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_MS", "900000"))
	rateMax, _ := strconv.ParseInt(getEnv("RATE_LIMIT_MAX", "100"), 10, 64)
	importTahun, _ := strconv.Atoi(getEnv("IMPORT_TAHUN", "2025"))

	return &Config{
		App: AppConfig{
			Port: getEnv("APP_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
			URL:  getEnv("APP_URL", "http://localhost:3000"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "evkin_user"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "evkin_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "change-this-secret"),
			ExpireHours:     jwtExpire,
			RefreshExpHours: jwtRefreshExpire,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ORIGIN", "http://localhost:3000")),
		},
		RateLimit: RateLimitConfig{
			Window: time.Duration(rateWindowMs) * time.Millisecond,
			Max:    rateMax,
		},
		MinIO: MinIOConfig{
			Endpoint: getEnv("MINIO_ENDPOINT", "localhost:9000"),
			User:     getEnv("MINIO_USER", "minioadmin"),
			Password: getEnv("MINIO_PASSWORD", "minioadmin123"),
			Bucket:   getEnv("MINIO_BUCKET", "evkin-lampiran"),
			UseSSL:   minioSSL,
		},
		Import: ImportConfig{
			DataDir:       getEnv("IMPORT_DATA_DIR", "./data"),
			Tahun:         importTahun,
			AdminPassword: getEnv("ADMIN_PASSWORD", "Admin@123"),
		},
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
