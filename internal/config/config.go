package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// StorageConfig selects the object storage backend used for document files.
type StorageConfig struct {
	// Backend is one of "minio", "supabase" or "s3".
	Backend string
	// Prefix is the logical folder every document is stored under.
	Prefix string
	// MaxNameLength bounds resolved object names; 0 disables truncation.
	MaxNameLength int
}

// MinIOConfig holds object storage settings for MinIO (or any S3-compatible endpoint).
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL overrides the scheme://host used to build public object URLs.
	PublicBaseURL string
}

// SupabaseConfig holds settings for the Supabase Storage REST API.
type SupabaseConfig struct {
	URL    string
	Key    string
	Bucket string
}

// S3Config holds settings for the AWS S3 backend. Credentials come from the default AWS chain.
type S3Config struct {
	Region        string
	Bucket        string
	Endpoint      string
	UsePathStyle  bool
	PublicBaseURL string
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret     string
	TokenTTLMin   int
	SecureCookies bool
}

// MailConfig holds outgoing email settings. An empty SMTPHost disables SMTP delivery.
type MailConfig struct {
	SMTPHost string
	SMTPPort int
	Username string
	Password string
	From     string
}

// RedisConfig holds the optional Redis connection used for in-app notifications.
type RedisConfig struct {
	URL string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Timezone string
	Database DatabaseConfig
	Storage  StorageConfig
	MinIO    MinIOConfig
	Supabase SupabaseConfig
	S3       S3Config
	Auth     AuthConfig
	Mail     MailConfig
	Redis    RedisConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("APP_TIMEZONE", "America/Santiago"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", "supabase"),
			Prefix:        getEnv("STORAGE_PREFIX", "documentos"),
			MaxNameLength: getEnvInt("STORAGE_MAX_NAME_LENGTH", 100),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", ""),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			Bucket:        getEnv("MINIO_BUCKET", "Documentos"),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PublicBaseURL: getEnv("MINIO_PUBLIC_BASE_URL", ""),
		},
		Supabase: SupabaseConfig{
			URL:    getEnv("SUPABASE_URL", ""),
			Key:    getEnv("SUPABASE_KEY", ""),
			Bucket: getEnv("SUPABASE_BUCKET", "Documentos"),
		},
		S3: S3Config{
			Region:        getEnv("AWS_REGION", "us-east-1"),
			Bucket:        getEnv("S3_BUCKET", "Documentos"),
			Endpoint:      getEnv("S3_ENDPOINT", ""),
			UsePathStyle:  getEnvBool("S3_USE_PATH_STYLE", false),
			PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			TokenTTLMin:   getEnvInt("JWT_TTL_MINUTES", 480),
			SecureCookies: getEnvBool("SECURE_COOKIES", false),
		},
		Mail: MailConfig{
			SMTPHost: getEnv("SMTP_HOST", ""),
			SMTPPort: getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("MAIL_FROM", "no-reply@justifacil.local"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
