package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	Store             string
	MongoURI          string
	MongoDB           string
	MongoTransactions bool
	DBTimeout         time.Duration

	JWTSecret string
	JWTTTL    time.Duration
	TokenTTL  time.Duration

	UpstreamTimeout time.Duration
	FrontendURL     string

	MailFrom string
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinarySecret    string
	CloudinaryFolder    string
	UploadDir           string
	PublicBaseURL       string
	MaxUploadBytes      int64

	ProfanityWords string
	CORSOrigins    string
	LogLevel       string
	AccessLog      bool
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool, using default", "key", key, "value", v)
		return fallback
	}
	return b
}

func getInt64(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid integer, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env file not found, using system environment variables")
	}

	port := getEnv("PORT", "5000")
	return Config{
		Port: port,

		Store:             strings.ToLower(getEnv("STORE", "mongo")),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:           getEnv("MONGO_DB", "blog"),
		MongoTransactions: getBool("MONGO_TRANSACTIONS", false),
		DBTimeout:         getDuration("DB_TIMEOUT", 5*time.Second),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    getDuration("JWT_TTL", 72*time.Hour),
		TokenTTL:  getDuration("TOKEN_TTL", 30*time.Minute),

		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),

		MailFrom: getEnv("EMAIL", "noreply@localhost"),
		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinarySecret:    os.Getenv("CLOUDINARY_SECRET_KEY"),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "blog"),
		UploadDir:           getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL:       getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
		MaxUploadBytes:      getInt64("MAX_UPLOAD_BYTES", 1<<20),

		ProfanityWords: os.Getenv("PROFANITY_WORDS"),
		CORSOrigins:    getEnv("CORS_ORIGINS", "*"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AccessLog:      getBool("ACCESS_LOG", true),
	}
}

// CloudinaryEnabled reports whether all Cloudinary credentials are set.
func (c Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinarySecret != ""
}

func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
