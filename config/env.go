package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv        string
	Port          string
	DatabaseURL   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	MigrationDir  string
	JWTSecret     string
	JWTExpiry     time.Duration
	UploadDir     string
	UploadDriver  string
	MaxUploadSize int64
	RedisURL      string
	RedisAddr     string
	RedisPassword string
	UserCacheTTL  time.Duration
	Cloudinary    CloudinaryConfig
	SMTP          SMTPConfig
	OriginURL     string
}

type CloudinaryConfig struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Enabled reports whether enough credentials are present to build a client.
func (c CloudinaryConfig) Enabled() bool {
	return c.URL != "" || (c.CloudName != "" && c.APIKey != "" && c.APISecret != "")
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.User != "" && c.Pass != ""
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() *Config {
	if os.Getenv("VERCEL") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found, using system environment variables")
		}
	}

	maxUploadSize, _ := strconv.ParseInt(os.Getenv("MAX_UPLOAD_SIZE"), 10, 64)
	if maxUploadSize <= 0 {
		maxUploadSize = 5242880
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		smtpPort = 587
	}

	return &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("APP_PORT", getEnv("PORT", "5000")),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "user_account"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		MigrationDir:  getEnv("MIGRATION_DIR", "database/migration"),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		JWTExpiry:     getDuration("JWT_EXPIRY", 24*time.Hour),
		UploadDir:     getEnv("UPLOAD_DIR", "./public/uploads"),
		UploadDriver:  getEnv("UPLOAD_DRIVER", "disk"),
		MaxUploadSize: maxUploadSize,
		RedisURL:      os.Getenv("REDIS_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		UserCacheTTL:  getDuration("USER_CACHE_TTL", 5*time.Minute),
		Cloudinary: CloudinaryConfig{
			URL:       os.Getenv("CLOUDINARY_URL"),
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			Folder:    getEnv("CLOUDINARY_FOLDER", "profiles"),
		},
		SMTP: SMTPConfig{
			Host: os.Getenv("SMTP_HOST"),
			Port: smtpPort,
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			From: os.Getenv("SMTP_FROM"),
		},
		OriginURL: os.Getenv("ORIGIN_URL"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
