package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const devJWTSecret = "cpaas-portal-dev-secret"

type Config struct {
	Port           string
	Env            string
	LogLevel       string
	DBDriver       string
	DBPath         string
	DatabaseURL    string
	JWTSecret      string
	EncryptionKey  string
	UploadDir      string
	PublicURL      string
	InviteURL      string
	AllowedOrigins []string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	SeedCompanyName string
	SeedAdminEmail  string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	port, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, errors.New("SMTP_PORT must be a number")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBDriver:       getEnv("DB_DRIVER", "sqlite"),
		DBPath:         getEnv("DB_PATH", "./portal.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		EncryptionKey:  getEnv("ENCRYPTION_KEY", ""),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		PublicURL:      strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:8080"), "/"),
		InviteURL:      getEnv("INVITE_URL", "http://localhost:3000/accept-invite"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     port,
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@cpaasportal.com"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/auth/google-auth/callback"),

		SeedCompanyName: getEnv("SEED_COMPANY_NAME", "CPaaS Portal"),
		SeedAdminEmail:  getEnv("SEED_ADMIN_EMAIL", "admin@cpaasportal.com"),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		log.Println("Warning: JWT_SECRET not set, using development secret")
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.EncryptionKey == "" {
		cfg.EncryptionKey = cfg.JWTSecret
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UsePostgres reports whether the server should talk to postgres instead of the sqlite file.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != "" || c.DBDriver == "postgres"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
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
