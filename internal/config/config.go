// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing

	AdminEmail    string // bootstrap organizer account
	AdminPassword string
	PublicBaseURL string // e.g. https://rifas.example.com, used for QR links
	PDFFontPath   string // TTF used by the PDF export
	RabbitMQURL   string // empty disables the draw audit trail
	DrawAuditLog  string // file the audit consumer appends to

	GenerateTimeout time.Duration // deadline for one ticket generation request
}

// Load reads a .env file when present, then the environment. Missing
// required variables stop the process with a fatal log message.
func Load() Config {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:   mustInt("BCRYPT_COST"),

		AdminEmail:    envStr("ADMIN_EMAIL", "admin@admin.com"),
		AdminPassword: envStr("ADMIN_PASSWORD", "admin123"),
		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
		PDFFontPath:   envStr("PDF_FONT_PATH", "assets/fonts/DejaVuSans.ttf"),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		DrawAuditLog:  envStr("DRAW_AUDIT_LOG", "draw_audit.log"),

		GenerateTimeout: envDur("GENERATE_TIMEOUT", 60*time.Second),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
