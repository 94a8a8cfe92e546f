package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Secrets and identifiers stay strings; durations
// and costs are ints matching how they are consumed.
type Config struct {
	Env             string // application environment ("dev", "prod")
	Port            string // HTTP port to listen on
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	JWTSecret       string // secret used to sign session tokens
	TokenTTLDays    int    // fixed session length in days
	BcryptCost      int    // bcrypt cost for password hashing
	CORSOrigin      string // allowed origin for the SPA client
	DeepSeekAPIKey  string // advisory-service credential; placeholder allowed
	DeepSeekBaseURL string // advisory-service endpoint override
}

// Load reads configuration from environment variables. Required variables
// are enforced by must() and missing values stop the process. The advisory
// credential is deliberately optional: without it AI features degrade into
// their fallback paths instead of refusing to start.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"),
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		JWTSecret:       must("JWT_SECRET"),
		TokenTTLDays:    envInt("TOKEN_TTL_DAYS", 7),
		BcryptCost:      envInt("BCRYPT_COST", 10),
		CORSOrigin:      envStr("CORS_ORIGIN", "http://localhost:5173"),
		DeepSeekAPIKey:  os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekBaseURL: os.Getenv("DEEPSEEK_BASE_URL"), // empty -> client default
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

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
