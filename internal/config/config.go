package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Mail transports.
const (
	MailTransportMailgun = "mailgun"
	MailTransportOutbox  = "outbox"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	Environment string
	LogLevel    string
	LogFormat   string

	MySQLDSN string
	ResetDB  bool

	RedisAddr        string
	RedisDB          int
	RedisPass        string
	QuestionCacheTTL time.Duration

	JWTSecret    string
	JWTExpiresIn time.Duration

	MailTransport  string
	MailFrom       string
	MailgunDomain  string
	MailgunAPIKey  string
	MailgunAPIBase string
	MailOutboxDir  string
	ProductName    string
	ProductLink    string
	EmailMXCheck   bool

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is read first when present; real environment wins.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),

		MySQLDSN: getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/quizhub?charset=utf8mb4&parseTime=True&loc=Local"),
		ResetDB:  getEnvBool("RESET_DB", false),

		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisPass:        os.Getenv("REDIS_PASSWORD"),
		QuestionCacheTTL: getEnvDuration("QUESTION_CACHE_TTL", 5*time.Minute),

		JWTSecret:    getEnv("JWT_SECRET", "change-me"),
		JWTExpiresIn: getEnvDuration("JWT_EXPIRES_IN", time.Hour),

		MailTransport:  os.Getenv("MAIL_TRANSPORT"),
		MailFrom:       getEnv("MAIL_FROM", "Quizhub <no-reply@quizhub.local>"),
		MailgunDomain:  os.Getenv("MAILGUN_DOMAIN"),
		MailgunAPIKey:  os.Getenv("MAILGUN_API_KEY"),
		MailgunAPIBase: os.Getenv("MAILGUN_API_BASE"),
		MailOutboxDir:  getEnv("MAIL_OUTBOX_DIR", "outbox"),
		ProductName:    getEnv("PRODUCT_NAME", "Quizhub"),
		ProductLink:    getEnv("PRODUCT_LINK", "http://localhost:8080/"),
		EmailMXCheck:   getEnvBool("EMAIL_MX_CHECK", false),

		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
	if cfg.MailTransport == "" {
		cfg.MailTransport = cfg.defaultTransport()
	}
	return cfg
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// defaultTransport sends real mail only in production.
func (c *Config) defaultTransport() string {
	if c.IsProduction() {
		return MailTransportMailgun
	}
	return MailTransportOutbox
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
