package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	// FrontendURL is the base URL used to build deep links embedded in
	// outgoing emails (verify-email / reset-password pages).
	FrontendURL string

	CacheBackend   string // "memory" | "redis" | "dynamo"
	CacheKeyPrefix string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion     string
	OTPSMSEnabled bool // also deliver login codes via SMS when the user has a confirmed phone

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
	ResetGrantTTL     time.Duration

	Verification FlowConfig
	OTP          FlowConfig
	MagicLink    FlowConfig

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users     string
	AuthCache string // KV table backing secrets and rate-limit counters
}

// FlowConfig holds per-purpose secret and rate-limit settings.
type FlowConfig struct {
	TokenLength int           // opaque secret length (verification, magic link)
	CodeDigits  int           // numeric code width (OTP)
	TTL         time.Duration // secret lifetime
	MaxAttempts int           // failed validations before the code is exhausted (OTP only)
	MaxRequests int           // issue requests allowed per decay window
	Decay       time.Duration // fixed rate-limit window
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3001"),

		CacheBackend:   getEnv("CACHE_BACKEND", "memory"),
		CacheKeyPrefix: getEnv("CACHE_KEY_PREFIX", "eventio:auth:"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:     getEnv("DYNAMO_TABLE_USERS", "users"),
			AuthCache: getEnv("DYNAMO_TABLE_AUTH_CACHE", "auth_cache"),
		},

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@eventio.app"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion:     getEnv("SNS_REGION", "us-east-1"),
		OTPSMSEnabled: getEnvBool("OTP_SMS_ENABLED", false),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_MINUTES", 60*24*7)) * time.Minute,
		ResetGrantTTL:     time.Duration(getEnvInt("RESET_GRANT_TTL_MINUTES", 15)) * time.Minute,

		Verification: FlowConfig{
			TokenLength: getEnvInt("VERIFICATION_TOKEN_LENGTH", 64),
			TTL:         time.Duration(getEnvInt("VERIFICATION_TTL_SECONDS", 86400)) * time.Second,
			MaxRequests: getEnvInt("VERIFICATION_MAX_REQUESTS", 5),
			Decay:       time.Duration(getEnvInt("VERIFICATION_DECAY_MINUTES", 60)) * time.Minute,
		},
		OTP: FlowConfig{
			CodeDigits:  getEnvInt("OTP_CODE_DIGITS", 6),
			TTL:         time.Duration(getEnvInt("OTP_TTL_SECONDS", 600)) * time.Second,
			MaxAttempts: getEnvInt("OTP_MAX_ATTEMPTS", 5),
			MaxRequests: getEnvInt("OTP_MAX_REQUESTS", 3),
			Decay:       time.Duration(getEnvInt("OTP_DECAY_MINUTES", 5)) * time.Minute,
		},
		MagicLink: FlowConfig{
			TokenLength: getEnvInt("MAGIC_LINK_TOKEN_LENGTH", 64),
			TTL:         time.Duration(getEnvInt("MAGIC_LINK_TTL_SECONDS", 3600)) * time.Second,
			MaxRequests: getEnvInt("MAGIC_LINK_MAX_REQUESTS", 3),
			Decay:       time.Duration(getEnvInt("MAGIC_LINK_DECAY_MINUTES", 15)) * time.Minute,
		},

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
