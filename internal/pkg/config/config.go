package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string        `env:"PORT,           default=8080"`
	Env         string        `env:"ENV,            default=development"`
	LogLevel    string        `env:"LOG_LEVEL,      default=info"`
	JWTSecret   string        `env:"JWT_SECRET"`
	JWTExpires  time.Duration `env:"JWT_EXPIRES_IN, default=24h"`
	PortalURL   string        `env:"PORTAL_URL,     default=http://localhost:5173"`
	CORSOrigins []string      `env:"CORS_ORIGINS,   default=*"`
	Timezone    string        `env:"CLINIC_TIMEZONE, default=Europe/Madrid"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Email     EmailConfig
	RabbitMQ  RabbitMQConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=clinic"`
}

type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR,       default=localhost:6379"`
	DB             int           `env:"REDIS_DB,         default=0"`
	BookingLockTTL time.Duration `env:"BOOKING_LOCK_TTL, default=10s"`
}

type EmailConfig struct {
	Enabled        bool     `env:"EMAIL_ENABLED,           default=false"`
	From           string   `env:"EMAIL_FROM,              default=Clinic <no-reply@clinic.local>"`
	DevWhitelist   []string `env:"EMAIL_DEV_WHITELIST"`
	MaxTotalSizeMB int      `env:"EMAIL_MAX_TOTAL_SIZE_MB, default=10"`
	RatePerSecond  float64  `env:"EMAIL_RATE_PER_SECOND,   default=2"`
	ResendAPIKey   string   `env:"RESEND_API_KEY"`
	Workers        int      `env:"MAIL_WORKERS,            default=4"`
}

type RabbitMQConfig struct {
	URL        string `env:"RABBITMQ_URL"`
	EmailQueue string `env:"RABBITMQ_EMAIL_QUEUE, default=clinic.emails"`
}

type StorageConfig struct {
	Endpoint  string        `env:"MINIO_ENDPOINT"`
	AccessKey string        `env:"MINIO_ACCESS_KEY"`
	SecretKey string        `env:"MINIO_SECRET_KEY"`
	Bucket    string        `env:"MINIO_BUCKET,   default=clinic-uploads"`
	Region    string        `env:"MINIO_REGION,   default=us-east-1"`
	UseSSL    bool          `env:"MINIO_USE_SSL,  default=false"`
	URLTTL    time.Duration `env:"UPLOAD_URL_TTL, default=15m"`
}

// RateLimitConfig holds per-IP request budgets per minute.
type RateLimitConfig struct {
	Login  int `env:"LOGIN_RATE_LIMIT, default=10"`
	Email  int `env:"EMAIL_RATE_LIMIT, default=20"`
	Signup int `env:"NEWSLETTER_RATE_LIMIT, default=5"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// MaxEmailBytes converts the configured size cap to bytes.
func (c *Config) MaxEmailBytes() int {
	return c.Email.MaxTotalSizeMB << 20
}

// Validate checks the settings the HTTP server cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.JWTExpires <= 0 {
		return errors.New("config: JWT_EXPIRES_IN must be positive")
	}
	return nil
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return FromLookuper(ctx, envconfig.OsLookuper())
}

// FromLookuper processes configuration from an arbitrary source.
func FromLookuper(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: process environment: %w", err)
	}
	return &cfg, nil
}
