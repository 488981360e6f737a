// File: /config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is the development signing key. Production refuses it.
const DefaultJWTSecret = "your-secret-key"

var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set to a non-default value in production")

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"`
	URL         string `mapstructure:"url"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxIdle     int    `mapstructure:"max_idle"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
	Seed        bool   `mapstructure:"seed"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// Email Configuration
type SMTPConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RabbitMQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type ZoomConfig struct {
	AccountID    string `mapstructure:"account_id"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	APIURL       string `mapstructure:"api_url"`
	OAuthURL     string `mapstructure:"oauth_url"`
}

type QuizConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Model    string        `mapstructure:"model"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RabbitMQ  RabbitMQConfig  `mapstructure:"rabbitmq"`
	Zoom      ZoomConfig      `mapstructure:"zoom"`
	Quiz      QuizConfig      `mapstructure:"quiz"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// setting describes one configuration key: its environment variable and default.
type setting struct {
	key   string
	env   string
	value interface{}
}

var settings = []setting{
	{"app.name", "APP_NAME", "QuestBridge"},
	{"app.env", "APP_ENV", "development"},
	{"app.port", "PORT", "8080"},

	{"database.driver", "DB_DRIVER", "mysql"},
	{"database.url", "DATABASE_URL", "user:password@tcp(localhost:3306)/questbridge?charset=utf8mb4&parseTime=True&loc=Local"},
	{"database.max_open", "DB_MAX_OPEN", 25},
	{"database.max_idle", "DB_MAX_IDLE", 5},
	{"database.auto_migrate", "DB_AUTO_MIGRATE", true},
	{"database.seed", "DB_SEED", false},

	{"jwt.secret", "JWT_SECRET", DefaultJWTSecret},
	{"jwt.ttl", "JWT_TTL", "168h"},

	{"smtp.host", "SMTP_HOST", ""},
	{"smtp.port", "SMTP_PORT", 587},
	{"smtp.username", "SMTP_USERNAME", ""},
	{"smtp.password", "SMTP_PASSWORD", ""},
	{"smtp.from_email", "FROM_EMAIL", "noreply@questbridge.app"},
	{"smtp.from_name", "FROM_NAME", "QuestBridge"},

	{"redis.addr", "REDIS_ADDR", ""},
	{"redis.password", "REDIS_PASSWORD", ""},
	{"redis.db", "REDIS_DB", 0},

	{"rabbitmq.url", "RABBITMQ_URL", ""},
	{"rabbitmq.exchange", "RABBITMQ_EXCHANGE", "questbridge.events"},

	{"zoom.account_id", "ZOOM_ACCOUNT_ID", ""},
	{"zoom.client_id", "ZOOM_CLIENT_ID", ""},
	{"zoom.client_secret", "ZOOM_CLIENT_SECRET", ""},
	{"zoom.api_url", "ZOOM_API_URL", "https://api.zoom.us/v2"},
	{"zoom.oauth_url", "ZOOM_OAUTH_URL", "https://zoom.us/oauth/token"},

	{"quiz.api_key", "QUIZ_API_KEY", ""},
	{"quiz.base_url", "QUIZ_BASE_URL", "https://api.groq.com/openai/v1"},
	{"quiz.model", "QUIZ_MODEL", "llama-3.1-8b-instant"},
	{"quiz.cache_ttl", "QUIZ_CACHE_TTL", "1h"},

	{"log.level", "LOG_LEVEL", "info"},

	{"cors.allow_origins", "CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173"},

	{"rate_limit.requests_per_minute", "RATE_LIMIT_RPM", 30},
	{"rate_limit.burst", "RATE_LIMIT_BURST", 10},
}

// Load reads configuration from the environment, after loading a .env file
// when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for _, s := range settings {
		v.SetDefault(s.key, s.value)
		if err := v.BindEnv(s.key, s.env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", s.env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.IsProduction() && (cfg.JWT.Secret == "" || cfg.JWT.Secret == DefaultJWTSecret) {
		return nil, ErrInsecureJWTSecret
	}

	cfg.CORS.AllowOrigins = splitList(cfg.CORS.AllowOrigins)
	if cfg.RateLimit.RequestsPerMinute <= 0 {
		cfg.RateLimit.RequestsPerMinute = 30
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = 10
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// SMTPConfigured reports whether real delivery is possible; otherwise
// outgoing mail is simulated.
func (c *Config) SMTPConfigured() bool {
	return c.SMTP.Host != "" && c.SMTP.Username != "" && !strings.Contains(c.SMTP.Username, "your-email")
}

// splitList normalises comma separated values that arrive as a single element.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
