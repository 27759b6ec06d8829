package infra

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 環境変数名
const (
	Env                = "ENV"
	Port               = "PORT"
	LogLevel           = "LOG_LEVEL"
	DBName             = "DB_NAME"
	DBHost             = "DB_HOST"
	DBUser             = "DB_USER"
	DBPassword         = "DB_PASSWORD"
	DBPort             = "DB_PORT"
	AutoMigrate        = "AUTO_MIGRATE"
	SecretKey          = "SECRET_KEY"
	SessionTTL         = "SESSION_TTL"
	SessionStore       = "SESSION_STORE"
	SessionDBPath      = "SESSION_DB_PATH"
	RedisURL           = "REDIS_URL"
	LoginRatePerMinute = "LOGIN_RATE_PER_MINUTE"
	LoginRateBurst     = "LOGIN_RATE_BURST"
)

const (
	SessionStoreSQLite = "sqlite"
	SessionStoreRedis  = "redis"
)

type Config struct {
	Env      string
	Port     string
	LogLevel string
	Database DatabaseConfig
	Session  SessionConfig
	Redis    RedisConfig
	Login    LoginConfig
}

type DatabaseConfig struct {
	Name        string
	Host        string
	User        string
	Password    string
	Port        string
	AutoMigrate bool
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Store  string
	DBPath string
}

type RedisConfig struct {
	URL string
}

type LoginConfig struct {
	RatePerMinute int
	Burst         int
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

func Initialize() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using environment variables")
	}
}

// LoadConfig reads the configuration from the environment, falling back to defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	ttl, err := time.ParseDuration(v.GetString(SessionTTL))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", SessionTTL, err)
	}

	config := &Config{
		Env:      v.GetString(Env),
		Port:     v.GetString(Port),
		LogLevel: v.GetString(LogLevel),
		Database: DatabaseConfig{
			Name:        v.GetString(DBName),
			Host:        v.GetString(DBHost),
			User:        v.GetString(DBUser),
			Password:    v.GetString(DBPassword),
			Port:        v.GetString(DBPort),
			AutoMigrate: v.GetBool(AutoMigrate),
		},
		Session: SessionConfig{
			Secret: v.GetString(SecretKey),
			TTL:    ttl,
			Store:  strings.ToLower(v.GetString(SessionStore)),
			DBPath: v.GetString(SessionDBPath),
		},
		Redis: RedisConfig{
			URL: v.GetString(RedisURL),
		},
		Login: LoginConfig{
			RatePerMinute: v.GetInt(LoginRatePerMinute),
			Burst:         v.GetInt(LoginRateBurst),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(Env, "dev")
	v.SetDefault(Port, "8080")
	v.SetDefault(LogLevel, "info")
	v.SetDefault(DBPort, "5432")
	v.SetDefault(AutoMigrate, true)
	v.SetDefault(SecretKey, "dev-secret-key")
	v.SetDefault(SessionTTL, "24h")
	v.SetDefault(SessionStore, SessionStoreSQLite)
	v.SetDefault(SessionDBPath, "sessions.db")
	v.SetDefault(RedisURL, "redis://localhost:6379/0")
	v.SetDefault(LoginRatePerMinute, 20)
	v.SetDefault(LoginRateBurst, 10)
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("%s is required", SecretKey)
	}
	if c.IsProd() && c.Session.Secret == "dev-secret-key" {
		return fmt.Errorf("%s must be set in prod", SecretKey)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("%s must be positive", SessionTTL)
	}
	switch c.Session.Store {
	case SessionStoreSQLite, SessionStoreRedis:
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	if c.Login.RatePerMinute <= 0 || c.Login.Burst <= 0 {
		return fmt.Errorf("login rate limit must be positive")
	}
	return nil
}
