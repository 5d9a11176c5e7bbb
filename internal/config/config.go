package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Security SecurityConfig
	Venue    VenueConfig
	Risk     RiskConfig
	Matcher  MatcherConfig
	Engine   EngineConfig
	Logging  LoggingConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port     int
	Host     string
	UseHTTPS bool
	CertFile string
	KeyFile  string
}

// DatabaseConfig - настройки подключения к БД
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// SecurityConfig - настройки безопасности
type SecurityConfig struct {
	// APITokenHash - bcrypt-хеш токена debug-эндпоинтов
	APITokenHash string
}

// VenueConfig - настройки подключения к торговой площадке
type VenueConfig struct {
	BaseURL   string
	StreamURL string
	APIKey    string

	// Rate limit исходящих REST запросов (req/sec, burst)
	RateLimit float64
	Burst     int

	RequestTimeout time.Duration
}

// RiskConfig - настройки риск-ядра
type RiskConfig struct {
	// Таймаут запроса позиций на один аккаунт
	PositionTimeout time.Duration
	// Час UTC дневного сброса baseline'ов
	DailyResetHour int
}

// MatcherConfig - настройки матчера лимитных ордеров
type MatcherConfig struct {
	// Относительный порог debounce (0.0001 = 0.01%)
	DebounceThreshold float64
	FillTimeout       time.Duration
}

// EngineConfig - настройки движка
type EngineConfig struct {
	NumShards               int // 0 = по числу CPU
	ShardBuffer             int
	RiskCheckInterval       time.Duration
	CheckpointCheckInterval time.Duration
	SubscriptionRefresh     time.Duration
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:     getEnvAsInt("SERVER_PORT", 8080),
			Host:     getEnv("SERVER_HOST", "0.0.0.0"),
			UseHTTPS: getEnvAsBool("USE_HTTPS", false),
			CertFile: getEnv("CERT_FILE", ""),
			KeyFile:  getEnv("KEY_FILE", ""),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			Name:     getEnv("DB_NAME", "propcore"),
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Security: SecurityConfig{
			APITokenHash: getEnv("API_TOKEN_HASH", ""),
		},
		Venue: VenueConfig{
			BaseURL:        getEnv("VENUE_BASE_URL", "http://localhost:9010"),
			StreamURL:      getEnv("VENUE_STREAM_URL", "ws://localhost:9010/ws"),
			APIKey:         getEnv("VENUE_API_KEY", ""),
			RateLimit:      getEnvAsFloat("VENUE_RATE_LIMIT", 20),
			Burst:          getEnvAsInt("VENUE_BURST", 40),
			RequestTimeout: getEnvAsDuration("VENUE_REQUEST_TIMEOUT", 10*time.Second),
		},
		Risk: RiskConfig{
			PositionTimeout: getEnvAsDuration("RISK_POSITION_TIMEOUT", 10*time.Second),
			DailyResetHour:  getEnvAsInt("DAILY_RESET_HOUR", 0),
		},
		Matcher: MatcherConfig{
			DebounceThreshold: getEnvAsFloat("MATCHER_DEBOUNCE_THRESHOLD", 0.0001),
			FillTimeout:       getEnvAsDuration("MATCHER_FILL_TIMEOUT", 15*time.Second),
		},
		Engine: EngineConfig{
			NumShards:               getEnvAsInt("ENGINE_NUM_SHARDS", 0),
			ShardBuffer:             getEnvAsInt("ENGINE_SHARD_BUFFER", 2000),
			RiskCheckInterval:       getEnvAsDuration("RISK_CHECK_INTERVAL", 5*time.Second),
			CheckpointCheckInterval: getEnvAsDuration("CHECKPOINT_CHECK_INTERVAL", time.Minute),
			SubscriptionRefresh:     getEnvAsDuration("SUBSCRIPTION_REFRESH", 30*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validateRanges(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateRanges проверяет числовые диапазоны параметров
func (c *Config) validateRanges() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("DB_PORT must be between 1 and 65535, got %d", c.Database.Port)
	}

	if c.Risk.DailyResetHour < 0 || c.Risk.DailyResetHour > 23 {
		return fmt.Errorf("DAILY_RESET_HOUR must be between 0 and 23, got %d", c.Risk.DailyResetHour)
	}

	if c.Risk.PositionTimeout <= 0 {
		return fmt.Errorf("RISK_POSITION_TIMEOUT must be positive, got %v", c.Risk.PositionTimeout)
	}

	if c.Matcher.DebounceThreshold < 0 || c.Matcher.DebounceThreshold >= 1 {
		return fmt.Errorf("MATCHER_DEBOUNCE_THRESHOLD must be in [0, 1), got %v", c.Matcher.DebounceThreshold)
	}

	if c.Matcher.FillTimeout <= 0 {
		return fmt.Errorf("MATCHER_FILL_TIMEOUT must be positive, got %v", c.Matcher.FillTimeout)
	}

	if c.Venue.RateLimit <= 0 {
		return fmt.Errorf("VENUE_RATE_LIMIT must be positive, got %v", c.Venue.RateLimit)
	}

	if c.Engine.NumShards < 0 || c.Engine.NumShards > 32 {
		return fmt.Errorf("ENGINE_NUM_SHARDS must be between 0 and 32, got %d", c.Engine.NumShards)
	}

	if c.Engine.RiskCheckInterval <= 0 {
		return fmt.Errorf("RISK_CHECK_INTERVAL must be positive, got %v", c.Engine.RiskCheckInterval)
	}

	return nil
}

// DSN возвращает строку подключения к базе данных
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// DSNWithoutPassword возвращает строку подключения без пароля (для логирования)
func (d DatabaseConfig) DSNWithoutPassword() string {
	return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Name, d.SSLMode)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
