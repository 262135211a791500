package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DatabaseURL builds a postgres:// URL suitable for migrations.
func (c DatabaseConfig) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// DSN builds a key=value DSN for the GORM postgres driver.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret string
}

// KafkaConfig holds broker addresses and the consumer group prefix.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// RedisConfig holds cache connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MapboxConfig holds the directions provider settings. An empty AccessToken
// is not an error: the directions client then serves straight-line fallback
// geometry without calling the provider.
type MapboxConfig struct {
	BaseURL     string
	AccessToken string
}

// SuggesterConfig holds the AI point-suggestion provider settings.
type SuggesterConfig struct {
	URL    string
	Model  string
	APIKey string
}

// ServiceConfig holds all configuration for the routes service.
type ServiceConfig struct {
	Port      string
	AppEnv    string
	DB        DatabaseConfig
	JWT       JWTConfig
	Kafka     KafkaConfig
	Redis     RedisConfig
	Mapbox    MapboxConfig
	Suggester SuggesterConfig
}

// Load reads configuration from ROUTES_-prefixed environment variables with
// sensible development defaults.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("ROUTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "routes")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "archway-")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("MAPBOX_BASE_URL", "https://api.mapbox.com/directions/v5/mapbox")
	v.SetDefault("MAPBOX_ACCESS_TOKEN", "")

	v.SetDefault("SUGGESTER_URL", "http://localhost:11434/v1/chat/completions")
	v.SetDefault("SUGGESTER_MODEL", "gpt-4o-mini")
	v.SetDefault("SUGGESTER_API_KEY", "")

	jwtSecret := v.GetString("JWT_SECRET")
	if jwtSecret == "" && v.GetString("APP_ENV") != "development" {
		return nil, fmt.Errorf("ROUTES_JWT_SECRET is required outside development")
	}
	if jwtSecret == "" {
		jwtSecret = "dev-only-secret"
	}

	port := v.GetString("SERVICE_PORT")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	return &ServiceConfig{
		Port:   port,
		AppEnv: v.GetString("APP_ENV"),
		DB: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{Secret: jwtSecret},
		Kafka: KafkaConfig{
			Brokers:     strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Mapbox: MapboxConfig{
			BaseURL:     v.GetString("MAPBOX_BASE_URL"),
			AccessToken: v.GetString("MAPBOX_ACCESS_TOKEN"),
		},
		Suggester: SuggesterConfig{
			URL:    v.GetString("SUGGESTER_URL"),
			Model:  v.GetString("SUGGESTER_MODEL"),
			APIKey: v.GetString("SUGGESTER_API_KEY"),
		},
	}, nil
}
