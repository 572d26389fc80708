// config/config.go
package config

import (
	"log"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds every setting the backend reads from the environment
type Config struct {
	Env           string        `env:"ENV" env-default:"development"`
	Port          string        `env:"PORT" env-default:"8080"`
	PublicBaseURL string        `env:"PUBLIC_BASE_URL" env-default:"http://localhost:8080"`
	LogLevel      string        `env:"LOG_LEVEL" env-default:"info"`
	CORSOrigins   string        `env:"CORS_ALLOWED_ORIGINS"`
	JWTSecret     string        `env:"JWT_SECRET" env-required:"true"`
	JWTTTL        time.Duration `env:"JWT_TTL" env-default:"168h"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	SMTP     SMTPConfig
	Schedule ScheduleConfig
}

type MongoConfig struct {
	URI    string `env:"MONGO_URI"`
	DBName string `env:"DB_NAME" env-default:"dispensary"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type KafkaConfig struct {
	Brokers string `env:"KAFKA_BROKERS"`
	Topic   string `env:"KAFKA_TOPIC" env-default:"commission-events"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" env-default:"2525"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM" env-default:"no-reply@dispensary.local"`
}

type ScheduleConfig struct {
	// standard five-field cron expression, evaluated in UTC
	CommissionCron string `env:"COMMISSION_CRON" env-default:"0 2 1 * *"`
	Enabled        bool   `env:"SCHEDULER_ENABLED" env-default:"true"`
}

// IsDevelopment reports whether the service runs with development defaults
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

// KafkaBrokers splits the comma separated broker list, dropping blanks
func (c *Config) KafkaBrokers() []string {
	return splitList(c.Kafka.Brokers)
}

// AllowedOrigins returns the extra CORS origins configured for the deployment
func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSOrigins)
}

// Load reads .env (when present) and then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}

	if cfg.Mongo.URI == "" && cfg.IsDevelopment() {
		cfg.Mongo.URI = "mongodb://localhost:27017"
	}

	return &cfg, nil
}

// MustLoad is Load for main: any configuration error is fatal
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to read configuration: %v", err)
	}
	if cfg.Mongo.URI == "" {
		log.Fatal("MONGO_URI environment variable is required for production")
	}
	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
