package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	RuntimeHTTP   = "http"
	RuntimeLambda = "lambda"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string
	AppRuntime string

	JWTSecret     string
	CORSOrigin    string
	InternalToken string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers     []string
	KafkaTopicEvents string
	KafkaTopicEmail  string

	AWSRegion         string
	ReconcileQueueURL string
	IdempotencyTable  string
	IdempotencyTTL    time.Duration

	WarehouseAddress string
	WarehouseContact string
	WarehousePhone   string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),
		AppPort:    getEnv("APP_PORT", "8080"),
		AppEnv:     getEnv("APP_ENV", "development"),
		AppRuntime: getEnv("APP_RUNTIME", RuntimeHTTP),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:3000"),
		InternalToken: os.Getenv("INTERNAL_SECRET_KEY"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		KafkaBrokers:     splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopicEvents: getEnv("KAFKA_TOPIC_EVENTS", "tecnoroute.events"),
		KafkaTopicEmail:  getEnv("KAFKA_TOPIC_EMAIL", "tecnoroute.email"),

		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		ReconcileQueueURL: os.Getenv("RECONCILE_QUEUE_URL"),
		IdempotencyTable:  os.Getenv("IDEMPOTENCY_TABLE"),
		IdempotencyTTL:    getEnvDuration("IDEMPOTENCY_TTL", 48*time.Hour),

		WarehouseAddress: getEnv("WAREHOUSE_ADDRESS", "Calle Principal 123, Bogotá"),
		WarehouseContact: getEnv("WAREHOUSE_CONTACT", "Bodega TecnoRoute"),
		WarehousePhone:   getEnv("WAREHOUSE_PHONE", "3001234567"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	if c.AppRuntime != RuntimeHTTP && c.AppRuntime != RuntimeLambda {
		return errors.New("APP_RUNTIME must be http or lambda")
	}
	if c.AppEnv == "production" && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	return nil
}

func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
