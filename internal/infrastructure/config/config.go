package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

type IngestConfig struct {
	CustomerFile string
	LoanFile     string
}

type Config struct {
	GRPCPort    int
	HTTPPort    int
	LogLevel    string
	LogFormat   string
	DB          DatabaseConfig
	Kafka       KafkaConfig
	JWT         JWTConfig
	Ingest      IngestConfig
	ServiceName string
}

func (c Config) Validate() {
	if c.DB.Password == "" {
		panic("DB_PASSWORD environment variable is required")
	}
	if c.JWT.Secret == "" {
		panic("JWT_SECRET environment variable is required")
	}
}

func Load() Config {
	return Config{
		GRPCPort:  getEnvInt("GRPC_PORT", 9091),
		HTTPPort:  getEnvInt("HTTP_PORT", 8091),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "credit"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "credit_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC", "credit.events"),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			Issuer:     getEnv("JWT_ISSUER", "lumibank"),
			Expiration: time.Duration(getEnvInt("JWT_EXPIRATION_MINUTES", 15)) * time.Minute,
		},
		Ingest: IngestConfig{
			CustomerFile: getEnv("INGEST_CUSTOMER_FILE", "data/customer_data.xlsx"),
			LoanFile:     getEnv("INGEST_LOAN_FILE", "data/loan_data.xlsx"),
		},
		ServiceName: "credit-service",
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
