package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Database
	DatabaseURL string
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Redis (alert cooldown)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// MQTT device transport, disabled when broker is empty
	MQTTBroker   string
	MQTTClientID string
	MQTTUsername string
	MQTTPassword string
	MQTTTopic    string

	// Push notifications
	FirebaseCredentials string
	NotifierTimeout     time.Duration
	NotifierConcurrency int
	AlertCooldown       time.Duration

	// Reading event stream, disabled when project or topic is empty
	GoogleProjectID     string
	GoogleCredentials   string
	PubSubReadingsTopic string

	// Alert email via Brevo
	BrevoAPIKey       string
	AlertEmailEnabled bool
	AlertEmailSender  string

	LogLevel  string
	LogFormat string

	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "8080"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:  getDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		JWTRefreshExpiry: getDuration("JWT_REFRESH_EXPIRY", 168*time.Hour), // 7 days

		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getInt("DB_PORT", 5432),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBName:      getEnv("DB_NAME", "alertfi"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		MQTTBroker:   getEnv("MQTT_BROKER", ""),
		MQTTClientID: getEnv("MQTT_CLIENT_ID", "alertfi-backend"),
		MQTTUsername: getEnv("MQTT_USERNAME", ""),
		MQTTPassword: getEnv("MQTT_PASSWORD", ""),
		MQTTTopic:    getEnv("MQTT_TOPIC", "alertfi/detectors/+/readings"),

		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		NotifierTimeout:     getDuration("NOTIFIER_TIMEOUT", 10*time.Second),
		NotifierConcurrency: getInt("NOTIFIER_CONCURRENCY", 4),
		AlertCooldown:       getDuration("ALERT_COOLDOWN", 0),

		GoogleProjectID:     getEnv("GOOGLE_PROJECT_ID", ""),
		GoogleCredentials:   getEnv("GOOGLE_CREDENTIALS", ""),
		PubSubReadingsTopic: getEnv("PUBSUB_READINGS_TOPIC", ""),

		BrevoAPIKey:       getEnv("BREVO_API_KEY", ""),
		AlertEmailEnabled: getBool("ALERT_EMAIL_ENABLED", false),
		AlertEmailSender:  getEnv("ALERT_EMAIL_SENDER", "no-reply@alertfi.com"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}
}

// PostgresDSN returns DATABASE_URL when set, otherwise builds a key/value DSN.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
