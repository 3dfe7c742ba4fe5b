// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable. The types reflect how the values are used in the
// application: strings for identifiers and secrets, ints for durations.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to verify staff access tokens
	AMQPURL   string // RabbitMQ URL for change-event publishing (optional)

	// Tenants maps an incoming Host header to a restaurant ID. Requests may
	// also carry the tenant directly in the X-Restaurant-ID header, which
	// takes precedence over the host mapping.
	Tenants map[string]uint64
}

// Load reads configuration values from environment variables and returns a
// Config. A .env file is honoured when present. Required variables are
// enforced by must() and missing values cause the program to exit with a
// fatal log message.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:       must("APP_ENV"),
		Port:      must("APP_PORT"),
		DBUser:    must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"),
		DBHost:    must("DB_HOST"),
		DBPort:    must("DB_PORT"),
		DBName:    must("DB_NAME"),
		JWTSecret: must("JWT_SECRET"),
		AMQPURL:   os.Getenv("RABBITMQ_URL"),
		Tenants:   loadTenants(),
	}
}

// loadTenants builds the host -> restaurant ID map from numbered environment
// variable pairs (RESTAURANT_1_DOMAIN / RESTAURANT_1_ID, RESTAURANT_2_...).
// Enumeration stops at the first missing pair. An empty map is valid; in that
// case every request must supply X-Restaurant-ID explicitly.
func loadTenants() map[string]uint64 {
	tenants := make(map[string]uint64)
	for i := 1; ; i++ {
		prefix := "RESTAURANT_" + strconv.Itoa(i)
		domain := os.Getenv(prefix + "_DOMAIN")
		rawID := os.Getenv(prefix + "_ID")
		if domain == "" || rawID == "" {
			break
		}
		id, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil {
			log.Fatalf("invalid restaurant id for %s_ID: %q", prefix, rawID)
		}
		tenants[strings.ToLower(domain)] = id
	}
	return tenants
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
