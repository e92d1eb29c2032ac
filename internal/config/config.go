package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers, floats for the tariff boundary.
type Config struct {
	Env                  string  // application environment (e.g. "dev", "prod")
	Port                 string  // HTTP port to listen on
	DBUser               string  // database username
	DBPass               string  // database password (optional)
	DBHost               string  // database host address
	DBPort               string  // database port number
	DBName               string  // database name
	DBMaxOpenConns       int     // connection pool upper bound
	DBMaxIdleConns       int     // idle connections kept in the pool
	TariffThresholdHours float64 // paid-hours breakpoint between the two table rates
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The tariff threshold
// is optional and defaults to the canonical 3 hours.
func Load() Config {
	return Config{
		Env:                  must("APP_ENV"),      // environment (dev/test/prod)
		Port:                 must("APP_PORT"),     // port to bind the HTTP server
		DBUser:               must("DB_USER"),      // database user
		DBPass:               os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:               must("DB_HOST"),      // database host
		DBPort:               must("DB_PORT"),      // database port
		DBName:               must("DB_NAME"),      // database name
		DBMaxOpenConns:       optInt("DB_MAX_OPEN_CONNS", 16),
		DBMaxIdleConns:       optInt("DB_MAX_IDLE_CONNS", 8),
		TariffThresholdHours: optFloat("TARIFF_THRESHOLD_HOURS", 3),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// optInt reads an optional integer variable, returning the default when the
// variable is unset and exiting when it is set but unparsable.
func optInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid integer for %s: %q", key, s)
	}
	return n
}

// optFloat reads an optional float variable, returning the default when the
// variable is unset and exiting when it is set but unparsable.
func optFloat(key string, def float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Fatalf("invalid float for %s: %q", key, s)
	}
	return f
}
