package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"trip-planner-service/internal/domain"

	"github.com/joho/godotenv"
)

const (
	DefaultGeocoderURL       = "https://nominatim.openstreetmap.org"
	DefaultGeocoderUserAgent = "trip-planner-service/1.0"
)

// Config is resolved once at startup and passed to the components that
// need it. Credentials come from the environment, never from source.
type Config struct {
	Port         string
	DatabaseURL  string
	BaseLocation string
	DefaultUnit  domain.Unit

	GeocoderBaseURL     string
	GeocoderAPIKey      string
	GeocoderUserAgent   string
	GeocoderTimeout     time.Duration
	GeocoderMaxAttempts int

	DistanceTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// LoadDotEnv loads a .env file if one exists. It reports whether it did.
func LoadDotEnv(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	unit, err := domain.ParseUnit(Get("DEFAULT_UNIT", string(domain.Miles)))
	if err != nil {
		return nil, fmt.Errorf("config: DEFAULT_UNIT: %w", err)
	}

	geocoderTimeout, err := duration("GEOCODER_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	distanceTimeout, err := duration("DISTANCE_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	attempts, err := integer("GEOCODER_MAX_ATTEMPTS", 1)
	if err != nil {
		return nil, err
	}
	if attempts < 1 {
		return nil, fmt.Errorf("config: GEOCODER_MAX_ATTEMPTS must be >= 1, got %d", attempts)
	}

	return &Config{
		Port:                Get("PORT", "8080"),
		DatabaseURL:         strings.TrimSpace(os.Getenv("DATABASE_URL")),
		BaseLocation:        strings.TrimSpace(os.Getenv("BASE_LOCATION")),
		DefaultUnit:         unit,
		GeocoderBaseURL:     strings.TrimRight(Get("GEOCODER_BASE_URL", DefaultGeocoderURL), "/"),
		GeocoderAPIKey:      strings.TrimSpace(os.Getenv("GEOCODER_API_KEY")),
		GeocoderUserAgent:   Get("GEOCODER_USER_AGENT", DefaultGeocoderUserAgent),
		GeocoderTimeout:     geocoderTimeout,
		GeocoderMaxAttempts: attempts,
		DistanceTimeout:     distanceTimeout,
		LogLevel:            Get("LOG_LEVEL", "info"),
		LogFormat:           Get("LOG_FORMAT", "json"),
	}, nil
}

// Get returns the value of key, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %s", key, d)
	}
	return d, nil
}

func integer(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
