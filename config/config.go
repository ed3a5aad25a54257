package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	BaseURL         string
	SourceCity      string
	DestinationCity string
	Headless        bool
	ChromeBin       string
	UserAgent       string

	MaxRetries     int
	MaxItems       int
	MaxConcurrency int
	RateLimitMs    int
	SettleDelay    time.Duration
	ResultsTimeout time.Duration
	PageTimeout    time.Duration

	OutputDir      string
	StorageBackend string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	WeightsFile string
	TopN        int
	LogLevel    string
}

// Storage backends for the output table.
const (
	BackendCSV      = "csv"
	BackendPostgres = "postgres"
)

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		BaseURL:         getEnv("BASE_URL", "https://www.vrlbus.in/"),
		SourceCity:      getEnv("SOURCE_CITY", "Bangalore"),
		DestinationCity: getEnv("DEST_CITY", "Mumbai"),
		Headless:        getEnvBool("HEADLESS", true),
		ChromeBin:       getEnv("CHROME_BIN", ""),
		UserAgent: getEnv("USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		MaxItems:       getEnvInt("MAX_ITEMS", 0),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 0),
		SettleDelay:    time.Duration(getEnvInt("SETTLE_DELAY_MS", 3500)) * time.Millisecond,
		ResultsTimeout: time.Duration(getEnvInt("RESULTS_TIMEOUT_SEC", 7)) * time.Second,
		PageTimeout:    time.Duration(getEnvInt("PAGE_TIMEOUT_SEC", 60)) * time.Second,

		OutputDir:      getEnv("OUTPUT_DIR", "./output"),
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendCSV)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "bus_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		WeightsFile: getEnv("WEIGHTS_FILE", ""),
		TopN:        getEnvInt("TOP_N", 5),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
