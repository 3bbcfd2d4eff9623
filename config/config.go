package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"sjsage522/seafoodcrawler/pkg/errors"
)

// DateLayout is the accepted layout of the date range bounds
const DateLayout = "2006-01-02"

// Config represents the application configuration
type Config struct {
	// Date range, YYYY-MM-DD
	StartDate string
	EndDate   string

	// Crawler configuration
	EfishURL    string
	MaxAttempts int
	HTTPTimeout time.Duration

	// Output configuration
	OutputDir      string
	OutputBaseName string
	ErrorLogFile   string

	// Redis configuration
	RedisPublish         bool
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	maxAttempts, _ := strconv.Atoi(getEnv("MAX_ATTEMPTS", "3"))
	timeout, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "30"))
	redisPublish, _ := strconv.ParseBool(getEnv("REDIS_PUBLISH", "false"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	redisStreamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "10000"))

	return &Config{
		StartDate:            getEnv("SEAFOOD_START_DATE", ""),
		EndDate:              getEnv("SEAFOOD_END_DATE", ""),
		EfishURL:             getEnv("EFISH_URL", "https://efish.fa.gov.tw/efish/statistics/daysinglemarketmultifish.htm"),
		MaxAttempts:          maxAttempts,
		HTTPTimeout:          time.Duration(timeout) * time.Second,
		OutputDir:            getEnv("OUTPUT_DIR", "."),
		OutputBaseName:       getEnv("OUTPUT_BASENAME", "table_outer"),
		ErrorLogFile:         getEnv("ERROR_LOG_FILE", "crawl_errors.log"),
		RedisPublish:         redisPublish,
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "seafood_prices"),
		RedisStreamCount:     redisStreamCount,
		RedisStreamMaxLength: redisStreamMaxLength,
		Environment:          getEnv("SEAFOOD_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the crawler cannot run with
func (c *Config) Validate() error {
	if _, _, err := c.DateRange(); err != nil {
		return err
	}
	if c.EfishURL == "" {
		return errors.NewConfiguration("EFISH_URL is empty", nil)
	}
	if c.MaxAttempts < 1 {
		return errors.NewConfiguration(fmt.Sprintf("MAX_ATTEMPTS must be at least 1, got %d", c.MaxAttempts), nil)
	}
	if c.RedisPublish && c.RedisStreamCount < 1 {
		return errors.NewConfiguration(fmt.Sprintf("REDIS_STREAM_COUNT must be at least 1, got %d", c.RedisStreamCount), nil)
	}
	return nil
}

// DateRange parses the configured start and end dates
func (c *Config) DateRange() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewConfiguration(fmt.Sprintf("invalid start date %q", c.StartDate), err)
	}
	end, err := time.Parse(DateLayout, c.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewConfiguration(fmt.Sprintf("invalid end date %q", c.EndDate), err)
	}
	return start, end, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
