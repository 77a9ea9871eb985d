package framework

import (
	"os"
	"strconv"
	"time"
)

// Config holds the test configuration loaded from environment variables.
type Config struct {
	BaseURL      string        // Application under test; specs are skipped when empty
	SuitesDir    string        // Directory of suites to run
	FixturesFile string        // Fixture file layered under the environment
	Browser      string        // chromium, firefox or webkit
	Headed       bool          // Show the browser window
	Workers      int           // Concurrent units
	Timeout      time.Duration // Upper bound of one full run
}

// NewConfigFromEnv creates a new Config from environment variables.
func NewConfigFromEnv() *Config {
	return &Config{
		BaseURL:      getEnv("E2E_BASE_URL", ""),
		SuitesDir:    getEnv("E2E_SUITES_DIR", "../../suites"),
		FixturesFile: getEnv("E2E_FIXTURES_FILE", ""),
		Browser:      getEnv("E2E_BROWSER", "chromium"),
		Headed:       getEnvBool("E2E_HEADED", false),
		Workers:      getEnvInt("E2E_WORKERS", 1),
		Timeout:      getEnvDuration("E2E_TIMEOUT", 10*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvInt(key string, defaultValue int) int {
	i, err := strconv.Atoi(os.Getenv(key))
	if err != nil || i < 1 {
		return defaultValue
	}
	return i
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}
