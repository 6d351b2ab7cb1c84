package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/deusflow/newswatch/internal/feed"
)

var ErrNoFeeds = errors.New("no feeds configured")

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	// Telegram settings
	TelegramToken  string
	TelegramChatID string

	// Feed settings
	Feeds             []string
	FeedsConfigPath   string
	PollInterval      time.Duration
	MaxAgeHours       float64 // <= 0 disables the freshness check
	Keywords          string
	MaxEntriesPerFeed int
	FeedTimeout       time.Duration

	// Dedup settings
	SeenCapacity  int
	SeenStatePath string

	// AI settings
	AIProvider          string
	GeminiAPIKey        string
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	AIModel             string
	AITimeout           time.Duration
	MaxAIRequests       int // per day, 0 = unlimited
	AIRequestsPerMinute int // 0 = unlimited

	// App settings
	Debug          bool
	RetryAttempts  int
	RetryDelay     time.Duration
	Monitoring     bool
	MonitoringPort string
}

// LoadEnvFile reads a .env file into the process environment. Variables
// already set win. A missing default file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func Load() (*Config, error) {
	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),

		FeedsConfigPath:   os.Getenv("FEEDS_CONFIG_PATH"),
		PollInterval:      time.Duration(getEnvIntOrDefault("POLL_SECONDS", 180)) * time.Second,
		MaxAgeHours:       getEnvFloatOrDefault("MAX_AGE_HOURS", 24),
		Keywords:          strings.TrimSpace(os.Getenv("KEYWORDS")),
		MaxEntriesPerFeed: getEnvIntOrDefault("MAX_ENTRIES_PER_FEED", 20),
		FeedTimeout:       time.Duration(getEnvIntOrDefault("FEED_TIMEOUT_SECONDS", 30)) * time.Second,

		SeenCapacity:  getEnvIntOrDefault("SEEN_CAPACITY", 2000),
		SeenStatePath: os.Getenv("SEEN_STATE_PATH"),

		AIProvider:          strings.ToLower(getEnvOrDefault("AI_PROVIDER", ProviderGemini)),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:       os.Getenv("OPENAI_BASE_URL"),
		AIModel:             os.Getenv("AI_MODEL"),
		AITimeout:           time.Duration(getEnvIntOrDefault("AI_TIMEOUT_SECONDS", 20)) * time.Second,
		MaxAIRequests:       getEnvIntOrDefault("MAX_AI_REQUESTS", 0),
		AIRequestsPerMinute: getEnvIntOrDefault("AI_REQUESTS_PER_MINUTE", 0),

		Debug:          os.Getenv("DEBUG") == "true",
		RetryAttempts:  getEnvIntOrDefault("RETRY_ATTEMPTS", 3),
		RetryDelay:     time.Duration(getEnvIntOrDefault("RETRY_DELAY_SECONDS", 5)) * time.Second,
		Monitoring:     os.Getenv("ENABLE_HTTP_MONITORING") == "true",
		MonitoringPort: getEnvOrDefault("MONITORING_PORT", "8080"),
	}

	cfg.Feeds = splitList(os.Getenv("FEEDS"))
	if cfg.FeedsConfigPath != "" {
		extra, err := feed.LoadFeeds(cfg.FeedsConfigPath)
		if err != nil {
			return nil, err
		}
		cfg.Feeds = mergeFeeds(cfg.Feeds, extra)
	}

	return cfg, cfg.Validate()
}

// AIKey returns the API key of the selected provider.
func (c *Config) AIKey() string {
	if c.AIProvider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// AIEnabled reports whether a key is present for the selected provider.
func (c *Config) AIEnabled() bool {
	return c.AIKey() != ""
}

func (c *Config) Validate() error {
	if len(c.Feeds) == 0 {
		return fmt.Errorf("%w: set FEEDS or FEEDS_CONFIG_PATH", ErrNoFeeds)
	}
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	if c.TelegramChatID == "" {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required")
	}
	if c.Keywords != "" {
		if _, err := regexp.Compile("(?i)" + c.Keywords); err != nil {
			return fmt.Errorf("KEYWORDS is not a valid pattern: %w", err)
		}
	}
	if c.AIProvider != ProviderGemini && c.AIProvider != ProviderOpenAI {
		return fmt.Errorf("AI_PROVIDER must be '%s' or '%s'", ProviderGemini, ProviderOpenAI)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// mergeFeeds appends extra after base, keeping first occurrences only.
func mergeFeeds(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, u := range append(base, extra...) {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
