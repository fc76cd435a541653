package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "CURATOR_CONFIG"
	openAIKeyEnv    = "OPENAI_API_KEY"
	databaseDSNEnv  = "DATABASE_DSN"
	telegramToken   = "TELEGRAM_BOT_TOKEN"
	telegramChatID  = "TELEGRAM_CHAT_ID"
	siteURLEnv      = "SITE_URL"
	portEnv         = "PORT"
	dataDirEnv      = "CURATOR_DATA_DIR"
)

// Config holds all settings required across the application.
type Config struct {
	Server        ServerConfig            `yaml:"server"`
	Schedule      ScheduleConfig          `yaml:"schedule"`
	Scoring       ScoringConfig           `yaml:"scoring"`
	Summarizer    SummarizerConfig        `yaml:"summarizer"`
	Storage       StorageConfig           `yaml:"storage"`
	Database      DatabaseConfig          `yaml:"database"`
	Notifications NotificationConfig      `yaml:"notifications"`
	Logging       LoggingConfig           `yaml:"logging"`
	Sources       map[string]SourceConfig `yaml:"sources"`
	Categories    []CategoryConfig        `yaml:"categories"`
}

// ServerConfig describes the HTTP API endpoint.
type ServerConfig struct {
	Port    int    `yaml:"port"`
	SiteURL string `yaml:"siteUrl"`
}

// ScheduleConfig defines the two daily pipeline triggers.
type ScheduleConfig struct {
	Morning  string `yaml:"morning"`
	Evening  string `yaml:"evening"`
	Timezone string `yaml:"timezone"`

	location *time.Location
}

// Location resolves the schedule timezone string to a time.Location.
func (s ScheduleConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// ScoringConfig carries the global selection bounds.
type ScoringConfig struct {
	Threshold    int `yaml:"threshold"`
	MaxArticles  int `yaml:"maxArticles"`
	MaxPerSource int `yaml:"maxPerSource"`
}

// SummarizerConfig defines how to contact the text-generation API.
type SummarizerConfig struct {
	Model        string        `yaml:"model"`
	APIKey       string        `yaml:"apiKey"`
	SystemPrompt string        `yaml:"systemPrompt"`
	BatchSize    int           `yaml:"batchSize"`
	MaxAttempts  int           `yaml:"maxAttempts"`
	RetryDelay   time.Duration `yaml:"retryDelay"`
}

// StorageConfig locates the snapshot directory.
type StorageConfig struct {
	DataDir string `yaml:"dataDir"`
}

// DatabaseConfig describes the optional curated-item archive.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires the data required to send bot messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// LoggingConfig selects the log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SourceConfig holds per-source static tuning: engagement baselines used for
// score normalization, trust values, and adapter-specific inputs.
type SourceConfig struct {
	PrimaryBaseline   float64        `yaml:"primaryBaseline"`
	SecondaryBaseline float64        `yaml:"secondaryBaseline"`
	Trust             int            `yaml:"trust"`
	SubTrust          map[string]int `yaml:"subTrust"`
	FixedEngagement   bool           `yaml:"fixedEngagement"`
	Subreddits        []string       `yaml:"subreddits"`
	Feeds             []string       `yaml:"feeds"`
	ArxivCategories   []string       `yaml:"arxivCategories"`
}

// CategoryConfig is a themed grouping of keywords and assigned sources.
// An empty keyword list marks a trending (unthemed) category.
type CategoryConfig struct {
	ID        string   `yaml:"id"`
	Label     string   `yaml:"label"`
	Keywords  []string `yaml:"keywords"`
	Exclude   []string `yaml:"exclude"`
	Sources   []string `yaml:"sources"`
	Threshold int      `yaml:"threshold"`
}

// Themed reports whether the category carries a keyword list. Unthemed
// categories cannot earn keyword points, which halves their threshold.
func (c CategoryConfig) Themed() bool {
	return len(c.Keywords) > 0
}

// Load reads YAML configuration (path argument, or CURATOR_CONFIG, or
// defaults) and applies environment overrides.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.bindTimezone(); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.Summarizer.APIKey = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(telegramToken); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatID); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
	if v := os.Getenv(siteURLEnv); v != "" {
		c.Server.SiteURL = v
	}
	if v := os.Getenv(portEnv); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil && port > 0 {
			c.Server.Port = port
		}
	}
	if v := os.Getenv(dataDirEnv); v != "" {
		c.Storage.DataDir = v
	}
}

func (c *Config) bindTimezone() error {
	tz := c.Schedule.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", tz, err)
	}
	c.Schedule.location = loc
	return nil
}

func (c *Config) validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}
	seen := map[string]bool{}
	for i := range c.Categories {
		cat := &c.Categories[i]
		if cat.ID == "" {
			return fmt.Errorf("category %d has no id", i)
		}
		if seen[cat.ID] {
			return fmt.Errorf("duplicate category id %q", cat.ID)
		}
		seen[cat.ID] = true
		if len(cat.Sources) == 0 {
			return fmt.Errorf("category %q lists no sources", cat.ID)
		}
		for _, src := range cat.Sources {
			if _, ok := c.Sources[src]; !ok {
				return fmt.Errorf("category %q references unknown source %q", cat.ID, src)
			}
		}
		if cat.Threshold <= 0 {
			cat.Threshold = c.Scoring.Threshold
		}
	}
	if c.Scoring.Threshold <= 0 {
		return fmt.Errorf("scoring.threshold must be positive")
	}
	if c.Scoring.MaxArticles <= 0 {
		return fmt.Errorf("scoring.maxArticles must be positive")
	}
	if c.Summarizer.BatchSize <= 0 {
		return fmt.Errorf("summarizer.batchSize must be positive")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{Port: 3000, SiteURL: "http://localhost:3000"},
		Schedule: ScheduleConfig{
			Morning:  "0 8 * * *",
			Evening:  "0 17 * * *",
			Timezone: defaultTimezone,
		},
		Scoring: ScoringConfig{Threshold: 50, MaxArticles: 10, MaxPerSource: 3},
		Summarizer: SummarizerConfig{
			Model:       "gpt-4o-mini",
			BatchSize:   3,
			MaxAttempts: 3,
			RetryDelay:  time.Second,
		},
		Storage: StorageConfig{DataDir: "data"},
		Logging: LoggingConfig{Level: "info"},
		Sources: map[string]SourceConfig{
			"hackernews": {PrimaryBaseline: 100, SecondaryBaseline: 50, Trust: 18},
			"reddit": {
				PrimaryBaseline:   500,
				SecondaryBaseline: 100,
				Trust:             14,
				SubTrust: map[string]int{
					"r/MachineLearning": 19,
					"r/artificial":      16,
					"r/technology":      14,
					"r/LocalLLaMA":      17,
					"r/ChatGPT":         13,
				},
				Subreddits: []string{"MachineLearning", "artificial", "technology"},
			},
			"lobsters": {PrimaryBaseline: 30, SecondaryBaseline: 15, Trust: 16},
			"devto":    {PrimaryBaseline: 50, SecondaryBaseline: 20, Trust: 12},
			"arxiv": {
				FixedEngagement: true,
				Trust:           19,
				ArxivCategories: []string{"cs.AI", "cs.LG"},
			},
			"rss": {FixedEngagement: true, Trust: 13},
		},
		Categories: []CategoryConfig{
			{
				ID:       "ai",
				Label:    "AI & ML",
				Keywords: []string{"AI", "LLM", "machine learning", "neural network"},
				Sources:  []string{"hackernews", "reddit", "arxiv"},
			},
			{
				ID:      "trending",
				Label:   "Trending",
				Sources: []string{"hackernews", "lobsters", "devto"},
			},
		},
	}
}
