package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override, e.g. NAYANA_LOG_LEVEL
const EnvPrefix = "NAYANA"

// Config represents the structure of config.yaml
type Config struct {
	Bot     BotConfig     `yaml:"bot" split_words:"true"`
	Data    DataConfig    `yaml:"data" split_words:"true"`
	Log     LogConfig     `yaml:"log" split_words:"true"`
	Session SessionConfig `yaml:"session" split_words:"true"`
}

// BotConfig holds persona settings
type BotConfig struct {
	Name                   string  `yaml:"name" split_words:"true"`
	Company                string  `yaml:"company" split_words:"true"`
	PersonalizeProbability float64 `yaml:"personalize_probability" split_words:"true"`
}

// DataConfig points at the catalog, small-talk and learned-response sources
type DataConfig struct {
	CatalogPath      string `yaml:"catalog_path" split_words:"true"`
	SmallTalkPath    string `yaml:"smalltalk_path" split_words:"true"`
	LearnedPath      string `yaml:"learned_path" split_words:"true"`
	LearnedSeedPath  string `yaml:"learned_seed_path" split_words:"true"`
	LearnedDelimiter string `yaml:"learned_delimiter" split_words:"true"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level      string `yaml:"level" split_words:"true"`
	Format     string `yaml:"format" split_words:"true"` // json or console
	Output     string `yaml:"output" split_words:"true"` // stdout, stderr or file
	FilePath   string `yaml:"file_path" split_words:"true"`
	TimeFormat string `yaml:"time_format" split_words:"true"`
}

// SessionConfig selects where conversation state lives between turns
type SessionConfig struct {
	Driver       string        `yaml:"driver" split_words:"true"` // memory or redis
	RedisURL     string        `yaml:"redis_url" split_words:"true"`
	TTL          time.Duration `yaml:"ttl" split_words:"true"`
	HistoryTurns int           `yaml:"history_turns" split_words:"true"`
}

// DefaultConfig returns the settings used when no config file is present
func DefaultConfig() *Config {
	return &Config{
		Bot: BotConfig{
			Name:                   "Nayana",
			Company:                "Computer X",
			PersonalizeProbability: 0.7,
		},
		Data: DataConfig{
			CatalogPath:      "data/products.csv",
			SmallTalkPath:    "data/smalltalk.properties",
			LearnedPath:      "data/learned.txt",
			LearnedSeedPath:  "data/seed/learned.txt",
			LearnedDelimiter: ":::",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			Output:     "stderr",
			FilePath:   "logs/nayana.log",
			TimeFormat: "rfc3339",
		},
		Session: SessionConfig{
			Driver:       "memory",
			RedisURL:     "redis://localhost:6379/0",
			TTL:          40 * time.Minute,
			HistoryTurns: 10,
		},
	}
}

// LoadConfig loads config.yaml over the defaults and then applies NAYANA_* environment
// overrides. An empty path or a missing file means defaults plus environment.
func LoadConfig(filepath string) (*Config, error) {
	cfg := DefaultConfig()

	if filepath != "" {
		data, err := os.ReadFile(filepath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// defaults only
		case err != nil:
			return nil, fmt.Errorf("error reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("error parsing YAML: %w", err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Bot.Name == "" {
		return fmt.Errorf("bot name cannot be empty")
	}
	if c.Bot.PersonalizeProbability < 0 || c.Bot.PersonalizeProbability > 1 {
		return fmt.Errorf("personalize_probability must be between 0 and 1, got %v", c.Bot.PersonalizeProbability)
	}
	if c.Data.LearnedDelimiter == "" {
		return fmt.Errorf("learned_delimiter cannot be empty")
	}
	if c.Session.Driver != "memory" && c.Session.Driver != "redis" {
		return fmt.Errorf("invalid session driver: %s", c.Session.Driver)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	return nil
}
