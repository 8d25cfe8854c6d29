package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// PathEnv names the variable holding an optional YAML config file path.
const PathEnv = "NODUS_CONFIG"

const (
	maxPageSize        = 500
	maxOccurrenceLimit = 366
)

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"auto", "text", "json"}
)

type Config struct {
	DBPath          string `yaml:"db" env:"NODUS_DB"`
	LogLevel        string `yaml:"log_level" env:"NODUS_LOG_LEVEL" env-default:"info"`
	LogFormat       string `yaml:"log_format" env:"NODUS_LOG_FORMAT" env-default:"auto"`
	LogUseCases     bool   `yaml:"log_usecases" env:"NODUS_LOG_USECASES" env-default:"false"`
	PageSize        int    `yaml:"page_size" env:"NODUS_PAGE_SIZE" env-default:"20"`
	OccurrenceLimit int    `yaml:"occurrence_limit" env:"NODUS_OCCURRENCE_LIMIT" env-default:"10"`
	RuleCacheSize   int    `yaml:"rule_cache_size" env:"NODUS_RULE_CACHE_SIZE" env-default:"256"`
}

// Load reads an optional .env file, then the file named by NODUS_CONFIG
// when set, then the environment. Environment values win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFile(os.Getenv(PathEnv))
}

// LoadFile reads configuration from path and the environment. An empty or
// missing path falls back to the environment alone.
func LoadFile(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("reading environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return nil, fmt.Errorf("reading config %q: %w", path, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("reading environment: %w", err)
		}
	}

	if cfg.DBPath == "" {
		p, err := DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = p
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultDBPath returns ~/.nodus/nodus.db.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".nodus", "nodus.db"), nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if c.DBPath == "" {
		problems = append(problems, "database path cannot be empty")
	}
	if !slices.Contains(validLevels, c.LogLevel) {
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}
	if !slices.Contains(validFormats, c.LogFormat) {
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validFormats))
	}
	if c.PageSize < 1 || c.PageSize > maxPageSize {
		problems = append(problems, fmt.Sprintf("invalid page size %d: must be between 1 and %d", c.PageSize, maxPageSize))
	}
	if c.OccurrenceLimit < 1 || c.OccurrenceLimit > maxOccurrenceLimit {
		problems = append(problems, fmt.Sprintf("invalid occurrence limit %d: must be between 1 and %d", c.OccurrenceLimit, maxOccurrenceLimit))
	}
	if c.RuleCacheSize < 1 {
		problems = append(problems, fmt.Sprintf("invalid rule cache size %d: must be at least 1", c.RuleCacheSize))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
