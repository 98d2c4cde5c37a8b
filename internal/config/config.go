package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Browser BrowserConfig `yaml:"browser" envconfig:"BROWSER"`
	Lookup  LookupConfig  `yaml:"lookup" envconfig:"LOOKUP"`
	Serper  SerperConfig  `yaml:"serper" envconfig:"SERPER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// BrowserConfig controls the Chrome session used for registry lookups
type BrowserConfig struct {
	Headless       bool          `yaml:"headless" envconfig:"HEADLESS" default:"false"`
	ActionTimeout  time.Duration `yaml:"action_timeout" envconfig:"ACTION_TIMEOUT" default:"30s" validate:"gt=0"`
	CaptchaTimeout time.Duration `yaml:"captcha_timeout" envconfig:"CAPTCHA_TIMEOUT" default:"5m" validate:"gt=0"`
	WindowWidth    int           `yaml:"window_width" envconfig:"WINDOW_WIDTH" default:"1280" validate:"gt=0"`
	WindowHeight   int           `yaml:"window_height" envconfig:"WINDOW_HEIGHT" default:"800" validate:"gt=0"`
}

// LookupConfig controls the per-number verification loop
type LookupConfig struct {
	Retries  int           `yaml:"retries" envconfig:"RETRIES" default:"1" validate:"gte=0,lte=5"`
	MinDelay time.Duration `yaml:"min_delay" envconfig:"MIN_DELAY" default:"500ms" validate:"gte=0"`
}

// SerperConfig configures the optional business-line check via serper.dev.
// An empty API key disables the check entirely.
type SerperConfig struct {
	APIKey  string        `yaml:"api_key" envconfig:"API_KEY"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"15s" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/verifier.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	OutputDir     string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"output"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("DNCL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Browser.ActionTimeout == 0 {
		envConfig.Browser.ActionTimeout = fileConfig.Browser.ActionTimeout
	}
	if envConfig.Browser.CaptchaTimeout == 0 {
		envConfig.Browser.CaptchaTimeout = fileConfig.Browser.CaptchaTimeout
	}
	if envConfig.Browser.WindowWidth == 0 {
		envConfig.Browser.WindowWidth = fileConfig.Browser.WindowWidth
	}
	if envConfig.Browser.WindowHeight == 0 {
		envConfig.Browser.WindowHeight = fileConfig.Browser.WindowHeight
	}
	if envConfig.Lookup.MinDelay == 0 {
		envConfig.Lookup.MinDelay = fileConfig.Lookup.MinDelay
	}
	if envConfig.Serper.APIKey == "" {
		envConfig.Serper.APIKey = fileConfig.Serper.APIKey
	}
	if envConfig.Serper.Timeout == 0 {
		envConfig.Serper.Timeout = fileConfig.Serper.Timeout
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}

	return envConfig
}

// validate validates the configuration. Structural constraints live in the
// validate struct tags; the rest is normalized here.
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "both"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/verifier.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:       false,
			ActionTimeout:  30 * time.Second,
			CaptchaTimeout: 5 * time.Minute,
			WindowWidth:    1280,
			WindowHeight:   800,
		},
		Lookup: LookupConfig{
			Retries:  1,
			MinDelay: 500 * time.Millisecond,
		},
		Serper: SerperConfig{
			Timeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/verifier.log",
		},
		Paths: PathsConfig{
			OutputDir: "output",
			LogsDir:   "logs",
		},
	}
}
