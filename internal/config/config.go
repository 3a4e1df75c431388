// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ThemesConfig struct {
	// Empty paths use the files embedded in the binary.
	RegistryFile string `yaml:"registry_file"`
	DomainsFile  string `yaml:"domains_file"`

	// Watch reloads override files when they change.
	Watch bool `yaml:"watch"`
}

type EmailConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Region          string `yaml:"region"`
	Sender          string `yaml:"sender"`
	AccessKeyID     string `yaml:"-"` // Loaded from environment
	SecretAccessKey string `yaml:"-"` // Loaded from environment
}

type RateLimitConfig struct {
	SendCooldownSeconds int    `yaml:"send_cooldown_seconds"`
	SendMaxPerHour      int    `yaml:"send_max_per_hour"`
	SendMaxIPPerHour    int    `yaml:"send_max_ip_per_hour"`
	TrustProxy          bool   `yaml:"trust_proxy"`
	PruneCron           string `yaml:"prune_cron"`
}

type Config struct {
	App struct {
		Name                   string `yaml:"name"`
		Environment            string `yaml:"environment"`
		Port                   int    `yaml:"port"`
		BaseURL                string `yaml:"base_url"`
		ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
	} `yaml:"app"`

	Themes    ThemesConfig    `yaml:"themes"`
	Email     EmailConfig     `yaml:"email"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	cfg.Email.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.Email.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	cfg.resolvePaths(filepath.Dir(configPath))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration and fills in defaults. It does not
// validate or read the environment.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.App.ShutdownTimeoutSeconds == 0 {
		c.App.ShutdownTimeoutSeconds = 10
	}
	if c.RateLimit.SendCooldownSeconds == 0 {
		c.RateLimit.SendCooldownSeconds = 60
	}
	if c.RateLimit.SendMaxPerHour == 0 {
		c.RateLimit.SendMaxPerHour = 5
	}
	if c.RateLimit.SendMaxIPPerHour == 0 {
		c.RateLimit.SendMaxIPPerHour = 20
	}
	if c.RateLimit.PruneCron == "" {
		c.RateLimit.PruneCron = "*/5 * * * *"
	}
}

// Relative theme file paths are resolved against the config file's directory.
func (c *Config) resolvePaths(baseDir string) {
	for _, path := range []*string{&c.Themes.RegistryFile, &c.Themes.DomainsFile} {
		if *path != "" && !filepath.IsAbs(*path) {
			*path = filepath.Join(baseDir, *path)
		}
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.App.ShutdownTimeoutSeconds < 0 {
		return fmt.Errorf("app shutdown_timeout_seconds must not be negative")
	}
	if c.RateLimit.SendCooldownSeconds < 0 || c.RateLimit.SendMaxPerHour < 0 || c.RateLimit.SendMaxIPPerHour < 0 {
		return fmt.Errorf("ratelimit values must not be negative")
	}

	if c.Email.Enabled {
		if strings.TrimSpace(c.Email.Region) == "" {
			return fmt.Errorf("email region is required when email is enabled")
		}
		if !strings.Contains(c.Email.Sender, "@") {
			return fmt.Errorf("email sender must be an email address")
		}
		if c.Email.AccessKeyID == "" || c.Email.SecretAccessKey == "" {
			return fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are required when email is enabled")
		}
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.App.ShutdownTimeoutSeconds) * time.Second
}

func (c *Config) SendCooldown() time.Duration {
	return time.Duration(c.RateLimit.SendCooldownSeconds) * time.Second
}
