package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultBaseURL is the site quotesmith scrapes unless told otherwise.
const DefaultBaseURL = "https://quotes.toscrape.com/"

// EnvPrefix prefixes every environment override, e.g. QUOTESMITH_OUTPUT_PATH.
const EnvPrefix = "QUOTESMITH"

// Config holds all application configuration
type Config struct {
	// Crawler configuration
	Crawler CrawlerConfig `mapstructure:"crawler"`

	// Output configuration
	Output OutputConfig `mapstructure:"output"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// CrawlerConfig holds crawler-specific configuration
type CrawlerConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	PagePath        string        `mapstructure:"page_path"`
	Timeout         time.Duration `mapstructure:"timeout"`
	UserAgent       string        `mapstructure:"user_agent"`
	MaxPages        int           `mapstructure:"max_pages"`
	FollowRobotsTxt bool          `mapstructure:"follow_robots_txt"`
}

// OutputConfig holds output file configuration
type OutputConfig struct {
	Path         string `mapstructure:"path"`
	Format       string `mapstructure:"format"` // "csv" or "json"
	TagSeparator string `mapstructure:"tag_separator"`
	AuthorsPath  string `mapstructure:"authors_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// Load reads configuration from defaults, an optional YAML file and the
// environment. Callers that bind CLI flags should use LoadWith.
func Load(configPath string) (*Config, error) {
	return LoadWith(viper.New(), configPath)
}

// LoadWith is Load on a caller supplied viper instance, so flags bound to v
// take precedence over file and environment values.
func LoadWith(v *viper.Viper, configPath string) (*Config, error) {
	v.SetConfigName("quotesmith")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.quotesmith")
	}

	setDefaults(v)
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is not an error, we'll use defaults and env
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Crawler defaults
	v.SetDefault("crawler.base_url", DefaultBaseURL)
	v.SetDefault("crawler.page_path", "page/%d/")
	v.SetDefault("crawler.timeout", "30s")
	v.SetDefault("crawler.user_agent", "")
	v.SetDefault("crawler.max_pages", 500)
	v.SetDefault("crawler.follow_robots_txt", false)

	// Output defaults
	v.SetDefault("output.path", "quotes.csv")
	v.SetDefault("output.format", "csv")
	v.SetDefault("output.tag_separator", "|")
	v.SetDefault("output.authors_path", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// bindEnvVars binds environment variables
func bindEnvVars(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Validate validates the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.Crawler.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("crawler.base_url must be an absolute http(s) URL, got %q", c.Crawler.BaseURL)
	}
	if strings.Count(c.Crawler.PagePath, "%d") != 1 || strings.Count(c.Crawler.PagePath, "%") != 1 {
		return fmt.Errorf("crawler.page_path must contain exactly one %%d verb, got %q", c.Crawler.PagePath)
	}
	if c.Crawler.Timeout <= 0 {
		return fmt.Errorf("crawler.timeout must be positive")
	}
	if c.Crawler.MaxPages < 0 {
		return fmt.Errorf("crawler.max_pages must not be negative")
	}

	switch c.Output.Format {
	case "csv", "json":
	default:
		return fmt.Errorf("unsupported output.format: %s", c.Output.Format)
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path must not be empty")
	}
	if c.Output.TagSeparator == "" || strings.ContainsAny(c.Output.TagSeparator, ",\"\r\n") {
		return fmt.Errorf("output.tag_separator must be non-empty and free of commas, quotes and newlines")
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported logging.format: %s", c.Logging.Format)
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}

	return nil
}
