package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultUserAgent is sent with every request to look like a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/81.0.4044.122 Safari/537.36"

// Target binds a site parser to the listing page it should scrape.
type Target struct {
	Site string `yaml:"site"`
	URL  string `yaml:"url"`
}

// Config holds scraper configuration.
type Config struct {
	Targets      []Target      `yaml:"targets"`
	OutputDir    string        `yaml:"output_dir"`
	OutputFormat string        `yaml:"format"` // csv, json, or dual
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	SQLitePath   string        `yaml:"sqlite"`
	MetricsAddr  string        `yaml:"metrics_addr"`
	Verbose      bool          `yaml:"verbose"`
}

// DefaultTargets are the listing pages scraped when no target file is given.
func DefaultTargets() []Target {
	return []Target{
		{
			Site: "barnesandnoble",
			URL:  "https://www.barnesandnoble.com/s/python+book?_requestid=11773493",
		},
		{
			Site: "ebay",
			URL: "https://www.ebay.com/sch/i.html?_from=R40&_trksid=p2380057.m570.l1313." +
				"TR11.TRC2.A0.H0.Xpython+bo.TRS1&_nkw=python+book&_sacat=0",
		},
	}
}

// DefaultConfig returns defaults matching a manual run from the working directory.
func DefaultConfig() *Config {
	return &Config{
		Targets:      DefaultTargets(),
		OutputDir:    ".",
		OutputFormat: "csv",
		Timeout:      10 * time.Second,
		UserAgent:    DefaultUserAgent,
	}
}

// Load reads a YAML file on top of the defaults. Fields absent from the
// file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return fmt.Errorf("at least one target is required")
	}
	for i, t := range c.Targets {
		if strings.TrimSpace(t.Site) == "" {
			return fmt.Errorf("target %d: site cannot be empty", i)
		}
		if t.URL == "" {
			return fmt.Errorf("target %d: url cannot be empty", i)
		}
		parsed, err := url.Parse(t.URL)
		if err != nil {
			return fmt.Errorf("target %d: invalid url: %w", i, err)
		}
		if parsed.Host == "" {
			return fmt.Errorf("target %d: url must include a host", i)
		}
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output dir cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}

// EnvString returns the trimmed value of key and whether it was set.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// EnvBool parses key as a boolean.
func EnvBool(key string) (bool, bool, error) {
	value, ok := EnvString(key)
	if !ok {
		return false, false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, false, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, true, nil
}

// EnvDuration parses key as a time.Duration such as "15s".
func EnvDuration(key string) (time.Duration, bool, error) {
	value, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, true, nil
}
