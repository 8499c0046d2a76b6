package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the webrag service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Search    SearchConfig    `mapstructure:"search"`
	Scrape    ScrapeConfig    `mapstructure:"scrape"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// SearchConfig selects and configures the web search provider
type SearchConfig struct {
	Provider   string `mapstructure:"provider"` // searxng, brave
	BaseURL    string `mapstructure:"base_url"` // searxng instance URL
	APIKey     string `mapstructure:"api_key"`  // brave subscription token
	MaxResults int    `mapstructure:"max_results"`
}

func (s SearchConfig) Validate() error {
	switch s.Provider {
	case "searxng":
		if strings.TrimSpace(s.BaseURL) == "" {
			return fmt.Errorf("search.base_url is required for the searxng provider")
		}
	case "brave":
		if strings.TrimSpace(s.APIKey) == "" {
			return fmt.Errorf("search.api_key is required for the brave provider")
		}
	default:
		return fmt.Errorf("unsupported search provider: %s", s.Provider)
	}
	if s.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be > 0")
	}
	return nil
}

// ScrapeConfig bounds the per-URL content extraction step
type ScrapeConfig struct {
	Fetcher  string        `mapstructure:"fetcher"` // http, chromedp
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxChars int           `mapstructure:"max_chars"`
}

func (s ScrapeConfig) Validate() error {
	switch s.Fetcher {
	case "http", "chromedp":
	default:
		return fmt.Errorf("unsupported scrape fetcher: %s", s.Fetcher)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("scrape.timeout must be > 0")
	}
	if s.MaxChars <= 0 {
		return fmt.Errorf("scrape.max_chars must be > 0")
	}
	return nil
}

// LLMConfig configures the answer generation provider.
// A missing API key is deliberately NOT a validation error: the provider
// surfaces it as an error-marker answer at request time instead of
// refusing to start.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // mistral
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (l LLMConfig) Validate() error {
	if l.Provider != "mistral" {
		return fmt.Errorf("unsupported llm provider: %s", l.Provider)
	}
	if strings.TrimSpace(l.Model) == "" {
		return fmt.Errorf("llm.model is required")
	}
	return nil
}

// TelemetryConfig contains monitoring settings
type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	LogFile string `mapstructure:"log_file"`
}

// LoadConfig reads configuration from file and environment (WEBRAG_*).
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.SetDefault("general.debug", false)
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("server.address", ":10010")
	viper.SetDefault("search.provider", "searxng")
	viper.SetDefault("search.base_url", "http://searxng:8080")
	viper.SetDefault("search.max_results", 3)
	viper.SetDefault("scrape.fetcher", "http")
	viper.SetDefault("scrape.timeout", 5*time.Second)
	viper.SetDefault("scrape.max_chars", 2000)
	viper.SetDefault("llm.provider", "mistral")
	viper.SetDefault("llm.base_url", "https://api.mistral.ai")
	viper.SetDefault("llm.model", "mistral-small-latest")
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("llm.max_tokens", 1024)
	viper.SetDefault("llm.timeout", 30*time.Second)
	viper.SetDefault("telemetry.enabled", true)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("WEBRAG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config file is optional: defaults plus env cover everything.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	if err := config.Search.Validate(); err != nil {
		panic(err)
	}
	if err := config.Scrape.Validate(); err != nil {
		panic(err)
	}
	if err := config.LLM.Validate(); err != nil {
		panic(err)
	}
	return &config
}
