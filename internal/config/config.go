package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultOllamaEndpoint = "http://localhost:11434/v1/completions"
	DefaultOllamaModel    = "phi3:latest"
	DefaultHostedModel    = "gpt-4"
)

type Config struct {
	LogLevel       string
	Debug          bool
	ServiceName    string
	Environment    string
	Hostname       string
	ServerPort     string
	AllowedOrigins []string

	HostedProvider    string
	HostedModel       string
	HostedMaxTokens   int
	HostedTemperature float32
	OpenAIAPIKeys     []string
	OpenAIBaseURL     string
	GeminiAPIKeys     []string

	OllamaEndpoint string
	OllamaModel    string
	OllamaTimeout  time.Duration

	// DatabaseURL is optional; an empty value disables the completion log.
	DatabaseURL string
	DBMaxConns  int
}

// fileConfig mirrors the keys accepted in the CONFIG_FILE overlay.
type fileConfig struct {
	LogLevel       string   `yaml:"log_level"`
	Debug          *bool    `yaml:"debug"`
	ServiceName    string   `yaml:"service_name"`
	Environment    string   `yaml:"environment"`
	Hostname       string   `yaml:"hostname"`
	ServerPort     string   `yaml:"server_port"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	Hosted struct {
		Provider    string   `yaml:"provider"`
		Model       string   `yaml:"model"`
		MaxTokens   int      `yaml:"max_tokens"`
		Temperature *float32 `yaml:"temperature"`
		BaseURL     string   `yaml:"base_url"`
	} `yaml:"hosted"`

	Ollama struct {
		Endpoint string `yaml:"endpoint"`
		Model    string `yaml:"model"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"ollama"`

	DBMaxConns int `yaml:"db_max_conns"`
}

func defaults() *Config {
	return &Config{
		LogLevel:          "info",
		ServiceName:       "prompt-relay",
		Environment:       "development",
		Hostname:          "prompt-relay",
		ServerPort:        "8080",
		AllowedOrigins:    []string{"*"},
		HostedProvider:    ProviderOpenAI,
		HostedModel:       DefaultHostedModel,
		HostedMaxTokens:   100,
		HostedTemperature: 1,
		OllamaEndpoint:    DefaultOllamaEndpoint,
		OllamaModel:       DefaultOllamaModel,
		OllamaTimeout:     100 * time.Second,
		DBMaxConns:        4,
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// named by CONFIG_FILE, and the environment, in that order of precedence.
// Secrets are only ever read from the environment.
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.ServiceName, fc.ServiceName)
	setString(&c.Environment, fc.Environment)
	setString(&c.Hostname, fc.Hostname)
	setString(&c.ServerPort, fc.ServerPort)
	if fc.Debug != nil {
		c.Debug = *fc.Debug
	}
	if len(fc.AllowedOrigins) > 0 {
		c.AllowedOrigins = fc.AllowedOrigins
	}

	setString(&c.HostedProvider, fc.Hosted.Provider)
	setString(&c.HostedModel, fc.Hosted.Model)
	setString(&c.OpenAIBaseURL, fc.Hosted.BaseURL)
	if fc.Hosted.MaxTokens > 0 {
		c.HostedMaxTokens = fc.Hosted.MaxTokens
	}
	if fc.Hosted.Temperature != nil {
		c.HostedTemperature = *fc.Hosted.Temperature
	}

	setString(&c.OllamaEndpoint, fc.Ollama.Endpoint)
	setString(&c.OllamaModel, fc.Ollama.Model)
	if fc.Ollama.Timeout != "" {
		d, err := time.ParseDuration(fc.Ollama.Timeout)
		if err != nil {
			return fmt.Errorf("invalid ollama.timeout %q: %w", fc.Ollama.Timeout, err)
		}
		c.OllamaTimeout = d
	}

	if fc.DBMaxConns > 0 {
		c.DBMaxConns = fc.DBMaxConns
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&c.ServiceName, os.Getenv("SERVICE_NAME"))
	setString(&c.Environment, os.Getenv("ENVIRONMENT"))
	setString(&c.Hostname, os.Getenv("HOSTNAME"))
	setString(&c.ServerPort, os.Getenv("SERVER_PORT"))
	if debug := os.Getenv("DEBUG"); debug != "" {
		c.Debug = debug == "true"
	}
	if ao := os.Getenv("ALLOWED_ORIGINS"); ao != "" {
		c.AllowedOrigins = splitList(ao)
	}

	setString(&c.HostedProvider, os.Getenv("HOSTED_PROVIDER"))
	setString(&c.HostedModel, os.Getenv("HOSTED_MODEL"))
	setString(&c.OpenAIBaseURL, os.Getenv("OPENAI_BASE_URL"))

	if v := os.Getenv("HOSTED_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HOSTED_MAX_TOKENS %q: %w", v, err)
		}
		c.HostedMaxTokens = n
	}
	if v := os.Getenv("HOSTED_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("invalid HOSTED_TEMPERATURE %q: %w", v, err)
		}
		c.HostedTemperature = float32(f)
	}

	// Single key first, then the rotation list.
	var openAIKeys []string
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		openAIKeys = append(openAIKeys, key)
	}
	openAIKeys = append(openAIKeys, splitList(os.Getenv("OPENAI_API_KEYS"))...)
	c.OpenAIAPIKeys = openAIKeys
	c.GeminiAPIKeys = splitList(os.Getenv("GEMINI_API_KEYS"))

	setString(&c.OllamaEndpoint, os.Getenv("OLLAMA_ENDPOINT"))
	setString(&c.OllamaModel, os.Getenv("OLLAMA_MODEL"))
	if v := os.Getenv("OLLAMA_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid OLLAMA_TIMEOUT %q: %w", v, err)
		}
		c.OllamaTimeout = d
	}

	c.DatabaseURL = os.Getenv("DATABASE_URL")
	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.DBMaxConns = parsed
		}
	}
	return nil
}

func (c *Config) validate() error {
	switch c.HostedProvider {
	case ProviderOpenAI:
		if len(c.OpenAIAPIKeys) == 0 {
			return errors.New("OPENAI_API_KEY or OPENAI_API_KEYS is required")
		}
	case ProviderGemini:
		if len(c.GeminiAPIKeys) == 0 {
			return errors.New("GEMINI_API_KEYS is required")
		}
	default:
		return fmt.Errorf("unsupported HOSTED_PROVIDER %q", c.HostedProvider)
	}

	if c.HostedMaxTokens <= 0 {
		return errors.New("hosted max tokens must be positive")
	}
	if c.OllamaEndpoint == "" {
		return errors.New("OLLAMA_ENDPOINT must not be empty")
	}
	return nil
}

// HostedAPIKeys returns the credentials for the selected hosted provider.
func (c *Config) HostedAPIKeys() []string {
	if c.HostedProvider == ProviderGemini {
		return c.GeminiAPIKeys
	}
	return c.OpenAIAPIKeys
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// splitList splits a comma-separated value and drops blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
