package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ky489401/anki-canonical/internal/llm"
	"github.com/ky489401/anki-canonical/pkg/resync"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file searched in the working directory.
const DefaultConfigFile = "anki_config.json"

const (
	DefaultAnkiConnectURL  = "http://localhost:8765"
	DefaultModelName       = "Basic"
	DefaultDeckName        = "Generated Cards"
	DefaultLLMModel        = "gpt-4o-mini"
	DefaultLLMProvider     = llm.ProviderEino
	DefaultOutputDirectory = "./output"
	DefaultMaxCardsPerDeck = 1000
)

var (
	// Lazy-load configuration and ensure a single read
	configOnce      resync.Once
	configSingleton *Config
)

// Note: Fields must be public for encoders to unmarshall
type Config struct {
	AnkiConnectURL   string    `json:"anki_connect_url" yaml:"anki_connect_url" toml:"anki_connect_url"`
	DefaultModelName string    `json:"default_model_name" yaml:"default_model_name" toml:"default_model_name"`
	DefaultDeckName  string    `json:"default_deck_name" yaml:"default_deck_name" toml:"default_deck_name"`
	OpenAIAPIKey     string    `json:"openai_api_key,omitempty" yaml:"openai_api_key" toml:"openai_api_key"`
	LLMModel         string    `json:"langchain_model" yaml:"langchain_model" toml:"langchain_model"`
	LLMProvider      string    `json:"llm_provider" yaml:"llm_provider" toml:"llm_provider"`
	OpenAIBaseURL    string    `json:"openai_base_url,omitempty" yaml:"openai_base_url" toml:"openai_base_url"`
	OutputDirectory  string    `json:"output_directory" yaml:"output_directory" toml:"output_directory"`
	MaxCardsPerDeck  int       `json:"max_cards_per_deck" yaml:"max_cards_per_deck" toml:"max_cards_per_deck"`
	EnableMedia      bool      `json:"enable_media" yaml:"enable_media" toml:"enable_media"`
	Exclude          GlobPaths `json:"exclude,omitempty" yaml:"exclude" toml:"exclude"`
}

// ConfigError reports a configuration file that cannot be used.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// DefaultConfiguration returns the configuration used when no file is present.
func DefaultConfiguration() *Config {
	return &Config{
		AnkiConnectURL:   DefaultAnkiConnectURL,
		DefaultModelName: DefaultModelName,
		DefaultDeckName:  DefaultDeckName,
		LLMModel:         DefaultLLMModel,
		LLMProvider:      DefaultLLMProvider,
		OutputDirectory:  DefaultOutputDirectory,
		MaxCardsPerDeck:  DefaultMaxCardsPerDeck,
	}
}

func CurrentConfig() *Config {
	configOnce.Do(func() {
		// Optional .env file with secrets
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			CurrentLogger().Warnf("Ignoring .env file: %v", err)
		}
		configSingleton = LoadConfig(currentConfigPath())
		configSingleton.ApplyEnv(os.LookupEnv)
	})
	return configSingleton
}

// SetCurrentConfig overrides the current configuration.
func SetCurrentConfig(config *Config) {
	configOnce.Do(func() {})
	configSingleton = config
}

// ResetCurrentConfig forces the configuration to be read again.
func ResetCurrentConfig() {
	configOnce.Reset()
	configSingleton = nil
}

func currentConfigPath() string {
	// Supports overriding the configuration file, mainly for testing purposes.
	if path, ok := os.LookupEnv("ANKI_CONFIG"); ok {
		return path
	}
	return DefaultConfigFile
}

// LoadConfig reads a configuration file and falls back to defaults when
// the file is missing or broken. The fallback is reported as a warning.
func LoadConfig(path string) *Config {
	config, err := LoadConfigStrict(path)
	if err != nil {
		var configErr *ConfigError
		if errors.As(err, &configErr) && errors.Is(configErr.Err, os.ErrNotExist) {
			CurrentLogger().Warnf("Config file %s not found. Using defaults.", path)
		} else {
			CurrentLogger().Warnf("Error loading config: %v. Using defaults.", err)
		}
		return DefaultConfiguration()
	}
	return config
}

// LoadConfigStrict reads a configuration file. The format is determined by the
// file extension (.json, .toml, .yaml or .yml). Missing keys keep their default value.
func LoadConfigStrict(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	config := DefaultConfiguration()
	if err := config.unmarshal(path, content); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	if err := config.Validate(); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return config, nil
}

func (c *Config) unmarshal(path string, content []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(content, c)
	case ".yaml", ".yml":
		return yaml.Unmarshal(content, c)
	case ".json", "":
		decoder := json.NewDecoder(strings.NewReader(string(content)))
		decoder.DisallowUnknownFields()
		return decoder.Decode(c)
	}
	return fmt.Errorf("unsupported configuration format %q", filepath.Ext(path))
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.AnkiConnectURL == "" {
		return errors.New("anki_connect_url must not be empty")
	}
	if c.LLMProvider != "" && !slices.Contains(llm.Providers, c.LLMProvider) {
		return fmt.Errorf("llm_provider must be one of %s, got %q", strings.Join(llm.Providers, ", "), c.LLMProvider)
	}
	if c.MaxCardsPerDeck < 0 {
		return fmt.Errorf("max_cards_per_deck must be positive, got %d", c.MaxCardsPerDeck)
	}
	return nil
}

// Save writes the configuration as JSON. The API key is never persisted.
func (c *Config) Save(path string) error {
	saved := *c
	saved.OpenAIAPIKey = ""
	content, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(content, '\n'), 0644)
}

// ApplyEnv overrides settings using environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if value, ok := lookup("ANKI_CONNECT_URL"); ok && value != "" {
		c.AnkiConnectURL = value
	}
	if value, ok := lookup("ANKI_DEFAULT_MODEL"); ok && value != "" {
		c.DefaultModelName = value
	}
	if value, ok := lookup("ANKI_DEFAULT_DECK"); ok && value != "" {
		c.DefaultDeckName = value
	}
	if value, ok := lookup("OPENAI_API_KEY"); ok && value != "" {
		c.OpenAIAPIKey = value
	}
	if value, ok := lookup("OPENAI_BASE_URL"); ok && value != "" {
		c.OpenAIBaseURL = value
	}
	if value, ok := lookup("ANKI_LLM_MODEL"); ok && value != "" {
		c.LLMModel = value
	}
	if value, ok := lookup("ANKI_LLM_PROVIDER"); ok && value != "" {
		if slices.Contains(llm.Providers, value) {
			c.LLMProvider = value
		} else {
			CurrentLogger().Warnf("Ignoring invalid ANKI_LLM_PROVIDER %q", value)
		}
	}
	if value, ok := lookup("ANKI_OUTPUT_DIR"); ok && value != "" {
		c.OutputDirectory = value
	}
	if value, ok := lookup("ANKI_MAX_CARDS"); ok {
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			c.MaxCardsPerDeck = n
		} else {
			CurrentLogger().Warnf("Ignoring invalid ANKI_MAX_CARDS %q", value)
		}
	}
	if value, ok := lookup("ANKI_ENABLE_MEDIA"); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			c.EnableMedia = b
		} else {
			CurrentLogger().Warnf("Ignoring invalid ANKI_ENABLE_MEDIA %q", value)
		}
	}
}

// HasLLM returns if an LLM provider is configured.
func (c *Config) HasLLM() bool {
	return c.OpenAIAPIKey != ""
}
