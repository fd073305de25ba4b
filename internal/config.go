package internal

import (
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/bloomgen/internal/apperr"
)

// Config represents the application configuration. Credentials arrive
// through ${VAR} expansion in the YAML file, so missing environment
// variables surface as empty fields here and fail validation before any
// network attempt.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Neo4j  Neo4jConfig       `yaml:"neo4j"`
	LLM    LLMConfig         `yaml:"llm"`
	Output OutputConfig      `yaml:"output"`
	Cache  CacheConfig       `yaml:"cache"`

	// Example optionally points at a known-good perspective document used
	// as a few-shot example during generation.
	Example ExampleConfig `yaml:"example"`
}

// Validate validates the sections every command needs. Neo4j and LLM
// sections are validated separately by the commands that use them, so a
// procedural build does not demand generation credentials.
func (c *Config) Validate() error {
	if err := c.Output.Validate(); err != nil {
		return err
	}
	return c.Cache.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// Neo4jConfig holds database connection parameters.
type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// Validate reports every missing connection parameter by the environment
// variable that should supply it.
func (c *Neo4jConfig) Validate() error {
	var missing []string
	if c.URI == "" {
		missing = append(missing, "NEO4J_URI")
	}
	if c.Username == "" {
		missing = append(missing, "NEO4J_USERNAME")
	}
	if c.Password == "" {
		missing = append(missing, "NEO4J_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("neo4j: %w: %s", apperr.ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// LLMConfig holds the generation endpoint settings. The endpoint is
// OpenAI-compatible; Gemini's compatibility endpoint is the default target.
type LLMConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// Validate reports missing generation credentials by environment variable.
func (c *LLMConfig) Validate() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "LLM_API_KEY")
	}
	if c.BaseURL == "" {
		missing = append(missing, "LLM_BASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("llm: %w: %s", apperr.ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// OutputConfig controls where and how perspective documents are written.
// Pretty selects indented JSON; Bloom prefers the compact default.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Pretty bool   `yaml:"pretty"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// CacheConfig holds the schema snapshot paths.
type CacheConfig struct {
	SchemaPath     string `yaml:"schema_path"`
	FullSchemaPath string `yaml:"full_schema_path"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SchemaPath, validation.Required),
		validation.Field(&c.FullSchemaPath, validation.Required),
	)
}

// ExampleConfig points at an optional known-good perspective used as a
// few-shot example during generation.
type ExampleConfig struct {
	Path string `yaml:"path"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Neo4j: Neo4jConfig{
			Database: "neo4j",
		},
		LLM: LLMConfig{
			Model:       "gemini-2.0-flash",
			Temperature: 0.2,
		},
		Output: OutputConfig{
			Dir: "./output",
		},
		Cache: CacheConfig{
			SchemaPath:     "./schema.json",
			FullSchemaPath: "./schema_full.json",
		},
	}
}
