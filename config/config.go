package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces environment overrides, e.g. DIALOGFORM_MAX_FIELD_RETRIES.
const envPrefix = "DIALOGFORM_"

// Config is the construction configuration for a dialogform setup.
type Config struct {
	// MaxFieldRetries is the per-field retry budget before a field is forced
	// back to Unanswered.
	MaxFieldRetries int `koanf:"max_field_retries" validate:"min=0"`

	// MaxModelCalls bounds total repair completions per artifact; 0 means
	// unlimited.
	MaxModelCalls int `koanf:"max_model_calls" validate:"min=0"`

	// Provider selects the completion backend.
	Provider string `koanf:"provider" validate:"oneof=anthropic openai mock"`

	// Model optionally overrides the provider's default model id.
	Model string `koanf:"model"`

	LogLevel  string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `koanf:"log_format" validate:"oneof=json text"`
}

// Defaults returns the baseline configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"max_field_retries": 3,
		"max_model_calls":   0,
		"provider":          "anthropic",
		"model":             "",
		"log_level":         "info",
		"log_format":        "json",
	}
}

// Load merges defaults, an optional JSON config file and environment
// variables (highest priority), then validates the result. A missing file at
// path is not an error; a malformed or invalid configuration is.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set default %q: %w", key, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), json.Parser()); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envTransform maps DIALOGFORM_MAX_FIELD_RETRIES to max_field_retries.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}
