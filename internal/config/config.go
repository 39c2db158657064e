// Package config loads the terragen CLI configuration from layered
// sources. Priority: environment variables > local config > global config
// > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration represents the terragen CLI tool configuration
type Configuration struct {
	GroqAPIKey          string `koanf:"groq_api_key"`
	GroqModel           string `koanf:"groq_model" validate:"required"`
	MilvusAddr          string `koanf:"milvus_addr" validate:"required,url"`
	MilvusCollection    string `koanf:"milvus_collection" validate:"required"`
	MaxContextChunks    int    `koanf:"max_context_chunks" validate:"min=1,max=64"`
	OutputDir           string `koanf:"output_dir" validate:"required"`
	TerraformValidation bool   `koanf:"terraform_validation"`
	ValidationTimeout   int    `koanf:"validation_timeout" validate:"min=1,max=3600"` // seconds
	MaxRetries          int    `koanf:"max_retries" validate:"min=1,max=10"`
	EmptyHintAfter      int    `koanf:"empty_hint_after" validate:"min=1,max=20"`
	ShowProgress        bool   `koanf:"show_progress"`
	Timeout             int    `koanf:"timeout" validate:"omitempty,min=1,max=3600"` // seconds, per LLM call
}

// Load loads configuration from global, local, and environment sources
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	// Apply defaults first
	defaults := GetDefaults()
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Load global config if it exists
	homeDir, err := os.UserHomeDir()
	if err == nil {
		globalPath := filepath.Join(homeDir, ".terragen", "config.json")
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	// Load local config if it exists
	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load local config: %w", err)
			}
		}
	}

	// Override with environment variables (highest priority)
	k.Load(env.Provider("TERRAGEN_", ".", envTransform), nil)

	// Unmarshal into struct
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// GROQ_API_KEY is the conventional variable name for the service;
	// honor it when the prefixed form is absent.
	if cfg.GroqAPIKey == "" {
		cfg.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	}

	// Validate configuration
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Expand home directory in paths
	cfg.OutputDir = expandHomePath(cfg.OutputDir)

	return &cfg, nil
}

// envTransform converts environment variable names to config keys
// Example: TERRAGEN_MAX_RETRIES -> max_retries
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "TERRAGEN_"))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
