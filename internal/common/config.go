package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	LLM      LLMConfig      `yaml:"llm"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr        string        `yaml:"http_addr"`
	ShutdownTimeout time.Duration `yaml:"-"` // env only (SHUTDOWN_TIMEOUT)
}

// LLMConfig holds language-model service configuration
type LLMConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	VisionModel string        `yaml:"vision_model"`
	APIKey      string        `yaml:"api_key"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"-"` // env only (OPENAI_TIMEOUT)
}

// PipelineConfig holds extraction pipeline configuration
type PipelineConfig struct {
	Pdftotext string `yaml:"pdftotext"` // binary name or absolute path; if empty -> "pdftotext"
}

// LoadConfig loads configuration from an optional YAML file (NEATPLAN_CONFIG),
// then applies environment variable overrides on top.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Path: "neatplan.db",
		},
		Server: ServerConfig{
			HTTPAddr:        ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			VisionModel: "gpt-4o",
			Temperature: 0.0,
			// model calls are the only long-latency operation; give them room
			Timeout: 3 * time.Minute,
		},
		Pipeline: PipelineConfig{
			Pdftotext: "pdftotext",
		},
	}

	if path := os.Getenv("NEATPLAN_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)
	cfg.Server.HTTPAddr = getEnv("HTTP_ADDR", cfg.Server.HTTPAddr)
	cfg.LLM.BaseURL = getEnv("OPENAI_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.Model = getEnv("OPENAI_MODEL", cfg.LLM.Model)
	cfg.LLM.VisionModel = getEnv("OPENAI_VISION_MODEL", cfg.LLM.VisionModel)
	cfg.LLM.APIKey = getEnv("OPENAI_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.Temperature = getEnvAsFloat32("OPENAI_TEMPERATURE", cfg.LLM.Temperature)
	cfg.LLM.Timeout = getEnvAsDuration("OPENAI_TIMEOUT", cfg.LLM.Timeout)
	cfg.Server.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.Pipeline.Pdftotext = getEnv("PDFTOTEXT", cfg.Pipeline.Pdftotext)

	return cfg, nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return NewAppError("CONFIG_ERROR", "DB_PATH is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
