package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/joseph-ayodele/pdf-structurer/constants"
)

// Supported structuring backends.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Supported text extraction backends.
const (
	ExtractBackendNative    = "native"
	ExtractBackendPdftotext = "pdftotext"
)

// Config holds all application configuration
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	GCP     GCPConfig     `yaml:"gcp"`
	Extract ExtractConfig `yaml:"extract"`
	Server  ServerConfig  `yaml:"server"`
	Batch   BatchConfig   `yaml:"batch"`
	Watch   WatchConfig   `yaml:"watch"`
	Output  OutputConfig  `yaml:"output"`
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// GCPConfig holds the Vertex AI and Cloud Storage project settings
type GCPConfig struct {
	ProjectID string `yaml:"project_id"`
	Region    string `yaml:"region"`
}

// ExtractConfig holds text extraction configuration
type ExtractConfig struct {
	Backend   string `yaml:"backend"`
	Pdftotext string `yaml:"pdftotext"`
	Normalize bool   `yaml:"normalize"`
	MaxBytes  int64  `yaml:"max_bytes"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HealthAddr string `yaml:"health_addr"`
}

// BatchConfig sizes the worker queue used by batch and watch modes
type BatchConfig struct {
	Workers        int           `yaml:"workers"`
	QueueSize      int           `yaml:"queue_size"`
	ProcessTimeout time.Duration `yaml:"process_timeout"`
}

// WatchConfig holds directory watcher settings
type WatchConfig struct {
	Debounce    time.Duration `yaml:"debounce"`
	InitialScan bool          `yaml:"initial_scan"`
}

// OutputConfig controls where artifacts are written
type OutputConfig struct {
	Dir       string `yaml:"dir"` // local dir or gs://bucket/prefix; empty = next to input
	Overwrite bool   `yaml:"overwrite"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    ProviderOpenAI,
			BaseURL:     "https://api.openai.com/v1",
			Temperature: 0.1,
			Timeout:     120 * time.Second,
		},
		GCP: GCPConfig{
			Region: "us-central1",
		},
		Extract: ExtractConfig{
			Backend:   ExtractBackendNative,
			Pdftotext: "pdftotext",
			MaxBytes:  constants.MaxDocumentBytes,
		},
		Server: ServerConfig{
			HealthAddr: ":8081",
		},
		Batch: BatchConfig{
			Workers:        4,
			QueueSize:      64,
			ProcessTimeout: 3 * time.Minute,
		},
		Watch: WatchConfig{
			Debounce:    500 * time.Millisecond,
			InitialScan: true,
		},
		Output: OutputConfig{
			Overwrite: true,
		},
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.applyEnv()
	cfg.applyModelDefault()
	return cfg
}

// LoadConfigFile decodes a YAML file over the defaults, then applies env overrides.
// An empty path behaves like LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return LoadConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewAppError("CONFIG_ERROR", "read config file", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("decode %s", path), err)
	}
	cfg.applyEnv()
	cfg.applyModelDefault()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.LLM.Provider = strings.ToLower(getEnv("LLM_PROVIDER", c.LLM.Provider))
	c.LLM.Model = getEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.APIKey = getEnv("OPENAI_API_KEY", c.LLM.APIKey)
	c.LLM.BaseURL = getEnv("OPENAI_BASE_URL", c.LLM.BaseURL)
	c.LLM.Temperature = getEnvAsFloat32("LLM_TEMPERATURE", c.LLM.Temperature)
	c.LLM.Timeout = getEnvAsDuration("LLM_TIMEOUT", c.LLM.Timeout)

	c.GCP.ProjectID = getEnv("GOOGLE_CLOUD_PROJECT", c.GCP.ProjectID)
	c.GCP.Region = getEnv("GOOGLE_CLOUD_REGION", c.GCP.Region)

	c.Extract.Backend = strings.ToLower(getEnv("EXTRACT_BACKEND", c.Extract.Backend))
	c.Extract.Pdftotext = getEnv("PDFTOTEXT_BIN", c.Extract.Pdftotext)
	c.Extract.Normalize = getEnvAsBool("EXTRACT_NORMALIZE", c.Extract.Normalize)
	c.Extract.MaxBytes = getEnvAsInt64("EXTRACT_MAX_BYTES", c.Extract.MaxBytes)

	c.Server.HealthAddr = getEnv("HEALTH_ADDR", c.Server.HealthAddr)

	c.Batch.Workers = getEnvAsInt("BATCH_WORKERS", c.Batch.Workers)
	c.Batch.QueueSize = getEnvAsInt("BATCH_QUEUE_SIZE", c.Batch.QueueSize)
	c.Batch.ProcessTimeout = getEnvAsDuration("BATCH_PROCESS_TIMEOUT", c.Batch.ProcessTimeout)

	c.Watch.Debounce = getEnvAsDuration("WATCH_DEBOUNCE", c.Watch.Debounce)
	c.Watch.InitialScan = getEnvAsBool("WATCH_INITIAL_SCAN", c.Watch.InitialScan)

	c.Output.Dir = getEnv("OUTPUT_DIR", c.Output.Dir)
	c.Output.Overwrite = getEnvAsBool("OUTPUT_OVERWRITE", c.Output.Overwrite)
}

func (c *Config) applyModelDefault() {
	if c.LLM.Model != "" {
		return
	}
	switch c.LLM.Provider {
	case ProviderGemini:
		c.LLM.Model = "gemini-2.5-pro"
	default:
		c.LLM.Model = "gpt-4o-mini"
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("llm.provider", c.LLM.Provider, Required, OneOf(ProviderOpenAI, ProviderGemini))
	v.Field("llm.model", c.LLM.Model, Required)
	v.Field("llm.temperature", c.LLM.Temperature, FloatRange(0, 2))
	v.Field("llm.timeout", c.LLM.Timeout, Positive)
	switch c.LLM.Provider {
	case ProviderOpenAI:
		v.Field("llm.api_key", c.LLM.APIKey, Required)
		v.Field("llm.base_url", c.LLM.BaseURL, Required)
	case ProviderGemini:
		v.Field("gcp.project_id", c.GCP.ProjectID, Required)
		v.Field("gcp.region", c.GCP.Region, Required)
	}
	v.Field("extract.backend", c.Extract.Backend, Required, OneOf(ExtractBackendNative, ExtractBackendPdftotext))
	if c.Extract.Backend == ExtractBackendPdftotext {
		v.Field("extract.pdftotext", c.Extract.Pdftotext, Required)
	}
	v.Field("extract.max_bytes", c.Extract.MaxBytes, Positive)
	v.Field("batch.workers", c.Batch.Workers, Positive)
	v.Field("batch.queue_size", c.Batch.QueueSize, Positive)
	v.Field("batch.process_timeout", c.Batch.ProcessTimeout, Positive)

	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
