package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/codefionn/puffer/puffer-core/logger"
)

// Config represents the configuration of the buffer core. Every buffer in a
// pool has the same data capacity for the whole process lifetime, so the
// chunk size is fixed here once and never changed at runtime.
type Config struct {
	ChunkSizeBytes  int    `json:"chunk-size" hcl:"chunk-size"`             // Data capacity per buffer
	PreallocBuffers int    `json:"prealloc-buffers" hcl:"prealloc-buffers"` // Buffers to warm the free list with
	StatsEnabled    bool   `json:"stats-enabled" hcl:"stats-enabled"`       // Whether to collect pool statistics
	LogLevel        string `json:"log-level" hcl:"log-level"`               // Log level (TRACE..FATAL)
}

// DefaultConfig returns the default buffer core configuration.
func DefaultConfig() *Config {
	return &Config{
		ChunkSizeBytes:  16 * 1024,
		PreallocBuffers: 0,
		StatsEnabled:    false,
		LogLevel:        "INFO",
	}
}

// Validate checks the configuration for values the buffer core cannot run with.
func (c *Config) Validate() error {
	if c.ChunkSizeBytes < 512 || c.ChunkSizeBytes > 16*1024*1024 {
		return fmt.Errorf("chunk-size %d out of range [512, %d]", c.ChunkSizeBytes, 16*1024*1024)
	}
	if c.PreallocBuffers < 0 {
		return fmt.Errorf("prealloc-buffers must not be negative, got %d", c.PreallocBuffers)
	}
	return nil
}

// LoadConfig loads configuration from the specified file path. An empty path
// returns the defaults with environment overrides applied. Supported formats
// are .json and .hcl, selected by file extension.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Apply environment variables
	loadConfigFromEnv(cfg)

	// If config file exists, load it
	if configPath != "" {
		var err error

		ext := filepath.Ext(configPath)
		switch strings.ToLower(ext) {
		case ".json":
			err = loadJSONConfig(configPath, cfg)
		case ".hcl":
			err = loadHCLConfig(configPath, cfg)
		default:
			return nil, fmt.Errorf("unsupported config file format: %s", ext)
		}

		if err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadJSONConfig(configPath string, cfg *Config) error {
	cleanPath := filepath.Clean(configPath)
	if !filepath.IsAbs(cleanPath) {
		absPath, err := filepath.Abs(cleanPath)
		if err != nil {
			return fmt.Errorf("invalid config file path: %w", err)
		}
		cleanPath = absPath
	}
	file, err := os.Open(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.Error("Error closing config file: %v", closeErr)
		}
	}()

	// Decode into a map to handle the hyphenated keys
	var data map[string]any
	err = json.NewDecoder(file).Decode(&data)
	if err != nil {
		return fmt.Errorf("failed to decode JSON config: %w", err)
	}

	if val, exists := data["chunk-size"]; exists {
		ptr, err := parseValue[int](val)
		if err != nil {
			return fmt.Errorf("chunk-size must be an integer: %w", err)
		}
		cfg.ChunkSizeBytes = *ptr
	}

	if val, exists := data["prealloc-buffers"]; exists {
		ptr, err := parseValue[int](val)
		if err != nil {
			return fmt.Errorf("prealloc-buffers must be an integer: %w", err)
		}
		cfg.PreallocBuffers = *ptr
	}

	if val, exists := data["stats-enabled"]; exists {
		ptr, err := parseValue[bool](val)
		if err != nil {
			return fmt.Errorf("stats-enabled must be a boolean: %w", err)
		}
		cfg.StatsEnabled = *ptr
	}

	if val, exists := data["log-level"]; exists {
		ptr, err := parseValue[string](val)
		if err != nil {
			return fmt.Errorf("log-level must be a string: %w", err)
		}
		cfg.LogLevel = *ptr
	}

	return nil
}

// parseValue converts a decoded JSON value into the requested primitive type.
func parseValue[T any](value any) (*T, error) {
	var zero T
	tType := reflect.TypeOf(zero)
	ptr := reflect.New(tType)
	elem := ptr.Elem()

	switch v := value.(type) {
	case float64:
		// JSON number
		switch elem.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			elem.SetInt(int64(v))
		case reflect.Float32, reflect.Float64:
			elem.SetFloat(v)
		default:
			return nil, fmt.Errorf("expected %T, got JSON number", zero)
		}
	case string:
		switch elem.Kind() {
		case reflect.String:
			elem.SetString(v)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			i, err := strconv.ParseInt(v, 10, elem.Type().Bits())
			if err != nil {
				return nil, fmt.Errorf("failed to parse int: %w", err)
			}
			elem.SetInt(i)
		default:
			return nil, fmt.Errorf("expected %T, got string", zero)
		}
	case bool:
		if elem.Kind() != reflect.Bool {
			return nil, fmt.Errorf("expected %T, got boolean", zero)
		}
		elem.SetBool(v)
	default:
		return nil, fmt.Errorf("expected %T, got %T", zero, value)
	}

	result, ok := ptr.Interface().(*T)
	if !ok {
		return nil, fmt.Errorf("internal conversion error for %T", zero)
	}
	return result, nil
}

func loadConfigFromEnv(cfg *Config) {
	// Handle chunk size setting
	if chunkStr := os.Getenv("PUFFER_CHUNKSIZE"); chunkStr != "" {
		if chunk, err := strconv.Atoi(chunkStr); err == nil {
			cfg.ChunkSizeBytes = chunk
		} else {
			fmt.Fprintf(os.Stderr, "Warning: Invalid format for PUFFER_CHUNKSIZE: %s\n", chunkStr)
		}
	}

	// Handle prealloc setting
	if preallocStr := os.Getenv("PUFFER_PREALLOC"); preallocStr != "" {
		if prealloc, err := strconv.Atoi(preallocStr); err == nil {
			cfg.PreallocBuffers = prealloc
		} else {
			fmt.Fprintf(os.Stderr, "Warning: Invalid format for PUFFER_PREALLOC: %s\n", preallocStr)
		}
	}

	// Handle stats collection setting
	if statsEnabled := os.Getenv("PUFFER_STATS"); statsEnabled != "" {
		cfg.StatsEnabled = strings.EqualFold(statsEnabled, "true") || statsEnabled == "1"
	}

	// Handle log level setting
	if logLevel := os.Getenv("PUFFER_LOGLEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}
}
