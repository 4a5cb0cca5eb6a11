// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config with defaults; Load layers file and env on top.
// - All loaders accept context.Context as the first parameter.
// - Errors are wrapped with ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// ArtifactPath locates the pipeline manifest: a local path or s3://bucket/key.
	ArtifactPath string `koanf:"artifact_path"`

	// ONNXLibraryPath points at libonnxruntime for artifacts with an onnx regressor.
	ONNXLibraryPath string `koanf:"onnx_library_path"`

	// ONNXIntraThreads bounds intra-op parallelism of ONNX sessions.
	ONNXIntraThreads int `koanf:"onnx_intra_threads"`

	// CacheSize bounds the score memo; 0 disables it.
	CacheSize int `koanf:"cache_size"`

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string `koanf:"cors_origins"`

	// DebugFeatures logs the ordered input and the first transformed features.
	DebugFeatures bool `koanf:"debug_features"`

	// S3 settings used when ArtifactPath is an s3:// URI.
	S3Region    string `koanf:"s3_region"`
	S3Endpoint  string `koanf:"s3_endpoint"`
	S3AccessKey string `koanf:"s3_access_key"`
	S3SecretKey string `koanf:"s3_secret_key"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":8000",
		ArtifactPath:     "best_sustainability_model.json",
		ONNXIntraThreads: 1,
		CacheSize:        10_000,
		CORSOrigins:      []string{"*"},
		S3Region:         "us-east-1",
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate(_ context.Context) error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.ArtifactPath) == "":
		return fmt.Errorf("%w: artifact_path must not be empty", ErrInvalidConfig)
	case c.CacheSize < 0:
		return fmt.Errorf("%w: cache_size must not be negative", ErrInvalidConfig)
	case c.ONNXIntraThreads < 0:
		return fmt.Errorf("%w: onnx_intra_threads must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
