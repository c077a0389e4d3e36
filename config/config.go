// Package config loads environment-driven settings for the estimator.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all process-level configuration.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string

	// ModelPath points at the damage-detection ONNX weights.
	ModelPath string
	// FallbackModelPath is tried when ModelPath fails to load.
	FallbackModelPath string
	// ONNXLibPath overrides the onnxruntime shared library location.
	// Empty selects a per-OS default.
	ONNXLibPath string
	// ConfThreshold drops detections scoring below it.
	ConfThreshold float64
	// IoUThreshold controls NMS box suppression.
	IoUThreshold float64

	// PricesPath is the price table JSON file.
	PricesPath string

	// UploadDir receives uploaded and annotated images.
	UploadDir string
	// TemplatesGlob locates the HTML templates.
	TemplatesGlob string
	// MaxUploadBytes caps the request body size.
	MaxUploadBytes int64
	// UploadTTL is how long uploaded files are kept. Zero keeps them forever.
	UploadTTL time.Duration
	// SweepInterval is how often expired uploads are removed when UploadTTL is set.
	SweepInterval time.Duration
}

// Load reads configuration from environment variables or falls back to defaults.
func Load() *Config {
	return &Config{
		Addr:              getEnv("ADDR", ":8000"),
		ModelPath:         getEnv("MODEL_PATH", "models/damage.onnx"),
		FallbackModelPath: getEnv("FALLBACK_MODEL_PATH", "models/yolov8n.onnx"),
		ONNXLibPath:       getEnv("ONNX_LIB_PATH", ""),
		ConfThreshold:     getEnvFloat("CONF_THRESHOLD", 0.5),
		IoUThreshold:      getEnvFloat("IOU_THRESHOLD", 0.7),
		PricesPath:        getEnv("PRICES_PATH", "car_parts_prices.json"),
		UploadDir:         getEnv("UPLOAD_DIR", "static/uploads"),
		TemplatesGlob:     getEnv("TEMPLATES_GLOB", "templates/*.html"),
		MaxUploadBytes:    getEnvInt64("MAX_UPLOAD_BYTES", 16<<20),
		UploadTTL:         getEnvDuration("UPLOAD_TTL", 0),
		SweepInterval:     getEnvDuration("SWEEP_INTERVAL", 10*time.Minute),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
