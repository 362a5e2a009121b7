package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds application configuration
type Config struct {
	// Server
	HTTPAddr string
	LogLevel string

	// Google Cloud
	ProjectID string

	// Database
	DatabaseURL string

	// Object storage (GCS XML API or any S3-compatible endpoint, e.g. MinIO in dev)
	StorageEndpoint  string
	StorageRegion    string
	StorageAccessKey string
	StorageSecretKey string
	StoragePublicURL string
	VisionsBucket    string // defaults to {project_id}-oracle-visions

	// Gemini / Imagen
	GeminiAPIKey      string
	GeminiAPIEndpoint string // if set, overrides default Gemini API base URL
	GeminiModelPro    string
	GeminiModelFlash  string
	GeminiModelImage  string // Gemini image-modality fallback, e.g. gemini-3-pro-image-preview
	ImagenModel       string // primary image model, e.g. imagen-3.0-generate-001

	// Pipeline
	VisionTimeout time.Duration // budget for one full pipeline run
}

// Load loads configuration from environment variables
func Load() *Config {
	projectID := getEnv("GOOGLE_CLOUD_PROJECT", "")

	return &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ProjectID: projectID,

		DatabaseURL: getEnv("DATABASE_URL", ""),

		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", "https://storage.googleapis.com"),
		StorageRegion:    getEnv("STORAGE_REGION", "auto"),
		StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey: getEnv("STORAGE_SECRET_KEY", ""),
		StoragePublicURL: getEnv("STORAGE_PUBLIC_URL", "https://storage.googleapis.com"),
		VisionsBucket:    getEnv("VISIONS_BUCKET", defaultVisionsBucket(projectID)),

		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiAPIEndpoint: getEnv("GEMINI_API_ENDPOINT", ""),
		GeminiModelPro:    getEnv("GEMINI_MODEL_PRO", "gemini-2.5-pro"),
		GeminiModelFlash:  getEnv("GEMINI_MODEL_FLASH", "gemini-2.5-flash-lite"),
		GeminiModelImage:  getEnv("GEMINI_MODEL_IMAGE", "gemini-3-pro-image-preview"),
		ImagenModel:       getEnv("IMAGEN_MODEL", "imagen-3.0-generate-001"),

		VisionTimeout: getEnvDuration("VISION_TIMEOUT", 2*time.Minute),
	}
}

// defaultVisionsBucket returns the project-scoped bucket name. Empty when the
// project id is not configured; storage setup fails loudly in that case.
func defaultVisionsBucket(projectID string) string {
	if projectID == "" {
		return ""
	}
	return fmt.Sprintf("%s-oracle-visions", projectID)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
