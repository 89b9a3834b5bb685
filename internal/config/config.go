// Package config loads wordsearch-mcp settings from the environment.
//
// Every setting has a default, so an empty environment yields a working
// configuration. A .env file in the working directory is honoured when present.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server and pipeline configuration
type Config struct {
	// Logging
	LogLevel string

	// Binarizer: a pixel is ink when R+G+B < DarkLevel. Range [0, 768].
	DarkLevel int

	// Grid inference: sampling resolution of candidate spacings, in pixels.
	WavelengthStep float64

	// Blob cleanup: blobs with fewer pixels are dropped. 0 keeps everything.
	MinBlobPixels int

	// Glyph rendering and OCR
	GlyphMargin    int
	BatchRows      bool
	OCRWorkers     int
	OCRLanguage    string
	TessdataPrefix string

	// Solver
	MinWordLength  int
	DictionaryPath string

	// Optional Redis-backed glyph result cache
	RedisURL string
	CacheTTL time.Duration
}

// Defaults used when a variable is unset or malformed.
const (
	DefaultDarkLevel      = 384
	DefaultWavelengthStep = 0.1
	DefaultGlyphMargin    = 3
	DefaultMinWordLength  = 2
	DefaultDictionaryPath = "/usr/share/dict/words"
	DefaultOCRLanguage    = "eng"
)

// LoadDotEnv reads the given .env files into the process environment.
// Missing files are not an error; variables already set are never overridden.
func LoadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		_ = godotenv.Load(p)
	}
}

// Defaults returns the configuration an empty environment would produce.
func Defaults() *Config {
	return &Config{
		LogLevel:       "info",
		DarkLevel:      DefaultDarkLevel,
		WavelengthStep: DefaultWavelengthStep,
		GlyphMargin:    DefaultGlyphMargin,
		OCRWorkers:     runtime.NumCPU(),
		OCRLanguage:    DefaultOCRLanguage,
		MinWordLength:  DefaultMinWordLength,
		DictionaryPath: DefaultDictionaryPath,
		CacheTTL:       24 * time.Hour,
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		LogLevel:       getEnvOrDefault("WORDSEARCH_LOG_LEVEL", "info"),
		DarkLevel:      getEnvAsIntOrDefault("WORDSEARCH_DARK_LEVEL", DefaultDarkLevel),
		WavelengthStep: getEnvAsFloatOrDefault("WORDSEARCH_WAVELENGTH_STEP", DefaultWavelengthStep),
		MinBlobPixels:  getEnvAsIntOrDefault("WORDSEARCH_MIN_BLOB_PIXELS", 0),
		GlyphMargin:    getEnvAsIntOrDefault("WORDSEARCH_GLYPH_MARGIN", DefaultGlyphMargin),
		BatchRows:      getEnvAsBoolOrDefault("WORDSEARCH_BATCH_ROWS", false),
		OCRWorkers:     getEnvAsIntOrDefault("WORDSEARCH_OCR_WORKERS", runtime.NumCPU()),
		OCRLanguage:    getEnvOrDefault("WORDSEARCH_OCR_LANGUAGE", DefaultOCRLanguage),
		TessdataPrefix: getEnvOrDefault("WORDSEARCH_TESSDATA_PREFIX", ""),
		MinWordLength:  getEnvAsIntOrDefault("WORDSEARCH_MIN_WORD_LENGTH", DefaultMinWordLength),
		DictionaryPath: getEnvOrDefault("WORDSEARCH_DICTIONARY", DefaultDictionaryPath),
		RedisURL:       getEnvOrDefault("WORDSEARCH_REDIS_URL", ""),
		CacheTTL:       time.Duration(getEnvAsIntOrDefault("WORDSEARCH_CACHE_TTL_SECONDS", 86400)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.DarkLevel < 0 || c.DarkLevel > 768 {
		return fmt.Errorf("WORDSEARCH_DARK_LEVEL must be between 0 and 768, got %d", c.DarkLevel)
	}

	if c.WavelengthStep <= 0 || c.WavelengthStep > 10 {
		return fmt.Errorf("WORDSEARCH_WAVELENGTH_STEP must be in (0, 10], got %g", c.WavelengthStep)
	}

	if c.MinBlobPixels < 0 {
		return fmt.Errorf("WORDSEARCH_MIN_BLOB_PIXELS must not be negative, got %d", c.MinBlobPixels)
	}

	if c.GlyphMargin < 0 || c.GlyphMargin > 64 {
		return fmt.Errorf("WORDSEARCH_GLYPH_MARGIN must be between 0 and 64, got %d", c.GlyphMargin)
	}

	if c.OCRWorkers < 1 || c.OCRWorkers > 256 {
		return fmt.Errorf("WORDSEARCH_OCR_WORKERS must be between 1 and 256, got %d", c.OCRWorkers)
	}

	if c.OCRLanguage == "" {
		return fmt.Errorf("WORDSEARCH_OCR_LANGUAGE is required")
	}

	if c.MinWordLength < 2 {
		return fmt.Errorf("WORDSEARCH_MIN_WORD_LENGTH must be at least 2, got %d", c.MinWordLength)
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("WORDSEARCH_CACHE_TTL_SECONDS must not be negative")
	}

	return nil
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsFloatOrDefault gets environment variable as float64 or returns default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBoolOrDefault gets environment variable as bool or returns default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(strings.TrimSpace(valueStr))
	if err != nil {
		return defaultValue
	}

	return value
}
