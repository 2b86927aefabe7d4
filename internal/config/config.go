// Package config provides application configuration management with support for
// command-line flags, environment variables, .env files and an optional YAML file.
package config

import (
	"bufio"
	"cmp"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage driver names.
const (
	StorageDriverFilesystem = "filesystem"
	StorageDriverS3         = "s3"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Data      DataConfig
	Server    ServerConfig
	Auth      AuthConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds the location of on-disk state (database, sessions, search index, auth key).
type DataConfig struct {
	BasePath string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        // default: 8080
	ReadTimeout  time.Duration // default: 15s
	WriteTimeout time.Duration // default: 30s, uploads need headroom
	IdleTimeout  time.Duration // default: 60s
	CORSOrigins  []string      // default: none (same-origin only)
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a reverse proxy that overwrites those headers.
	TrustProxy   bool          // default: false
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for access tokens (32 bytes), set by the auth key provider.
	AccessTokenKey       []byte
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	OpenRegistration     bool
}

// StorageConfig selects and configures the blob store for uploaded images.
type StorageConfig struct {
	Driver         string
	PublicURL      string // Prefix for blob URLs, default: /api/v1/uploads
	MaxUploadBytes int64
	S3             S3Config
}

// S3Config holds S3-compatible bucket settings.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // Optional, for MinIO and other compatible services
	AccessKeyID     string
	SecretAccessKey string
}

// RateLimitConfig configures limits on unauthenticated writes.
type RateLimitConfig struct {
	PublicPerMinute int
}

// fileConfig mirrors the optional YAML configuration file.
type fileConfig struct {
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	DataPath string `yaml:"data_path"`
	Server   struct {
		Port         string   `yaml:"port"`
		ReadTimeout  string   `yaml:"read_timeout"`
		WriteTimeout string   `yaml:"write_timeout"`
		IdleTimeout  string   `yaml:"idle_timeout"`
		CORSOrigins  []string `yaml:"cors_origins"`
		TrustProxy   *bool    `yaml:"trust_proxy"`
	} `yaml:"server"`
	Auth struct {
		AccessTokenDuration  string `yaml:"access_token_duration"`
		RefreshTokenDuration string `yaml:"refresh_token_duration"`
		OpenRegistration     *bool  `yaml:"open_registration"`
	} `yaml:"auth"`
	Storage struct {
		Driver         string `yaml:"driver"`
		PublicURL      string `yaml:"public_url"`
		MaxUploadBytes int64  `yaml:"max_upload_bytes"`
		S3             struct {
			Bucket          string `yaml:"bucket"`
			Region          string `yaml:"region"`
			Endpoint        string `yaml:"endpoint"`
			AccessKeyID     string `yaml:"access_key_id"`
			SecretAccessKey string `yaml:"secret_access_key"`
		} `yaml:"s3"`
	} `yaml:"storage"`
	RateLimit struct {
		PublicPerMinute int `yaml:"public_per_minute"`
	} `yaml:"rate_limit"`
}

// LoadConfig loads configuration from the process command line.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. YAML config file.
// 5. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("elisereads", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Base path for database, sessions and search index")
	configFile := fs.String("config", "", "Path to YAML config file")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	accessTokenDuration := fs.String("access-token-duration", "", "Access token lifetime (e.g., 15m)")
	refreshTokenDuration := fs.String("refresh-token-duration", "", "Refresh token lifetime (e.g., 720h)")
	openRegistration := fs.String("open-registration", "", "Allow visitors to register member accounts")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated list of allowed CORS origins")
	trustProxy := fs.String("trust-proxy", "", "Take client IPs from X-Forwarded-For (only behind a reverse proxy)")

	storageDriver := fs.String("storage-driver", "", "Blob storage driver (filesystem, s3)")
	storagePublicURL := fs.String("storage-public-url", "", "Public URL prefix for stored images")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	var file fileConfig
	if path := getConfigValue(*configFile, "CONFIG_FILE", ""); path != "" {
		loaded, err := loadYAMLFile(path)
		if err != nil {
			return nil, err
		}
		file = *loaded
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", cmp.Or(file.Env, "development")),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", cmp.Or(file.LogLevel, "info")),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", file.DataPath),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", cmp.Or(file.Server.Port, "8080")),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", strings.Join(file.Server.CORSOrigins, ","))),
			TrustProxy:  getBoolConfigValue(*trustProxy, "TRUST_PROXY", file.Server.TrustProxy != nil && *file.Server.TrustProxy),
		},
		Auth: AuthConfig{
			OpenRegistration: getBoolConfigValue(*openRegistration, "AUTH_OPEN_REGISTRATION",
				file.Auth.OpenRegistration != nil && *file.Auth.OpenRegistration),
		},
		Storage: StorageConfig{
			Driver:         getConfigValue(*storageDriver, "STORAGE_DRIVER", cmp.Or(file.Storage.Driver, StorageDriverFilesystem)),
			PublicURL:      getConfigValue(*storagePublicURL, "STORAGE_PUBLIC_URL", cmp.Or(file.Storage.PublicURL, "/api/v1/uploads")),
			MaxUploadBytes: int64(getIntConfigValue("", "STORAGE_MAX_UPLOAD_BYTES", int(cmp.Or(file.Storage.MaxUploadBytes, 10<<20)))),
			S3: S3Config{
				Bucket:          getConfigValue("", "S3_BUCKET", file.Storage.S3.Bucket),
				Region:          getConfigValue("", "S3_REGION", cmp.Or(file.Storage.S3.Region, "us-east-1")),
				Endpoint:        getConfigValue("", "S3_ENDPOINT", file.Storage.S3.Endpoint),
				AccessKeyID:     getConfigValue("", "S3_ACCESS_KEY_ID", file.Storage.S3.AccessKeyID),
				SecretAccessKey: getConfigValue("", "S3_SECRET_ACCESS_KEY", file.Storage.S3.SecretAccessKey),
			},
		},
		RateLimit: RateLimitConfig{
			PublicPerMinute: getIntConfigValue("", "RATE_LIMIT_PUBLIC_PER_MINUTE", cmp.Or(file.RateLimit.PublicPerMinute, 20)),
		},
	}

	durations := []struct {
		flagValue, envKey, fileValue, fallback string
		target                                 *time.Duration
	}{
		{*accessTokenDuration, "ACCESS_TOKEN_DURATION", file.Auth.AccessTokenDuration, "15m", &cfg.Auth.AccessTokenDuration},
		{*refreshTokenDuration, "REFRESH_TOKEN_DURATION", file.Auth.RefreshTokenDuration, "720h", &cfg.Auth.RefreshTokenDuration},
		{*readTimeout, "SERVER_READ_TIMEOUT", file.Server.ReadTimeout, "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", file.Server.WriteTimeout, "30s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", file.Server.IdleTimeout, "60s", &cfg.Server.IdleTimeout},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, cmp.Or(d.fileValue, d.fallback))
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", strings.ToLower(d.envKey), raw, err)
		}
		*d.target = parsed
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	switch c.Storage.Driver {
	case StorageDriverFilesystem:
	case StorageDriverS3:
		if c.Storage.S3.Bucket == "" {
			return errors.New("S3_BUCKET is required when STORAGE_DRIVER is s3")
		}
	default:
		return fmt.Errorf("invalid storage driver: %s (must be filesystem or s3)", c.Storage.Driver)
	}

	if c.Storage.MaxUploadBytes <= 0 {
		return errors.New("STORAGE_MAX_UPLOAD_BYTES must be positive")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is returned unchanged.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath defaults the data directory to ~/EliseReads/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "EliseReads", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadYAMLFile reads the optional YAML configuration file.
func loadYAMLFile(path string) (*fileConfig, error) {
	expanded, err := expandPath(path, "")
	if err != nil {
		return nil, fmt.Errorf("invalid config file path: %w", err)
	}

	data, err := os.ReadFile(expanded) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", expanded, err)
	}
	return &fc, nil
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		// Real environment variables win over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
