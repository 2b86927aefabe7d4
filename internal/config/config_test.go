package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/some/path"},
		Storage: StorageConfig{
			Driver:         StorageDriverFilesystem,
			MaxUploadBytes: 1 << 20,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_StorageDriver(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Driver = "ftp"
		assert.ErrorContains(t, cfg.Validate(), "invalid storage driver")
	})

	t.Run("s3 without bucket", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Driver = StorageDriverS3
		assert.ErrorContains(t, cfg.Validate(), "S3_BUCKET")
	})

	t.Run("s3 with bucket", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Driver = StorageDriverS3
		cfg.Storage.S3.Bucket = "elise-images"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("zero upload limit", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.MaxUploadBytes = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestExpandDataPath_EmptyUsesDefault(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.expandDataPath())

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "EliseReads", "data"), cfg.Data.BasePath)
}

func TestExpandDataPath_TildeExpansion(t *testing.T) {
	cfg := &Config{Data: DataConfig{BasePath: "~/elise"}}
	require.NoError(t, cfg.expandDataPath())

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "elise"), cfg.Data.BasePath)
}

func TestExpandDataPath_RelativePath(t *testing.T) {
	cfg := &Config{Data: DataConfig{BasePath: "relative/data"}}
	require.NoError(t, cfg.expandDataPath())

	assert.True(t, filepath.IsAbs(cfg.Data.BasePath))
	assert.Equal(t, "data", filepath.Base(cfg.Data.BasePath))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("ELISE_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "ELISE_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "ELISE_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "ELISE_TEST_UNSET", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	for _, v := range []string{"true", "1", "yes", "TRUE"} {
		t.Setenv("ELISE_TEST_BOOL", v)
		assert.True(t, getBoolConfigValue("", "ELISE_TEST_BOOL", false), v)
	}

	t.Setenv("ELISE_TEST_BOOL", "nope")
	assert.False(t, getBoolConfigValue("", "ELISE_TEST_BOOL", true))
	assert.True(t, getBoolConfigValue("", "ELISE_TEST_BOOL_UNSET", true))
}

func TestGetIntConfigValue_InvalidFallsBack(t *testing.T) {
	t.Setenv("ELISE_TEST_INT", "many")
	assert.Equal(t, 20, getIntConfigValue("", "ELISE_TEST_INT", 20))

	t.Setenv("ELISE_TEST_INT", "5")
	assert.Equal(t, 5, getIntConfigValue("", "ELISE_TEST_INT", 20))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		splitList(" https://a.example, ,https://b.example "))
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nELISE_ENVFILE_A=alpha\nELISE_ENVFILE_B=\"quoted value\"\n\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Cleanup(func() {
		_ = os.Unsetenv("ELISE_ENVFILE_A")
		_ = os.Unsetenv("ELISE_ENVFILE_B")
	})

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "alpha", os.Getenv("ELISE_ENVFILE_A"))
	assert.Equal(t, "quoted value", os.Getenv("ELISE_ENVFILE_B"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("NOT_A_PAIR\n"), 0o600))

	err := loadEnvFile(envPath)
	assert.ErrorContains(t, err, "line 1")
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	t.Setenv("ELISE_ENVFILE_KEEP", "original")

	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("ELISE_ENVFILE_KEEP=replaced\n"), 0o600))

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "original", os.Getenv("ELISE_ENVFILE_KEEP"))
}

func TestLoad_YAMLFileLayer(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "elisereads.yaml")
	content := `
env: staging
log_level: debug
data_path: ` + dir + `
server:
  port: "9090"
  read_timeout: 5s
  cors_origins: [https://elise.example]
  trust_proxy: true
auth:
  open_registration: true
  access_token_duration: 10m
storage:
  driver: s3
  s3:
    bucket: gallery
    region: eu-west-1
rate_limit:
  public_per_minute: 3
`
	require.NoError(t, os.WriteFile(yamlPath, []byte(content), 0o600))

	cfg, err := Load([]string{"-config", yamlPath, "-env-file", filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Environment)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, dir, cfg.Data.BasePath)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"https://elise.example"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Server.TrustProxy)
	assert.True(t, cfg.Auth.OpenRegistration)
	assert.Equal(t, 10*time.Minute, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, 720*time.Hour, cfg.Auth.RefreshTokenDuration)
	assert.Equal(t, StorageDriverS3, cfg.Storage.Driver)
	assert.Equal(t, "gallery", cfg.Storage.S3.Bucket)
	assert.Equal(t, "eu-west-1", cfg.Storage.S3.Region)
	assert.Equal(t, 3, cfg.RateLimit.PublicPerMinute)
}

func TestLoad_FlagsAndEnvOverrideYAML(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "elisereads.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("env: staging\nserver:\n  port: \"9090\"\n"), 0o600))

	t.Setenv("ENV", "production")

	cfg, err := Load([]string{
		"-config", yamlPath,
		"-port", "7070",
		"-data-path", dir,
		"-env-file", filepath.Join(dir, "missing.env"),
	})
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Environment)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.False(t, cfg.Server.TrustProxy)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	_, err := Load([]string{
		"-data-path", dir,
		"-access-token-duration", "soon",
		"-env-file", filepath.Join(dir, "missing.env"),
	})
	assert.ErrorContains(t, err, "access_token_duration")
}

func TestLoad_MissingConfigFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Load([]string{
		"-config", filepath.Join(dir, "nope.yaml"),
		"-env-file", filepath.Join(dir, "missing.env"),
	})
	assert.ErrorContains(t, err, "read config file")
}
