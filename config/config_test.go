package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolatedProvider(t *testing.T, yamlPath string) *FileConfigProvider {
	t.Helper()
	return NewFileConfigProvider(yamlPath).WithEnvFile(filepath.Join(t.TempDir(), "missing.env"))
}

func TestNewConfig(t *testing.T) {
	// Test with default values (without config file)
	config, err := NewConfigWithProvider(isolatedProvider(t, "nonexistent.yaml"))
	require.NoError(t, err)
	assert.NotNil(t, config)

	assert.Equal(t, "weather-tracks", config.App.Name)
	assert.Equal(t, "1.0.0", config.App.Version)
	assert.Equal(t, "development", config.App.Env)
	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, 10, config.Server.ReadTimeout)
	assert.Equal(t, 120, config.Server.IdleTimeout)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, 15*time.Second, config.HTTP.Timeout)
	assert.Equal(t, "https://accounts.spotify.com/api/token", config.Spotify.TokenURL)
	assert.Equal(t, "weather_plot.png", config.Chart.Output)
	assert.False(t, config.Chart.Show)
	assert.NotEmpty(t, config.Forecast.UserAgent)
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	t.Setenv("APP_NAME", "test-app")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("SPOTIFY_CLIENT_ID", "id-from-env")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret-from-env")
	t.Setenv("FORECAST_LAT", "59.91")
	t.Setenv("CHART_SHOW", "true")

	config, err := NewConfigWithProvider(isolatedProvider(t, "nonexistent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "test-app", config.App.Name)
	assert.Equal(t, "production", config.App.Env)
	assert.Equal(t, "9090", config.Server.Port)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, 3*time.Second, config.HTTP.Timeout)
	assert.Equal(t, "id-from-env", config.Spotify.ClientID)
	assert.Equal(t, "secret-from-env", config.Spotify.ClientSecret)
	assert.InDelta(t, 59.91, config.Forecast.Lat, 1e-9)
	assert.True(t, config.Chart.Show)
	assert.True(t, config.IsProduction())
}

func TestConfig_LegacyCredentialNames(t *testing.T) {
	t.Setenv("CLIENT_ID", "legacy-id")
	t.Setenv("CLIENT_SECRET", "legacy-secret")

	config, err := NewConfigWithProvider(isolatedProvider(t, "nonexistent.yaml"))
	require.NoError(t, err)

	creds := config.Credentials()
	assert.Equal(t, "legacy-id", creds.ClientID)
	assert.Equal(t, "legacy-secret", creds.ClientSecret)
	assert.True(t, creds.Complete())
}

func TestConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SPOTIFY_CLIENT_ID=dotenv-id\nSPOTIFY_CLIENT_SECRET=dotenv-secret\n"), 0o600))

	// The real environment wins over the file.
	t.Setenv("SPOTIFY_CLIENT_SECRET", "real-secret")
	t.Cleanup(func() { os.Unsetenv("SPOTIFY_CLIENT_ID") })

	provider := NewFileConfigProvider("nonexistent.yaml").WithEnvFile(envFile)
	config, err := NewConfigWithProvider(provider)
	require.NoError(t, err)

	assert.Equal(t, "dotenv-id", config.Spotify.ClientID)
	assert.Equal(t, "real-secret", config.Spotify.ClientSecret)
}

func TestFileConfigProvider_LoadFromFile(t *testing.T) {
	provider := isolatedProvider(t, "nonexistent.yaml")
	config := &Config{}

	// Test loading from non-existent file (should not error)
	err := provider.loadFromFile(config)
	assert.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: from-yaml
http:
  timeout: 7s
forecast:
  user_agent: "yaml-agent/2.0"
  lat: 52.52
chart:
  output: out/forecast.png
`), 0o600))

	config, err = NewConfigWithProvider(isolatedProvider(t, path))
	require.NoError(t, err)
	assert.Equal(t, "from-yaml", config.App.Name)
	assert.Equal(t, 7*time.Second, config.HTTP.Timeout)
	assert.Equal(t, "yaml-agent/2.0", config.Forecast.UserAgent)
	assert.InDelta(t, 52.52, config.Forecast.Lat, 1e-9)
	assert.Equal(t, "out/forecast.png", config.Chart.Output)
	// Untouched keys keep their defaults.
	assert.Equal(t, 150, config.Chart.DPI)
}

func TestFileConfigProvider_BrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: [unterminated"), 0o600))

	_, err := NewConfigWithProvider(isolatedProvider(t, path))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML config")
}

func TestConfigValidation(t *testing.T) {
	provider := isolatedProvider(t, "nonexistent.yaml")

	assert.NoError(t, provider.Validate(Defaults()))

	invalidConfig := Defaults()
	invalidConfig.App.Name = ""
	invalidConfig.HTTP.Timeout = 0
	invalidConfig.Forecast.UserAgent = " "
	invalidConfig.Forecast.Lat = 91
	invalidConfig.Log.Level = "verbose"

	err := provider.Validate(invalidConfig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.name is required")
	assert.Contains(t, err.Error(), "http.timeout must be positive")
	assert.Contains(t, err.Error(), "forecast.user_agent is required")
	assert.Contains(t, err.Error(), "forecast.lat must be between -90 and 90")
	assert.Contains(t, err.Error(), `log.level "verbose" is not supported`)
}

func TestConfigHelperMethods(t *testing.T) {
	config := Defaults()

	assert.True(t, config.IsDevelopment())
	assert.False(t, config.IsProduction())
	assert.False(t, config.Credentials().Complete())
}

func TestNewConfigWithProvider(t *testing.T) {
	mockProvider := &MockConfigProvider{config: Defaults()}
	mockProvider.config.App.Name = "test-app"

	config, err := NewConfigWithProvider(mockProvider)
	require.NoError(t, err)
	assert.Equal(t, "test-app", config.App.Name)

	_, err = NewConfigWithProvider(&MockConfigProvider{err: assert.AnError})
	assert.ErrorIs(t, err, assert.AnError)
}

// MockConfigProvider for testing
type MockConfigProvider struct {
	config *Config
	err    error
}

func (m *MockConfigProvider) Load() (*Config, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.config, nil
}

func (m *MockConfigProvider) Validate(config *Config) error {
	return nil
}
