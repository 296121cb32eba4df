package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"weather-tracks/internal/models"
)

const (
	DefaultConfigFile = "config/config.yaml"
	DefaultEnvFile    = ".env"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	HTTP     HTTPConfig     `yaml:"http"`
	Spotify  SpotifyConfig  `yaml:"spotify"`
	Forecast ForecastConfig `yaml:"forecast"`
	Chart    ChartConfig    `yaml:"chart"`
	Sentry   SentryConfig   `yaml:"sentry"`
}

type AppConfig struct {
	Name    string `yaml:"name" envconfig:"NAME"`
	Version string `yaml:"version" envconfig:"VERSION"`
	Env     string `yaml:"env" envconfig:"ENV"`
}

type ServerConfig struct {
	Port         string `yaml:"port" envconfig:"PORT"`
	ReadTimeout  int    `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout int    `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout  int    `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

// HTTPConfig applies to every outbound call.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

type SpotifyConfig struct {
	ClientID     string `yaml:"client_id" envconfig:"CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" envconfig:"CLIENT_SECRET"`
	TokenURL     string `yaml:"token_url" envconfig:"TOKEN_URL"`
	SearchURL    string `yaml:"search_url" envconfig:"SEARCH_URL"`
	Query        string `yaml:"query" envconfig:"QUERY"`
}

type ForecastConfig struct {
	BaseURL   string  `yaml:"base_url" envconfig:"BASE_URL"`
	UserAgent string  `yaml:"user_agent" envconfig:"USER_AGENT"`
	Lat       float64 `yaml:"lat" envconfig:"LAT"`
	Lon       float64 `yaml:"lon" envconfig:"LON"`
	RateLimit float64 `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
	Burst     int     `yaml:"burst" envconfig:"BURST"`
}

type ChartConfig struct {
	Output string  `yaml:"output" envconfig:"OUTPUT"`
	Title  string  `yaml:"title" envconfig:"TITLE"`
	Width  float64 `yaml:"width_in" envconfig:"WIDTH_IN"`
	Height float64 `yaml:"height_in" envconfig:"HEIGHT_IN"`
	DPI    int     `yaml:"dpi" envconfig:"DPI"`
	Show   bool    `yaml:"show" envconfig:"SHOW"`
}

type SentryConfig struct {
	DSN   string `yaml:"dsn" envconfig:"DSN"`
	Debug bool   `yaml:"debug" envconfig:"DEBUG"`
}

// ConfigProvider loads and validates a Config.
type ConfigProvider interface {
	Load() (*Config, error)
	Validate(config *Config) error
}

// FileConfigProvider layers defaults, an optional .env file, an optional
// YAML file and the process environment, in that order.
type FileConfigProvider struct {
	path    string
	envFile string
}

func NewFileConfigProvider(path string) *FileConfigProvider {
	return &FileConfigProvider{
		path:    path,
		envFile: DefaultEnvFile,
	}
}

// WithEnvFile points the provider at a different dotenv file; "" disables it.
func (p *FileConfigProvider) WithEnvFile(path string) *FileConfigProvider {
	p.envFile = path
	return p
}

func (p *FileConfigProvider) Load() (*Config, error) {
	cnf := Defaults()

	if err := p.loadEnvFile(); err != nil {
		return nil, err
	}

	if err := p.loadFromFile(cnf); err != nil {
		return nil, err
	}

	// Environment variables override the file.
	if err := envconfig.Process("", cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	// Unprefixed names kept for existing .env files.
	if cnf.Spotify.ClientID == "" {
		cnf.Spotify.ClientID = os.Getenv("CLIENT_ID")
	}
	if cnf.Spotify.ClientSecret == "" {
		cnf.Spotify.ClientSecret = os.Getenv("CLIENT_SECRET")
	}

	return cnf, nil
}

func (p *FileConfigProvider) loadEnvFile() error {
	if p.envFile == "" {
		return nil
	}
	// godotenv.Load never overrides variables that are already set.
	if err := godotenv.Load(p.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", p.envFile, err)
	}
	return nil
}

func (p *FileConfigProvider) loadFromFile(cnf *Config) error {
	yamlData, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", p.path, err)
	}
	if err := yaml.Unmarshal(yamlData, cnf); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

func (p *FileConfigProvider) Validate(config *Config) error {
	var problems []string

	if strings.TrimSpace(config.App.Name) == "" {
		problems = append(problems, "app.name is required")
	}
	if strings.TrimSpace(config.Server.Port) == "" {
		problems = append(problems, "server.port is required")
	}
	if config.HTTP.Timeout <= 0 {
		problems = append(problems, "http.timeout must be positive")
	}
	if strings.TrimSpace(config.Forecast.UserAgent) == "" {
		problems = append(problems, "forecast.user_agent is required")
	}
	if config.Forecast.Lat < -90 || config.Forecast.Lat > 90 {
		problems = append(problems, "forecast.lat must be between -90 and 90")
	}
	if config.Forecast.Lon < -180 || config.Forecast.Lon > 180 {
		problems = append(problems, "forecast.lon must be between -180 and 180")
	}
	if config.Forecast.RateLimit < 0 {
		problems = append(problems, "forecast.rate_limit must not be negative")
	}
	if strings.TrimSpace(config.Chart.Output) == "" {
		problems = append(problems, "chart.output is required")
	}
	if config.Chart.Width <= 0 || config.Chart.Height <= 0 || config.Chart.DPI <= 0 {
		problems = append(problems, "chart dimensions must be positive")
	}

	switch config.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not supported", config.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:    "weather-tracks",
			Version: "1.0.0",
			Env:     "development",
		},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  10,
			WriteTimeout: 10,
			IdleTimeout:  120,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		HTTP: HTTPConfig{
			Timeout: 15 * time.Second,
		},
		Spotify: SpotifyConfig{
			TokenURL:  "https://accounts.spotify.com/api/token",
			SearchURL: "https://api.spotify.com/v1/search",
			Query:     "remaster track:Cry For Me artist:The Weeknd",
		},
		Forecast: ForecastConfig{
			BaseURL:   "https://api.met.no/weatherapi/locationforecast/2.0/compact.json",
			UserAgent: "weather-tracks/1.0 github.com/weather-tracks",
			Lat:       63.370918,
			Lon:       10.380253,
			RateLimit: 10,
			Burst:     5,
		},
		Chart: ChartConfig{
			Output: "weather_plot.png",
			Title:  "Trondheim Weather Forecast Overview",
			Width:  10,
			Height: 12,
			DPI:    150,
		},
	}
}

func NewConfig() (*Config, error) {
	return NewConfigWithProvider(NewFileConfigProvider(DefaultConfigFile))
}

func NewConfigWithProvider(provider ConfigProvider) (*Config, error) {
	cnf, err := provider.Load()
	if err != nil {
		return nil, err
	}
	if err := provider.Validate(cnf); err != nil {
		return nil, err
	}
	return cnf, nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c *Config) Credentials() models.Credentials {
	return models.Credentials{
		ClientID:     c.Spotify.ClientID,
		ClientSecret: c.Spotify.ClientSecret,
	}
}
