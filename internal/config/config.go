package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	OpenAI    OpenAIConfig
	Inventory InventoryConfig
	Session   SessionConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// RequestTimeout bounds a whole /chat round trip.
	RequestTimeout time.Duration
	// ShutdownTimeout bounds how long in-flight chats may drain on exit.
	ShutdownTimeout time.Duration
	StaticDir       string
	// ChatRate and ChatBurst throttle /chat per client IP. Zero disables.
	ChatRate  float64
	ChatBurst int
}

type OpenAIConfig struct {
	Provider       string
	APIKey         string
	APIEndpoint    string
	Model          string
	DeploymentName string
	APIVersion     string
	Temperature    float64
	MaxTokens      int64
	Timeout        time.Duration
}

type InventoryConfig struct {
	URL     string
	Timeout time.Duration
	// Rate and Burst throttle fetches against the upstream feed.
	Rate  float64
	Burst int
}

type SessionConfig struct {
	IdleTTL       time.Duration
	MaxSessions   int
	SweepInterval time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

var defaults = map[string]any{
	"PORT":                    "8080",
	"SERVER_HOST":             "0.0.0.0",
	"SERVER_READ_TIMEOUT":     "30s",
	"SERVER_WRITE_TIMEOUT":    "90s",
	"SERVER_REQUEST_TIMEOUT":  "75s",
	"SERVER_SHUTDOWN_TIMEOUT": "30s",
	"STATIC_DIR":              "web/static",
	"CHAT_RATE":               2.0,
	"CHAT_BURST":              5,

	"OPENAI_PROVIDER":    "openai",
	"OPENAI_ENDPOINT":    "https://api.openai.com/v1",
	"OPENAI_MODEL":       "gpt-4o-mini",
	"OPENAI_DEPLOYMENT":  "gpt-4o-mini",
	"OPENAI_API_VERSION": "2024-06-01",
	"OPENAI_TEMPERATURE": 0.7,
	"OPENAI_MAX_TOKENS":  1000,
	"LLM_TIMEOUT":        "45s",

	"INVENTORY_TIMEOUT": "15s",
	"INVENTORY_RATE":    10.0,
	"INVENTORY_BURST":   10,

	"SESSION_IDLE_TTL":       "2h",
	"SESSION_MAX":            10000,
	"SESSION_SWEEP_INTERVAL": "5m",

	"LOG_LEVEL":  "info",
	"LOG_FORMAT": "text",
}

// LoadConfig reads configuration from the environment, a .env file and an
// optional config.yaml in the working directory, in increasing order of
// precedence: file, then environment.
func LoadConfig() (*Config, error) {
	// The .env file is optional.
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := fromViper(v)
	slog.Info("configuration loaded successfully")
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			Host:            v.GetString("SERVER_HOST"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			RequestTimeout:  v.GetDuration("SERVER_REQUEST_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			StaticDir:       v.GetString("STATIC_DIR"),
			ChatRate:        v.GetFloat64("CHAT_RATE"),
			ChatBurst:       v.GetInt("CHAT_BURST"),
		},
		OpenAI: OpenAIConfig{
			Provider:       v.GetString("OPENAI_PROVIDER"),
			APIKey:         v.GetString("OPENAI_API_KEY"),
			APIEndpoint:    v.GetString("OPENAI_ENDPOINT"),
			Model:          v.GetString("OPENAI_MODEL"),
			DeploymentName: v.GetString("OPENAI_DEPLOYMENT"),
			APIVersion:     v.GetString("OPENAI_API_VERSION"),
			Temperature:    v.GetFloat64("OPENAI_TEMPERATURE"),
			MaxTokens:      v.GetInt64("OPENAI_MAX_TOKENS"),
			Timeout:        v.GetDuration("LLM_TIMEOUT"),
		},
		Inventory: InventoryConfig{
			URL:     v.GetString("CAR_API_URL"),
			Timeout: v.GetDuration("INVENTORY_TIMEOUT"),
			Rate:    v.GetFloat64("INVENTORY_RATE"),
			Burst:   v.GetInt("INVENTORY_BURST"),
		},
		Session: SessionConfig{
			IdleTTL:       v.GetDuration("SESSION_IDLE_TTL"),
			MaxSessions:   v.GetInt("SESSION_MAX"),
			SweepInterval: v.GetDuration("SESSION_SWEEP_INTERVAL"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

// Validate checks the settings the chat server cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.OpenAI.APIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required"))
	}
	if c.Inventory.URL == "" {
		errs = append(errs, errors.New("CAR_API_URL is required"))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("PORT cannot be empty"))
	}
	return errors.Join(errs...)
}
