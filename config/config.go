package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig defines the HTTP server configuration.
type ServerConfig struct {
	Port      int    `mapstructure:"port" yaml:"port"`
	StaticDir string `mapstructure:"static_dir" yaml:"static_dir"`
}

// ProviderConfig selects and configures the completion provider.
type ProviderConfig struct {
	Name       string        `mapstructure:"name" yaml:"name"`
	APIKey     string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url"`
	Model      string        `mapstructure:"model" yaml:"model"`
	OllamaHost string        `mapstructure:"ollama_host" yaml:"ollama_host"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// BuilderConfig defines the chat request parameters.
type BuilderConfig struct {
	HistoryLimit int     `mapstructure:"history_limit" yaml:"history_limit"`
	ContextChars int     `mapstructure:"context_chars" yaml:"context_chars"`
	MaxTokens    int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature  float32 `mapstructure:"temperature" yaml:"temperature"`
	Endpoint     string  `mapstructure:"endpoint" yaml:"endpoint"`
}

// UploadConfig defines which uploaded files are kept.
type UploadConfig struct {
	MaxFileSize int64    `mapstructure:"max_file_size" yaml:"max_file_size"`
	MaxFiles    int      `mapstructure:"max_files" yaml:"max_files"`
	IgnoreGlobs []string `mapstructure:"ignore_globs" yaml:"ignore_globs"`
	MaxZipSize  int64    `mapstructure:"max_zip_size" yaml:"max_zip_size"`
}

// WaitlistConfig defines where waitlist entries are stored.
type WaitlistConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LoggingConfig defines the logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// Config is the top-level configuration struct.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Provider ProviderConfig `mapstructure:"provider" yaml:"provider"`
	Builder  BuilderConfig  `mapstructure:"builder" yaml:"builder"`
	Upload   UploadConfig   `mapstructure:"upload" yaml:"upload"`
	Waitlist WaitlistConfig `mapstructure:"waitlist" yaml:"waitlist"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// AppConfig holds the loaded configuration.
var AppConfig *Config

// EnvPrefix prefixes every environment override, e.g. BUILDER_SERVER_PORT.
const EnvPrefix = "BUILDER"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.static_dir", "")

	v.SetDefault("provider.name", "openai")
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.model", "gpt-4o")
	v.SetDefault("provider.ollama_host", "")
	v.SetDefault("provider.timeout", 2*time.Minute)

	v.SetDefault("builder.history_limit", 10)
	v.SetDefault("builder.context_chars", 8000)
	v.SetDefault("builder.max_tokens", 4000)
	v.SetDefault("builder.temperature", 0.7)
	v.SetDefault("builder.endpoint", "")

	v.SetDefault("upload.max_file_size", 1<<20)
	v.SetDefault("upload.max_files", 2000)
	v.SetDefault("upload.max_zip_size", 50<<20)
	v.SetDefault("upload.ignore_globs", []string{})

	v.SetDefault("waitlist.path", "data/waitlist.json")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
}

// Load reads the configuration. An empty path looks for an optional config.yaml in the working
// directory; an explicit path must exist. Environment variables override the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("provider.api_key", EnvPrefix+"_PROVIDER_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind api key: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// LoadConfig loads the configuration into AppConfig.
func LoadConfig(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}
