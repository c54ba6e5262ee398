package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/wb-go/wbf/retry"
)

type Config struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"local"`
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Render  RenderConfig  `yaml:"render"`
	Upload  UploadConfig  `yaml:"upload"`
	Storage StorageConfig `yaml:"storage"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Retry   RetryConfig   `yaml:"retry"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"SERVER_ADDR" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type SessionConfig struct {
	IdleTTL       time.Duration `yaml:"idle_ttl" env:"SESSION_IDLE_TTL" env-default:"30m"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"SESSION_SWEEP_INTERVAL" env-default:"1m"`
	MailboxSize   int           `yaml:"mailbox_size" env:"SESSION_MAILBOX_SIZE" env-default:"64"`
}

type RenderConfig struct {
	PreviewWidth  int    `yaml:"preview_width" env:"RENDER_PREVIEW_WIDTH" env-default:"1280"`
	MaxWidth      int    `yaml:"max_width" env:"RENDER_MAX_WIDTH" env-default:"3840"`
	SerifFontPath string `yaml:"serif_font_path" env:"RENDER_SERIF_FONT_PATH"`
}

type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes" env:"UPLOAD_MAX_BYTES" env-default:"33554432"`
}

type StorageConfig struct {
	Enabled       bool          `yaml:"enabled" env:"STORAGE_ENABLED" env-default:"false"`
	Endpoint      string        `yaml:"endpoint" env:"STORAGE_ENDPOINT" env-default:"localhost:9000"`
	AccessKey     string        `yaml:"access_key" env:"STORAGE_ACCESS_KEY"`
	SecretKey     string        `yaml:"secret_key" env:"STORAGE_SECRET_KEY"`
	Bucket        string        `yaml:"bucket" env:"STORAGE_BUCKET" env-default:"thumbnails"`
	UseSSL        bool          `yaml:"use_ssl" env:"STORAGE_USE_SSL" env-default:"false"`
	PresignExpiry time.Duration `yaml:"presign_expiry" env:"STORAGE_PRESIGN_EXPIRY" env-default:"1h"`
}

type KafkaConfig struct {
	Enabled     bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers     []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:"," env-default:"localhost:9092"`
	ExportTopic string   `yaml:"export_topic" env:"KAFKA_EXPORT_TOPIC" env-default:"thumbnail-exported"`
}

type RetryConfig struct {
	Attempts int           `yaml:"attempts" env:"RETRY_ATTEMPTS" env-default:"3"`
	Delay    time.Duration `yaml:"delay" env:"RETRY_DELAY" env-default:"200ms"`
	Backoff  float64       `yaml:"backoff" env:"RETRY_BACKOFF" env-default:"2"`
}

// MustLoad reads an optional .env file, then the YAML file named by
// CONFIG_PATH if set, with environment variables taking precedence.
func MustLoad() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Render.PreviewWidth <= 0:
		return fmt.Errorf("render.preview_width must be positive, got %d", c.Render.PreviewWidth)
	case c.Render.MaxWidth < c.Render.PreviewWidth:
		return fmt.Errorf("render.max_width %d is below preview_width %d", c.Render.MaxWidth, c.Render.PreviewWidth)
	case c.Session.MailboxSize < 0:
		return fmt.Errorf("session.mailbox_size must not be negative")
	case c.Storage.Enabled && c.Storage.Bucket == "":
		return fmt.Errorf("storage.bucket is required when storage is enabled")
	case c.Kafka.Enabled && len(c.Kafka.Brokers) == 0:
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	return nil
}

func (c *Config) DefaultRetryStrategy() retry.Strategy {
	return retry.Strategy{
		Attempts: c.Retry.Attempts,
		Delay:    c.Retry.Delay,
		Backoff:  c.Retry.Backoff,
	}
}
