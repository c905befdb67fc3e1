package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mgramigna/gramigna.dev/internal/site"
	"github.com/spf13/viper"
)

const (
	SourceDir = "dir"
	SourceS3  = "s3"
)

type Config struct {
	Port     string         `mapstructure:"port"`
	Content  ContentConfig  `mapstructure:"content"`
	S3       S3Config       `mapstructure:"s3"`
	AWS      AWSConfig      `mapstructure:"aws"`
	Output   DirConfig      `mapstructure:"output"`
	Static   DirConfig      `mapstructure:"static"`
	Database URLConfig      `mapstructure:"database"`
	RabbitMQ URLConfig      `mapstructure:"rabbitmq"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Markdown MarkdownConfig `mapstructure:"markdown"`
	Log      LogConfig      `mapstructure:"log"`
	Site     site.Site      `mapstructure:"site"`
}

type ContentConfig struct {
	Source     string `mapstructure:"source"`
	Dir        string `mapstructure:"dir"`
	Collection string `mapstructure:"collection"`
}

type S3Config struct {
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
	Endpoint string `mapstructure:"endpoint"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
}

type DirConfig struct {
	Dir string `mapstructure:"dir"`
}

type URLConfig struct {
	URL string `mapstructure:"url"`
}

type MetricsConfig struct {
	Token string `mapstructure:"token"`
}

type MarkdownConfig struct {
	Sanitize bool `mapstructure:"sanitize"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads .env, then the optional site config file, then the environment.
// Environment keys are the config keys upper-cased with "." replaced by "_",
// e.g. DATABASE_URL or S3_BUCKET.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Default().Warn("loading .env failed", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("site")
		v.SetConfigType("yaml")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("content.source", SourceDir)
	v.SetDefault("content.dir", "content")
	v.SetDefault("content.collection", "blog")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.prefix", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("output.dir", "dist")
	v.SetDefault("static.dir", "public")
	v.SetDefault("database.url", "")
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("metrics.token", "")
	v.SetDefault("markdown.sanitize", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("site.title", site.Title)
	v.SetDefault("site.description", site.Description)
	v.SetDefault("site.base_url", "")
	v.SetDefault("site.intro", site.Intro)
	v.SetDefault("site.projects", []site.Project{})
}

func (c *Config) Validate() error {
	switch c.Content.Source {
	case SourceDir:
		if c.Content.Dir == "" {
			return errors.New("content.dir is required for the dir source")
		}
	case SourceS3:
		if c.S3.Bucket == "" {
			return errors.New("S3_BUCKET is required for the s3 source")
		}
	default:
		return fmt.Errorf("unknown content.source %q", c.Content.Source)
	}
	if c.Content.Collection == "" {
		return errors.New("content.collection is required")
	}
	return nil
}

func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
