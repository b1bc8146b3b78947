// Package config loads the application settings from config.yaml, .env and
// VELOCITY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "VELOCITY"

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Source  SourceConfig  `mapstructure:"source"`
	Mail    MailConfig    `mapstructure:"mail"`
	Contact ContactConfig `mapstructure:"contact"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Address        string        `mapstructure:"address"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	TrustedProxies []string      `mapstructure:"trusted_proxies"`
}

// SourceConfig locates the catalog data source
type SourceConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// MailConfig identifies the EmailJS service and template
type MailConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	ServiceID  string        `mapstructure:"service_id"`
	TemplateID string        `mapstructure:"template_id"`
	PublicKey  string        `mapstructure:"public_key"`
	PhoneField string        `mapstructure:"phone_field"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ContactConfig limits contact form submissions per client
type ContactConfig struct {
	Rate  float64 `mapstructure:"rate"`
	Burst int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration into v. A missing config file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load(".env")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.trusted_proxies", []string{})

	v.SetDefault("source.base_url", "http://localhost:3500")
	v.SetDefault("source.timeout", 10*time.Second)

	v.SetDefault("mail.base_url", "https://api.emailjs.com")
	v.SetDefault("mail.service_id", "")
	v.SetDefault("mail.template_id", "")
	v.SetDefault("mail.public_key", "")
	v.SetDefault("mail.phone_field", "user_phone")
	v.SetDefault("mail.timeout", 15*time.Second)

	v.SetDefault("contact.rate", 0.2)
	v.SetDefault("contact.burst", 3)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
