package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Environment    string   `mapstructure:"ENVIRONMENT"`
	Version        string   `mapstructure:"VERSION"`
	TrustedOrigins []string `mapstructure:"TRUSTED_ORIGINS"`
	SiteURL        string   `mapstructure:"SITE_URL"`
	StaticDir      string   `mapstructure:"STATIC_DIR"`

	DBHost     string `mapstructure:"POSTGRES_HOST"`
	DBPort     string `mapstructure:"POSTGRES_PORT"`
	DBUser     string `mapstructure:"POSTGRES_USER"`
	DBPassword string `mapstructure:"POSTGRES_PASSWORD"`
	DBName     string `mapstructure:"POSTGRES_DB"`
	DBSSLMode  string `mapstructure:"POSTGRES_SSLMODE"`

	MailHost     string `mapstructure:"MAIL_HOST"`
	MailPort     int    `mapstructure:"MAIL_PORT"`
	MailUser     string `mapstructure:"MAIL_USER"`
	MailPassword string `mapstructure:"MAIL_PASSWORD"`
	MailSender   string `mapstructure:"MAIL_SENDER"`

	MQHost     string `mapstructure:"RABBITMQ_HOST"`
	MQPort     string `mapstructure:"RABBITMQ_PORT"`
	MQUser     string `mapstructure:"RABBITMQ_USER"`
	MQPassword string `mapstructure:"RABBITMQ_PASSWORD"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	UploadEndpoint string `mapstructure:"UPLOAD_ENDPOINT"`
	UploadPreset   string `mapstructure:"UPLOAD_PRESET"`
	UploadFolder   string `mapstructure:"UPLOAD_FOLDER"`

	ContactRecipient    string        `mapstructure:"CONTACT_RECIPIENT"`
	TestimonialInterval time.Duration `mapstructure:"TESTIMONIAL_INTERVAL"`

	RateLimitRPS     float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int     `mapstructure:"RATE_LIMIT_BURST"`
	RateLimitEnabled bool    `mapstructure:"RATE_LIMIT_ENABLED"`
}

func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("VERSION", "dev")
	v.SetDefault("TRUSTED_ORIGINS", []string{})
	v.SetDefault("SITE_URL", "http://localhost:8080")
	v.SetDefault("STATIC_DIR", "web/dist")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("MAIL_PORT", 587)
	v.SetDefault("RABBITMQ_PORT", "5672")
	v.SetDefault("UPLOAD_FOLDER", "startuphub")
	v.SetDefault("TESTIMONIAL_INTERVAL", "6s")
	v.SetDefault("RATE_LIMIT_RPS", 2)
	v.SetDefault("RATE_LIMIT_BURST", 4)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Environment == "production" && config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return &config, nil
}

func (c *Config) amqpURI() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.MQUser, c.MQPassword, c.MQHost, c.MQPort)
}

func (c *Config) databaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}
