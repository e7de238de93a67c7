package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Auth   AuthConfig
	Stripe StripeConfig
	Assets AssetsConfig
	Email  EmailConfig
	Log    LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port      string `envconfig:"PORT" default:"8000"`
	ClientURL string `envconfig:"CLIENT_URL" default:"http://localhost:3000"`
}

// MongoConfig holds document-store configuration.
type MongoConfig struct {
	URI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	Database string `envconfig:"MONGO_DB" default:"storefront"`
}

// RedisConfig holds cache configuration.
type RedisConfig struct {
	URL string `envconfig:"REDIS_URL" default:"redis://localhost:6379"`
}

// AuthConfig holds token configuration.
// JWT_SECRET must be set in production.
type AuthConfig struct {
	JWTSecret     string `envconfig:"JWT_SECRET" default:"your_secret_key"` // CHANGE IN PRODUCTION
	SecureCookies bool   `envconfig:"SECURE_COOKIES" default:"false"`       // set true behind TLS
}

// StripeConfig holds payment-provider configuration.
type StripeConfig struct {
	SecretKey string `envconfig:"STRIPE_SECRET_KEY"`
}

// AssetsConfig holds image-host configuration.
type AssetsConfig struct {
	CloudinaryURL string `envconfig:"CLOUDINARY_URL"`
}

// EmailConfig holds outbound email configuration.
type EmailConfig struct {
	SendGridKey string `envconfig:"SENDGRID_API_KEY"`
	Sender      string `envconfig:"EMAIL_SENDER" default:"orders@example.com"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// Load parses environment variables into the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
