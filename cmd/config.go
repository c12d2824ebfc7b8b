package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort   string `mapstructure:"HTTP_PORT"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSslMode  string `mapstructure:"DB_SSLMODE"`

	JWTSecret           string `mapstructure:"JWT_SECRET"`
	StripeAPIKey        string `mapstructure:"STRIPE_API_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripeAPIURL        string `mapstructure:"STRIPE_API_URL"`
	PaymentCurrency     string `mapstructure:"PAYMENT_CURRENCY"`
	DeliveryFee         string `mapstructure:"DELIVERY_FEE"`

	RestaurantServiceURL string        `mapstructure:"RESTAURANT_SERVICE_URL"`
	CartServiceURL       string        `mapstructure:"CART_SERVICE_URL"`
	IdentityServiceURL   string        `mapstructure:"IDENTITY_SERVICE_URL"`
	CollaboratorTimeout  time.Duration `mapstructure:"COLLABORATOR_TIMEOUT"`

	SMSGatewayURL      string `mapstructure:"SMS_GATEWAY_URL"`
	WhatsAppGatewayURL string `mapstructure:"WHATSAPP_GATEWAY_URL"`
	SESFromEmail       string `mapstructure:"SES_FROM_EMAIL"`
	AWSRegion          string `mapstructure:"AWS_REGION"`
	NotifyChannels     string `mapstructure:"NOTIFY_CHANNELS"`
	NotifyWorkers      int    `mapstructure:"NOTIFY_WORKERS"`
	NotifyQueueSize    int    `mapstructure:"NOTIFY_QUEUE_SIZE"`

	DispatchSchedule string `mapstructure:"DISPATCH_SCHEDULE"`
	SimulationSteps  int    `mapstructure:"SIMULATION_STEPS"`
	LogJSON          bool   `mapstructure:"LOG_JSON"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
}

func defaults() map[string]any {
	return map[string]any{
		"HTTP_PORT":              "8080",
		"DB_HOST":                "localhost",
		"DB_PORT":                "5432",
		"DB_USER":                "postgres",
		"DB_PASSWORD":            "",
		"DB_NAME":                "fulfillment",
		"DB_SSLMODE":             "disable",
		"JWT_SECRET":             "",
		"STRIPE_API_KEY":         "",
		"STRIPE_WEBHOOK_SECRET":  "",
		"STRIPE_API_URL":         "",
		"PAYMENT_CURRENCY":       "usd",
		"DELIVERY_FEE":           "150",
		"RESTAURANT_SERVICE_URL": "http://localhost:8081",
		"CART_SERVICE_URL":       "http://localhost:8082",
		"IDENTITY_SERVICE_URL":   "http://localhost:8083",
		"COLLABORATOR_TIMEOUT":   "3s",
		"SMS_GATEWAY_URL":        "",
		"WHATSAPP_GATEWAY_URL":   "",
		"SES_FROM_EMAIL":         "",
		"AWS_REGION":             "us-east-1",
		"NOTIFY_CHANNELS":        "email,sms",
		"NOTIFY_WORKERS":         4,
		"NOTIFY_QUEUE_SIZE":      256,
		"DISPATCH_SCHEDULE":      "*/5 * * * * *",
		"SIMULATION_STEPS":       20,
		"LOG_JSON":               false,
		"LOG_LEVEL":              "info",
	}
}

// LoadConfig reads dir/.env when present, then the process environment.
// Environment variables win over the file.
func LoadConfig(dir string) (Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings that have no usable default.
func (c Config) Validate() error {
	var err error
	if c.JWTSecret == "" {
		err = errors.Join(err, errors.New("JWT_SECRET is required"))
	}
	if c.StripeWebhookSecret == "" {
		err = errors.Join(err, errors.New("STRIPE_WEBHOOK_SECRET is required"))
	}
	if c.StripeWebhookSecret != "" && c.StripeWebhookSecret == c.JWTSecret {
		err = errors.Join(err, errors.New("STRIPE_WEBHOOK_SECRET must differ from JWT_SECRET"))
	}
	if c.CollaboratorTimeout <= 0 {
		err = errors.Join(err, errors.New("COLLABORATOR_TIMEOUT must be positive"))
	}
	return err
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
