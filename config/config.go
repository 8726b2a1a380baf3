package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB          int    `mapstructure:"REDIS_AUTH_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Stripe configuration. StripeMode records which processor environment
	// ("test" or "live") this process talks to; stored account/customer ids
	// carry the same tag so cross-environment reuse can be detected.
	StripeSecretKey string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeMode      string `mapstructure:"STRIPE_MODE"`

	// Fee schedule. Rates are fractions (0.05 == 5%), amounts in major
	// currency units.
	PlatformFeeRate     float64 `mapstructure:"PLATFORM_FEE_RATE"`
	ProcessorFeePercent float64 `mapstructure:"PROCESSOR_FEE_PERCENT"`
	ProcessorFeeFixed   float64 `mapstructure:"PROCESSOR_FEE_FIXED"`
	DefaultCurrency     string  `mapstructure:"DEFAULT_CURRENCY"`

	// Cloudinary media storage.
	CloudinaryURL string `mapstructure:"CLOUDINARY_URL"`

	// Static token for the back-office endpoints.
	AdminAPIToken string `mapstructure:"ADMIN_API_TOKEN"`
}

var AppConfig Config

// FirebaseServiceAccountKeyPath points at the service-account JSON used for
// the identity provider and FCM clients.
var FirebaseServiceAccountKeyPath = "config/serviceAccountKey.json"

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("STRIPE_MODE", "test")
	viper.SetDefault("PLATFORM_FEE_RATE", 0.05)
	viper.SetDefault("PROCESSOR_FEE_PERCENT", 0.029)
	viper.SetDefault("PROCESSOR_FEE_FIXED", 0.30)
	viper.SetDefault("DEFAULT_CURRENCY", "usd")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
