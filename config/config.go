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
	ServiceJWTSecret  string `mapstructure:"SERVICE_JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`

	// Firebase service account credentials for the FCM v1 API.
	FirebaseClientEmail string `mapstructure:"FIREBASE_CLIENT_EMAIL"`
	FirebasePrivateKey  string `mapstructure:"FIREBASE_PRIVATE_KEY"`
	FirebaseProjectID   string `mapstructure:"FIREBASE_PROJECT_ID"`

	// Push dispatch endpoints and identifiers. The channel and category ids
	// must match what the mobile clients register on install.
	OAuthTokenURL        string `mapstructure:"OAUTH_TOKEN_URL"`
	FCMEndpoint          string `mapstructure:"FCM_ENDPOINT"`
	MessagingScope       string `mapstructure:"MESSAGING_SCOPE"`
	CallChannelID        string `mapstructure:"CALL_CHANNEL_ID"`
	DefaultChannelID     string `mapstructure:"DEFAULT_CHANNEL_ID"`
	IOSCallCategory      string `mapstructure:"IOS_CALL_CATEGORY"`
	TokenSafetyMarginSec int    `mapstructure:"TOKEN_SAFETY_MARGIN_SECONDS"`
}

var AppConfig Config

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
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("OAUTH_TOKEN_URL", "https://oauth2.googleapis.com/token")
	viper.SetDefault("FCM_ENDPOINT", "https://fcm.googleapis.com")
	viper.SetDefault("MESSAGING_SCOPE", "https://www.googleapis.com/auth/firebase.messaging")
	viper.SetDefault("CALL_CHANNEL_ID", "calls")
	viper.SetDefault("DEFAULT_CHANNEL_ID", "default")
	viper.SetDefault("IOS_CALL_CATEGORY", "CALL_CATEGORY")
	viper.SetDefault("TOKEN_SAFETY_MARGIN_SECONDS", 60)

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
