package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port            string
	MongoURI        string
	DBName          string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	StripeSecretKey     string
	StripeWebhookSecret string

	SendgridAPIKey string
	EmailFrom      string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	FrontendURL string
	ClientURL   string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		Port:            getEnvOrDefault("PORT", "5000"),
		MongoURI:        getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:          getEnvOrDefault("DB_NAME", "luxe"),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:  getDurationEnv("ACCESS_TOKEN_TTL", 15, time.Minute),
		RefreshTokenTTL: getDurationEnv("REFRESH_TOKEN_TTL", 7, 24*time.Hour),

		StripeSecretKey:     getEnvOrDefault("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnvOrDefault("STRIPE_WEBHOOK_SECRET", ""),

		SendgridAPIKey: getEnvOrDefault("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnvOrDefault("EMAIL_FROM", "no-reply@luxe.store"),

		CloudinaryCloudName: getEnvOrDefault("CLOUDINARY_CLIENT_NAME", ""),
		CloudinaryAPIKey:    getEnvOrDefault("CLOUDINARY_CLIENT_API", ""),
		CloudinaryAPISecret: getEnvOrDefault("CLOUDINARY_CLIENT_SECRET", ""),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		ClientURL:   getEnvOrDefault("CLIENT_URL", "https://luxe.store"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
