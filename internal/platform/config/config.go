package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret string
	JWTIssuer string
	// TokenExpiryDuration of zero disables the expiry claim on issued tokens.
	// Expiry is a deployment policy, not a hardcoded behavior.
	TokenExpiryDuration time.Duration

	// SMTP delivery settings.
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
	EmailFrom       string
	DeliveryTimeout time.Duration

	// Report attachment storage.
	UploadDir      string
	MaxUploadSize  int64 // bytes, per file
	MaxUploadFiles int

	// External OAuth provider (admin Google sign-in).
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "work-order-app")
	viper.SetDefault("TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("EMAIL_FROM", "")
	viper.SetDefault("DELIVERY_TIMEOUT", "30s")
	viper.SetDefault("UPLOAD_DIR", "uploads/reports")
	viper.SetDefault("MAX_UPLOAD_SIZE", 10*1024*1024)
	viper.SetDefault("MAX_UPLOAD_FILES", 10)
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	// A literal "0" disables token expiry.
	tokenExpiryStr := viper.GetString("TOKEN_EXPIRY_DURATION")
	if tokenExpiryStr == "0" {
		cfg.TokenExpiryDuration = 0
		log.Println("Warning: TOKEN_EXPIRY_DURATION is 0; issued tokens never expire.")
	} else {
		tokenExpiry, err := time.ParseDuration(tokenExpiryStr)
		if err != nil {
			tokenExpiry = time.Hour * 24 * 7
			log.Printf("Warning: Invalid value for TOKEN_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", tokenExpiryStr, tokenExpiry.String())
		}
		cfg.TokenExpiryDuration = tokenExpiry
	}

	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = viper.GetInt("SMTP_PORT")
	cfg.SMTPUsername = viper.GetString("SMTP_USERNAME")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	cfg.EmailFrom = viper.GetString("EMAIL_FROM")
	if cfg.SMTPHost == "" {
		log.Println("Warning: SMTP_HOST not set. Email delivery will fail until configured.")
	}

	deliveryTimeoutStr := viper.GetString("DELIVERY_TIMEOUT")
	deliveryTimeout, err := time.ParseDuration(deliveryTimeoutStr)
	if err != nil {
		deliveryTimeout = 30 * time.Second
		log.Printf("Warning: Invalid value for DELIVERY_TIMEOUT ('%s'). Defaulting to %s.\n", deliveryTimeoutStr, deliveryTimeout.String())
	}
	cfg.DeliveryTimeout = deliveryTimeout

	cfg.UploadDir = viper.GetString("UPLOAD_DIR")
	cfg.MaxUploadSize = viper.GetInt64("MAX_UPLOAD_SIZE")
	cfg.MaxUploadFiles = viper.GetInt("MAX_UPLOAD_FILES")

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}

	return cfg, nil
}
