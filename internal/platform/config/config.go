package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/anupku07/atm_terminal/internal/utils"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     slog.Level

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	PinRateLimit      string

	CORSAllowedOrigins []string

	// Terminal account
	AccountNumber  string
	HolderName     string
	InitialBalance decimal.Decimal
	Pin            string
	CurrencySymbol string
	PinHashCost    int

	// Analytics; empty key disables PostHog
	PosthogAPIKey   string `mapstructure:"POSTHOG_API_KEY"`
	PosthogEndpoint string `mapstructure:"POSTHOG_ENDPOINT"`
}

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "15m")
	viper.SetDefault("JWT_ISSUER", "atm-terminal")
	viper.SetDefault("PIN_RATE_LIMIT", "5-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("ATM_ACCOUNT_NUMBER", "ACC123456789")
	viper.SetDefault("ATM_HOLDER_NAME", "John Doe")
	viper.SetDefault("ATM_INITIAL_BALANCE", "25000.00")
	viper.SetDefault("ATM_PIN", "1234")
	viper.SetDefault("ATM_CURRENCY_SYMBOL", "Rs")
	viper.SetDefault("PIN_HASH_COST", bcrypt.DefaultCost)
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	levelStr := viper.GetString("LOG_LEVEL")
	if err := cfg.LogLevel.UnmarshalText([]byte(levelStr)); err != nil {
		cfg.LogLevel = slog.LevelInfo
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to %s.\n", levelStr, cfg.LogLevel.String())
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.JWTSecret == defaultJWTSecret && cfg.IsProduction {
		secret, err := utils.GenerateSessionSecret(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		cfg.JWTSecret = secret
		log.Println("Warning: JWT_SECRET not set in production. Using a random per-process key.")
	}

	// Session expiry, e.g. "15m"
	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiryDuration <= 0 {
		jwtExpiryDuration = 15 * time.Minute
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "atm-terminal"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.PinRateLimit = viper.GetString("PIN_RATE_LIMIT")
	if cfg.PinRateLimit == "" {
		cfg.PinRateLimit = "5-M"
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.AccountNumber = viper.GetString("ATM_ACCOUNT_NUMBER")
	cfg.HolderName = viper.GetString("ATM_HOLDER_NAME")
	cfg.Pin = viper.GetString("ATM_PIN")
	cfg.CurrencySymbol = viper.GetString("ATM_CURRENCY_SYMBOL")

	balanceStr := viper.GetString("ATM_INITIAL_BALANCE")
	cfg.InitialBalance, err = decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ATM_INITIAL_BALANCE %q: %w", balanceStr, err)
	}

	cfg.PinHashCost = viper.GetInt("PIN_HASH_COST")
	if cfg.PinHashCost < bcrypt.MinCost || cfg.PinHashCost > bcrypt.MaxCost {
		log.Printf("Warning: Invalid value for PIN_HASH_COST (%d). Defaulting to %d.\n", cfg.PinHashCost, bcrypt.DefaultCost)
		cfg.PinHashCost = bcrypt.DefaultCost
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	return cfg, nil
}
