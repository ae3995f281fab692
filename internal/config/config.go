package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env            string
	Port           string
	DatabaseURL    string
	JWTSecret      string
	JWTExpiryHours int

	CloudflareAccountID string
	CloudflareAPIToken  string

	MuxTokenID       string
	MuxTokenSecret   string
	MuxWebhookSecret string // empty disables webhook signature verification

	ResendAPIKey string
	MailFrom     string

	FrontendURL string

	RedisURL      string
	LeadRateLimit int // leads per minute per ip+slug; 0 disables
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	expiry := viper.GetInt("JWT_EXPIRY_HOURS")
	if expiry == 0 {
		expiry = 24 * 7
	}

	frontend := viper.GetString("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:3000"
	}

	rate := 10
	if viper.IsSet("LEAD_RATE_LIMIT") {
		rate = viper.GetInt("LEAD_RATE_LIMIT")
	}

	return &Config{
		Env:                 env,
		Port:                port,
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		JWTExpiryHours:      expiry,
		CloudflareAccountID: viper.GetString("CLOUDFLARE_ACCOUNT_ID"),
		CloudflareAPIToken:  viper.GetString("CLOUDFLARE_API_TOKEN"),
		MuxTokenID:          viper.GetString("MUX_TOKEN_ID"),
		MuxTokenSecret:      viper.GetString("MUX_TOKEN_SECRET"),
		MuxWebhookSecret:    viper.GetString("MUX_WEBHOOK_SECRET"),
		ResendAPIKey:        viper.GetString("RESEND_API_KEY"),
		MailFrom:            mailFrom(viper.GetString("MAIL_FROM")),
		FrontendURL:         frontend,
		RedisURL:            viper.GetString("REDIS_URL"),
		LeadRateLimit:       rate,
	}, nil
}

func mailFrom(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "PropertyFlow <notifications@propertyflow.app>"
	}
	return s
}
