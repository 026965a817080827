package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the server reads from the environment. The garage
// layout (blocks, slots per block, lifts per block) is configuration rather
// than hardcoded totals so a deployment can describe its own site.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	Blocks        []string
	SlotsPerBlock int
	LiftsPerBlock int
	PricePerHour  int

	// Payment-pending bookings older than this are cancelled by the
	// expiry job.
	PendingBookingTTL time.Duration
	ExpiryCronSpec    string

	StripeSecretKey   string
	SendgridAPIKey    string
	SendgridFromEmail string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFromNumber  string

	AllowedOrigins []string
}

func Load() *Config {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		Blocks:            splitList(getEnv("BLOCKS", "BLOCK-A,BLOCK-B,BLOCK-C,BLOCK-D")),
		SlotsPerBlock:     getEnvInt("SLOTS_PER_BLOCK", 40),
		LiftsPerBlock:     getEnvInt("LIFTS_PER_BLOCK", 2),
		PricePerHour:      getEnvInt("PRICE_PER_HOUR", 50),
		PendingBookingTTL: getEnvDuration("PENDING_BOOKING_TTL", 30*time.Minute),
		ExpiryCronSpec:    getEnv("EXPIRY_CRON_SPEC", "@every 5m"),
		StripeSecretKey:   os.Getenv("STRIPE_SECRET_KEY"),
		SendgridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		SendgridFromEmail: os.Getenv("SENDGRID_FROM_EMAIL"),
		TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:  os.Getenv("TWILIO_FROM_NUMBER"),
		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", "*")),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
