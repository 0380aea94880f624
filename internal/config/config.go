package config

import (
	"os"
	"time"
)

// PaymentLinks holds the studio's informal payment pages. Empty entries
// are hidden from the payment screen.
type PaymentLinks struct {
	Venmo  string
	PayPal string
	Zelle  string
	Square string
}

type Config struct {
	Addr    string
	DBPath  string
	BaseURL string

	CSRFKey      string
	ResendAPIKey string
	EmailFrom    string

	// AdminEmail bootstraps the first admin: an account signing up with
	// this address gets the admin flag. Everyone else is promoted via
	// the users table.
	AdminEmail string

	Payment  PaymentLinks
	Location *time.Location
}

// Load reads configuration from the environment. Call godotenv.Load
// first if a .env file should be honored.
func Load() Config {
	loc, err := time.LoadLocation(getEnv("TIMEZONE", "America/Los_Angeles"))
	if err != nil {
		loc = time.UTC
	}

	return Config{
		Addr:         getEnv("ADDR", ":8080"),
		DBPath:       getEnv("DB_PATH", "studio.db"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
		// 32 bytes; override in any real deployment.
		CSRFKey: getEnv("CSRF_KEY", "dev-only-insecure-0123456789abcd"),
		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    getEnv("EMAIL_FROM", "Stillpoint Yoga <noreply@stillpoint.example>"),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),
		Payment: PaymentLinks{
			Venmo:  os.Getenv("VENMO_LINK"),
			PayPal: os.Getenv("PAYPAL_LINK"),
			Zelle:  os.Getenv("ZELLE_LINK"),
			Square: os.Getenv("SQUARE_LINK"),
		},
		Location: loc,
	}
}

// Link returns the configured link for a payment method, or "" if the
// method is unknown or not configured.
func (p PaymentLinks) Link(method string) string {
	switch method {
	case "venmo":
		return p.Venmo
	case "paypal":
		return p.PayPal
	case "zelle":
		return p.Zelle
	case "square":
		return p.Square
	}
	return ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
