package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const EnvDevelopment = "development"

// Config holds all application configuration values
type Config struct {
	// Twilio
	TwilioAccountSID   string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken    string `env:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber  string `env:"TWILIO_PHONE_NUMBER"`
	WhatsAppFrom       string `env:"WHATSAPP_FROM" envDefault:"whatsapp:+14155238886"`
	WhatsAppContentSID string `env:"WHATSAPP_CONTENT_SID"`

	// Recipients
	BusinessPhone   string `env:"MY_PHONE_NUMBER"`
	PartnerWhatsApp string `env:"PARTNER_WHATSAPP"`

	// Server
	Port           string   `env:"PORT" envDefault:"5000"`
	Environment    string   `env:"APP_ENV" envDefault:"production"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://deluxepools.netlify.app,http://localhost:5173"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Rate limiting for /api/send
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"6"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// LoadConfig reads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.AllowedOrigins = cleanList(cfg.AllowedOrigins)
	cfg.TrustedProxies = cleanList(cfg.TrustedProxies)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing or inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		name  string
		value string
	}{
		{"TWILIO_ACCOUNT_SID", c.TwilioAccountSID},
		{"TWILIO_AUTH_TOKEN", c.TwilioAuthToken},
		{"TWILIO_PHONE_NUMBER", c.TwilioPhoneNumber},
		{"MY_PHONE_NUMBER", c.BusinessPhone},
		{"PARTNER_WHATSAPP", c.PartnerWhatsApp},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}

	if c.PartnerWhatsApp != "" && !strings.HasPrefix(c.PartnerWhatsApp, "whatsapp:") {
		errs = append(errs, errors.New("PARTNER_WHATSAPP must start with whatsapp:"))
	}
	if !strings.HasPrefix(c.WhatsAppFrom, "whatsapp:") {
		errs = append(errs, errors.New("WHATSAPP_FROM must start with whatsapp:"))
	}
	if len(c.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("ALLOWED_ORIGINS must list at least one origin"))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.RateLimitMax <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// IsDevelopment reports whether raw error details may be exposed to callers.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), EnvDevelopment)
}

// cleanList trims entries and drops empty ones, so "a, b," yields [a b].
func cleanList(in []string) []string {
	var out []string
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
