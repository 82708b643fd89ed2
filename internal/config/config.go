package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Port string
	// BaseURL is the absolute origin used in checkout return URLs. When empty
	// it is derived from the request host.
	BaseURL string

	StripeSecret    string
	StripeAPIURL    string
	UpstreamTimeout time.Duration

	NotificationTTL time.Duration
	RedirectDelay   time.Duration
	SessionTTL      time.Duration

	// CORS
	CORSAllowOrigins []string

	// SoundsDir holds the notification audio served under /sounds/.
	SoundsDir string

	// Optional infra; empty disables the feature.
	DatabaseDSN   string
	RunMigrations bool
	RabbitMQURL   string
	OTLPEndpoint  string

	LogLevel string
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("BASE_URL", "")
	v.SetDefault("STRIPE_SECRET", "")
	v.SetDefault("STRIPE_API_URL", "")
	v.SetDefault("UPSTREAM_TIMEOUT", "10s")
	v.SetDefault("NOTIFICATION_TTL", "2s")
	v.SetDefault("REDIRECT_DELAY", "2s")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("SOUNDS_DIR", "public/sounds")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads configuration from the environment and, when file is set (or
// STOREFRONT_CONFIG points at one), from a config file. Environment wins.
func Load(file string) (Config, error) {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	if file == "" {
		file = v.GetString("STOREFRONT_CONFIG")
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config file %s", file)
		}
	}

	cfg := Config{
		Port:             strings.TrimSpace(v.GetString("PORT")),
		BaseURL:          strings.TrimRight(strings.TrimSpace(v.GetString("BASE_URL")), "/"),
		StripeSecret:     strings.TrimSpace(v.GetString("STRIPE_SECRET")),
		StripeAPIURL:     strings.TrimSpace(v.GetString("STRIPE_API_URL")),
		UpstreamTimeout:  durationOr(v, "UPSTREAM_TIMEOUT", 10*time.Second),
		NotificationTTL:  durationOr(v, "NOTIFICATION_TTL", 2*time.Second),
		RedirectDelay:    durationOr(v, "REDIRECT_DELAY", 2*time.Second),
		SessionTTL:       durationOr(v, "SESSION_TTL", 24*time.Hour),
		CORSAllowOrigins: splitCSV(v.GetString("CORS_ALLOW_ORIGINS")),
		SoundsDir:        strings.TrimSpace(v.GetString("SOUNDS_DIR")),
		DatabaseDSN:      strings.TrimSpace(v.GetString("DATABASE_DSN")),
		RunMigrations:    v.GetBool("RUN_MIGRATIONS"),
		RabbitMQURL:      strings.TrimSpace(v.GetString("RABBITMQ_URL")),
		OTLPEndpoint:     strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
		LogLevel:         strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// durationOr falls back to def for unparseable or non-positive values.
func durationOr(v *viper.Viper, key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
