// Package web parses web command flags and launches the browser-facing blog
// client.
package web

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/razzo/internal/platform/cmd"
	"github.com/louisbranch/razzo/internal/services/web"
)

// EnvPrefix is prepended to every web environment variable name.
const EnvPrefix = "RAZZO_WEB_"

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string        `env:"HTTP_ADDR" envDefault:"localhost:8080"`
	APIBaseURL          string        `env:"API_BASE_URL" envDefault:"http://localhost:5000/api"`
	AssetBaseURL        string        `env:"ASSET_BASE_URL"`
	APITimeout          time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	SessionDBPath       string        `env:"SESSION_DB_PATH" envDefault:"data/web-sessions.db"`
	RedisURL            string        `env:"REDIS_URL"`
	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	MaxUploadBytes      int64         `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`
	AuthRateLimit       float64       `env:"AUTH_RATE_LIMIT" envDefault:"1"`
	AuthRateBurst       int           `env:"AUTH_RATE_BURST" envDefault:"5"`
	TrustForwardedProto bool          `env:"TRUST_FORWARDED_PROTO" envDefault:"false"`
}

// ParseConfig parses environment and flags into a Config. Flags win.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfigWithPrefix(&cfg, EnvPrefix); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "Blog API base URL")
	fs.StringVar(&cfg.AssetBaseURL, "asset-base-url", cfg.AssetBaseURL, "Base URL for relative image paths (defaults to the API origin)")
	fs.DurationVar(&cfg.APITimeout, "api-timeout", cfg.APITimeout, "Blog API request timeout")
	fs.StringVar(&cfg.SessionDBPath, "session-db-path", cfg.SessionDBPath, "SQLite session store path (empty disables it)")
	fs.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis session store URL, used when no SQLite path is set")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Session lifetime")
	fs.Int64Var(&cfg.MaxUploadBytes, "max-upload-bytes", cfg.MaxUploadBytes, "Maximum image upload size in bytes")
	fs.Float64Var(&cfg.AuthRateLimit, "auth-rate-limit", cfg.AuthRateLimit, "Login and register attempts per second per client")
	fs.IntVar(&cfg.AuthRateBurst, "auth-rate-burst", cfg.AuthRateBurst, "Login and register burst per client")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto for secure cookies")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web server and blocks until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(ctx, web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			APIBaseURL:          cfg.APIBaseURL,
			AssetBaseURL:        cfg.AssetBaseURL,
			APITimeout:          cfg.APITimeout,
			SessionDBPath:       cfg.SessionDBPath,
			RedisURL:            cfg.RedisURL,
			SessionTTL:          cfg.SessionTTL,
			MaxUploadBytes:      cfg.MaxUploadBytes,
			AuthRateLimit:       cfg.AuthRateLimit,
			AuthRateBurst:       cfg.AuthRateBurst,
			TrustForwardedProto: cfg.TrustForwardedProto,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
