package observability

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/noah-isme/gwa-tracker/pkg/config"
)

// InitSentry configures error reporting. Without a DSN it does nothing and the returned
// flush is a no-op.
func InitSentry(cfg config.SentryConfig, env string) (func(), error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: env,
		Release:     cfg.Release,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureErr reports err when error reporting is configured.
func CaptureErr(err error) {
	if err != nil {
		sentry.CaptureException(err)
	}
}
