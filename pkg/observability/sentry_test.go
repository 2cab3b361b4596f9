package observability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gwa-tracker/pkg/config"
)

func TestInitSentryWithoutDSN(t *testing.T) {
	flush, err := InitSentry(config.SentryConfig{}, config.EnvDevelopment)
	require.NoError(t, err)
	require.NotNil(t, flush)
	assert.NotPanics(t, flush)
	assert.NotPanics(t, func() { CaptureErr(errors.New("boom")) })
	assert.NotPanics(t, func() { CaptureErr(nil) })
}

func TestInitSentryRejectsMalformedDSN(t *testing.T) {
	_, err := InitSentry(config.SentryConfig{DSN: "::not a dsn"}, config.EnvProduction)
	assert.Error(t, err)
}
