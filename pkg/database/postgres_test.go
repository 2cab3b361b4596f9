package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/gwa-tracker/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "gwa",
		Password: "secret",
		Name:     "gwa_tracker",
		SSLMode:  "disable",
	})
	assert.Equal(t, "host=db port=5433 user=gwa password=secret dbname=gwa_tracker sslmode=disable", dsn)
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	assert.NoError(t, err)
	assert.NotEmpty(t, entries)
}
