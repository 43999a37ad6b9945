package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("PG_DSN", "host=localhost user=app dbname=audit")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.Production())
	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, "attorneycare", cfg.Mongo.Database)
	assert.Equal(t, 8*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10*time.Minute, cfg.Auth.OtpTTL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, int64(20<<20), cfg.Uploads.MaxBytes)
	assert.Equal(t, "*", cfg.CORSOrigin)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_EXPIRES_IN", "30m")
	t.Setenv("OTP_EXPIRES_MIN", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Production())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.Auth.OtpTTL)
}

func TestLoadRequiresSecrets(t *testing.T) {
	tests := []struct{ name, unset string }{
		{"missing jwt secret", "JWT_SECRET"},
		{"missing mongo uri", "MONGO_URI"},
		{"missing pg dsn", "PG_DSN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestEnvHelpersIgnoreGarbage(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")
	assert.Equal(t, 587, envInt("SMTP_PORT", 587))

	t.Setenv("READ_TIMEOUT", "soon")
	assert.Equal(t, 10*time.Second, envDuration("READ_TIMEOUT", 10*time.Second))
}
