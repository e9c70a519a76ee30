package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("DEFAULT_ORIGIN", "")
	t.Setenv("SUPABASE_URL", "https://myproject.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LIVEKIT_URL", "")
	t.Setenv("LIVEKIT_API_KEY", "")
	t.Setenv("LIVEKIT_API_SECRET", "")
}

func TestLoadConfigTrimsCredentials(t *testing.T) {
	setBaseEnv(t)
	// Copy-pasted dashboard values tend to carry stray whitespace.
	t.Setenv("LIVEKIT_URL", "  https://media.example.com \n")
	t.Setenv("LIVEKIT_API_KEY", "\tAPIkey123 ")
	t.Setenv("LIVEKIT_API_SECRET", " secret \n")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://media.example.com", cfg.LiveKitURL)
	assert.Equal(t, "APIkey123", cfg.LiveKitAPIKey)
	assert.Equal(t, "secret", cfg.LiveKitAPISecret)
	assert.True(t, cfg.SigningConfigured())
}

func TestLoadConfigSigningOptionalAtBoot(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.SigningConfigured())
}

func TestLoadConfigOrigins(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ALLOWED_ORIGINS", " https://app.mylivelinks.com , http://localhost:3000 ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://app.mylivelinks.com", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "https://app.mylivelinks.com", cfg.DefaultOrigin)
}

func TestLoadConfigOriginsRequiredInProduction(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "postgres://example/livelinks")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	setBaseEnv(t)

	t.Setenv("PORT", "not-a-port")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("PORT", "80")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRequiresIdentityProvider(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SUPABASE_URL", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}
