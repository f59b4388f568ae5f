package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "https://rpc.analos.io", cfg.RPCURL)
	assert.Equal(t, "wss://rpc.analos.io", cfg.WSURL)
	assert.Equal(t, 24*time.Hour, cfg.SeenTTL)
	assert.Equal(t, 10000, cfg.SeenCapacity)
	assert.Empty(t, cfg.ServiceAdminKey)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("PUBLIC_BASE_URL", "https://mint.example.com/")
	t.Setenv("BACKEND_URL", "https://backend.example.com/")
	t.Setenv("SEEN_TTL", "30m")

	cfg := Load()

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "https://mint.example.com", cfg.PublicBaseURL)
	assert.Equal(t, "https://backend.example.com", cfg.BackendURL)
	assert.Equal(t, 30*time.Minute, cfg.SeenTTL)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-number")
	t.Setenv("SEEN_TTL", "soon")

	cfg := Load()

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 24*time.Hour, cfg.SeenTTL)
}

func TestValidateGateway(t *testing.T) {
	cfg := &Config{
		ServiceAdminKey:  "admin",
		EncryptionSecret: "secret",
		BackendURL:       "https://backend.example.com",
	}
	require.NoError(t, cfg.ValidateGateway())

	cfg.EncryptionSecret = ""
	cfg.BackendURL = ""
	err := cfg.ValidateGateway()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENCRYPTION_SECRET")
	assert.Contains(t, err.Error(), "BACKEND_URL")
	assert.NotContains(t, err.Error(), "SERVICE_ADMIN_KEY")
}

func TestValidateTracker(t *testing.T) {
	cfg := &Config{TrackerBotToken: "tok", TrackerChatID: "-100200300"}
	require.NoError(t, cfg.ValidateTracker())

	err := (&Config{}).ValidateTracker()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRACKER_BOT_TOKEN")
	assert.Contains(t, err.Error(), "TRACKER_CHAT_ID")
}
