package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8000/api/", c.APIBaseURL)
	assert.Equal(t, "bucketlist.db", c.SessionDBPath)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.LogFile)
	assert.Zero(t, c.RequestTimeout)
}

func TestLoadConfig_JSONThenFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"api_base_url":    "https://json.example/api/",
		"session_db_path": "/tmp/json.db",
		"request_timeout": "7s",
	})
	t.Setenv("BUCKETLIST_CONFIG", "")
	os.Args = []string{"testbin", "-c", path, "-a", "https://flag.example/api/"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "https://flag.example/api/", cfg.APIBaseURL)
	assert.Equal(t, "/tmp/json.db", cfg.SessionDBPath)
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}
