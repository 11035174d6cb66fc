package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PCT_PARTICIPANT_ID", "p7")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "p7", cfg.Participant.ID)
	assert.Equal(t, "ws://localhost:8000/live", cfg.Backend.URL)
	assert.Equal(t, 10*time.Second, cfg.Backend.HandshakeTimeout)
	assert.Equal(t, "baseline", cfg.Market.Framing)
	assert.Equal(t, 210.0, cfg.Market.MarketTime)
	assert.Equal(t, "latest", cfg.Market.News)
	assert.Equal(t, ":8080", cfg.Web.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadRequiresParticipant(t *testing.T) {
	t.Setenv("PCT_PARTICIPANT_ID", "")
	os.Unsetenv("PCT_PARTICIPANT_ID")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.env")
	require.NoError(t, os.WriteFile(path, []byte("PCT_PARTICIPANT_ID=p9\nPCT_MARKET_FRAMING=environmental\nPCT_MARKET_NEWS=full\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("PCT_PARTICIPANT_ID")
		os.Unsetenv("PCT_MARKET_FRAMING")
		os.Unsetenv("PCT_MARKET_NEWS")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "p9", cfg.Participant.ID)
	assert.Equal(t, "environmental", cfg.Market.Framing)
	assert.Equal(t, "full", cfg.Market.News)
}
