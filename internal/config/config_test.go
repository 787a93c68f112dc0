package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := FromMap(map[string]string{"DISCORD_TOKEN": "tok"})
	require.NoError(t, err)

	assert.Equal(t, "tok", cfg.DiscordToken)
	assert.Empty(t, cfg.DiscordGuildIDs)
	assert.True(t, cfg.InitSlashCommands)
	assert.True(t, cfg.UnknownCommandReply)
	assert.Equal(t, 2*time.Second, cfg.CommandCooldown)
	assert.Equal(t, "datastore.json", cfg.StoragePath)
	assert.Equal(t, 4, cfg.SyncWorkers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestOverrides(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"DISCORD_TOKEN":           "tok",
		"DISCORD_GUILD_IDS":       "1,2",
		"DISCORD_GUILD_BLACKLIST": "9",
		"INIT_SLASH_COMMANDS":     "false",
		"UNKNOWN_COMMAND_REPLY":   "false",
		"COMMAND_COOLDOWN":        "500ms",
		"SYNC_WORKERS":            "0",
		"METRICS_ADDR":            ":9100",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, cfg.DiscordGuildIDs)
	assert.Equal(t, []string{"9"}, cfg.DiscordGuildBlacklist)
	assert.False(t, cfg.InitSlashCommands)
	assert.False(t, cfg.UnknownCommandReply)
	assert.Equal(t, 500*time.Millisecond, cfg.CommandCooldown)
	assert.Equal(t, 1, cfg.SyncWorkers)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
}

func TestTokenRequired(t *testing.T) {
	_, err := FromMap(map[string]string{})
	require.Error(t, err)

	_, err = FromMap(map[string]string{"DISCORD_TOKEN": ""})
	require.Error(t, err)
}
