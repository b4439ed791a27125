package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Reads values from the file", func(t *testing.T) {
		// Given: a complete config file
		path := writeConfig(t, `
log-level: debug
frontend: server
default-mode: two
computer-delay: 250ms
http-port: "9191"
socket-port: "8181"
redis:
  enabled: true
  host: redis
  port: "6380"
  channel: games
`)

		// When: loading it
		conf, err := Load(path)

		// Then: every value is taken from the file
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, FrontendServer, conf.Frontend)
		assert.Equal(t, 250*time.Millisecond, conf.ComputerDelay)
		assert.Equal(t, "9191", conf.HTTPPort)
		assert.Equal(t, "8181", conf.SocketPort)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "redis:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, "games", conf.Redis.Channel)

		mode, err := conf.Mode()
		require.NoError(t, err)
		assert.Equal(t, entity.TwoPlayer, mode)
	})

	t.Run("Fills defaults", func(t *testing.T) {
		// Given: a nearly empty config file
		path := writeConfig(t, "log-level: info\n")

		// When: loading it
		conf, err := Load(path)

		// Then: defaults are applied
		require.NoError(t, err)
		assert.Equal(t, FrontendTerminal, conf.Frontend)
		assert.Equal(t, "single", conf.DefaultMode)
		assert.Equal(t, 500*time.Millisecond, conf.ComputerDelay)
		assert.Equal(t, "tictactoe.log", conf.LogFile)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, "tictactoe:outcomes", conf.Redis.Channel)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "frontend: terminal\ncomputer-delay: 1s\n")
		t.Setenv("FRONTEND", "watch")
		t.Setenv("COMPUTER_DELAY", "2s")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, FrontendWatch, conf.Frontend)
		assert.Equal(t, 2*time.Second, conf.ComputerDelay)
	})

	t.Run("Rejects an unknown frontend", func(t *testing.T) {
		path := writeConfig(t, "frontend: browser\n")

		_, err := Load(path)

		require.ErrorIs(t, err, ErrUnknownFrontend)
	})

	t.Run("Rejects an unknown mode", func(t *testing.T) {
		path := writeConfig(t, "default-mode: online\n")

		_, err := Load(path)

		require.ErrorIs(t, err, apperror.ErrUnknownMode)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.Error(t, err)
		assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "absent.yml")) })
	})
}
