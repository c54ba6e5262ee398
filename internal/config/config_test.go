package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMustLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `env: test
server:
  addr: "9090"
  shutdown_timeout: 3s
render:
  preview_width: 640
  max_width: 1920
kafka:
  enabled: true
  brokers: ["kafka-1:9092", "kafka-2:9092"]
retry:
  attempts: 5
  delay: 50ms
  backoff: 1.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_PATH", path)
	t.Chdir(dir)

	cfg, err := MustLoad()
	require.NoError(t, err)
	require.Equal(t, "test", cfg.Env)
	require.Equal(t, "9090", cfg.Server.Addr)
	require.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, 640, cfg.Render.PreviewWidth)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)

	strategy := cfg.DefaultRetryStrategy()
	require.Equal(t, 5, strategy.Attempts)
	require.Equal(t, 50*time.Millisecond, strategy.Delay)
	require.Equal(t, 1.5, strategy.Backoff)
}

func TestMustLoadDefaultsFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("RENDER_PREVIEW_WIDTH", "800")
	t.Chdir(t.TempDir())

	cfg, err := MustLoad()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Server.Addr)
	require.Equal(t, 800, cfg.Render.PreviewWidth)
	require.Equal(t, int64(32<<20), cfg.Upload.MaxBytes)
	require.False(t, cfg.Storage.Enabled)
}

func TestMustLoadRejectsInvalidRender(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("RENDER_PREVIEW_WIDTH", "2000")
	t.Setenv("RENDER_MAX_WIDTH", "1000")
	t.Chdir(t.TempDir())

	_, err := MustLoad()
	require.Error(t, err)
}
