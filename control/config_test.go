package control_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-packet/control"
	"github.com/momentics/hioload-packet/packet"
	"github.com/momentics/hioload-packet/pool"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := control.ParseConfig([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, control.DefaultConfig(), cfg)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NotEmpty(t, cfg.Pool.SizeClasses)
}

func TestParseConfigOverrides(t *testing.T) {
	doc := `
pool:
  size_classes: [512, 2048]
  max_free_per_class: 8
  max_in_use_bytes: 65536
log:
  level: debug
  format: json
`
	cfg, err := control.ParseConfig([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []int{512, 2048}, cfg.Pool.SizeClasses)
	assert.Equal(t, 8, cfg.Pool.MaxFreePerClass)
	assert.EqualValues(t, 65536, cfg.Pool.MaxInUseBytes)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "stdout", cfg.Log.OutputPath)

	opts := cfg.Pool.Options()
	assert.Equal(t, pool.Options{SizeClasses: []int{512, 2048}, MaxFreePerClass: 8, MaxInUseBytes: 65536}, opts)
}

func TestParseConfigRejectsInvalid(t *testing.T) {
	for name, doc := range map[string]string{
		"size class": "pool: {size_classes: [0]}",
		"max free":   "pool: {max_free_per_class: -1}",
		"limit":      "pool: {max_in_use_bytes: -5}",
		"format":     "log: {format: xml}",
		"syntax":     "pool: [",
	} {
		_, err := control.ParseConfig([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: {level: warn}\n"), 0o600))

	cfg, err := control.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)

	_, err = control.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkt.log")
	log := control.NewLogger(control.LogConfig{Level: "warn", Format: "json", OutputPath: path})
	log.Info("dropped")
	log.Warn("kept")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kept")
	assert.NotContains(t, string(data), "dropped")
}

func TestMetricsSnapshot(t *testing.T) {
	mr := control.NewMetricsRegistry()
	bp := pool.New(pool.DefaultOptions())
	mr.RegisterPacketStats()
	mr.RegisterPool("default", bp)
	mr.Set("build", "test")

	p, err := packet.New(bp, 256)
	require.NoError(t, err)
	defer p.Unref()

	snap := mr.GetSnapshot()
	assert.Equal(t, "test", snap["build"])
	ps, ok := snap["packet"].(packet.Stats)
	require.True(t, ok)
	assert.GreaterOrEqual(t, ps.Live, int64(1))
	st := bp.Stats()
	assert.Equal(t, st, snap["pool.default"])
	assert.EqualValues(t, 1, st.InUse)
	assert.False(t, mr.Updated().IsZero())
}

func TestLoadViperLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkt.yaml")
	doc := "pool:\n  max_free_per_class: 4\nlog:\n  level: warn\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	t.Setenv("PKT_LOG_FORMAT", "json")

	cfg, err := control.LoadViper(control.NewViper(path))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Pool.MaxFreePerClass)
	assert.Equal(t, control.DefaultConfig().Pool.SizeClasses, cfg.Pool.SizeClasses)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "stdout", cfg.Log.OutputPath)
}

func TestLoadViperDefaultsWithoutFile(t *testing.T) {
	cfg, err := control.LoadViper(control.NewViper(""))
	require.NoError(t, err)
	assert.Equal(t, control.DefaultConfig(), cfg)

	t.Setenv("PKT_LOG_FORMAT", "xml")
	_, err = control.LoadViper(control.NewViper(""))
	assert.Error(t, err)
}
