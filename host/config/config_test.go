package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powersensor/host/calib"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Len(t, cfg.Channels, 5)
	assert.Equal(t, 115200, cfg.Serial.Baud)
}

func TestLoadOverridesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "powersensor.yaml")
	data := []byte(`
serial:
  port: /dev/ttyUSB1
board: powersensor-v0.1
channels:
  - name: VBAT
    unit: V
    slope: 0.0002
    offset: -0.01
  - name: IBAT
    unit: A
    slope: 0.001
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB1", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.Baud, "unset fields keep their default")
	assert.Equal(t, "powersensor-v0.1", cfg.Board)
	require.Len(t, cfg.Channels, 2)
	assert.Equal(t, "IBAT", cfg.Channels[1].Name)
	assert.InDelta(t, -0.01, cfg.Channels[0].Offset, 1e-7)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("serial: [\n"), 0o644))
	_, err := Load(bad)
	assert.Error(t, err)

	noName := filepath.Join(dir, "noname.yaml")
	require.NoError(t, os.WriteFile(noName, []byte("channels:\n  - unit: V\n"), 0o644))
	_, err = Load(noName)
	assert.Error(t, err)

	baud := filepath.Join(dir, "baud.yaml")
	require.NoError(t, os.WriteFile(baud, []byte("serial:\n  baud: 0\n"), 0o644))
	_, err = Load(baud)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	require.NoError(t, cfg.SetLine("PA2", calib.Line{Slope: 2e-5, Offset: 0.003}))
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLines(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.SetLine("PA0", calib.Line{Slope: 1, Offset: 2}))
	assert.Error(t, cfg.SetLine("PB9", calib.Line{}))

	lines := cfg.Lines()
	require.Len(t, lines, 5)
	assert.Equal(t, calib.Line{Slope: 1, Offset: 2}, lines[0])
	assert.InDelta(t, 1.1, lines[4].Apply(65472), 1e-5)
}
