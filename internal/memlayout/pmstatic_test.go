package memlayout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pmStaticDoc = `
mcuboot:
  address: 0x0
  size: 0xC000
  region: flash_primary
app:
  address: "0xC200"
  size: 999424
settings_storage:
  address: 0xFB000
  size: "0x2000"
  device: mx25r64
  region: external_flash
`

func writePMStatic(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pm_static.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMap(t *testing.T) {
	m, err := LoadMap(writePMStatic(t, pmStaticDoc))
	require.NoError(t, err)
	require.Len(t, m, 3)

	mcuboot := m["mcuboot"]
	assert.True(t, mcuboot.HasAddress)
	assert.True(t, mcuboot.HasSize)
	assert.Equal(t, int64(0), mcuboot.Address)
	assert.Equal(t, int64(0xC000), mcuboot.Size)
	assert.Equal(t, "flash_primary", mcuboot.Region)

	// Quoted hex strings and plain integers decode the same way.
	app := m["app"]
	assert.Equal(t, int64(0xC200), app.Address)
	assert.Equal(t, int64(999424), app.Size)

	storage := m["settings_storage"]
	assert.Equal(t, int64(0x2000), storage.Size)
	assert.Equal(t, "mx25r64", storage.Device)
}

func TestLoadMapMissingFields(t *testing.T) {
	m, err := LoadMap(writePMStatic(t, "sram_primary:\n  region: sram\n"))
	require.NoError(t, err)
	p := m["sram_primary"]
	assert.False(t, p.HasAddress)
	assert.False(t, p.HasSize)
	assert.Equal(t, "sram", p.Region)
}

func TestLoadMapInvalid(t *testing.T) {
	_, err := LoadMap(writePMStatic(t, "mcuboot:\n  size: not-a-number\n"))
	assert.Error(t, err)

	_, err = LoadMap(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestMapNames(t *testing.T) {
	m := Map{"b": {}, "a": {}, "c": {}}
	assert.Equal(t, []string{"a", "b", "c"}, m.Names())
}
