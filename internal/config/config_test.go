package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	s := cfg.Streaming()
	assert.Equal(t, uint32(16), s.ChunkSize)
	assert.Equal(t, uint32(8), s.RenderDistance)
	assert.Equal(t, float32(32), s.TileSize.W)
	assert.Equal(t, uint32(3654), s.Seeds.Biome)
	assert.Equal(t, uint32(97123), s.Seeds.Tile)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streamer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
chunk_size: 8
render_distance: 2
tile_pixel_size: [16, 24]
noise_backend: opensimplex
corrupt_policy: regenerate
tick_interval: 1m30s
storage:
  backend: sqlite
  path: /tmp/world.db
log_level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), cfg.ChunkSize)
	assert.Equal(t, uint32(2), cfg.RenderDistance)
	assert.Equal(t, [2]float32{16, 24}, cfg.TilePixelSize)
	assert.Equal(t, "opensimplex", cfg.NoiseBackend)
	assert.Equal(t, "regenerate", cfg.CorruptPolicy)
	assert.Equal(t, 90*time.Second, cfg.TickInterval)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	// Не указанные ключи остаются по умолчанию
	assert.Equal(t, uint32(97123), cfg.TileSeed)
	assert.Equal(t, 4, cfg.GenerationWorkers)

	opts := cfg.ControllerOptions(nil)
	assert.Equal(t, float32(24), opts.TileSize.H)
	assert.Equal(t, 4, opts.Workers)
}

func TestParse_SchemaRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":     "chunk_sise: 8\n",
		"zero chunk size": "chunk_size: 0\n",
		"bad backend":     "noise_backend: value\n",
		"bad policy":      "corrupt_policy: ignore\n",
		"bad tile size":   "tile_pixel_size: [32]\n",
		"negative seed":   "biome_seed: -1\n",
		"bad duration":    "tick_interval: soon\n",
		"bad storage":     "storage:\n  backend: redis\n",
		"wrong type":      "render_distance: far\n",
		"unknown log lvl": "log_level: chatty\n",
		"zero workers":    "generation_workers: 0\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			assert.Error(t, Parse([]byte(doc), &cfg))
		})
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg := Default()
	require.NoError(t, Parse([]byte("# nothing here\n"), &cfg))
	assert.Equal(t, Default(), cfg)
}

func TestValidate_SemanticChecks(t *testing.T) {
	cfg := Default()
	cfg.Storage.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Storage = StorageConfig{Backend: "none"}
	assert.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.TickInterval = 0
	assert.Error(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	logger, err := cfg.NewLogger(true)
	require.NoError(t, err)
	logger.Debugw("test")
}
