package chunk

import (
	"testing"

	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/noisegeneration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClassifier(t *testing.T, size uint32) *noisegeneration.TerrainClassifier {
	t.Helper()
	c, err := noisegeneration.NewTerrainClassifier(noisegeneration.ClassifierOptions{
		Seeds:     noisegeneration.Seeds{Biome: 3654, Tile: 97123},
		ChunkSize: size,
	})
	require.NoError(t, err)
	return c
}

func TestGenerate_FillsEveryCell(t *testing.T) {
	g := NewGenerator(8, newClassifier(t, 8))
	c := g.Generate(coords.ChunkCoord{X: 3, Y: -2})

	assert.Equal(t, 64, c.Len())
	seen := 0
	c.Each(func(tile Tile) {
		seen++
		assert.True(t, tile.Type.Valid())
		assert.Equal(t, float32(1), tile.Scale)
	})
	assert.Equal(t, 64, seen)

	_, ok := c.Tile(coords.TileCoord{X: 7, Y: 7})
	assert.True(t, ok)
	_, ok = c.Tile(coords.TileCoord{X: 8, Y: 0})
	assert.False(t, ok)
}

func TestGenerate_MatchesClassifier(t *testing.T) {
	cl := newClassifier(t, 4)
	g := NewGenerator(4, cl)
	coord := coords.ChunkCoord{X: -1, Y: 2}
	c := g.Generate(coord)

	c.Each(func(tile Tile) {
		typ, variant, sprite := cl.Appearance(coords.GlobalTile(coord, tile.Local, 4))
		assert.Equal(t, typ, tile.Type)
		assert.Equal(t, variant, tile.Variant)
		assert.Equal(t, sprite, tile.SpriteIndex)
	})

	assert.Equal(t, c.Tiles(), g.Generate(coord).Tiles())
}

func TestNew_Validation(t *testing.T) {
	coord := coords.ChunkCoord{}
	full := NewGenerator(2, newClassifier(t, 2)).Generate(coord).Tiles()

	_, err := New(coord, 2, full)
	require.NoError(t, err)

	_, err = New(coord, 2, full[:3])
	assert.Error(t, err)

	dup := append([]Tile(nil), full...)
	dup[3] = dup[0]
	_, err = New(coord, 2, dup)
	assert.Error(t, err)

	out := append([]Tile(nil), full...)
	out[1].Local = coords.TileCoord{X: 2, Y: 0}
	_, err = New(coord, 2, out)
	assert.Error(t, err)
}

func TestHandles(t *testing.T) {
	c := NewGenerator(2, newClassifier(t, 2)).Generate(coords.ChunkCoord{})
	assert.False(t, c.Rendered())

	assert.Error(t, c.AttachHandles([]RenderHandle{1, 2}))
	require.NoError(t, c.AttachHandles([]RenderHandle{1, 2, 3, 4}))
	assert.True(t, c.Rendered())
	assert.Error(t, c.AttachHandles([]RenderHandle{5, 6, 7, 8}))

	assert.Equal(t, []RenderHandle{1, 2, 3, 4}, c.DetachHandles())
	assert.False(t, c.Rendered())
	assert.Empty(t, c.DetachHandles())
}
