package util

import (
	"testing"

	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkKey(t *testing.T) {
	assert.Equal(t, "chunk_8_3_-2", ChunkKey(8, coords.ChunkCoord{X: 3, Y: -2}))
	assert.Equal(t, "chunk_16_0_0", ChunkKey(16, coords.ChunkCoord{}))
}

func TestParseChunkKey(t *testing.T) {
	size, c, err := ParseChunkKey("chunk_8_3_-2")
	require.NoError(t, err)
	assert.Equal(t, uint32(8), size)
	assert.Equal(t, coords.ChunkCoord{X: 3, Y: -2}, c)

	for _, bad := range []string{"", "chunk_", "chunk_8_3", "region_8_3_-2", "chunk_8_3_-2x", "chunk_08_3_-2"} {
		_, _, err := ParseChunkKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestRegionKey(t *testing.T) {
	key := RegionKey(16, -1, 2)
	assert.Equal(t, "region_16_-1_2", key)

	size, rx, ry, err := ParseRegionKey(key)
	require.NoError(t, err)
	assert.Equal(t, uint32(16), size)
	assert.Equal(t, int32(-1), rx)
	assert.Equal(t, int32(2), ry)

	for _, bad := range []string{"chunk_16_-1_2", "region_16_-1", "region_16_+1_2", "region_x_1_2"} {
		_, _, _, err := ParseRegionKey(bad)
		assert.Error(t, err, bad)
	}
}
