package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/storage/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRegions(t *testing.T, dir string, size uint32) *RegionStorage {
	t.Helper()
	rs, err := NewRegionStorage(dir, size, nil)
	require.NoError(t, err)
	t.Cleanup(func() { rs.Close() })
	return rs
}

func TestRegionOf(t *testing.T) {
	assert.Equal(t, RegionCoord{X: 0, Y: 0}, RegionOf(coords.ChunkCoord{X: 15, Y: 0}))
	assert.Equal(t, RegionCoord{X: 1, Y: 0}, RegionOf(coords.ChunkCoord{X: 16, Y: 0}))
	assert.Equal(t, RegionCoord{X: -1, Y: -1}, RegionOf(coords.ChunkCoord{X: -1, Y: -16}))
	assert.Equal(t, RegionCoord{X: -2, Y: 0}, RegionOf(coords.ChunkCoord{X: -17, Y: 5}))

	assert.Equal(t, 0, slotOf(coords.ChunkCoord{X: 16, Y: 0}))
	assert.Equal(t, 255, slotOf(coords.ChunkCoord{X: -1, Y: -1}))
	assert.Equal(t, 1*16+15, slotOf(coords.ChunkCoord{X: -17, Y: 1}))
}

func TestRegionStorage_SaveLoadReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	rs := openTestRegions(t, dir, 8)

	saved := []coords.ChunkCoord{{X: 3, Y: -2}, {X: -1, Y: -1}, {X: 16, Y: 0}, {X: -17, Y: 5}}
	for _, c := range saved {
		require.NoError(t, rs.SaveChunk(ctx, generate(t, 8, c)))
	}

	for _, c := range saved {
		loaded, err := rs.LoadChunk(ctx, c)
		require.NoError(t, err, c.String())
		assert.Equal(t, generate(t, 8, c).Tiles(), loaded.Tiles())
	}

	_, err := rs.LoadChunk(ctx, coords.ChunkCoord{X: 4, Y: -2})
	assert.True(t, IsNotFound(err))
	// Регион без файла тоже дает "не найдено" и не создает файл
	_, err = rs.LoadChunk(ctx, coords.ChunkCoord{X: 500, Y: 500})
	assert.True(t, IsNotFound(err))
	assert.NoFileExists(t, RegionPath(dir, 8, RegionOf(coords.ChunkCoord{X: 500, Y: 500})))

	want := append([]coords.ChunkCoord(nil), saved...)
	coords.SortChunks(want)
	list, err := rs.ListChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, list)

	require.NoError(t, rs.Close())

	reopened := openTestRegions(t, dir, 8)
	loaded, err := reopened.LoadChunk(ctx, coords.ChunkCoord{X: 3, Y: -2})
	require.NoError(t, err)
	assert.Equal(t, 64, loaded.Len())
}

func TestRegionStorage_OverwriteAppendsAndKeepsOldRecord(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	rs := openTestRegions(t, dir, 8)

	coord := coords.ChunkCoord{X: 1, Y: 1}
	c := generate(t, 8, coord)
	require.NoError(t, rs.SaveChunk(ctx, c))

	r, err := rs.region(RegionCoord{}, false)
	require.NoError(t, err)
	first := r.index[slotOf(coord)]
	oldRecord, ok, err := r.ReadChunk(coord)
	require.NoError(t, err)
	require.True(t, ok)
	sizeBefore := r.Size()

	require.NoError(t, rs.SaveChunk(ctx, c))
	second := r.index[slotOf(coord)]
	assert.Greater(t, second.Offset, first.Offset)
	assert.Greater(t, r.Size(), sizeBefore)

	// старая версия не тронута: при сбое до обновления индекса она осталась бы читаемой
	raw, err := os.ReadFile(RegionPath(dir, 8, RegionCoord{}))
	require.NoError(t, err)
	assert.Equal(t, oldRecord, raw[first.Offset:first.Offset+first.Size])

	require.NoError(t, rs.SaveChunk(ctx, c))
	third := r.index[slotOf(coord)]
	assert.Greater(t, third.Offset, second.Offset)

	require.NoError(t, rs.Close())
	reopened := openTestRegions(t, dir, 8)
	loaded, err := reopened.LoadChunk(ctx, coord)
	require.NoError(t, err)
	assert.Equal(t, c.Tiles(), loaded.Tiles())

	rr, err := reopened.region(RegionCoord{}, false)
	require.NoError(t, err)
	assert.True(t, rr.NeedsCompaction())
	require.NoError(t, reopened.Compact())
	assert.False(t, rr.NeedsCompaction())
}

func TestRegionStorage_DeleteAndCompact(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	rs := openTestRegions(t, dir, 8)

	keep := coords.ChunkCoord{X: 5, Y: 5}
	require.NoError(t, rs.SaveChunk(ctx, generate(t, 8, keep)))
	for x := int32(0); x < 4; x++ {
		c := coords.ChunkCoord{X: x, Y: 0}
		require.NoError(t, rs.SaveChunk(ctx, generate(t, 8, c)))
		require.NoError(t, rs.DeleteChunk(ctx, c))
	}
	// Удаление отсутствующего чанка не ошибка
	require.NoError(t, rs.DeleteChunk(ctx, coords.ChunkCoord{X: 9, Y: 9}))
	require.NoError(t, rs.DeleteChunk(ctx, coords.ChunkCoord{X: 900, Y: 9}))

	r, err := rs.region(RegionCoord{}, false)
	require.NoError(t, err)
	require.True(t, r.NeedsCompaction())
	before := r.Size()

	require.NoError(t, rs.Compact())
	assert.Less(t, r.Size(), before)
	assert.False(t, r.NeedsCompaction())
	assert.NoFileExists(t, RegionPath(dir, 8, RegionCoord{})+".tmp")

	loaded, err := rs.LoadChunk(ctx, keep)
	require.NoError(t, err)
	assert.Equal(t, generate(t, 8, keep).Tiles(), loaded.Tiles())

	list, err := rs.ListChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []coords.ChunkCoord{keep}, list)
}

func TestRegionStorage_CorruptRecord(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	rs := openTestRegions(t, dir, 8)

	coord := coords.ChunkCoord{X: 2, Y: 3}
	require.NoError(t, rs.SaveChunk(ctx, generate(t, 8, coord)))

	r, err := rs.region(RegionOf(coord), false)
	require.NoError(t, err)
	e := r.index[slotOf(coord)]
	f, err := os.OpenFile(RegionPath(dir, 8, RegionOf(coord)), os.O_RDWR, 0)
	require.NoError(t, err)
	_, err = f.WriteAt([]byte("garbage!"), int64(e.Offset))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = rs.LoadChunk(ctx, coord)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruptChunk))
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, util.ChunkKey(8, coord), de.Key)

	require.NoError(t, rs.Quarantine(ctx, coord))
	assert.FileExists(t, filepath.Join(dir, corruptDir, util.ChunkKey(8, coord)+chunkFileExt))
	_, err = rs.LoadChunk(ctx, coord)
	assert.True(t, IsNotFound(err))
}

func TestRegionStorage_CorruptRegionFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	rs := openTestRegions(t, dir, 8)

	path := RegionPath(dir, 8, RegionCoord{})
	require.NoError(t, os.WriteFile(path, []byte("not a region"), 0o644))

	coord := coords.ChunkCoord{X: 1, Y: 2}
	_, err := rs.LoadChunk(ctx, coord)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruptChunk))
	assert.False(t, IsNotFound(err))

	require.NoError(t, rs.Quarantine(ctx, coord))
	assert.NoFileExists(t, path)
	assert.FileExists(t, filepath.Join(dir, corruptDir, filepath.Base(path)))

	_, err = rs.LoadChunk(ctx, coord)
	assert.True(t, IsNotFound(err))
	require.NoError(t, rs.SaveChunk(ctx, generate(t, 8, coord)))
}

func TestRegionStorage_LRU(t *testing.T) {
	ctx := context.Background()
	rs := openTestRegions(t, t.TempDir(), 4)
	rs.maxOpenRegions = 2

	saved := []coords.ChunkCoord{{X: 0, Y: 0}, {X: 16, Y: 0}, {X: 32, Y: 0}, {X: -16, Y: -16}}
	for _, c := range saved {
		require.NoError(t, rs.SaveChunk(ctx, generate(t, 4, c)))
		assert.LessOrEqual(t, len(rs.regions), 2)
	}
	for _, c := range saved {
		_, err := rs.LoadChunk(ctx, c)
		require.NoError(t, err, c.String())
	}
	assert.Equal(t, 2, rs.lruList.Len())
}

func TestRegionStorage_Closed(t *testing.T) {
	ctx := context.Background()
	rs := openTestRegions(t, t.TempDir(), 4)
	require.NoError(t, rs.Close())
	require.NoError(t, rs.Close())

	assert.Error(t, rs.SaveChunk(ctx, generate(t, 4, coords.ChunkCoord{})))
	_, err := rs.LoadChunk(ctx, coords.ChunkCoord{})
	assert.Error(t, err)
	_, err = rs.ListChunks(ctx)
	assert.Error(t, err)
}

func TestRegionStorage_SizeMismatch(t *testing.T) {
	rs := openTestRegions(t, t.TempDir(), 8)
	assert.Error(t, rs.SaveChunk(context.Background(), generate(t, 4, coords.ChunkCoord{})))
}
