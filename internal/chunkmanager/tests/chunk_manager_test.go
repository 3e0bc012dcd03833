package chunkmanager_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/annelo/go-tile-streamer/internal/chunk"
	"github.com/annelo/go-tile-streamer/internal/chunkmanager"
	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/noisegeneration"
	"github.com/annelo/go-tile-streamer/internal/render"
	"github.com/annelo/go-tile-streamer/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testChunkSize = 4
	testTile      = 32
)

var tileSize = coords.TileSize{W: testTile, H: testTile}

// memStore - хранилище в памяти с внедрением ошибок
type memStore struct {
	mu          sync.Mutex
	chunks      map[coords.ChunkCoord][]chunk.Tile
	corrupt     map[coords.ChunkCoord]bool
	loadErr     map[coords.ChunkCoord]error
	saveErr     error
	saves       []coords.ChunkCoord
	quarantined []coords.ChunkCoord
	onSave      func(*chunk.Chunk)
}

func newMemStore() *memStore {
	return &memStore{
		chunks:  make(map[coords.ChunkCoord][]chunk.Tile),
		corrupt: make(map[coords.ChunkCoord]bool),
		loadErr: make(map[coords.ChunkCoord]error),
	}
}

func (m *memStore) LoadChunk(ctx context.Context, c coords.ChunkCoord) (*chunk.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.corrupt[c] {
		return nil, &storage.DecodeError{Key: "mem", Err: errors.New("garbage")}
	}
	if err := m.loadErr[c]; err != nil {
		return nil, err
	}
	tiles, ok := m.chunks[c]
	if !ok {
		return nil, storage.ErrChunkNotFound{X: c.X, Y: c.Y}
	}
	return chunk.New(c, testChunkSize, tiles)
}

func (m *memStore) SaveChunk(ctx context.Context, c *chunk.Chunk) error {
	if m.onSave != nil {
		m.onSave(c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves = append(m.saves, c.Coord())
	m.chunks[c.Coord()] = c.Tiles()
	return nil
}

func (m *memStore) Quarantine(ctx context.Context, c coords.ChunkCoord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.corrupt, c)
	m.quarantined = append(m.quarantined, c)
	return nil
}

func newGenerator(t *testing.T) *chunk.Generator {
	t.Helper()
	cl, err := noisegeneration.NewTerrainClassifier(noisegeneration.ClassifierOptions{
		Seeds:         noisegeneration.Seeds{Biome: 3654, Tile: 97123},
		ChunkSize:     testChunkSize,
		CacheCapacity: 4096,
	})
	require.NoError(t, err)
	return chunk.NewGenerator(testChunkSize, cl)
}

func newController(t *testing.T, store chunkmanager.Store, rd uint32, policy chunkmanager.CorruptPolicy) (*chunkmanager.StreamingController, *render.Recorder) {
	t.Helper()
	rec := render.NewRecorder()
	sc, err := chunkmanager.NewStreamingController(chunkmanager.Options{
		ChunkSize:      testChunkSize,
		RenderDistance: rd,
		TileSize:       tileSize,
		Workers:        3,
		CorruptPolicy:  policy,
	}, newGenerator(t), store, rec)
	require.NoError(t, err)
	return sc, rec
}

// pixelIn возвращает пиксель внутри чанка c
func pixelIn(c coords.ChunkCoord) coords.PixelPos {
	origin := coords.ChunkToTileOrigin(c, testChunkSize)
	return coords.PixelPos{X: float32(origin.X)*testTile + 1, Y: float32(origin.Y)*testTile + 1}
}

// checkInvariants проверяет окно, хендлы и отсутствие утечек
func checkInvariants(t *testing.T, sc *chunkmanager.StreamingController, rec *render.Recorder, center coords.ChunkCoord, rd uint32) {
	t.Helper()
	cache := sc.Cache()
	window := chunkmanager.Window(center, rd)

	require.Equal(t, len(window), cache.Len())
	handles := 0
	for _, c := range cache.Coords() {
		_, in := window[c]
		require.True(t, in, "chunk %v outside window of %v", c, center)
		ch, ok := cache.Get(c)
		require.True(t, ok)
		require.Len(t, ch.Handles(), testChunkSize*testChunkSize)
		handles += len(ch.Handles())
	}
	require.Equal(t, handles, rec.Live())
	_, _, invalid := rec.Counts()
	require.Zero(t, invalid)
}

func TestController_FirstTickFillsWindow(t *testing.T) {
	sc, rec := newController(t, newMemStore(), 1, "")

	report := sc.Tick(context.Background(), coords.PixelPos{})
	assert.False(t, report.Unchanged)
	assert.Len(t, report.Generated, 9)
	assert.Empty(t, report.Evicted)
	checkInvariants(t, sc, rec, coords.ChunkCoord{}, 1)

	last, primed := sc.Cache().LastViewpoint()
	assert.True(t, primed)
	assert.Equal(t, coords.ChunkCoord{}, last)

	// Та же клетка чанка - ничего не меняется
	again := sc.Tick(context.Background(), coords.PixelPos{X: 60, Y: 60})
	assert.True(t, again.Unchanged)
	assert.False(t, again.Changed())
}

func TestController_WindowShiftEast(t *testing.T) {
	store := newMemStore()
	sc, rec := newController(t, store, 1, "")
	ctx := context.Background()

	sc.Tick(ctx, pixelIn(coords.ChunkCoord{X: 0, Y: 0}))
	report := sc.Tick(ctx, pixelIn(coords.ChunkCoord{X: 1, Y: 0}))

	assert.Equal(t, coords.ChunkCoord{X: 1, Y: 0}, report.Center)
	assert.Equal(t, []coords.ChunkCoord{{X: -1, Y: -1}, {X: -1, Y: 0}, {X: -1, Y: 1}}, report.Evicted)
	assert.Equal(t, []coords.ChunkCoord{{X: 2, Y: -1}, {X: 2, Y: 0}, {X: 2, Y: 1}}, report.Generated)
	assert.ElementsMatch(t, report.Evicted, store.saves)
	checkInvariants(t, sc, rec, coords.ChunkCoord{X: 1, Y: 0}, 1)
}

func TestController_SaveBeforeRemove(t *testing.T) {
	store := newMemStore()
	sc, rec := newController(t, store, 0, "")
	ctx := context.Background()

	var order []chunkmanager.EventType
	store.onSave = func(c *chunk.Chunk) {
		// Хендлы уничтожены до сохранения, а чанк еще в кеше
		assert.False(t, c.Rendered())
		assert.True(t, sc.Cache().Contains(c.Coord()))
		assert.Zero(t, rec.Live())
	}
	sc.OnEvent(func(ev chunkmanager.Event) {
		if ev.Coord != (coords.ChunkCoord{}) {
			return
		}
		order = append(order, ev.Type)
		switch ev.Type {
		case chunkmanager.EventSaved:
			assert.True(t, sc.Cache().Contains(ev.Coord))
		case chunkmanager.EventEvicted:
			assert.False(t, sc.Cache().Contains(ev.Coord))
		}
	})

	sc.Tick(ctx, pixelIn(coords.ChunkCoord{}))
	sc.Tick(ctx, pixelIn(coords.ChunkCoord{X: 5}))

	assert.Equal(t, []chunkmanager.EventType{
		chunkmanager.EventGenerated,
		chunkmanager.EventRendered,
		chunkmanager.EventSaved,
		chunkmanager.EventEvicted,
	}, order)
}

func TestController_ReloadFromStore(t *testing.T) {
	store := newMemStore()
	sc, rec := newController(t, store, 0, "")
	ctx := context.Background()
	home := coords.ChunkCoord{X: -2, Y: 3}

	sc.Tick(ctx, pixelIn(home))
	ch, ok := sc.Cache().Get(home)
	require.True(t, ok)
	tiles := ch.Tiles()

	sc.Tick(ctx, pixelIn(coords.ChunkCoord{X: 10, Y: 10}))
	report := sc.Tick(ctx, pixelIn(home))
	assert.Equal(t, []coords.ChunkCoord{home}, report.Loaded)
	assert.Empty(t, report.Generated)

	reloaded, ok := sc.Cache().Get(home)
	require.True(t, ok)
	assert.Equal(t, tiles, reloaded.Tiles())
	checkInvariants(t, sc, rec, home, 0)
}

func TestController_RandomMoves(t *testing.T) {
	const rd = 2
	sc, rec := newController(t, newMemStore(), rd, "")
	ctx := context.Background()
	rnd := rand.New(rand.NewSource(7))

	pos := coords.PixelPos{}
	for i := 0; i < 150; i++ {
		pos.X += float32(rnd.Intn(401) - 200)
		pos.Y += float32(rnd.Intn(401) - 200)
		report := sc.Tick(ctx, pos)
		require.Empty(t, report.LoadFailed)
		checkInvariants(t, sc, rec, coords.PixelToChunk(pos, tileSize, testChunkSize), rd)
	}
}

func TestController_CorruptSkip(t *testing.T) {
	store := newMemStore()
	bad := coords.ChunkCoord{X: 1, Y: 1}
	store.corrupt[bad] = true

	sc, rec := newController(t, store, 1, chunkmanager.CorruptSkip)
	var failed []coords.ChunkCoord
	sc.OnEvent(func(ev chunkmanager.Event) {
		if ev.Type == chunkmanager.EventLoadFailed {
			failed = append(failed, ev.Coord)
			assert.ErrorIs(t, ev.Err, storage.ErrCorruptChunk)
		}
	})

	report := sc.Tick(context.Background(), coords.PixelPos{})
	require.Contains(t, report.LoadFailed, bad)
	assert.True(t, errors.Is(report.LoadFailed[bad], storage.ErrCorruptChunk))
	assert.False(t, sc.Cache().Contains(bad))
	assert.Equal(t, 8, sc.Cache().Len())
	assert.Equal(t, 8*testChunkSize*testChunkSize, rec.Live())
	assert.Equal(t, []coords.ChunkCoord{bad}, failed)
	assert.Empty(t, store.quarantined)
	assert.Equal(t, 1, sc.Stats()["errors"])
}

func TestController_CorruptRegenerate(t *testing.T) {
	store := newMemStore()
	bad := coords.ChunkCoord{X: -1, Y: 0}
	store.corrupt[bad] = true

	sc, rec := newController(t, store, 1, chunkmanager.CorruptRegenerate)
	report := sc.Tick(context.Background(), coords.PixelPos{})

	assert.Empty(t, report.LoadFailed)
	assert.Equal(t, []coords.ChunkCoord{bad}, report.Regenerated)
	assert.Equal(t, []coords.ChunkCoord{bad}, store.quarantined)
	checkInvariants(t, sc, rec, coords.ChunkCoord{}, 1)
}

func TestController_IOErrorNotRegenerated(t *testing.T) {
	store := newMemStore()
	bad := coords.ChunkCoord{X: 0, Y: 1}
	store.loadErr[bad] = errors.New("disk on fire")

	sc, _ := newController(t, store, 1, chunkmanager.CorruptRegenerate)
	report := sc.Tick(context.Background(), coords.PixelPos{})

	assert.Contains(t, report.LoadFailed, bad)
	assert.Empty(t, report.Regenerated)
	assert.False(t, sc.Cache().Contains(bad))
}

func TestController_SaveFailureStillEvicts(t *testing.T) {
	store := newMemStore()
	sc, rec := newController(t, store, 0, "")
	ctx := context.Background()

	sc.Tick(ctx, pixelIn(coords.ChunkCoord{}))
	store.saveErr = errors.New("read-only filesystem")
	report := sc.Tick(ctx, pixelIn(coords.ChunkCoord{X: 3}))

	assert.Contains(t, report.SaveFailed, coords.ChunkCoord{})
	assert.Equal(t, []coords.ChunkCoord{{}}, report.Evicted)
	assert.False(t, sc.Cache().Contains(coords.ChunkCoord{}))
	checkInvariants(t, sc, rec, coords.ChunkCoord{X: 3}, 0)
}

func TestController_NilStore(t *testing.T) {
	sc, rec := newController(t, nil, 1, "")
	ctx := context.Background()

	sc.Tick(ctx, coords.PixelPos{})
	report := sc.Tick(ctx, pixelIn(coords.ChunkCoord{Y: -1}))
	assert.Len(t, report.Generated, 3)
	assert.Empty(t, report.SaveFailed)
	checkInvariants(t, sc, rec, coords.ChunkCoord{Y: -1}, 1)
}

func TestController_FlushAndShutdown(t *testing.T) {
	store := newMemStore()
	sc, rec := newController(t, store, 1, "")
	ctx := context.Background()

	sc.Tick(ctx, coords.PixelPos{})
	require.NoError(t, sc.Flush(ctx))
	assert.Len(t, store.saves, 9)
	assert.Equal(t, 9, sc.Cache().Len())
	assert.Equal(t, 9*testChunkSize*testChunkSize, rec.Live())

	require.NoError(t, sc.Shutdown(ctx))
	assert.Zero(t, sc.Cache().Len())
	assert.Zero(t, rec.Live())
	assert.Len(t, store.saves, 18)

	// После выгрузки тот же чанк снова заполняет окно
	report := sc.Tick(ctx, coords.PixelPos{})
	assert.Len(t, report.Loaded, 9)
	checkInvariants(t, sc, rec, coords.ChunkCoord{}, 1)

	stats := sc.Stats()
	assert.Equal(t, 9, stats["cached_chunks"])
	assert.Equal(t, 9, stats["loaded"])
	assert.Equal(t, 9, stats["generated"])
}

func TestController_WithFileStorage(t *testing.T) {
	fs, err := storage.NewFileStorage(t.TempDir(), testChunkSize, nil)
	require.NoError(t, err)
	defer fs.Close()

	sc, rec := newController(t, fs, 1, chunkmanager.CorruptRegenerate)
	ctx := context.Background()

	sc.Tick(ctx, coords.PixelPos{})
	sc.Tick(ctx, pixelIn(coords.ChunkCoord{X: 20}))
	report := sc.Tick(ctx, coords.PixelPos{})
	assert.Len(t, report.Loaded, 9)
	checkInvariants(t, sc, rec, coords.ChunkCoord{}, 1)

	saved, err := fs.ListChunks(ctx)
	require.NoError(t, err)
	assert.Len(t, saved, 18)
}

func TestNewStreamingController_Validation(t *testing.T) {
	gen := newGenerator(t)
	rec := render.NewRecorder()

	_, err := chunkmanager.NewStreamingController(chunkmanager.Options{TileSize: tileSize}, gen, nil, rec)
	assert.Error(t, err)

	_, err = chunkmanager.NewStreamingController(chunkmanager.Options{ChunkSize: 4}, gen, nil, rec)
	assert.Error(t, err)

	_, err = chunkmanager.NewStreamingController(chunkmanager.Options{
		ChunkSize: 4, TileSize: tileSize, CorruptPolicy: "ignore",
	}, gen, nil, rec)
	assert.Error(t, err)
}
