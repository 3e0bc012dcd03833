package chunkmanager

import (
	"fmt"

	"github.com/annelo/go-tile-streamer/internal/chunk"
	"github.com/annelo/go-tile-streamer/internal/coords"
)

// ChunkCache хранит активные чанки окна. Каждая координата встречается не более одного раза.
// Не потокобезопасен: им владеет тик контроллера.
type ChunkCache struct {
	chunks map[coords.ChunkCoord]*chunk.Chunk
	last   coords.ChunkCoord
	primed bool
}

// NewChunkCache создает пустой кеш
func NewChunkCache() *ChunkCache {
	return &ChunkCache{chunks: make(map[coords.ChunkCoord]*chunk.Chunk)}
}

// Contains проверяет наличие чанка
func (cc *ChunkCache) Contains(c coords.ChunkCoord) bool {
	_, ok := cc.chunks[c]
	return ok
}

// Insert добавляет чанк. Повторная вставка той же координаты - ошибка программы.
func (cc *ChunkCache) Insert(c *chunk.Chunk) {
	if _, ok := cc.chunks[c.Coord()]; ok {
		panic(fmt.Sprintf("chunkmanager: duplicate insert of %v", c.Coord()))
	}
	cc.chunks[c.Coord()] = c
}

// Remove удаляет чанк и возвращает его. Удаление отсутствующей координаты - ошибка программы.
func (cc *ChunkCache) Remove(c coords.ChunkCoord) *chunk.Chunk {
	ch, ok := cc.chunks[c]
	if !ok {
		panic(fmt.Sprintf("chunkmanager: remove of absent %v", c))
	}
	delete(cc.chunks, c)
	return ch
}

// Get возвращает чанк, если он в кеше
func (cc *ChunkCache) Get(c coords.ChunkCoord) (*chunk.Chunk, bool) {
	ch, ok := cc.chunks[c]
	return ch, ok
}

// Len возвращает количество чанков
func (cc *ChunkCache) Len() int {
	return len(cc.chunks)
}

// Coords возвращает координаты чанков в порядке (X, Y)
func (cc *ChunkCache) Coords() []coords.ChunkCoord {
	list := make([]coords.ChunkCoord, 0, len(cc.chunks))
	for c := range cc.chunks {
		list = append(list, c)
	}
	coords.SortChunks(list)
	return list
}

// LastViewpoint возвращает чанк точки обзора последнего пересчета окна
func (cc *ChunkCache) LastViewpoint() (coords.ChunkCoord, bool) {
	return cc.last, cc.primed
}

func (cc *ChunkCache) setLastViewpoint(c coords.ChunkCoord) {
	cc.last = c
	cc.primed = true
}

func (cc *ChunkCache) resetViewpoint() {
	cc.last = coords.ChunkCoord{}
	cc.primed = false
}

// Window возвращает квадрат координат со стороной 2*radius+1 вокруг center
func Window(center coords.ChunkCoord, radius uint32) map[coords.ChunkCoord]struct{} {
	return coords.Window(center, radius)
}
