// Package chunk описывает тайлы и чанки мира.
package chunk

import (
	"fmt"

	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/noisegeneration"
)

// RenderHandle - непрозрачный идентификатор отрисованного объекта
type RenderHandle uint64

// Tile - один тайл чанка
type Tile struct {
	Local       coords.TileCoord
	Layer       int32
	Type        noisegeneration.TileType
	Variant     uint8
	SpriteIndex uint32
	Scale       float32
}

// Chunk - квадратный блок тайлов со стороной Size.
// Тайлы неизменяемы после создания, меняется только набор хендлов.
type Chunk struct {
	coord   coords.ChunkCoord
	size    uint32
	tiles   map[coords.TileCoord]Tile
	handles []RenderHandle
}

// New собирает чанк и проверяет, что каждая локальная клетка занята ровно одним тайлом
func New(coord coords.ChunkCoord, size uint32, tiles []Tile) (*Chunk, error) {
	if size == 0 {
		return nil, fmt.Errorf("chunk %v: size must be positive", coord)
	}
	want := int(size) * int(size)
	if len(tiles) != want {
		return nil, fmt.Errorf("chunk %v: expected %d tiles, got %d", coord, want, len(tiles))
	}

	m := make(map[coords.TileCoord]Tile, want)
	for _, t := range tiles {
		if t.Local.X < 0 || t.Local.Y < 0 || t.Local.X >= int32(size) || t.Local.Y >= int32(size) {
			return nil, fmt.Errorf("chunk %v: tile %v out of range", coord, t.Local)
		}
		if _, dup := m[t.Local]; dup {
			return nil, fmt.Errorf("chunk %v: duplicate tile %v", coord, t.Local)
		}
		m[t.Local] = t
	}

	return &Chunk{coord: coord, size: size, tiles: m}, nil
}

func (c *Chunk) Coord() coords.ChunkCoord { return c.coord }

func (c *Chunk) Size() uint32 { return c.size }

// Len возвращает количество тайлов
func (c *Chunk) Len() int { return len(c.tiles) }

// Tile возвращает тайл по локальной координате
func (c *Chunk) Tile(local coords.TileCoord) (Tile, bool) {
	t, ok := c.tiles[local]
	return t, ok
}

// Each обходит тайлы в порядке строк (y, затем x)
func (c *Chunk) Each(fn func(Tile)) {
	n := int32(c.size)
	for y := int32(0); y < n; y++ {
		for x := int32(0); x < n; x++ {
			fn(c.tiles[coords.TileCoord{X: x, Y: y}])
		}
	}
}

// Tiles возвращает копию тайлов в порядке обхода Each
func (c *Chunk) Tiles() []Tile {
	out := make([]Tile, 0, len(c.tiles))
	c.Each(func(t Tile) { out = append(out, t) })
	return out
}

// Handles возвращает текущие хендлы отрисовки
func (c *Chunk) Handles() []RenderHandle {
	return c.handles
}

// Rendered сообщает, отрисован ли чанк
func (c *Chunk) Rendered() bool {
	return len(c.handles) > 0
}

// AttachHandles запоминает хендлы, по одному на тайл
func (c *Chunk) AttachHandles(handles []RenderHandle) error {
	if len(c.handles) > 0 {
		return fmt.Errorf("chunk %v already rendered", c.coord)
	}
	if len(handles) != len(c.tiles) {
		return fmt.Errorf("chunk %v: expected %d handles, got %d", c.coord, len(c.tiles), len(handles))
	}
	c.handles = handles
	return nil
}

// DetachHandles забирает хендлы у чанка
func (c *Chunk) DetachHandles() []RenderHandle {
	h := c.handles
	c.handles = nil
	return h
}
