package chunk

import (
	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/noisegeneration"
)

// Classifier возвращает внешний вид тайла по глобальной координате
type Classifier interface {
	Appearance(t coords.TileCoord) (noisegeneration.TileType, uint8, uint32)
}

// Generator строит чанки из классификатора. Безопасен для параллельного использования.
type Generator struct {
	size       uint32
	classifier Classifier
}

func NewGenerator(size uint32, classifier Classifier) *Generator {
	return &Generator{size: size, classifier: classifier}
}

// ChunkSize возвращает сторону генерируемых чанков
func (g *Generator) ChunkSize() uint32 {
	return g.size
}

// Generate создает чанк: по одному тайлу на каждую локальную клетку
func (g *Generator) Generate(coord coords.ChunkCoord) *Chunk {
	n := int32(g.size)
	tiles := make(map[coords.TileCoord]Tile, n*n)
	for y := int32(0); y < n; y++ {
		for x := int32(0); x < n; x++ {
			local := coords.TileCoord{X: x, Y: y}
			typ, variant, sprite := g.classifier.Appearance(coords.GlobalTile(coord, local, g.size))
			tiles[local] = Tile{
				Local:       local,
				Type:        typ,
				Variant:     variant,
				SpriteIndex: sprite,
				Scale:       1,
			}
		}
	}
	return &Chunk{coord: coord, size: g.size, tiles: tiles}
}
