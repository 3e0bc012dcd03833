// Package coords содержит чистые преобразования между пиксельными,
// тайловыми и чанковыми координатами мира.
package coords

import (
	"fmt"
	"math"
	"sort"
)

// PixelPos - позиция в пиксельном пространстве мира
type PixelPos struct {
	X float32
	Y float32
}

// TileSize - размер одного тайла в пикселях
type TileSize struct {
	W float32
	H float32
}

// TileCoord - глобальная (или локальная внутри чанка) позиция тайла
type TileCoord struct {
	X int32
	Y int32
}

// ChunkCoord - позиция чанка в чанковом пространстве
type ChunkCoord struct {
	X int32
	Y int32
}

func (t TileCoord) String() string {
	return fmt.Sprintf("tile[%d,%d]", t.X, t.Y)
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("chunk[%d,%d]", c.X, c.Y)
}

// Add складывает две тайловые координаты
func (t TileCoord) Add(o TileCoord) TileCoord {
	return TileCoord{X: t.X + o.X, Y: t.Y + o.Y}
}

// Sub вычитает тайловые координаты
func (t TileCoord) Sub(o TileCoord) TileCoord {
	return TileCoord{X: t.X - o.X, Y: t.Y - o.Y}
}

// FloorDiv выполняет целочисленное деление с округлением вниз.
// В отличие от оператора / результат для отрицательных a не стремится к нулю.
func FloorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// outward округляет значение от начала координат:
// ceil для неотрицательных (знаковый бит сброшен), floor для отрицательных.
func outward(v float32) int32 {
	if math.Signbit(float64(v)) {
		return int32(math.Floor(float64(v)))
	}
	return int32(math.Ceil(float64(v)))
}

// PixelToTile переводит пиксельную позицию в тайл.
// Каждая ось округляется независимо "наружу": ceil для x >= 0, floor для x < 0.
func PixelToTile(p PixelPos, size TileSize) TileCoord {
	return TileCoord{
		X: outward(p.X / size.W),
		Y: outward(p.Y / size.H),
	}
}

// TileToChunk возвращает чанк, которому принадлежит тайл
func TileToChunk(t TileCoord, chunkSize uint32) ChunkCoord {
	s := int32(chunkSize)
	return ChunkCoord{X: FloorDiv(t.X, s), Y: FloorDiv(t.Y, s)}
}

// ChunkToTileOrigin возвращает глобальную координату тайла (0,0) чанка
func ChunkToTileOrigin(c ChunkCoord, chunkSize uint32) TileCoord {
	s := int32(chunkSize)
	return TileCoord{X: c.X * s, Y: c.Y * s}
}

// LocalTileInChunk возвращает позицию тайла относительно начала чанка
func LocalTileInChunk(t TileCoord, chunkOrigin TileCoord) TileCoord {
	return t.Sub(chunkOrigin)
}

// PixelToChunk - композиция PixelToTile и TileToChunk
func PixelToChunk(p PixelPos, size TileSize, chunkSize uint32) ChunkCoord {
	return TileToChunk(PixelToTile(p, size), chunkSize)
}

// GlobalTile возвращает глобальную координату локального тайла чанка
func GlobalTile(c ChunkCoord, local TileCoord, chunkSize uint32) TileCoord {
	return ChunkToTileOrigin(c, chunkSize).Add(local)
}

// TileCenterPixel возвращает мировую пиксельную позицию центра тайла,
// в которой тайл отрисовывается.
func TileCenterPixel(c ChunkCoord, local TileCoord, chunkSize uint32, size TileSize) PixelPos {
	cs := float32(chunkSize)
	return PixelPos{
		X: float32(local.X)*size.W + size.W/2 + float32(c.X)*cs*size.W,
		Y: float32(local.Y)*size.H + size.H/2 + float32(c.Y)*cs*size.H,
	}
}

// Window возвращает квадрат чанков со стороной 2*radius+1 вокруг center.
// Границы считаются в int64 и обрезаются по диапазону int32: у края мира
// окно усечено, а не перенесено на противоположную сторону.
func Window(center ChunkCoord, radius uint32) map[ChunkCoord]struct{} {
	minX, maxX := clampSpan(int64(center.X), int64(radius))
	minY, maxY := clampSpan(int64(center.Y), int64(radius))
	window := make(map[ChunkCoord]struct{}, (maxX-minX+1)*(maxY-minY+1))
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			window[ChunkCoord{X: int32(x), Y: int32(y)}] = struct{}{}
		}
	}
	return window
}

func clampSpan(c, r int64) (int64, int64) {
	return max(c-r, math.MinInt32), min(c+r, math.MaxInt32)
}

// SortChunks упорядочивает координаты по X, затем по Y
func SortChunks(list []ChunkCoord) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].X != list[j].X {
			return list[i].X < list[j].X
		}
		return list[i].Y < list[j].Y
	})
}
