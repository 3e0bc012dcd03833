package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/annelo/go-tile-streamer/internal/coords"
)

const (
	chunkKeyPrefix  = "chunk_"
	regionKeyPrefix = "region_"
)

// ChunkKey формирует идентификатор чанка вида chunk_{size}_{x}_{y}.
// Размер входит в ключ, поэтому миры с разным размером чанка не пересекаются.
func ChunkKey(size uint32, c coords.ChunkCoord) string {
	return fmt.Sprintf("%s%d_%d_%d", chunkKeyPrefix, size, c.X, c.Y)
}

// ParseChunkKey разбирает ключ, сформированный ChunkKey
func ParseChunkKey(key string) (uint32, coords.ChunkCoord, error) {
	size, x, y, err := parseKey(chunkKeyPrefix, key)
	if err != nil {
		return 0, coords.ChunkCoord{}, fmt.Errorf("некорректный ключ чанка %q", key)
	}
	c := coords.ChunkCoord{X: x, Y: y}
	// Отсекаем неканонические записи вроде ведущих нулей
	if ChunkKey(size, c) != key {
		return 0, coords.ChunkCoord{}, fmt.Errorf("некорректный ключ чанка %q", key)
	}
	return size, c, nil
}

// RegionKey формирует имя региона вида region_{size}_{rx}_{ry}
func RegionKey(size uint32, rx, ry int32) string {
	return fmt.Sprintf("%s%d_%d_%d", regionKeyPrefix, size, rx, ry)
}

// ParseRegionKey разбирает ключ, сформированный RegionKey
func ParseRegionKey(key string) (size uint32, rx, ry int32, err error) {
	size, rx, ry, err = parseKey(regionKeyPrefix, key)
	if err != nil || RegionKey(size, rx, ry) != key {
		return 0, 0, 0, fmt.Errorf("некорректный ключ региона %q", key)
	}
	return size, rx, ry, nil
}

func parseKey(prefix, key string) (uint32, int32, int32, error) {
	if !strings.HasPrefix(key, prefix) {
		return 0, 0, 0, strconv.ErrSyntax
	}
	parts := strings.Split(strings.TrimPrefix(key, prefix), "_")
	if len(parts) != 3 {
		return 0, 0, 0, strconv.ErrSyntax
	}
	size, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, 0, 0, err
	}
	x, err := strconv.ParseInt(parts[1], 10, 32)
	if err != nil {
		return 0, 0, 0, err
	}
	y, err := strconv.ParseInt(parts[2], 10, 32)
	if err != nil {
		return 0, 0, 0, err
	}
	return uint32(size), int32(x), int32(y), nil
}
