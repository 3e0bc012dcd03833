package service

import (
	"github.com/annelo/go-tile-streamer/internal/chunk"
	"github.com/annelo/go-tile-streamer/internal/noisegeneration"
	"github.com/annelo/go-tile-streamer/pkg/protocol/tilestream"
)

// Порядковые номера TileType совпадают с enum в proto
func toProtoTileType(t noisegeneration.TileType) tilestream.TileType {
	return tilestream.TileType(t.Ordinal())
}

func toProtoBiome(b noisegeneration.BiomeType) tilestream.Biome {
	if b == noisegeneration.GrassLand {
		return tilestream.Biome_GRASS_LAND
	}
	return tilestream.Biome_OCEAN
}

func newChunkResponse(c *chunk.Chunk, source tilestream.ChunkSource) *tilestream.ChunkResponse {
	resp := &tilestream.ChunkResponse{
		X:      c.Coord().X,
		Y:      c.Coord().Y,
		Size:   c.Size(),
		Source: source,
		Tiles:  make([]*tilestream.Tile, 0, c.Len()),
	}
	c.Each(func(t chunk.Tile) {
		resp.Tiles = append(resp.Tiles, &tilestream.Tile{
			LocalX:      t.Local.X,
			LocalY:      t.Local.Y,
			Layer:       t.Layer,
			Scale:       t.Scale,
			SpriteIndex: t.SpriteIndex,
			Type:        toProtoTileType(t.Type),
			Variant:     uint32(t.Variant),
		})
	})
	return resp
}

func newClassifyResponse(s noisegeneration.Sample, variant uint8, sprite uint32) *tilestream.ClassifyResponse {
	return &tilestream.ClassifyResponse{
		X:           s.Tile.X,
		Y:           s.Tile.Y,
		TileType:    toProtoTileType(s.Type),
		Biome:       toProtoBiome(s.Biome),
		BiomeValue:  s.BiomeValue,
		Detail:      s.Detail,
		Score:       s.Score,
		Variant:     uint32(variant),
		SpriteIndex: sprite,
	}
}
