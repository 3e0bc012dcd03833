package storage

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/annelo/go-tile-streamer/internal/chunk"
	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/noisegeneration"
	"github.com/klauspost/compress/zstd"
)

const chunkMagic = "TSCH"

// chunkHeader - первая строка записи (JSON)
type chunkHeader struct {
	Magic     string `json:"magic"`
	Version   int    `json:"version"`
	ChunkSize uint32 `json:"chunk_size"`
	X         int32  `json:"x"`
	Y         int32  `json:"y"`
	Count     int    `json:"count"`
}

// tileRecord - сохраняемая часть тайла. Position = (local x, local y, layer).
type tileRecord struct {
	Position    [3]int32
	Scale       float32
	SpriteIndex uint32
	Type        uint8
	Variant     uint8
}

// encodeChunk пишет чанк в w: zstd(JSON-заголовок + '\n' + gob([]tileRecord))
func encodeChunk(w io.Writer, c *chunk.Chunk) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(enc)

	records := make([]tileRecord, 0, c.Len())
	c.Each(func(t chunk.Tile) {
		records = append(records, tileRecord{
			Position:    [3]int32{t.Local.X, t.Local.Y, t.Layer},
			Scale:       t.Scale,
			SpriteIndex: t.SpriteIndex,
			Type:        uint8(t.Type),
			Variant:     t.Variant,
		})
	})

	hb, err := json.Marshal(chunkHeader{
		Magic:     chunkMagic,
		Version:   FormatVersion,
		ChunkSize: c.Size(),
		X:         c.Coord().X,
		Y:         c.Coord().Y,
		Count:     len(records),
	})
	if err != nil {
		enc.Close()
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(records); err != nil {
		enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// decodeChunk читает запись и проверяет ее соответствие ожидаемому чанку.
// Любая ошибка формата возвращается как *DecodeError.
func decodeChunk(r io.Reader, key string, want coords.ChunkCoord, size uint32) (*chunk.Chunk, error) {
	corrupt := func(err error) error {
		return &DecodeError{Key: key, Err: err}
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, corrupt(err)
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return nil, corrupt(fmt.Errorf("header: %w", err))
	}

	var h chunkHeader
	if err := json.Unmarshal(line, &h); err != nil {
		return nil, corrupt(fmt.Errorf("header: %w", err))
	}
	switch {
	case h.Magic != chunkMagic:
		return nil, corrupt(fmt.Errorf("bad magic %q", h.Magic))
	case h.Version != FormatVersion:
		return nil, corrupt(fmt.Errorf("unsupported version %d", h.Version))
	case h.ChunkSize != size:
		return nil, corrupt(fmt.Errorf("chunk size %d, expected %d", h.ChunkSize, size))
	case h.X != want.X || h.Y != want.Y:
		return nil, corrupt(fmt.Errorf("record is for chunk [%d, %d]", h.X, h.Y))
	case h.Count != int(size)*int(size):
		return nil, corrupt(fmt.Errorf("header count %d, expected %d", h.Count, int(size)*int(size)))
	}

	var records []tileRecord
	if err := gob.NewDecoder(br).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, corrupt(fmt.Errorf("gob decode: %w", err))
	}
	if len(records) != h.Count {
		return nil, corrupt(fmt.Errorf("decoded %d tiles, header says %d", len(records), h.Count))
	}

	tiles := make([]chunk.Tile, 0, len(records))
	for _, rec := range records {
		tt := noisegeneration.TileType(rec.Type)
		if !tt.Valid() {
			return nil, corrupt(fmt.Errorf("unknown tile type %d", rec.Type))
		}
		tiles = append(tiles, chunk.Tile{
			Local:       coords.TileCoord{X: rec.Position[0], Y: rec.Position[1]},
			Layer:       rec.Position[2],
			Type:        tt,
			Variant:     rec.Variant,
			SpriteIndex: rec.SpriteIndex,
			Scale:       rec.Scale,
		})
	}

	c, err := chunk.New(want, size, tiles)
	if err != nil {
		return nil, corrupt(err)
	}
	return c, nil
}
