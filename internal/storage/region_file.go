package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/storage/util"
)

// Раскладка файла региона: заголовок, индексная таблица на RegionSide² чанков, затем данные
const (
	RegionSide = 16

	regionSlots      = RegionSide * RegionSide
	regionMagic      = "TREG"
	regionHeaderSize = 64
	regionEntrySize  = 16
	regionIndexSize  = regionSlots * regionEntrySize
	regionDataStart  = regionHeaderSize + regionIndexSize
	regionFileExt    = ".dat"
)

// RegionCoord - координата региона в сетке регионов
type RegionCoord struct {
	X, Y int32
}

// RegionOf возвращает регион, которому принадлежит чанк
func RegionOf(c coords.ChunkCoord) RegionCoord {
	return RegionCoord{X: coords.FloorDiv(c.X, RegionSide), Y: coords.FloorDiv(c.Y, RegionSide)}
}

// slotOf возвращает номер записи чанка в индексной таблице региона
func slotOf(c coords.ChunkCoord) int {
	lx := c.X - coords.FloorDiv(c.X, RegionSide)*RegionSide
	ly := c.Y - coords.FloorDiv(c.Y, RegionSide)*RegionSide
	return int(ly)*RegionSide + int(lx)
}

// Запись в индексной таблице. Size == 0 - слот пуст.
type regionEntry struct {
	Offset  uint32
	Size    uint32
	SavedAt int64
}

// RegionFile хранит записи чанков одного региона в одном файле
type RegionFile struct {
	path      string
	coord     RegionCoord
	chunkSize uint32
	file      *os.File
	mu        sync.RWMutex

	// Индексная таблица в памяти и конец данных
	index [regionSlots]regionEntry
	end   int64
}

// RegionPath возвращает путь к файлу региона
func RegionPath(dir string, chunkSize uint32, rc RegionCoord) string {
	return filepath.Join(dir, util.RegionKey(chunkSize, rc.X, rc.Y)+regionFileExt)
}

// OpenRegionFile открывает файл региона. Если create == false и файла нет,
// возвращается os.ErrNotExist.
func OpenRegionFile(dir string, chunkSize uint32, rc RegionCoord, create bool) (*RegionFile, error) {
	path := RegionPath(dir, chunkSize, rc)
	flags := os.O_RDWR
	if create {
		flags |= os.O_CREATE
	}
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, err
	}

	r := &RegionFile{path: path, coord: rc, chunkSize: chunkSize, file: file}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.Size() == 0 {
		// Новый файл: пишем заголовок и пустую индексную таблицу
		if err := r.initializeFile(); err != nil {
			file.Close()
			return nil, err
		}
		return r, nil
	}

	if err := r.loadIndexTable(info.Size()); err != nil {
		file.Close()
		return nil, &DecodeError{Key: filepath.Base(path), Err: err}
	}
	return r, nil
}

func (r *RegionFile) header() []byte {
	header := make([]byte, regionHeaderSize)
	copy(header[0:4], regionMagic)
	binary.LittleEndian.PutUint32(header[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(header[8:12], r.chunkSize)
	binary.LittleEndian.PutUint32(header[12:16], uint32(r.coord.X))
	binary.LittleEndian.PutUint32(header[16:20], uint32(r.coord.Y))
	binary.LittleEndian.PutUint64(header[20:28], uint64(time.Now().Unix()))
	return header
}

func (r *RegionFile) initializeFile() error {
	buf := make([]byte, regionDataStart)
	copy(buf, r.header())
	if _, err := r.file.WriteAt(buf, 0); err != nil {
		return err
	}
	r.end = regionDataStart
	return r.file.Sync()
}

// loadIndexTable читает и проверяет заголовок, затем индексную таблицу
func (r *RegionFile) loadIndexTable(fileSize int64) error {
	if fileSize < regionDataStart {
		return fmt.Errorf("file is %d bytes, shorter than header and index", fileSize)
	}
	buf := make([]byte, regionDataStart)
	if _, err := r.file.ReadAt(buf, 0); err != nil {
		return err
	}

	switch {
	case string(buf[0:4]) != regionMagic:
		return fmt.Errorf("bad magic %q", buf[0:4])
	case binary.LittleEndian.Uint32(buf[4:8]) != FormatVersion:
		return fmt.Errorf("unsupported version %d", binary.LittleEndian.Uint32(buf[4:8]))
	case binary.LittleEndian.Uint32(buf[8:12]) != r.chunkSize:
		return fmt.Errorf("chunk size %d, expected %d", binary.LittleEndian.Uint32(buf[8:12]), r.chunkSize)
	case int32(binary.LittleEndian.Uint32(buf[12:16])) != r.coord.X || int32(binary.LittleEndian.Uint32(buf[16:20])) != r.coord.Y:
		return fmt.Errorf("header is for another region")
	}

	for i := 0; i < regionSlots; i++ {
		off := regionHeaderSize + i*regionEntrySize
		r.index[i] = regionEntry{
			Offset:  binary.LittleEndian.Uint32(buf[off : off+4]),
			Size:    binary.LittleEndian.Uint32(buf[off+4 : off+8]),
			SavedAt: int64(binary.LittleEndian.Uint64(buf[off+8 : off+16])),
		}
	}
	r.end = fileSize
	return nil
}

func (r *RegionFile) writeEntry(slot int) error {
	e := r.index[slot]
	b := make([]byte, regionEntrySize)
	binary.LittleEndian.PutUint32(b[0:4], e.Offset)
	binary.LittleEndian.PutUint32(b[4:8], e.Size)
	binary.LittleEndian.PutUint64(b[8:16], uint64(e.SavedAt))
	_, err := r.file.WriteAt(b, int64(regionHeaderSize+slot*regionEntrySize))
	return err
}

// ReadChunk возвращает сырую запись чанка. ok == false, если слот пуст.
func (r *RegionFile) ReadChunk(c coords.ChunkCoord) (data []byte, ok bool, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e := r.index[slotOf(c)]
	if e.Size == 0 {
		return nil, false, nil
	}
	if int64(e.Offset) < regionDataStart || int64(e.Offset)+int64(e.Size) > r.end {
		return nil, true, fmt.Errorf("index entry [%d, +%d) is outside the data area", e.Offset, e.Size)
	}

	data = make([]byte, e.Size)
	if _, err := r.file.ReadAt(data, int64(e.Offset)); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, true, err
	}
	return data, true, nil
}

// WriteChunk дописывает запись чанка в конец файла и только после fsync данных
// переключает на нее запись индекса.
func (r *RegionFile) WriteChunk(c coords.ChunkCoord, data []byte) error {
	if len(data) == 0 {
		return errors.New("empty chunk record")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	slot := slotOf(c)
	offset := r.end
	if offset+int64(len(data)) > int64(^uint32(0)) {
		return fmt.Errorf("region %v is full", r.coord)
	}

	// Запись всегда дописывается в конец: старая версия остается целой,
	// пока индекс не переключен на новую. Место освобождает компактация.
	if _, err := r.file.WriteAt(data, offset); err != nil {
		return err
	}
	if err := r.file.Sync(); err != nil {
		return err
	}
	r.end = offset + int64(len(data))

	r.index[slot] = regionEntry{Offset: uint32(offset), Size: uint32(len(data)), SavedAt: time.Now().Unix()}
	if err := r.writeEntry(slot); err != nil {
		return err
	}
	return r.file.Sync()
}

// ClearChunk освобождает слот чанка. Данные остаются до компактации.
func (r *RegionFile) ClearChunk(c coords.ChunkCoord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot := slotOf(c)
	if r.index[slot].Size == 0 {
		return nil
	}
	r.index[slot] = regionEntry{}
	if err := r.writeEntry(slot); err != nil {
		return err
	}
	return r.file.Sync()
}

// Chunks возвращает координаты чанков с непустыми слотами
func (r *RegionFile) Chunks() []coords.ChunkCoord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []coords.ChunkCoord
	for i, e := range r.index {
		if e.Size == 0 {
			continue
		}
		out = append(out, coords.ChunkCoord{
			X: r.coord.X*RegionSide + int32(i%RegionSide),
			Y: r.coord.Y*RegionSide + int32(i/RegionSide),
		})
	}
	return out
}

// liveBytes - объем данных, на которые ссылается индекс
func (r *RegionFile) liveBytes() int64 {
	var used int64
	for _, e := range r.index {
		used += int64(e.Size)
	}
	return used
}

// NeedsCompaction сообщает, что мертвые данные занимают больше,
// чем допускает RegionCompactionGrowFactor.
func (r *RegionFile) NeedsCompaction() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.needsCompaction()
}

func (r *RegionFile) needsCompaction() bool {
	data := r.end - regionDataStart
	return data > 0 && float64(data) > float64(r.liveBytes())*RegionCompactionGrowFactor
}

// Compact переписывает живые записи в новый файл и атомарно подменяет им старый
func (r *RegionFile) Compact() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.needsCompaction() {
		return nil
	}

	tmpPath := r.path + ".tmp"
	_ = os.Remove(tmpPath)
	tmp, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("создание tmp-файла для компактации: %w", err)
	}
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}

	var index [regionSlots]regionEntry
	offset := int64(regionDataStart)
	for slot, e := range r.index {
		if e.Size == 0 {
			continue
		}
		data := make([]byte, e.Size)
		if _, err := r.file.ReadAt(data, int64(e.Offset)); err != nil {
			return fail(fmt.Errorf("чтение слота %d: %w", slot, err))
		}
		if _, err := tmp.WriteAt(data, offset); err != nil {
			return fail(err)
		}
		index[slot] = regionEntry{Offset: uint32(offset), Size: e.Size, SavedAt: e.SavedAt}
		offset += int64(e.Size)
	}

	head := make([]byte, regionDataStart)
	copy(head, r.header())
	for slot, e := range index {
		off := regionHeaderSize + slot*regionEntrySize
		binary.LittleEndian.PutUint32(head[off:off+4], e.Offset)
		binary.LittleEndian.PutUint32(head[off+4:off+8], e.Size)
		binary.LittleEndian.PutUint64(head[off+8:off+16], uint64(e.SavedAt))
	}
	if _, err := tmp.WriteAt(head, 0); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	// Закрываем текущий файл перед заменой
	if err := r.file.Close(); err != nil {
		return err
	}
	renameErr := os.Rename(tmpPath, r.path)
	file, err := os.OpenFile(r.path, os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	r.file = file
	if renameErr != nil {
		// Старый файл остался на месте вместе со старым индексом
		os.Remove(tmpPath)
		return renameErr
	}
	r.index = index
	r.end = offset
	return nil
}

// Size возвращает размер файла региона
func (r *RegionFile) Size() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.end
}

// Close закрывает файл региона
func (r *RegionFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}
