package storage

import (
	"bytes"
	"container/list"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/annelo/go-tile-streamer/internal/chunk"
	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/storage/util"
)

// Параметры регионального хранилища
const (
	// MaxOpenRegions - сколько файлов регионов держать открытыми одновременно
	MaxOpenRegions = 64
	// RegionCompactionInterval - период фоновой проверки компактации
	RegionCompactionInterval = time.Minute
	// RegionCompactionGrowFactor - во сколько раз файл может превышать живые данные
	RegionCompactionGrowFactor = 2.0

	corruptDir = "corrupt"
)

// RegionStorage хранит чанки в файлах регионов по RegionSide×RegionSide чанков.
// Открытые регионы кешируются по LRU; операции с хранилищем сериализуются.
type RegionStorage struct {
	basePath  string
	chunkSize uint32
	logger    *zap.SugaredLogger

	mu             sync.Mutex
	regions        map[RegionCoord]*list.Element
	lruList        *list.List
	maxOpenRegions int
	closed         bool

	// Фоновый воркер компактации
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRegionStorage создает региональное хранилище в директории basePath
func NewRegionStorage(basePath string, chunkSize uint32, logger *zap.SugaredLogger) (*RegionStorage, error) {
	if chunkSize == 0 {
		return nil, fmt.Errorf("размер чанка должен быть больше нуля")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию хранилища: %w", err)
	}

	rs := &RegionStorage{
		basePath:       basePath,
		chunkSize:      chunkSize,
		logger:         nopIfNil(logger),
		regions:        make(map[RegionCoord]*list.Element),
		lruList:        list.New(),
		maxOpenRegions: MaxOpenRegions,
		stopChan:       make(chan struct{}),
	}

	// Запускаем фоновый воркер компактации
	rs.wg.Add(1)
	go rs.compactionWorker(RegionCompactionInterval)

	return rs, nil
}

// region возвращает открытый регион, открывая его при необходимости.
// Вызывается под rs.mu. Без create отсутствующий файл дает (nil, nil).
func (rs *RegionStorage) region(rc RegionCoord, create bool) (*RegionFile, error) {
	if rs.closed {
		return nil, errors.New("хранилище закрыто")
	}
	if el, ok := rs.regions[rc]; ok {
		rs.lruList.MoveToFront(el)
		return el.Value.(*RegionFile), nil
	}

	// Проверяем, не превышен ли лимит открытых регионов
	for len(rs.regions) >= rs.maxOpenRegions {
		rs.closeOldestRegion()
	}

	r, err := OpenRegionFile(rs.basePath, rs.chunkSize, rc, create)
	if errors.Is(err, os.ErrNotExist) && !create {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rs.regions[rc] = rs.lruList.PushFront(r)
	return r, nil
}

// closeOldestRegion закрывает наименее используемый регион
func (rs *RegionStorage) closeOldestRegion() {
	el := rs.lruList.Back()
	if el == nil {
		return
	}
	r := el.Value.(*RegionFile)
	rs.lruList.Remove(el)
	delete(rs.regions, r.coord)
	if err := r.Close(); err != nil {
		rs.logger.Warnw("Ошибка при закрытии региона", "region", r.path, "error", err)
	}
	rs.logger.Debugw("Закрыт неиспользуемый регион", "region", r.path)
}

// SaveChunk кодирует чанк и записывает его в файл региона
func (rs *RegionStorage) SaveChunk(ctx context.Context, c *chunk.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.Size() != rs.chunkSize {
		return fmt.Errorf("чанк %v размера %d не подходит хранилищу с размером %d", c.Coord(), c.Size(), rs.chunkSize)
	}

	var buf bytes.Buffer
	if err := encodeChunk(&buf, c); err != nil {
		return fmt.Errorf("ошибка кодирования чанка %v: %w", c.Coord(), err)
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	r, err := rs.region(RegionOf(c.Coord()), true)
	if err != nil {
		return err
	}
	if err := r.WriteChunk(c.Coord(), buf.Bytes()); err != nil {
		rs.logger.Errorw("Ошибка при сохранении чанка", "chunk", c.Coord().String(), "region", r.path, "error", err)
		return fmt.Errorf("запись чанка %v: %w", c.Coord(), err)
	}
	return nil
}

// LoadChunk читает и декодирует запись чанка
func (rs *RegionStorage) LoadChunk(ctx context.Context, coord coords.ChunkCoord) (*chunk.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	key := util.ChunkKey(rs.chunkSize, coord)
	r, err := rs.region(RegionOf(coord), false)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			return nil, &DecodeError{Key: key, Err: err}
		}
		return nil, err
	}
	if r == nil {
		return nil, ErrChunkNotFound{X: coord.X, Y: coord.Y}
	}

	data, ok, err := r.ReadChunk(coord)
	if !ok {
		return nil, ErrChunkNotFound{X: coord.X, Y: coord.Y}
	}
	if err != nil {
		return nil, &DecodeError{Key: key, Err: err}
	}
	return decodeChunk(bytes.NewReader(data), key, coord, rs.chunkSize)
}

// DeleteChunk освобождает слот чанка. Отсутствующая запись не считается ошибкой.
func (rs *RegionStorage) DeleteChunk(ctx context.Context, coord coords.ChunkCoord) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	r, err := rs.region(RegionOf(coord), false)
	if err != nil || r == nil {
		return err
	}
	return r.ClearChunk(coord)
}

// Quarantine копирует поврежденную запись в corrupt/ и освобождает слот.
// Если поврежден сам файл региона, он целиком переносится в corrupt/.
func (rs *RegionStorage) Quarantine(ctx context.Context, coord coords.ChunkCoord) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	dir := filepath.Join(rs.basePath, corruptDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	rc := RegionOf(coord)
	r, err := rs.region(rc, false)
	var de *DecodeError
	if errors.As(err, &de) {
		path := RegionPath(rs.basePath, rs.chunkSize, rc)
		if err := os.Rename(path, filepath.Join(dir, filepath.Base(path))); err != nil {
			return fmt.Errorf("не удалось переместить поврежденный регион: %w", err)
		}
		rs.logger.Warnw("Поврежденный регион перемещен в карантин", "chunk", coord.String(), "region", path)
		return nil
	}
	if err != nil || r == nil {
		return err
	}

	data, ok, _ := r.ReadChunk(coord)
	if !ok {
		return nil
	}
	if data != nil {
		path := filepath.Join(dir, util.ChunkKey(rs.chunkSize, coord)+chunkFileExt)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("не удалось сохранить поврежденный чанк: %w", err)
		}
	}
	if err := r.ClearChunk(coord); err != nil {
		return err
	}
	rs.logger.Warnw("Поврежденный чанк перемещен в карантин", "chunk", coord.String(), "region", r.path)
	return nil
}

// ListChunks возвращает координаты всех сохраненных чанков текущего размера
func (rs *RegionStorage) ListChunks(ctx context.Context) ([]coords.ChunkCoord, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.closed {
		return nil, errors.New("хранилище закрыто")
	}

	entries, err := os.ReadDir(rs.basePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения директории: %w", err)
	}

	var result []coords.ChunkCoord
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, regionFileExt) {
			continue
		}
		size, rx, ry, err := util.ParseRegionKey(strings.TrimSuffix(name, regionFileExt))
		if err != nil || size != rs.chunkSize {
			continue
		}
		r, err := rs.region(RegionCoord{X: rx, Y: ry}, false)
		if err != nil {
			rs.logger.Warnw("Пропускаем нечитаемый регион", "region", name, "error", err)
			continue
		}
		if r != nil {
			result = append(result, r.Chunks()...)
		}
	}
	coords.SortChunks(result)
	return result, nil
}

// SaveWorld сохраняет информацию о мире в world_info.json
func (rs *RegionStorage) SaveWorld(ctx context.Context, info *WorldInfo) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.closed {
		return errors.New("хранилище закрыто")
	}
	return saveJSONFile(filepath.Join(rs.basePath, worldInfoFile), info)
}

// LoadWorld загружает информацию о мире
func (rs *RegionStorage) LoadWorld(ctx context.Context) (*WorldInfo, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.closed {
		return nil, errors.New("хранилище закрыто")
	}

	var info WorldInfo
	err := loadJSONFile(filepath.Join(rs.basePath, worldInfoFile), &info)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrWorldNotFound
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Compact компактирует открытые регионы, которым это нужно
func (rs *RegionStorage) Compact() error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	var errs []error
	for el := rs.lruList.Front(); el != nil; el = el.Next() {
		r := el.Value.(*RegionFile)
		if !r.NeedsCompaction() {
			continue
		}
		before := r.Size()
		if err := r.Compact(); err != nil {
			rs.logger.Errorw("Ошибка компактации региона", "region", r.path, "error", err)
			errs = append(errs, err)
			continue
		}
		rs.logger.Infow("Регион компактирован", "region", r.path, "before", before, "after", r.Size())
	}
	return errors.Join(errs...)
}

// compactionWorker периодически проверяет открытые файлы регионов
func (rs *RegionStorage) compactionWorker(interval time.Duration) {
	defer rs.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = rs.Compact()
		case <-rs.stopChan:
			return
		}
	}
}

// Close останавливает воркер и закрывает все открытые регионы. Повторный вызов безопасен.
func (rs *RegionStorage) Close() error {
	var lastErr error
	rs.closeOnce.Do(func() {
		// Сначала останавливаем фоновый воркер
		close(rs.stopChan)
		rs.wg.Wait()

		rs.mu.Lock()
		defer rs.mu.Unlock()
		for el := rs.lruList.Front(); el != nil; el = el.Next() {
			r := el.Value.(*RegionFile)
			if err := r.Close(); err != nil {
				rs.logger.Errorw("Ошибка при закрытии региона", "region", r.path, "error", err)
				lastErr = err
			}
		}
		rs.regions = make(map[RegionCoord]*list.Element)
		rs.lruList = list.New()
		rs.closed = true
	})
	return lastErr
}
