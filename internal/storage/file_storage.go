package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/annelo/go-tile-streamer/internal/chunk"
	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/storage/util"
	"go.uber.org/zap"
)

const (
	chunkFileExt    = ".bin"
	corruptFileExt  = ".corrupt"
	worldInfoFile   = "world_info.json"
	chunkTempPrefix = ".chunk-"
)

// FileStorage хранит каждый чанк в отдельном файле <dir>/chunk_{size}_{x}_{y}.bin
type FileStorage struct {
	basePath  string
	chunkSize uint32
	logger    *zap.SugaredLogger

	closeOnce sync.Once
	closed    bool
	mu        sync.RWMutex
}

// NewFileStorage создает файловое хранилище в директории basePath
func NewFileStorage(basePath string, chunkSize uint32, logger *zap.SugaredLogger) (*FileStorage, error) {
	if chunkSize == 0 {
		return nil, fmt.Errorf("размер чанка должен быть больше нуля")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию хранилища: %w", err)
	}

	return &FileStorage{
		basePath:  basePath,
		chunkSize: chunkSize,
		logger:    nopIfNil(logger),
	}, nil
}

// ChunkPath возвращает путь к файлу чанка
func (fs *FileStorage) ChunkPath(coord coords.ChunkCoord) string {
	return filepath.Join(fs.basePath, util.ChunkKey(fs.chunkSize, coord)+chunkFileExt)
}

func (fs *FileStorage) checkOpen() error {
	if fs.closed {
		return errors.New("хранилище закрыто")
	}
	return nil
}

// SaveChunk атомарно записывает чанк: во временный файл, fsync, затем rename
func (fs *FileStorage) SaveChunk(ctx context.Context, c *chunk.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.Size() != fs.chunkSize {
		return fmt.Errorf("чанк %v размера %d не подходит хранилищу с размером %d", c.Coord(), c.Size(), fs.chunkSize)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.checkOpen(); err != nil {
		return err
	}

	path := fs.ChunkPath(c.Coord())
	tmp, err := os.CreateTemp(fs.basePath, chunkTempPrefix+"*")
	if err != nil {
		return fmt.Errorf("не удалось создать временный файл: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		fs.logger.Errorw("Ошибка при сохранении чанка", "chunk", c.Coord().String(), "error", err)
		return err
	}

	if err := encodeChunk(tmp, c); err != nil {
		return fail(fmt.Errorf("ошибка кодирования чанка %v: %w", c.Coord(), err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("ошибка синхронизации файла: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return fail(fmt.Errorf("ошибка закрытия файла: %w", err))
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fail(fmt.Errorf("ошибка переименования файла чанка: %w", err))
	}

	fs.logger.Debugw("Чанк сохранен", "chunk", c.Coord().String(), "path", path)
	return nil
}

// LoadChunk загружает чанк из файла
func (fs *FileStorage) LoadChunk(ctx context.Context, coord coords.ChunkCoord) (*chunk.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if err := fs.checkOpen(); err != nil {
		return nil, err
	}

	f, err := os.Open(fs.ChunkPath(coord))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrChunkNotFound{X: coord.X, Y: coord.Y}
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла чанка: %w", err)
	}
	defer f.Close()

	return decodeChunk(f, util.ChunkKey(fs.chunkSize, coord), coord, fs.chunkSize)
}

// DeleteChunk удаляет файл чанка. Отсутствующий файл не считается ошибкой.
func (fs *FileStorage) DeleteChunk(ctx context.Context, coord coords.ChunkCoord) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.checkOpen(); err != nil {
		return err
	}

	err := os.Remove(fs.ChunkPath(coord))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("ошибка удаления чанка: %w", err)
	}
	return nil
}

// Quarantine переименовывает поврежденный файл в *.corrupt, чтобы он не мешал повторной генерации
func (fs *FileStorage) Quarantine(ctx context.Context, coord coords.ChunkCoord) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.checkOpen(); err != nil {
		return err
	}

	path := fs.ChunkPath(coord)
	if err := os.Rename(path, path+corruptFileExt); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("не удалось переместить поврежденный чанк: %w", err)
	}
	fs.logger.Warnw("Поврежденный чанк перемещен в карантин", "chunk", coord.String(), "path", path+corruptFileExt)
	return nil
}

// ListChunks возвращает координаты всех сохраненных чанков текущего размера
func (fs *FileStorage) ListChunks(ctx context.Context) ([]coords.ChunkCoord, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if err := fs.checkOpen(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(fs.basePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения директории: %w", err)
	}

	var result []coords.ChunkCoord
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, chunkFileExt) {
			continue
		}
		size, coord, err := util.ParseChunkKey(strings.TrimSuffix(name, chunkFileExt))
		if err != nil || size != fs.chunkSize {
			continue
		}
		result = append(result, coord)
	}
	coords.SortChunks(result)
	return result, nil
}

// SaveWorld сохраняет информацию о мире в world_info.json
func (fs *FileStorage) SaveWorld(ctx context.Context, info *WorldInfo) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.checkOpen(); err != nil {
		return err
	}
	return saveJSONFile(filepath.Join(fs.basePath, worldInfoFile), info)
}

// LoadWorld загружает информацию о мире
func (fs *FileStorage) LoadWorld(ctx context.Context) (*WorldInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if err := fs.checkOpen(); err != nil {
		return nil, err
	}

	var info WorldInfo
	err := loadJSONFile(filepath.Join(fs.basePath, worldInfoFile), &info)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrWorldNotFound
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Close закрывает хранилище. Повторный вызов безопасен.
func (fs *FileStorage) Close() error {
	fs.closeOnce.Do(func() {
		fs.mu.Lock()
		fs.closed = true
		fs.mu.Unlock()
	})
	return nil
}

// saveJSONFile атомарно сохраняет объект в JSON-файл
func saveJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации в JSON: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("ошибка записи файла: %w", err)
	}
	return os.Rename(tmp, path)
}

// loadJSONFile загружает объект из JSON-файла
func loadJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("ошибка десериализации из JSON: %w", err)
	}
	return nil
}
