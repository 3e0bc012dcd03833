package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/annelo/go-tile-streamer/internal/chunk"
	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FormatVersion - версия формата записи чанка и метаданных мира
const FormatVersion = 1

// Поддерживаемые бэкенды хранилища
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRegion = "region"
	BackendNone   = "none"
)

// WorldStorage представляет интерфейс для хранения чанков мира
type WorldStorage interface {
	// SaveChunk сохраняет тайлы чанка (без хендлов отрисовки)
	SaveChunk(ctx context.Context, c *chunk.Chunk) error

	// LoadChunk загружает чанк из хранилища.
	// Возвращает ErrChunkNotFound, если записи нет, и *DecodeError,
	// если запись есть, но прочитать ее нельзя.
	LoadChunk(ctx context.Context, coord coords.ChunkCoord) (*chunk.Chunk, error)

	// DeleteChunk удаляет чанк из хранилища
	DeleteChunk(ctx context.Context, coord coords.ChunkCoord) error

	// ListChunks возвращает список всех сохранённых чанков
	ListChunks(ctx context.Context) ([]coords.ChunkCoord, error)

	// SaveWorld сохраняет общую информацию о мире
	SaveWorld(ctx context.Context, info *WorldInfo) error

	// LoadWorld загружает общую информацию о мире
	LoadWorld(ctx context.Context) (*WorldInfo, error)

	// Close закрывает хранилище и освобождает ресурсы
	Close() error
}

// Quarantiner реализуется хранилищами, которые умеют убирать поврежденные записи в сторону
type Quarantiner interface {
	Quarantine(ctx context.Context, coord coords.ChunkCoord) error
}

// WorldInfo содержит общую информацию о мире
type WorldInfo struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	BiomeSeed    uint32            `json:"biome_seed"`
	TileSeed     uint32            `json:"tile_seed"`
	ChunkSize    uint32            `json:"chunk_size"`
	NoiseBackend string            `json:"noise_backend"`
	Version      int               `json:"version"`
	CreatedAt    int64             `json:"created_at"`
	LastSaveAt   int64             `json:"last_save_at"`
	Properties   map[string]string `json:"properties,omitempty"`
}

// NewWorldInfo создает описание нового мира с уникальным идентификатором
func NewWorldInfo(name string, biomeSeed, tileSeed, chunkSize uint32, backend string) *WorldInfo {
	now := time.Now().Unix()
	return &WorldInfo{
		ID:           uuid.NewString(),
		Name:         name,
		BiomeSeed:    biomeSeed,
		TileSeed:     tileSeed,
		ChunkSize:    chunkSize,
		NoiseBackend: backend,
		Version:      FormatVersion,
		CreatedAt:    now,
		LastSaveAt:   now,
		Properties:   map[string]string{},
	}
}

// ErrChunkNotFound возвращается, когда чанк не найден в хранилище
type ErrChunkNotFound struct {
	X int32
	Y int32
}

func (e ErrChunkNotFound) Error() string {
	return fmt.Sprintf("чанк [%d, %d] не найден в хранилище", e.X, e.Y)
}

// IsNotFound сообщает, означает ли ошибка отсутствие чанка
func IsNotFound(err error) bool {
	var nf ErrChunkNotFound
	return errors.As(err, &nf)
}

// ErrCorruptChunk - общий признак поврежденной записи чанка
var ErrCorruptChunk = errors.New("запись чанка повреждена")

// ErrWorldNotFound возвращается LoadWorld, если мир еще не сохранялся
var ErrWorldNotFound = errors.New("информация о мире не найдена")

// ErrWorldMismatch - сохраненный мир сгенерирован с другими параметрами
var ErrWorldMismatch = errors.New("параметры мира не совпадают с сохраненными")

// DecodeError описывает запись, которая существует, но не может быть прочитана
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ошибка декодирования %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is позволяет сопоставлять любую ошибку декодирования с ErrCorruptChunk
func (e *DecodeError) Is(target error) bool {
	return target == ErrCorruptChunk
}

// CheckWorld проверяет, что сохраненный мир совместим с ожидаемыми параметрами
func CheckWorld(stored, expected *WorldInfo) error {
	if stored == nil || expected == nil {
		return nil
	}
	switch {
	case stored.ChunkSize != expected.ChunkSize:
		return fmt.Errorf("%w: chunk_size %d != %d", ErrWorldMismatch, stored.ChunkSize, expected.ChunkSize)
	case stored.BiomeSeed != expected.BiomeSeed || stored.TileSeed != expected.TileSeed:
		return fmt.Errorf("%w: seeds %d/%d != %d/%d", ErrWorldMismatch,
			stored.BiomeSeed, stored.TileSeed, expected.BiomeSeed, expected.TileSeed)
	case stored.NoiseBackend != expected.NoiseBackend:
		return fmt.Errorf("%w: noise_backend %q != %q", ErrWorldMismatch, stored.NoiseBackend, expected.NoiseBackend)
	case stored.Version > FormatVersion:
		return fmt.Errorf("%w: format version %d is newer than %d", ErrWorldMismatch, stored.Version, FormatVersion)
	}
	return nil
}

// Options - общие параметры бэкендов
type Options struct {
	Backend   string
	Path      string
	ChunkSize uint32
	Logger    *zap.SugaredLogger
}

// Open открывает хранилище выбранного типа.
// Для BackendNone возвращается nil: чанки только генерируются.
func Open(opts Options) (WorldStorage, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileStorage(opts.Path, opts.ChunkSize, opts.Logger)
	case BackendSQLite:
		return OpenSQLite(opts.Path, opts.ChunkSize, opts.Logger)
	case BackendRegion:
		return NewRegionStorage(opts.Path, opts.ChunkSize, opts.Logger)
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("неизвестный бэкенд хранилища %q", opts.Backend)
	}
}

// OpenWorld загружает метаданные мира или сохраняет новые, если их нет,
// и проверяет совместимость параметров.
func OpenWorld(ctx context.Context, s WorldStorage, expected *WorldInfo) (*WorldInfo, error) {
	stored, err := s.LoadWorld(ctx)
	if errors.Is(err, ErrWorldNotFound) {
		if err := s.SaveWorld(ctx, expected); err != nil {
			return nil, err
		}
		return expected, nil
	}
	if err != nil {
		return nil, err
	}
	if err := CheckWorld(stored, expected); err != nil {
		return nil, err
	}
	stored.LastSaveAt = time.Now().Unix()
	if err := s.SaveWorld(ctx, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

func nopIfNil(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l
}
