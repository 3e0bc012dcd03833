package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/annelo/go-tile-streamer/internal/chunk"
	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/storage/util"
	"go.uber.org/zap"
)

const worldRowID = "world"

// SQLiteStorage хранит чанки в одной базе SQLite; формат записи тот же, что у файлов
type SQLiteStorage struct {
	db        *sql.DB
	chunkSize uint32
	logger    *zap.SugaredLogger
	closeOnce sync.Once
	closeErr  error
}

// OpenSQLite открывает (или создает) базу по пути path
func OpenSQLite(path string, chunkSize uint32, logger *zap.SugaredLogger) (*SQLiteStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("пустой путь к базе")
	}
	if chunkSize == 0 {
		return nil, fmt.Errorf("размер чанка должен быть больше нуля")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStorage{
		db:        db,
		chunkSize: chunkSize,
		logger:    nopIfNil(logger),
	}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=FULL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			key TEXT PRIMARY KEY,
			chunk_size INTEGER NOT NULL,
			cx INTEGER NOT NULL,
			cy INTEGER NOT NULL,
			data BLOB NOT NULL,
			saved_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_size_pos ON chunks(chunk_size, cx, cy);`,
		`CREATE TABLE IF NOT EXISTS corrupt_chunks (
			key TEXT NOT NULL,
			data BLOB NOT NULL,
			quarantined_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS world (
			id TEXT PRIMARY KEY,
			info TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// SaveChunk перезаписывает строку чанка в одной транзакции
func (s *SQLiteStorage) SaveChunk(ctx context.Context, c *chunk.Chunk) error {
	if c.Size() != s.chunkSize {
		return fmt.Errorf("чанк %v размера %d не подходит хранилищу с размером %d", c.Coord(), c.Size(), s.chunkSize)
	}

	var buf bytes.Buffer
	if err := encodeChunk(&buf, c); err != nil {
		return fmt.Errorf("ошибка кодирования чанка %v: %w", c.Coord(), err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chunks(key, chunk_size, cx, cy, data, saved_at) VALUES(?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		util.ChunkKey(s.chunkSize, c.Coord()), s.chunkSize, c.Coord().X, c.Coord().Y, buf.Bytes(), time.Now().Unix())
	if err != nil {
		s.logger.Errorw("Ошибка при сохранении чанка", "chunk", c.Coord().String(), "error", err)
		return fmt.Errorf("ошибка записи чанка %v: %w", c.Coord(), err)
	}
	return nil
}

// LoadChunk читает и декодирует чанк
func (s *SQLiteStorage) LoadChunk(ctx context.Context, coord coords.ChunkCoord) (*chunk.Chunk, error) {
	key := util.ChunkKey(s.chunkSize, coord)

	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM chunks WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChunkNotFound{X: coord.X, Y: coord.Y}
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения чанка %v: %w", coord, err)
	}
	return decodeChunk(bytes.NewReader(data), key, coord, s.chunkSize)
}

// DeleteChunk удаляет чанк
func (s *SQLiteStorage) DeleteChunk(ctx context.Context, coord coords.ChunkCoord) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE key = ?`, util.ChunkKey(s.chunkSize, coord))
	if err != nil {
		return fmt.Errorf("ошибка удаления чанка %v: %w", coord, err)
	}
	return nil
}

// Quarantine переносит поврежденную запись в таблицу corrupt_chunks
func (s *SQLiteStorage) Quarantine(ctx context.Context, coord coords.ChunkCoord) error {
	key := util.ChunkKey(s.chunkSize, coord)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO corrupt_chunks(key, data, quarantined_at) SELECT key, data, ? FROM chunks WHERE key = ?`,
		time.Now().Unix(), key); err != nil {
		return fmt.Errorf("не удалось переместить поврежденный чанк: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE key = ?`, key); err != nil {
		return fmt.Errorf("не удалось удалить поврежденный чанк: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Warnw("Поврежденный чанк перемещен в карантин", "chunk", coord.String())
	return nil
}

// ListChunks возвращает координаты сохраненных чанков текущего размера
func (s *SQLiteStorage) ListChunks(ctx context.Context) ([]coords.ChunkCoord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cx, cy FROM chunks WHERE chunk_size = ? ORDER BY cx, cy`, s.chunkSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []coords.ChunkCoord
	for rows.Next() {
		var c coords.ChunkCoord
		if err := rows.Scan(&c.X, &c.Y); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// SaveWorld сохраняет информацию о мире
func (s *SQLiteStorage) SaveWorld(ctx context.Context, info *WorldInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("ошибка сериализации в JSON: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO world(id, info) VALUES(?, ?) ON CONFLICT(id) DO UPDATE SET info = excluded.info`,
		worldRowID, string(data))
	return err
}

// LoadWorld загружает информацию о мире
func (s *SQLiteStorage) LoadWorld(ctx context.Context) (*WorldInfo, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT info FROM world WHERE id = ?`, worldRowID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorldNotFound
	}
	if err != nil {
		return nil, err
	}

	var info WorldInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return nil, fmt.Errorf("ошибка десериализации из JSON: %w", err)
	}
	return &info, nil
}

// Close закрывает базу
func (s *SQLiteStorage) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}
