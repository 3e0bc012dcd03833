// Package config загружает и проверяет конфигурацию стримера.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	yaml "gopkg.in/yaml.v3"

	"github.com/annelo/go-tile-streamer/internal/chunkmanager"
	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/noisegeneration"
	"github.com/annelo/go-tile-streamer/internal/storage"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "tilestream://config.schema.json"

// StorageConfig - параметры хранилища чанков
type StorageConfig struct {
	Backend string `yaml:"backend" json:"backend"`
	Path    string `yaml:"path" json:"path"`
}

// Config - полная конфигурация
type Config struct {
	ChunkSize           uint32        `yaml:"chunk_size" json:"chunk_size"`
	RenderDistance      uint32        `yaml:"render_distance" json:"render_distance"`
	TilePixelSize       [2]float32    `yaml:"tile_pixel_size" json:"tile_pixel_size"`
	NoiseScale          float64       `yaml:"noise_scale" json:"noise_scale"`
	BiomeSeed           uint32        `yaml:"biome_seed" json:"biome_seed"`
	TileSeed            uint32        `yaml:"tile_seed" json:"tile_seed"`
	NoiseBackend        string        `yaml:"noise_backend" json:"noise_backend"`
	SpriteColumns       uint32        `yaml:"sprite_columns" json:"sprite_columns"`
	SampleCacheCapacity int           `yaml:"sample_cache_capacity" json:"sample_cache_capacity"`
	GenerationWorkers   int           `yaml:"generation_workers" json:"generation_workers"`
	CorruptPolicy       string        `yaml:"corrupt_policy" json:"corrupt_policy"`
	TickInterval        time.Duration `yaml:"tick_interval" json:"-"`
	Storage             StorageConfig `yaml:"storage" json:"storage"`
	Listen              string        `yaml:"listen" json:"listen"`
	LogLevel            string        `yaml:"log_level" json:"log_level"`
}

// Default возвращает конфигурацию по умолчанию
func Default() Config {
	return Config{
		ChunkSize:           16,
		RenderDistance:      8,
		TilePixelSize:       [2]float32{32, 32},
		NoiseScale:          noisegeneration.DefaultNoiseScale,
		BiomeSeed:           3654,
		TileSeed:            97123,
		NoiseBackend:        noisegeneration.BackendPerlin,
		SpriteColumns:       noisegeneration.DefaultSpriteColumns,
		SampleCacheCapacity: 10000,
		GenerationWorkers:   4,
		CorruptPolicy:       string(chunkmanager.CorruptSkip),
		TickInterval:        50 * time.Millisecond,
		Storage: StorageConfig{
			Backend: storage.BackendFile,
			Path:    "./save",
		},
		Listen:   ":50061",
		LogLevel: "info",
	}
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString(schemaURL, schemaJSON)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile config schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// Load читает YAML-файл поверх значений по умолчанию.
// Пустой path возвращает конфигурацию по умолчанию.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse проверяет документ по JSON-схеме и накладывает его на cfg
func Parse(data []byte, cfg *Config) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if doc != nil {
		// YAML -> JSON-совместимые значения для валидатора
		raw, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("convert yaml: %w", err)
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("convert yaml: %w", err)
		}
		sch, err := schema()
		if err != nil {
			return err
		}
		if err := sch.Validate(v); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return cfg.Validate()
}

// Validate проверяет значения, которые нельзя выразить схемой
func (c Config) Validate() error {
	var errs []error
	if c.ChunkSize == 0 {
		errs = append(errs, errors.New("chunk_size must be positive"))
	}
	if c.TilePixelSize[0] <= 0 || c.TilePixelSize[1] <= 0 {
		errs = append(errs, errors.New("tile_pixel_size must be positive"))
	}
	if c.NoiseScale <= 0 {
		errs = append(errs, errors.New("noise_scale must be positive"))
	}
	if c.SpriteColumns == 0 {
		errs = append(errs, errors.New("sprite_columns must be positive"))
	}
	if c.SpriteColumns > 256 {
		errs = append(errs, errors.New("sprite_columns must fit a variant byte"))
	}
	if c.GenerationWorkers <= 0 {
		errs = append(errs, errors.New("generation_workers must be positive"))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, errors.New("tick_interval must be positive"))
	}
	switch c.NoiseBackend {
	case noisegeneration.BackendPerlin, noisegeneration.BackendOpenSimplex:
	default:
		errs = append(errs, fmt.Errorf("unknown noise_backend %q", c.NoiseBackend))
	}
	switch chunkmanager.CorruptPolicy(c.CorruptPolicy) {
	case chunkmanager.CorruptSkip, chunkmanager.CorruptRegenerate:
	default:
		errs = append(errs, fmt.Errorf("unknown corrupt_policy %q", c.CorruptPolicy))
	}
	switch c.Storage.Backend {
	case storage.BackendFile, storage.BackendSQLite, storage.BackendRegion:
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path is required"))
		}
	case storage.BackendNone:
	default:
		errs = append(errs, fmt.Errorf("unknown storage.backend %q", c.Storage.Backend))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}

// StreamingConfig - неизменяемые параметры стриминга
type StreamingConfig struct {
	ChunkSize      uint32
	RenderDistance uint32
	TileSize       coords.TileSize
	Seeds          noisegeneration.Seeds
}

// Streaming возвращает параметры стриминга
func (c Config) Streaming() StreamingConfig {
	return StreamingConfig{
		ChunkSize:      c.ChunkSize,
		RenderDistance: c.RenderDistance,
		TileSize:       coords.TileSize{W: c.TilePixelSize[0], H: c.TilePixelSize[1]},
		Seeds:          noisegeneration.Seeds{Biome: c.BiomeSeed, Tile: c.TileSeed},
	}
}

// ClassifierOptions возвращает параметры классификатора
func (c Config) ClassifierOptions() noisegeneration.ClassifierOptions {
	return noisegeneration.ClassifierOptions{
		Seeds:         noisegeneration.Seeds{Biome: c.BiomeSeed, Tile: c.TileSeed},
		ChunkSize:     c.ChunkSize,
		NoiseScale:    c.NoiseScale,
		Backend:       c.NoiseBackend,
		SpriteColumns: c.SpriteColumns,
		CacheCapacity: c.SampleCacheCapacity,
	}
}

// ControllerOptions возвращает параметры контроллера чанков
func (c Config) ControllerOptions(logger *zap.SugaredLogger) chunkmanager.Options {
	s := c.Streaming()
	return chunkmanager.Options{
		ChunkSize:      s.ChunkSize,
		RenderDistance: s.RenderDistance,
		TileSize:       s.TileSize,
		Workers:        c.GenerationWorkers,
		CorruptPolicy:  chunkmanager.CorruptPolicy(c.CorruptPolicy),
		Logger:         logger,
	}
}

// StorageOptions возвращает параметры хранилища
func (c Config) StorageOptions(logger *zap.SugaredLogger) storage.Options {
	return storage.Options{
		Backend:   c.Storage.Backend,
		Path:      c.Storage.Path,
		ChunkSize: c.ChunkSize,
		Logger:    logger,
	}
}

// WorldInfo возвращает ожидаемые метаданные мира
func (c Config) WorldInfo(name string) *storage.WorldInfo {
	return storage.NewWorldInfo(name, c.BiomeSeed, c.TileSeed, c.ChunkSize, c.NoiseBackend)
}

// NewLogger строит zap-логгер для log_level. development включает человекочитаемый вывод.
func (c Config) NewLogger(development bool) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return nil, err
	}
	var zc zap.Config
	if development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
