// Package service реализует gRPC-сервис запросов к миру tilestream.ChunkQuery.
package service

import (
	"context"
	"errors"
	"expvar"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/annelo/go-tile-streamer/internal/chunk"
	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/noisegeneration"
	"github.com/annelo/go-tile-streamer/internal/storage"
	"github.com/annelo/go-tile-streamer/pkg/protocol/tilestream"
)

// MaxWindowRadius - максимальный радиус окна в GetWindow
const MaxWindowRadius = 4

// ChunkLoader читает сохраненные чанки
type ChunkLoader interface {
	LoadChunk(ctx context.Context, coord coords.ChunkCoord) (*chunk.Chunk, error)
}

// ChunkQueryService отвечает на запросы о тайлах и чанках.
// Читает только хранилище и генератор, кэш контроллера не трогает.
type ChunkQueryService struct {
	tilestream.UnimplementedChunkQueryServer

	logger     *zap.SugaredLogger
	classifier *noisegeneration.TerrainClassifier
	generator  *chunk.Generator
	store      ChunkLoader
	tileSize   coords.TileSize
}

// Options - параметры сервиса
type Options struct {
	Classifier *noisegeneration.TerrainClassifier
	Generator  *chunk.Generator
	// Store может быть nil: тогда все чанки генерируются
	Store    ChunkLoader
	TileSize coords.TileSize
	Logger   *zap.SugaredLogger
}

// Имена expvar-счетчиков
const (
	counterRequests = "query_requests"
	counterErrors   = "query_errors"
)

// NewChunkQueryService создает сервис
func NewChunkQueryService(opts Options) (*ChunkQueryService, error) {
	if opts.Classifier == nil || opts.Generator == nil {
		return nil, errors.New("classifier and generator are required")
	}
	if opts.TileSize.W <= 0 || opts.TileSize.H <= 0 {
		return nil, fmt.Errorf("invalid tile size %vx%v", opts.TileSize.W, opts.TileSize.H)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	// Счетчики нужны и без cmd/server (например, в тестах)
	ensureCounter := func(name string) {
		if expvar.Get(name) == nil {
			expvar.NewInt(name)
		}
	}
	ensureCounter(counterRequests)
	ensureCounter(counterErrors)

	return &ChunkQueryService{
		logger:     logger,
		classifier: opts.Classifier,
		generator:  opts.Generator,
		store:      opts.Store,
		tileSize:   opts.TileSize,
	}, nil
}

// RegisterServer регистрирует сервис на gRPC сервере
func (s *ChunkQueryService) RegisterServer(registrar grpc.ServiceRegistrar) {
	tilestream.RegisterChunkQueryServer(registrar, s)
}

// Classify возвращает тип тайла и промежуточные значения шума
func (s *ChunkQueryService) Classify(ctx context.Context, req *tilestream.TileRequest) (*tilestream.ClassifyResponse, error) {
	count(counterRequests)
	t := coords.TileCoord{X: req.GetX(), Y: req.GetY()}
	sample := s.classifier.Sample(t)
	_, variant, sprite := s.classifier.Appearance(t)
	return newClassifyResponse(sample, variant, sprite), nil
}

// GetChunk возвращает сохраненный чанк или генерирует его
func (s *ChunkQueryService) GetChunk(ctx context.Context, req *tilestream.ChunkRequest) (*tilestream.ChunkResponse, error) {
	count(counterRequests)
	return s.chunkAt(ctx, coords.ChunkCoord{X: req.GetX(), Y: req.GetY()})
}

// GetWindow стримит чанки окна вокруг точки в порядке сортировки координат
func (s *ChunkQueryService) GetWindow(req *tilestream.WindowRequest, stream grpc.ServerStreamingServer[tilestream.ChunkResponse]) error {
	count(counterRequests)
	if req.Radius > MaxWindowRadius {
		count(counterErrors)
		return status.Errorf(codes.InvalidArgument, "radius %d exceeds %d", req.Radius, MaxWindowRadius)
	}

	ctx := stream.Context()
	center := coords.PixelToChunk(coords.PixelPos{X: req.PixelX, Y: req.PixelY}, s.tileSize, s.generator.ChunkSize())
	window := coords.Window(center, req.Radius)
	list := make([]coords.ChunkCoord, 0, len(window))
	for c := range window {
		list = append(list, c)
	}
	coords.SortChunks(list)

	for _, c := range list {
		if err := ctx.Err(); err != nil {
			return status.FromContextError(err).Err()
		}
		resp, err := s.chunkAt(ctx, c)
		if err != nil {
			return err
		}
		if err := stream.Send(resp); err != nil {
			return err
		}
	}
	return nil
}

func (s *ChunkQueryService) chunkAt(ctx context.Context, coord coords.ChunkCoord) (*tilestream.ChunkResponse, error) {
	if s.store != nil {
		c, err := s.store.LoadChunk(ctx, coord)
		switch {
		case err == nil:
			return newChunkResponse(c, tilestream.ChunkSource_STORED), nil
		case storage.IsNotFound(err):
		case errors.Is(err, storage.ErrCorruptChunk):
			count(counterErrors)
			s.logger.Warnw("Поврежденный чанк в запросе", "chunk", coord.String(), "error", err)
			return nil, status.Errorf(codes.DataLoss, "chunk %s: %v", coord, err)
		default:
			count(counterErrors)
			s.logger.Errorw("Ошибка чтения чанка", "chunk", coord.String(), "error", err)
			return nil, status.Errorf(codes.Unavailable, "chunk %s: %v", coord, err)
		}
	}
	return newChunkResponse(s.generator.Generate(coord), tilestream.ChunkSource_GENERATED), nil
}

func count(name string) {
	if v, ok := expvar.Get(name).(*expvar.Int); ok {
		v.Add(1)
	}
}
