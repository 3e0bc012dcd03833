package chunkmanager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/annelo/go-tile-streamer/internal/chunk"
	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/storage"
	"go.uber.org/zap"
)

// DefaultChunkSize - размер чанка (количество тайлов по одной стороне)
const DefaultChunkSize uint32 = 16

// RenderBackend создает и уничтожает отрисованные тайлы
type RenderBackend interface {
	Create(tile chunk.Tile, at coords.PixelPos) chunk.RenderHandle
	Destroy(h chunk.RenderHandle)
}

// Store - часть хранилища, нужная контроллеру
type Store interface {
	LoadChunk(ctx context.Context, coord coords.ChunkCoord) (*chunk.Chunk, error)
	SaveChunk(ctx context.Context, c *chunk.Chunk) error
}

// Generator строит чанк по координате
type Generator interface {
	Generate(coord coords.ChunkCoord) *chunk.Chunk
}

// CorruptPolicy определяет реакцию на поврежденную запись чанка
type CorruptPolicy string

const (
	// CorruptSkip оставляет координату незагруженной до следующего пересчета окна
	CorruptSkip CorruptPolicy = "skip"
	// CorruptRegenerate убирает запись в карантин и генерирует чанк заново
	CorruptRegenerate CorruptPolicy = "regenerate"
)

// Options - параметры контроллера
type Options struct {
	// ChunkSize - сторона чанка в тайлах, должна совпадать с генератором и хранилищем
	ChunkSize uint32
	// RenderDistance - радиус окна в чанках (окно 2*R+1 на 2*R+1)
	RenderDistance uint32
	TileSize       coords.TileSize
	// Workers - число горутин загрузки/генерации за тик, минимум 1
	Workers int
	// CorruptPolicy, пустое значение означает CorruptSkip
	CorruptPolicy CorruptPolicy
	// Logger может быть nil
	Logger *zap.SugaredLogger
}

// TickReport описывает, что изменилось за тик
type TickReport struct {
	// Center - чанк точки обзора на этом тике
	Center coords.ChunkCoord
	// Unchanged выставляется, когда центр не сдвинулся и окно не пересчитывалось
	Unchanged bool
	Evicted   []coords.ChunkCoord
	// Loaded - прочитаны из хранилища, Generated - сгенерированы (записи нет),
	// Regenerated - созданы заново вместо поврежденной записи
	Loaded      []coords.ChunkCoord
	Generated   []coords.ChunkCoord
	Regenerated []coords.ChunkCoord
	// Ошибки по координатам; сбой одного чанка не прерывает тик
	LoadFailed map[coords.ChunkCoord]error
	SaveFailed map[coords.ChunkCoord]error
}

// Changed сообщает, был ли пересчитан набор чанков
func (r TickReport) Changed() bool {
	return len(r.Evicted)+len(r.Loaded)+len(r.Generated)+len(r.Regenerated) > 0
}

func (r *TickReport) loadFailed(c coords.ChunkCoord, err error) {
	if r.LoadFailed == nil {
		r.LoadFailed = make(map[coords.ChunkCoord]error)
	}
	r.LoadFailed[c] = err
}

func (r *TickReport) saveFailed(c coords.ChunkCoord, err error) {
	if r.SaveFailed == nil {
		r.SaveFailed = make(map[coords.ChunkCoord]error)
	}
	r.SaveFailed[c] = err
}

// StreamingController загружает, генерирует, отрисовывает, сохраняет и выгружает
// чанки вокруг точки обзора.
type StreamingController struct {
	opts      Options
	cache     *ChunkCache
	store     Store
	generator Generator
	backend   RenderBackend
	logger    *zap.SugaredLogger

	mu sync.Mutex

	hooks   []EventFunc
	hooksMu sync.RWMutex

	loaded, generated, regenerated int
	saved, evicted, errs           int
}

// NewStreamingController создает контроллер. store может быть nil: тогда чанки
// всегда генерируются и никогда не сохраняются.
func NewStreamingController(opts Options, gen Generator, store Store, backend RenderBackend) (*StreamingController, error) {
	if opts.ChunkSize == 0 {
		return nil, errors.New("размер чанка должен быть больше нуля")
	}
	if opts.TileSize.W <= 0 || opts.TileSize.H <= 0 {
		return nil, fmt.Errorf("некорректный размер тайла %vx%v", opts.TileSize.W, opts.TileSize.H)
	}
	if gen == nil || backend == nil {
		return nil, errors.New("генератор и бэкенд отрисовки обязательны")
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	switch opts.CorruptPolicy {
	case "":
		opts.CorruptPolicy = CorruptSkip
	case CorruptSkip, CorruptRegenerate:
	default:
		return nil, fmt.Errorf("неизвестная политика поврежденных чанков %q", opts.CorruptPolicy)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &StreamingController{
		opts:      opts,
		cache:     NewChunkCache(),
		store:     store,
		generator: gen,
		backend:   backend,
		logger:    logger,
	}, nil
}

// Cache возвращает кеш чанков. Читать его можно только с горутины тика.
func (sc *StreamingController) Cache() *ChunkCache {
	return sc.cache
}

// Tick пересчитывает окно, если точка обзора перешла в другой чанк.
// Ошибки отдельных чанков не прерывают тик, они попадают в отчет.
func (sc *StreamingController) Tick(ctx context.Context, viewpoint coords.PixelPos) TickReport {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	current := coords.PixelToChunk(viewpoint, sc.opts.TileSize, sc.opts.ChunkSize)
	if last, primed := sc.cache.LastViewpoint(); primed && last == current {
		return TickReport{Center: current, Unchanged: true}
	}
	sc.cache.setLastViewpoint(current)

	report := TickReport{Center: current}
	window := Window(current, sc.opts.RenderDistance)

	for _, c := range sc.cache.Coords() {
		if _, keep := window[c]; !keep {
			sc.evict(ctx, c, &report)
		}
	}

	missing := make([]coords.ChunkCoord, 0, len(window))
	for c := range window {
		if !sc.cache.Contains(c) {
			missing = append(missing, c)
		}
	}
	coords.SortChunks(missing)

	for _, res := range sc.fetch(ctx, missing) {
		if res.err != nil {
			sc.errs++
			incCounter(counterErrors)
			report.loadFailed(res.coord, res.err)
			sc.logger.Warnw("Не удалось загрузить чанк", "chunk", res.coord.String(), "error", res.err)
			sc.emit(EventLoadFailed, res.coord, res.err)
			continue
		}

		switch res.source {
		case EventLoaded:
			sc.loaded++
			incCounter(counterLoaded)
			report.Loaded = append(report.Loaded, res.coord)
		case EventGenerated:
			sc.generated++
			incCounter(counterGenerated)
			report.Generated = append(report.Generated, res.coord)
		case EventRegenerated:
			sc.regenerated++
			incCounter(counterGenerated)
			report.Regenerated = append(report.Regenerated, res.coord)
		}
		sc.emit(res.source, res.coord, nil)

		sc.render(res.chunk)
		sc.cache.Insert(res.chunk)
		sc.emit(EventRendered, res.coord, nil)
	}

	if report.Changed() {
		sc.logger.Debugw("Окно чанков пересчитано",
			"center", current.String(),
			"evicted", len(report.Evicted),
			"loaded", len(report.Loaded),
			"generated", len(report.Generated)+len(report.Regenerated),
			"failed", len(report.LoadFailed),
		)
	}
	return report
}

// fetchResult - итог загрузки одной координаты воркером
type fetchResult struct {
	coord  coords.ChunkCoord
	chunk  *chunk.Chunk
	source EventType
	err    error
}

// fetch загружает или генерирует недостающие чанки пулом воркеров.
// Результаты возвращаются в порядке missing.
func (sc *StreamingController) fetch(ctx context.Context, missing []coords.ChunkCoord) []fetchResult {
	results := make([]fetchResult, len(missing))
	if len(missing) == 0 {
		return results
	}

	workers := sc.opts.Workers
	if workers > len(missing) {
		workers = len(missing)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = sc.loadOrGenerate(ctx, missing[i])
			}
		}()
	}
	for i := range missing {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// loadOrGenerate читает чанк из хранилища, при отсутствии записи генерирует его.
// Поврежденная запись при CorruptSkip возвращается как ошибка.
func (sc *StreamingController) loadOrGenerate(ctx context.Context, c coords.ChunkCoord) fetchResult {
	if sc.store == nil {
		return fetchResult{coord: c, chunk: sc.generator.Generate(c), source: EventGenerated}
	}

	loaded, err := sc.store.LoadChunk(ctx, c)
	switch {
	case err == nil:
		if loaded.Coord() != c || loaded.Size() != sc.opts.ChunkSize {
			return fetchResult{coord: c, err: fmt.Errorf("хранилище вернуло чанк %v размера %d вместо %v", loaded.Coord(), loaded.Size(), c)}
		}
		return fetchResult{coord: c, chunk: loaded, source: EventLoaded}

	case storage.IsNotFound(err):
		return fetchResult{coord: c, chunk: sc.generator.Generate(c), source: EventGenerated}

	case errors.Is(err, storage.ErrCorruptChunk) && sc.opts.CorruptPolicy == CorruptRegenerate:
		if q, ok := sc.store.(storage.Quarantiner); ok {
			if qerr := q.Quarantine(ctx, c); qerr != nil {
				sc.logger.Warnw("Не удалось поместить чанк в карантин", "chunk", c.String(), "error", qerr)
			}
		}
		sc.logger.Warnw("Поврежденный чанк сгенерирован заново", "chunk", c.String(), "error", err)
		return fetchResult{coord: c, chunk: sc.generator.Generate(c), source: EventRegenerated}

	default:
		return fetchResult{coord: c, err: err}
	}
}

// render создает по одному хендлу на тайл
func (sc *StreamingController) render(c *chunk.Chunk) {
	handles := make([]chunk.RenderHandle, 0, c.Len())
	c.Each(func(t chunk.Tile) {
		at := coords.TileCenterPixel(c.Coord(), t.Local, sc.opts.ChunkSize, sc.opts.TileSize)
		handles = append(handles, sc.backend.Create(t, at))
	})
	if err := c.AttachHandles(handles); err != nil {
		// Чанк только что получен из генератора или хранилища и еще не отрисован
		panic(err)
	}
}

// evict уничтожает хендлы, сохраняет чанк и только после этого убирает его из кеша
func (sc *StreamingController) evict(ctx context.Context, c coords.ChunkCoord, report *TickReport) {
	ch, ok := sc.cache.Get(c)
	if !ok {
		return
	}

	for _, h := range ch.DetachHandles() {
		sc.backend.Destroy(h)
	}

	if err := sc.save(ctx, ch); err != nil && report != nil {
		report.saveFailed(c, err)
	}

	sc.cache.Remove(c)
	sc.evicted++
	incCounter(counterEvicted)
	if report != nil {
		report.Evicted = append(report.Evicted, c)
	}
	sc.emit(EventEvicted, c, nil)
}

func (sc *StreamingController) save(ctx context.Context, ch *chunk.Chunk) error {
	if sc.store == nil {
		return nil
	}
	if err := sc.store.SaveChunk(ctx, ch); err != nil {
		sc.errs++
		incCounter(counterErrors)
		sc.logger.Errorw("Ошибка при сохранении чанка", "chunk", ch.Coord().String(), "error", err)
		sc.emit(EventSaveFailed, ch.Coord(), err)
		return err
	}
	sc.saved++
	incCounter(counterSaved)
	sc.emit(EventSaved, ch.Coord(), nil)
	return nil
}

// Flush сохраняет все чанки кеша, не выгружая их
func (sc *StreamingController) Flush(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var errs []error
	for _, c := range sc.cache.Coords() {
		ch, _ := sc.cache.Get(c)
		if err := sc.save(ctx, ch); err != nil {
			errs = append(errs, fmt.Errorf("чанк %v: %w", c, err))
		}
	}
	return errors.Join(errs...)
}

// Shutdown выгружает все чанки (уничтожение хендлов, сохранение, удаление).
// Следующий Tick заново заполнит окно.
func (sc *StreamingController) Shutdown(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	report := TickReport{}
	for _, c := range sc.cache.Coords() {
		sc.evict(ctx, c, &report)
	}
	sc.cache.resetViewpoint()

	var errs []error
	for c, err := range report.SaveFailed {
		errs = append(errs, fmt.Errorf("чанк %v: %w", c, err))
	}
	sc.logger.Infow("Чанки выгружены", "evicted", len(report.Evicted), "save_failed", len(report.SaveFailed))
	return errors.Join(errs...)
}

// Stats возвращает статистику контроллера
func (sc *StreamingController) Stats() map[string]interface{} {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	handles := 0
	for _, c := range sc.cache.chunks {
		handles += len(c.Handles())
	}
	last, primed := sc.cache.LastViewpoint()

	return map[string]interface{}{
		"cached_chunks": sc.cache.Len(),
		"live_handles":  handles,
		"center":        last.String(),
		"primed":        primed,
		"loaded":        sc.loaded,
		"generated":     sc.generated,
		"regenerated":   sc.regenerated,
		"saved":         sc.saved,
		"evicted":       sc.evicted,
		"errors":        sc.errs,
	}
}
