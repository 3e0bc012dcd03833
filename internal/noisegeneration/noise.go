package noisegeneration

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Поддерживаемые источники шума
const (
	BackendPerlin      = "perlin"
	BackendOpenSimplex = "opensimplex"
)

// NoiseSource - детерминированное двумерное поле шума
type NoiseSource interface {
	Noise2D(x, y float64) float64
}

// openSimplexSource адаптирует opensimplex.Noise к NoiseSource
type openSimplexSource struct {
	noise opensimplex.Noise
}

func (s openSimplexSource) Noise2D(x, y float64) float64 {
	return s.noise.Eval2(x, y)
}

// NewNoiseSource создает источник шума выбранного типа.
// Параметры perlin: alpha=2, beta=2, n=3.
func NewNoiseSource(backend string, seed int64) (NoiseSource, error) {
	switch backend {
	case "", BackendPerlin:
		return perlin.NewPerlin(2, 2, 3, seed), nil
	case BackendOpenSimplex:
		return openSimplexSource{noise: opensimplex.New(seed)}, nil
	default:
		return nil, fmt.Errorf("неизвестный источник шума %q", backend)
	}
}

// sampleKey - ключ кеша: точка решетки тайлов и делитель поля
type sampleKey struct {
	x, y    int32
	divisor float64
}

type sampleEntry struct {
	key   sampleKey
	value float64
}

// SampleCache - LRU-кеш точных значений шума.
// Значения хранятся как есть, без квантования, поэтому результат с кешем
// и без него совпадает побитово.
type SampleCache struct {
	mu        sync.Mutex
	capacity  int
	items     map[sampleKey]*list.Element
	order     *list.List
	hitCount  int
	missCount int
}

// NewSampleCache создает кеш. Емкость 0 отключает кеширование.
func NewSampleCache(capacity int) *SampleCache {
	return &SampleCache{
		capacity: capacity,
		items:    make(map[sampleKey]*list.Element),
		order:    list.New(),
	}
}

// Get получает значение из кеша
func (sc *SampleCache) Get(key sampleKey) (float64, bool) {
	if sc == nil || sc.capacity <= 0 {
		return 0, false
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if el, ok := sc.items[key]; ok {
		sc.hitCount++
		sc.order.MoveToFront(el)
		return el.Value.(*sampleEntry).value, true
	}
	sc.missCount++
	return 0, false
}

// Put добавляет значение, вытесняя самое старое при переполнении
func (sc *SampleCache) Put(key sampleKey, value float64) {
	if sc == nil || sc.capacity <= 0 {
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if el, ok := sc.items[key]; ok {
		el.Value.(*sampleEntry).value = value
		sc.order.MoveToFront(el)
		return
	}

	if sc.order.Len() >= sc.capacity {
		oldest := sc.order.Back()
		sc.order.Remove(oldest)
		delete(sc.items, oldest.Value.(*sampleEntry).key)
	}

	sc.items[key] = sc.order.PushFront(&sampleEntry{key: key, value: value})
}

// Len возвращает количество значений в кеше
func (sc *SampleCache) Len() int {
	if sc == nil {
		return 0
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.order.Len()
}

// GetStats возвращает попадания, промахи и долю попаданий
func (sc *SampleCache) GetStats() (int, int, float64) {
	if sc == nil {
		return 0, 0, 0
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()

	total := sc.hitCount + sc.missCount
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(sc.hitCount) / float64(total)
	}
	return sc.hitCount, sc.missCount, hitRate
}

// ClearCache очищает кеш, сохраняя статистику
func (sc *SampleCache) ClearCache() {
	if sc == nil {
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.items = make(map[sampleKey]*list.Element)
	sc.order.Init()
}

// NoiseMap - поле шума, которое сэмплируется в тайловых координатах.
// Координата делится на divisor перед обращением к источнику.
type NoiseMap struct {
	source  NoiseSource
	divisor float64
	cache   *SampleCache
}

// NewNoiseMap создает карту шума поверх источника
func NewNoiseMap(source NoiseSource, divisor float64, cache *SampleCache) *NoiseMap {
	return &NoiseMap{
		source:  source,
		divisor: divisor,
		cache:   cache,
	}
}

// At возвращает значение поля в тайле (x, y)
func (nm *NoiseMap) At(x, y int32) float64 {
	key := sampleKey{x: x, y: y, divisor: nm.divisor}
	if value, ok := nm.cache.Get(key); ok {
		return value
	}

	value := nm.source.Noise2D(float64(x)/nm.divisor, float64(y)/nm.divisor)
	nm.cache.Put(key, value)
	return value
}

// Divisor возвращает делитель координат
func (nm *NoiseMap) Divisor() float64 {
	return nm.divisor
}
