package noisegeneration

import (
	"fmt"
	"math"

	"github.com/annelo/go-tile-streamer/internal/coords"
)

// TileType определяет тип поверхности тайла
type TileType uint8

// Порядковые номера фиксированы: они попадают в sprite_index и в файлы чанков.
const (
	DeepWater TileType = 0
	Water     TileType = 1
	Sand      TileType = 2
	Grass     TileType = 3
	Dirt      TileType = 4
)

var tileTypeNames = map[TileType]string{
	DeepWater: "DeepWater",
	Water:     "Water",
	Sand:      "Sand",
	Grass:     "Grass",
	Dirt:      "Dirt",
}

// String возвращает имя типа, для неизвестных значений TileType(n)
func (t TileType) String() string {
	if name, ok := tileTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TileType(%d)", uint8(t))
}

// Ordinal возвращает порядковый номер типа в атласе спрайтов
func (t TileType) Ordinal() uint32 {
	return uint32(t)
}

// Valid сообщает, является ли значение известным типом тайла
func (t TileType) Valid() bool {
	_, ok := tileTypeNames[t]
	return ok
}

// ParseTileType разбирает имя типа тайла
func ParseTileType(name string) (TileType, error) {
	for t, n := range tileTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("неизвестный тип тайла %q", name)
}

// BiomeType определяет тип биома
type BiomeType int

const (
	// Ocean - значение поля биома ниже GrassLandThreshold
	Ocean BiomeType = iota
	// GrassLand - значение поля биома не ниже GrassLandThreshold
	GrassLand
)

// String возвращает имя биома
func (b BiomeType) String() string {
	switch b {
	case Ocean:
		return "Ocean"
	case GrassLand:
		return "GrassLand"
	default:
		return fmt.Sprintf("BiomeType(%d)", int(b))
	}
}

// Пороговые значения по умолчанию
const (
	// DefaultNoiseScale - масштаб шума в чанках на период поля биома
	DefaultNoiseScale = 6.0
	// DefaultSpriteColumns - число вариантов спрайта на тип тайла
	DefaultSpriteColumns = 4
	// GrassLandThreshold - значение поля биома, с которого начинается GrassLand
	GrassLandThreshold = 0.2

	detailDivisorOffset   = 0.000432
	detailFoldCenter      = 0.45
	biomeWeight           = 2.5
	defaultScoreThreshold = 0.23897
)

// Cutoffs - границы итоговой оценки для каждого типа тайла
type Cutoffs struct {
	// Threshold вычитается из суммы шумов до сравнения с границами
	Threshold float64
	// Нижние (исключительные) границы оценки; ниже Water - DeepWater
	Dirt  float64
	Grass float64
	Sand  float64
	Water float64
}

// DefaultCutoffs возвращает стандартные границы
func DefaultCutoffs() Cutoffs {
	return Cutoffs{
		Threshold: defaultScoreThreshold,
		Dirt:      2.0,
		Grass:     0.0,
		Sand:      -0.6,
		Water:     -1.2,
	}
}

// TypeFor переводит оценку в тип тайла
func (c Cutoffs) TypeFor(score float64) TileType {
	switch {
	case score > c.Dirt:
		return Dirt
	case score > c.Grass:
		return Grass
	case score > c.Sand:
		return Sand
	case score > c.Water:
		return Water
	default:
		return DeepWater
	}
}

// Seeds - зерна двух независимых полей шума
type Seeds struct {
	Biome uint32
	Tile  uint32
}

// ClassifierOptions задает параметры классификатора
type ClassifierOptions struct {
	Seeds Seeds
	// ChunkSize обязателен: период шума задается в чанках
	ChunkSize uint32
	// NoiseScale <= 0 означает DefaultNoiseScale
	NoiseScale float64
	// Backend - "perlin" (по умолчанию) или "opensimplex"
	Backend string
	// SpriteColumns == 0 означает DefaultSpriteColumns
	SpriteColumns uint32
	// CacheCapacity делится поровну между двумя полями; 0 отключает кэш
	CacheCapacity int
	// Cutoffs == nil означает DefaultCutoffs()
	Cutoffs *Cutoffs
}

// Sample - полная раскладка вычисления типа одного тайла
type Sample struct {
	Tile       coords.TileCoord
	BiomeValue float64
	Biome      BiomeType
	Detail     float64
	// FoldedDetail = 1 - |2*(Detail - 0.45)|, максимум в середине диапазона
	FoldedDetail float64
	// Score - оценка после вычета Threshold, по ней выбирается Type
	Score float64
	Type  TileType
}

// TerrainClassifier вычисляет тип тайла по двум полям шума.
// Результат зависит только от зерен и координаты тайла.
type TerrainClassifier struct {
	biome   *NoiseMap
	detail  *NoiseMap
	cutoffs Cutoffs
	seeds   Seeds
	columns uint32
}

// NewTerrainClassifier создает классификатор
func NewTerrainClassifier(opts ClassifierOptions) (*TerrainClassifier, error) {
	if opts.ChunkSize == 0 {
		return nil, fmt.Errorf("размер чанка должен быть больше нуля")
	}
	scale := opts.NoiseScale
	if scale <= 0 {
		scale = DefaultNoiseScale
	}
	columns := opts.SpriteColumns
	if columns == 0 {
		columns = DefaultSpriteColumns
	}
	cutoffs := DefaultCutoffs()
	if opts.Cutoffs != nil {
		cutoffs = *opts.Cutoffs
	}

	biomeSource, err := NewNoiseSource(opts.Backend, int64(opts.Seeds.Biome))
	if err != nil {
		return nil, err
	}
	detailSource, err := NewNoiseSource(opts.Backend, int64(opts.Seeds.Tile))
	if err != nil {
		return nil, err
	}

	size := float64(opts.ChunkSize)
	perField := opts.CacheCapacity / 2

	return &TerrainClassifier{
		biome:   NewNoiseMap(biomeSource, scale*size, NewSampleCache(perField)),
		detail:  NewNoiseMap(detailSource, scale*size/8+detailDivisorOffset, NewSampleCache(perField)),
		cutoffs: cutoffs,
		seeds:   opts.Seeds,
		columns: columns,
	}, nil
}

// Sample вычисляет все промежуточные значения для тайла
func (tc *TerrainClassifier) Sample(t coords.TileCoord) Sample {
	biome := tc.biome.At(t.X, t.Y)
	detail := tc.detail.At(t.X, t.Y)
	folded := 1 - math.Abs(2*(detail-detailFoldCenter))
	score := folded + biomeWeight*biome - tc.cutoffs.Threshold

	return Sample{
		Tile:         t,
		BiomeValue:   biome,
		Biome:        GetBiomeType(biome),
		Detail:       detail,
		FoldedDetail: folded,
		Score:        score,
		Type:         tc.cutoffs.TypeFor(score),
	}
}

// Classify возвращает тип тайла
func (tc *TerrainClassifier) Classify(t coords.TileCoord) TileType {
	return tc.Sample(t).Type
}

// Appearance возвращает тип, вариант спрайта и индекс в атласе
func (tc *TerrainClassifier) Appearance(t coords.TileCoord) (TileType, uint8, uint32) {
	tileType := tc.Classify(t)
	variant := uint8(Hash2(tc.seeds.Tile, t.X, t.Y) % tc.columns)
	return tileType, variant, SpriteIndex(tileType, variant, tc.columns)
}

// SpriteColumns возвращает число вариантов спрайта на тип
func (tc *TerrainClassifier) SpriteColumns() uint32 {
	return tc.columns
}

// Seeds возвращает зерна классификатора
func (tc *TerrainClassifier) Seeds() Seeds {
	return tc.seeds
}

// GetCacheStats возвращает статистику кешей полей шума
func (tc *TerrainClassifier) GetCacheStats() map[string]interface{} {
	bh, bm, br := tc.biome.cache.GetStats()
	dh, dm, dr := tc.detail.cache.GetStats()
	return map[string]interface{}{
		"biome_hits":      bh,
		"biome_misses":    bm,
		"biome_hit_rate":  br,
		"biome_size":      tc.biome.cache.Len(),
		"detail_hits":     dh,
		"detail_misses":   dm,
		"detail_hit_rate": dr,
		"detail_size":     tc.detail.cache.Len(),
	}
}

// SpriteIndex = ordinal * columns + variant
func SpriteIndex(t TileType, variant uint8, columns uint32) uint32 {
	return t.Ordinal()*columns + uint32(variant)
}

// GetBiomeType определяет биом по значению поля биомов
func GetBiomeType(value float64) BiomeType {
	if value >= GrassLandThreshold {
		return GrassLand
	}
	return Ocean
}
