package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/noisegeneration"
)

var (
	width     = flag.Int("w", 80, "Ширина карты в тайлах")
	height    = flag.Int("h", 30, "Высота карты в тайлах")
	originX   = flag.Int("x", 0, "Левый верхний тайл X")
	originY   = flag.Int("y", 0, "Левый верхний тайл Y")
	step      = flag.Int("step", 1, "Шаг выборки в тайлах")
	biomeSeed = flag.Uint("biome-seed", 3654, "Зерно поля биомов")
	tileSeed  = flag.Uint("tile-seed", 97123, "Зерно поля деталей")
	chunkSize = flag.Uint("chunk", 16, "Размер чанка")
	backend   = flag.String("backend", noisegeneration.BackendPerlin, "Источник шума: perlin | opensimplex")
)

// Символы для типов тайлов
var tileChars = map[noisegeneration.TileType]rune{
	noisegeneration.DeepWater: '≈',
	noisegeneration.Water:     '~',
	noisegeneration.Sand:      '.',
	noisegeneration.Grass:     '"',
	noisegeneration.Dirt:      '#',
}

func main() {
	flag.Parse()

	tc, err := noisegeneration.NewTerrainClassifier(noisegeneration.ClassifierOptions{
		Seeds:     noisegeneration.Seeds{Biome: uint32(*biomeSeed), Tile: uint32(*tileSeed)},
		ChunkSize: uint32(*chunkSize),
		Backend:   *backend,
	})
	if err != nil {
		log.Fatalf("classifier error: %v", err)
	}

	samples := make([][]noisegeneration.Sample, *height)
	counts := make(map[noisegeneration.TileType]int)
	for y := range samples {
		samples[y] = make([]noisegeneration.Sample, *width)
		for x := range samples[y] {
			t := coords.TileCoord{X: int32(*originX + x**step), Y: int32(*originY + y**step)}
			s := tc.Sample(t)
			samples[y][x] = s
			counts[s.Type]++
		}
	}

	fmt.Printf("Зерна: biome=%d tile=%d, backend=%s\n", *biomeSeed, *tileSeed, *backend)

	// Визуализируем карту тайлов
	fmt.Println("\nКарта тайлов:")
	for _, row := range samples {
		for _, s := range row {
			fmt.Print(string(tileChars[s.Type]))
		}
		fmt.Println()
	}

	// Визуализируем карту биомов
	fmt.Println("\nКарта биомов:")
	for _, row := range samples {
		for _, s := range row {
			if s.Biome == noisegeneration.GrassLand {
				fmt.Print("♣")
			} else {
				fmt.Print("~")
			}
		}
		fmt.Println()
	}

	fmt.Println("\nЛегенда:")
	total := *width * *height
	for t := noisegeneration.DeepWater; t <= noisegeneration.Dirt; t++ {
		fmt.Printf("%c %-9s %5.1f%%\n", tileChars[t], t, 100*float64(counts[t])/float64(total))
	}
	fmt.Println(tc.GetCacheStats())
}
