package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	termbox "github.com/nsf/termbox-go"

	"github.com/annelo/go-tile-streamer/internal/chunk"
	"github.com/annelo/go-tile-streamer/internal/chunkmanager"
	"github.com/annelo/go-tile-streamer/internal/config"
	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/noisegeneration"
	"github.com/annelo/go-tile-streamer/internal/render"
	"github.com/annelo/go-tile-streamer/internal/storage"
	"github.com/annelo/go-tile-streamer/internal/viewpoint"
)

var (
	configPath = flag.String("config", "", "Путь к YAML-конфигурации")
	worldName  = flag.String("name", "default", "Название мира")
	noStorage  = flag.Bool("no-storage", false, "Не сохранять чанки")
	startX     = flag.Float64("x", 0, "Начальная мировая координата X камеры (пиксели)")
	startY     = flag.Float64("y", 0, "Начальная мировая координата Y камеры (пиксели)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if *noStorage {
		cfg.Storage.Backend = storage.BackendNone
	}
	// Терминал занят картой, логи только об ошибках
	cfg.LogLevel = "error"
	logger, err := cfg.NewLogger(false)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}

	ctx := context.Background()
	classifier, err := noisegeneration.NewTerrainClassifier(cfg.ClassifierOptions())
	if err != nil {
		log.Fatalf("classifier error: %v", err)
	}

	worldStorage, err := storage.Open(cfg.StorageOptions(logger))
	if err != nil {
		log.Fatalf("storage error: %v", err)
	}
	var store chunkmanager.Store
	if worldStorage != nil {
		defer closeStorage(worldStorage, logger)
		if _, err := storage.OpenWorld(ctx, worldStorage, cfg.WorldInfo(*worldName)); err != nil {
			log.Fatalf("world error: %v", err)
		}
		store = worldStorage
	}

	tileSize := cfg.Streaming().TileSize
	screen := render.NewTermbox(tileSize)
	controller, err := chunkmanager.NewStreamingController(cfg.ControllerOptions(logger), chunk.NewGenerator(cfg.ChunkSize, classifier), store, screen)
	if err != nil {
		log.Fatalf("controller error: %v", err)
	}
	defer shutdownController(controller, logger)

	// Инициализируем termbox
	if err := termbox.Init(); err != nil {
		log.Fatalf("termbox init error: %v", err)
	}
	defer termbox.Close()

	tracker := viewpoint.NewTrackerAt(coords.PixelPos{X: float32(*startX), Y: float32(*startY)})
	chunkStep := float32(cfg.ChunkSize)

	draw := func() {
		cam, _ := tracker.Position()
		report := controller.Tick(ctx, cam)

		tile := coords.PixelToTile(cam, tileSize)
		s := classifier.Sample(tile)
		stats := controller.Stats()
		header := fmt.Sprintf("Tile %s %s/%s score=%.3f  Chunk %s  cached=%v handles=%v  errors=%d",
			tile, s.Type, s.Biome, s.Score, report.Center, stats["cached_chunks"], stats["live_handles"],
			len(report.LoadFailed)+len(report.SaveFailed))
		if err := screen.Draw(cam, header); err != nil {
			log.Printf("draw error: %v", err)
		}
	}

	draw()

	// Основной цикл
	for {
		switch ev := termbox.PollEvent(); ev.Type {
		case termbox.EventKey:
			dx, dy := float32(0), float32(0)
			switch ev.Key {
			case termbox.KeyEsc, termbox.KeyCtrlC:
				return
			case termbox.KeyArrowLeft:
				dx = -1
			case termbox.KeyArrowRight:
				dx = 1
			case termbox.KeyArrowUp:
				dy = -1
			case termbox.KeyArrowDown:
				dy = 1
			default:
				// WASD - шаг на чанк
				switch ev.Ch {
				case 'q':
					return
				case 'a':
					dx = -chunkStep
				case 'd':
					dx = chunkStep
				case 'w':
					dy = -chunkStep
				case 's':
					dy = chunkStep
				}
			}
			tracker.Move(dx*tileSize.W, dy*tileSize.H)
			draw()
		case termbox.EventResize:
			draw()
		case termbox.EventError:
			log.Printf("termbox error: %v", ev.Err)
			return
		}
	}
}
