package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/annelo/go-tile-streamer/internal/chunk"
	"github.com/annelo/go-tile-streamer/internal/chunkmanager"
	"github.com/annelo/go-tile-streamer/internal/config"
	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/gameloop"
	"github.com/annelo/go-tile-streamer/internal/noisegeneration"
	"github.com/annelo/go-tile-streamer/internal/plugin"
	"github.com/annelo/go-tile-streamer/internal/render"
	"github.com/annelo/go-tile-streamer/internal/service"
	"github.com/annelo/go-tile-streamer/internal/storage"
	"github.com/annelo/go-tile-streamer/internal/viewpoint"
)

var (
	configPath = flag.String("config", "", "Путь к YAML-конфигурации")
	listen     = flag.String("listen", "", "Адрес gRPC сервера (перекрывает listen из конфигурации)")
	worldPath  = flag.String("world", "", "Путь для хранения данных мира (перекрывает storage.path)")
	worldName  = flag.String("name", "default", "Название мира")
	noStorage  = flag.Bool("no-storage", false, "Запуск без хранилища данных")
	dev        = flag.Bool("dev", false, "Человекочитаемые логи")
	startX     = flag.Float64("x", 0, "Начальная точка обзора X (пиксели)")
	startY     = flag.Float64("y", 0, "Начальная точка обзора Y (пиксели)")
	driftX     = flag.Float64("vx", 0, "Скорость дрейфа точки обзора по X (пикселей в секунду)")
	driftY     = flag.Float64("vy", 0, "Скорость дрейфа точки обзора по Y (пикселей в секунду)")
	pluginDir  = flag.String("plugins", "./plugins", "Каталог плагинов (.so)")
)

func main() {
	// Парсим флаги командной строки
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *worldPath != "" {
		cfg.Storage.Path = *worldPath
	}
	if *noStorage {
		cfg.Storage.Backend = storage.BackendNone
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	logger, err := cfg.NewLogger(*dev)
	if err != nil {
		log.Fatalf("Не удалось создать логгер: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	classifier, err := noisegeneration.NewTerrainClassifier(cfg.ClassifierOptions())
	if err != nil {
		logger.Fatalf("Ошибка инициализации классификатора: %v", err)
	}
	generator := chunk.NewGenerator(cfg.ChunkSize, classifier)

	// Хранилище: при ошибке продолжаем без него, как и раньше
	worldStorage, err := storage.Open(cfg.StorageOptions(logger))
	if err != nil {
		logger.Errorf("Ошибка при инициализации хранилища: %v", err)
		logger.Warn("Продолжаем без хранилища...")
		worldStorage = nil
	}
	var (
		store  chunkmanager.Store
		loader service.ChunkLoader
	)
	if worldStorage != nil {
		info, err := storage.OpenWorld(ctx, worldStorage, cfg.WorldInfo(*worldName))
		if err != nil {
			logger.Fatalf("Мир в %s не подходит к конфигурации: %v", cfg.Storage.Path, err)
		}
		logger.Infow("Мир открыт", "id", info.ID, "name", info.Name, "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)
		store = worldStorage
		loader = worldStorage
	} else {
		logger.Info("Запуск в режиме без хранилища")
	}

	// Реестр плагинов: core-системы и команды регистрируются до MarkCore
	reg := plugin.NewDefaultRegistry()

	backend := render.NewRecorder()
	controller, err := chunkmanager.NewStreamingController(cfg.ControllerOptions(logger), generator, store, backend)
	if err != nil {
		logger.Fatalf("Ошибка создания контроллера чанков: %v", err)
	}
	controller.OnEvent(func(ev chunkmanager.Event) {
		if ev.Err != nil {
			logger.Warnw("Событие чанка с ошибкой", "type", ev.Type, "chunk", ev.Coord.String(), "error", ev.Err)
		}
	})
	controller.OnEvent(plugin.ChunkEvents(reg))

	tracker := viewpoint.NewTrackerAt(coords.PixelPos{X: float32(*startX), Y: float32(*startY)})
	stream := &gameloop.StreamingSystem{
		OnReport: func(r chunkmanager.TickReport) {
			logger.Debugw("Окно пересчитано",
				"center", r.Center.String(),
				"evicted", len(r.Evicted),
				"loaded", len(r.Loaded),
				"generated", len(r.Generated))
		},
	}
	drift := &gameloop.DriftSystem{Velocity: coords.PixelPos{X: float32(*driftX), Y: float32(*driftY)}}
	reg.RegisterGameSystem(drift)
	reg.RegisterGameSystem(stream)

	querySvc, err := service.NewChunkQueryService(service.Options{
		Classifier: classifier,
		Generator:  generator,
		Store:      loader,
		TileSize:   cfg.Streaming().TileSize,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatalf("Ошибка создания сервиса: %v", err)
	}

	var stopOnce sync.Once
	var grpcServer *grpc.Server
	stop := func() {
		stopOnce.Do(func() {
			cancel()
			if grpcServer != nil {
				grpcServer.GracefulStop()
			}
		})
	}

	pm := plugin.NewPluginManager(*pluginDir, logger)
	cmds := newCommands(reg, controller, backend, tracker, pm, stop)
	reg.MarkCore()
	if _, err := os.Stat(*pluginDir); err == nil {
		if err := pm.LoadPlugins(reg); err != nil {
			logger.Errorf("Ошибка при загрузке плагинов: %v", err)
		}
	}

	loop := gameloop.NewLoop(cfg.TickInterval, gameloop.Dependencies{
		Viewpoint: tracker,
		Streamer:  controller,
		Logger:    logger,
	}, reg.GameSystems()...)

	// Создаем TCP-слушатель
	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		logger.Fatalf("Не удалось создать слушателя: %v", err)
	}

	grpcServer = grpc.NewServer()
	querySvc.RegisterServer(grpcServer)
	// Включаем reflection для инструментов вроде grpcurl
	reflection.Register(grpcServer)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		loop.Run(ctx)
	}()

	// Обрабатываем сигналы для корректного завершения
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		logger.Info("Получен сигнал завершения, останавливаем сервер...")
		stop()
	}()

	// CLI для администратора
	go cmds.repl(os.Stdin, os.Stdout)

	logger.Infow("Сервер запущен",
		"listen", cfg.Listen,
		"chunk_size", cfg.ChunkSize,
		"render_distance", cfg.RenderDistance,
		"biome_seed", cfg.BiomeSeed,
		"tile_seed", cfg.TileSeed)

	if err := grpcServer.Serve(lis); err != nil {
		logger.Errorf("Ошибка запуска сервера: %v", err)
	}
	stop()
	wg.Wait()

	// Выгружаем окно: каждый чанк сохраняется перед удалением из кэша
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := controller.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Не все чанки сохранены: %v", err)
	}
	if worldStorage != nil {
		if err := worldStorage.Close(); err != nil {
			logger.Errorf("Ошибка закрытия хранилища: %v", err)
		}
	}
	logger.Info("Сервер остановлен")
}
