package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/annelo/go-tile-streamer/internal/service"
	"github.com/annelo/go-tile-streamer/pkg/protocol/tilestream"
)

var (
	serverAddr   = flag.String("addr", "localhost:50061", "gRPC адрес сервера")
	clientsCount = flag.Int("n", 20, "Количество эмулируемых клиентов")
	duration     = flag.Duration("duration", 30*time.Second, "Длительность теста")
	radius       = flag.Uint("radius", 1, "Радиус окна")
	tilePx       = flag.Float64("tile", 32, "Размер тайла в пикселях")
)

type counters struct {
	windows  atomic.Int64
	chunks   atomic.Int64
	classify atomic.Int64
	errors   atomic.Int64
}

func main() {
	flag.Parse()
	log.Printf("Запускаем bClient: %d клиентов на %s в течение %s", *clientsCount, *serverAddr, *duration)

	conn, err := grpc.NewClient(*serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("dial error: %v", err)
	}
	defer conn.Close()
	client := service.NewClient(conn)

	var (
		wg    sync.WaitGroup
		stats counters
	)
	stopCtx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	for i := 0; i < *clientsCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runClient(stopCtx, client, id, &stats)
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start).Seconds()
	log.Printf("bClient завершил работу: windows=%d (%.1f/s) chunks=%d classify=%d errors=%d",
		stats.windows.Load(), float64(stats.windows.Load())/elapsed,
		stats.chunks.Load(), stats.classify.Load(), stats.errors.Load())
}

// runClient блуждает по миру и запрашивает окно вокруг текущей позиции
func runClient(ctx context.Context, client *service.Client, id int, stats *counters) {
	randSrc := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))
	px := float32(randSrc.Intn(20000) - 10000)
	py := float32(randSrc.Intn(20000) - 10000)
	step := float32(*tilePx)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// случайное движение на несколько тайлов
			px += float32(randSrc.Intn(7)-3) * step
			py += float32(randSrc.Intn(7)-3) * step

			err := client.GetWindow(ctx, &tilestream.WindowRequest{PixelX: px, PixelY: py, Radius: uint32(*radius)},
				func(*tilestream.ChunkResponse) error {
					stats.chunks.Add(1)
					return nil
				})
			if err != nil && ctx.Err() == nil {
				stats.errors.Add(1)
				log.Printf("[client %d] window error: %v", id, status.Convert(err).Message())
				continue
			}
			stats.windows.Add(1)

			// классификация тайла под курсором 10% шанс
			if randSrc.Intn(10) == 0 {
				if _, err := client.Classify(ctx, int32(px/step), int32(py/step)); err != nil && ctx.Err() == nil {
					stats.errors.Add(1)
					continue
				}
				stats.classify.Add(1)
			}
		}
	}
}
