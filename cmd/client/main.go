package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/annelo/go-tile-streamer/internal/service"
	"github.com/annelo/go-tile-streamer/pkg/protocol/tilestream"
)

var (
	serverAddr = flag.String("server", "localhost:50061", "Адрес сервера и порт")
	timeout    = flag.Duration("timeout", 10*time.Second, "Таймаут запроса")
	radius     = flag.Uint("radius", 1, "Радиус окна для window")
	summary    = flag.Bool("summary", false, "Печатать только заголовки чанков")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Использование:
  client [флаги] classify <tile_x> <tile_y>
  client [флаги] chunk <chunk_x> <chunk_y>
  client [флаги] window <pixel_x> <pixel_y>

Флаги:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 3 {
		usage()
		os.Exit(2)
	}

	conn, err := grpc.NewClient(*serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("Не удалось подключиться к серверу: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := service.NewClient(conn)
	enc := protojson.MarshalOptions{Multiline: true, Indent: "  ", UseProtoNames: true, EmitUnpopulated: true}

	switch cmd := flag.Arg(0); cmd {
	case "classify":
		x, y := parseInt(flag.Arg(1)), parseInt(flag.Arg(2))
		resp, err := client.Classify(ctx, x, y)
		if err != nil {
			log.Fatalf("Classify: %v", err)
		}
		printMessage(enc, resp)
	case "chunk":
		x, y := parseInt(flag.Arg(1)), parseInt(flag.Arg(2))
		resp, err := client.GetChunk(ctx, x, y)
		if err != nil {
			log.Fatalf("GetChunk: %v", err)
		}
		printChunk(enc, resp)
	case "window":
		req := &tilestream.WindowRequest{
			PixelX: parseFloat(flag.Arg(1)),
			PixelY: parseFloat(flag.Arg(2)),
			Radius: uint32(*radius),
		}
		n := 0
		err := client.GetWindow(ctx, req, func(resp *tilestream.ChunkResponse) error {
			n++
			printChunk(enc, resp)
			return nil
		})
		if err != nil {
			log.Fatalf("GetWindow: %v", err)
		}
		log.Printf("Получено чанков: %d", n)
	default:
		log.Printf("Неизвестная команда: %s", cmd)
		usage()
		os.Exit(2)
	}
}

func printChunk(enc protojson.MarshalOptions, resp *tilestream.ChunkResponse) {
	if *summary {
		fmt.Printf("chunk (%d,%d) size=%d source=%s tiles=%d\n",
			resp.GetX(), resp.GetY(), resp.GetSize(), resp.GetSource(), len(resp.GetTiles()))
		return
	}
	printMessage(enc, resp)
}

func printMessage(enc protojson.MarshalOptions, m proto.Message) {
	out, err := enc.Marshal(m)
	if err != nil {
		log.Fatalf("Не удалось закодировать ответ: %v", err)
	}
	fmt.Println(string(out))
}

func parseInt(s string) int32 {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		log.Fatalf("Неверное число %q: %v", s, err)
	}
	return int32(v)
}

func parseFloat(s string) float32 {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		log.Fatalf("Неверное число %q: %v", s, err)
	}
	return float32(v)
}
