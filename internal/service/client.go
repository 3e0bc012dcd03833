package service

import (
	"context"
	"errors"
	"io"

	"google.golang.org/grpc"

	"github.com/annelo/go-tile-streamer/pkg/protocol/tilestream"
)

// Client - обертка над сгенерированным tilestream.ChunkQueryClient
type Client struct {
	rpc tilestream.ChunkQueryClient
}

// NewClient оборачивает соединение
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{rpc: tilestream.NewChunkQueryClient(conn)}
}

// Classify запрашивает классификацию тайла
func (c *Client) Classify(ctx context.Context, x, y int32) (*tilestream.ClassifyResponse, error) {
	return c.rpc.Classify(ctx, &tilestream.TileRequest{X: x, Y: y})
}

// GetChunk запрашивает один чанк
func (c *Client) GetChunk(ctx context.Context, x, y int32) (*tilestream.ChunkResponse, error) {
	return c.rpc.GetChunk(ctx, &tilestream.ChunkRequest{X: x, Y: y})
}

// GetWindow читает окно чанков и вызывает fn для каждого.
// Остановка по ошибке fn прерывает стрим.
func (c *Client) GetWindow(ctx context.Context, req *tilestream.WindowRequest, fn func(*tilestream.ChunkResponse) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.rpc.GetWindow(ctx, req)
	if err != nil {
		return err
	}
	for {
		resp, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := fn(resp); err != nil {
			return err
		}
	}
}
