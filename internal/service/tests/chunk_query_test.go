package service_test

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/annelo/go-tile-streamer/internal/chunk"
	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/noisegeneration"
	"github.com/annelo/go-tile-streamer/internal/service"
	"github.com/annelo/go-tile-streamer/internal/storage"
	"github.com/annelo/go-tile-streamer/pkg/protocol/tilestream"
)

const chunkSize = 4

type fixture struct {
	conn       *grpc.ClientConn
	client     *service.Client
	classifier *noisegeneration.TerrainClassifier
	generator  *chunk.Generator
	store      *storage.FileStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cl, err := noisegeneration.NewTerrainClassifier(noisegeneration.ClassifierOptions{
		Seeds:     noisegeneration.Seeds{Biome: 3654, Tile: 97123},
		ChunkSize: chunkSize,
	})
	require.NoError(t, err)
	gen := chunk.NewGenerator(chunkSize, cl)

	fs, err := storage.NewFileStorage(t.TempDir(), chunkSize, nil)
	require.NoError(t, err)
	t.Cleanup(func() { fs.Close() })

	svc, err := service.NewChunkQueryService(service.Options{
		Classifier: cl,
		Generator:  gen,
		Store:      fs,
		TileSize:   coords.TileSize{W: 32, H: 32},
	})
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	svc.RegisterServer(srv)
	reflection.Register(srv)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &fixture{conn: conn, client: service.NewClient(conn), classifier: cl, generator: gen, store: fs}
}

func TestClassify_Origin(t *testing.T) {
	f := newFixture(t)

	resp, err := f.client.Classify(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, tilestream.TileType_SAND, resp.GetTileType())
	assert.Equal(t, tilestream.Biome_OCEAN, resp.GetBiome())
	assert.InDelta(t, 0.1-0.23897, resp.Score, 1e-9)

	_, variant, sprite := f.classifier.Appearance(coords.TileCoord{})
	assert.Equal(t, uint32(variant), resp.Variant)
	assert.Equal(t, sprite, resp.SpriteIndex)
}

func TestClassify_MatchesLocalClassifier(t *testing.T) {
	f := newFixture(t)

	for _, tc := range []coords.TileCoord{{X: 7, Y: -3}, {X: -40, Y: 12}, {X: 100, Y: 100}} {
		resp, err := f.client.Classify(context.Background(), tc.X, tc.Y)
		require.NoError(t, err)
		assert.Equal(t, f.classifier.Classify(tc).String(), resp.GetTileType().String(), tc.String())
	}
}

func TestGetChunk_GeneratedThenStored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.client.GetChunk(ctx, 2, -1)
	require.NoError(t, err)
	assert.Equal(t, tilestream.ChunkSource_GENERATED, resp.GetSource())
	assert.Equal(t, uint32(chunkSize), resp.Size)
	assert.Len(t, resp.Tiles, chunkSize*chunkSize)

	coord := coords.ChunkCoord{X: 2, Y: -1}
	require.NoError(t, f.store.SaveChunk(ctx, f.generator.Generate(coord)))

	stored, err := f.client.GetChunk(ctx, 2, -1)
	require.NoError(t, err)
	assert.Equal(t, tilestream.ChunkSource_STORED, stored.GetSource())
	require.Len(t, stored.Tiles, len(resp.Tiles))
	for i := range resp.Tiles {
		assert.True(t, proto.Equal(resp.Tiles[i], stored.Tiles[i]), "tile %d", i)
	}
}

func TestGetChunk_CorruptIsDataLoss(t *testing.T) {
	f := newFixture(t)
	coord := coords.ChunkCoord{X: 0, Y: 0}
	require.NoError(t, os.WriteFile(f.store.ChunkPath(coord), []byte("garbage"), 0o644))

	_, err := f.client.GetChunk(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Equal(t, codes.DataLoss, status.Code(err))
}

func TestGetWindow_StreamsSortedWindow(t *testing.T) {
	f := newFixture(t)

	var got []coords.ChunkCoord
	err := f.client.GetWindow(context.Background(), &tilestream.WindowRequest{PixelX: 200, PixelY: -10, Radius: 1},
		func(r *tilestream.ChunkResponse) error {
			got = append(got, coords.ChunkCoord{X: r.X, Y: r.Y})
			assert.Len(t, r.Tiles, chunkSize*chunkSize)
			return nil
		})
	require.NoError(t, err)

	// (200, -10) -> тайл (7, -1) -> чанк (1, -1)
	want := make([]coords.ChunkCoord, 0, 9)
	for c := range coords.Window(coords.ChunkCoord{X: 1, Y: -1}, 1) {
		want = append(want, c)
	}
	coords.SortChunks(want)
	assert.Equal(t, want, got)
}

func TestGetWindow_RadiusTooLarge(t *testing.T) {
	f := newFixture(t)

	err := f.client.GetWindow(context.Background(), &tilestream.WindowRequest{Radius: service.MaxWindowRadius + 1},
		func(*tilestream.ChunkResponse) error { return nil })
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetWindow_CallbackStops(t *testing.T) {
	f := newFixture(t)
	stop := errors.New("enough")

	n := 0
	err := f.client.GetWindow(context.Background(), &tilestream.WindowRequest{Radius: 2},
		func(*tilestream.ChunkResponse) error {
			n++
			if n == 3 {
				return stop
			}
			return nil
		})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 3, n)
}

func TestChunkTilesCarryTypeAndVariant(t *testing.T) {
	f := newFixture(t)

	resp, err := f.client.GetChunk(context.Background(), -3, 5)
	require.NoError(t, err)

	local := f.generator.Generate(coords.ChunkCoord{X: -3, Y: 5})
	for _, pt := range resp.GetTiles() {
		want, ok := local.Tile(coords.TileCoord{X: pt.GetLocalX(), Y: pt.GetLocalY()})
		require.True(t, ok)
		assert.Equal(t, want.Type.String(), pt.GetType().String())
		assert.Equal(t, uint32(want.Variant), pt.GetVariant())
		assert.Equal(t, want.SpriteIndex, pt.GetSpriteIndex())
	}
}

func TestReflection_ListServices(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := grpc_reflection_v1.NewServerReflectionClient(f.conn).ServerReflectionInfo(ctx)
	require.NoError(t, err)

	require.NoError(t, stream.Send(&grpc_reflection_v1.ServerReflectionRequest{
		MessageRequest: &grpc_reflection_v1.ServerReflectionRequest_ListServices{ListServices: ""},
	}))
	resp, err := stream.Recv()
	require.NoError(t, err)

	var names []string
	for _, svc := range resp.GetListServicesResponse().GetService() {
		names = append(names, svc.GetName())
	}
	assert.Contains(t, names, "tilestream.ChunkQuery")
}

func TestReflection_FileContainingSymbol(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := grpc_reflection_v1.NewServerReflectionClient(f.conn).ServerReflectionInfo(ctx)
	require.NoError(t, err)

	require.NoError(t, stream.Send(&grpc_reflection_v1.ServerReflectionRequest{
		MessageRequest: &grpc_reflection_v1.ServerReflectionRequest_FileContainingSymbol{
			FileContainingSymbol: "tilestream.ChunkQuery",
		},
	}))
	resp, err := stream.Recv()
	require.NoError(t, err)

	raw := resp.GetFileDescriptorResponse().GetFileDescriptorProto()
	require.NotEmpty(t, raw)

	fdp := new(descriptorpb.FileDescriptorProto)
	require.NoError(t, proto.Unmarshal(raw[0], fdp))
	fd, err := protodesc.NewFile(fdp, nil)
	require.NoError(t, err)

	sd := fd.Services().ByName("ChunkQuery")
	require.NotNil(t, sd)
	window := sd.Methods().ByName("GetWindow")
	require.NotNil(t, window)
	assert.True(t, window.IsStreamingServer())
	assert.Equal(t, "tilestream.ChunkResponse", string(window.Output().FullName()))
}

func TestNewChunkQueryService_Validation(t *testing.T) {
	_, err := service.NewChunkQueryService(service.Options{})
	assert.Error(t, err)
}
