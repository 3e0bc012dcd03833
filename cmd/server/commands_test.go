package main

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annelo/go-tile-streamer/internal/chunk"
	"github.com/annelo/go-tile-streamer/internal/chunkmanager"
	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/noisegeneration"
	"github.com/annelo/go-tile-streamer/internal/plugin"
	"github.com/annelo/go-tile-streamer/internal/render"
	"github.com/annelo/go-tile-streamer/internal/viewpoint"
)

func newTestCommands(t *testing.T) (*commands, *viewpoint.Tracker, *atomic.Bool) {
	t.Helper()
	cl, err := noisegeneration.NewTerrainClassifier(noisegeneration.ClassifierOptions{
		Seeds:     noisegeneration.Seeds{Biome: 1, Tile: 2},
		ChunkSize: 4,
	})
	require.NoError(t, err)

	rec := render.NewRecorder()
	sc, err := chunkmanager.NewStreamingController(chunkmanager.Options{
		ChunkSize:      4,
		RenderDistance: 1,
		TileSize:       coords.TileSize{W: 32, H: 32},
	}, chunk.NewGenerator(4, cl), nil, rec)
	require.NoError(t, err)
	sc.Tick(context.Background(), coords.PixelPos{})

	tracker := viewpoint.NewTracker()
	stopped := &atomic.Bool{}
	reg := plugin.NewDefaultRegistry()
	return newCommands(reg, sc, rec, tracker, nil, func() { stopped.Store(true) }), tracker, stopped
}

func TestCommands_Stats(t *testing.T) {
	c, _, _ := newTestCommands(t)
	out := c.run("stats")
	assert.Contains(t, out, "cached_chunks: 9")
	assert.Contains(t, out, "render: live=144")
}

func TestCommands_GotoAndWhere(t *testing.T) {
	c, tracker, _ := newTestCommands(t)
	assert.Equal(t, "Точка обзора не задана\n", c.run("where"))

	c.run("goto 64 -32.5")
	p, ok := tracker.Position()
	require.True(t, ok)
	assert.Equal(t, coords.PixelPos{X: 64, Y: -32.5}, p)
	assert.Equal(t, "(64.0, -32.5)\n", c.run("where"))

	assert.Contains(t, c.run("goto 1"), "Usage")
	assert.Contains(t, c.run("goto a b"), "Error")
}

func TestCommands_UnknownAndHelp(t *testing.T) {
	c, _, _ := newTestCommands(t)
	assert.Contains(t, c.run("teleport"), "Неизвестная команда")
	assert.Empty(t, c.run("   "))

	help := c.run("help")
	for _, name := range []string{"stats", "vars", "goto", "where", "flush", "stop", "plugins", "config", "help"} {
		assert.Contains(t, help, name+" - ")
	}
	assert.NotContains(t, help, "reload - ")
}

func TestCommands_PluginCommands(t *testing.T) {
	c, _, _ := newTestCommands(t)
	assert.Equal(t, "Плагины не загружены\n", c.run("plugins"))

	c.reg.MarkCore()
	c.reg.RegisterPluginMeta(plugin.PluginMeta{Name: "demo", Version: "1", Author: "me", Description: "d"})
	c.reg.RegisterCommand("demo", "Демо", func(args []string) (string, error) {
		return strings.Join(args, ","), nil
	})
	assert.Equal(t, "demo v1 (me): d\n", c.run("plugins"))
	assert.Equal(t, "a,b", c.run("demo a b"))

	type demoConfig struct {
		Greeting string `yaml:"greeting"`
	}
	c.reg.RegisterPluginConfig("demo", &demoConfig{Greeting: "hi"})
	assert.Equal(t, "greeting: hi\n", c.run("config demo"))
	assert.Contains(t, c.run("config other"), "Нет конфигурации")
	assert.Contains(t, c.run("config"), "Usage")

	c.reg.ClearPlugins()
	assert.Contains(t, c.run("demo"), "Неизвестная команда")
}

func TestCommands_Stop(t *testing.T) {
	c, _, stopped := newTestCommands(t)
	assert.Equal(t, "Server stopping\n", c.run("stop"))
	assert.Eventually(t, func() bool { return stopped.Load() }, time.Second, 10*time.Millisecond)
}

func TestCommands_REPL(t *testing.T) {
	c, tracker, _ := newTestCommands(t)
	var out bytes.Buffer
	c.repl(strings.NewReader("goto 1 2\nwhere"), &out)

	p, _ := tracker.Position()
	assert.Equal(t, coords.PixelPos{X: 1, Y: 2}, p)
	assert.Contains(t, out.String(), "(1.0, 2.0)")
}
