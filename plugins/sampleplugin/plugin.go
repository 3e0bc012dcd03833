// Сборка: go build -buildmode=plugin -o plugins/sampleplugin/sampleplugin.so ./plugins/sampleplugin
package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/annelo/go-tile-streamer/internal/chunkmanager"
	"github.com/annelo/go-tile-streamer/internal/gameloop"
	"github.com/annelo/go-tile-streamer/internal/plugin"
)

// SamplePluginConfig - конфигурация из sampleplugin.yaml
type SamplePluginConfig struct {
	Greeting string `yaml:"greeting"`
	Value    int    `yaml:"value"`
}

var (
	generated atomic.Int64
	evicted   atomic.Int64
)

// uptimeSystem считает время работы цикла
type uptimeSystem struct {
	total time.Duration
}

func (s *uptimeSystem) Name() string { return "sample-uptime" }

func (s *uptimeSystem) Init(deps gameloop.Dependencies) error { return nil }

func (s *uptimeSystem) Tick(ctx context.Context, dt time.Duration) { s.total += dt }

// Register is invoked by PluginManager to register systems, hooks and commands
func Register(reg plugin.PluginRegistry) {
	uptime := &uptimeSystem{}
	reg.RegisterGameSystem(uptime)

	reg.RegisterHook(plugin.HookChunkGenerated, func(args ...interface{}) {
		if len(args) == 1 {
			if _, ok := args[0].(chunkmanager.Event); ok {
				generated.Add(1)
			}
		}
	})
	reg.RegisterHook(plugin.HookChunkEvicted, func(args ...interface{}) {
		evicted.Add(1)
	})

	reg.RegisterPluginConfig("sampleplugin", &SamplePluginConfig{Greeting: "Hello", Value: 1})

	reg.RegisterCommand("sampleinfo", "Show sample plugin info", func(args []string) (string, error) {
		cfg := reg.PluginConfig("sampleplugin").(*SamplePluginConfig)
		return fmt.Sprintf("Greeting: %s, Value: %d\nGenerated: %d, Evicted: %d\n",
			cfg.Greeting, cfg.Value, generated.Load(), evicted.Load()), nil
	})
}

func main() {}
