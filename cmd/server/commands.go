package main

import (
	"bufio"
	"context"
	"expvar"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/annelo/go-tile-streamer/internal/chunkmanager"
	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/plugin"
	"github.com/annelo/go-tile-streamer/internal/render"
	"github.com/annelo/go-tile-streamer/internal/viewpoint"
)

// commands - консоль администратора поверх реестра плагинов
type commands struct {
	reg plugin.PluginRegistry
}

// newCommands регистрирует базовые команды в reg. pm может быть nil,
// тогда команда reload недоступна.
func newCommands(reg plugin.PluginRegistry, sc *chunkmanager.StreamingController, rec *render.Recorder, tracker *viewpoint.Tracker, pm *plugin.PluginManager, stop func()) *commands {
	c := &commands{reg: reg}
	reg.RegisterCommand("stats", "Статистика стриминга", func(args []string) (string, error) {
		stats := sc.Stats()
		keys := make([]string, 0, len(stats))
		for k := range stats {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var sb strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&sb, "%s: %v\n", k, stats[k])
		}
		created, destroyed, invalid := rec.Counts()
		fmt.Fprintf(&sb, "render: live=%d created=%d destroyed=%d invalid=%d\n", rec.Live(), created, destroyed, invalid)
		return sb.String(), nil
	})
	reg.RegisterCommand("vars", "Счетчики expvar", func(args []string) (string, error) {
		var sb strings.Builder
		expvar.Do(func(kv expvar.KeyValue) {
			if _, ok := kv.Value.(*expvar.Int); ok {
				fmt.Fprintf(&sb, "%s: %s\n", kv.Key, kv.Value.String())
			}
		})
		return sb.String(), nil
	})
	reg.RegisterCommand("goto", "Переместить точку обзора: goto <x> <y>", func(args []string) (string, error) {
		if len(args) != 2 {
			return "Usage: goto <x> <y>\n", nil
		}
		x, err := strconv.ParseFloat(args[0], 32)
		if err != nil {
			return "", err
		}
		y, err := strconv.ParseFloat(args[1], 32)
		if err != nil {
			return "", err
		}
		tracker.Set(coords.PixelPos{X: float32(x), Y: float32(y)})
		return fmt.Sprintf("Точка обзора: (%.1f, %.1f)\n", x, y), nil
	})
	reg.RegisterCommand("where", "Текущая точка обзора", func(args []string) (string, error) {
		p, ok := tracker.Position()
		if !ok {
			return "Точка обзора не задана\n", nil
		}
		return fmt.Sprintf("(%.1f, %.1f)\n", p.X, p.Y), nil
	})
	reg.RegisterCommand("flush", "Сохранить все чанки окна", func(args []string) (string, error) {
		if err := sc.Flush(context.Background()); err != nil {
			return "", err
		}
		return "Чанки сохранены\n", nil
	})
	reg.RegisterCommand("stop", "Остановить сервер", func(args []string) (string, error) {
		go stop()
		return "Server stopping\n", nil
	})
	reg.RegisterCommand("plugins", "Загруженные плагины", func(args []string) (string, error) {
		metas := reg.PluginMetas()
		if len(metas) == 0 {
			return "Плагины не загружены\n", nil
		}
		var sb strings.Builder
		for _, m := range metas {
			fmt.Fprintf(&sb, "%s v%s (%s): %s\n", m.Name, m.Version, m.Author, m.Description)
		}
		return sb.String(), nil
	})
	reg.RegisterCommand("config", "Конфигурация плагина: config <plugin>", func(args []string) (string, error) {
		if len(args) < 1 {
			return "Usage: config <plugin>\n", nil
		}
		cfg := reg.PluginConfig(args[0])
		if cfg == nil {
			return fmt.Sprintf("Нет конфигурации для плагина %s\n", args[0]), nil
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return "", err
		}
		return string(data), nil
	})
	if pm != nil {
		reg.RegisterCommand("reload", "Перезагрузить плагины", func(args []string) (string, error) {
			if err := pm.ReloadPlugins(reg); err != nil {
				return "", err
			}
			return fmt.Sprintf("Плагины перезагружены: %d\n", len(reg.PluginMetas())), nil
		})
	}
	reg.RegisterCommand("help", "Список команд", func(args []string) (string, error) {
		var sb strings.Builder
		for _, cmd := range reg.Commands() {
			fmt.Fprintf(&sb, "%s - %s\n", cmd.Name, cmd.Description)
		}
		return sb.String(), nil
	})
	return c
}

// run выполняет одну строку ввода
func (c *commands) run(line string) string {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return ""
	}
	name, args := parts[0], parts[1:]
	for _, cmd := range c.reg.Commands() {
		if cmd.Name != name {
			continue
		}
		out, err := cmd.Handler(args)
		if err != nil {
			return fmt.Sprintf("Error: %v\n", err)
		}
		return out
	}
	return fmt.Sprintf("Неизвестная команда: %s\n", name)
}

// repl читает команды из r до конца ввода
func (c *commands) repl(r io.Reader, w io.Writer) {
	reader := bufio.NewReader(r)
	for {
		fmt.Fprint(w, "> ")
		line, err := reader.ReadString('\n')
		if line != "" {
			fmt.Fprint(w, c.run(line))
		}
		if err != nil {
			return
		}
	}
}
