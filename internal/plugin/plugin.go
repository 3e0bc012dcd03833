// Package plugin содержит реестр расширений стримера и загрузчик плагинов (.so).
package plugin

import (
	"encoding/json"
	"expvar"
	"fmt"
	"os"
	"path/filepath"
	pluginpkg "plugin"
	"reflect"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/annelo/go-tile-streamer/internal/chunkmanager"
	"github.com/annelo/go-tile-streamer/internal/gameloop"
)

// PluginMeta holds metadata for a plugin
type PluginMeta struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Author      string `json:"author" yaml:"author"`
	Description string `json:"description" yaml:"description"`
}

// HookType defines a named event hook
type HookType string

// Хуки жизненного цикла чанка. Аргумент обработчика - chunkmanager.Event.
const (
	HookChunkLoaded      HookType = "ChunkLoaded"
	HookChunkGenerated   HookType = "ChunkGenerated"
	HookChunkRegenerated HookType = "ChunkRegenerated"
	HookChunkRendered    HookType = "ChunkRendered"
	HookChunkSaved       HookType = "ChunkSaved"
	HookChunkEvicted     HookType = "ChunkEvicted"
	HookChunkError       HookType = "ChunkError"
	// Plugin load/unload hook types
	HookBeforePluginLoad   HookType = "BeforePluginLoad"
	HookAfterPluginLoad    HookType = "AfterPluginLoad"
	HookBeforePluginUnload HookType = "BeforePluginUnload"
	HookAfterPluginUnload  HookType = "AfterPluginUnload"
)

// hookForEvent сопоставляет событие контроллера хуку
var hookForEvent = map[chunkmanager.EventType]HookType{
	chunkmanager.EventLoaded:      HookChunkLoaded,
	chunkmanager.EventGenerated:   HookChunkGenerated,
	chunkmanager.EventRegenerated: HookChunkRegenerated,
	chunkmanager.EventRendered:    HookChunkRendered,
	chunkmanager.EventSaved:       HookChunkSaved,
	chunkmanager.EventEvicted:     HookChunkEvicted,
	chunkmanager.EventSaveFailed:  HookChunkError,
	chunkmanager.EventLoadFailed:  HookChunkError,
}

// HookFunc is the signature for hook handlers. args can be event-specific.
type HookFunc func(args ...interface{})

// CommandFunc is the signature for admin CLI command handlers.
type CommandFunc func(args []string) (string, error)

// CommandRegistration holds a single CLI command registration.
type CommandRegistration struct {
	Name        string
	Description string
	Handler     CommandFunc
}

// PluginRegistry allows registration of game systems, hooks and admin commands.
type PluginRegistry interface {
	// RegisterGameSystem registers a game loop system to be ticked every tick.
	RegisterGameSystem(sys gameloop.System)
	// GameSystems returns all registered game loop systems.
	GameSystems() []gameloop.System
	// RegisterPluginMeta registers metadata for a plugin.
	RegisterPluginMeta(meta PluginMeta)
	// PluginMetas returns all registered plugin metadata.
	PluginMetas() []PluginMeta
	// RegisterHook registers a hook handler for a given hook type.
	RegisterHook(hook HookType, fn HookFunc)
	// Hooks returns all handlers registered for a hook type.
	Hooks(hook HookType) []HookFunc
	// RegisterCommand registers an admin CLI command.
	RegisterCommand(name, description string, handler CommandFunc)
	// Commands returns all registered admin CLI commands.
	Commands() []CommandRegistration
	// MarkCore marks the boundary between core and plugin registrations.
	MarkCore()
	// ClearPlugins removes all registrations added after MarkCore.
	ClearPlugins()
	// RegisterPluginConfig registers a sample config struct for a plugin.
	RegisterPluginConfig(name string, sample interface{})
	// LoadPluginConfig loads a plugin's config YAML from the given directory into the registry.
	LoadPluginConfig(name, dir string) error
	// PluginConfig returns the loaded config object for a plugin.
	PluginConfig(name string) interface{}
}

// DefaultRegistry is the default implementation of PluginRegistry.
type DefaultRegistry struct {
	gameSystems   []gameloop.System
	pluginMetas   []PluginMeta
	commands      []CommandRegistration
	hooks         map[HookType][]HookFunc
	configSamples map[string]interface{}
	configs       map[string]interface{}
	mu            sync.RWMutex

	// Снимок core-регистраций на момент MarkCore
	coreSystemCount     int
	coreCommandCount    int
	corePluginMetaCount int
	coreHooks           map[HookType][]HookFunc
}

// NewDefaultRegistry returns a new DefaultRegistry instance.
func NewDefaultRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		hooks:         make(map[HookType][]HookFunc),
		configSamples: make(map[string]interface{}),
		configs:       make(map[string]interface{}),
	}
}

// RegisterGameSystem appends a gameloop.System to the registry.
func (r *DefaultRegistry) RegisterGameSystem(sys gameloop.System) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gameSystems = append(r.gameSystems, sys)
}

// RegisterPluginMeta appends plugin metadata to the registry.
func (r *DefaultRegistry) RegisterPluginMeta(meta PluginMeta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pluginMetas = append(r.pluginMetas, meta)
}

// RegisterHook appends a hook handler for a given hook type.
func (r *DefaultRegistry) RegisterHook(hook HookType, fn HookFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[hook] = append(r.hooks[hook], fn)
}

// RegisterCommand appends a CLI command registration to the registry.
func (r *DefaultRegistry) RegisterCommand(name, description string, handler CommandFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, CommandRegistration{Name: name, Description: description, Handler: handler})
}

// RegisterPluginConfig registers a sample config struct for a plugin in the registry.
func (r *DefaultRegistry) RegisterPluginConfig(name string, sample interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configSamples[name] = sample
	r.configs[name] = sample
}

// LoadPluginConfig loads a plugin's YAML config from dir/name.yaml into the registry.
// Отсутствующий файл не ошибка: остается образец по умолчанию.
func (r *DefaultRegistry) LoadPluginConfig(name, dir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sample, ok := r.configSamples[name]
	if !ok {
		return nil
	}
	t := reflect.TypeOf(sample)
	if t.Kind() != reflect.Ptr {
		return fmt.Errorf("config sample for %s must be a pointer to struct", name)
	}
	path := filepath.Join(dir, name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	newPtr := reflect.New(t.Elem()).Interface()
	if err := yaml.Unmarshal(data, newPtr); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	r.configs[name] = newPtr
	return nil
}

// PluginConfig returns the loaded config object for a plugin, or default sample.
func (r *DefaultRegistry) PluginConfig(name string) interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.configs[name]
}

// GameSystems returns all registered game systems.
func (r *DefaultRegistry) GameSystems() []gameloop.System {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]gameloop.System(nil), r.gameSystems...)
}

// PluginMetas returns all registered plugin metadata.
func (r *DefaultRegistry) PluginMetas() []PluginMeta {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]PluginMeta(nil), r.pluginMetas...)
}

// Hooks returns all registered hook handlers for the given hook type.
func (r *DefaultRegistry) Hooks(hook HookType) []HookFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]HookFunc(nil), r.hooks[hook]...)
}

// Commands returns all registered CLI command registrations.
func (r *DefaultRegistry) Commands() []CommandRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]CommandRegistration(nil), r.commands...)
}

// MarkCore marks the current registry state as the core, so plugin additions can be cleared later.
func (r *DefaultRegistry) MarkCore() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coreSystemCount = len(r.gameSystems)
	r.coreCommandCount = len(r.commands)
	r.corePluginMetaCount = len(r.pluginMetas)
	r.coreHooks = make(map[HookType][]HookFunc, len(r.hooks))
	for k, v := range r.hooks {
		r.coreHooks[k] = append([]HookFunc{}, v...)
	}
}

// ClearPlugins removes all registrations added after the last core mark.
func (r *DefaultRegistry) ClearPlugins() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.coreSystemCount <= len(r.gameSystems) {
		r.gameSystems = r.gameSystems[:r.coreSystemCount]
	}
	if r.coreCommandCount <= len(r.commands) {
		r.commands = r.commands[:r.coreCommandCount]
	}
	if r.corePluginMetaCount <= len(r.pluginMetas) {
		r.pluginMetas = r.pluginMetas[:r.corePluginMetaCount]
	}
	r.hooks = make(map[HookType][]HookFunc, len(r.coreHooks))
	for k, v := range r.coreHooks {
		r.hooks[k] = append([]HookFunc{}, v...)
	}
}

// ChunkEvents возвращает обработчик событий контроллера, который вызывает хуки реестра.
// Хуки читаются на каждое событие, поэтому перезагрузка плагинов подхватывается сразу.
func ChunkEvents(reg PluginRegistry) chunkmanager.EventFunc {
	return func(ev chunkmanager.Event) {
		hook, ok := hookForEvent[ev.Type]
		if !ok {
			return
		}
		for _, h := range reg.Hooks(hook) {
			h(ev)
		}
	}
}

// PluginAPIVersion defines the current plugin API version.
const PluginAPIVersion = "1"

// PluginManager handles loading of plugins from shared object files.
type PluginManager struct {
	// Dir is the directory where plugin .so files are located.
	Dir    string
	logger *zap.SugaredLogger
	// mu protects LoadPlugins from concurrent execution.
	mu sync.Mutex
}

// NewPluginManager creates a PluginManager for a given directory.
func NewPluginManager(dir string, logger *zap.SugaredLogger) *PluginManager {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &PluginManager{Dir: dir, logger: logger}
}

// Metrics for plugin loading
var (
	pluginLoadCount  = expvar.NewInt("plugins_loaded")
	pluginSkipCount  = expvar.NewInt("plugins_skipped")
	pluginErrorCount = expvar.NewInt("plugins_errors")
)

// readMeta ищет метаданные плагина рядом с .so: base.json, base.yaml или base.yml
func (pm *PluginManager) readMeta(base string) (PluginMeta, bool) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		metaPath := filepath.Join(pm.Dir, base+ext)
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}
		var meta PluginMeta
		if ext == ".json" {
			err = json.Unmarshal(data, &meta)
		} else {
			err = yaml.Unmarshal(data, &meta)
		}
		if err != nil {
			pm.logger.Warnw("failed to parse plugin metadata", "path", metaPath, "error", err)
			continue
		}
		return meta, true
	}
	return PluginMeta{}, false
}

// LoadPlugins loads all plugins in pm.Dir and invokes their Register function.
func (pm *PluginManager) LoadPlugins(reg PluginRegistry) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	files, err := os.ReadDir(pm.Dir)
	if err != nil {
		pluginErrorCount.Add(1)
		return fmt.Errorf("cannot read plugin directory %s: %w", pm.Dir, err)
	}
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".so" {
			continue
		}
		base := strings.TrimSuffix(f.Name(), ".so")

		// Метаданные необязательны, но версия API в них должна совпадать
		if meta, ok := pm.readMeta(base); ok {
			if meta.Version != PluginAPIVersion {
				pm.logger.Warnw("skipping plugin: API version mismatch",
					"plugin", meta.Name, "got", meta.Version, "expected", PluginAPIVersion)
				pluginSkipCount.Add(1)
				continue
			}
			reg.RegisterPluginMeta(meta)
		}

		pluginPath := filepath.Join(pm.Dir, f.Name())
		for _, h := range reg.Hooks(HookBeforePluginLoad) {
			h(pluginPath)
		}
		p, err := pluginpkg.Open(pluginPath)
		if err != nil {
			pluginErrorCount.Add(1)
			return fmt.Errorf("failed to open plugin %s: %w", pluginPath, err)
		}
		sym, err := p.Lookup("Register")
		if err != nil {
			pluginErrorCount.Add(1)
			pm.logger.Warnw("no Register symbol", "plugin", pluginPath, "error", err)
			continue
		}
		registerFunc, ok := sym.(func(PluginRegistry))
		if !ok {
			pluginErrorCount.Add(1)
			pm.logger.Warnw("invalid Register signature", "plugin", pluginPath)
			continue
		}
		pm.register(reg, pluginPath, base, registerFunc)
	}
	return nil
}

// register вызывает Register плагина, перехватывая панику
func (pm *PluginManager) register(reg PluginRegistry, pluginPath, base string, registerFunc func(PluginRegistry)) {
	defer func() {
		if r := recover(); r != nil {
			pluginErrorCount.Add(1)
			pm.logger.Errorw("panic in plugin Register", "plugin", pluginPath, "panic", r)
		}
	}()

	registerFunc(reg)
	if err := reg.LoadPluginConfig(base, pm.Dir); err != nil {
		pluginErrorCount.Add(1)
		pm.logger.Warnw("failed to load plugin config", "plugin", base, "error", err)
	}
	pluginLoadCount.Add(1)
	pm.logger.Infow("Плагин загружен", "plugin", pluginPath)
	for _, h := range reg.Hooks(HookAfterPluginLoad) {
		h(pluginPath)
	}
}

// UnloadPlugins triggers unload hooks for all loaded plugins.
func (pm *PluginManager) UnloadPlugins(reg PluginRegistry) {
	metas := reg.PluginMetas()
	for _, meta := range metas {
		for _, h := range reg.Hooks(HookBeforePluginUnload) {
			h(meta)
		}
	}
	for _, meta := range metas {
		for _, h := range reg.Hooks(HookAfterPluginUnload) {
			h(meta)
		}
	}
}

// ReloadPlugins unloads existing plugins and reloads them.
// Новые системы цикла вступают в силу только при следующем создании цикла.
func (pm *PluginManager) ReloadPlugins(reg PluginRegistry) error {
	pm.UnloadPlugins(reg)
	reg.ClearPlugins()
	return pm.LoadPlugins(reg)
}
