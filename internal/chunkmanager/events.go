package chunkmanager

import (
	"expvar"

	"github.com/annelo/go-tile-streamer/internal/coords"
)

// EventType - событие жизненного цикла чанка
type EventType string

const (
	EventLoaded      EventType = "loaded"
	EventGenerated   EventType = "generated"
	EventRegenerated EventType = "regenerated"
	EventRendered    EventType = "rendered"
	EventSaved       EventType = "saved"
	EventSaveFailed  EventType = "save_failed"
	EventLoadFailed  EventType = "load_failed"
	EventEvicted     EventType = "evicted"
)

// Event передается обработчикам событий
type Event struct {
	Type  EventType
	Coord coords.ChunkCoord
	Err   error
}

// EventFunc - обработчик события. Вызывается на горутине тика;
// вызывать методы контроллера из обработчика нельзя.
type EventFunc func(Event)

// OnEvent регистрирует обработчик событий
func (sc *StreamingController) OnEvent(fn EventFunc) {
	sc.hooksMu.Lock()
	defer sc.hooksMu.Unlock()
	sc.hooks = append(sc.hooks, fn)
}

func (sc *StreamingController) emit(t EventType, c coords.ChunkCoord, err error) {
	sc.hooksMu.RLock()
	hooks := sc.hooks
	sc.hooksMu.RUnlock()

	ev := Event{Type: t, Coord: c, Err: err}
	for _, fn := range hooks {
		fn(ev)
	}
}

// Имена expvar-счетчиков
const (
	counterLoaded    = "chunks_loaded"
	counterGenerated = "chunks_generated"
	counterSaved     = "chunks_saved"
	counterEvicted   = "chunks_evicted"
	counterErrors    = "chunk_errors"
)

func init() {
	ensureCounter := func(name string) {
		if expvar.Get(name) == nil {
			expvar.NewInt(name)
		}
	}
	ensureCounter(counterLoaded)
	ensureCounter(counterGenerated)
	ensureCounter(counterSaved)
	ensureCounter(counterEvicted)
	ensureCounter(counterErrors)
}

func incCounter(name string) {
	if v, ok := expvar.Get(name).(*expvar.Int); ok {
		v.Add(1)
	}
}
