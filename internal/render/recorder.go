// Package render содержит бэкенды отрисовки для контроллера чанков.
package render

import (
	"sync"

	"github.com/annelo/go-tile-streamer/internal/chunk"
	"github.com/annelo/go-tile-streamer/internal/coords"
)

// Sprite - отрисованный тайл
type Sprite struct {
	Tile chunk.Tile
	At   coords.PixelPos
}

// Recorder - бэкенд в памяти. Хендлы выдаются по возрастанию, начиная с 1.
type Recorder struct {
	mu        sync.RWMutex
	next      chunk.RenderHandle
	live      map[chunk.RenderHandle]Sprite
	created   int
	destroyed int
	invalid   int
}

func NewRecorder() *Recorder {
	return &Recorder{live: make(map[chunk.RenderHandle]Sprite)}
}

// Create регистрирует спрайт и возвращает новый хендл
func (r *Recorder) Create(tile chunk.Tile, at coords.PixelPos) chunk.RenderHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.live[r.next] = Sprite{Tile: tile, At: at}
	r.created++
	return r.next
}

// Destroy удаляет спрайт. Повторное уничтожение или неизвестный хендл учитываются как invalid.
func (r *Recorder) Destroy(h chunk.RenderHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live[h]; !ok {
		r.invalid++
		return
	}
	delete(r.live, h)
	r.destroyed++
}

// Live возвращает количество живых хендлов
func (r *Recorder) Live() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.live)
}

// Get возвращает спрайт по хендлу
func (r *Recorder) Get(h chunk.RenderHandle) (Sprite, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.live[h]
	return s, ok
}

// Counts возвращает число созданных, уничтоженных и некорректно уничтоженных хендлов
func (r *Recorder) Counts() (created, destroyed, invalid int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.created, r.destroyed, r.invalid
}

// Each обходит живые спрайты
func (r *Recorder) Each(fn func(chunk.RenderHandle, Sprite)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for h, s := range r.live {
		fn(h, s)
	}
}
