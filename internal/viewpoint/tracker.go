// Package viewpoint хранит текущую точку обзора, вокруг которой подгружаются чанки.
package viewpoint

import (
	"sync"

	"github.com/annelo/go-tile-streamer/internal/coords"
)

// Tracker - потокобезопасная точка обзора. Пока позиция не задана,
// точки обзора нет, и тик стриминга пропускается.
type Tracker struct {
	mu  sync.RWMutex
	pos coords.PixelPos
	set bool
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// NewTrackerAt создает трекер с начальной позицией
func NewTrackerAt(p coords.PixelPos) *Tracker {
	return &Tracker{pos: p, set: true}
}

// Set задает позицию
func (t *Tracker) Set(p coords.PixelPos) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pos = p
	t.set = true
}

// Move сдвигает позицию. Без заданной позиции ничего не делает и возвращает false.
func (t *Tracker) Move(dx, dy float32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.set {
		return false
	}
	t.pos.X += dx
	t.pos.Y += dy
	return true
}

// Clear убирает точку обзора
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pos = coords.PixelPos{}
	t.set = false
}

// Position возвращает позицию и признак ее наличия
func (t *Tracker) Position() (coords.PixelPos, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pos, t.set
}
