package viewpoint

import (
	"sync"
	"testing"

	"github.com/annelo/go-tile-streamer/internal/coords"
)

func TestTracker_Lifecycle(t *testing.T) {
	tr := NewTracker()

	if _, ok := tr.Position(); ok {
		t.Fatalf("new tracker must have no viewpoint")
	}
	if tr.Move(1, 1) {
		t.Fatalf("Move without viewpoint must be a no-op")
	}

	tr.Set(coords.PixelPos{X: 10, Y: -5})
	if !tr.Move(2, 3) {
		t.Fatalf("Move returned false with viewpoint set")
	}
	p, ok := tr.Position()
	if !ok || p != (coords.PixelPos{X: 12, Y: -2}) {
		t.Fatalf("unexpected position %+v (set=%v)", p, ok)
	}

	tr.Clear()
	if _, ok := tr.Position(); ok {
		t.Fatalf("viewpoint still present after Clear")
	}
}

func TestTracker_ConcurrentMoves(t *testing.T) {
	tr := NewTrackerAt(coords.PixelPos{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Move(1, -1)
			}
		}()
	}
	wg.Wait()

	p, _ := tr.Position()
	if p.X != 1000 || p.Y != -1000 {
		t.Fatalf("lost updates: %+v", p)
	}
}
