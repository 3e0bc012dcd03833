package render

import (
	"math"

	"github.com/annelo/go-tile-streamer/internal/chunk"
	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/noisegeneration"
	termbox "github.com/nsf/termbox-go"
)

// Cell - одна клетка терминала
type Cell struct {
	Ch rune
	Fg termbox.Attribute
	Bg termbox.Attribute
}

var emptyCell = Cell{Ch: ' ', Fg: termbox.ColorDefault, Bg: termbox.ColorDefault}

// tileSymbol возвращает символ и цвета для типа тайла
func tileSymbol(t noisegeneration.TileType) Cell {
	switch t {
	case noisegeneration.DeepWater:
		return Cell{Ch: '≈', Fg: termbox.ColorWhite, Bg: termbox.ColorBlue}
	case noisegeneration.Water:
		return Cell{Ch: '~', Fg: termbox.ColorWhite, Bg: termbox.ColorCyan}
	case noisegeneration.Sand:
		return Cell{Ch: '.', Fg: termbox.ColorBlack, Bg: termbox.ColorYellow}
	case noisegeneration.Grass:
		return Cell{Ch: '"', Fg: termbox.ColorBlack, Bg: termbox.ColorGreen}
	case noisegeneration.Dirt:
		return Cell{Ch: '#', Fg: termbox.ColorYellow, Bg: termbox.ColorRed}
	default:
		return Cell{Ch: '?', Fg: termbox.ColorMagenta, Bg: termbox.ColorBlack}
	}
}

// Termbox рисует живые спрайты в терминале: один тайл - одна клетка
type Termbox struct {
	*Recorder
	tileSize coords.TileSize
}

func NewTermbox(tileSize coords.TileSize) *Termbox {
	return &Termbox{Recorder: NewRecorder(), tileSize: tileSize}
}

// Cells проецирует спрайты на экран w×h, камера в центре экрана.
// Ось Y мира направлена вниз, как и строки терминала.
func (tb *Termbox) Cells(camera coords.PixelPos, w, h int) [][]Cell {
	grid := make([][]Cell, h)
	for y := range grid {
		grid[y] = make([]Cell, w)
		for x := range grid[y] {
			grid[y][x] = emptyCell
		}
	}

	tb.Each(func(_ chunk.RenderHandle, s Sprite) {
		col := int(math.Floor(float64((s.At.X-camera.X)/tb.tileSize.W))) + w/2
		row := int(math.Floor(float64((s.At.Y-camera.Y)/tb.tileSize.H))) + h/2
		if col < 0 || row < 0 || col >= w || row >= h {
			return
		}
		grid[row][col] = tileSymbol(s.Tile.Type)
	})

	if w > 0 && h > 0 {
		c := grid[h/2][w/2]
		grid[h/2][w/2] = Cell{Ch: '@', Fg: termbox.ColorBlack | termbox.AttrBold, Bg: c.Bg}
	}
	return grid
}

// Draw выводит проекцию на экран. status печатается в первой строке.
func (tb *Termbox) Draw(camera coords.PixelPos, status string) error {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return err
	}
	w, h := termbox.Size()
	for y, row := range tb.Cells(camera, w, h) {
		for x, c := range row {
			termbox.SetCell(x, y, c.Ch, c.Fg, c.Bg)
		}
	}
	for i, r := range status {
		if i >= w {
			break
		}
		termbox.SetCell(i, 0, r, termbox.ColorYellow|termbox.AttrBold, termbox.ColorBlack)
	}
	return termbox.Flush()
}
