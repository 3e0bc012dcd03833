package gameloop

import (
	"context"
	"time"

	"github.com/annelo/go-tile-streamer/internal/chunkmanager"
	"github.com/annelo/go-tile-streamer/internal/viewpoint"
	"go.uber.org/zap"
)

// System описывает логику, выполняемую каждый тик цикла.
type System interface {
	// Init вызывается один раз перед запуском цикла.
	Init(deps Dependencies) error
	// Tick вызывается каждый тик.
	Tick(ctx context.Context, dt time.Duration)
	// Name возвращает читаемое имя системы.
	Name() string
}

// Dependencies передаются системам при инициализации.
type Dependencies struct {
	Viewpoint *viewpoint.Tracker
	Streamer  *chunkmanager.StreamingController
	Logger    *zap.SugaredLogger
}
