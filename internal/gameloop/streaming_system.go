package gameloop

import (
	"context"
	"errors"
	"time"

	"github.com/annelo/go-tile-streamer/internal/chunkmanager"
	"github.com/annelo/go-tile-streamer/internal/coords"
	"github.com/annelo/go-tile-streamer/internal/viewpoint"
	"go.uber.org/zap"
)

// StreamingSystem передает точку обзора контроллеру чанков каждый тик
type StreamingSystem struct {
	view     *viewpoint.Tracker
	streamer *chunkmanager.StreamingController
	logger   *zap.SugaredLogger

	// OnReport вызывается после каждого тика с пересчетом окна
	OnReport func(chunkmanager.TickReport)

	skipped int
}

func (s *StreamingSystem) Name() string { return "streaming" }

func (s *StreamingSystem) Init(deps Dependencies) error {
	if deps.Viewpoint == nil || deps.Streamer == nil {
		return errors.New("streaming system requires viewpoint and streamer")
	}
	s.view = deps.Viewpoint
	s.streamer = deps.Streamer
	s.logger = deps.Logger
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}
	return nil
}

func (s *StreamingSystem) Tick(ctx context.Context, dt time.Duration) {
	pos, ok := s.view.Position()
	if !ok {
		// Точки обзора нет - откладываем тик
		s.skipped++
		return
	}
	report := s.streamer.Tick(ctx, pos)
	if report.Unchanged {
		return
	}
	if len(report.LoadFailed) > 0 || len(report.SaveFailed) > 0 {
		s.logger.Warnw("Тик стриминга завершился с ошибками",
			"center", report.Center.String(),
			"load_failed", len(report.LoadFailed),
			"save_failed", len(report.SaveFailed))
	}
	if s.OnReport != nil {
		s.OnReport(report)
	}
}

// Skipped возвращает количество тиков без точки обзора
func (s *StreamingSystem) Skipped() int {
	return s.skipped
}

// DriftSystem двигает точку обзора с постоянной скоростью (пикселей в секунду)
type DriftSystem struct {
	Velocity coords.PixelPos
	view     *viewpoint.Tracker
}

func (d *DriftSystem) Name() string { return "drift" }

func (d *DriftSystem) Init(deps Dependencies) error {
	if deps.Viewpoint == nil {
		return errors.New("drift system requires viewpoint")
	}
	d.view = deps.Viewpoint
	return nil
}

func (d *DriftSystem) Tick(ctx context.Context, dt time.Duration) {
	sec := float32(dt.Seconds())
	d.view.Move(d.Velocity.X*sec, d.Velocity.Y*sec)
}
