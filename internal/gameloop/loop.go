package gameloop

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Loop - главный цикл, вызывающий Tick всех зарегистрированных систем.
type Loop struct {
	systems []System
	tickDur time.Duration
	logger  *zap.SugaredLogger
}

// NewLoop создаёт цикл с заданной длительностью тика.
// Системы, которые не смогли инициализироваться, в цикл не попадают.
func NewLoop(tick time.Duration, deps Dependencies, systems ...System) *Loop {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	active := make([]System, 0, len(systems))
	for _, s := range systems {
		if err := s.Init(deps); err != nil {
			logger.Errorw("[GameLoop] init error", "system", s.Name(), "error", err)
			continue
		}
		active = append(active, s)
	}
	return &Loop{systems: active, tickDur: tick, logger: logger}
}

// Systems возвращает активные системы
func (l *Loop) Systems() []System {
	return l.systems
}

// Step выполняет один тик всех систем
func (l *Loop) Step(ctx context.Context, dt time.Duration) {
	for _, s := range l.systems {
		func(sys System) {
			defer func() {
				if r := recover(); r != nil {
					l.logger.Errorw("[GameLoop] panic", "system", sys.Name(), "panic", r)
				}
			}()
			sys.Tick(ctx, dt)
		}(s)
	}
}

// Run запускает цикл до отмены ctx.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.tickDur)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case t := <-ticker.C:
			dt := t.Sub(last)
			last = t
			l.Step(ctx, dt)
		case <-ctx.Done():
			l.logger.Info("[GameLoop] stopped")
			return
		}
	}
}
