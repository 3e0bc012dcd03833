package main

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdownController сохраняет измененные чанки перед выходом и логирует ошибку
func shutdownController(c shutdowner, logger *zap.SugaredLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := c.Shutdown(ctx); err != nil {
		logger.Errorf("Не все чанки сохранены: %v", err)
	}
}

func closeStorage(c io.Closer, logger *zap.SugaredLogger) {
	if err := c.Close(); err != nil {
		logger.Errorf("Ошибка закрытия хранилища: %v", err)
	}
}
