package worker

import (
	"context"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/session"

	"go.uber.org/zap"
)

// SessionJanitor периодически выметает истёкшие сессии из хранилища.
type SessionJanitor struct {
	store    session.Store
	interval time.Duration
}

func NewSessionJanitor(store session.Store, interval *time.Duration) *SessionJanitor {
	var intervalToSet time.Duration
	if interval == nil {
		intervalToSet = 5 * time.Minute
	} else {
		intervalToSet = *interval
	}

	return &SessionJanitor{
		store:    store,
		interval: intervalToSet,
	}
}

func (w *SessionJanitor) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Sweep(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Очистка сессий останавливается")
			return
		}
	}
}

func (w *SessionJanitor) Sweep(ctx context.Context) {
	start := time.Now()

	removed, err := w.store.DeleteExpired(ctx)
	if err != nil {
		logger.Warn("Worker: Ошибка очистки сессий", zap.Error(err))
		return
	}

	if removed > 0 {
		logger.Info("Worker: Истёкшие сессии удалены",
			zap.Int("removed", removed),
			zap.Duration("ms", time.Since(start)))
	}
}
